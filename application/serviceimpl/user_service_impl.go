package serviceimpl

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/f2expert/f2expert-sub001/domain/dto"
	"github.com/f2expert/f2expert-sub001/domain/models"
	"github.com/f2expert/f2expert-sub001/domain/ports"
	"github.com/f2expert/f2expert-sub001/domain/repositories"
	"github.com/f2expert/f2expert-sub001/domain/services"
	"github.com/f2expert/f2expert-sub001/pkg/apperr"
	"github.com/f2expert/f2expert-sub001/pkg/logger"
	"github.com/f2expert/f2expert-sub001/pkg/utils"
)

const (
	msgUserNotFound       = "User not found"
	msgTrainerNotFound    = "Trainer not found"
	msgInvalidCredentials = "Invalid email or password"
)

type UserServiceImpl struct {
	userRepo  repositories.UserRepository
	storage   ports.StoragePort
	jwtSecret string
	jwtTTL    time.Duration
}

func NewUserService(userRepo repositories.UserRepository, storage ports.StoragePort, jwtSecret string, jwtTTL time.Duration) services.UserService {
	return &UserServiceImpl{
		userRepo:  userRepo,
		storage:   storage,
		jwtSecret: jwtSecret,
		jwtTTL:    jwtTTL,
	}
}

func (s *UserServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error) {
	return s.create(ctx, dto.RegisterRequestToUser(req))
}

func (s *UserServiceImpl) CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*models.User, error) {
	return s.create(ctx, dto.CreateUserRequestToUser(req))
}

// create hashes user.Password and stores the user.
func (s *UserServiceImpl) create(ctx context.Context, user *models.User) (*models.User, error) {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	if existing, _ := s.userRepo.GetByEmail(ctx, user.Email); existing != nil {
		logger.WarnContext(ctx, "Email already exists", "email", user.Email)
		return nil, apperr.Conflict("Email already exists")
	}
	if existing, _ := s.userRepo.GetByUsername(ctx, user.Username); existing != nil {
		logger.WarnContext(ctx, "Username already exists", "username", user.Username)
		return nil, apperr.Conflict("Username already exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to hash password", "error", err)
		return nil, err
	}
	user.ID = utils.NewDocumentID()
	user.Password = string(hashed)

	if err := s.userRepo.Create(ctx, user); err != nil {
		logger.ErrorContext(ctx, "Failed to create user", "error", err)
		return nil, conflict(err, "User already exists")
	}

	logger.InfoContext(ctx, "User created", "user_id", user.ID, "role", user.Role)
	return user, nil
}

func (s *UserServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			logger.WarnContext(ctx, "Login failed - email not found", "email", req.Email)
			return nil, apperr.Unauthorized(msgInvalidCredentials)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		logger.WarnContext(ctx, "Login failed - invalid password", "user_id", user.ID)
		return nil, apperr.Unauthorized(msgInvalidCredentials)
	}

	if !user.IsActive {
		logger.WarnContext(ctx, "Login failed - account disabled", "user_id", user.ID)
		return nil, apperr.Forbidden("Account is disabled")
	}

	token, expiresAt, err := utils.GenerateToken(user.ID, user.Username, user.Email, user.Role, s.jwtSecret, s.jwtTTL)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to generate JWT", "user_id", user.ID, "error", err)
		return nil, err
	}

	logger.InfoContext(ctx, "User logged in", "user_id", user.ID)
	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      *dto.UserToUserResponse(user),
	}, nil
}

func (s *UserServiceImpl) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, msgUserNotFound)
	}
	return user, nil
}

func (s *UserServiceImpl) UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*models.User, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	dto.ApplyProfileUpdate(user, req)

	if err := s.userRepo.Update(ctx, user); err != nil {
		logger.ErrorContext(ctx, "Failed to update profile", "user_id", userID, "error", err)
		return nil, err
	}

	logger.InfoContext(ctx, "Profile updated", "user_id", userID)
	return user, nil
}

func (s *UserServiceImpl) ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		logger.WarnContext(ctx, "Password change rejected - wrong current password", "user_id", userID)
		return apperr.Validation("Current password is incorrect")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashed)

	if err := s.userRepo.Update(ctx, user); err != nil {
		logger.ErrorContext(ctx, "Failed to change password", "user_id", userID, "error", err)
		return err
	}

	logger.InfoContext(ctx, "Password changed", "user_id", userID)
	return nil
}

func (s *UserServiceImpl) UpdateUser(ctx context.Context, id string, req *dto.UpdateUserRequest) (*models.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	dto.ApplyUserUpdate(user, req)

	if err := s.userRepo.Update(ctx, user); err != nil {
		logger.ErrorContext(ctx, "Failed to update user", "user_id", id, "error", err)
		return nil, err
	}

	logger.InfoContext(ctx, "User updated", "user_id", id)
	return user, nil
}

func (s *UserServiceImpl) DeleteUser(ctx context.Context, id string) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		logger.WarnContext(ctx, "Failed to delete user", "user_id", id, "error", err)
		return notFound(err, msgUserNotFound)
	}

	logger.InfoContext(ctx, "User deleted", "user_id", id)
	return nil
}

func (s *UserServiceImpl) ListUsers(ctx context.Context, query *dto.UserListQuery) ([]*models.User, int64, error) {
	return s.userRepo.List(ctx, repositories.UserFilter{
		Role:     query.Role,
		IsActive: query.IsActive,
		Search:   query.Search,
		ListOptions: repositories.ListOptions{
			Offset: query.Offset(),
			Limit:  query.Limit,
			SortBy: query.SortBy,
			Desc:   query.Desc(),
		},
	})
}

func (s *UserServiceImpl) GetTrainer(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, msgTrainerNotFound)
	}
	if !user.IsTrainer() {
		return nil, apperr.NotFound(msgTrainerNotFound)
	}
	return user, nil
}

func (s *UserServiceImpl) ListTrainers(ctx context.Context, query *dto.TrainerListQuery) ([]*models.User, int64, error) {
	return s.userRepo.List(ctx, repositories.UserFilter{
		Role:           models.RoleTrainer,
		Specialization: query.Specialization,
		Search:         query.Search,
		ListOptions: repositories.ListOptions{
			Offset: query.Offset(),
			Limit:  query.Limit,
			SortBy: query.SortBy,
			Desc:   query.Desc(),
		},
	})
}

func (s *UserServiceImpl) UploadAvatar(ctx context.Context, userID string, file io.Reader, size int64, filename, contentType string) (*models.User, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	path := utils.BuildUploadPath("users", user.ID, "avatar", filename)
	url, err := s.storage.UploadFile(ctx, file, size, path, contentType)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to upload avatar", "user_id", userID, "error", err)
		return nil, err
	}

	user.Avatar = url
	if err := s.userRepo.Update(ctx, user); err != nil {
		if delErr := s.storage.DeleteFile(ctx, path); delErr != nil {
			logger.WarnContext(ctx, "Failed to remove orphaned avatar", "path", path, "error", delErr)
		}
		return nil, err
	}

	logger.InfoContext(ctx, "Avatar uploaded", "user_id", userID, "provider", s.storage.GetProviderName())
	return user, nil
}

func (s *UserServiceImpl) EnsureAdmin(ctx context.Context, email, username, password string) (*models.User, bool, error) {
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, false, err
	}

	user, err := s.create(ctx, &models.User{
		Email:     email,
		Username:  username,
		Password:  password,
		FirstName: "Admin",
		Role:      models.RoleAdmin,
		IsActive:  true,
	})
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}
