package services

import (
	"context"
	"io"

	"github.com/f2expert/f2expert-sub001/domain/dto"
	"github.com/f2expert/f2expert-sub001/domain/models"
)

type UserService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*models.User, error)
	ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error

	// Admin
	CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*models.User, error)
	UpdateUser(ctx context.Context, id string, req *dto.UpdateUserRequest) (*models.User, error)
	DeleteUser(ctx context.Context, id string) error
	ListUsers(ctx context.Context, query *dto.UserListQuery) ([]*models.User, int64, error)

	// Trainers
	GetTrainer(ctx context.Context, id string) (*models.User, error)
	ListTrainers(ctx context.Context, query *dto.TrainerListQuery) ([]*models.User, int64, error)
	UploadAvatar(ctx context.Context, userID string, file io.Reader, size int64, filename, contentType string) (*models.User, error)

	// EnsureAdmin creates the admin account unless the email is taken.
	EnsureAdmin(ctx context.Context, email, username, password string) (*models.User, bool, error)
}
