package serviceimpl

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f2expert/f2expert-sub001/domain/dto"
	"github.com/f2expert/f2expert-sub001/domain/models"
	"github.com/f2expert/f2expert-sub001/domain/services"
	"github.com/f2expert/f2expert-sub001/pkg/apperr"
	"github.com/f2expert/f2expert-sub001/pkg/utils"
)

const testSecret = "test-secret"

func (f *fixture) userService() services.UserService {
	return NewUserService(f.users, f.storage, testSecret, time.Hour)
}

func register(t *testing.T, f *fixture, svc services.UserService, email, username string) *models.User {
	t.Helper()
	user, err := svc.Register(f.ctx, &dto.RegisterRequest{
		Email: email, Username: username, Password: "password123", FirstName: "Test",
	})
	require.NoError(t, err)
	return user
}

func TestUserService_RegisterHashesAndRejectsDuplicates(t *testing.T) {
	f := newFixture()
	svc := f.userService()

	user := register(t, f, svc, " Amy@LMS.test ", "amy")
	assert.Equal(t, "amy@lms.test", user.Email)
	assert.Equal(t, models.RoleStudent, user.Role)
	assert.NotEqual(t, "password123", user.Password)
	assert.True(t, utils.IsDocumentID(user.ID))

	_, err := svc.Register(f.ctx, &dto.RegisterRequest{Email: "amy@lms.test", Username: "amy2", Password: "password123", FirstName: "A"})
	requireKind(t, err, apperr.KindConflict)
	assert.Equal(t, "Email already exists", apperr.Message(err))

	_, err = svc.Register(f.ctx, &dto.RegisterRequest{Email: "other@lms.test", Username: "amy", Password: "password123", FirstName: "A"})
	requireKind(t, err, apperr.KindConflict)
	assert.Equal(t, "Username already exists", apperr.Message(err))
}

func TestUserService_Login(t *testing.T) {
	f := newFixture()
	svc := f.userService()
	user := register(t, f, svc, "amy@lms.test", "amy")

	resp, err := svc.Login(f.ctx, &dto.LoginRequest{Email: "amy@lms.test", Password: "password123"})
	require.NoError(t, err)
	claims, err := utils.ValidateToken(resp.Token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, models.RoleStudent, claims.Role)
	assert.Equal(t, user.ID, resp.User.ID)

	_, err = svc.Login(f.ctx, &dto.LoginRequest{Email: "amy@lms.test", Password: "wrong-password"})
	requireKind(t, err, apperr.KindUnauthorized)
	_, err = svc.Login(f.ctx, &dto.LoginRequest{Email: "nobody@lms.test", Password: "password123"})
	requireKind(t, err, apperr.KindUnauthorized)

	inactive := false
	_, err = svc.UpdateUser(f.ctx, user.ID, &dto.UpdateUserRequest{IsActive: &inactive})
	require.NoError(t, err)
	_, err = svc.Login(f.ctx, &dto.LoginRequest{Email: "amy@lms.test", Password: "password123"})
	requireKind(t, err, apperr.KindForbidden)
}

func TestUserService_ChangePassword(t *testing.T) {
	f := newFixture()
	svc := f.userService()
	user := register(t, f, svc, "amy@lms.test", "amy")

	err := svc.ChangePassword(f.ctx, user.ID, &dto.ChangePasswordRequest{
		CurrentPassword: "nope", NewPassword: "newpassword1", ConfirmPassword: "newpassword1",
	})
	requireKind(t, err, apperr.KindValidation)

	require.NoError(t, svc.ChangePassword(f.ctx, user.ID, &dto.ChangePasswordRequest{
		CurrentPassword: "password123", NewPassword: "newpassword1", ConfirmPassword: "newpassword1",
	}))
	_, err = svc.Login(f.ctx, &dto.LoginRequest{Email: "amy@lms.test", Password: "newpassword1"})
	require.NoError(t, err)
}

func TestUserService_Trainers(t *testing.T) {
	f := newFixture()
	svc := f.userService()
	trainer, err := svc.CreateUser(f.ctx, &dto.CreateUserRequest{
		Email: "tom@lms.test", Username: "tom", Password: "password123", FirstName: "Tom",
		Role: models.RoleTrainer, Specialization: "Golang",
	})
	require.NoError(t, err)
	student := register(t, f, svc, "amy@lms.test", "amy")

	got, err := svc.GetTrainer(f.ctx, trainer.ID)
	require.NoError(t, err)
	assert.Equal(t, "Golang", got.Specialization)

	_, err = svc.GetTrainer(f.ctx, student.ID)
	requireKind(t, err, apperr.KindNotFound)

	query := &dto.TrainerListQuery{Specialization: "go"}
	query.ApplyDefaults()
	trainers, total, err := svc.ListTrainers(f.ctx, query)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, trainer.ID, trainers[0].ID)

	updated, err := svc.UploadAvatar(f.ctx, trainer.ID, strings.NewReader("img"), 3, "me.png", "image/png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(updated.Avatar, "https://cdn.test/users/"+trainer.ID+"/avatar/"))
}

func TestUserService_EnsureAdminIsIdempotent(t *testing.T) {
	f := newFixture()
	svc := f.userService()

	admin, created, err := svc.EnsureAdmin(f.ctx, "admin@lms.test", "admin", "password123")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, models.RoleAdmin, admin.Role)

	again, created, err := svc.EnsureAdmin(f.ctx, "admin@lms.test", "admin", "password123")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, admin.ID, again.ID)
}

func TestUserService_DeleteUser(t *testing.T) {
	f := newFixture()
	svc := f.userService()
	user := register(t, f, svc, "amy@lms.test", "amy")

	require.NoError(t, svc.DeleteUser(f.ctx, user.ID))
	_, err := svc.GetByID(f.ctx, user.ID)
	requireKind(t, err, apperr.KindNotFound)
	requireKind(t, svc.DeleteUser(f.ctx, user.ID), apperr.KindNotFound)
}
