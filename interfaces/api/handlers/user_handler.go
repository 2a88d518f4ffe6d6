package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/f2expert/f2expert-sub001/domain/dto"
	"github.com/f2expert/f2expert-sub001/domain/services"
	"github.com/f2expert/f2expert-sub001/pkg/apperr"
	"github.com/f2expert/f2expert-sub001/pkg/logger"
	"github.com/f2expert/f2expert-sub001/pkg/utils"
	"github.com/f2expert/f2expert-sub001/pkg/validation"
)

type UserHandler struct {
	userService   services.UserService
	maxUploadSize int64
}

func NewUserHandler(userService services.UserService, maxUploadSize int64) *UserHandler {
	return &UserHandler{
		userService:   userService,
		maxUploadSize: maxUploadSize,
	}
}

func (h *UserHandler) Register(c *fiber.Ctx) error {
	ctx := c.UserContext()

	req, ok := body[dto.RegisterRequest](c)
	if !ok {
		return utils.BadRequestResponse(c, validation.MsgBodyRequired)
	}

	logger.InfoContext(ctx, "Registration attempt", "email", req.Email, "username", req.Username)

	user, err := h.userService.Register(ctx, req)
	if err != nil {
		return utils.HandleError(c, err)
	}

	return utils.CreatedResponse(c, dto.UserToUserResponse(user), "User registered successfully")
}

func (h *UserHandler) Login(c *fiber.Ctx) error {
	ctx := c.UserContext()

	req, ok := body[dto.LoginRequest](c)
	if !ok {
		return utils.BadRequestResponse(c, validation.MsgBodyRequired)
	}

	resp, err := h.userService.Login(ctx, req)
	if err != nil {
		logger.WarnContext(ctx, "Login failed", "email", req.Email, "reason", err.Error())
		return utils.HandleError(c, err)
	}

	return utils.SuccessResponse(c, resp, "Login successful")
}

func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	user, err := h.userService.GetByID(c.UserContext(), actor(c).UserID)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, dto.UserToUserResponse(user), "Profile retrieved successfully")
}

func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	ctx := c.UserContext()

	req, ok := body[dto.UpdateProfileRequest](c)
	if !ok {
		return utils.BadRequestResponse(c, validation.MsgBodyRequired)
	}

	userID := actor(c).UserID
	user, err := h.userService.UpdateProfile(ctx, userID, req)
	if err != nil {
		return utils.HandleError(c, err)
	}

	return utils.SuccessResponse(c, dto.UserToUserResponse(user), "Profile updated successfully")
}

func (h *UserHandler) ChangePassword(c *fiber.Ctx) error {
	ctx := c.UserContext()

	req, ok := body[dto.ChangePasswordRequest](c)
	if !ok {
		return utils.BadRequestResponse(c, validation.MsgBodyRequired)
	}

	if err := h.userService.ChangePassword(ctx, actor(c).UserID, req); err != nil {
		return utils.HandleError(c, err)
	}

	return utils.SuccessResponse(c, nil, "Password changed successfully")
}

// ========== Admin ==========

func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	ctx := c.UserContext()

	req, ok := body[dto.CreateUserRequest](c)
	if !ok {
		return utils.BadRequestResponse(c, validation.MsgBodyRequired)
	}

	user, err := h.userService.CreateUser(ctx, req)
	if err != nil {
		return utils.HandleError(c, err)
	}

	return utils.CreatedResponse(c, dto.UserToUserResponse(user), "User created successfully")
}

func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	user, err := h.userService.GetByID(c.UserContext(), pathID(c))
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, dto.UserToUserResponse(user), "User retrieved successfully")
}

func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	ctx := c.UserContext()

	req, ok := body[dto.UpdateUserRequest](c)
	if !ok {
		return utils.BadRequestResponse(c, validation.MsgBodyRequired)
	}

	user, err := h.userService.UpdateUser(ctx, pathID(c), req)
	if err != nil {
		return utils.HandleError(c, err)
	}

	return utils.SuccessResponse(c, dto.UserToUserResponse(user), "User updated successfully")
}

func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id := pathID(c)
	if id == actor(c).UserID {
		return utils.HandleError(c, apperr.Validation("You cannot delete your own account"))
	}

	if err := h.userService.DeleteUser(ctx, id); err != nil {
		return utils.HandleError(c, err)
	}

	return utils.NoContentResponse(c)
}

func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	q := query[dto.UserListQuery](c)

	users, total, err := h.userService.ListUsers(c.UserContext(), q)
	if err != nil {
		return utils.HandleError(c, err)
	}

	return utils.PaginatedSuccessResponse(c, dto.UsersToUserResponses(users), total, q.Page, q.Limit, "Users retrieved successfully")
}

// ========== Trainers ==========

func (h *UserHandler) ListTrainers(c *fiber.Ctx) error {
	q := query[dto.TrainerListQuery](c)

	trainers, total, err := h.userService.ListTrainers(c.UserContext(), q)
	if err != nil {
		return utils.HandleError(c, err)
	}

	return utils.PaginatedSuccessResponse(c, dto.UsersToUserResponses(trainers), total, q.Page, q.Limit, "Trainers retrieved successfully")
}

func (h *UserHandler) GetTrainer(c *fiber.Ctx) error {
	trainer, err := h.userService.GetTrainer(c.UserContext(), pathID(c))
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, dto.UserToUserResponse(trainer), "Trainer retrieved successfully")
}

// UploadTrainerAvatar accepts a multipart "file" part. Trainers may only
// replace their own avatar.
func (h *UserHandler) UploadTrainerAvatar(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id := pathID(c)
	caller := actor(c)
	if !caller.IsAdmin() && caller.UserID != id {
		return utils.ForbiddenResponse(c, "You can only change your own avatar")
	}

	if _, err := h.userService.GetTrainer(ctx, id); err != nil {
		return utils.HandleError(c, err)
	}

	header, file, err := formFile(c, h.maxUploadSize)
	if err != nil {
		return utils.HandleError(c, err)
	}
	defer file.Close()

	trainer, err := h.userService.UploadAvatar(ctx, id, file, header.Size, header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		return utils.HandleError(c, err)
	}

	return utils.SuccessResponse(c, dto.UserToUserResponse(trainer), "Avatar uploaded successfully")
}
