package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/f2expert/f2expert-sub001/domain/dto"
	"github.com/f2expert/f2expert-sub001/domain/models"
	"github.com/f2expert/f2expert-sub001/interfaces/api/handlers"
	"github.com/f2expert/f2expert-sub001/interfaces/api/middleware"
	"github.com/f2expert/f2expert-sub001/pkg/validation"
)

func SetupUserRoutes(api fiber.Router, h *handlers.Handlers) {
	users := api.Group("/users")
	users.Use(middleware.Protected(h.JWTSecret))

	// Self-service, registered before /:id
	users.Get("/profile", h.UserHandler.GetProfile)
	users.Put("/profile", validation.Body[dto.UpdateProfileRequest](), h.UserHandler.UpdateProfile)

	adminOnly := middleware.RequireRoles(models.RoleAdmin)
	users.Get("/", adminOnly, validation.Query[dto.UserListQuery](validation.QueryReplace), h.UserHandler.ListUsers)
	users.Post("/", adminOnly, validation.Body[dto.CreateUserRequest](validation.DisallowUnknown()), h.UserHandler.CreateUser)
	users.Get("/:id", adminOnly, validation.Params[dto.IDParams](), h.UserHandler.GetUser)
	users.Put("/:id", adminOnly, validation.Params[dto.IDParams](), validation.Body[dto.UpdateUserRequest](), h.UserHandler.UpdateUser)
	users.Delete("/:id", adminOnly, validation.Params[dto.IDParams](), h.UserHandler.DeleteUser)
}

func SetupTrainerRoutes(api fiber.Router, h *handlers.Handlers) {
	trainers := api.Group("/trainers")
	trainers.Use(middleware.Protected(h.JWTSecret))

	trainers.Get("/", middleware.RequireRoles(models.RoleAdmin),
		validation.Query[dto.TrainerListQuery](validation.QueryReplace),
		h.UserHandler.ListTrainers,
	)
	trainers.Get("/:id", validation.Params[dto.IDParams](), h.UserHandler.GetTrainer)
	trainers.Get("/:id/schedule",
		validation.Params[dto.IDParams](),
		validation.Query[dto.ScheduleClassListQuery](validation.QueryReplace),
		h.ScheduleClassHandler.TrainerSchedule,
	)
	trainers.Post("/:id/avatar", middleware.RequireRoles(models.RoleAdmin, models.RoleTrainer),
		validation.Params[dto.IDParams](),
		h.UserHandler.UploadTrainerAvatar,
	)
}
