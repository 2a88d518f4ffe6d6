package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/f2expert/f2expert-sub001/domain/dto"
	"github.com/f2expert/f2expert-sub001/interfaces/api/handlers"
	"github.com/f2expert/f2expert-sub001/interfaces/api/middleware"
	"github.com/f2expert/f2expert-sub001/pkg/validation"
)

func SetupAuthRoutes(api fiber.Router, h *handlers.Handlers) {
	auth := api.Group("/auth")

	auth.Post("/register", validation.Body[dto.RegisterRequest](validation.DisallowUnknown()), h.UserHandler.Register)
	auth.Post("/login", validation.Body[dto.LoginRequest](), h.UserHandler.Login)

	// Protected routes - require authentication
	auth.Get("/me", middleware.Protected(h.JWTSecret), h.UserHandler.GetProfile)
	auth.Put("/password", middleware.Protected(h.JWTSecret),
		validation.Body[dto.ChangePasswordRequest](),
		h.UserHandler.ChangePassword,
	)
}
