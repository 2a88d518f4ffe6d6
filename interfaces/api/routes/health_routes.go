package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/f2expert/f2expert-sub001/interfaces/api/handlers"
)

func SetupHealthRoutes(app *fiber.App, h *handlers.Handlers) {
	app.Get("/health", h.HealthHandler.Health)
	app.Get("/", h.HealthHandler.Root)
}
