package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/f2expert/f2expert-sub001/infrastructure/websocket"
	"github.com/f2expert/f2expert-sub001/interfaces/api/handlers"
)

func SetupRoutes(app *fiber.App, h *handlers.Handlers, hub *websocket.Hub) {
	// Setup health and root routes
	SetupHealthRoutes(app, h)

	// API version group
	api := app.Group("/api/v1")

	SetupAuthRoutes(api, h)
	SetupUserRoutes(api, h)
	SetupTrainerRoutes(api, h)
	SetupCourseRoutes(api, h)
	SetupReviewRoutes(api, h)
	SetupScheduleClassRoutes(api, h)
	SetupTrainerSalaryRoutes(api, h)
	SetupMenuRoutes(api, h)

	// WebSocket lives on the app, not the api group
	if hub != nil {
		SetupWebSocketRoutes(app, h, hub)
	}
}
