package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	hub "github.com/f2expert/f2expert-sub001/infrastructure/websocket"
	"github.com/f2expert/f2expert-sub001/interfaces/api/handlers"
	"github.com/f2expert/f2expert-sub001/interfaces/api/middleware"
	websocketHandler "github.com/f2expert/f2expert-sub001/interfaces/api/websocket"
)

func SetupWebSocketRoutes(app *fiber.App, h *handlers.Handlers, wsHub *hub.Hub) {
	wsHandler := websocketHandler.NewWebSocketHandler(wsHub, h.JWTSecret)

	// WebSocket with optional authentication
	app.Use("/ws", middleware.Optional(h.JWTSecret), wsHandler.WebSocketUpgrade)
	app.Get("/ws", websocket.New(wsHandler.HandleWebSocket))
}
