package websocket

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/f2expert/f2expert-sub001/domain/ports"
	hub "github.com/f2expert/f2expert-sub001/infrastructure/websocket"
	"github.com/f2expert/f2expert-sub001/pkg/logger"
	"github.com/f2expert/f2expert-sub001/pkg/reqctx"
	"github.com/f2expert/f2expert-sub001/pkg/utils"
)

const userIDLocal = "ws_user_id"

type WebSocketHandler struct {
	hub       *hub.Hub
	jwtSecret string
}

func NewWebSocketHandler(h *hub.Hub, jwtSecret string) *WebSocketHandler {
	return &WebSocketHandler{hub: h, jwtSecret: jwtSecret}
}

// WebSocketUpgrade resolves the caller before the upgrade. Browsers cannot
// set headers on a websocket handshake, so a ?token= query is accepted too.
func (h *WebSocketHandler) WebSocketUpgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	var userID string
	if identity := reqctx.CurrentIdentity(c); identity != nil {
		userID = identity.UserID
	} else if token := c.Query("token"); token != "" {
		if claims, err := utils.ValidateToken(token, h.jwtSecret); err == nil {
			userID = claims.UserID
		}
	}
	c.Locals(userIDLocal, userID)

	return c.Next()
}

func (h *WebSocketHandler) HandleWebSocket(c *websocket.Conn) {
	userID, _ := c.Locals(userIDLocal).(string)
	if userID == "" {
		userID = "anon-" + uuid.New().String()
		logger.Debug("WebSocket: anonymous client connected", "user_id", userID)
	} else {
		logger.Debug("WebSocket: authenticated client connected", "user_id", userID)
	}

	roomID := c.Query("room", "")
	if !strings.HasPrefix(roomID, ports.ClassRoom("")) {
		roomID = ""
	}

	h.hub.RegisterClient(c, userID, roomID)
	defer h.hub.UnregisterClient(c)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			logger.Debug("WebSocket read ended", "user_id", userID, "error", err)
			break
		}
		if messageType != websocket.TextMessage {
			continue
		}

		h.hub.HandleMessage(c, message)
	}
}
