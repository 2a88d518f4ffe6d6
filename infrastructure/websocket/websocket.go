package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/f2expert/f2expert-sub001/domain/ports"
	"github.com/f2expert/f2expert-sub001/pkg/logger"
)

var ErrHubClosed = errors.New("websocket hub closed")

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	WriteJSON(v any) error
	Close() error
}

type Message struct {
	Type   string `json:"type"`
	Data   any    `json:"data"`
	RoomID string `json:"roomId,omitempty"`
}

type BroadcastMessage struct {
	Message Message
	RoomID  string
	UserID  string
}

type client struct {
	conn   Conn
	userID string
	roomID string
	writeM sync.Mutex
}

func (c *client) send(message Message) error {
	c.writeM.Lock()
	defer c.writeM.Unlock()
	return c.conn.WriteJSON(message)
}

// Hub tracks connected clients and the rooms they listen to. A user holds
// at most one connection; a connection is in at most one room.
type Hub struct {
	clients         map[Conn]*client
	userConnections map[string]Conn
	rooms           map[string]map[Conn]bool
	register        chan *client
	unregister      chan Conn
	broadcast       chan BroadcastMessage
	done            chan struct{}
	closeOnce       sync.Once
	mutex           sync.RWMutex
}

var _ ports.EventPublisher = (*Hub)(nil)

// NewHub starts a hub. Close stops it.
func NewHub() *Hub {
	h := &Hub{
		clients:         make(map[Conn]*client),
		userConnections: make(map[string]Conn),
		rooms:           make(map[string]map[Conn]bool),
		register:        make(chan *client),
		unregister:      make(chan Conn),
		broadcast:       make(chan BroadcastMessage, 64),
		done:            make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case <-h.done:
			return

		case c := <-h.register:
			h.mutex.Lock()
			// a reconnecting user replaces their old connection
			if old, exists := h.userConnections[c.userID]; exists {
				h.removeLocked(old)
			}
			h.clients[c.conn] = c
			h.userConnections[c.userID] = c.conn
			if c.roomID != "" {
				h.joinLocked(c, c.roomID)
			}
			h.mutex.Unlock()
			logger.Debug("WebSocket client connected", "user_id", c.userID, "room_id", c.roomID)

		case conn := <-h.unregister:
			h.mutex.Lock()
			h.removeLocked(conn)
			h.mutex.Unlock()

		case message := <-h.broadcast:
			h.deliver(message)
		}
	}
}

func (h *Hub) deliver(message BroadcastMessage) {
	h.mutex.RLock()
	var targets []*client
	switch {
	case message.RoomID != "":
		for conn := range h.rooms[message.RoomID] {
			targets = append(targets, h.clients[conn])
		}
	case message.UserID != "":
		if conn, ok := h.userConnections[message.UserID]; ok {
			targets = append(targets, h.clients[conn])
		}
	default:
		for _, c := range h.clients {
			targets = append(targets, c)
		}
	}
	h.mutex.RUnlock()

	var failed []Conn
	for _, c := range targets {
		if err := c.send(message.Message); err != nil {
			logger.Warn("WebSocket send failed", "user_id", c.userID, "error", err)
			failed = append(failed, c.conn)
		}
	}
	if len(failed) > 0 {
		h.mutex.Lock()
		for _, conn := range failed {
			h.removeLocked(conn)
		}
		h.mutex.Unlock()
	}
}

func (h *Hub) joinLocked(c *client, roomID string) {
	h.leaveLocked(c)
	c.roomID = roomID
	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[Conn]bool)
	}
	h.rooms[roomID][c.conn] = true
}

func (h *Hub) leaveLocked(c *client) {
	if c.roomID == "" {
		return
	}
	if members := h.rooms[c.roomID]; members != nil {
		delete(members, c.conn)
		if len(members) == 0 {
			delete(h.rooms, c.roomID)
		}
	}
	c.roomID = ""
}

func (h *Hub) removeLocked(conn Conn) {
	c, ok := h.clients[conn]
	if !ok {
		return
	}
	h.leaveLocked(c)
	delete(h.clients, conn)
	if current, exists := h.userConnections[c.userID]; exists && current == conn {
		delete(h.userConnections, c.userID)
	}
	conn.Close()
	logger.Debug("WebSocket client disconnected", "user_id", c.userID)
}

func (h *Hub) RegisterClient(conn Conn, userID, roomID string) {
	select {
	case h.register <- &client{conn: conn, userID: userID, roomID: roomID}:
	case <-h.done:
	}
}

func (h *Hub) UnregisterClient(conn Conn) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// Publish sends a domain event to the members of its room. Events without
// a room are not broadcast.
func (h *Hub) Publish(ctx context.Context, event ports.DomainEvent) error {
	if event.Room == "" {
		return nil
	}
	return h.send(ctx, BroadcastMessage{
		Message: Message{Type: event.Type, Data: event, RoomID: event.Room},
		RoomID:  event.Room,
	})
}

func (h *Hub) BroadcastToRoom(ctx context.Context, roomID, messageType string, data any) error {
	return h.send(ctx, BroadcastMessage{
		Message: Message{Type: messageType, Data: data, RoomID: roomID},
		RoomID:  roomID,
	})
}

func (h *Hub) BroadcastToUser(ctx context.Context, userID, messageType string, data any) error {
	return h.send(ctx, BroadcastMessage{
		Message: Message{Type: messageType, Data: data},
		UserID:  userID,
	})
}

func (h *Hub) send(ctx context.Context, message BroadcastMessage) error {
	select {
	case h.broadcast <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-h.done:
		return ErrHubClosed
	}
}

func (h *Hub) GetRoomClients(roomID string) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.rooms[roomID])
}

func (h *Hub) GetTotalClients() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// Close disconnects every client and stops the hub.
func (h *Hub) Close() {
	h.closeOnce.Do(func() {
		close(h.done)
		h.mutex.Lock()
		for conn := range h.clients {
			h.removeLocked(conn)
		}
		h.mutex.Unlock()
	})
}

// HandleMessage answers one client frame: ping, join_room or leave_room.
// Only class rooms can be joined.
func (h *Hub) HandleMessage(conn Conn, data []byte) {
	h.mutex.RLock()
	c, ok := h.clients[conn]
	h.mutex.RUnlock()
	if !ok {
		return
	}

	var message Message
	if err := json.Unmarshal(data, &message); err != nil {
		c.send(Message{Type: "error", Data: "Invalid message"})
		return
	}

	switch message.Type {
	case "ping":
		c.send(Message{Type: "pong", Data: "pong"})

	case "join_room":
		roomID := roomFromData(message.Data)
		if !strings.HasPrefix(roomID, ports.ClassRoom("")) || roomID == ports.ClassRoom("") {
			c.send(Message{Type: "error", Data: "Invalid room"})
			return
		}
		h.mutex.Lock()
		h.joinLocked(c, roomID)
		h.mutex.Unlock()
		c.send(Message{
			Type: "room_joined",
			Data: map[string]any{
				"roomId":  roomID,
				"message": fmt.Sprintf("Joined room %s", roomID),
			},
			RoomID: roomID,
		})

	case "leave_room":
		h.mutex.Lock()
		h.leaveLocked(c)
		h.mutex.Unlock()
		c.send(Message{Type: "room_left", Data: "Left room successfully"})

	default:
		c.send(Message{Type: "error", Data: "Unknown message type"})
	}
}

func roomFromData(data any) string {
	fields, ok := data.(map[string]any)
	if !ok {
		return ""
	}
	roomID, _ := fields["roomId"].(string)
	return roomID
}
