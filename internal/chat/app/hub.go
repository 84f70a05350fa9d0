package app

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"community_chat_service/internal/chat/domain"
	"community_chat_service/internal/chat/repository"
	"community_chat_service/pkg/logger"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pingPeriod     = 10 * time.Minute
	sendBufferSize = 128
)

// Conn is the subset of the websocket connection the hub writes to.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Client one authenticated websocket connection. The identity is derived
// from the validated access token at handshake time and never changes.
// Outbound frames go through a buffered channel drained by a single write
// pump, so a peer that stops reading stalls only its own connection.
type Client struct {
	conn   Conn
	userID string
	send   chan []byte
	closed chan struct{}
	once   sync.Once
}

// NewClient create a Client and start its write pump
func NewClient(conn Conn, userID string) *Client {
	c := &Client{
		conn:   conn,
		userID: userID,
		send:   make(chan []byte, sendBufferSize),
		closed: make(chan struct{}),
	}
	go c.writePump()
	return c
}

// UserID returns the authenticated user id
func (c *Client) UserID() string {
	return c.userID
}

// Close terminates the connection and stops the write pump. Idempotent.
func (c *Client) Close() {
	c.once.Do(func() {
		close(c.closed)
		if err := c.conn.Close(); err != nil {
			logger.Log.Errorf("close connection error:", err)
		}
	})
}

// Send marshals the response and enqueues it for the write pump. A
// connection whose buffer is full is dropped instead of blocking the
// caller, so one stalled peer never delays the rest of a room.
func (c *Client) Send(resp domain.WSResponse) {
	b, err := json.Marshal(resp)
	if err != nil {
		logger.Log.Errorf("marshal response error:", err)
		return
	}

	select {
	case <-c.closed:
	case c.send <- b:
	default:
		logger.Log.Warn("send buffer full, dropping connection", zap.String("user_id", c.userID))
		c.Close()
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.closed:
			return
		case b := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
				logger.Log.Errorf("write message error:", err)
				c.Close()
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				logger.Log.Errorf("ping error:", err)
				c.Close()
				return
			}
		}
	}
}

// SendError emits a generic failure notice to this connection only
func (c *Client) SendError(errorMsg string) {
	c.Send(domain.WSResponse{
		Action:  string(domain.ErrorEvent),
		Success: false,
		Payload: map[string]interface{}{
			"message": errorMsg,
		},
	})
}

// Hub tracks which connections are members of which community rooms.
// Rooms have no independent lifecycle: one exists while it has at least one
// member. While a room has local members the hub keeps one pub/sub bridge
// subscription for it, so approved messages published by any node reach
// every local member.
type Hub struct {
	mu      sync.RWMutex
	rooms   map[string]map[*Client]bool
	bridges map[string]context.CancelFunc
	pubsub  repository.MessagePubSub
}

// NewHub create a Hub
func NewHub(pubsub repository.MessagePubSub) *Hub {
	return &Hub{
		rooms:   make(map[string]map[*Client]bool),
		bridges: make(map[string]context.CancelFunc),
		pubsub:  pubsub,
	}
}

// Join adds the client to the named room. Idempotent, never fails: any
// authenticated connection may join any room by identifier.
func (h *Hub) Join(client *Client, communityID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[communityID]
	if !ok {
		room = make(map[*Client]bool)
		h.rooms[communityID] = room
		h.startBridge(communityID)
	}
	room[client] = true
}

// Leave removes the client from the named room. Idempotent, never fails.
func (h *Hub) Leave(client *Client, communityID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client, communityID)
}

// Drop releases every room membership of the client, on disconnect.
func (h *Hub) Drop(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for communityID, room := range h.rooms {
		if room[client] {
			h.removeLocked(client, communityID)
		}
	}
}

// IsMember reports whether the client is currently in the room
func (h *Hub) IsMember(client *Client, communityID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rooms[communityID][client]
}

// RoomSize returns the number of local members in the room
func (h *Hub) RoomSize(communityID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[communityID])
}

func (h *Hub) removeLocked(client *Client, communityID string) {
	room, ok := h.rooms[communityID]
	if !ok {
		return
	}
	delete(room, client)

	if len(room) == 0 {
		delete(h.rooms, communityID)
		if cancel, ok := h.bridges[communityID]; ok {
			cancel()
			delete(h.bridges, communityID)
		}
	}
}

// startBridge opens the pub/sub subscription for a room. Caller holds h.mu.
func (h *Hub) startBridge(communityID string) {
	ctx, cancel := context.WithCancel(context.Background())
	h.bridges[communityID] = cancel

	if err := h.pubsub.Subscribe(ctx, communityID, func(msg domain.EnrichedMessage) {
		h.deliver(communityID, msg)
	}); err != nil {
		logger.Log.Error("room bridge subscribe err :", zap.String("community_id", communityID), zap.Error(err))
	}
}

// deliver fans an approved message out to every local member of the room,
// the sender included.
func (h *Hub) deliver(communityID string, msg domain.EnrichedMessage) {
	h.mu.RLock()
	members := make([]*Client, 0, len(h.rooms[communityID]))
	for client := range h.rooms[communityID] {
		members = append(members, client)
	}
	h.mu.RUnlock()

	payload := map[string]interface{}{
		"community_id": msg.CommunityID,
		"content":      msg.Content,
		"created_at":   msg.CreatedAt,
		"username":     msg.Username,
		"banner":       msg.Banner,
	}
	if msg.UserImage != "" {
		payload["user_image"] = msg.UserImage
	}

	resp := domain.WSResponse{
		Action:  string(domain.MessageReceived),
		Success: true,
		Payload: payload,
	}

	for _, client := range members {
		client.Send(resp)
	}
}
