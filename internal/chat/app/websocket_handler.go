package app

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"community_chat_service/internal/chat/domain"
	"community_chat_service/pkg/logger"
	"community_chat_service/pkg/middlewares"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

// ChatWebsocketHandler owns one authenticated connection's event loop
type ChatWebsocketHandler struct {
	hub        *Hub
	dispatchUC *DispatchUseCase
}

// NewChatWebsocketHandler create ChatWebsocketHandler
func NewChatWebsocketHandler(hub *Hub, dispatchUC *DispatchUseCase) *ChatWebsocketHandler {
	return &ChatWebsocketHandler{
		hub:        hub,
		dispatchUC: dispatchUC,
	}
}

// HandleConnection is the entry point for an upgraded websocket connection.
// The JWT middleware has already validated the handshake; the user id read
// here is immutable for the connection's lifetime.
func (h *ChatWebsocketHandler) HandleConnection(ctx context.Context, conn *websocket.Conn) {
	userID, ok := conn.Locals(middlewares.TokenUserID).(string)
	if !ok || userID == "" {
		// Cannot happen behind the middleware; close rather than serve an
		// anonymous connection.
		logger.Log.Error("websocket connection without identity")
		conn.Close()
		return
	}
	logger.Log.Info("websocket connected", zap.String("user_id", userID))

	client := NewClient(conn, userID)

	defer func() {
		// Disconnect releases every room membership.
		h.hub.Drop(client)
		logger.Log.Info("websocket closed", zap.String("user_id", userID))
		client.Close()
	}()

	conn.SetPingHandler(func(appData string) error {
		return conn.WriteControl(
			websocket.PongMessage,
			[]byte(appData),
			time.Now().Add(time.Second),
		)
	})

	for {
		mt, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
			) {
				logger.Log.Info("connection closed", zap.String("user_id", userID))
			} else {
				logger.Log.Errorf("websocket read error:", err)
			}
			return
		}
		h.execWebsocketAction(ctx, client, mt, message)
	}
}

func (h *ChatWebsocketHandler) execWebsocketAction(ctx context.Context, client *Client, mt int, msg []byte) {
	switch mt {
	case websocket.TextMessage:
		h.textMessageAction(ctx, client, msg)
	default:
		client.SendError("unknown message type")
	}
}

func (h *ChatWebsocketHandler) textMessageAction(ctx context.Context, client *Client, msg []byte) {
	var req domain.WSRequest
	if err := json.Unmarshal(msg, &req); err != nil {
		client.SendError("malformed request")
		return
	}

	switch domain.Action(req.Action) {
	case domain.JoinCommunity:
		if req.CommunityID == "" {
			client.SendError("community_id is required")
			return
		}
		// Idempotent; each call yields its own confirmation.
		h.hub.Join(client, req.CommunityID)
		client.Send(domain.WSResponse{
			Action:  string(domain.JoinedCommunity),
			Success: true,
			Payload: map[string]interface{}{"community_id": req.CommunityID},
		})

	case domain.LeaveCommunity:
		if req.CommunityID == "" {
			client.SendError("community_id is required")
			return
		}
		h.hub.Leave(client, req.CommunityID)
		client.Send(domain.WSResponse{
			Action:  string(domain.LeftCommunity),
			Success: true,
			Payload: map[string]interface{}{"community_id": req.CommunityID},
		})

	case domain.NewMessage:
		h.newMessageAction(ctx, client, req)

	default:
		client.SendError("unknown action")
	}
}

// newMessageAction runs the dispatch pipeline and maps its outcome to
// sender-only events. Approved messages come back to the sender through the
// room fan-out, not from here.
func (h *ChatWebsocketHandler) newMessageAction(ctx context.Context, client *Client, req domain.WSRequest) {
	verdict, err := h.dispatchUC.Execute(ctx, client.UserID(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidMessage) {
			client.SendError(err.Error())
			return
		}
		logger.Log.Error("dispatch err ",
			zap.String("user_id", client.UserID()),
			zap.String("community_id", req.CommunityID),
			zap.Error(err),
		)
		client.SendError("message could not be delivered")
		return
	}

	if !verdict.Allowed {
		client.Send(domain.WSResponse{
			Action:  string(domain.MessageBlocked),
			Success: false,
			Payload: map[string]interface{}{
				"community_id": req.CommunityID,
				"reason":       verdict.Category,
			},
		})
	}
}
