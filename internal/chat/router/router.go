package router

import (
	"context"

	"community_chat_service/internal/chat/app"
	"community_chat_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// RegisterRoutes mounts the chat websocket namespace. The JWT middleware
// runs against the upgrade request, so an invalid or missing token refuses
// the handshake before any room logic exists for the connection.
func RegisterRoutes(r *fiber.App, chatWebsocket *app.ChatWebsocketHandler) {
	r.Use(middlewares.JWTMiddleware())

	r.Get("/ws/chat", websocket.New(func(c *websocket.Conn) {
		chatWebsocket.HandleConnection(context.Background(), c)
	}))
}
