package router

import (
	"community_chat_service/internal/member/app"
	"community_chat_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

// RegisterRoutes mounts the member routes
// @title Community Chat Service API
// @version 1.0
// @description Member, community discovery and leaderboard API
// @BasePath /
func RegisterRoutes(r *fiber.App, memberHandler *app.MemberHandler) {
	r.Get("/swagger/*", swagger.HandlerDefault)

	memberRoutes := r.Group("/member")
	memberRoutes.Post("/register", memberHandler.Register)
	memberRoutes.Post("/login", memberHandler.Login)
	memberRoutes.Post("/refresh", memberHandler.Refresh)

	memberRoutes.Use(middlewares.JWTMiddleware())
	memberRoutes.Post("/logout", memberHandler.Logout)
}
