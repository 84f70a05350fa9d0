package router

import (
	"community_chat_service/internal/community/app"
	"community_chat_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts community discovery and leaderboard routes
func RegisterRoutes(r *fiber.App, communityHandler *app.CommunityHandler) {
	r.Use(middlewares.JWTMiddleware())

	communities := r.Group("/communities")
	communities.Post("/", communityHandler.CreateCommunity)
	communities.Get("/nearby", communityHandler.Nearby)

	leaderboard := r.Group("/leaderboard")
	leaderboard.Post("/scores", communityHandler.SubmitScore)
	leaderboard.Get("/:game", communityHandler.Leaderboard)
}
