package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"community_chat_service/internal/community/app"
	"community_chat_service/internal/community/repository"
	"community_chat_service/internal/community/router"
	"community_chat_service/pkg/config"
	"community_chat_service/pkg/database"
	"community_chat_service/pkg/logger"

	"github.com/gofiber/fiber/v2"
	fiber_log "github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"
)

func main() {
	logger.Log = logger.Initialize(config.EnvConfig.CommunityService, config.EnvConfig.CommunityServiceLogPath)
	cfg := config.LoadConfig[config.Community](config.EnvConfig.CommunityService, config.EnvConfig.CommunityServiceYAMLPath)

	connStr := fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		cfg.PostgreSQL.User, cfg.PostgreSQL.Password, cfg.PostgreSQL.Host, cfg.PostgreSQL.Port, cfg.PostgreSQL.Database)
	db, err := database.NewGormConnection(database.Connection{
		ConnectStr:    connStr,
		RetryCount:    cfg.PostgreSQL.RetryCount,
		RetryInterval: time.Duration(cfg.PostgreSQL.RetryInterval),
	})
	if err != nil {
		logger.Log.Fatal(
			"Unable to connect to postgreSQL database after retries",
			zap.String("address", fmt.Sprintf("[%s]", connStr)),
			zap.Error(err),
		)
	}

	communityRepo := repository.NewCommunityRepo(db)
	if err := communityRepo.AutoMigrate(); err != nil {
		logger.Log.Fatal("community migrate err", zap.Error(err))
	}
	leaderboardRepo := repository.NewLeaderboardRepo(db)
	if err := leaderboardRepo.AutoMigrate(); err != nil {
		logger.Log.Fatal("leaderboard migrate err", zap.Error(err))
	}

	communityUC := app.NewCommunityUseCase(communityRepo, leaderboardRepo)

	r := fiber.New()
	file, err := os.OpenFile(fmt.Sprintf("%s/access.log", config.EnvConfig.CommunityServiceLogPath), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer file.Close()

	r.Use(fiber_log.New(fiber_log.Config{
		Output: file,
	}))

	router.RegisterRoutes(r, app.NewCommunityHandler(communityUC))

	port := ":" + cfg.Port
	log.Printf("Community Service listening on %s", port)
	if err := r.Listen(port); err != nil {
		log.Fatalf("Failed to start Fiber: %v", err)
	}
}
