package http

import (
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sharpplay/backend/internal/config"
	"github.com/sharpplay/backend/internal/http/handlers"
	"github.com/sharpplay/backend/internal/middleware"
)

func SetupRouter(
	app *fiber.App,
	cfg *config.Config,
	log *zap.Logger,
	rdb *redis.Client,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	scoreHandler *handlers.ScoreHandler,
	leaderboardHandler *handlers.LeaderboardHandler,
	wsHub *handlers.WSHub,
) {
	// Global middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.LoggerMiddleware(log))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api/v1")

	// Coarse per-IP guard; the per-user submission window lives in the
	// score service.
	api.Use(middleware.RateLimitMiddleware(rdb, 100, time.Minute))

	// Auth (public)
	api.Post("/auth/register", authHandler.Register)
	api.Post("/auth/login", authHandler.Login)

	// Leaderboard and tournament history are public
	api.Get("/leaderboard", leaderboardHandler.GetLeaderboard)
	api.Get("/tournaments", leaderboardHandler.ListTournaments)
	api.Get("/tournaments/latest", leaderboardHandler.GetLatestTournament)

	// Protected endpoints
	protected := api.Group("", middleware.AuthMiddleware(cfg, log))

	protected.Get("/me", userHandler.GetMe)
	protected.Put("/me/profile", userHandler.UpdateProfile)
	protected.Get("/me/transactions", userHandler.ListTransactions)
	protected.Get("/me/referrals", userHandler.GetReferrals)
	protected.Get("/me/scores", userHandler.ListScores)

	protected.Post("/scores", scoreHandler.SubmitScore)

	// WebSocket
	app.Use("/ws", handlers.WSUpgradeMiddleware())
	app.Get("/ws", websocket.New(wsHub.HandleWS))
}
