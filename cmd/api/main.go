package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/sharpplay/backend/internal/config"
	"github.com/sharpplay/backend/internal/db"
	"github.com/sharpplay/backend/internal/eth"
	"github.com/sharpplay/backend/internal/events"
	apphttp "github.com/sharpplay/backend/internal/http"
	"github.com/sharpplay/backend/internal/http/handlers"
	"github.com/sharpplay/backend/internal/ratelimit"
	"github.com/sharpplay/backend/internal/repositories"
	"github.com/sharpplay/backend/internal/services"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	cfg.Validate(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool, log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	// Redis
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	// On-chain transfers are optional; without configuration reward
	// transactions stay pending.
	var transfer eth.Transferer
	if cfg.PayoutsEnabled() {
		client, err := eth.NewClient(cfg.RPCURL, cfg.TokenContractAddress, cfg.PayoutPrivateKey, cfg.ChainID, cfg.TransferTimeout, log)
		if err != nil {
			log.Fatal("failed to initialize token transfer client", zap.Error(err))
		}
		defer client.Close()
		transfer = client
	}

	// Repositories
	userRepo := repositories.NewUserRepo(pool)
	scoreRepo := repositories.NewScoreRepo(pool)
	lbRepo := repositories.NewLeaderboardRepo(pool)
	txRepo := repositories.NewTransactionRepo(pool)
	tournamentRepo := repositories.NewTournamentRepo(pool)

	// Events
	publisher := events.NewRedisPublisher(rdb, log)
	subscriber := events.NewRedisSubscriber(rdb, log)

	// Services
	limiter := ratelimit.New(rdb, cfg.RateLimitMaxSubmits, cfg.RateLimitWindow)
	scoreService := services.NewScoreService(userRepo, scoreRepo, lbRepo, txRepo, limiter, rdb, transfer, publisher, cfg, log)
	tournamentService := services.NewTournamentService(lbRepo, userRepo, txRepo, tournamentRepo, publisher, cfg, log)

	// Handlers
	authHandler := handlers.NewAuthHandler(userRepo, cfg, log)
	userHandler := handlers.NewUserHandler(userRepo, txRepo, scoreService, log)
	scoreHandler := handlers.NewScoreHandler(scoreService, log)
	leaderboardHandler := handlers.NewLeaderboardHandler(lbRepo, tournamentService, log)
	wsHub := handlers.NewWSHub(cfg, subscriber, log)

	wsHub.Start(ctx)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	apphttp.SetupRouter(app, cfg, log, rdb, authHandler, userHandler, scoreHandler, leaderboardHandler, wsHub)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")
		cancel()
		_ = app.Shutdown()
	}()

	addr := fmt.Sprintf(":%s", cfg.APIPort)
	log.Info("starting API server", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
