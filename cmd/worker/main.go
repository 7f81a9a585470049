package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/sharpplay/backend/internal/config"
	"github.com/sharpplay/backend/internal/db"
	"github.com/sharpplay/backend/internal/events"
	"github.com/sharpplay/backend/internal/repositories"
	"github.com/sharpplay/backend/internal/services"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	// Repos
	userRepo := repositories.NewUserRepo(pool)
	lbRepo := repositories.NewLeaderboardRepo(pool)
	txRepo := repositories.NewTransactionRepo(pool)
	tournamentRepo := repositories.NewTournamentRepo(pool)

	// Services
	publisher := events.NewRedisPublisher(rdb, log)
	tournamentService := services.NewTournamentService(lbRepo, userRepo, txRepo, tournamentRepo, publisher, cfg, log)

	log.Info("worker started")

	// Settlement is idempotent per weekly period, so running the check
	// hourly just picks up the new period shortly after it begins.
	settleTicker := time.NewTicker(time.Hour)
	defer settleTicker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	runSettlement(ctx, tournamentService, log)

	for {
		select {
		case <-settleTicker.C:
			runSettlement(ctx, tournamentService, log)
		case <-sigCh:
			log.Info("shutting down worker")
			cancel()
			return
		}
	}
}

func runSettlement(ctx context.Context, svc *services.TournamentService, log *zap.Logger) {
	if err := svc.Settle(ctx, time.Now()); err != nil {
		log.Error("tournament settlement failed", zap.Error(err))
	}
}
