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
	"github.com/sharpplay/backend/internal/eth"
	"github.com/sharpplay/backend/internal/repositories"
)

// The reconciler resolves reward transactions that were left pending, either
// because the API timed out waiting for confirmation or because payouts were
// unconfigured when the reward was issued.

const (
	pollInterval = time.Minute
	pendingBatch = 100
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	if !cfg.PayoutsEnabled() {
		log.Fatal("reconciler requires web3 configuration")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	client, err := eth.NewClient(cfg.RPCURL, cfg.TokenContractAddress, cfg.PayoutPrivateKey, cfg.ChainID, cfg.TransferTimeout, log)
	if err != nil {
		log.Fatal("failed to initialize token transfer client", zap.Error(err))
	}
	defer client.Close()

	txRepo := repositories.NewTransactionRepo(pool)

	log.Info("reconciler started")

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	reconcile(ctx, txRepo, client, log)

	for {
		select {
		case <-ticker.C:
			reconcile(ctx, txRepo, client, log)
		case <-sigCh:
			log.Info("shutting down reconciler")
			cancel()
			return
		}
	}
}

func reconcile(ctx context.Context, txRepo *repositories.TransactionRepo, client *eth.Client, log *zap.Logger) {
	pending, err := txRepo.ListPending(ctx, pendingBatch)
	if err != nil {
		log.Error("failed to list pending transactions", zap.Error(err))
		return
	}

	for _, tx := range pending {
		// Rows without a hash never reached the chain; they need a new
		// transfer attempt, which only the submission path performs.
		if tx.TxHash == nil {
			continue
		}

		receipt, mined, err := client.ReceiptFor(ctx, *tx.TxHash)
		if err != nil {
			if mined {
				// Mined but reverted, the tokens never moved.
				if ferr := txRepo.MarkFailed(ctx, tx.ID, tx.TxHash); ferr != nil {
					log.Error("failed to mark transaction failed", zap.String("tx_id", tx.ID.String()), zap.Error(ferr))
					continue
				}
				log.Warn("pending transfer reverted", zap.String("tx_id", tx.ID.String()), zap.String("tx_hash", *tx.TxHash))
				continue
			}
			log.Error("receipt lookup failed", zap.String("tx_hash", *tx.TxHash), zap.Error(err))
			continue
		}
		if !mined {
			continue
		}

		if err := txRepo.MarkCompleted(ctx, tx.ID, receipt.TxHash, receipt.BlockNumber); err != nil {
			log.Error("failed to mark transaction completed", zap.String("tx_id", tx.ID.String()), zap.Error(err))
			continue
		}
		log.Info("pending transfer confirmed",
			zap.String("tx_id", tx.ID.String()),
			zap.String("tx_hash", receipt.TxHash),
			zap.Int64("block", receipt.BlockNumber))
	}
}
