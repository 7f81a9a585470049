package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sharpplay/backend/internal/models"
)

type TransactionRepo struct {
	pool *pgxpool.Pool
}

func NewTransactionRepo(pool *pgxpool.Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

func (r *TransactionRepo) Create(ctx context.Context, tx *models.Transaction) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO transactions (user_id, amount, to_address, status, tx_hash, note, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6,
			CASE WHEN $4 = 'completed' THEN now() ELSE NULL END)
		RETURNING id, created_at
	`, tx.UserID, tx.Amount, tx.ToAddress, tx.Status, tx.TxHash, tx.Note).Scan(&tx.ID, &tx.CreatedAt)
}

// MarkCompleted transitions pending -> completed, attaching the confirmation
// details. Guarded by the transition table: a terminal row is never touched.
func (r *TransactionRepo) MarkCompleted(ctx context.Context, id uuid.UUID, txHash string, blockNumber int64) error {
	return r.setStatus(ctx, id, models.TxStatusCompleted, &txHash, &blockNumber)
}

// MarkFailed transitions pending -> failed, keeping the hash if a send was
// attempted before the failure.
func (r *TransactionRepo) MarkFailed(ctx context.Context, id uuid.UUID, txHash *string) error {
	return r.setStatus(ctx, id, models.TxStatusFailed, txHash, nil)
}

func (r *TransactionRepo) setStatus(ctx context.Context, id uuid.UUID, status string, txHash *string, blockNumber *int64) error {
	if !models.IsValidTxTransition(models.TxStatusPending, status) {
		return fmt.Errorf("invalid transaction transition pending -> %s", status)
	}

	// completed_at marks confirmation; failed rows keep it empty.
	tag, err := r.pool.Exec(ctx, `
		UPDATE transactions SET
			status = $2,
			tx_hash = COALESCE($3, tx_hash),
			block_number = COALESCE($4, block_number),
			completed_at = CASE WHEN $2 = 'completed' THEN now() ELSE completed_at END
		WHERE id = $1 AND status = 'pending'
	`, id, status, txHash, blockNumber)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("transaction %s is not pending", id)
	}
	return nil
}

// AttachHash records the send hash on a still-pending row, for transfers
// that went out but were not confirmed inside the timeout.
func (r *TransactionRepo) AttachHash(ctx context.Context, id uuid.UUID, txHash string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE transactions SET tx_hash = $2 WHERE id = $1 AND status = 'pending'`, id, txHash)
	return err
}

// SumReferralBonuses totals the referral-bonus credits actually paid to the
// user.
func (r *TransactionRepo) SumReferralBonuses(ctx context.Context, userID uuid.UUID) (float64, error) {
	var total float64
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE user_id = $1 AND note = $2`,
		userID, models.TxNoteReferralBonus).Scan(&total)
	return total, err
}

func (r *TransactionRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.Transaction, error) {
	return r.list(ctx, `
		SELECT id, user_id, amount, to_address, status, tx_hash, block_number, note, created_at, completed_at
		FROM transactions WHERE user_id = $1
		ORDER BY created_at DESC LIMIT $2
	`, userID, limit)
}

// ListPending returns pending rows oldest-first for the reconciler.
func (r *TransactionRepo) ListPending(ctx context.Context, limit int) ([]models.Transaction, error) {
	return r.list(ctx, `
		SELECT id, user_id, amount, to_address, status, tx_hash, block_number, note, created_at, completed_at
		FROM transactions WHERE status = 'pending'
		ORDER BY created_at ASC LIMIT $1
	`, limit)
}

func (r *TransactionRepo) list(ctx context.Context, query string, args ...any) ([]models.Transaction, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Amount, &t.ToAddress, &t.Status,
			&t.TxHash, &t.BlockNumber, &t.Note, &t.CreatedAt, &t.CompletedAt); err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}
