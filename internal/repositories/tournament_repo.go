package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sharpplay/backend/internal/models"
)

// ErrPeriodProcessed signals that a tournament row for the period already
// exists, making a settlement re-run a no-op.
var ErrPeriodProcessed = errors.New("tournament period already processed")

type TournamentRepo struct {
	pool *pgxpool.Pool
}

func NewTournamentRepo(pool *pgxpool.Pool) *TournamentRepo {
	return &TournamentRepo{pool: pool}
}

// Create inserts the period summary. The UNIQUE constraint on period_start is
// the idempotency guard; a duplicate insert maps to ErrPeriodProcessed.
func (r *TournamentRepo) Create(ctx context.Context, t *models.Tournament) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO tournaments (name, period_start, period_end, prize_pool, winner, participants)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, processed_at
	`, t.Name, t.PeriodStart, t.PeriodEnd, t.PrizePool, t.Winner, t.Participants).Scan(&t.ID, &t.ProcessedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrPeriodProcessed
	}
	return err
}

// PeriodProcessed reports whether a settlement row exists for period_start.
func (r *TournamentRepo) PeriodProcessed(ctx context.Context, periodStart time.Time) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM tournaments WHERE period_start = $1)`, periodStart).Scan(&exists)
	return exists, err
}

func (r *TournamentRepo) List(ctx context.Context, limit int) ([]models.Tournament, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, period_start, period_end, prize_pool, winner, participants, processed_at
		FROM tournaments ORDER BY period_start DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Tournament
	for rows.Next() {
		var t models.Tournament
		if err := rows.Scan(&t.ID, &t.Name, &t.PeriodStart, &t.PeriodEnd,
			&t.PrizePool, &t.Winner, &t.Participants, &t.ProcessedAt); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// Latest returns the most recent settled tournament or ErrNotFound.
func (r *TournamentRepo) Latest(ctx context.Context) (*models.Tournament, error) {
	var t models.Tournament
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, period_start, period_end, prize_pool, winner, participants, processed_at
		FROM tournaments ORDER BY period_start DESC LIMIT 1
	`).Scan(&t.ID, &t.Name, &t.PeriodStart, &t.PeriodEnd, &t.PrizePool, &t.Winner, &t.Participants, &t.ProcessedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}
