package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sharpplay/backend/internal/models"
)

type ScoreRepo struct {
	pool *pgxpool.Pool
}

func NewScoreRepo(pool *pgxpool.Pool) *ScoreRepo {
	return &ScoreRepo{pool: pool}
}

// Append inserts one submission row. The table is the append-only play
// ledger: nothing ever updates or deletes these rows.
func (r *ScoreRepo) Append(ctx context.Context, s *models.GameScore) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO game_scores (user_id, game_kind, score, play_duration, reward_amount, verified)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, submitted_at
	`, s.UserID, s.GameKind, s.Score, s.PlayDuration, s.RewardAmount, s.Verified).Scan(&s.ID, &s.SubmittedAt)
}

// CountByUser returns the total accepted submissions for a user, reported as
// gamesPlayed in the stats query.
func (r *ScoreRepo) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM game_scores WHERE user_id = $1`, userID).Scan(&n)
	return n, err
}

// CountByUserSince counts submissions inside a trailing window, a durable
// backstop behind the redis rate limiter.
func (r *ScoreRepo) CountByUserSince(ctx context.Context, userID uuid.UUID, since time.Time) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM game_scores WHERE user_id = $1 AND submitted_at > $2`,
		userID, since).Scan(&n)
	return n, err
}

func (r *ScoreRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.GameScore, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, game_kind, score, play_duration, submitted_at, reward_amount, verified
		FROM game_scores
		WHERE user_id = $1
		ORDER BY submitted_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scores []models.GameScore
	for rows.Next() {
		var s models.GameScore
		if err := rows.Scan(&s.ID, &s.UserID, &s.GameKind, &s.Score, &s.PlayDuration,
			&s.SubmittedAt, &s.RewardAmount, &s.Verified); err != nil {
			return nil, err
		}
		scores = append(scores, s)
	}
	return scores, rows.Err()
}
