package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sharpplay/backend/internal/models"
)

type LeaderboardRepo struct {
	pool *pgxpool.Pool
}

func NewLeaderboardRepo(pool *pgxpool.Pool) *LeaderboardRepo {
	return &LeaderboardRepo{pool: pool}
}

// Ratchet upserts the user's entry. best_score only moves upward; a lower or
// equal submission refreshes nothing but total earnings stay in sync whenever
// the best improves. Idempotent under replays of a not-higher score.
func (r *LeaderboardRepo) Ratchet(ctx context.Context, userID uuid.UUID, username string, score int, totalEarned float64) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO leaderboard (user_id, username, best_score, total_earned)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			username = EXCLUDED.username,
			best_score = EXCLUDED.best_score,
			total_earned = EXCLUDED.total_earned,
			updated_at = now()
		WHERE leaderboard.best_score < EXCLUDED.best_score
	`, userID, username, score, totalEarned)
	return err
}

// Top returns the highest entries ordered by best score.
func (r *LeaderboardRepo) Top(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT user_id, username, best_score, total_earned, updated_at
		FROM leaderboard
		ORDER BY best_score DESC, updated_at ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.LeaderboardEntry
	for rows.Next() {
		var e models.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Username, &e.BestScore, &e.TotalEarned, &e.UpdatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *LeaderboardRepo) Get(ctx context.Context, userID uuid.UUID) (*models.LeaderboardEntry, error) {
	var e models.LeaderboardEntry
	err := r.pool.QueryRow(ctx, `
		SELECT user_id, username, best_score, total_earned, updated_at
		FROM leaderboard WHERE user_id = $1
	`, userID).Scan(&e.UserID, &e.Username, &e.BestScore, &e.TotalEarned, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
