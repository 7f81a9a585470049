package models

import (
	"time"

	"github.com/google/uuid"
)

// LeaderboardEntry is the per-user ranking row. BestScore only ever moves
// upward: a lower submission leaves the entry untouched.
type LeaderboardEntry struct {
	UserID      uuid.UUID `json:"user_id"`
	Username    string    `json:"username"`
	BestScore   int       `json:"best_score"`
	TotalEarned float64   `json:"total_earned"`
	UpdatedAt   time.Time `json:"updated_at"`
}
