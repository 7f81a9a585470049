package models

import (
	"time"

	"github.com/google/uuid"
)

// GameScore is one accepted play submission. Rows are append-only: the
// collection is the ledger of play events and is never updated or deleted.
type GameScore struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	GameKind     string    `json:"game_kind"`
	Score        int       `json:"score"`
	PlayDuration float64   `json:"play_duration"` // seconds
	SubmittedAt  time.Time `json:"submitted_at"`
	RewardAmount float64   `json:"reward_amount"`
	Verified     bool      `json:"verified"`
}
