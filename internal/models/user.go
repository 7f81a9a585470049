package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID            uuid.UUID  `json:"id"`
	Email         string     `json:"email"`
	Username      string     `json:"username"`
	PhotoURL      *string    `json:"photo_url,omitempty"`
	WalletAddress *string    `json:"wallet_address,omitempty"`
	BestScore     int        `json:"best_score"`
	DailyStreak   int        `json:"daily_streak"`
	TokensBalance float64    `json:"tokens_balance"`
	TotalEarned   float64    `json:"total_earned"`
	LastPlayedAt  *time.Time `json:"last_played_at,omitempty"`
	ReferralCode  string     `json:"referral_code"`
	InvitedBy     *string    `json:"invited_by,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`

	PasswordHash string `json:"-"`
}

// UserStats is the user record enriched with the play count, returned by the
// stats query.
type UserStats struct {
	User
	GamesPlayed int64 `json:"games_played"`
}
