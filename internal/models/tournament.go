package models

import (
	"time"

	"github.com/google/uuid"
)

// Tournament is one settled weekly period. PeriodStart is unique: a second
// settlement attempt for the same period finds the existing row and becomes a
// no-op, so re-running the job never double-pays.
type Tournament struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	PeriodStart  time.Time `json:"period_start"`
	PeriodEnd    time.Time `json:"period_end"`
	PrizePool    float64   `json:"prize_pool"`
	Winner       string    `json:"winner"`
	Participants int       `json:"participants"`
	ProcessedAt  time.Time `json:"processed_at"`
}
