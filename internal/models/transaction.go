package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	TxStatusPending   = "pending"
	TxStatusCompleted = "completed"
	TxStatusFailed    = "failed"
)

// Ledger note strings. Referral earnings are summed by note, so referral
// credits must carry TxNoteReferralBonus verbatim.
const (
	TxNoteGameReward    = "Game reward"
	TxNoteReferralBonus = "Referral bonus"
)

// ValidTxTransitions holds the allowed status moves. Internal credits
// (referral bonuses, tournament prizes) are created directly as completed and
// never transition.
var ValidTxTransitions = map[string][]string{
	TxStatusPending:   {TxStatusCompleted, TxStatusFailed},
	TxStatusCompleted: {},
	TxStatusFailed:    {},
}

func IsValidTxTransition(from, to string) bool {
	for _, s := range ValidTxTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

type Transaction struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	Amount      float64    `json:"amount"`
	ToAddress   *string    `json:"to_address,omitempty"`
	Status      string     `json:"status"`
	TxHash      *string    `json:"tx_hash,omitempty"`
	BlockNumber *int64     `json:"block_number,omitempty"`
	Note        string     `json:"note"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
