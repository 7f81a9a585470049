package repositories

import (
	"context"
	"testing"

	"github.com/sharpplay/backend/internal/models"
)

func TestTransactionStatusTransitions(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	users := NewUserRepo(pool)
	txs := NewTransactionRepo(pool)

	u, err := users.Create(ctx, "ledger@example.com", "x", "ledger", nil)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	addr := "0x52908400098527886E0F7030069857D2E4169EE7"

	reload := func() map[string]models.Transaction {
		t.Helper()
		rows, err := txs.ListByUser(ctx, u.ID, 10)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		byNote := make(map[string]models.Transaction, len(rows))
		for _, r := range rows {
			byNote[r.Note] = r
		}
		return byNote
	}

	failed := &models.Transaction{UserID: u.ID, Amount: 5, ToAddress: &addr, Status: models.TxStatusPending, Note: "will fail"}
	if err := txs.Create(ctx, failed); err != nil {
		t.Fatalf("create pending: %v", err)
	}
	if err := txs.MarkFailed(ctx, failed.ID, nil); err != nil {
		t.Fatalf("mark failed: %v", err)
	}

	// Failure is terminal but not a completion: no timestamp.
	row := reload()["will fail"]
	if row.Status != models.TxStatusFailed {
		t.Fatalf("status = %s, want failed", row.Status)
	}
	if row.CompletedAt != nil {
		t.Error("failed row has completed_at set")
	}

	done := &models.Transaction{UserID: u.ID, Amount: 7, ToAddress: &addr, Status: models.TxStatusPending, Note: "will confirm"}
	if err := txs.Create(ctx, done); err != nil {
		t.Fatalf("create pending: %v", err)
	}
	if err := txs.MarkCompleted(ctx, done.ID, "0xabc", 123); err != nil {
		t.Fatalf("mark completed: %v", err)
	}

	row = reload()["will confirm"]
	if row.Status != models.TxStatusCompleted || row.CompletedAt == nil {
		t.Fatalf("completed row = %+v, want completed with timestamp", row)
	}
	if row.TxHash == nil || *row.TxHash != "0xabc" || row.BlockNumber == nil || *row.BlockNumber != 123 {
		t.Errorf("confirmation details not recorded: %+v", row)
	}

	// Terminal rows never transition again.
	if err := txs.MarkCompleted(ctx, failed.ID, "0xdef", 456); err == nil {
		t.Error("completing a failed row should error")
	}
	if err := txs.MarkFailed(ctx, done.ID, nil); err == nil {
		t.Error("failing a completed row should error")
	}
}

func TestSumReferralBonuses(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	users := NewUserRepo(pool)
	txs := NewTransactionRepo(pool)

	u, err := users.Create(ctx, "ref@example.com", "x", "ref", nil)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	for _, tx := range []*models.Transaction{
		{UserID: u.ID, Amount: 1.5, Status: models.TxStatusCompleted, Note: models.TxNoteReferralBonus},
		{UserID: u.ID, Amount: 2.25, Status: models.TxStatusCompleted, Note: models.TxNoteReferralBonus},
		{UserID: u.ID, Amount: 500, Status: models.TxStatusCompleted, Note: "Tournament reward - Rank #1"},
	} {
		if err := txs.Create(ctx, tx); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	total, err := txs.SumReferralBonuses(ctx, u.ID)
	if err != nil {
		t.Fatalf("sum: %v", err)
	}
	if total != 3.75 {
		t.Errorf("referral earnings = %v, want 3.75 (prizes excluded)", total)
	}
}
