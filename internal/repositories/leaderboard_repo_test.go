package repositories

import (
	"context"
	"testing"
)

func TestRatchetMonotonic(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	users := NewUserRepo(pool)
	lb := NewLeaderboardRepo(pool)

	u, err := users.Create(ctx, "ratchet@example.com", "x", "ratchet", nil)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	mustBest := func(want int, earned float64) {
		t.Helper()
		e, err := lb.Get(ctx, u.ID)
		if err != nil {
			t.Fatalf("get entry: %v", err)
		}
		if e.BestScore != want {
			t.Fatalf("best_score = %d, want %d", e.BestScore, want)
		}
		if e.TotalEarned != earned {
			t.Fatalf("total_earned = %v, want %v", e.TotalEarned, earned)
		}
	}

	if err := lb.Ratchet(ctx, u.ID, u.Username, 500, 55); err != nil {
		t.Fatalf("ratchet: %v", err)
	}
	mustBest(500, 55)

	// A lower score leaves the entry untouched, including earnings.
	if err := lb.Ratchet(ctx, u.ID, u.Username, 300, 90); err != nil {
		t.Fatalf("ratchet lower: %v", err)
	}
	mustBest(500, 55)

	// Replaying the stored best is a no-op: the guard is strictly
	// less-than.
	if err := lb.Ratchet(ctx, u.ID, u.Username, 500, 90); err != nil {
		t.Fatalf("ratchet replay: %v", err)
	}
	mustBest(500, 55)

	// A higher score moves the ratchet and refreshes earnings.
	if err := lb.Ratchet(ctx, u.ID, u.Username, 800, 140); err != nil {
		t.Fatalf("ratchet higher: %v", err)
	}
	mustBest(800, 140)
}

func TestTopOrdersByBestScore(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	users := NewUserRepo(pool)
	lb := NewLeaderboardRepo(pool)

	scores := map[string]int{"alice": 900, "bob": 1200, "carol": 300}
	for name, score := range scores {
		u, err := users.Create(ctx, name+"@example.com", "x", name, nil)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if err := lb.Ratchet(ctx, u.ID, name, score, 0); err != nil {
			t.Fatalf("ratchet %s: %v", name, err)
		}
	}

	top, err := lb.Top(ctx, 2)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(top) != 2 || top[0].Username != "bob" || top[1].Username != "alice" {
		t.Fatalf("top-2 = %+v, want bob then alice", top)
	}
}
