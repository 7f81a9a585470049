package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestLimiter(t *testing.T, limit int, window time.Duration) *Limiter {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return New(rdb, limit, window)
}

func TestCheckWindowCycle(t *testing.T) {
	l := newTestLimiter(t, 5, 5*time.Minute)
	base := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	current := base
	l.now = func() time.Time { return current }
	ctx := context.Background()

	// Five submissions inside the window all pass.
	for i := 0; i < 5; i++ {
		current = base.Add(time.Duration(i) * 10 * time.Second)
		res, err := l.Check(ctx, "u1", "submit_score")
		if err != nil {
			t.Fatalf("check %d: %v", i+1, err)
		}
		if !res.Allowed {
			t.Fatalf("attempt %d rejected inside the limit", i+1)
		}
		if res.RemainingAttempts != 5-i-1 {
			t.Errorf("attempt %d: remaining = %d, want %d", i+1, res.RemainingAttempts, 5-i-1)
		}
	}

	// The sixth is rejected with a positive wait hint: the oldest attempt
	// sits at base, so 250s of its 300s window remain.
	current = base.Add(50 * time.Second)
	res, err := l.Check(ctx, "u1", "submit_score")
	if err != nil {
		t.Fatalf("sixth check: %v", err)
	}
	if res.Allowed {
		t.Fatal("sixth attempt inside the window was allowed")
	}
	if res.WaitSeconds != 250 {
		t.Errorf("wait hint = %d, want 250", res.WaitSeconds)
	}

	// A second rejection sees the same window.
	if res, _ := l.Check(ctx, "u1", "submit_score"); res.Allowed || res.WaitSeconds != 250 {
		t.Errorf("repeat rejection = %+v, want rejected with wait 250", res)
	}

	// Once the oldest attempt ages out only four recorded attempts remain,
	// so the next submission passes. Had the two rejections above been
	// recorded there would be six and this would still be rejected.
	current = base.Add(301 * time.Second)
	res, err = l.Check(ctx, "u1", "submit_score")
	if err != nil {
		t.Fatalf("post-window check: %v", err)
	}
	if !res.Allowed {
		t.Fatal("submission after the window elapsed was rejected")
	}
}

func TestCheckIsolatesUsersAndReset(t *testing.T) {
	l := newTestLimiter(t, 2, time.Minute)
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if res, err := l.Check(ctx, "u1", "submit_score"); err != nil || !res.Allowed {
			t.Fatalf("u1 attempt %d: allowed=%v err=%v", i+1, res.Allowed, err)
		}
	}
	if res, _ := l.Check(ctx, "u1", "submit_score"); res.Allowed {
		t.Fatal("u1 over the limit was allowed")
	}

	// Another user's window is untouched.
	if res, err := l.Check(ctx, "u2", "submit_score"); err != nil || !res.Allowed {
		t.Fatalf("u2 first attempt: allowed=%v err=%v", res.Allowed, err)
	}

	if err := l.Reset(ctx, "u1", "submit_score"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if res, _ := l.Check(ctx, "u1", "submit_score"); !res.Allowed {
		t.Fatal("u1 rejected after reset")
	}
}

func TestWaitSeconds(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	window := 5 * time.Minute

	tests := []struct {
		name   string
		oldest time.Time
		want   int
	}{
		{"attempt just made", now, 300},
		{"one minute into window", now.Add(-time.Minute), 240},
		{"almost expired", now.Add(-299 * time.Second), 1},
		{"fractional seconds round up", now.Add(-90500 * time.Millisecond), 210},
		{"already expired clamps to one", now.Add(-window), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := waitSeconds(tt.oldest, now, window); got != tt.want {
				t.Errorf("waitSeconds = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWaitSecondsAlwaysPositive(t *testing.T) {
	now := time.Now()
	for _, age := range []time.Duration{0, time.Second, time.Hour} {
		if got := waitSeconds(now.Add(-age), now, 5*time.Minute); got < 1 {
			t.Errorf("waitSeconds with age %v = %d, want >= 1", age, got)
		}
	}
}
