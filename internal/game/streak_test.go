package game

import (
	"testing"
	"time"
)

func TestNextStreak(t *testing.T) {
	now := time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)
	day := 24 * time.Hour

	ptr := func(t time.Time) *time.Time { return &t }

	tests := []struct {
		name       string
		lastPlayed *time.Time
		current    int
		wantStreak int
		wantNewDay bool
	}{
		{"never played", nil, 0, 1, true},
		{"same day earlier", ptr(now.Add(-2 * time.Hour)), 4, 4, false},
		{"same calendar day near midnight", ptr(time.Date(2026, 3, 15, 0, 1, 0, 0, time.UTC)), 7, 7, false},
		{"yesterday", ptr(now.Add(-day)), 4, 5, true},
		{"yesterday late evening", ptr(time.Date(2026, 3, 14, 23, 59, 0, 0, time.UTC)), 1, 2, true},
		{"two day gap resets", ptr(now.Add(-2 * day)), 9, 1, true},
		{"three day gap resets", ptr(now.Add(-3 * day)), 30, 1, true},
		{"long gap resets", ptr(now.Add(-90 * day)), 100, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			streak, newDay := NextStreak(tt.lastPlayed, now, tt.current)
			if streak != tt.wantStreak || newDay != tt.wantNewDay {
				t.Errorf("NextStreak(%v, now, %d) = (%d, %v), want (%d, %v)",
					tt.lastPlayed, tt.current, streak, newDay, tt.wantStreak, tt.wantNewDay)
			}
		})
	}
}

func TestNextStreakIgnoresTimeOfDay(t *testing.T) {
	// 23:59 yesterday to 00:01 today is two minutes on the clock but still
	// counts as consecutive days.
	last := time.Date(2026, 3, 14, 23, 59, 0, 0, time.UTC)
	now := time.Date(2026, 3, 15, 0, 1, 0, 0, time.UTC)
	streak, newDay := NextStreak(&last, now, 3)
	if streak != 4 || !newDay {
		t.Errorf("got (%d, %v), want (4, true)", streak, newDay)
	}
}
