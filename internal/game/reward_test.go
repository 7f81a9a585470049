package game

import "testing"

func TestReward(t *testing.T) {
	tests := []struct {
		name    string
		score   int
		streak  int
		best    int
		hasBest bool
		want    float64
	}{
		{"zero score floors at minimum", 0, 0, 0, true, RewardFloor},
		{"first ever play gets new-best bonus", 0, 0, 0, false, 2.0},
		{"score 500 with no streak contribution", 500, 0, 0, false, 55.0}, // 50 + 0 + (2+1+2)
		{"first play of the day at 500", 500, 1, 0, false, 55.5},          // 50 + 0.5 + (2+1+2)
		{"next day at 1200", 1200, 2, 500, true, 131.0},                   // 120 + 1.0 + (2+1+2+5)
		{"score 100 milestone", 100, 0, 200, true, 11.0},    // 10 + 0 + 1
		{"score 99 no milestone", 99, 0, 200, true, 9.9},
		{"not a new best", 50, 0, 200, true, 5.0},
		{"streak capped at ten days", 300, 25, 1000, true, 36.0}, // 30 + 5 + 1
		{"streak exactly ten", 300, 10, 1000, true, 36.0},
		{"all milestones stack", 1000, 0, 0, false, 110.0}, // 100 + 0 + (2+5+2+1)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reward(tt.score, tt.streak, tt.best, tt.hasBest)
			if got != tt.want {
				t.Errorf("Reward(%d, %d, %d, %v) = %v, want %v",
					tt.score, tt.streak, tt.best, tt.hasBest, got, tt.want)
			}
		})
	}
}

func TestRewardMonotonicInScore(t *testing.T) {
	prev := 0.0
	for score := 0; score <= 2000; score += 10 {
		r := Reward(score, 3, 5000, true)
		if r < prev {
			t.Fatalf("reward decreased at score %d: %v < %v", score, r, prev)
		}
		prev = r
	}
}

func TestRewardMonotonicInStreak(t *testing.T) {
	prev := 0.0
	for streak := 0; streak <= 20; streak++ {
		r := Reward(100, streak, 5000, true)
		if r < prev {
			t.Fatalf("reward decreased at streak %d: %v < %v", streak, r, prev)
		}
		prev = r
	}
	// Contribution is clamped past ten days.
	if Reward(100, 10, 5000, true) != Reward(100, 15, 5000, true) {
		t.Error("streak bonus should be flat past ten days")
	}
}

func TestIsNewBest(t *testing.T) {
	if IsNewBest(0, 0) {
		t.Error("a first play scoring zero is not a new best")
	}
	if !IsNewBest(1, 0) {
		t.Error("any positive first score is a new best")
	}
	if IsNewBest(500, 500) {
		t.Error("tying the stored best is not a new best")
	}
	if IsNewBest(499, 500) {
		t.Error("a lower score is not a new best")
	}
	if !IsNewBest(501, 500) {
		t.Error("beating the stored best is a new best")
	}
}

func TestRewardFloorAlwaysApplies(t *testing.T) {
	if r := Reward(0, 0, 100, true); r < RewardFloor {
		t.Errorf("reward %v below floor %v", r, RewardFloor)
	}
}
