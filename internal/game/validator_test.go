package game

import "testing"

func TestValidateScore(t *testing.T) {
	tests := []struct {
		name     string
		score    float64
		kind     Kind
		duration float64
		want     bool
	}{
		{"tap reaction valid", 1500, KindTapReaction, 20, true},
		{"tap reaction at max", 2000, KindTapReaction, 30, true},
		{"tap reaction over max", 2001, KindTapReaction, 30, false},
		{"memory match valid", 9000, KindMemoryMatch, 60, true},
		{"memory match too short", 9000, KindMemoryMatch, 14, false},
		{"memory match at min duration", 3000, KindMemoryMatch, 15, true},
		{"color rush valid", 4999, KindColorRush, 30, true},
		{"color rush over max", 5001, KindColorRush, 30, false},
		{"sharp shooter short game ok", 500, KindSharpShooter, 5, true},
		{"unknown kind falls back to defaults", 9999, Kind("bubble-pop"), 60, true},
		{"unknown kind default max", 10001, Kind("bubble-pop"), 60, false},
		{"unknown kind default min time", 100, Kind("bubble-pop"), 4, false},
		{"negative score", -1, KindTapReaction, 20, false},
		{"zero score", 0, KindTapReaction, 10, true},
		{"fractional score", 150.5, KindTapReaction, 20, false},
		{"rate exceeds ceiling", 2000, KindTapReaction, 10, false}, // 200 pts/sec is not < 200
		{"rate just under ceiling", 1999, KindTapReaction, 10, true},
		{"zero duration", 100, KindSharpShooter, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateScore(tt.score, tt.kind, tt.duration)
			if got.OK() != tt.want {
				t.Errorf("ValidateScore(%v, %q, %v).OK() = %v, want %v (failed: %v)",
					tt.score, tt.kind, tt.duration, got.OK(), tt.want, got.FailedChecks())
			}
		})
	}
}

func TestValidateScoreDurationBoundaryFlips(t *testing.T) {
	// Holding everything else fixed, dropping one unit under the kind's
	// minimum play time must flip the verdict.
	for kind, limits := range kindLimits {
		at := ValidateScore(10, kind, limits.MinPlayTimeSeconds)
		under := ValidateScore(10, kind, limits.MinPlayTimeSeconds-1)
		if !at.OK() {
			t.Errorf("%s: valid at min duration %v, got rejection", kind, limits.MinPlayTimeSeconds)
		}
		if under.OK() {
			t.Errorf("%s: expected rejection below min duration", kind)
		}
	}
}

func TestFailedChecksNamesEveryFailure(t *testing.T) {
	res := ValidateScore(-5.5, KindTapReaction, 1)
	if res.OK() {
		t.Fatal("expected rejection")
	}
	failed := res.FailedChecks()
	if len(failed) < 2 {
		t.Errorf("expected multiple failed checks, got %v", failed)
	}
}

func TestLimitsFor(t *testing.T) {
	if l := LimitsFor(KindMemoryMatch); l.MaxScore != 10000 || l.MinPlayTimeSeconds != 15 {
		t.Errorf("unexpected memory-match limits: %+v", l)
	}
	if l := LimitsFor(Kind("unknown")); l != DefaultLimits {
		t.Errorf("unknown kind should use defaults, got %+v", l)
	}
	if IsKnownKind(Kind("unknown")) {
		t.Error("unknown kind reported as known")
	}
	if !IsKnownKind(KindColorRush) {
		t.Error("color-rush should be known")
	}
}
