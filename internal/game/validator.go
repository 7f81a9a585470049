// Package game holds the pure score-submission rules: admissibility bounds,
// reward computation and daily-streak derivation.
package game

import "math"

type Kind string

const (
	KindTapReaction  Kind = "tap-reaction"
	KindMemoryMatch  Kind = "memory-match"
	KindColorRush    Kind = "color-rush"
	KindSharpShooter Kind = "sharp-shooter"
)

// Limits are the per-kind admissibility bounds.
type Limits struct {
	MaxScore           int
	MinPlayTimeSeconds float64
}

var kindLimits = map[Kind]Limits{
	KindTapReaction:  {MaxScore: 2000, MinPlayTimeSeconds: 10},
	KindMemoryMatch:  {MaxScore: 10000, MinPlayTimeSeconds: 15},
	KindColorRush:    {MaxScore: 5000, MinPlayTimeSeconds: 10},
	KindSharpShooter: {MaxScore: 2000, MinPlayTimeSeconds: 5},
}

// DefaultLimits apply to kinds without explicit bounds.
var DefaultLimits = Limits{MaxScore: 10000, MinPlayTimeSeconds: 5}

// MaxScoreRatePerSecond caps the implied scoring rate. No minigame can
// legitimately award faster than this.
const MaxScoreRatePerSecond = 200

func LimitsFor(kind Kind) Limits {
	if l, ok := kindLimits[kind]; ok {
		return l
	}
	return DefaultLimits
}

func IsKnownKind(kind Kind) bool {
	_, ok := kindLimits[kind]
	return ok
}

// ValidationResult records each independent check. A submission is admissible
// only when every check holds.
type ValidationResult struct {
	ScoreInRange    bool
	PlayTimeValid   bool
	RateReasonable  bool
	ScoreIsIntegral bool
}

func (r ValidationResult) OK() bool {
	return r.ScoreInRange && r.PlayTimeValid && r.RateReasonable && r.ScoreIsIntegral
}

// FailedChecks names the checks that did not hold, for logging.
func (r ValidationResult) FailedChecks() []string {
	var failed []string
	if !r.ScoreInRange {
		failed = append(failed, "score_in_range")
	}
	if !r.PlayTimeValid {
		failed = append(failed, "play_time_valid")
	}
	if !r.RateReasonable {
		failed = append(failed, "score_rate_reasonable")
	}
	if !r.ScoreIsIntegral {
		failed = append(failed, "score_is_integer")
	}
	return failed
}

// ValidateScore checks a raw submission against the kind's bounds. All checks
// run independently; any failure rejects the submission outright.
func ValidateScore(score float64, kind Kind, playDurationSeconds float64) ValidationResult {
	limits := LimitsFor(kind)

	var rateOK bool
	if playDurationSeconds > 0 {
		rateOK = score/playDurationSeconds < MaxScoreRatePerSecond
	}

	return ValidationResult{
		ScoreInRange:    score >= 0 && score <= float64(limits.MaxScore),
		PlayTimeValid:   playDurationSeconds >= limits.MinPlayTimeSeconds,
		RateReasonable:  rateOK,
		ScoreIsIntegral: score == math.Trunc(score),
	}
}
