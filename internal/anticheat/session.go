// Package anticheat collects behavioral signals during one play session and
// scores them heuristically. The verdict is advisory: callers log or soft-flag
// on HIGH risk but never block a submission on it alone.
package anticheat

import "time"

type Risk string

const (
	RiskLow    Risk = "LOW"
	RiskMedium Risk = "MEDIUM"
	RiskHigh   Risk = "HIGH"
)

const (
	maxMovementSamples = 1000

	minClicksForTiming   = 5
	clickVarianceFloor   = 100 // ms²
	inhumanIntervalMS    = 50
	maxInhumanIntervals  = 5
	minMovementSamples   = 10
	maxFocusLosses       = 3
	flagsToFailThreshold = 2
)

type ClickEvent struct {
	X         int
	Y         int
	Timestamp time.Time
}

type MovementSample struct {
	X         int
	Y         int
	Timestamp time.Time
}

// Session accumulates events while collecting. Not safe for concurrent use;
// one session belongs to one play loop.
type Session struct {
	startedAt time.Time
	clicks    []ClickEvent
	movements []MovementSample
	focusLost int
	closed    bool
}

func NewSession(now time.Time) *Session {
	return &Session{startedAt: now}
}

func (s *Session) RecordClick(x, y int, at time.Time) {
	if s.closed {
		return
	}
	s.clicks = append(s.clicks, ClickEvent{X: x, Y: y, Timestamp: at})
}

func (s *Session) RecordMovement(x, y int, at time.Time) {
	if s.closed || len(s.movements) >= maxMovementSamples {
		return
	}
	s.movements = append(s.movements, MovementSample{X: x, Y: y, Timestamp: at})
}

func (s *Session) RecordFocusLost() {
	if s.closed {
		return
	}
	s.focusLost++
}

type Analysis struct {
	Passed     bool     `json:"passed"`
	Warnings   []string `json:"warnings"`
	Confidence float64  `json:"confidence"`
	Risk       Risk     `json:"risk"`
}

type Report struct {
	Duration       time.Duration `json:"duration"`
	TotalClicks    int           `json:"total_clicks"`
	MovementCount  int           `json:"movement_count"`
	FocusLost      int           `json:"focus_lost"`
	Analysis       Analysis      `json:"analysis"`
	GeneratedAt    time.Time     `json:"generated_at"`
}

// Close analyzes the session and transitions it to closed; later events are
// dropped. The raw event buffers are only consulted here, never persisted.
func (s *Session) Close(now time.Time) Report {
	s.closed = true
	return Report{
		Duration:      now.Sub(s.startedAt),
		TotalClicks:   len(s.clicks),
		MovementCount: len(s.movements),
		FocusLost:     s.focusLost,
		Analysis:      s.analyze(),
		GeneratedAt:   now,
	}
}

func (s *Session) analyze() Analysis {
	var warnings []string

	if len(s.clicks) >= minClicksForTiming {
		intervals := make([]float64, 0, len(s.clicks)-1)
		for i := 1; i < len(s.clicks); i++ {
			intervals = append(intervals,
				float64(s.clicks[i].Timestamp.Sub(s.clicks[i-1].Timestamp).Milliseconds()))
		}

		if variance(intervals) < clickVarianceFloor {
			warnings = append(warnings, "suspiciously consistent click timing (bot-like)")
		}

		fast := 0
		for _, iv := range intervals {
			if iv < inhumanIntervalMS {
				fast++
			}
		}
		if fast > maxInhumanIntervals {
			warnings = append(warnings, "inhuman reaction times detected (<50ms)")
		}
	}

	if len(s.movements) < minMovementSamples {
		warnings = append(warnings, "insufficient pointer movement (automation suspected)")
	}

	if s.focusLost > maxFocusLosses {
		warnings = append(warnings, "multiple focus losses (multi-tasking/botting)")
	}

	confidence := float64(len(warnings)) / 3 * 100
	if confidence > 100 {
		confidence = 100
	}

	risk := RiskLow
	switch {
	case len(warnings) >= 2:
		risk = RiskHigh
	case len(warnings) == 1:
		risk = RiskMedium
	}

	return Analysis{
		Passed:     len(warnings) < flagsToFailThreshold,
		Warnings:   warnings,
		Confidence: confidence,
		Risk:       risk,
	}
}

func variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return sq / float64(len(values))
}
