package services

import (
	"testing"
	"time"
)

func TestPeriodStart(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			"sunday midnight is its own period start",
			time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), // Sunday
			time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			"mid-week maps back to sunday",
			time.Date(2026, 3, 18, 9, 30, 0, 0, time.UTC), // Wednesday
			time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			"saturday night still belongs to the running week",
			time.Date(2026, 3, 21, 23, 59, 59, 0, time.UTC),
			time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PeriodStart(tt.in); !got.Equal(tt.want) {
				t.Errorf("PeriodStart(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestPeriodStartStableAcrossWeek(t *testing.T) {
	// Every instant inside one week resolves to the same period, which is
	// what makes the settlement marker idempotent.
	base := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	for h := 0; h < 7*24; h++ {
		got := PeriodStart(base.Add(time.Duration(h) * time.Hour))
		if !got.Equal(base) {
			t.Fatalf("hour %d: period start %v, want %v", h, got, base)
		}
	}
}
