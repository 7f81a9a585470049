package models

import "testing"

func TestIsValidTxTransition(t *testing.T) {
	tests := []struct {
		from     string
		to       string
		expected bool
	}{
		{TxStatusPending, TxStatusCompleted, true},
		{TxStatusPending, TxStatusFailed, true},

		{TxStatusCompleted, TxStatusPending, false},
		{TxStatusCompleted, TxStatusFailed, false},
		{TxStatusFailed, TxStatusPending, false},
		{TxStatusFailed, TxStatusCompleted, false},
		{TxStatusPending, TxStatusPending, false},
		{"nonexistent", TxStatusCompleted, false},
		{TxStatusPending, "nonexistent", false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			result := IsValidTxTransition(tt.from, tt.to)
			if result != tt.expected {
				t.Errorf("IsValidTxTransition(%q, %q) = %v, want %v", tt.from, tt.to, result, tt.expected)
			}
		})
	}
}

func TestTerminalTxStatusesHaveNoTransitions(t *testing.T) {
	for _, status := range []string{TxStatusCompleted, TxStatusFailed} {
		if n := len(ValidTxTransitions[status]); n != 0 {
			t.Errorf("terminal status %q should have no transitions, got %d", status, n)
		}
	}
}
