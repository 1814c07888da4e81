package apiclient

import (
	"testing"
	"time"
)

func TestBackoffDelay(t *testing.T) {
	base := 500 * time.Millisecond

	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{1, 500 * time.Millisecond},
		{2, 1000 * time.Millisecond},
		{3, 2000 * time.Millisecond},
		{0, 500 * time.Millisecond},
	}

	for _, tt := range tests {
		if got := backoffDelay(base, tt.attempt); got != tt.expected {
			t.Errorf("backoffDelay(attempt=%d) = %v, expected %v", tt.attempt, got, tt.expected)
		}
	}
}
