package apiclient

import "time"

// backoffDelay returns the wait before the next attempt after the attempt-th
// failure: the base delay doubled each cycle (500ms, 1000ms with defaults).
// Deterministic, no jitter: suite reports assert on retry timings.
func backoffDelay(base time.Duration, attempt int) time.Duration {
	if attempt <= 0 {
		return base
	}
	return base * time.Duration(1<<uint(attempt-1))
}
