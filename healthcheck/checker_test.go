package healthcheck

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// fakeHeadClient implements HeadClient for testing
type fakeHeadClient struct {
	mu     sync.Mutex
	status int
	err    error
	calls  int32
}

func (f *fakeHeadClient) Head(ctx context.Context, endpoint string) (int, error) {
	atomic.AddInt32(&f.calls, 1)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status, f.err
}

func (f *fakeHeadClient) set(status int, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = status
	f.err = err
}

func TestChecker_Healthy(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		err     error
		healthy bool
	}{
		{"ok", 200, nil, true},
		{"redirect", 301, nil, true},
		{"client error still reachable", 404, nil, true},
		{"degraded but reachable", 503, nil, false},
		{"server error", 500, nil, false},
		{"probe error", 0, errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			probe := &fakeHeadClient{status: tt.status, err: tt.err}
			c := New(probe, "/")
			if got := c.Healthy(context.Background()); got != tt.healthy {
				t.Errorf("Healthy() = %v, expected %v for status %d err %v",
					got, tt.healthy, tt.status, tt.err)
			}
		})
	}
}

func TestChecker_NeverPropagatesErrors(t *testing.T) {
	probe := &fakeHeadClient{err: errors.New("ECONNRESET")}
	c := New(probe, "/")

	// Must not panic and must report unhealthy, whatever the probe error is.
	if c.Healthy(context.Background()) {
		t.Error("expected unhealthy on probe error")
	}
}

func TestMonitor_TransitionCallback(t *testing.T) {
	probe := &fakeHeadClient{status: 200}
	checker := New(probe, "/")

	var mu sync.Mutex
	var transitions []bool
	m := NewMonitor(checker, 20*time.Millisecond, func(healthy bool) {
		mu.Lock()
		transitions = append(transitions, healthy)
		mu.Unlock()
	})

	m.Start()
	defer m.Stop()

	waitFor(t, func() bool { return m.Healthy() })

	probe.set(500, nil)
	waitFor(t, func() bool { return !m.Healthy() })

	probe.set(200, nil)
	waitFor(t, func() bool { return m.Healthy() })

	m.Stop()

	mu.Lock()
	defer mu.Unlock()
	if len(transitions) < 3 || !transitions[0] || transitions[1] || !transitions[2] {
		t.Errorf("expected transitions [true false true ...], got %v", transitions)
	}
}

func TestMonitor_StartStopIdempotent(t *testing.T) {
	probe := &fakeHeadClient{status: 200}
	m := NewMonitor(New(probe, "/"), 10*time.Millisecond, nil)

	m.Start()
	m.Start()
	m.Stop()
	m.Stop()
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}
