package healthcheck

import (
	"context"
	"sync"
	"time"

	"github.com/storeqa/api-common/apiclient"
)

// Monitor runs a background health probe at regular intervals and reports
// state transitions. A suite typically starts one monitor per target origin
// and pauses load generation while the target is down.
type Monitor struct {
	checker  *Checker
	interval time.Duration
	onChange func(healthy bool)
	logger   apiclient.Logger

	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
	healthy bool
	started bool // false until the first probe completes
}

// MonitorOption is a functional option for configuring a Monitor
type MonitorOption func(*Monitor)

// WithMonitorLogger sets the logger for the Monitor
func WithMonitorLogger(logger apiclient.Logger) MonitorOption {
	return func(m *Monitor) {
		m.logger = logger
	}
}

// NewMonitor creates a Monitor probing via the checker every interval.
// onChange may be nil; it is invoked on every health transition, including
// the first probe result.
func NewMonitor(checker *Checker, interval time.Duration, onChange func(healthy bool), opts ...MonitorOption) *Monitor {
	m := &Monitor{
		checker:  checker,
		interval: interval,
		onChange: onChange,
		logger:   apiclient.NoopLogger{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start launches the background probe loop. Calling Start on a running
// monitor is a no-op.
func (m *Monitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.running = true

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		m.probe(ctx)

		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				m.probe(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop halts the probe loop and waits for it to exit.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	m.cancel()
	m.mu.Unlock()

	m.wg.Wait()
}

// Healthy returns the result of the most recent probe. Before the first
// probe completes it returns false.
func (m *Monitor) Healthy() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.started && m.healthy
}

func (m *Monitor) probe(ctx context.Context) {
	healthy := m.checker.Healthy(ctx)

	m.mu.Lock()
	changed := !m.started || healthy != m.healthy
	m.started = true
	m.healthy = healthy
	m.mu.Unlock()

	if changed {
		m.logger.Info("health state changed", "endpoint", m.checker.endpoint, "healthy", healthy)
		if m.onChange != nil {
			m.onChange(healthy)
		}
	}
}
