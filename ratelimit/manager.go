// Package ratelimit keeps load scripts inside the demo site's politeness
// budget by handing out per-endpoint token-bucket limiters.
package ratelimit

import (
	"math"
	"sync"

	"golang.org/x/time/rate"
)

// Limit describes the budget for one endpoint
type Limit struct {
	RequestsPerMinute int `yaml:"requests_per_minute" json:"requests_per_minute"`
	Burst             int `yaml:"burst" json:"burst"`
}

// Manager hands out rate limiters per endpoint, creating them on first use.
// Safe for concurrent use across suite workers sharing one client.
type Manager struct {
	mu        sync.RWMutex
	limiters  map[string]*rate.Limiter
	config    map[string]Limit
	defaultRL Limit
}

// NewManager creates a Manager. config maps endpoint to its budget;
// endpoints without an entry fall back to defaultLimit. A zero defaultLimit
// means 30 requests per minute.
func NewManager(config map[string]Limit, defaultLimit Limit) *Manager {
	return &Manager{
		limiters:  make(map[string]*rate.Limiter),
		config:    config,
		defaultRL: defaultLimit,
	}
}

// SetConfig applies a new budget configuration and rebuilds all limiters
func (m *Manager) SetConfig(config map[string]Limit) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.config = config

	for endpoint := range m.limiters {
		delete(m.limiters, endpoint)
	}
}

// Limiter returns the limiter for an endpoint, creating it if missing
func (m *Manager) Limiter(endpoint string) *rate.Limiter {
	m.mu.RLock()
	if lim, ok := m.limiters[endpoint]; ok {
		m.mu.RUnlock()
		return lim
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if lim, ok := m.limiters[endpoint]; ok {
		return lim
	}

	limit := m.limitFor(endpoint)
	burst := m.burstFor(endpoint, limit)
	limiter := rate.NewLimiter(limit, burst)
	m.limiters[endpoint] = limiter
	return limiter
}

// Callback adapts the Manager to the client's rate-limiter hook.
func (m *Manager) Callback() func(method, endpoint string) *rate.Limiter {
	return func(method, endpoint string) *rate.Limiter {
		return m.Limiter(endpoint)
	}
}

func (m *Manager) limitFor(endpoint string) rate.Limit {
	if cfg, ok := m.config[endpoint]; ok && cfg.RequestsPerMinute > 0 {
		return rate.Limit(float64(cfg.RequestsPerMinute) / 60.0)
	}
	if m.defaultRL.RequestsPerMinute > 0 {
		return rate.Limit(float64(m.defaultRL.RequestsPerMinute) / 60.0)
	}
	// Default fallback
	return rate.Limit(30.0 / 60.0) // 30 requests per minute
}

func (m *Manager) burstFor(endpoint string, limit rate.Limit) int {
	if cfg, ok := m.config[endpoint]; ok && cfg.Burst > 0 {
		return cfg.Burst
	}
	if m.defaultRL.Burst > 0 {
		return m.defaultRL.Burst
	}
	return defaultBurstForLimit(limit)
}

func defaultBurstForLimit(limit rate.Limit) int {
	if limit <= 1.0 {
		return 1
	}
	return int(math.Ceil(float64(limit)))
}
