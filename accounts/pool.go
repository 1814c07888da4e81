// Package accounts manages the pool of test accounts a suite logs in with.
// The demo site throttles and occasionally locks accounts mid-run, so the
// pool tracks recent failures and keeps locked accounts out of rotation for
// a backoff window instead of hammering them.
package accounts

import (
	"sync"
	"time"

	"github.com/storeqa/api-common/apiclient"
)

// Credentials is one test account
type Credentials struct {
	Email    string
	Password string
	// Label describes the account's role in the suite (admin, buyer, ...)
	Label string
}

// Provider supplies the configured accounts for a role
type Provider interface {
	Accounts(role string) []Credentials
}

// StaticProvider serves a fixed role-to-accounts map
type StaticProvider map[string][]Credentials

func (p StaticProvider) Accounts(role string) []Credentials {
	return p[role]
}

// Pool hands out usable test accounts, preferring roles in their listed
// order and skipping accounts that recently failed.
type Pool struct {
	provider   Provider
	roles      []string // ordered by priority
	lastFailed map[string]time.Time
	backoff    time.Duration
	logger     apiclient.Logger
	mu         sync.RWMutex
}

// PoolOption is a functional option for configuring a Pool
type PoolOption func(*Pool)

// WithPoolLogger sets the logger for the Pool
func WithPoolLogger(logger apiclient.Logger) PoolOption {
	return func(p *Pool) {
		p.logger = logger
	}
}

// NewPool creates a Pool over the provider's accounts. A zero backoff means
// five minutes.
func NewPool(provider Provider, roles []string, backoff time.Duration, opts ...PoolOption) *Pool {
	if backoff == 0 {
		backoff = 5 * time.Minute
	}
	p := &Pool{
		provider:   provider,
		roles:      roles,
		lastFailed: make(map[string]time.Time),
		backoff:    backoff,
		logger:     apiclient.NoopLogger{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Available returns the accounts currently in rotation, priority order
// preserved. A role with a single account keeps it available even during
// backoff, since taking it out would starve that role entirely.
func (p *Pool) Available() []Credentials {
	var available []Credentials

	for _, role := range p.roles {
		creds := p.provider.Accounts(role)

		if len(creds) == 1 {
			available = append(available, creds[0])
			continue
		}
		for _, c := range creds {
			if !p.inBackoff(c.Email) {
				available = append(available, c)
			}
		}
	}

	return available
}

// MarkFailed takes an account out of rotation for the backoff window
func (p *Pool) MarkFailed(email string) {
	if email == "" {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.lastFailed[email] = time.Now()
	p.logger.Warn("account taken out of rotation", "email", email, "backoff", p.backoff.String())
}

func (p *Pool) inBackoff(email string) bool {
	if email == "" {
		return false
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if failedAt, ok := p.lastFailed[email]; ok {
		return time.Since(failedAt) < p.backoff
	}
	return false
}
