// Package cache memoizes API responses between suite runs so test-data reads
// (product catalogs, brand lists) do not hammer the demo site on every run.
package cache

import (
	"time"
)

//go:generate mockgen -package=mock -source=interfaces.go -destination=mock/cache.go

// Cache interface defines the contract for cache implementations
type Cache interface {
	Get(key string) (*Entry, bool)
	Set(key string, val []byte, ttl time.Duration)
	Delete(key string)
}

// Entry represents a cached response body with TTL information
type Entry struct {
	Data      []byte `json:"data"`
	CreatedAt int64  `json:"created_at"`
	ExpiresAt int64  `json:"expires_at"`
}

// IsExpired checks if the entry has outlived its TTL
func (e *Entry) IsExpired() bool {
	return time.Now().Unix() > e.ExpiresAt
}

// Age returns how long ago the entry was stored
func (e *Entry) Age() time.Duration {
	return time.Since(time.Unix(e.CreatedAt, 0))
}

// Logger defines the interface for logging operations
// This allows users to plug in their own logger (zerolog, zap, etc.)
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// NoopLogger is a no-operation logger that discards all log messages
type NoopLogger struct{}

func (NoopLogger) Debug(msg string, keysAndValues ...interface{}) {}
func (NoopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (NoopLogger) Warn(msg string, keysAndValues ...interface{})  {}
func (NoopLogger) Error(msg string, keysAndValues ...interface{}) {}
