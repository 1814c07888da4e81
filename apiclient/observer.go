package apiclient

import "time"

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

// RequestEvent describes one completed request attempt. Err is nil on
// success; Status is 0 when no HTTP response was obtained.
type RequestEvent struct {
	Method   string
	Endpoint string
	Status   int
	Duration time.Duration
	Err      error
}

// StatusHandler receives request lifecycle events. Implementations must be
// safe for concurrent use; the client may have several requests in flight.
type StatusHandler interface {
	// OnRequest is invoked once per attempt, success or failure
	OnRequest(ev RequestEvent)
	// OnRetry is invoked before the backoff sleep preceding a retry
	OnRetry(attempt int, delay time.Duration, err error)
}

// NoopStatusHandler discards all events
type NoopStatusHandler struct{}

func (NoopStatusHandler) OnRequest(ev RequestEvent)                          {}
func (NoopStatusHandler) OnRetry(attempt int, delay time.Duration, err error) {}

// MultiStatusHandler fans events out to several handlers in order
type MultiStatusHandler []StatusHandler

func (m MultiStatusHandler) OnRequest(ev RequestEvent) {
	for _, h := range m {
		h.OnRequest(ev)
	}
}

func (m MultiStatusHandler) OnRetry(attempt int, delay time.Duration, err error) {
	for _, h := range m {
		h.OnRetry(attempt, delay, err)
	}
}
