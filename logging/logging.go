// Package logging provides a zerolog-backed implementation of the leveled
// logger interfaces consumed by the client and cache packages.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger adapts zerolog to the keysAndValues-style logging interface.
type Logger struct {
	l zerolog.Logger
}

// Option is a functional option for configuring a Logger
type Option func(*config)

type config struct {
	w     io.Writer
	level zerolog.Level
}

// WithWriter directs log output to w instead of stderr
func WithWriter(w io.Writer) Option {
	return func(c *config) {
		c.w = w
	}
}

// WithLevel sets the minimum emitted level
func WithLevel(level zerolog.Level) Option {
	return func(c *config) {
		c.level = level
	}
}

// New creates a Logger writing JSON records with RFC3339 timestamps.
func New(opts ...Option) *Logger {
	cfg := &config{w: os.Stderr, level: zerolog.InfoLevel}
	for _, opt := range opts {
		opt(cfg)
	}

	zl := zerolog.New(cfg.w).Level(cfg.level).With().Timestamp().Logger()
	return &Logger{l: zl}
}

// Named returns a child logger carrying a component field.
func (lg *Logger) Named(component string) *Logger {
	return &Logger{l: lg.l.With().Str("component", component).Logger()}
}

func (lg *Logger) Debug(msg string, keysAndValues ...interface{}) {
	withFields(lg.l.Debug(), keysAndValues).Msg(msg)
}

func (lg *Logger) Info(msg string, keysAndValues ...interface{}) {
	withFields(lg.l.Info(), keysAndValues).Msg(msg)
}

func (lg *Logger) Warn(msg string, keysAndValues ...interface{}) {
	withFields(lg.l.Warn(), keysAndValues).Msg(msg)
}

func (lg *Logger) Error(msg string, keysAndValues ...interface{}) {
	withFields(lg.l.Error(), keysAndValues).Msg(msg)
}

// withFields folds alternating key/value pairs into the event. A trailing
// key without a value is emitted with a nil value rather than dropped.
func withFields(ev *zerolog.Event, keysAndValues []interface{}) *zerolog.Event {
	for i := 0; i < len(keysAndValues); i += 2 {
		key := fmt.Sprint(keysAndValues[i])
		if i+1 < len(keysAndValues) {
			ev = ev.Interface(key, keysAndValues[i+1])
		} else {
			ev = ev.Interface(key, nil)
		}
	}
	return ev
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
