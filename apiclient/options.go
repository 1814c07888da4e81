package apiclient

import (
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is used when neither the constructor argument nor the
	// API_BASE_URL environment variable supplies a base origin.
	DefaultBaseURL = "https://automationexercise.com/api"

	// EnvBaseURL is the environment variable consulted for the base origin.
	EnvBaseURL = "API_BASE_URL"
)

// RetryOptions configures retry behavior for API requests
type RetryOptions struct {
	MaxAttempts    int           // total attempts, including the first
	BaseBackoff    time.Duration // delay after the first failure, doubled each retry
	RequestTimeout time.Duration // per-attempt timeout unless overridden per call
}

// DefaultRetryOptions returns the retry options shared by the suites
func DefaultRetryOptions() RetryOptions {
	return RetryOptions{
		MaxAttempts:    3,
		BaseBackoff:    500 * time.Millisecond,
		RequestTimeout: 10 * time.Second,
	}
}

// Option is a functional option for configuring a Client
type Option func(*Client)

// WithLogger sets the logger for the Client
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithStatusHandler sets the status handler for the Client
func WithStatusHandler(handler StatusHandler) Option {
	return func(c *Client) {
		c.handler = handler
	}
}

// WithRetryOptions overrides the default retry options
func WithRetryOptions(opts RetryOptions) Option {
	return func(c *Client) {
		c.opts = opts
	}
}

// WithHTTPClient replaces the underlying HTTP transport
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// WithRateLimiter sets an optional callback that returns a rate limiter for
// the request. The callback may return nil to skip limiting for a request.
func WithRateLimiter(f func(method, endpoint string) *rate.Limiter) Option {
	return func(c *Client) {
		c.rateLimiter = f
	}
}

// RequestOption adjusts a single request.
type RequestOption func(*requestSpec)

type queryParam struct {
	key   string
	value string
}

type requestSpec struct {
	params  []queryParam
	timeout time.Duration
	form    bool
}

// WithParam appends a query parameter. Insertion order is preserved and
// repeated keys are appended, not overwritten.
func WithParam(key string, value interface{}) RequestOption {
	return func(r *requestSpec) {
		r.params = append(r.params, queryParam{key: key, value: fmt.Sprint(value)})
	}
}

// WithTimeout overrides the per-attempt timeout for one call.
func WithTimeout(d time.Duration) RequestOption {
	return func(r *requestSpec) {
		r.timeout = d
	}
}

// WithForm forces application/x-www-form-urlencoded encoding of POST data
// for endpoints the search-substring heuristic does not catch.
func WithForm() RequestOption {
	return func(r *requestSpec) {
		r.form = true
	}
}
