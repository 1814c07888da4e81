package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"
)

// APIError is the single error shape surfaced by the client, normalized
// across transport and application failures. Status is 0 when no HTTP
// response was obtained.
type APIError struct {
	Status    int
	Message   string
	Endpoint  string
	Timestamp string

	cause error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.cause
}

// translateError wraps a raw attempt failure into an APIError with
// method/endpoint/status context. Translation happens exactly once, at the
// point the attempt fails; the error is never re-wrapped afterwards.
func translateError(method, endpoint string, status int, cause error) *APIError {
	msg := "Unknown error"
	if cause != nil && cause.Error() != "" {
		msg = cause.Error()
	}
	return &APIError{
		Status:    status,
		Message:   fmt.Sprintf("[%s] %s failed: %s (Status: %d)", method, endpoint, msg, status),
		Endpoint:  endpoint,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		cause:     cause,
	}
}

// transientSubstrings are the errno names carried by transport failures that
// are worth retrying: connection reset, timeout, DNS resolution failure.
var transientSubstrings = []string{"ECONNRESET", "ETIMEDOUT", "ENOTFOUND"}

// IsRetryable reports whether a failed attempt may succeed if repeated.
// Responses with a status are retryable only on 429 or 5xx; other 4xx are
// caller defects. Without a status, only reset/timeout/DNS failures qualify.
func IsRetryable(err *APIError) bool {
	if err.Status > 0 {
		return err.Status == http.StatusTooManyRequests || err.Status >= 500
	}
	return isTransientTransport(err)
}

func isTransientTransport(err *APIError) bool {
	for _, s := range transientSubstrings {
		if strings.Contains(err.Message, s) {
			return true
		}
	}

	if errors.Is(err.cause, syscall.ECONNRESET) ||
		errors.Is(err.cause, syscall.ETIMEDOUT) ||
		errors.Is(err.cause, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err.cause, &netErr) && netErr.Timeout() {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err.cause, &dnsErr) && dnsErr.IsNotFound {
		return true
	}

	return false
}
