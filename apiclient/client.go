package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Client performs typed HTTP requests against a configured base origin with
// uniform retry, timing and error-handling semantics, so transient failures
// stay invisible to callers whenever recovery fits in the attempt budget.
//
// Configuration is fixed at construction; concurrent calls on the same
// instance never interfere (each retry loop owns its local attempt counter).
type Client struct {
	baseURL string
	http    *http.Client
	opts    RetryOptions
	logger  Logger
	handler StatusHandler
	// rateLimiter optionally returns a limiter for the request; nil disables limiting
	rateLimiter func(method, endpoint string) *rate.Limiter
}

// New creates a Client. An empty baseURL falls back to the API_BASE_URL
// environment variable, then to DefaultBaseURL.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = os.Getenv(EnvBaseURL)
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{},
		opts:    DefaultRetryOptions(),
		logger:  NoopLogger{},
		handler: NoopStatusHandler{},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// BaseURL returns the resolved base origin.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ResolveURL joins the base URL and an endpoint with exactly one separating
// slash. No normalization of duplicate slashes and no percent-encoding beyond
// what the query-parameter append performs.
func (c *Client) ResolveURL(endpoint string) string {
	if strings.HasPrefix(endpoint, "/") {
		return c.baseURL + endpoint
	}
	return c.baseURL + "/" + endpoint
}

// Response is one completed HTTP round trip. It is constructed fresh on every
// successful attempt and owned exclusively by the caller.
type Response[T any] struct {
	Data     T
	Status   int
	Header   http.Header
	Duration time.Duration
}

// Get performs a GET request against the endpoint and decodes the JSON
// response body into T. Transient failures are retried with exponential
// backoff; non-transient failures surface immediately as *APIError.
func Get[T any](ctx context.Context, c *Client, endpoint string, opts ...RequestOption) (*Response[T], error) {
	spec := c.newRequestSpec(opts)
	fullURL := c.ResolveURL(endpoint) + encodeQuery(spec.params)

	return withRetry(ctx, c, http.MethodGet, endpoint, spec, func(ctx context.Context) (*Response[T], error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return execute[T](c, req)
	})
}

// Post performs a POST request against the endpoint. Endpoints containing
// the substring "search" are serialized as application/x-www-form-urlencoded,
// as is any call carrying WithForm(); everything else is serialized as JSON
// (an empty object when data is nil). Retry semantics match Get.
func Post[T any](ctx context.Context, c *Client, endpoint string, data map[string]interface{}, opts ...RequestOption) (*Response[T], error) {
	spec := c.newRequestSpec(opts)
	fullURL := c.ResolveURL(endpoint) + encodeQuery(spec.params)

	body, contentType, err := encodeBody(endpoint, data, spec.form)
	if err != nil {
		return nil, translateError(http.MethodPost, endpoint, 0, err)
	}

	return withRetry(ctx, c, http.MethodPost, endpoint, spec, func(ctx context.Context) (*Response[T], error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, fullURL, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Accept", "application/json")
		return execute[T](c, req)
	})
}

// Head issues a single HEAD request and returns the response status. It never
// retries: liveness probes want an immediate failure signal rather than a
// backoff sequence. Non-2xx statuses are returned as-is, not as errors.
func (c *Client) Head(ctx context.Context, endpoint string) (int, error) {
	spec := c.newRequestSpec(nil)
	attemptCtx, cancel := context.WithTimeout(ctx, spec.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodHead, c.ResolveURL(endpoint), nil)
	if err != nil {
		return 0, translateError(http.MethodHead, endpoint, 0, err)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	duration := time.Since(start)

	if err != nil {
		apiErr := translateError(http.MethodHead, endpoint, 0, err)
		c.handler.OnRequest(RequestEvent{Method: http.MethodHead, Endpoint: endpoint, Duration: duration, Err: apiErr})
		c.logger.Warn("HEAD request failed", "endpoint", endpoint, "error", apiErr.Message)
		return 0, apiErr
	}
	_ = resp.Body.Close()

	c.handler.OnRequest(RequestEvent{Method: http.MethodHead, Endpoint: endpoint, Status: resp.StatusCode, Duration: duration})
	c.logger.Debug("HEAD request completed", "endpoint", endpoint, "status", resp.StatusCode, "duration_ms", duration.Milliseconds())
	return resp.StatusCode, nil
}

func (c *Client) newRequestSpec(opts []RequestOption) *requestSpec {
	spec := &requestSpec{timeout: c.opts.RequestTimeout}
	for _, opt := range opts {
		opt(spec)
	}
	return spec
}

// withRetry executes attemptFn up to MaxAttempts times, sleeping the backoff
// delay between retryable failures. The first success wins; a non-retryable
// failure or retry exhaustion surfaces the last translated error unchanged.
func withRetry[T any](ctx context.Context, c *Client, method, endpoint string, spec *requestSpec, attemptFn func(context.Context) (*Response[T], error)) (*Response[T], error) {
	for attempt := 1; ; attempt++ {
		c.logger.Debug("dispatching request", "method", method, "endpoint", endpoint, "attempt", attempt)

		if c.rateLimiter != nil {
			if limiter := c.rateLimiter(method, endpoint); limiter != nil {
				if err := limiter.Wait(ctx); err != nil {
					return nil, translateError(method, endpoint, 0, fmt.Errorf("rate limiter wait failed: %w", err))
				}
			}
		}

		attemptCtx, cancel := context.WithTimeout(ctx, spec.timeout)
		resp, err := attemptFn(attemptCtx)
		cancel()

		if err == nil {
			c.handler.OnRequest(RequestEvent{Method: method, Endpoint: endpoint, Status: resp.Status, Duration: resp.Duration})
			c.logger.Info("request completed", "method", method, "endpoint", endpoint,
				"status", resp.Status, "duration_ms", resp.Duration.Milliseconds())
			return resp, nil
		}

		var att *attemptError
		if !errors.As(err, &att) {
			att = &attemptError{cause: err}
		}
		apiErr := translateError(method, endpoint, att.status, att.cause)

		c.handler.OnRequest(RequestEvent{Method: method, Endpoint: endpoint, Status: att.status, Duration: att.duration, Err: apiErr})
		c.logger.Warn("request failed", "method", method, "endpoint", endpoint,
			"status", att.status, "error", apiErr.Message)

		if !IsRetryable(apiErr) || attempt >= c.opts.MaxAttempts {
			return nil, apiErr
		}

		delay := backoffDelay(c.opts.BaseBackoff, attempt)
		c.handler.OnRetry(attempt, delay, apiErr)
		c.logger.Info("retrying request", "method", method, "endpoint", endpoint,
			"attempt", attempt, "delay_ms", delay.Milliseconds())

		select {
		case <-ctx.Done():
			return nil, apiErr
		case <-time.After(delay):
		}
	}
}

// attemptError carries the HTTP status (0 for transport failures) and the
// measured duration of a single failed attempt to the retry loop.
type attemptError struct {
	status   int
	duration time.Duration
	cause    error
}

func (e *attemptError) Error() string {
	return e.cause.Error()
}

func (e *attemptError) Unwrap() error {
	return e.cause
}

// execute performs one request attempt. Duration is measured from just before
// dispatch to just after the body is fully decoded.
func execute[T any](c *Client, req *http.Request) (*Response[T], error) {
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &attemptError{duration: time.Since(start), cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &attemptError{duration: time.Since(start), cause: fmt.Errorf("error reading response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &attemptError{
			status:   resp.StatusCode,
			duration: time.Since(start),
			cause:    fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	var data T
	if len(body) > 0 {
		if err := json.Unmarshal(body, &data); err != nil {
			return nil, &attemptError{duration: time.Since(start), cause: fmt.Errorf("error decoding response: %w", err)}
		}
	}

	return &Response[T]{
		Data:     data,
		Status:   resp.StatusCode,
		Header:   resp.Header,
		Duration: time.Since(start),
	}, nil
}

// encodeBody serializes POST data per the content-type selection rule.
func encodeBody(endpoint string, data map[string]interface{}, forceForm bool) ([]byte, string, error) {
	if forceForm || strings.Contains(endpoint, "search") {
		form := url.Values{}
		for k, v := range data {
			form.Set(k, fmt.Sprint(v))
		}
		return []byte(form.Encode()), "application/x-www-form-urlencoded", nil
	}

	if data == nil {
		data = map[string]interface{}{}
	}
	body, err := json.Marshal(data)
	if err != nil {
		return nil, "", fmt.Errorf("error encoding request body: %w", err)
	}
	return body, "application/json", nil
}

// encodeQuery renders ordered query parameters, leading '?' included.
func encodeQuery(params []queryParam) string {
	if len(params) == 0 {
		return ""
	}

	var b strings.Builder
	for i, p := range params {
		if i == 0 {
			b.WriteByte('?')
		} else {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.value))
	}
	return b.String()
}
