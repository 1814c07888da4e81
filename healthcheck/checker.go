package healthcheck

import (
	"context"

	"github.com/storeqa/api-common/apiclient"
)

// HeadClient is the probe capability the checker needs from the API client.
type HeadClient interface {
	Head(ctx context.Context, endpoint string) (int, error)
}

// Checker probes an endpoint with lightweight HEAD requests. The service is
// considered healthy iff the status is strictly below 500: a 4xx still proves
// the service is reachable and serving.
type Checker struct {
	client   HeadClient
	endpoint string
	logger   apiclient.Logger
}

// Option is a functional option for configuring a Checker
type Option func(*Checker)

// WithLogger sets the logger for the Checker
func WithLogger(logger apiclient.Logger) Option {
	return func(c *Checker) {
		c.logger = logger
	}
}

// New creates a Checker probing the given endpoint
func New(client HeadClient, endpoint string, opts ...Option) *Checker {
	c := &Checker{
		client:   client,
		endpoint: endpoint,
		logger:   apiclient.NoopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Healthy reports whether the probed endpoint is up. It never returns an
// error: any probe failure is reported as unhealthy.
func (c *Checker) Healthy(ctx context.Context) bool {
	status, err := c.client.Head(ctx, c.endpoint)
	if err != nil {
		c.logger.Warn("health probe failed", "endpoint", c.endpoint, "error", err.Error())
		return false
	}
	return status < 500
}
