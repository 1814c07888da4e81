// Package report aggregates per-request log records emitted by the API
// client into per-endpoint run summaries, evaluates them against SLO
// thresholds, and publishes results for cross-worker aggregation.
package report

import (
	"errors"
	"time"

	"github.com/storeqa/api-common/apiclient"
)

// Record is one request attempt as seen by the aggregation side
type Record struct {
	Endpoint  string        `json:"endpoint"`
	Method    string        `json:"method"`
	Status    int           `json:"status"`
	Duration  time.Duration `json:"duration"`
	Error     string        `json:"error,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// Ensure Collector implements apiclient.StatusHandler
var _ apiclient.StatusHandler = (*Collector)(nil)

// Collector adapts the client's request events into aggregator records.
// Install it on a client via apiclient.WithStatusHandler (combine with other
// handlers through apiclient.MultiStatusHandler).
type Collector struct {
	agg *Aggregator
}

// NewCollector creates a Collector feeding the given aggregator
func NewCollector(agg *Aggregator) *Collector {
	return &Collector{agg: agg}
}

// OnRequest records one completed attempt
func (c *Collector) OnRequest(ev apiclient.RequestEvent) {
	rec := Record{
		Endpoint:  ev.Endpoint,
		Method:    ev.Method,
		Status:    ev.Status,
		Duration:  ev.Duration,
		Timestamp: time.Now().UTC(),
	}
	if ev.Err != nil {
		rec.Error = ev.Err.Error()
	}
	c.agg.Add(rec)
}

// OnRetry counts a scheduled retry against the failing endpoint
func (c *Collector) OnRetry(attempt int, delay time.Duration, err error) {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		c.agg.AddRetry(apiErr.Endpoint)
	}
}
