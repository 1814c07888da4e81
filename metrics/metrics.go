// Package metrics exposes request outcomes to Prometheus. It implements the
// client's StatusHandler so suites can scrape per-method request counts,
// retry counts and latency distributions.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/storeqa/api-common/apiclient"
)

// Ensure PrometheusHandler implements apiclient.StatusHandler
var _ apiclient.StatusHandler = (*PrometheusHandler)(nil)

// PrometheusHandler records request lifecycle events as Prometheus metrics
type PrometheusHandler struct {
	requests  *prometheus.CounterVec
	retries   prometheus.Counter
	durations *prometheus.HistogramVec
}

// NewPrometheusHandler returns a handler backed by the package-level metrics
func NewPrometheusHandler() *PrometheusHandler {
	return &PrometheusHandler{
		requests:  RequestsTotal,
		retries:   RetriesTotal,
		durations: RequestDuration,
	}
}

// OnRequest records the outcome of one request attempt
func (p *PrometheusHandler) OnRequest(ev apiclient.RequestEvent) {
	p.requests.WithLabelValues(ev.Method, statusLabel(ev)).Inc()
	p.durations.WithLabelValues(ev.Method).Observe(ev.Duration.Seconds())
}

// OnRetry records a scheduled retry
func (p *PrometheusHandler) OnRetry(attempt int, delay time.Duration, err error) {
	p.retries.Inc()
}

func statusLabel(ev apiclient.RequestEvent) string {
	if ev.Status == 0 && ev.Err != nil {
		return "transport_error"
	}
	return strconv.Itoa(ev.Status)
}

var (
	// RequestsTotal counts request attempts by method and status
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "api_requests_total",
		Help: "The total number of API request attempts",
	}, []string{"method", "status"})

	// RetriesTotal counts scheduled retries
	RetriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "api_request_retries_total",
		Help: "The total number of API request retries",
	})

	// RequestDuration tracks attempt latency by method
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "api_request_duration_seconds",
		Help:    "API request attempt latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})
)
