package report

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Aggregator folds request records into per-endpoint statistics. Safe for
// concurrent use; the client may report from several in-flight requests.
type Aggregator struct {
	mu        sync.Mutex
	runID     string
	startedAt time.Time
	endpoints map[string]*endpointStats
}

type endpointStats struct {
	endpoint  string
	method    string
	durations []time.Duration
	failures  int
	retries   int
}

// NewAggregator creates an Aggregator for a fresh run
func NewAggregator() *Aggregator {
	return &Aggregator{
		runID:     uuid.NewString(),
		startedAt: time.Now().UTC(),
		endpoints: make(map[string]*endpointStats),
	}
}

// RunID returns the identifier of this run
func (a *Aggregator) RunID() string {
	return a.runID
}

// Add folds one request record into the aggregate
func (a *Aggregator) Add(rec Record) {
	a.mu.Lock()
	defer a.mu.Unlock()

	stats := a.stats(rec.Method, rec.Endpoint)
	stats.durations = append(stats.durations, rec.Duration)
	if rec.Error != "" {
		stats.failures++
	}
}

// AddRetry counts a scheduled retry for the endpoint, any method
func (a *Aggregator) AddRetry(endpoint string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, stats := range a.endpoints {
		if stats.endpoint == endpoint {
			stats.retries++
			return
		}
	}
	// Retry observed before any completed attempt was recorded
	a.stats("", endpoint).retries++
}

func (a *Aggregator) stats(method, endpoint string) *endpointStats {
	key := method + " " + endpoint
	stats, ok := a.endpoints[key]
	if !ok {
		stats = &endpointStats{endpoint: endpoint, method: method}
		a.endpoints[key] = stats
	}
	return stats
}

// RunSummary is the aggregation result for one run
type RunSummary struct {
	RunID     string            `json:"run_id"`
	StartedAt time.Time         `json:"started_at"`
	Endpoints []EndpointSummary `json:"endpoints"`
}

// EndpointSummary is the aggregation result for one endpoint/method pair.
// Latency figures are in milliseconds.
type EndpointSummary struct {
	Endpoint  string  `json:"endpoint"`
	Method    string  `json:"method"`
	Requests  int     `json:"requests"`
	Failures  int     `json:"failures"`
	Retries   int     `json:"retries"`
	ErrorRate float64 `json:"error_rate"`
	MinMs     float64 `json:"min_ms"`
	AvgMs     float64 `json:"avg_ms"`
	MaxMs     float64 `json:"max_ms"`
	P50Ms     float64 `json:"p50_ms"`
	P95Ms     float64 `json:"p95_ms"`
	P99Ms     float64 `json:"p99_ms"`
}

// Summary computes the run summary from everything recorded so far.
// Endpoints are ordered by endpoint then method for stable output.
func (a *Aggregator) Summary() RunSummary {
	a.mu.Lock()
	defer a.mu.Unlock()

	summary := RunSummary{
		RunID:     a.runID,
		StartedAt: a.startedAt,
		Endpoints: make([]EndpointSummary, 0, len(a.endpoints)),
	}

	for _, stats := range a.endpoints {
		summary.Endpoints = append(summary.Endpoints, summarize(stats))
	}

	sort.Slice(summary.Endpoints, func(i, j int) bool {
		a, b := summary.Endpoints[i], summary.Endpoints[j]
		if a.Endpoint != b.Endpoint {
			return a.Endpoint < b.Endpoint
		}
		return a.Method < b.Method
	})

	return summary
}

func summarize(stats *endpointStats) EndpointSummary {
	es := EndpointSummary{
		Endpoint: stats.endpoint,
		Method:   stats.method,
		Requests: len(stats.durations),
		Failures: stats.failures,
		Retries:  stats.retries,
	}

	if es.Requests == 0 {
		return es
	}

	es.ErrorRate = float64(stats.failures) / float64(es.Requests)

	sorted := make([]time.Duration, len(stats.durations))
	copy(sorted, stats.durations)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var total time.Duration
	for _, d := range sorted {
		total += d
	}

	es.MinMs = toMs(sorted[0])
	es.MaxMs = toMs(sorted[len(sorted)-1])
	es.AvgMs = toMs(total) / float64(len(sorted))
	es.P50Ms = toMs(percentile(sorted, 50))
	es.P95Ms = toMs(percentile(sorted, 95))
	es.P99Ms = toMs(percentile(sorted, 99))

	return es
}

// percentile returns the nearest-rank percentile of a sorted slice
func percentile(sorted []time.Duration, p int) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	rank := (p*len(sorted) + 99) / 100 // ceil(p/100 * n)
	if rank < 1 {
		rank = 1
	}
	if rank > len(sorted) {
		rank = len(sorted)
	}
	return sorted[rank-1]
}

func toMs(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
