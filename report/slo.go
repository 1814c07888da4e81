package report

import (
	"fmt"
	"time"
)

// SLO holds the per-endpoint thresholds a run must stay within
type SLO struct {
	// P95Latency is the maximum acceptable 95th-percentile latency
	P95Latency time.Duration `yaml:"p95_latency" json:"p95_latency"`
	// MaxErrorRate is the maximum acceptable failure fraction, 0..1
	MaxErrorRate float64 `yaml:"max_error_rate" json:"max_error_rate"`
}

// Violation describes one endpoint breaching a threshold
type Violation struct {
	Endpoint string `json:"endpoint"`
	Method   string `json:"method"`
	Reason   string `json:"reason"`
}

// Evaluate checks every endpoint summary against the thresholds. A zero
// threshold disables the corresponding check.
func (s SLO) Evaluate(summary RunSummary) []Violation {
	var violations []Violation

	for _, es := range summary.Endpoints {
		if s.P95Latency > 0 && es.P95Ms > toMs(s.P95Latency) {
			violations = append(violations, Violation{
				Endpoint: es.Endpoint,
				Method:   es.Method,
				Reason:   fmt.Sprintf("p95 latency %.1fms exceeds %.1fms", es.P95Ms, toMs(s.P95Latency)),
			})
		}
		if s.MaxErrorRate > 0 && es.ErrorRate > s.MaxErrorRate {
			violations = append(violations, Violation{
				Endpoint: es.Endpoint,
				Method:   es.Method,
				Reason:   fmt.Sprintf("error rate %.2f exceeds %.2f", es.ErrorRate, s.MaxErrorRate),
			})
		}
	}

	return violations
}

// Passed reports whether the summary meets the SLO
func (s SLO) Passed(summary RunSummary) bool {
	return len(s.Evaluate(summary)) == 0
}
