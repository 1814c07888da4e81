package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSummary() RunSummary {
	return RunSummary{
		RunID: "run-1",
		Endpoints: []EndpointSummary{
			{Endpoint: "/brandsList", Method: "GET", Requests: 100, P95Ms: 250, ErrorRate: 0},
			{Endpoint: "/productsList", Method: "GET", Requests: 100, P95Ms: 800, ErrorRate: 0.01},
			{Endpoint: "/searchProduct", Method: "POST", Requests: 100, P95Ms: 400, ErrorRate: 0.12},
		},
	}
}

func TestSLO_Evaluate(t *testing.T) {
	slo := SLO{P95Latency: 500 * time.Millisecond, MaxErrorRate: 0.05}

	violations := slo.Evaluate(testSummary())
	require.Len(t, violations, 2)

	assert.Equal(t, "/productsList", violations[0].Endpoint)
	assert.Contains(t, violations[0].Reason, "p95 latency")
	assert.Equal(t, "/searchProduct", violations[1].Endpoint)
	assert.Contains(t, violations[1].Reason, "error rate")
}

func TestSLO_Passed(t *testing.T) {
	summary := testSummary()

	assert.True(t, SLO{P95Latency: time.Second, MaxErrorRate: 0.5}.Passed(summary))
	assert.False(t, SLO{P95Latency: 100 * time.Millisecond}.Passed(summary))
}

func TestSLO_ZeroThresholdsDisabled(t *testing.T) {
	assert.True(t, SLO{}.Passed(testSummary()))
}

func TestSLO_BoundaryIsInclusive(t *testing.T) {
	summary := RunSummary{Endpoints: []EndpointSummary{
		{Endpoint: "/items", Method: "GET", P95Ms: 500, ErrorRate: 0.05},
	}}

	// Exactly at threshold passes; only strictly above violates
	slo := SLO{P95Latency: 500 * time.Millisecond, MaxErrorRate: 0.05}
	assert.True(t, slo.Passed(summary))
}
