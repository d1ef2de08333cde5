package obs

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRouteLookupCounter(t *testing.T) {
	m := NewMetrics("tabihi", prometheus.NewRegistry())
	m.RouteLookup(OutcomeOK)
	m.RouteLookup(OutcomeOK)
	m.RouteLookup(OutcomeNotFound)

	if got := testutil.ToFloat64(m.RouteLookups.WithLabelValues(OutcomeOK)); got != 2 {
		t.Fatalf("expected 2 ok lookups, got %v", got)
	}
	if got := testutil.ToFloat64(m.RouteLookups.WithLabelValues(OutcomeNotFound)); got != 1 {
		t.Fatalf("expected 1 not_found lookup, got %v", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.RouteLookup(OutcomeOK)
	m.ObserveHTTP("GET", "/health", "200", 0.01)
}
