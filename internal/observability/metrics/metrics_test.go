package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestIntakeMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewIntakeMetrics(reg)
	m.ObserveSubmission("contact", OutcomeAccepted, 0.02)
	m.ObserveSubmission("contact", OutcomeAccepted, 0.03)
	m.ObserveSubmission("quote_request", OutcomeRateLimited, 0.001)
	m.ObserveNotification("contact", false)

	if got := testutil.ToFloat64(m.submissions.WithLabelValues("contact", OutcomeAccepted)); got != 2 {
		t.Fatalf("expected 2 accepted contact submissions, got %v", got)
	}
	if got := testutil.ToFloat64(m.submissions.WithLabelValues("quote_request", OutcomeRateLimited)); got != 1 {
		t.Fatalf("expected 1 rate limited quote submission, got %v", got)
	}
	if got := testutil.ToFloat64(m.notify.WithLabelValues("contact", "failed")); got != 1 {
		t.Fatalf("expected 1 failed notification, got %v", got)
	}
}

func TestIntakeMetricsNilSafe(t *testing.T) {
	var m *IntakeMetrics
	m.ObserveSubmission("contact", OutcomeInvalid, 0.1)
	m.ObserveNotification("contact", true)
}
