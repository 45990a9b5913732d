package metrics

import "github.com/prometheus/client_golang/prometheus"

// Intake outcome labels.
const (
	OutcomeAccepted    = "accepted"
	OutcomeRateLimited = "rate_limited"
	OutcomeInvalid     = "invalid"
	OutcomeStoreFailed = "store_failed"
)

// IntakeMetrics exposes counters/histograms for public form submissions.
type IntakeMetrics struct {
	submissions *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	notify      *prometheus.CounterVec
}

func NewIntakeMetrics(reg prometheus.Registerer) *IntakeMetrics {
	m := &IntakeMetrics{
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eks",
			Subsystem: "intake",
			Name:      "submissions_total",
			Help:      "Public form submissions by endpoint and outcome",
		}, []string{"endpoint", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "eks",
			Subsystem: "intake",
			Name:      "duration_seconds",
			Help:      "Time spent handling a public form submission",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
		notify: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eks",
			Subsystem: "intake",
			Name:      "staff_notifications_total",
			Help:      "Staff notification emails by endpoint and status",
		}, []string{"endpoint", "status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissions, m.duration, m.notify)
	return m
}

func (m *IntakeMetrics) ObserveSubmission(endpoint, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(endpoint, outcome).Inc()
	m.duration.WithLabelValues(endpoint).Observe(seconds)
}

func (m *IntakeMetrics) ObserveNotification(endpoint string, ok bool) {
	if m == nil {
		return
	}
	status := "sent"
	if !ok {
		status = "failed"
	}
	m.notify.WithLabelValues(endpoint, status).Inc()
}

// Submissions exposes the submission counter for assertions in handler tests.
func (m *IntakeMetrics) Submissions() *prometheus.CounterVec {
	return m.submissions
}

// Notifications exposes the staff notification counter.
func (m *IntakeMetrics) Notifications() *prometheus.CounterVec {
	return m.notify
}
