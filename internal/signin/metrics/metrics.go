package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for sign-in attempts.
type Metrics struct {
	Attempts      *prometheus.CounterVec
	DurationMs    *prometheus.HistogramVec
	UnblockEmails *prometheus.CounterVec
	UIDChanges    prometheus.Counter
}

func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Attempts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "authflow_signin_attempts_total",
			Help: "Sign-in attempts by phase and result (outcome kind or error code)",
		}, []string{"phase", "result"}),
		DurationMs: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "authflow_signin_duration_ms",
			Help:    "Duration of sign-in phases in milliseconds",
			Buckets: []float64{10, 25, 50, 100, 250, 500, 1000, 2500},
		}, []string{"phase"}),
		UnblockEmails: f.NewCounterVec(prometheus.CounterOpts{
			Name: "authflow_signin_unblock_emails_total",
			Help: "Unblock emails requested by result",
		}, []string{"result"}),
		UIDChanges: f.NewCounter(prometheus.CounterOpts{
			Name: "authflow_signin_uid_changes_total",
			Help: "Relier identity changes applied after sign-in",
		}),
	}
}

func (m *Metrics) IncAttempt(phase, result string) {
	if m == nil {
		return
	}
	m.Attempts.WithLabelValues(phase, result).Inc()
}

func (m *Metrics) ObserveDuration(phase string, ms float64) {
	if m == nil {
		return
	}
	m.DurationMs.WithLabelValues(phase).Observe(ms)
}

func (m *Metrics) IncUnblockEmail(result string) {
	if m == nil {
		return
	}
	m.UnblockEmails.WithLabelValues(result).Inc()
}

func (m *Metrics) IncUIDChange() {
	if m == nil {
		return
	}
	m.UIDChanges.Inc()
}
