package telemetry

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts events by name.
type Metrics struct {
	events *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		events: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "authflow_telemetry_events_total",
			Help: "Flow telemetry events by name",
		}, []string{"event"}),
	}
}

func (m *Metrics) Record(_ context.Context, e Event) {
	m.events.WithLabelValues(e.Name).Inc()
}
