package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for relier resolution and the client
// registry adapters.
type Metrics struct {
	Resolutions          *prometheus.CounterVec
	ResolutionDurationMs *prometheus.HistogramVec
	RegistryFetches      *prometheus.CounterVec
	RegistryCacheHits    prometheus.Counter
	RegistryCacheMisses  prometheus.Counter
	RegistryBreakerState *prometheus.GaugeVec
}

// New registers collectors with the default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers collectors with reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Resolutions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "authflow_relier_resolutions_total",
			Help: "Relier resolutions by flow kind and result code",
		}, []string{"kind", "result"}),
		ResolutionDurationMs: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "authflow_relier_resolution_duration_ms",
			Help:    "Duration of relier resolution in milliseconds",
			Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000},
		}, []string{"kind"}),
		RegistryFetches: f.NewCounterVec(prometheus.CounterOpts{
			Name: "authflow_registry_fetches_total",
			Help: "Client registry fetches by result",
		}, []string{"result"}),
		RegistryCacheHits: f.NewCounter(prometheus.CounterOpts{
			Name: "authflow_registry_cache_hits_total",
			Help: "Client registry cache hits",
		}),
		RegistryCacheMisses: f.NewCounter(prometheus.CounterOpts{
			Name: "authflow_registry_cache_misses_total",
			Help: "Client registry cache misses",
		}),
		RegistryBreakerState: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "authflow_registry_breaker_open",
			Help: "1 when the named registry circuit breaker is open",
		}, []string{"breaker"}),
	}
}

func (m *Metrics) IncResolution(kind, result string) {
	if m == nil {
		return
	}
	m.Resolutions.WithLabelValues(kind, result).Inc()
}

func (m *Metrics) ObserveResolutionDuration(kind string, ms float64) {
	if m == nil {
		return
	}
	m.ResolutionDurationMs.WithLabelValues(kind).Observe(ms)
}

func (m *Metrics) IncRegistryFetch(result string) {
	if m == nil {
		return
	}
	m.RegistryFetches.WithLabelValues(result).Inc()
}

func (m *Metrics) IncCacheHit() {
	if m == nil {
		return
	}
	m.RegistryCacheHits.Inc()
}

func (m *Metrics) IncCacheMiss() {
	if m == nil {
		return
	}
	m.RegistryCacheMisses.Inc()
}

func (m *Metrics) SetBreakerOpen(name string, open bool) {
	if m == nil {
		return
	}
	v := 0.0
	if open {
		v = 1
	}
	m.RegistryBreakerState.WithLabelValues(name).Set(v)
}
