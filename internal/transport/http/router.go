package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"authflow/internal/platform/health"
	"authflow/pkg/platform/middleware/metadata"
	"authflow/pkg/platform/middleware/request"
)

// RouterConfig carries the cross-cutting pieces of the router.
type RouterConfig struct {
	Logger   *slog.Logger
	Metrics  *request.Metrics
	Metadata *metadata.Middleware
	Health   *health.Handler
	// Gatherer backs /metrics. Nil uses the default gatherer.
	Gatherer prometheus.Gatherer
	// Timeout bounds API handlers. Zero disables it.
	Timeout   time.Duration
	BodyLimit int64
}

// NewRouter wires the API behind the middleware chain. Probes and /metrics
// bypass the timeout and body limit.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Metadata == nil {
		cfg.Metadata = metadata.NewMiddleware(metadata.Config{})
	}
	if cfg.Gatherer == nil {
		cfg.Gatherer = prometheus.DefaultGatherer
	}
	if cfg.BodyLimit <= 0 {
		cfg.BodyLimit = request.DefaultBodyLimit
	}

	r := chi.NewRouter()
	r.Use(request.Recovery(cfg.Logger))
	r.Use(request.RequestID)
	r.Use(cfg.Metadata.Handler)
	r.Use(request.Logger(cfg.Logger))
	r.Use(request.Instrument(cfg.Metrics))

	if cfg.Health != nil {
		cfg.Health.Register(r)
	}
	r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		if cfg.Timeout > 0 {
			r.Use(request.Timeout(cfg.Timeout))
		}
		r.Use(request.BodyLimit(cfg.BodyLimit))
		h.Register(r)
	})
	return r
}
