package registry

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"authflow/internal/relier"
	"authflow/internal/relier/metrics"
	"authflow/internal/relier/schema"
	dErrors "authflow/pkg/domain-errors"
	"authflow/pkg/platform/circuit"
)

const defaultCacheTTL = 5 * time.Minute

// Resilient wraps a ClientRegistry with a TTL cache, request coalescing and a
// circuit breaker. Fresh cache entries are served without a call; while the
// circuit is open, failures fall back to cached records, expired or not.
type Resilient struct {
	delegate relier.ClientRegistry
	cb       *circuit.Breaker
	cache    *clientCache
	group    singleflight.Group
	logger   *slog.Logger
	metrics  *metrics.Metrics

	breakerOpts []circuit.Option
}

type ResilientOption func(*Resilient)

// WithFailureThreshold sets the consecutive failures that open the circuit.
func WithFailureThreshold(n int) ResilientOption {
	return func(r *Resilient) {
		r.breakerOpts = append(r.breakerOpts, circuit.WithFailureThreshold(n))
	}
}

// WithSuccessThreshold sets the consecutive successes that close the circuit.
func WithSuccessThreshold(n int) ResilientOption {
	return func(r *Resilient) {
		r.breakerOpts = append(r.breakerOpts, circuit.WithSuccessThreshold(n))
	}
}

func WithCacheTTL(ttl time.Duration) ResilientOption {
	return func(r *Resilient) {
		if ttl > 0 {
			r.cache = newClientCache(ttl)
		}
	}
}

func WithResilientLogger(logger *slog.Logger) ResilientOption {
	return func(r *Resilient) {
		r.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) ResilientOption {
	return func(r *Resilient) {
		r.metrics = m
	}
}

func NewResilient(delegate relier.ClientRegistry, opts ...ResilientOption) *Resilient {
	r := &Resilient{
		delegate: delegate,
		cache:    newClientCache(defaultCacheTTL),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	breakerOpts := append(r.breakerOpts, circuit.WithStateListener(func(name string, to circuit.State) {
		r.metrics.SetBreakerOpen(name, to == circuit.StateOpen)
	}))
	r.cb = circuit.New("client_registry", breakerOpts...)
	return r
}

// GetClientInfo implements relier.ClientRegistry.
func (r *Resilient) GetClientInfo(ctx context.Context, clientID string) (schema.Params, error) {
	if params, ok := r.cache.Get(clientID); ok {
		r.metrics.IncCacheHit()
		return params, nil
	}
	r.metrics.IncCacheMiss()

	v, err, _ := r.group.Do(clientID, func() (any, error) {
		return r.fetch(ctx, clientID)
	})
	if err != nil {
		return nil, err
	}
	return v.(schema.Params), nil
}

func (r *Resilient) fetch(ctx context.Context, clientID string) (schema.Params, error) {
	params, err := r.delegate.GetClientInfo(ctx, clientID)
	if err != nil {
		// Validation answers come from a healthy registry.
		if isRegistryAnswer(err) {
			r.cb.RecordSuccess()
			r.metrics.IncRegistryFetch("rejected")
			return nil, err
		}

		r.metrics.IncRegistryFetch("error")
		useFallback, change := r.cb.RecordFailure()
		if change.Opened {
			r.logger.ErrorContext(ctx, "circuit breaker opened",
				"circuit", r.cb.Name(),
				"error", err,
			)
		}
		if useFallback {
			if cached, ok := r.cache.GetStale(clientID); ok {
				r.logger.WarnContext(ctx, "using cached client after failure",
					"client_id", clientID,
					"circuit", r.cb.Name(),
				)
				return cached, nil
			}
		}
		return nil, err
	}

	r.metrics.IncRegistryFetch("ok")
	if _, change := r.cb.RecordSuccess(); change.Closed {
		r.logger.InfoContext(ctx, "circuit breaker closed", "circuit", r.cb.Name())
	}
	r.cache.Set(clientID, params)
	return params, nil
}

// BreakerState reports the circuit state for health checks.
func (r *Resilient) BreakerState() circuit.State {
	return r.cb.State()
}

func isRegistryAnswer(err error) bool {
	return dErrors.HasCode(err, dErrors.CodeInvalidParameter) || dErrors.HasCode(err, dErrors.CodeMissingParameter)
}

var _ relier.ClientRegistry = (*Resilient)(nil)
