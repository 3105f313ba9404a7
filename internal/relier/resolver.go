// Package relier resolves the relier (the application relying on this
// service for authentication) from request parameters, saved verification
// context and the client registry into an immutable Config.
package relier

//go:generate mockgen -source=resolver.go -destination=mocks/mocks.go -package=mocks ClientRegistry,VerificationStore

import (
	"context"
	"log/slog"
	"net/url"

	"authflow/internal/platform/tracer"
	"authflow/internal/relier/metrics"
	"authflow/internal/relier/schema"
	"authflow/internal/relier/scope"
	dErrors "authflow/pkg/domain-errors"
	"authflow/pkg/requestcontext"
)

// ClientRegistry returns the raw registry record for a client. An unknown
// client is reported as INVALID_PARAMETER on "client_id".
type ClientRegistry interface {
	GetClientInfo(ctx context.Context, clientID string) (schema.Params, error)
}

// VerificationStore holds at most one pending OAuth context per browser
// session. Take is read-once and returns sentinel.ErrNotFound when empty.
type VerificationStore interface {
	Take(ctx context.Context, sessionID string) (schema.Params, error)
	Save(ctx context.Context, sessionID string, params schema.Params) error
}

// Request is the input of one resolution attempt.
type Request struct {
	Query     url.Values
	SessionID string
}

// Resolver holds the long-lived collaborators of relier resolution and
// starts per-attempt flows.
type Resolver struct {
	registry   ClientRegistry
	store      VerificationStore
	normalizer *scope.Normalizer
	logger     *slog.Logger
	metrics    *metrics.Metrics
	tracer     tracer.Tracer
}

type Option func(*Resolver)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Resolver) {
		r.metrics = m
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(r *Resolver) {
		r.tracer = t
	}
}

// WithNormalizer replaces the default scope policy.
func WithNormalizer(n *scope.Normalizer) Option {
	return func(r *Resolver) {
		r.normalizer = n
	}
}

func NewResolver(registry ClientRegistry, store VerificationStore, opts ...Option) *Resolver {
	r := &Resolver{
		registry: registry,
		store:    store,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.normalizer == nil {
		r.normalizer = scope.New(scope.DefaultPolicy())
	}
	if r.tracer == nil {
		r.tracer = tracer.NewNoop()
	}
	return r
}

// Begin starts a resolution attempt. The returned Flow is not safe for
// concurrent use.
func (r *Resolver) Begin(req Request) *Flow {
	return &Flow{r: r, req: req, state: StateInit}
}

// Resolve runs a flow to completion.
func (r *Resolver) Resolve(ctx context.Context, req Request) (Config, error) {
	return r.Begin(req).Fetch(ctx)
}

// PersistVerificationContext saves cfg as the pending OAuth context of
// sessionID so a verification link opened in the same browser resumes it.
func (r *Resolver) PersistVerificationContext(ctx context.Context, sessionID string, cfg Config, action string) error {
	if sessionID == "" {
		return dErrors.MissingParameter("session_id")
	}
	if cfg.ClientID == "" {
		return dErrors.MissingParameter("client_id")
	}
	if err := r.store.Save(ctx, sessionID, cfg.VerificationParams(action)); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save verification context")
	}
	r.logger.InfoContext(ctx, "verification context saved",
		"event", "relier.verification_context_saved",
		"client_id", cfg.ClientID,
		"request_id", requestcontext.RequestID(ctx),
	)
	return nil
}
