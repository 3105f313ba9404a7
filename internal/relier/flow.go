package relier

import (
	"context"
	"errors"
	"time"

	"authflow/internal/platform/tracer"
	"authflow/internal/relier/schema"
	"authflow/internal/sentinel"
	dErrors "authflow/pkg/domain-errors"
	"authflow/pkg/requestcontext"
)

// State is a relier resolution state.
type State int

const (
	StateInit State = iota
	StateDetectingFlowKind
	StateResolvingFromVerificationLink
	StateResolvingFromQueryParams
	StateFetchingClientMetadata
	StateCrossValidating
	StateNormalizing
	StateResolved
	StateFailed
)

var stateNames = [...]string{
	StateInit:                          "init",
	StateDetectingFlowKind:             "detecting_flow_kind",
	StateResolvingFromVerificationLink: "resolving_from_verification_link",
	StateResolvingFromQueryParams:      "resolving_from_query_params",
	StateFetchingClientMetadata:        "fetching_client_metadata",
	StateCrossValidating:               "cross_validating",
	StateNormalizing:                   "normalizing",
	StateResolved:                      "resolved",
	StateFailed:                        "failed",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Terminal reports whether s is Resolved or Failed.
func (s State) Terminal() bool {
	return s == StateResolved || s == StateFailed
}

// Kind is the flow kind detected from the request.
type Kind string

const (
	KindUndetected   Kind = ""
	KindVerification Kind = "verification"
	KindSignIn       Kind = "signin_signup"
)

const (
	paramCode     = "code"
	paramService  = "service"
	paramClientID = "client_id"
)

// Flow is one relier resolution attempt.
type Flow struct {
	r       *Resolver
	req     Request
	state   State
	kind    Kind
	history []State
	cfg     Config
	err     error
}

func (f *Flow) State() State {
	return f.state
}

func (f *Flow) Kind() Kind {
	return f.kind
}

// History returns the states entered so far, in order, excluding Init.
func (f *Flow) History() []State {
	out := make([]State, len(f.history))
	copy(out, f.history)
	return out
}

// Err returns the error a Failed flow carries.
func (f *Flow) Err() error {
	return f.err
}

// Fetch runs the flow to a terminal state. Calling it again returns the same
// result without repeating any work.
func (f *Flow) Fetch(ctx context.Context) (Config, error) {
	switch f.state {
	case StateResolved:
		return f.cfg, nil
	case StateFailed:
		return Config{}, f.err
	}

	start := time.Now()
	ctx, span := f.r.tracer.Start(ctx, tracer.SpanRelierFetch)

	cfg, err := f.run(ctx, span)
	if err != nil {
		f.err = err
		f.transition(ctx, span, StateFailed)
	} else {
		f.cfg = cfg
		f.transition(ctx, span, StateResolved)
	}

	span.SetAttributes(tracer.String(tracer.AttrFlowKind, string(f.kind)))
	span.End(err)
	f.observe(ctx, err, time.Since(start))

	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (f *Flow) run(ctx context.Context, span tracer.Span) (Config, error) {
	var b builder

	f.transition(ctx, span, StateDetectingFlowKind)
	params := schema.FromQuery(f.req.Query)
	if params[paramCode] != "" {
		f.kind = KindVerification
	} else {
		f.kind = KindSignIn
	}

	var (
		values schema.Values
		err    error
	)
	if f.kind == KindVerification {
		f.transition(ctx, span, StateResolvingFromVerificationLink)
		values, err = f.resolveVerification(ctx, params)
	} else {
		f.transition(ctx, span, StateResolvingFromQueryParams)
		values, err = resolveQuery(params)
	}
	if err != nil {
		return Config{}, err
	}
	b.applyQuery(values)
	b.defaultService()
	requested := b.cfg.RedirectURI

	f.transition(ctx, span, StateFetchingClientMetadata)
	client, err := f.fetchClient(ctx, b.cfg.ClientID)
	if err != nil {
		return Config{}, err
	}

	if f.kind != KindVerification {
		f.transition(ctx, span, StateCrossValidating)
		if requested != "" && requested != client.RedirectURI {
			return Config{}, &dErrors.Error{
				Code:     dErrors.CodeIncorrectRedirect,
				Message:  "redirect_uri does not match the registered redirect",
				Field:    "redirect_uri",
				ClientID: b.cfg.ClientID,
			}
		}
	}
	b.applyClient(client)

	if b.cfg.Scope != "" {
		f.transition(ctx, span, StateNormalizing)
		res, err := f.r.normalizer.Normalize(b.cfg.Scope, b.cfg.Trusted, b.cfg.WantsConsent())
		if err != nil {
			return Config{}, err
		}
		b.applyPermissions(res.Permissions)
	}

	return b.build(), nil
}

// resolveQuery reads a sign-in/sign-up request. A service parameter is
// rejected outright: only verification links may carry one.
func resolveQuery(params schema.Params) (schema.Values, error) {
	if _, ok := params[paramService]; ok {
		return nil, dErrors.InvalidParameter(paramService)
	}
	return schema.Transform(params, schema.SignInSignUpQuery)
}

// resolveVerification prefers the OAuth context saved when the flow started
// and falls back to the service parameter of the link. In the fallback the
// client id is the service value, which is used for display and defaults
// only.
func (f *Flow) resolveVerification(ctx context.Context, params schema.Params) (schema.Values, error) {
	if f.req.SessionID != "" {
		saved, err := f.r.store.Take(ctx, f.req.SessionID)
		switch {
		case err == nil:
			return schema.Transform(saved, schema.VerificationContext)
		case !errors.Is(err, sentinel.ErrNotFound):
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read verification context")
		}
	}

	values, err := schema.Transform(params, schema.VerificationFallback)
	if err != nil {
		return nil, err
	}
	values[schema.KeyClientID] = values.String(schema.KeyService)
	return values, nil
}

func (f *Flow) fetchClient(ctx context.Context, clientID string) (ClientMetadata, error) {
	ctx, span := f.r.tracer.Start(ctx, tracer.SpanRegistryFetch, tracer.String(tracer.AttrClientID, clientID))
	client, err := f.doFetchClient(ctx, clientID)
	span.End(err)
	return client, err
}

func (f *Flow) doFetchClient(ctx context.Context, clientID string) (ClientMetadata, error) {
	raw, err := f.r.registry.GetClientInfo(ctx, clientID)
	if err != nil {
		if dErrors.IsInvalidParameter(err, paramClientID) {
			return ClientMetadata{}, dErrors.UnknownClient(clientID, err)
		}
		return ClientMetadata{}, err
	}
	values, err := schema.Transform(raw, schema.ClientInfo)
	if err != nil {
		return ClientMetadata{}, err
	}
	return clientMetadataFrom(values), nil
}

func (f *Flow) transition(ctx context.Context, span tracer.Span, to State) {
	from := f.state
	f.state = to
	f.history = append(f.history, to)
	span.AddEvent(tracer.EventStateChanged, tracer.String("to", to.String()))
	f.r.logger.DebugContext(ctx, "relier state changed",
		"from", from.String(),
		"to", to.String(),
		"kind", string(f.kind),
		"request_id", requestcontext.RequestID(ctx),
	)
}

func (f *Flow) observe(ctx context.Context, err error, elapsed time.Duration) {
	kind := string(f.kind)
	f.r.metrics.ObserveResolutionDuration(kind, float64(elapsed.Milliseconds()))

	if err == nil {
		f.r.metrics.IncResolution(kind, "resolved")
		f.r.logger.InfoContext(ctx, "relier resolved",
			"event", "relier.resolved",
			"kind", kind,
			"client_id", f.cfg.ClientID,
			"trusted", f.cfg.Trusted,
			"scope", f.cfg.Scope,
			"request_id", requestcontext.RequestID(ctx),
		)
		return
	}

	code := string(dErrors.CodeOf(err))
	if code == "" {
		code = "error"
	}
	f.r.metrics.IncResolution(kind, code)
	f.r.logger.WarnContext(ctx, "relier resolution failed",
		"event", "relier.failed",
		"kind", kind,
		"code", code,
		"field", dErrors.FieldOf(err),
		"error", err,
		"request_id", requestcontext.RequestID(ctx),
	)
}
