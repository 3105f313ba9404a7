// Package tracer is a small tracing facade used by the relier and sign-in
// flows. Callers depend on Tracer and Span only; OTelTracer adapts the
// OpenTelemetry API and NoopTracer is used in tests.
package tracer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Span is an active trace span. End must be called exactly once.
type Span interface {
	// End completes the span. A non-nil err marks it failed.
	End(err error)
	SetAttributes(attrs ...Attribute)
	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
type Tracer interface {
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute is a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

func Int64(key string, value int64) Attribute {
	return Attribute{Key: key, Value: value}
}

// Duration records value in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// HashEmail returns a short SHA-256 digest of a normalized email so spans can
// be correlated without carrying the address.
func HashEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(email))
	return hex.EncodeToString(sum[:8])
}

// Span names.
const (
	SpanRelierFetch      = "relier.fetch"
	SpanRegistryFetch    = "relier.registry.fetch"
	SpanSignIn           = "signin.attempt"
	SpanSignInAuth       = "signin.authenticate"
	SpanSignInUnblock    = "signin.unblock_email"
	SpanSignInPermission = "signin.permissions"
)

// Attribute keys.
const (
	AttrClientID    = "client_id"
	AttrFlowKind    = "relier.flow_kind"
	AttrTrusted     = "relier.trusted"
	AttrCacheHit    = "cache.hit"
	AttrEmailHash   = "account.email_hash"
	AttrOutcome     = "signin.outcome"
	AttrAttemptID   = "signin.attempt_id"
	AttrErrorCode   = "error.code"
	AttrBreakerOpen = "breaker.open"
)

// Event names.
const (
	EventStateChanged = "state.changed"
)
