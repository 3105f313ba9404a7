// Package telemetry records sign-in flow events to metrics, logs and an
// event stream.
package telemetry

import (
	"context"
	"time"
)

// Event names emitted by the sign-in orchestrator.
const (
	EventSignInSuccess     = "signin.success"
	EventSignInSkipConfirm = "signin.success.skip-confirm"
)

// ViewSuccess returns the per-screen success event for view.
func ViewSuccess(view string) string {
	return view + ".signin.success"
}

// Event is a single flow event.
type Event struct {
	Name      string            `json:"event"`
	Time      time.Time         `json:"time"`
	AttemptID string            `json:"attemptId,omitempty"`
	RequestID string            `json:"requestId,omitempty"`
	ClientID  string            `json:"clientId,omitempty"`
	Service   string            `json:"service,omitempty"`
	UID       string            `json:"uid,omitempty"`
	View      string            `json:"view,omitempty"`
	Tags      map[string]string `json:"tags,omitempty"`
}

// Recorder accepts events. Record never fails the caller; sinks report their
// own delivery errors.
type Recorder interface {
	Record(ctx context.Context, e Event)
}

// RecorderFunc adapts a function to Recorder.
type RecorderFunc func(ctx context.Context, e Event)

func (f RecorderFunc) Record(ctx context.Context, e Event) {
	f(ctx, e)
}

type multi []Recorder

// Multi fans each event out to every recorder, in order.
func Multi(recorders ...Recorder) Recorder {
	out := make(multi, 0, len(recorders))
	for _, r := range recorders {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

func (m multi) Record(ctx context.Context, e Event) {
	for _, r := range m {
		r.Record(ctx, e)
	}
}

// Nop discards events.
var Nop Recorder = RecorderFunc(func(context.Context, Event) {})
