// Package broker describes how the host integration reacts around a sign-in:
// which capabilities it has and what happens after each lifecycle hook.
package broker

//go:generate mockgen -source=broker.go -destination=mocks/mocks.go -package=mocks Broker

import (
	"context"
	"sync"

	"authflow/internal/account"
)

// Capability is a named host integration feature.
type Capability string

const (
	// CapReuseExistingSession keeps an existing session token on sign-in.
	CapReuseExistingSession Capability = "reuseExistingSession"
	// CapAllowUIDChange lets a sign-in replace the account the relier knew.
	CapAllowUIDChange Capability = "allowUidChange"
	// CapHandleSignedInNotification means the host reacts to sign-in itself.
	CapHandleSignedInNotification Capability = "handleSignedInNotification"
)

// Method is a broker lifecycle hook.
type Method string

const (
	MethodBeforeSignIn                Method = "beforeSignIn"
	MethodAfterSignIn                 Method = "afterSignIn"
	MethodAfterForceAuth              Method = "afterForceAuth"
	MethodAfterSignInConfirmationPoll Method = "afterSignInConfirmationPoll"
)

// Broker is the capability set and hook surface of a host integration.
type Broker interface {
	HasCapability(c Capability) bool
	// Invoke runs the hook for method and returns the behavior to carry out.
	Invoke(ctx context.Context, method Method, acct *account.Account) (Behavior, error)
	// SetBehavior overrides the behavior the next Invoke of method returns. The
	// override is consumed by that call.
	SetBehavior(method Method, behavior Behavior)
}

type hook func(ctx context.Context, acct *account.Account) (Behavior, error)

// base implements Broker for the variants in this package.
type base struct {
	name         string
	capabilities map[Capability]bool
	hooks        map[Method]hook
	defaults     map[Method]Behavior

	mu        sync.Mutex
	overrides map[Method]Behavior
}

func newBase(name string, caps ...Capability) *base {
	b := &base{
		name:         name,
		capabilities: make(map[Capability]bool, len(caps)),
		hooks:        make(map[Method]hook),
		defaults:     make(map[Method]Behavior),
		overrides:    make(map[Method]Behavior),
	}
	for _, c := range caps {
		b.capabilities[c] = true
	}
	return b
}

// Name identifies the integration variant.
func (b *base) Name() string {
	return b.name
}

func (b *base) HasCapability(c Capability) bool {
	return b.capabilities[c]
}

func (b *base) SetBehavior(m Method, behavior Behavior) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.overrides[m] = behavior
}

// Invoke runs the hook's side effects first; a pending override then replaces
// the hook's behavior. A failing hook leaves the override in place.
func (b *base) Invoke(ctx context.Context, m Method, acct *account.Account) (Behavior, error) {
	result := b.defaults[m]
	if h, ok := b.hooks[m]; ok {
		behavior, err := h(ctx, acct)
		if err != nil {
			return nil, err
		}
		result = behavior
	}

	b.mu.Lock()
	if override, ok := b.overrides[m]; ok {
		delete(b.overrides, m)
		result = override
	}
	b.mu.Unlock()

	if result == nil {
		return Null{}, nil
	}
	return result, nil
}
