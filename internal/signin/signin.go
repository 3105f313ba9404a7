// Package signin maps authentication results to the next step of a sign-in:
// a verification screen, a permissions prompt, an unblock or bounce notice,
// or the broker's post-sign-in behavior.
package signin

//go:generate mockgen -source=signin.go -destination=mocks/mocks.go -package=mocks AuthService,PermissionStore,ExperimentGrouper,Prefill

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"authflow/internal/account"
	"authflow/internal/broker"
	"authflow/internal/platform/tracer"
	"authflow/internal/relier"
	"authflow/internal/signin/metrics"
	"authflow/internal/telemetry"
)

// AuthService is the remote authentication service.
type AuthService interface {
	// SignInAccount authenticates acct with password, or with its session
	// token when password is empty, and returns the updated account.
	SignInAccount(ctx context.Context, acct *account.Account, password string, cfg relier.Config, opts account.SignInOptions) (*account.Account, error)
	SendUnblockEmail(ctx context.Context, acct *account.Account, cfg relier.Config) error
}

// PermissionStore remembers which permissions an account has already
// granted to a client.
type PermissionStore interface {
	Seen(ctx context.Context, uid, clientID string) ([]string, error)
	MarkSeen(ctx context.Context, uid, clientID string, permissions []string) error
}

// ExperimentGrouper assigns an account to a sign-in verification experiment
// group. An empty group means no experiment.
type ExperimentGrouper interface {
	Group(ctx context.Context, acct *account.Account) string
}

// Prefill holds form values kept between screens.
type Prefill interface {
	Clear(ctx context.Context, acct *account.Account)
}

// Options tune one sign-in attempt.
type Options struct {
	Resume      string
	UnblockCode string
	// OnSuccessMethod replaces the broker method invoked after a verified
	// sign-in. Defaults to broker.MethodAfterSignIn.
	OnSuccessMethod broker.Method
	// ViewName is the screen the sign-in started from, used in telemetry.
	// Defaults to "signin".
	ViewName string
}

const defaultViewName = "signin"

// Orchestrator runs sign-in attempts against the authentication service and
// a broker.
type Orchestrator struct {
	auth        AuthService
	broker      broker.Broker
	permissions PermissionStore
	grouper     ExperimentGrouper
	prefill     Prefill
	telemetry   telemetry.Recorder
	logger      *slog.Logger
	metrics     *metrics.Metrics
	tracer      tracer.Tracer
	now         func() time.Time
	newID       func() string
}

type Option func(*Orchestrator)

func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Orchestrator) {
		o.metrics = m
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(o *Orchestrator) {
		o.tracer = t
	}
}

// WithPermissionStore enables seen-permission lookups. Without it every
// permission with a value counts as unseen.
func WithPermissionStore(store PermissionStore) Option {
	return func(o *Orchestrator) {
		o.permissions = store
	}
}

func WithExperimentGrouper(g ExperimentGrouper) Option {
	return func(o *Orchestrator) {
		o.grouper = g
	}
}

func WithPrefill(p Prefill) Option {
	return func(o *Orchestrator) {
		o.prefill = p
	}
}

func WithTelemetry(r telemetry.Recorder) Option {
	return func(o *Orchestrator) {
		o.telemetry = r
	}
}

func New(auth AuthService, b broker.Broker, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		auth:   auth,
		broker: b,
		now:    time.Now,
		newID:  func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.tracer == nil {
		o.tracer = tracer.NewNoop()
	}
	if o.telemetry == nil {
		o.telemetry = telemetry.Nop
	}
	return o
}

// Begin starts an attempt for acct against the relier session. The returned
// Attempt is not safe for concurrent use.
func (o *Orchestrator) Begin(sess *relier.Session, acct *account.Account) *Attempt {
	return &Attempt{
		ID:    o.newID(),
		o:     o,
		sess:  sess,
		acct:  acct,
		state: StateInit,
	}
}

// SignIn runs a new attempt to its outcome.
func (o *Orchestrator) SignIn(ctx context.Context, sess *relier.Session, acct *account.Account, password string, opts Options) (*Outcome, error) {
	return o.Begin(sess, acct).SignIn(ctx, password, opts)
}

// CompletePermissions finishes a sign-in that stopped at the permissions
// prompt, in a new attempt.
func (o *Orchestrator) CompletePermissions(ctx context.Context, sess *relier.Session, acct *account.Account, opts Options) (*Outcome, error) {
	return o.Begin(sess, acct).CompletePermissions(ctx, opts)
}

// Service runs each attempt on its own Orchestrator with a fresh broker.
// Broker overrides set during one attempt never leak into another.
type Service struct {
	auth      AuthService
	newBroker func() broker.Broker
	opts      []Option
}

func NewService(auth AuthService, newBroker func() broker.Broker, opts ...Option) *Service {
	return &Service{auth: auth, newBroker: newBroker, opts: opts}
}

func (s *Service) SignIn(ctx context.Context, sess *relier.Session, acct *account.Account, password string, opts Options) (*Outcome, error) {
	return New(s.auth, s.newBroker(), s.opts...).SignIn(ctx, sess, acct, password, opts)
}

func (s *Service) CompletePermissions(ctx context.Context, sess *relier.Session, acct *account.Account, opts Options) (*Outcome, error) {
	return New(s.auth, s.newBroker(), s.opts...).CompletePermissions(ctx, sess, acct, opts)
}
