package signin

import (
	"context"
	"slices"
	"time"

	"authflow/internal/account"
	"authflow/internal/broker"
	"authflow/internal/platform/tracer"
	"authflow/internal/relier"
	"authflow/internal/telemetry"
	dErrors "authflow/pkg/domain-errors"
	"authflow/pkg/requestcontext"
)

// AttemptState is a sign-in attempt state.
type AttemptState int

const (
	StateInit AttemptState = iota
	StateCheckingPreconditions
	StateBeforeSignIn
	StateAuthenticating
	StateCheckingPermissions
	StateAwaitingPermissions
	StateRecordingPermissions
	StateComputingOutcome
	StateSendingUnblockEmail
	StateCompleted
	StateFailed
)

var attemptStateNames = [...]string{
	StateInit:                  "init",
	StateCheckingPreconditions: "checking_preconditions",
	StateBeforeSignIn:          "before_signin",
	StateAuthenticating:        "authenticating",
	StateCheckingPermissions:   "checking_permissions",
	StateAwaitingPermissions:   "awaiting_permissions",
	StateRecordingPermissions:  "recording_permissions",
	StateComputingOutcome:      "computing_outcome",
	StateSendingUnblockEmail:   "sending_unblock_email",
	StateCompleted:             "completed",
	StateFailed:                "failed",
}

func (s AttemptState) String() string {
	if int(s) < len(attemptStateNames) {
		return attemptStateNames[s]
	}
	return "unknown"
}

// Terminal reports whether s is Completed or Failed.
func (s AttemptState) Terminal() bool {
	return s == StateCompleted || s == StateFailed
}

const (
	phaseSignIn      = "signin"
	phasePermissions = "permissions"
)

// Attempt is one sign-in attempt. Its outcome is computed once: calls after
// a terminal state return the stored result.
type Attempt struct {
	ID string

	o       *Orchestrator
	sess    *relier.Session
	acct    *account.Account
	state   AttemptState
	history []AttemptState
	outcome *Outcome
	err     error
}

func (a *Attempt) State() AttemptState {
	return a.state
}

// History returns the states entered so far, in order, excluding Init.
func (a *Attempt) History() []AttemptState {
	return slices.Clone(a.history)
}

// SignIn authenticates the attempt's account.
func (a *Attempt) SignIn(ctx context.Context, password string, opts Options) (*Outcome, error) {
	if a.state != StateInit {
		return a.settled()
	}
	return a.execute(ctx, phaseSignIn, tracer.SpanSignIn, func(ctx context.Context, span tracer.Span) (*Outcome, error) {
		return a.signIn(ctx, span, password, opts)
	})
}

// CompletePermissions records consent to the pending permissions and
// computes the final outcome. It continues an attempt that is awaiting
// permissions or starts from an account holding a session token, which the
// authentication service must confirm first. In that case uid, email and
// verification state come from the service, never from the caller.
func (a *Attempt) CompletePermissions(ctx context.Context, opts Options) (*Outcome, error) {
	if a.state != StateInit && a.state != StateAwaitingPermissions {
		return a.settled()
	}
	return a.execute(ctx, phasePermissions, tracer.SpanSignInPermission, func(ctx context.Context, span tracer.Span) (*Outcome, error) {
		if a.state == StateInit {
			a.transition(ctx, span, StateCheckingPreconditions)
			if err := a.checkAccount(); err != nil {
				return nil, err
			}
			if !a.acct.HasSessionToken() {
				return nil, dErrors.New(dErrors.CodeUnexpected, "session token required")
			}
			a.transition(ctx, span, StateAuthenticating)
			updated, err := a.authenticate(ctx, a.acct.Clone(), "", a.sess.Config(), account.SignInOptions{})
			if err != nil {
				return nil, err
			}
			a.acct = updated
		}
		a.transition(ctx, span, StateRecordingPermissions)
		if err := a.recordPermissions(ctx); err != nil {
			return nil, err
		}
		return a.computeOutcome(ctx, span, opts)
	})
}

func (a *Attempt) settled() (*Outcome, error) {
	if a.state == StateAwaitingPermissions || a.state == StateCompleted {
		return a.outcome, nil
	}
	return nil, a.err
}

func (a *Attempt) execute(ctx context.Context, phase, spanName string, fn func(context.Context, tracer.Span) (*Outcome, error)) (*Outcome, error) {
	start := time.Now()
	ctx, span := a.o.tracer.Start(ctx, spanName,
		tracer.String(tracer.AttrAttemptID, a.ID),
		tracer.String(tracer.AttrEmailHash, tracer.HashEmail(a.email())),
	)

	out, err := fn(ctx, span)
	switch {
	case err != nil:
		a.err = err
		a.outcome = nil
		a.transition(ctx, span, StateFailed)
		span.SetAttributes(tracer.String(tracer.AttrErrorCode, string(dErrors.CodeOf(err))))
	case out.Kind == KindNeedsPermissionConsent:
		a.outcome = out
		a.transition(ctx, span, StateAwaitingPermissions)
		span.SetAttributes(tracer.String(tracer.AttrOutcome, string(out.Kind)))
	default:
		a.outcome = out
		a.transition(ctx, span, StateCompleted)
		span.SetAttributes(tracer.String(tracer.AttrOutcome, string(out.Kind)))
	}
	span.End(err)
	a.observe(ctx, phase, out, err, time.Since(start))
	return out, err
}

func (a *Attempt) email() string {
	if a.acct == nil {
		return ""
	}
	return a.acct.Email
}

func (a *Attempt) checkAccount() error {
	if a.sess == nil {
		return dErrors.New(dErrors.CodeUnexpected, "relier session required")
	}
	if a.acct.IsDefault() {
		return dErrors.New(dErrors.CodeUnexpected, "account required")
	}
	return nil
}

func (a *Attempt) signIn(ctx context.Context, span tracer.Span, password string, opts Options) (*Outcome, error) {
	a.transition(ctx, span, StateCheckingPreconditions)
	if err := a.checkAccount(); err != nil {
		return nil, err
	}
	if !a.acct.HasSessionToken() && password == "" {
		return nil, dErrors.New(dErrors.CodeUnexpected, "password or session token required")
	}
	// the caller's account is left untouched
	acct := a.acct.Clone()
	cfg := a.sess.Config()

	a.transition(ctx, span, StateBeforeSignIn)
	if _, err := a.o.broker.Invoke(ctx, broker.MethodBeforeSignIn, acct); err != nil {
		return nil, err
	}

	signInOpts := account.SignInOptions{Resume: opts.Resume, UnblockCode: opts.UnblockCode}
	if a.o.grouper != nil {
		signInOpts.VerificationMethod = verificationOverride(a.o.grouper.Group(ctx, acct))
	}
	if acct.HasSessionToken() && !a.o.broker.HasCapability(broker.CapReuseExistingSession) {
		acct.DiscardSessionToken()
	}

	a.transition(ctx, span, StateAuthenticating)
	updated, err := a.authenticate(ctx, acct, password, cfg, signInOpts)
	if err != nil {
		return a.remediate(ctx, span, acct, cfg, err)
	}
	a.acct = updated

	if a.o.prefill != nil {
		a.o.prefill.Clear(ctx, updated)
	}

	a.transition(ctx, span, StateCheckingPermissions)
	pending, err := a.pendingPermissions(ctx, cfg, updated)
	if err != nil {
		return nil, err
	}
	if len(pending) > 0 {
		return &Outcome{
			Kind:        KindNeedsPermissionConsent,
			Screen:      ScreenPermissions,
			Permissions: pending,
			Account:     updated,
		}, nil
	}
	return a.computeOutcome(ctx, span, opts)
}

func (a *Attempt) authenticate(ctx context.Context, acct *account.Account, password string, cfg relier.Config, opts account.SignInOptions) (*account.Account, error) {
	ctx, span := a.o.tracer.Start(ctx, tracer.SpanSignInAuth,
		tracer.Bool("session_reuse", acct.HasSessionToken()),
		tracer.String("verification_method", string(opts.VerificationMethod)),
	)
	updated, err := a.o.auth.SignInAccount(ctx, acct, password, cfg, opts)
	if err == nil && updated == nil {
		err = dErrors.New(dErrors.CodeUnexpected, "authentication returned no account")
	}
	span.End(err)
	return updated, err
}

// remediate turns blocks and bounces into outcomes. Everything else, including
// blocks an unblock email cannot lift, is returned as is.
func (a *Attempt) remediate(ctx context.Context, span tracer.Span, acct *account.Account, cfg relier.Config, err error) (*Outcome, error) {
	code := dErrors.CodeOf(err)
	switch code {
	case dErrors.CodeThrottled, dErrors.CodeRequestBlocked:
		if !account.CanUnblock(err) {
			return nil, err
		}
		a.transition(ctx, span, StateSendingUnblockEmail)
		if sendErr := a.sendUnblockEmail(ctx, acct, cfg); sendErr != nil {
			return nil, sendErr
		}
		return &Outcome{Kind: KindBlocked, Screen: ScreenUnblock, Reason: code, Account: acct}, nil
	case dErrors.CodeEmailHardBounce, dErrors.CodeEmailSentComplaint:
		return &Outcome{Kind: KindBounced, Screen: ScreenBounced, Reason: code, Email: acct.Email, Account: acct}, nil
	}
	return nil, err
}

func (a *Attempt) sendUnblockEmail(ctx context.Context, acct *account.Account, cfg relier.Config) error {
	ctx, span := a.o.tracer.Start(ctx, tracer.SpanSignInUnblock)
	err := a.o.auth.SendUnblockEmail(ctx, acct, cfg)
	span.End(err)
	if err != nil {
		a.o.metrics.IncUnblockEmail("failed")
		return err
	}
	a.o.metrics.IncUnblockEmail("sent")
	return nil
}

// pendingPermissions returns the permissions acct must still consent to for
// the relier, or nil when none are needed.
func (a *Attempt) pendingPermissions(ctx context.Context, cfg relier.Config, acct *account.Account) ([]string, error) {
	seen, err := a.seenPermissions(ctx, cfg, acct)
	if err != nil {
		return nil, err
	}
	if !cfg.AccountNeedsPermissions(acct, seen) {
		return nil, nil
	}
	var pending []string
	for _, p := range acct.PermissionsWithValues(cfg.Permissions()) {
		if !slices.Contains(seen, p) {
			pending = append(pending, p)
		}
	}
	return pending, nil
}

func (a *Attempt) seenPermissions(ctx context.Context, cfg relier.Config, acct *account.Account) ([]string, error) {
	if a.o.permissions == nil {
		return nil, nil
	}
	seen, err := a.o.permissions.Seen(ctx, acct.UID, cfg.ClientID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read seen permissions")
	}
	return seen, nil
}

func (a *Attempt) recordPermissions(ctx context.Context) error {
	if a.o.permissions == nil {
		return nil
	}
	cfg := a.sess.Config()
	granted := a.acct.PermissionsWithValues(cfg.Permissions())
	if len(granted) == 0 {
		return nil
	}
	if err := a.o.permissions.MarkSeen(ctx, a.acct.UID, cfg.ClientID, granted); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record permissions")
	}
	return nil
}

func (a *Attempt) computeOutcome(ctx context.Context, span tracer.Span, opts Options) (*Outcome, error) {
	a.transition(ctx, span, StateComputingOutcome)
	acct := a.acct
	if !acct.Verified {
		return unverifiedOutcome(acct), nil
	}

	if a.sess.UID() != acct.UID && a.o.broker.HasCapability(broker.CapAllowUIDChange) {
		a.sess.SetUID(acct.UID)
		a.o.metrics.IncUIDChange()
	}

	a.recordSuccess(ctx, opts)

	method := opts.OnSuccessMethod
	if method == "" {
		method = broker.MethodAfterSignIn
	}
	if target := a.sess.TakeRedirectTo(); target != "" {
		a.o.broker.SetBehavior(method, broker.NavigateOrRedirect{Endpoint: target})
	}

	behavior, err := a.o.broker.Invoke(ctx, method, acct)
	if err != nil {
		return nil, err
	}
	return &Outcome{Kind: KindSuccess, Screen: screenOf(behavior), Behavior: behavior, Account: acct}, nil
}

func (a *Attempt) recordSuccess(ctx context.Context, opts Options) {
	view := opts.ViewName
	if view == "" {
		view = defaultViewName
	}
	cfg := a.sess.Config()
	base := telemetry.Event{
		Time:      a.o.now(),
		AttemptID: a.ID,
		RequestID: requestcontext.RequestID(ctx),
		ClientID:  cfg.ClientID,
		Service:   cfg.Service,
		UID:       a.acct.UID,
		View:      view,
	}
	for _, name := range []string{telemetry.EventSignInSuccess, telemetry.EventSignInSkipConfirm, telemetry.ViewSuccess(view)} {
		e := base
		e.Name = name
		a.o.telemetry.Record(ctx, e)
	}
}

func (a *Attempt) transition(ctx context.Context, span tracer.Span, to AttemptState) {
	from := a.state
	a.state = to
	a.history = append(a.history, to)
	span.AddEvent(tracer.EventStateChanged, tracer.String("to", to.String()))
	a.o.logger.DebugContext(ctx, "signin state changed",
		"attempt_id", a.ID,
		"from", from.String(),
		"to", to.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
}

func (a *Attempt) observe(ctx context.Context, phase string, out *Outcome, err error, elapsed time.Duration) {
	a.o.metrics.ObserveDuration(phase, float64(elapsed.Milliseconds()))

	if err == nil {
		a.o.metrics.IncAttempt(phase, string(out.Kind))
		a.o.logger.InfoContext(ctx, "signin attempt settled",
			"event", "signin.settled",
			"attempt_id", a.ID,
			"phase", phase,
			"outcome", string(out.Kind),
			"screen", out.Screen,
			"request_id", requestcontext.RequestID(ctx),
		)
		return
	}

	code := string(dErrors.CodeOf(err))
	if code == "" {
		code = "error"
	}
	a.o.metrics.IncAttempt(phase, code)
	a.o.logger.WarnContext(ctx, "signin attempt failed",
		"event", "signin.failed",
		"attempt_id", a.ID,
		"phase", phase,
		"code", code,
		"error", err,
		"request_id", requestcontext.RequestID(ctx),
	)
}
