package signin

import (
	"authflow/internal/account"
	"authflow/internal/broker"
	dErrors "authflow/pkg/domain-errors"
)

// Kind is the kind of a sign-in outcome.
type Kind string

const (
	KindNeedsPermissionConsent Kind = "needs_permission_consent"
	KindNeedsEmailConfirmation Kind = "needs_email_confirmation"
	KindNeedsEmailCode         Kind = "needs_email_code"
	KindNeedsTotpCode          Kind = "needs_totp_code"
	KindBlocked                Kind = "blocked"
	KindBounced                Kind = "bounced"
	KindSuccess                Kind = "success"
)

// Screen names an outcome navigates to.
const (
	ScreenPermissions   = "signin_permissions"
	ScreenConfirmSignIn = "confirm_signin"
	ScreenTokenCode     = "signin_token_code"
	ScreenTotpCode      = "signin_totp_code"
	ScreenConfirm       = "confirm"
	ScreenUnblock       = "signin_unblock"
	ScreenBounced       = "signin_bounced"
)

// Outcome is the next step of a sign-in.
type Outcome struct {
	Kind   Kind
	Screen string
	// Reason is the error code that caused a Blocked outcome.
	Reason dErrors.Code
	// Email is the bouncing address of a Bounced outcome.
	Email string
	// Permissions lists the permissions awaiting consent.
	Permissions []string
	// Behavior is the broker's post-sign-in behavior of a Success outcome.
	Behavior broker.Behavior
	Account  *account.Account
}

// unverifiedOutcome picks the confirmation step for an account whose session
// is not yet verified.
func unverifiedOutcome(acct *account.Account) *Outcome {
	out := &Outcome{Kind: KindNeedsEmailConfirmation, Screen: ScreenConfirm, Account: acct}
	if acct.VerificationReason != account.ReasonSignIn {
		return out
	}
	switch acct.VerificationMethod {
	case account.MethodEmail:
		out.Screen = ScreenConfirmSignIn
	case account.MethodEmailCode:
		out.Kind = KindNeedsEmailCode
		out.Screen = ScreenTokenCode
	case account.MethodTOTP:
		out.Kind = KindNeedsTotpCode
		out.Screen = ScreenTotpCode
	}
	return out
}

// screenOf returns the screen a broker behavior navigates to, if any.
func screenOf(b broker.Behavior) string {
	switch v := b.(type) {
	case broker.Navigate:
		return v.Screen
	case broker.NavigateOrRedirect:
		return v.Screen
	}
	return ""
}
