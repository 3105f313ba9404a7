// Package account models the account reference a sign-in attempt acts on.
package account

import (
	"errors"
	"slices"

	dErrors "authflow/pkg/domain-errors"
)

// VerificationMethod is how an unverified session must be confirmed.
type VerificationMethod string

const (
	MethodEmail        VerificationMethod = "email"
	MethodEmailCode    VerificationMethod = "email-2fa"
	MethodTOTP         VerificationMethod = "totp-2fa"
	MethodEmailCaptcha VerificationMethod = "email-captcha"
)

// VerificationReason is why verification is required.
type VerificationReason string

const (
	ReasonSignIn VerificationReason = "login"
	ReasonSignUp VerificationReason = "signup"
)

// Account is an account reference with the state returned by the last
// authentication call.
type Account struct {
	UID                string             `json:"uid,omitempty"`
	Email              string             `json:"email,omitempty"`
	SessionToken       string             `json:"sessionToken,omitempty"`
	Verified           bool               `json:"verified"`
	VerificationMethod VerificationMethod `json:"verificationMethod,omitempty"`
	VerificationReason VerificationReason `json:"verificationReason,omitempty"`
	DisplayName        string             `json:"displayName,omitempty"`
	ProfileImageURL    string             `json:"profileImageUrl,omitempty"`
}

// IsDefault reports whether a is not a real, previously identified account.
func (a *Account) IsDefault() bool {
	return a == nil || (a.UID == "" && a.Email == "")
}

func (a *Account) HasSessionToken() bool {
	return a != nil && a.SessionToken != ""
}

// DiscardSessionToken drops the session token so the next authentication
// mints a fresh one.
func (a *Account) DiscardSessionToken() {
	a.SessionToken = ""
}

// Clone returns a copy of a.
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}

// permissionValues maps a permission to the account value it exposes.
var permissionValues = map[string]func(*Account) string{
	"profile:email":        func(a *Account) string { return a.Email },
	"profile:display_name": func(a *Account) string { return a.DisplayName },
	"profile:avatar":       func(a *Account) string { return a.ProfileImageURL },
	"profile:uid":          func(a *Account) string { return a.UID },
}

// PermissionsWithValues returns the permissions, in order, for which the
// account holds a non-empty value. Unknown permissions are dropped.
func (a *Account) PermissionsWithValues(permissions []string) []string {
	out := make([]string, 0, len(permissions))
	for _, p := range permissions {
		value, ok := permissionValues[p]
		if !ok || slices.Contains(out, p) {
			continue
		}
		if value(a) != "" {
			out = append(out, p)
		}
	}
	return out
}

// BlockedError carries the verification hints the authentication service
// attaches to THROTTLED and REQUEST_BLOCKED responses.
type BlockedError struct {
	Code   dErrors.Code
	Reason VerificationReason
	Method VerificationMethod
}

func (e *BlockedError) Error() string {
	return string(e.Code)
}

// Unblockable reports whether an unblock email can remediate the block.
func (e *BlockedError) Unblockable() bool {
	return e.Reason == ReasonSignIn && e.Method == MethodEmailCaptcha
}

// NewBlockedError returns a domain error with code wrapping a BlockedError.
func NewBlockedError(code dErrors.Code, reason VerificationReason, method VerificationMethod) error {
	return &dErrors.Error{
		Code:    code,
		Message: "sign-in blocked",
		Err:     &BlockedError{Code: code, Reason: reason, Method: method},
	}
}

// CanUnblock reports whether err is a block that an unblock email remediates.
func CanUnblock(err error) bool {
	var be *BlockedError
	if !errors.As(err, &be) {
		return false
	}
	return be.Unblockable()
}

// SignInOptions are passed to the authentication service with a sign-in.
type SignInOptions struct {
	// Resume is an opaque continuation token carried through verification
	// emails.
	Resume      string
	UnblockCode string
	// VerificationMethod overrides the method the service would pick.
	VerificationMethod VerificationMethod
}
