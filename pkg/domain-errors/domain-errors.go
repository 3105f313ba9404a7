package domainerrors

import (
	"errors"
	"fmt"
)

// Code represents a domain error category independent of transport layer.
// Codes describe what went wrong in relier or sign-in terms, not HTTP terms.
type Code string

const (
	// Relier validation (request parameters, client registry cross-checks).
	CodeInvalidParameter  Code = "INVALID_PARAMETER"
	CodeMissingParameter  Code = "MISSING_PARAMETER"
	CodeUnknownClient     Code = "UNKNOWN_CLIENT"
	CodeIncorrectRedirect Code = "INCORRECT_REDIRECT"

	// Sign-in outcomes reported by the authentication service.
	CodeUnexpected         Code = "UNEXPECTED_ERROR"
	CodeThrottled          Code = "THROTTLED"
	CodeRequestBlocked     Code = "REQUEST_BLOCKED"
	CodeEmailHardBounce    Code = "EMAIL_HARD_BOUNCE"
	CodeEmailSentComplaint Code = "EMAIL_SENT_COMPLAINT"
	// CodeAuthError passes through a service rejection without a dedicated
	// code. Errno carries the service's own number.
	CodeAuthError Code = "AUTH_ERROR"

	// Infrastructure failures passed through from collaborators.
	CodeInternal    Code = "internal_error"
	CodeTimeout     Code = "timeout"
	CodeUnavailable Code = "unavailable"
)

// Error wraps domain or infrastructure failures with a stable code.
// Field names the offending request parameter for validation codes,
// ClientID carries the client identifier for UNKNOWN_CLIENT diagnostics and
// Errno the authentication service's error number for AUTH_ERROR.
type Error struct {
	Code     Code
	Message  string
	Field    string
	ClientID string
	Errno    int
	Err      error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Field)
	}
	return string(e.Code)
}

// Unwrap implements error unwrapping for error chains.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is enables errors.Is() to match errors by code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new domain error with the given code and message.
func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Wrap creates a new domain error wrapping an existing error.
// If the wrapped error is already a domain error, the original code and
// parameter details are preserved.
func Wrap(err error, code Code, msg string) error {
	var existing *Error
	if errors.As(err, &existing) {
		return &Error{Code: existing.Code, Message: msg, Field: existing.Field, ClientID: existing.ClientID, Errno: existing.Errno, Err: err}
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// InvalidParameter reports a request parameter that failed validation.
func InvalidParameter(field string) error {
	return &Error{Code: CodeInvalidParameter, Field: field, Message: fmt.Sprintf("invalid parameter: %s", field)}
}

// MissingParameter reports a required request parameter that was absent.
func MissingParameter(field string) error {
	return &Error{Code: CodeMissingParameter, Field: field, Message: fmt.Sprintf("missing parameter: %s", field)}
}

// UnknownClient reports a client id the registry does not recognise.
func UnknownClient(clientID string, cause error) error {
	return &Error{Code: CodeUnknownClient, ClientID: clientID, Message: "unknown client", Err: cause}
}

// HasCode checks if an error is a domain error with the given code.
func HasCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// CodeOf returns the code of the outermost domain error, or "" when err
// carries none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// FieldOf returns the offending parameter name of a validation error.
func FieldOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Field
	}
	return ""
}

// IsInvalidParameter reports whether err is INVALID_PARAMETER keyed on field.
func IsInvalidParameter(err error, field string) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Code == CodeInvalidParameter && e.Field == field
}
