package authclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"authflow/internal/account"
	"authflow/internal/sentinel"
	dErrors "authflow/pkg/domain-errors"
)

// Service errnos with a dedicated code.
const (
	errnoThrottled       = 114
	errnoRequestBlocked  = 125
	errnoEmailHardBounce = 134
	errnoEmailComplaint  = 135
)

// errorResponse is the service error body.
type errorResponse struct {
	Code               int    `json:"code"`
	Errno              int    `json:"errno"`
	Error              string `json:"error"`
	Message            string `json:"message"`
	RetryAfter         int    `json:"retryAfter"`
	VerificationMethod string `json:"verificationMethod"`
	VerificationReason string `json:"verificationReason"`
}

// mapError turns a non-2xx response into a domain error.
func mapError(resp *http.Response, body io.Reader) error {
	if resp.StatusCode >= http.StatusInternalServerError {
		return dErrors.Wrap(fmt.Errorf("%w: %s", sentinel.ErrUnavailable, resp.Status), dErrors.CodeUnavailable, "authentication service unavailable")
	}

	var e errorResponse
	if err := json.NewDecoder(body).Decode(&e); err != nil {
		return &dErrors.Error{
			Code:    dErrors.CodeAuthError,
			Message: fmt.Sprintf("authentication service returned %s", resp.Status),
			Err:     &ServiceError{Status: resp.StatusCode},
		}
	}

	switch e.Errno {
	case errnoThrottled:
		return account.NewBlockedError(dErrors.CodeThrottled,
			account.VerificationReason(e.VerificationReason), account.VerificationMethod(e.VerificationMethod))
	case errnoRequestBlocked:
		return account.NewBlockedError(dErrors.CodeRequestBlocked,
			account.VerificationReason(e.VerificationReason), account.VerificationMethod(e.VerificationMethod))
	case errnoEmailHardBounce:
		return dErrors.New(dErrors.CodeEmailHardBounce, messageOr(e, "email hard bounce"))
	case errnoEmailComplaint:
		return dErrors.New(dErrors.CodeEmailSentComplaint, messageOr(e, "email sent complaint"))
	}
	// unknown account (102), incorrect password (103) and the rest
	return &dErrors.Error{
		Code:    dErrors.CodeAuthError,
		Errno:   e.Errno,
		Message: messageOr(e, fmt.Sprintf("authentication service returned %s", resp.Status)),
		Err:     &ServiceError{Errno: e.Errno, Status: resp.StatusCode},
	}
}

func messageOr(e errorResponse, fallback string) string {
	if e.Message != "" {
		return e.Message
	}
	return fallback
}

// ServiceError carries the raw errno of an error without a dedicated code,
// so callers can still tell an unknown account from a wrong password.
type ServiceError struct {
	Errno  int
	Status int
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("auth service errno %d (status %d)", e.Errno, e.Status)
}
