package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "authflow/pkg/domain-errors"
)

func WriteJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Errors after WriteHeader cannot change the status code, so we ignore encoding errors.
	_ = json.NewEncoder(w).Encode(response)
}

// ErrorResponse is the error envelope of every endpoint. Field names the
// offending parameter of a validation error; ClientID is set for
// UNKNOWN_CLIENT and INCORRECT_REDIRECT; Errno is the authentication
// service's number for AUTH_ERROR.
type ErrorResponse struct {
	Error    string `json:"error"`
	Message  string `json:"message,omitempty"`
	Field    string `json:"field,omitempty"`
	ClientID string `json:"client_id,omitempty"`
	Errno    int    `json:"errno,omitempty"`
}

// WriteError centralizes domain error translation to HTTP responses.
func WriteError(w http.ResponseWriter, err error) {
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		WriteJSON(w, DomainCodeToHTTPStatus(domainErr.Code), ErrorResponse{
			Error:    string(domainErr.Code),
			Message:  domainErr.Message,
			Field:    domainErr.Field,
			ClientID: domainErr.ClientID,
			Errno:    domainErr.Errno,
		})
		return
	}

	// Fallback for unexpected errors
	WriteJSON(w, http.StatusInternalServerError, ErrorResponse{Error: string(dErrors.CodeInternal)})
}

// DomainCodeToHTTPStatus translates domain error codes to HTTP status codes.
func DomainCodeToHTTPStatus(code dErrors.Code) int {
	switch code {
	case dErrors.CodeInvalidParameter, dErrors.CodeMissingParameter,
		dErrors.CodeUnknownClient, dErrors.CodeIncorrectRedirect,
		dErrors.CodeUnexpected, dErrors.CodeEmailHardBounce, dErrors.CodeEmailSentComplaint,
		dErrors.CodeAuthError:
		return http.StatusBadRequest
	case dErrors.CodeThrottled:
		return http.StatusTooManyRequests
	case dErrors.CodeRequestBlocked:
		return http.StatusForbidden
	case dErrors.CodeTimeout:
		return http.StatusGatewayTimeout
	case dErrors.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
