package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	dErrors "authflow/pkg/domain-errors"
	"authflow/pkg/requestcontext"
)

// DecodeJSON reads a single JSON object from the request body into a T.
// A missing body is MISSING_PARAMETER("body"); a value of the wrong type is
// INVALID_PARAMETER on the offending field; any other malformed body,
// including trailing data, is INVALID_PARAMETER("body"). On failure the
// error envelope is written and false returned.
func DecodeJSON[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger) (*T, bool) {
	var req T
	dec := json.NewDecoder(r.Body)
	err := dec.Decode(&req)
	if err == nil && dec.More() {
		err = errors.New("trailing data after request object")
	}
	if err != nil {
		logger.WarnContext(r.Context(), "failed to decode request body",
			"error", err,
			"request_id", requestcontext.RequestID(r.Context()),
		)
		WriteError(w, bodyError(err))
		return nil, false
	}
	return &req, true
}

func bodyError(err error) error {
	if errors.Is(err, io.EOF) {
		return dErrors.MissingParameter("body")
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return dErrors.InvalidParameter(typeErr.Field)
	}
	return dErrors.InvalidParameter("body")
}

// Validatable requests check their own fields after decoding.
type Validatable interface {
	Validate() error
}

// Normalizable requests trim or default fields before validation.
type Normalizable interface {
	Normalize()
}

// PrepareRequest normalizes then validates req.
func PrepareRequest(req any) error {
	if n, ok := req.(Normalizable); ok {
		n.Normalize()
	}
	if v, ok := req.(Validatable); ok {
		return v.Validate()
	}
	return nil
}

// DecodeAndPrepare decodes the body and prepares the request. Validation
// failures without a domain code are reported as INVALID_PARAMETER("body").
func DecodeAndPrepare[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger) (*T, bool) {
	req, ok := DecodeJSON[T](w, r, logger)
	if !ok {
		return nil, false
	}

	if err := PrepareRequest(req); err != nil {
		logger.WarnContext(r.Context(), "invalid request",
			"error", err,
			"request_id", requestcontext.RequestID(r.Context()),
		)
		var domainErr *dErrors.Error
		if !errors.As(err, &domainErr) {
			err = &dErrors.Error{Code: dErrors.CodeInvalidParameter, Field: "body", Message: err.Error()}
		}
		WriteError(w, err)
		return nil, false
	}
	return req, true
}
