package validation

import (
	dErrors "authflow/pkg/domain-errors"
)

// Slice element count limits
const (
	// MaxScopes is the maximum number of OAuth scopes per request.
	MaxScopes = 20
)

// String element length limits
const (
	// MaxScopeLength is the maximum length of an individual scope string.
	MaxScopeLength = 100

	// MaxRedirectURILength is the maximum length of a redirect URI.
	MaxRedirectURILength = 2048

	// MaxClientIDLength is the maximum length of a client ID.
	MaxClientIDLength = 100

	// MaxStateLength is the maximum length of an OAuth state parameter.
	MaxStateLength = 500

	// MaxServiceNameLength is the maximum length of a registry service name.
	MaxServiceNameLength = 256

	// MaxKeysJWKLength bounds the encoded keys_jwk parameter.
	MaxKeysJWKLength = 4096
)

// CheckSliceCount reports INVALID_PARAMETER on field when count exceeds max.
func CheckSliceCount(field string, count, max int) error {
	if count > max {
		return dErrors.InvalidParameter(field)
	}
	return nil
}

// CheckStringLength reports INVALID_PARAMETER on field when value exceeds max.
func CheckStringLength(field, value string, max int) error {
	if len(value) > max {
		return dErrors.InvalidParameter(field)
	}
	return nil
}

// CheckEachStringLength reports INVALID_PARAMETER on field when any element
// of values exceeds max.
func CheckEachStringLength(field string, values []string, max int) error {
	for _, v := range values {
		if len(v) > max {
			return dErrors.InvalidParameter(field)
		}
	}
	return nil
}
