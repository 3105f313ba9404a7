package schema

import (
	"fmt"
	"strconv"
	"strings"

	"authflow/pkg/platform/validation"
	v "authflow/pkg/validation"
)

// Rule validates and coerces one raw parameter value. The set of rules is
// closed: Hex, URL, String, Bool, Enum and Token.
type Rule interface {
	apply(raw string) (any, bool)
}

// Hex accepts a hexadecimal string, optionally of an exact length.
type Hex struct {
	Len int
}

func (r Hex) apply(raw string) (any, bool) {
	tag := "hexadecimal"
	if r.Len > 0 {
		tag += fmt.Sprintf(",len=%d", r.Len)
	}
	return raw, v.Var(raw, tag)
}

// URL accepts an absolute URL. AllowEmpty additionally accepts "".
type URL struct {
	AllowEmpty bool
}

func (r URL) apply(raw string) (any, bool) {
	if raw == "" {
		return raw, r.AllowEmpty
	}
	return raw, v.Var(raw, fmt.Sprintf("url,max=%d", validation.MaxRedirectURILength))
}

// String accepts any string whose trimmed length is at least MinLen and, when
// MaxLen is set, at most MaxLen.
type String struct {
	MinLen int
	MaxLen int
}

func (r String) apply(raw string) (any, bool) {
	n := len(strings.TrimSpace(raw))
	if n < r.MinLen {
		return raw, false
	}
	if r.MaxLen > 0 && len(raw) > r.MaxLen {
		return raw, false
	}
	return raw, true
}

// Bool accepts the strconv boolean spellings and coerces to bool.
type Bool struct{}

func (Bool) apply(raw string) (any, bool) {
	if !v.Var(raw, "boolean") {
		return nil, false
	}
	b, err := strconv.ParseBool(raw)
	return b, err == nil
}

// Enum accepts exactly one of Values.
type Enum struct {
	Values []string
}

func (r Enum) apply(raw string) (any, bool) {
	for _, allowed := range r.Values {
		if raw == allowed {
			return raw, true
		}
	}
	return raw, false
}

// TokenKind names an opaque OAuth token format.
type TokenKind int

const (
	// TokenClientID is a 16 character hex client identifier.
	TokenClientID TokenKind = iota
	// TokenCodeChallenge is a 43 character base64url PKCE challenge.
	TokenCodeChallenge
	// TokenCodeChallengeMethod is the PKCE transform name.
	TokenCodeChallengeMethod
	// TokenKeysJWK is a base64url encoded JWK.
	TokenKeysJWK
)

// Token accepts an opaque token of the given kind.
type Token struct {
	Kind TokenKind
}

var tokenTags = map[TokenKind]string{
	TokenClientID:            "hexadecimal,len=16",
	TokenCodeChallenge:       "base64rawurl,len=43",
	TokenCodeChallengeMethod: "oneof=S256",
	TokenKeysJWK:             fmt.Sprintf("base64rawurl,max=%d", validation.MaxKeysJWKLength),
}

func (r Token) apply(raw string) (any, bool) {
	tag, ok := tokenTags[r.Kind]
	if !ok {
		return raw, false
	}
	return raw, v.Var(raw, tag)
}
