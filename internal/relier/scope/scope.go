// Package scope normalizes OAuth scope strings into ordered permission lists.
package scope

import (
	"strings"

	dErrors "authflow/pkg/domain-errors"
	pstrings "authflow/pkg/platform/strings"
	"authflow/pkg/platform/validation"
)

const field = "scope"

// Well-known scope tokens.
const (
	OpenID             = "openid"
	Profile            = "profile"
	ProfileEmail       = "profile:email"
	ProfileDisplayName = "profile:display_name"
	ProfileAvatar      = "profile:avatar"
	ProfileUID         = "profile:uid"
)

// Policy configures expansion and filtering.
type Policy struct {
	// Expansions maps an expandable token to its ordered replacement tokens.
	// Applied only for trusted reliers that want consent.
	Expansions map[string][]string
	// UntrustedAllowed lists the tokens an untrusted relier may request.
	UntrustedAllowed []string
	// MaxScopes bounds the number of distinct tokens. Zero disables the check.
	MaxScopes int
}

// DefaultPolicy returns the standard profile expansion and untrusted allow-list.
func DefaultPolicy() Policy {
	return Policy{
		Expansions: map[string][]string{
			Profile: {ProfileEmail, ProfileDisplayName, ProfileAvatar, ProfileUID},
		},
		UntrustedAllowed: []string{OpenID, Profile, ProfileDisplayName, ProfileEmail, ProfileUID},
		MaxScopes:        validation.MaxScopes,
	}
}

// Result is a normalized scope.
type Result struct {
	Permissions []string
	Scope       string
}

// Normalizer applies a Policy to raw scope strings. It is safe for concurrent
// use once constructed.
type Normalizer struct {
	policy Policy
}

// New creates a Normalizer for policy.
func New(policy Policy) *Normalizer {
	return &Normalizer{policy: policy}
}

// Normalize splits, dedupes, expands and filters raw. It fails with
// INVALID_PARAMETER("scope") when no permission survives or raw exceeds the
// configured limits.
func (n *Normalizer) Normalize(raw string, trusted, wantsConsent bool) (Result, error) {
	permissions := pstrings.SplitFields(raw)

	if err := validation.CheckEachStringLength(field, permissions, validation.MaxScopeLength); err != nil {
		return Result{}, err
	}
	if n.policy.MaxScopes > 0 {
		if err := validation.CheckSliceCount(field, len(permissions), n.policy.MaxScopes); err != nil {
			return Result{}, err
		}
	}

	if trusted && wantsConsent {
		permissions = n.expand(permissions)
	}
	if !trusted {
		permissions = pstrings.KeepAllowed(permissions, n.policy.UntrustedAllowed)
	}

	if len(permissions) == 0 {
		return Result{}, dErrors.InvalidParameter(field)
	}
	return Result{Permissions: permissions, Scope: strings.Join(permissions, " ")}, nil
}

// expand replaces each expandable token in place with its expansion, skipping
// tokens already present.
func (n *Normalizer) expand(permissions []string) []string {
	if len(n.policy.Expansions) == 0 {
		return permissions
	}
	out := make([]string, 0, len(permissions))
	for _, p := range permissions {
		if replacement, ok := n.policy.Expansions[p]; ok {
			out = append(out, replacement...)
			continue
		}
		out = append(out, p)
	}
	return pstrings.DedupeAndTrim(out)
}
