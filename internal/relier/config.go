package relier

import (
	"slices"
	"strings"

	"authflow/internal/account"
	"authflow/internal/relier/schema"
)

// Prompt values.
const (
	PromptConsent = "consent"
	PromptNone    = "none"
)

// Config is a fully resolved relier. It is produced only by a Flow reaching
// Resolved and is read-only afterwards; Permissions is copied on every read.
type Config struct {
	ClientID            string
	RedirectURI         string
	RedirectTo          string
	ServiceName         string
	ImageURI            string
	Trusted             bool
	AccessType          string
	Prompt              string
	Scope               string
	State               string
	CodeChallenge       string
	CodeChallengeMethod string
	KeysJWK             string
	// Service is the display/default identity of the relier. It is never
	// used to authorize anything.
	Service string

	permissions []string
}

// Permissions returns a copy of the normalized permission list.
func (c Config) Permissions() []string {
	return slices.Clone(c.permissions)
}

// WithPermissions returns a copy of c whose permission list and scope are
// the given, already normalized, permissions.
func (c Config) WithPermissions(permissions []string) Config {
	c.permissions = slices.Clone(permissions)
	c.Scope = strings.Join(permissions, " ")
	return c
}

// WantsConsent reports whether the relier asked for the consent prompt.
func (c Config) WantsConsent() bool {
	return c.Prompt == PromptConsent
}

func (c Config) IsTrusted() bool {
	return c.Trusted
}

// AccountNeedsPermissions reports whether acct must consent to permissions
// that carry a value for it and have not been seen for this client.
// Trusted reliers that did not ask for consent never need it.
func (c Config) AccountNeedsPermissions(acct *account.Account, seen []string) bool {
	if acct == nil {
		return false
	}
	if c.Trusted && !c.WantsConsent() {
		return false
	}
	pending := acct.PermissionsWithValues(c.permissions)
	for _, p := range pending {
		if !slices.Contains(seen, p) {
			return true
		}
	}
	return false
}

// VerificationParams returns the OAuth context to persist for a later
// verification-link flow, in VerificationContext schema form.
func (c Config) VerificationParams(action string) schema.Params {
	p := schema.Params{"client_id": c.ClientID}
	if action != "" {
		p["action"] = action
	}
	set := func(k, v string) {
		if v != "" {
			p[k] = v
		}
	}
	set("access_type", c.AccessType)
	set("redirect_uri", c.RedirectURI)
	set("scope", c.Scope)
	set("state", c.State)
	return p
}

// builder accumulates validated values while a Flow runs.
type builder struct {
	cfg Config
}

func (b *builder) applyQuery(v schema.Values) {
	if v.Has(schema.KeyClientID) {
		b.cfg.ClientID = v.String(schema.KeyClientID)
	}
	b.cfg.AccessType = v.String(schema.KeyAccessType)
	b.cfg.CodeChallenge = v.String(schema.KeyCodeChallenge)
	b.cfg.CodeChallengeMethod = v.String(schema.KeyCodeChallengeMethod)
	b.cfg.KeysJWK = v.String(schema.KeyKeysJWK)
	b.cfg.Prompt = v.String(schema.KeyPrompt)
	b.cfg.RedirectTo = v.String(schema.KeyRedirectTo)
	b.cfg.RedirectURI = v.String(schema.KeyRedirectURI)
	b.cfg.Scope = v.String(schema.KeyScope)
	b.cfg.State = v.String(schema.KeyState)
	if v.Has(schema.KeyService) {
		b.cfg.Service = v.String(schema.KeyService)
	}
}

func (b *builder) defaultService() {
	if b.cfg.Service == "" {
		b.cfg.Service = b.cfg.ClientID
	}
}

// applyClient merges registry values; they take precedence over the request.
func (b *builder) applyClient(c ClientMetadata) {
	b.cfg.ServiceName = c.ServiceName
	b.cfg.ImageURI = c.ImageURI
	b.cfg.Trusted = c.Trusted
	b.cfg.RedirectURI = c.RedirectURI
}

func (b *builder) applyPermissions(permissions []string) {
	b.cfg.permissions = slices.Clone(permissions)
	b.cfg.Scope = strings.Join(permissions, " ")
}

func (b *builder) build() Config {
	cfg := b.cfg
	cfg.permissions = slices.Clone(b.cfg.permissions)
	return cfg
}

// ClientMetadata is the registry record for a client.
type ClientMetadata struct {
	ClientID    string
	ImageURI    string
	ServiceName string
	RedirectURI string
	Trusted     bool
}

func clientMetadataFrom(v schema.Values) ClientMetadata {
	return ClientMetadata{
		ClientID:    v.String(schema.KeyClientID),
		ImageURI:    v.String(schema.KeyImageURI),
		ServiceName: v.String(schema.KeyServiceName),
		RedirectURI: v.String(schema.KeyRedirectURI),
		Trusted:     v.Bool(schema.KeyTrusted),
	}
}
