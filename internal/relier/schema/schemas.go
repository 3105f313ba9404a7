package schema

import "authflow/pkg/platform/validation"

// Normalized field names shared by the relier schemas.
const (
	KeyAccessType          = "accessType"
	KeyAction              = "action"
	KeyClientID            = "clientId"
	KeyCodeChallenge       = "codeChallenge"
	KeyCodeChallengeMethod = "codeChallengeMethod"
	KeyKeysJWK             = "keysJwk"
	KeyPrompt              = "prompt"
	KeyRedirectTo          = "redirectTo"
	KeyRedirectURI         = "redirectUri"
	KeyScope               = "scope"
	KeyState               = "state"
	KeyService             = "service"
	KeyServiceName         = "serviceName"
	KeyImageURI            = "imageUri"
	KeyTrusted             = "trusted"
)

var (
	accessType = Enum{Values: []string{"online", "offline"}}
	prompt     = Enum{Values: []string{"consent", "none"}}
	state      = String{MaxLen: validation.MaxStateLength}
	scope      = String{MinLen: 1}
)

// SignInSignUpQuery validates the query string of a sign-in or sign-up flow.
var SignInSignUpQuery = Schema{
	{Name: "access_type", Rule: accessType, RenameTo: KeyAccessType},
	{Name: "client_id", Rule: Token{Kind: TokenClientID}, Required: true, RenameTo: KeyClientID},
	{Name: "code_challenge", Rule: Token{Kind: TokenCodeChallenge}, RenameTo: KeyCodeChallenge},
	{Name: "code_challenge_method", Rule: Token{Kind: TokenCodeChallengeMethod}, RenameTo: KeyCodeChallengeMethod},
	{Name: "keys_jwk", Rule: Token{Kind: TokenKeysJWK}, RenameTo: KeyKeysJWK},
	{Name: "prompt", Rule: prompt},
	{Name: "redirectTo", Rule: URL{}, RenameTo: KeyRedirectTo},
	{Name: "redirect_uri", Rule: URL{}, RenameTo: KeyRedirectURI},
	{Name: "scope", Rule: scope, Required: true},
	{Name: "state", Rule: state},
}

// VerificationContext validates the OAuth context saved in session storage
// when a sign-up started, and read back when the verification link is opened.
var VerificationContext = Schema{
	{Name: "access_type", Rule: accessType, RenameTo: KeyAccessType},
	{Name: "action", Rule: String{MinLen: 1}},
	{Name: "client_id", Rule: Token{Kind: TokenClientID}, Required: true, RenameTo: KeyClientID},
	{Name: "redirect_uri", Rule: URL{}, RenameTo: KeyRedirectURI},
	{Name: "scope", Rule: scope},
	{Name: "state", Rule: state},
}

// VerificationFallback validates the query of a verification link opened in a
// browser without a saved OAuth context.
var VerificationFallback = Schema{
	{Name: "service", Rule: Token{Kind: TokenClientID}, Required: true, RenameTo: KeyService},
}

// ClientInfo validates a client registry response.
var ClientInfo = Schema{
	{Name: "id", Rule: Hex{Len: 16}, Required: true, RenameTo: KeyClientID},
	{Name: "image_uri", Rule: URL{AllowEmpty: true}, RenameTo: KeyImageURI},
	{Name: "name", Rule: String{MinLen: 1, MaxLen: validation.MaxServiceNameLength}, Required: true, RenameTo: KeyServiceName},
	{Name: "redirect_uri", Rule: URL{}, Required: true, RenameTo: KeyRedirectURI},
	{Name: "trusted", Rule: Bool{}, Required: true},
}
