package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"authflow/internal/account"
	dErrors "authflow/pkg/domain-errors"
)

// CaptchaVerifier confirms that the user solved a captcha for this attempt.
type CaptchaVerifier interface {
	Verified(ctx context.Context, acct *account.Account) (bool, error)
}

// CaptchaRequired refuses to start a sign-in until a captcha is verified.
type CaptchaRequired struct {
	*base
	verifier CaptchaVerifier
}

func NewCaptchaRequired(verifier CaptchaVerifier) *CaptchaRequired {
	c := &CaptchaRequired{base: newBase("captcha"), verifier: verifier}
	c.hooks[MethodBeforeSignIn] = c.requireCaptcha
	c.defaults[MethodAfterSignIn] = Navigate{Screen: ScreenSettings}
	c.defaults[MethodAfterForceAuth] = Navigate{Screen: ScreenSettings}
	c.defaults[MethodAfterSignInConfirmationPoll] = Navigate{Screen: ScreenSignInConfirmed}
	return c
}

func (c *CaptchaRequired) requireCaptcha(ctx context.Context, acct *account.Account) (Behavior, error) {
	ok, err := c.verifier.Verified(ctx, acct)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "captcha verification failed")
	}
	if !ok {
		return nil, dErrors.New(dErrors.CodeRequestBlocked, "captcha required")
	}
	return Null{}, nil
}

var _ Broker = (*CaptchaRequired)(nil)

type captchaTokenKey struct{}

// WithCaptchaToken attaches the captcha response token of the request.
func WithCaptchaToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, captchaTokenKey{}, token)
}

// CaptchaToken returns the token attached by WithCaptchaToken.
func CaptchaToken(ctx context.Context) string {
	v, _ := ctx.Value(captchaTokenKey{}).(string)
	return v
}

// SiteVerifier checks the request's captcha token against a siteverify
// endpoint (form POST of secret and response, JSON {"success": bool}).
type SiteVerifier struct {
	endpoint string
	secret   string
	client   *http.Client
}

func NewSiteVerifier(endpoint, secret string, client *http.Client) *SiteVerifier {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return &SiteVerifier{endpoint: endpoint, secret: secret, client: client}
}

func (v *SiteVerifier) Verified(ctx context.Context, _ *account.Account) (bool, error) {
	token := CaptchaToken(ctx)
	if token == "" {
		return false, nil
	}
	form := url.Values{"secret": {v.secret}, "response": {token}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return false, fmt.Errorf("build siteverify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("siteverify request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("siteverify returned %s", resp.Status)
	}

	var result struct {
		Success bool `json:"success"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, fmt.Errorf("decode siteverify response: %w", err)
	}
	return result.Success, nil
}
