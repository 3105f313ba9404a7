// Package authclient talks to the remote authentication service.
package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"authflow/internal/account"
	"authflow/internal/relier"
	"authflow/internal/sentinel"
	"authflow/internal/signin"
	dErrors "authflow/pkg/domain-errors"
	"authflow/pkg/requestcontext"
)

const (
	loginPath         = "/v1/account/login"
	unblockPath       = "/v1/account/login/send_unblock_code"
	sessionStatusPath = "/v1/session/status"
	emailStatusPath   = "/v1/recovery_email/status"
	maxBodyBytes      = 64 << 10
	defaultTimeout    = 10 * time.Second
)

// Client is an HTTP client of the authentication service.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.client = c
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(cl *Client) {
		cl.logger = logger
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{baseURL: strings.TrimRight(baseURL, "/")}
	for _, opt := range opts {
		opt(c)
	}
	if c.client == nil {
		c.client = &http.Client{Timeout: defaultTimeout}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

type loginRequest struct {
	Email              string `json:"email"`
	AuthPW             string `json:"authPW"`
	Reason             string `json:"reason"`
	Service            string `json:"service,omitempty"`
	RedirectTo         string `json:"redirectTo,omitempty"`
	Resume             string `json:"resume,omitempty"`
	UnblockCode        string `json:"unblockCode,omitempty"`
	VerificationMethod string `json:"verificationMethod,omitempty"`
}

type loginResponse struct {
	UID                string `json:"uid"`
	SessionToken       string `json:"sessionToken"`
	Verified           bool   `json:"verified"`
	VerificationMethod string `json:"verificationMethod"`
	VerificationReason string `json:"verificationReason"`
}

type sessionStatusResponse struct {
	UID   string `json:"uid"`
	State string `json:"state"`
}

const sessionUnverified = "unverified"

type emailStatusResponse struct {
	Email    string `json:"email"`
	Verified bool   `json:"verified"`
}

type unblockRequest struct {
	Email      string `json:"email"`
	Service    string `json:"service,omitempty"`
	RedirectTo string `json:"redirectTo,omitempty"`
}

// SignInAccount signs in with password, or checks the account's existing
// session when password is empty.
func (c *Client) SignInAccount(ctx context.Context, acct *account.Account, password string, cfg relier.Config, opts account.SignInOptions) (*account.Account, error) {
	if password == "" {
		return c.sessionStatus(ctx, acct)
	}
	if acct.Email == "" {
		return nil, dErrors.New(dErrors.CodeUnexpected, "email required for password sign-in")
	}
	authPW, err := DeriveAuthPW(acct.Email, password)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "derive credentials")
	}

	var resp loginResponse
	err = c.do(ctx, http.MethodPost, loginPath, "", loginRequest{
		Email:              acct.Email,
		AuthPW:             authPW,
		Reason:             "signin",
		Service:            cfg.Service,
		RedirectTo:         cfg.RedirectTo,
		Resume:             opts.Resume,
		UnblockCode:        opts.UnblockCode,
		VerificationMethod: string(opts.VerificationMethod),
	}, &resp)
	if err != nil {
		return nil, err
	}

	updated := acct.Clone()
	updated.UID = resp.UID
	updated.SessionToken = resp.SessionToken
	updated.Verified = resp.Verified
	updated.VerificationMethod = account.VerificationMethod(resp.VerificationMethod)
	updated.VerificationReason = account.VerificationReason(resp.VerificationReason)
	return updated, nil
}

// sessionStatus reuses the account's session token. The uid and email are
// the ones the service holds for the token. An unverified session must be
// confirmed by an email link.
func (c *Client) sessionStatus(ctx context.Context, acct *account.Account) (*account.Account, error) {
	if !acct.HasSessionToken() {
		return nil, dErrors.New(dErrors.CodeUnexpected, "password or session token required")
	}
	var session sessionStatusResponse
	if err := c.do(ctx, http.MethodGet, sessionStatusPath, acct.SessionToken, nil, &session); err != nil {
		return nil, err
	}
	if session.UID == "" {
		return nil, dErrors.New(dErrors.CodeUnexpected, "session status returned no uid")
	}
	var email emailStatusResponse
	if err := c.do(ctx, http.MethodGet, emailStatusPath, acct.SessionToken, nil, &email); err != nil {
		return nil, err
	}

	updated := acct.Clone()
	updated.UID = session.UID
	updated.Email = email.Email
	updated.Verified = email.Verified && session.State != sessionUnverified
	updated.VerificationMethod = ""
	updated.VerificationReason = ""
	if !updated.Verified {
		updated.VerificationMethod = account.MethodEmail
		updated.VerificationReason = account.ReasonSignIn
	}
	return updated, nil
}

// SendUnblockEmail asks the service to email an unblock code.
func (c *Client) SendUnblockEmail(ctx context.Context, acct *account.Account, cfg relier.Config) error {
	if acct.Email == "" {
		return dErrors.New(dErrors.CodeUnexpected, "email required for unblock")
	}
	return c.do(ctx, http.MethodPost, unblockPath, "", unblockRequest{
		Email:      acct.Email,
		Service:    cfg.Service,
		RedirectTo: cfg.RedirectTo,
	}, nil)
}

func (c *Client) do(ctx context.Context, method, path, bearer string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "encode request")
		}
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "build auth request")
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	if id := requestcontext.RequestID(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return dErrors.Wrap(err, dErrors.CodeTimeout, "authentication service timed out")
		}
		return dErrors.Wrap(fmt.Errorf("%w: %w", sentinel.ErrUnavailable, err), dErrors.CodeUnavailable, "authentication service unavailable")
	}
	defer resp.Body.Close()
	limited := io.LimitReader(resp.Body, maxBodyBytes)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		mapped := mapError(resp, limited)
		c.logger.WarnContext(ctx, "authentication service error",
			"path", path,
			"status", resp.StatusCode,
			"code", string(dErrors.CodeOf(mapped)),
			"request_id", requestcontext.RequestID(ctx),
		)
		return mapped
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(limited).Decode(out); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnexpected, "decode authentication response")
	}
	return nil
}

var _ signin.AuthService = (*Client)(nil)
