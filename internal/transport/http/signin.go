package httptransport

import (
	"net/http"

	"authflow/internal/account"
	"authflow/internal/broker"
	"authflow/internal/platform/privacy"
	"authflow/internal/relier"
	"authflow/internal/signin"
	dErrors "authflow/pkg/domain-errors"
	"authflow/pkg/platform/httputil"
	"authflow/pkg/requestcontext"
	"authflow/pkg/validation"
)

// signInRequest carries the relier query of the page the sign-in started
// on, the account reference and the credentials.
type signInRequest struct {
	Params      relierParams     `json:"params" validate:"required"`
	Account     *account.Account `json:"account" validate:"required"`
	Password    string           `json:"password"`
	KnownUID    string           `json:"knownUid"`
	Resume      string           `json:"resume"`
	UnblockCode string           `json:"unblockCode"`
	ViewName    string           `json:"viewName" validate:"omitempty,max=64"`
	// OnSuccess selects the broker method run after a verified sign-in.
	OnSuccess string `json:"onSuccess" validate:"omitempty,oneof=afterSignIn afterForceAuth afterSignInConfirmationPoll"`
	// CaptchaToken is forwarded to brokers that require a solved captcha.
	CaptchaToken string `json:"captchaToken"`
}

func (r *signInRequest) Validate() error {
	return validation.Validate(r)
}

func (r *signInRequest) options() signin.Options {
	return signin.Options{
		Resume:          r.Resume,
		UnblockCode:     r.UnblockCode,
		OnSuccessMethod: broker.Method(r.OnSuccess),
		ViewName:        r.ViewName,
	}
}

type behaviorResponse struct {
	Kind     string            `json:"kind"`
	Screen   string            `json:"screen,omitempty"`
	Endpoint string            `json:"endpoint,omitempty"`
	Data     map[string]string `json:"data,omitempty"`
}

type outcomeResponse struct {
	Kind        signin.Kind       `json:"kind"`
	Screen      string            `json:"screen,omitempty"`
	Reason      dErrors.Code      `json:"reason,omitempty"`
	Email       string            `json:"email,omitempty"`
	Permissions []string          `json:"permissions,omitempty"`
	Behavior    *behaviorResponse `json:"behavior,omitempty"`
	Account     *account.Account  `json:"account,omitempty"`
	// UID is the account the relier knows after the attempt.
	UID        string `json:"uid,omitempty"`
	RedirectTo string `json:"redirectTo,omitempty"`
}

func toBehaviorResponse(b broker.Behavior) *behaviorResponse {
	if b == nil {
		return nil
	}
	resp := &behaviorResponse{Kind: b.Kind()}
	switch v := b.(type) {
	case broker.Navigate:
		resp.Screen = v.Screen
		resp.Data = v.Data
	case broker.NavigateOrRedirect:
		resp.Screen = v.Screen
		resp.Endpoint = v.Endpoint
	}
	return resp
}

func toOutcomeResponse(out *signin.Outcome, sess *relier.Session) outcomeResponse {
	return outcomeResponse{
		Kind:        out.Kind,
		Screen:      out.Screen,
		Reason:      out.Reason,
		Email:       out.Email,
		Permissions: out.Permissions,
		Behavior:    toBehaviorResponse(out.Behavior),
		Account:     out.Account,
		UID:         sess.UID(),
		RedirectTo:  sess.RedirectTo(),
	}
}

// HandleSignIn implements POST /v1/signin.
func (h *Handler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	h.handleAttempt(w, r, false)
}

// HandleCompletePermissions implements POST /v1/signin/permissions: the
// user granted the pending permissions of a previous attempt.
func (h *Handler) HandleCompletePermissions(w http.ResponseWriter, r *http.Request) {
	h.handleAttempt(w, r, true)
}

func (h *Handler) handleAttempt(w http.ResponseWriter, r *http.Request, permissionsGranted bool) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[signInRequest](w, r, h.logger)
	if !ok {
		return
	}
	cfg, err := h.resolve(ctx, req.Params.values())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if req.CaptchaToken != "" {
		ctx = broker.WithCaptchaToken(ctx, req.CaptchaToken)
	}

	sess := relier.NewSession(cfg, req.KnownUID)
	var out *signin.Outcome
	if permissionsGranted {
		out, err = h.signIn.CompletePermissions(ctx, sess, req.Account, req.options())
	} else {
		out, err = h.signIn.SignIn(ctx, sess, req.Account, req.Password, req.options())
	}
	if err != nil {
		h.logger.WarnContext(ctx, "sign-in failed",
			"error", err,
			"request_id", requestID,
			"client_id", cfg.ClientID,
			"email", privacy.MaskEmail(req.Account.Email),
			"code", dErrors.CodeOf(err),
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "sign-in step completed",
		"request_id", requestID,
		"client_id", cfg.ClientID,
		"outcome", out.Kind,
		"screen", out.Screen,
	)
	httputil.WriteJSON(w, http.StatusOK, toOutcomeResponse(out, sess))
}
