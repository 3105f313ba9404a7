package httptransport

import (
	"context"
	"net/http"
	"net/url"

	"authflow/internal/relier"
	dErrors "authflow/pkg/domain-errors"
	"authflow/pkg/platform/httputil"
	"authflow/pkg/requestcontext"
	"authflow/pkg/validation"
)

// relierParams is the raw relier query carried in a JSON body.
type relierParams map[string]string

func (p relierParams) values() url.Values {
	q := make(url.Values, len(p))
	for k, v := range p {
		q.Set(k, v)
	}
	return q
}

type persistRequest struct {
	Params relierParams `json:"params" validate:"required"`
	// Action is the flow the verification link resumes.
	Action string `json:"action" validate:"required,oneof=signin signup"`
}

func (r *persistRequest) Validate() error {
	return validation.Validate(r)
}

type relierResponse struct {
	ClientID            string   `json:"clientId"`
	RedirectURI         string   `json:"redirectUri,omitempty"`
	RedirectTo          string   `json:"redirectTo,omitempty"`
	ServiceName         string   `json:"serviceName,omitempty"`
	ImageURI            string   `json:"imageUri,omitempty"`
	Trusted             bool     `json:"trusted"`
	AccessType          string   `json:"accessType,omitempty"`
	Prompt              string   `json:"prompt,omitempty"`
	Scope               string   `json:"scope,omitempty"`
	Permissions         []string `json:"permissions"`
	State               string   `json:"state,omitempty"`
	CodeChallenge       string   `json:"codeChallenge,omitempty"`
	CodeChallengeMethod string   `json:"codeChallengeMethod,omitempty"`
	KeysJWK             string   `json:"keysJwk,omitempty"`
	Service             string   `json:"service,omitempty"`
}

func toRelierResponse(cfg relier.Config) relierResponse {
	return relierResponse{
		ClientID:            cfg.ClientID,
		RedirectURI:         cfg.RedirectURI,
		RedirectTo:          cfg.RedirectTo,
		ServiceName:         cfg.ServiceName,
		ImageURI:            cfg.ImageURI,
		Trusted:             cfg.Trusted,
		AccessType:          cfg.AccessType,
		Prompt:              cfg.Prompt,
		Scope:               cfg.Scope,
		Permissions:         cfg.Permissions(),
		State:               cfg.State,
		CodeChallenge:       cfg.CodeChallenge,
		CodeChallengeMethod: cfg.CodeChallengeMethod,
		KeysJWK:             cfg.KeysJWK,
		Service:             cfg.Service,
	}
}

// HandleResolve implements GET /v1/relier. The query string is the relier
// request; X-Session-ID selects a saved verification context.
func (h *Handler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.resolve(r.Context(), r.URL.Query())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toRelierResponse(cfg))
}

// HandlePersist implements POST /v1/relier/persist. It resolves the given
// parameters and saves them for the caller's session so that a verification
// link opened later resumes the same OAuth request.
func (h *Handler) HandlePersist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[persistRequest](w, r, h.logger)
	if !ok {
		return
	}
	sessionID := requestcontext.SessionID(ctx)
	if sessionID == "" {
		httputil.WriteError(w, dErrors.MissingParameter("session_id"))
		return
	}

	cfg, err := h.resolve(ctx, req.Params.values())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.reliers.PersistVerificationContext(ctx, sessionID, cfg, req.Action); err != nil {
		h.logger.ErrorContext(ctx, "persist verification context failed",
			"error", err,
			"request_id", requestID,
			"client_id", cfg.ClientID,
		)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) resolve(ctx context.Context, query url.Values) (relier.Config, error) {
	cfg, err := h.reliers.Resolve(ctx, relier.Request{
		Query:     query,
		SessionID: requestcontext.SessionID(ctx),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "relier resolution failed",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
			"code", dErrors.CodeOf(err),
			"field", dErrors.FieldOf(err),
		)
		return relier.Config{}, err
	}
	return cfg, nil
}
