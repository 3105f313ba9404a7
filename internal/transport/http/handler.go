// Package httptransport exposes relier resolution and sign-in over JSON/HTTP.
// Handlers decode, delegate and encode; all decisions live in the services.
package httptransport

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks RelierService,SignInService

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5"

	"authflow/internal/account"
	"authflow/internal/relier"
	"authflow/internal/signin"
)

// RelierService resolves and persists relier configuration.
type RelierService interface {
	Resolve(ctx context.Context, req relier.Request) (relier.Config, error)
	PersistVerificationContext(ctx context.Context, sessionID string, cfg relier.Config, action string) error
}

// SignInService runs sign-in attempts.
type SignInService interface {
	SignIn(ctx context.Context, sess *relier.Session, acct *account.Account, password string, opts signin.Options) (*signin.Outcome, error)
	CompletePermissions(ctx context.Context, sess *relier.Session, acct *account.Account, opts signin.Options) (*signin.Outcome, error)
}

type Handler struct {
	reliers RelierService
	signIn  SignInService
	logger  *slog.Logger
}

func New(reliers RelierService, signIn SignInService, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{reliers: reliers, signIn: signIn, logger: logger}
}

// Register mounts the API routes on r.
func (h *Handler) Register(r chi.Router) {
	r.Route("/v1", func(r chi.Router) {
		r.Get("/relier", h.HandleResolve)
		r.Post("/relier/persist", h.HandlePersist)
		r.Post("/signin", h.HandleSignIn)
		r.Post("/signin/permissions", h.HandleCompletePermissions)
	})
}
