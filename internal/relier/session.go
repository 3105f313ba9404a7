package relier

import "sync"

// Session is the per-attempt mutable relier state a sign-in may change. The
// resolved Config it wraps stays read-only.
type Session struct {
	mu         sync.Mutex
	cfg        Config
	uid        string
	redirectTo string
}

// NewSession seeds a Session from a resolved Config and the account uid the
// relier previously knew, if any.
func NewSession(cfg Config, uid string) *Session {
	return &Session{cfg: cfg, uid: uid, redirectTo: cfg.RedirectTo}
}

func (s *Session) Config() Config {
	return s.cfg
}

// UID returns the account uid the relier currently knows.
func (s *Session) UID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uid
}

func (s *Session) SetUID(uid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uid = uid
}

// RedirectTo returns the pending redirect-override target.
func (s *Session) RedirectTo() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.redirectTo
}

// TakeRedirectTo returns and clears the pending redirect-override target.
func (s *Session) TakeRedirectTo() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	target := s.redirectTo
	s.redirectTo = ""
	return target
}
