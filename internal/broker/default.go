package broker

// Screen names returned by the default behaviors.
const (
	ScreenSettings        = "settings"
	ScreenSignInConfirmed = "signin_confirmed"
)

// Default is the plain web integration: no capabilities; after sign-in the
// user lands on settings.
type Default struct {
	*base
}

func NewDefault() *Default {
	b := newBase("default")
	b.defaults[MethodAfterSignIn] = Navigate{Screen: ScreenSettings}
	b.defaults[MethodAfterForceAuth] = Navigate{Screen: ScreenSettings}
	b.defaults[MethodAfterSignInConfirmationPoll] = Navigate{Screen: ScreenSignInConfirmed}
	return &Default{base: b}
}

var _ Broker = (*Default)(nil)
