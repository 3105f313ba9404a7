package broker

import (
	"context"
	"fmt"
	"log/slog"

	"authflow/internal/account"
)

// LoginMessage is sent to the host when a sync sign-in completes.
type LoginMessage struct {
	Command      string `json:"command"`
	UID          string `json:"uid"`
	Email        string `json:"email"`
	SessionToken string `json:"sessionToken"`
	Verified     bool   `json:"verified"`
}

const commandLogin = "fxaccounts:login"

// HostChannel delivers messages to the embedding host.
type HostChannel interface {
	Send(ctx context.Context, msg LoginMessage) error
}

// ChannelFunc adapts a function to HostChannel.
type ChannelFunc func(ctx context.Context, msg LoginMessage) error

func (f ChannelFunc) Send(ctx context.Context, msg LoginMessage) error {
	return f(ctx, msg)
}

// LogChannel writes host messages to a logger. It stands in for a real host
// channel in local runs.
func LogChannel(logger *slog.Logger) HostChannel {
	return ChannelFunc(func(ctx context.Context, msg LoginMessage) error {
		logger.InfoContext(ctx, "host message",
			"command", msg.Command,
			"uid", msg.UID,
			"verified", msg.Verified,
		)
		return nil
	})
}

// SyncHandoff hands the signed-in session to a host application (for
// example a browser's sync engine) and halts.
type SyncHandoff struct {
	*base
	channel HostChannel
}

func NewSyncHandoff(channel HostChannel) *SyncHandoff {
	s := &SyncHandoff{
		base:    newBase("sync", CapReuseExistingSession, CapAllowUIDChange, CapHandleSignedInNotification),
		channel: channel,
	}
	s.hooks[MethodAfterSignIn] = s.notifyLogin
	s.hooks[MethodAfterForceAuth] = s.notifyLogin
	s.hooks[MethodAfterSignInConfirmationPoll] = s.notifyLogin
	return s
}

func (s *SyncHandoff) notifyLogin(ctx context.Context, acct *account.Account) (Behavior, error) {
	if acct == nil {
		return nil, fmt.Errorf("sync handoff: account is required")
	}
	err := s.channel.Send(ctx, LoginMessage{
		Command:      commandLogin,
		UID:          acct.UID,
		Email:        acct.Email,
		SessionToken: acct.SessionToken,
		Verified:     acct.Verified,
	})
	if err != nil {
		return nil, fmt.Errorf("notify host of login: %w", err)
	}
	return Halt{}, nil
}

var _ Broker = (*SyncHandoff)(nil)
