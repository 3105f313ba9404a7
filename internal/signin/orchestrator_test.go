package signin

import (
	"context"
	"errors"

	"go.uber.org/mock/gomock"

	"authflow/internal/account"
	"authflow/internal/account/store"
	"authflow/internal/broker"
	"authflow/internal/relier"
	"authflow/internal/telemetry"
	dErrors "authflow/pkg/domain-errors"
)

func (s *OrchestratorSuite) TestPreconditions() {
	o := s.orchestrator(s.mockBroker)
	sess := s.session(trustedConfig(), "")

	s.Run("default account fails before any call", func() {
		_, err := o.SignIn(s.ctx, sess, &account.Account{}, testPassword, Options{})
		s.True(dErrors.HasCode(err, dErrors.CodeUnexpected))
	})

	s.Run("nil account fails", func() {
		_, err := o.SignIn(s.ctx, sess, nil, testPassword, Options{})
		s.True(dErrors.HasCode(err, dErrors.CodeUnexpected))
	})

	s.Run("no session token and no password fails before any call", func() {
		attempt := o.Begin(sess, knownAccount())
		_, err := attempt.SignIn(s.ctx, "", Options{})
		s.True(dErrors.HasCode(err, dErrors.CodeUnexpected))
		s.Equal([]AttemptState{StateCheckingPreconditions, StateFailed}, attempt.History())
	})

	s.Run("missing relier session fails", func() {
		_, err := o.SignIn(s.ctx, nil, knownAccount(), testPassword, Options{})
		s.True(dErrors.HasCode(err, dErrors.CodeUnexpected))
	})
}

func (s *OrchestratorSuite) TestBeforeSignInErrorStopsAttempt() {
	s.mockBroker.EXPECT().Invoke(gomock.Any(), broker.MethodBeforeSignIn, gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeRequestBlocked, "captcha required"))
	o := s.orchestrator(s.mockBroker)

	_, err := o.SignIn(s.ctx, s.session(trustedConfig(), ""), knownAccount(), testPassword, Options{})

	s.True(dErrors.HasCode(err, dErrors.CodeRequestBlocked))
}

func (s *OrchestratorSuite) TestVerifiedSignInWithoutUIDChange() {
	s.expectCapabilities()
	s.expectBeforeSignIn()
	s.mockAuth.EXPECT().SignInAccount(gomock.Any(), gomock.Any(), testPassword, gomock.Any(), account.SignInOptions{}).
		Return(verified(knownAccount()), nil)
	s.mockBroker.EXPECT().Invoke(gomock.Any(), broker.MethodAfterSignIn, gomock.Any()).
		Return(broker.Navigate{Screen: broker.ScreenSettings}, nil)
	o := s.orchestrator(s.mockBroker)
	sess := s.session(trustedConfig(), "previous-uid")

	out, err := o.SignIn(s.ctx, sess, knownAccount(), testPassword, Options{})

	s.Require().NoError(err)
	s.Equal(KindSuccess, out.Kind)
	s.Equal(broker.ScreenSettings, out.Screen)
	s.Equal(broker.Navigate{Screen: broker.ScreenSettings}, out.Behavior)
	s.Equal("previous-uid", sess.UID(), "relier identity must not change without allowUidChange")
}

func (s *OrchestratorSuite) TestUIDChangeWithCapability() {
	s.expectCapabilities(broker.CapAllowUIDChange)
	s.expectBeforeSignIn()
	s.mockAuth.EXPECT().SignInAccount(gomock.Any(), gomock.Any(), testPassword, gomock.Any(), gomock.Any()).
		Return(verified(knownAccount()), nil)
	s.mockBroker.EXPECT().Invoke(gomock.Any(), broker.MethodAfterSignIn, gomock.Any()).Return(broker.Halt{}, nil)
	o := s.orchestrator(s.mockBroker)
	sess := s.session(trustedConfig(), "previous-uid")

	out, err := o.SignIn(s.ctx, sess, knownAccount(), testPassword, Options{})

	s.Require().NoError(err)
	s.Equal(broker.Halt{}, out.Behavior)
	s.Equal(testUID, sess.UID())
}

func (s *OrchestratorSuite) TestSessionTokenHandling() {
	withToken := func() *account.Account {
		a := knownAccount()
		a.SessionToken = "old-session-token"
		return a
	}

	s.Run("discarded when broker cannot reuse sessions", func() {
		s.SetupTest()
		s.expectCapabilities()
		s.expectBeforeSignIn()
		s.mockAuth.EXPECT().SignInAccount(gomock.Any(), gomock.Any(), testPassword, gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, acct *account.Account, _ string, _ relier.Config, _ account.SignInOptions) (*account.Account, error) {
				s.Empty(acct.SessionToken)
				return verified(knownAccount()), nil
			})
		s.mockBroker.EXPECT().Invoke(gomock.Any(), broker.MethodAfterSignIn, gomock.Any()).Return(broker.Null{}, nil)

		original := withToken()
		_, err := s.orchestrator(s.mockBroker).SignIn(s.ctx, s.session(trustedConfig(), ""), original, testPassword, Options{})
		s.Require().NoError(err)
		s.Equal("old-session-token", original.SessionToken, "caller account is not mutated")
	})

	s.Run("kept when broker reuses sessions", func() {
		s.SetupTest()
		s.expectCapabilities(broker.CapReuseExistingSession)
		s.expectBeforeSignIn()
		s.mockAuth.EXPECT().SignInAccount(gomock.Any(), gomock.Any(), "", gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, acct *account.Account, _ string, _ relier.Config, _ account.SignInOptions) (*account.Account, error) {
				s.Equal("old-session-token", acct.SessionToken)
				return verified(knownAccount()), nil
			})
		s.mockBroker.EXPECT().Invoke(gomock.Any(), broker.MethodAfterSignIn, gomock.Any()).Return(broker.Null{}, nil)

		_, err := s.orchestrator(s.mockBroker).SignIn(s.ctx, s.session(trustedConfig(), ""), withToken(), "", Options{})
		s.Require().NoError(err)
	})
}

func (s *OrchestratorSuite) TestExperimentOverride() {
	cases := []struct {
		group string
		want  account.VerificationMethod
	}{
		{GroupTreatmentCode, account.MethodEmailCode},
		{GroupTreatmentLink, account.MethodEmail},
		{GroupControl, ""},
		{"", ""},
	}
	for _, tc := range cases {
		s.Run("group "+tc.group, func() {
			s.SetupTest()
			s.expectCapabilities()
			s.expectBeforeSignIn()
			s.mockGrouper.EXPECT().Group(gomock.Any(), gomock.Any()).Return(tc.group)
			s.mockAuth.EXPECT().SignInAccount(gomock.Any(), gomock.Any(), testPassword, gomock.Any(),
				account.SignInOptions{Resume: "resume-token", VerificationMethod: tc.want}).
				Return(unverified(knownAccount(), account.ReasonSignIn, account.MethodEmail), nil)

			o := s.orchestrator(s.mockBroker, WithExperimentGrouper(s.mockGrouper))
			_, err := o.SignIn(s.ctx, s.session(trustedConfig(), ""), knownAccount(), testPassword, Options{Resume: "resume-token"})
			s.Require().NoError(err)
		})
	}
}

func (s *OrchestratorSuite) TestUnverifiedOutcomes() {
	cases := []struct {
		name   string
		reason account.VerificationReason
		method account.VerificationMethod
		kind   Kind
		screen string
	}{
		{"signin email link", account.ReasonSignIn, account.MethodEmail, KindNeedsEmailConfirmation, ScreenConfirmSignIn},
		{"signin email code", account.ReasonSignIn, account.MethodEmailCode, KindNeedsEmailCode, ScreenTokenCode},
		{"signin totp", account.ReasonSignIn, account.MethodTOTP, KindNeedsTotpCode, ScreenTotpCode},
		{"signup email", account.ReasonSignUp, account.MethodEmail, KindNeedsEmailConfirmation, ScreenConfirm},
		{"signin captcha", account.ReasonSignIn, account.MethodEmailCaptcha, KindNeedsEmailConfirmation, ScreenConfirm},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			s.SetupTest()
			s.expectCapabilities()
			s.expectBeforeSignIn()
			s.mockAuth.EXPECT().SignInAccount(gomock.Any(), gomock.Any(), testPassword, gomock.Any(), gomock.Any()).
				Return(unverified(knownAccount(), tc.reason, tc.method), nil)

			out, err := s.orchestrator(s.mockBroker).SignIn(s.ctx, s.session(trustedConfig(), ""), knownAccount(), testPassword, Options{})
			s.Require().NoError(err)
			s.Equal(tc.kind, out.Kind)
			s.Equal(tc.screen, out.Screen)
			s.Empty(s.events, "no success telemetry for unverified sessions")
		})
	}
}

func (s *OrchestratorSuite) TestSuccessTelemetry() {
	s.expectCapabilities()
	s.expectBeforeSignIn()
	s.mockAuth.EXPECT().SignInAccount(gomock.Any(), gomock.Any(), testPassword, gomock.Any(), gomock.Any()).
		Return(verified(knownAccount()), nil)
	s.mockBroker.EXPECT().Invoke(gomock.Any(), broker.MethodAfterSignIn, gomock.Any()).Return(broker.Null{}, nil)

	_, err := s.orchestrator(s.mockBroker).SignIn(s.ctx, s.session(trustedConfig(), ""), knownAccount(), testPassword, Options{ViewName: "force_auth"})

	s.Require().NoError(err)
	s.Equal([]string{
		telemetry.EventSignInSuccess,
		telemetry.EventSignInSkipConfirm,
		"force_auth.signin.success",
	}, s.eventNames())
	s.Equal(testClientID, s.events[0].ClientID)
	s.Equal(testUID, s.events[0].UID)
	s.Equal("attempt-1", s.events[0].AttemptID)
}

func (s *OrchestratorSuite) TestRedirectOverride() {
	cfg := trustedConfig()
	cfg.RedirectTo = "https://relier.example.com/after"
	sess := s.session(cfg, "")

	s.expectCapabilities()
	s.expectBeforeSignIn()
	s.mockAuth.EXPECT().SignInAccount(gomock.Any(), gomock.Any(), testPassword, gomock.Any(), gomock.Any()).
		Return(verified(knownAccount()), nil)
	gomock.InOrder(
		s.mockBroker.EXPECT().SetBehavior(broker.MethodAfterForceAuth, broker.NavigateOrRedirect{Endpoint: cfg.RedirectTo}),
		s.mockBroker.EXPECT().Invoke(gomock.Any(), broker.MethodAfterForceAuth, gomock.Any()).
			Return(broker.NavigateOrRedirect{Endpoint: cfg.RedirectTo}, nil),
	)

	out, err := s.orchestrator(s.mockBroker).SignIn(s.ctx, sess, knownAccount(), testPassword,
		Options{OnSuccessMethod: broker.MethodAfterForceAuth})

	s.Require().NoError(err)
	s.Equal(broker.NavigateOrRedirect{Endpoint: cfg.RedirectTo}, out.Behavior)
	s.Empty(sess.RedirectTo(), "pending redirect is cleared")
}

func (s *OrchestratorSuite) TestRedirectOverrideWithDefaultBroker() {
	cfg := trustedConfig()
	cfg.RedirectTo = "https://relier.example.com/after"
	s.mockAuth.EXPECT().SignInAccount(gomock.Any(), gomock.Any(), testPassword, gomock.Any(), gomock.Any()).
		Return(verified(knownAccount()), nil).Times(2)
	b := broker.NewDefault()
	o := s.orchestrator(b)

	first, err := o.SignIn(s.ctx, s.session(cfg, ""), knownAccount(), testPassword, Options{})
	s.Require().NoError(err)
	s.Equal(broker.NavigateOrRedirect{Endpoint: cfg.RedirectTo}, first.Behavior)

	second, err := o.SignIn(s.ctx, s.session(trustedConfig(), ""), knownAccount(), testPassword, Options{})
	s.Require().NoError(err)
	s.Equal(broker.Navigate{Screen: broker.ScreenSettings}, second.Behavior, "override is one-shot")
}

func (s *OrchestratorSuite) TestPrefillClearedOnSuccess() {
	s.expectCapabilities()
	s.expectBeforeSignIn()
	s.mockAuth.EXPECT().SignInAccount(gomock.Any(), gomock.Any(), testPassword, gomock.Any(), gomock.Any()).
		Return(unverified(knownAccount(), account.ReasonSignIn, account.MethodEmail), nil)
	s.mockPrefill.EXPECT().Clear(gomock.Any(), gomock.Any())

	_, err := s.orchestrator(s.mockBroker, WithPrefill(s.mockPrefill)).
		SignIn(s.ctx, s.session(trustedConfig(), ""), knownAccount(), testPassword, Options{})
	s.Require().NoError(err)
}

func (s *OrchestratorSuite) TestPermissionConsent() {
	cfg := untrustedConfig("profile:email", "profile:uid")

	s.Run("unseen permissions route to consent and completion records them", func() {
		s.SetupTest()
		s.expectCapabilities()
		s.expectBeforeSignIn()
		s.mockAuth.EXPECT().SignInAccount(gomock.Any(), gomock.Any(), testPassword, gomock.Any(), gomock.Any()).
			Return(verified(knownAccount()), nil)
		s.mockPerms.EXPECT().Seen(gomock.Any(), testUID, testClientID).Return([]string{"profile:email"}, nil)

		o := s.orchestrator(s.mockBroker, WithPermissionStore(s.mockPerms))
		attempt := o.Begin(s.session(cfg, ""), knownAccount())

		out, err := attempt.SignIn(s.ctx, testPassword, Options{})
		s.Require().NoError(err)
		s.Equal(KindNeedsPermissionConsent, out.Kind)
		s.Equal(ScreenPermissions, out.Screen)
		s.Equal([]string{"profile:uid"}, out.Permissions)
		s.Equal(StateAwaitingPermissions, attempt.State())

		s.mockPerms.EXPECT().MarkSeen(gomock.Any(), testUID, testClientID, []string{"profile:email", "profile:uid"}).Return(nil)
		s.mockBroker.EXPECT().Invoke(gomock.Any(), broker.MethodAfterSignIn, gomock.Any()).Return(broker.Null{}, nil)

		final, err := attempt.CompletePermissions(s.ctx, Options{})
		s.Require().NoError(err)
		s.Equal(KindSuccess, final.Kind)
		s.Equal(StateCompleted, attempt.State())
		s.Equal([]AttemptState{
			StateCheckingPreconditions,
			StateBeforeSignIn,
			StateAuthenticating,
			StateCheckingPermissions,
			StateAwaitingPermissions,
			StateRecordingPermissions,
			StateComputingOutcome,
			StateCompleted,
		}, attempt.History())
	})

	s.Run("all permissions seen skips consent", func() {
		s.SetupTest()
		s.expectCapabilities()
		s.expectBeforeSignIn()
		s.mockAuth.EXPECT().SignInAccount(gomock.Any(), gomock.Any(), testPassword, gomock.Any(), gomock.Any()).
			Return(verified(knownAccount()), nil)
		s.mockPerms.EXPECT().Seen(gomock.Any(), testUID, testClientID).Return([]string{"profile:email", "profile:uid"}, nil)
		s.mockBroker.EXPECT().Invoke(gomock.Any(), broker.MethodAfterSignIn, gomock.Any()).Return(broker.Null{}, nil)

		out, err := s.orchestrator(s.mockBroker, WithPermissionStore(s.mockPerms)).
			SignIn(s.ctx, s.session(cfg, ""), knownAccount(), testPassword, Options{})
		s.Require().NoError(err)
		s.Equal(KindSuccess, out.Kind)
	})

	s.Run("seen lookup failure is internal", func() {
		s.SetupTest()
		s.expectCapabilities()
		s.expectBeforeSignIn()
		s.mockAuth.EXPECT().SignInAccount(gomock.Any(), gomock.Any(), testPassword, gomock.Any(), gomock.Any()).
			Return(verified(knownAccount()), nil)
		s.mockPerms.EXPECT().Seen(gomock.Any(), testUID, testClientID).Return(nil, errors.New("redis down"))

		_, err := s.orchestrator(s.mockBroker, WithPermissionStore(s.mockPerms)).
			SignIn(s.ctx, s.session(cfg, ""), knownAccount(), testPassword, Options{})
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})

	s.Run("completion in a new attempt requires a session token", func() {
		s.SetupTest()
		_, err := s.orchestrator(s.mockBroker, WithPermissionStore(s.mockPerms)).
			CompletePermissions(s.ctx, s.session(cfg, ""), knownAccount(), Options{})
		s.True(dErrors.HasCode(err, dErrors.CodeUnexpected))
	})

	s.Run("completion in a new attempt confirms the session first", func() {
		s.SetupTest()
		s.expectCapabilities()
		posted := &account.Account{UID: testUID, SessionToken: "posted-token"}
		s.mockAuth.EXPECT().SignInAccount(gomock.Any(), gomock.Any(), "", gomock.Any(), account.SignInOptions{}).
			DoAndReturn(func(_ context.Context, acct *account.Account, _ string, _ relier.Config, _ account.SignInOptions) (*account.Account, error) {
				s.Equal("posted-token", acct.SessionToken)
				return verified(knownAccount()), nil
			})
		s.mockPerms.EXPECT().MarkSeen(gomock.Any(), testUID, testClientID, []string{"profile:email", "profile:uid"}).Return(nil)
		s.mockBroker.EXPECT().Invoke(gomock.Any(), broker.MethodAfterSignIn, gomock.Any()).Return(broker.Null{}, nil)

		attempt := s.orchestrator(s.mockBroker, WithPermissionStore(s.mockPerms)).Begin(s.session(cfg, ""), posted)
		out, err := attempt.CompletePermissions(s.ctx, Options{})
		s.Require().NoError(err)
		s.Equal(KindSuccess, out.Kind)
		s.Equal([]AttemptState{
			StateCheckingPreconditions,
			StateAuthenticating,
			StateRecordingPermissions,
			StateComputingOutcome,
			StateCompleted,
		}, attempt.History())
	})

	s.Run("rejected session token records nothing", func() {
		s.SetupTest()
		rejected := dErrors.New(dErrors.CodeUnexpected, "invalid session token")
		s.mockAuth.EXPECT().SignInAccount(gomock.Any(), gomock.Any(), "", gomock.Any(), gomock.Any()).Return(nil, rejected)

		perms := store.NewMemory()
		forged := &account.Account{UID: "victim-uid", Email: testEmail, SessionToken: "made-up", Verified: true}
		out, err := s.orchestrator(s.mockBroker, WithPermissionStore(perms)).
			CompletePermissions(s.ctx, s.session(cfg, ""), forged, Options{})

		s.Nil(out)
		s.Same(rejected, err)
		seen, err := perms.Seen(s.ctx, "victim-uid", testClientID)
		s.Require().NoError(err)
		s.Empty(seen)
	})

	s.Run("consent is recorded for the uid the service confirms", func() {
		s.SetupTest()
		s.expectCapabilities()
		s.mockAuth.EXPECT().SignInAccount(gomock.Any(), gomock.Any(), "", gomock.Any(), gomock.Any()).
			Return(verified(knownAccount()), nil)
		s.mockPerms.EXPECT().MarkSeen(gomock.Any(), testUID, testClientID, gomock.Any()).Return(nil)
		s.mockBroker.EXPECT().Invoke(gomock.Any(), broker.MethodAfterSignIn, gomock.Any()).Return(broker.Null{}, nil)

		claimed := &account.Account{UID: "victim-uid", Email: testEmail, SessionToken: "own-token", Verified: true}
		out, err := s.orchestrator(s.mockBroker, WithPermissionStore(s.mockPerms)).
			CompletePermissions(s.ctx, s.session(cfg, ""), claimed, Options{})
		s.Require().NoError(err)
		s.Equal(testUID, out.Account.UID)
	})

	s.Run("unverified session is not treated as signed in", func() {
		s.SetupTest()
		s.mockAuth.EXPECT().SignInAccount(gomock.Any(), gomock.Any(), "", gomock.Any(), gomock.Any()).
			Return(unverified(knownAccount(), account.ReasonSignIn, account.MethodEmail), nil)
		s.mockPerms.EXPECT().MarkSeen(gomock.Any(), testUID, testClientID, gomock.Any()).Return(nil)

		claimed := &account.Account{UID: testUID, Email: testEmail, SessionToken: "own-token", Verified: true}
		out, err := s.orchestrator(s.mockBroker, WithPermissionStore(s.mockPerms)).
			CompletePermissions(s.ctx, s.session(cfg, ""), claimed, Options{})
		s.Require().NoError(err)
		s.Equal(KindNeedsEmailConfirmation, out.Kind)
	})
}

func (s *OrchestratorSuite) TestBlockedSignIn() {
	blocked := account.NewBlockedError(dErrors.CodeRequestBlocked, account.ReasonSignIn, account.MethodEmailCaptcha)

	s.Run("unblock email sent routes to unblock screen", func() {
		s.SetupTest()
		s.expectCapabilities()
		s.expectBeforeSignIn()
		s.mockAuth.EXPECT().SignInAccount(gomock.Any(), gomock.Any(), testPassword, gomock.Any(), gomock.Any()).Return(nil, blocked)
		s.mockAuth.EXPECT().SendUnblockEmail(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		out, err := s.orchestrator(s.mockBroker).SignIn(s.ctx, s.session(trustedConfig(), ""), knownAccount(), testPassword, Options{})
		s.Require().NoError(err)
		s.Equal(KindBlocked, out.Kind)
		s.Equal(ScreenUnblock, out.Screen)
		s.Equal(dErrors.CodeRequestBlocked, out.Reason)
	})

	s.Run("throttled with remediation also routes to unblock", func() {
		s.SetupTest()
		s.expectCapabilities()
		s.expectBeforeSignIn()
		throttled := account.NewBlockedError(dErrors.CodeThrottled, account.ReasonSignIn, account.MethodEmailCaptcha)
		s.mockAuth.EXPECT().SignInAccount(gomock.Any(), gomock.Any(), testPassword, gomock.Any(), gomock.Any()).Return(nil, throttled)
		s.mockAuth.EXPECT().SendUnblockEmail(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		out, err := s.orchestrator(s.mockBroker).SignIn(s.ctx, s.session(trustedConfig(), ""), knownAccount(), testPassword, Options{})
		s.Require().NoError(err)
		s.Equal(KindBlocked, out.Kind)
		s.Equal(dErrors.CodeThrottled, out.Reason)
	})

	s.Run("unblock email failure is surfaced", func() {
		s.SetupTest()
		s.expectCapabilities()
		s.expectBeforeSignIn()
		sendErr := dErrors.New(dErrors.CodeThrottled, "too many unblock emails")
		s.mockAuth.EXPECT().SignInAccount(gomock.Any(), gomock.Any(), testPassword, gomock.Any(), gomock.Any()).Return(nil, blocked)
		s.mockAuth.EXPECT().SendUnblockEmail(gomock.Any(), gomock.Any(), gomock.Any()).Return(sendErr)

		attempt := s.orchestrator(s.mockBroker).Begin(s.session(trustedConfig(), ""), knownAccount())
		out, err := attempt.SignIn(s.ctx, testPassword, Options{})
		s.Nil(out)
		s.Same(sendErr, err)
		s.Contains(attempt.History(), StateSendingUnblockEmail)
		s.Equal(StateFailed, attempt.State())
	})

	s.Run("block without remediation propagates", func() {
		s.SetupTest()
		s.expectCapabilities()
		s.expectBeforeSignIn()
		plain := dErrors.New(dErrors.CodeRequestBlocked, "blocked")
		s.mockAuth.EXPECT().SignInAccount(gomock.Any(), gomock.Any(), testPassword, gomock.Any(), gomock.Any()).Return(nil, plain)

		_, err := s.orchestrator(s.mockBroker).SignIn(s.ctx, s.session(trustedConfig(), ""), knownAccount(), testPassword, Options{})
		s.Same(plain, err)
	})
}

func (s *OrchestratorSuite) TestBouncedSignIn() {
	for _, code := range []dErrors.Code{dErrors.CodeEmailHardBounce, dErrors.CodeEmailSentComplaint} {
		s.Run(string(code), func() {
			s.SetupTest()
			s.expectCapabilities()
			s.expectBeforeSignIn()
			s.mockAuth.EXPECT().SignInAccount(gomock.Any(), gomock.Any(), testPassword, gomock.Any(), gomock.Any()).
				Return(nil, dErrors.New(code, "bounced"))

			out, err := s.orchestrator(s.mockBroker).SignIn(s.ctx, s.session(trustedConfig(), ""), knownAccount(), testPassword, Options{})
			s.Require().NoError(err)
			s.Equal(KindBounced, out.Kind)
			s.Equal(ScreenBounced, out.Screen)
			s.Equal(testEmail, out.Email)
		})
	}
}

func (s *OrchestratorSuite) TestOtherErrorsPropagateUnchanged() {
	s.expectCapabilities()
	s.expectBeforeSignIn()
	authErr := dErrors.New(dErrors.CodeUnexpected, "incorrect password")
	s.mockAuth.EXPECT().SignInAccount(gomock.Any(), gomock.Any(), testPassword, gomock.Any(), gomock.Any()).Return(nil, authErr)

	_, err := s.orchestrator(s.mockBroker).SignIn(s.ctx, s.session(trustedConfig(), ""), knownAccount(), testPassword, Options{})

	s.Same(authErr, err)
}

func (s *OrchestratorSuite) TestAfterSignInErrorPropagates() {
	s.expectCapabilities()
	s.expectBeforeSignIn()
	s.mockAuth.EXPECT().SignInAccount(gomock.Any(), gomock.Any(), testPassword, gomock.Any(), gomock.Any()).
		Return(verified(knownAccount()), nil)
	hostErr := errors.New("host channel closed")
	s.mockBroker.EXPECT().Invoke(gomock.Any(), broker.MethodAfterSignIn, gomock.Any()).Return(nil, hostErr)

	_, err := s.orchestrator(s.mockBroker).SignIn(s.ctx, s.session(trustedConfig(), ""), knownAccount(), testPassword, Options{})

	s.ErrorIs(err, hostErr)
}

func (s *OrchestratorSuite) TestAttemptSettlesOnce() {
	s.expectCapabilities()
	s.expectBeforeSignIn()
	s.mockAuth.EXPECT().SignInAccount(gomock.Any(), gomock.Any(), testPassword, gomock.Any(), gomock.Any()).
		Return(unverified(knownAccount(), account.ReasonSignIn, account.MethodTOTP), nil).Times(1)

	attempt := s.orchestrator(s.mockBroker).Begin(s.session(trustedConfig(), ""), knownAccount())
	first, err := attempt.SignIn(s.ctx, testPassword, Options{})
	s.Require().NoError(err)
	second, err := attempt.SignIn(s.ctx, testPassword, Options{})
	s.Require().NoError(err)

	s.Same(first, second)
	s.Equal([]AttemptState{
		StateCheckingPreconditions,
		StateBeforeSignIn,
		StateAuthenticating,
		StateCheckingPermissions,
		StateComputingOutcome,
		StateCompleted,
	}, attempt.History())
}

func (s *OrchestratorSuite) TestServiceUsesFreshBrokerPerAttempt() {
	var built []*broker.Default
	svc := NewService(s.mockAuth, func() broker.Broker {
		b := broker.NewDefault()
		built = append(built, b)
		return b
	})
	s.mockAuth.EXPECT().SignInAccount(gomock.Any(), gomock.Any(), testPassword, gomock.Any(), gomock.Any()).
		Return(verified(knownAccount()), nil).Times(2)

	first, err := svc.SignIn(s.ctx, s.session(trustedConfig(), ""), knownAccount(), testPassword, Options{})
	s.Require().NoError(err)
	built[0].SetBehavior(broker.MethodAfterSignIn, broker.Halt{})

	second, err := svc.SignIn(s.ctx, s.session(trustedConfig(), ""), knownAccount(), testPassword, Options{})
	s.Require().NoError(err)

	s.Len(built, 2)
	s.Equal(broker.Navigate{Screen: broker.ScreenSettings}, first.Behavior)
	s.Equal(broker.Navigate{Screen: broker.ScreenSettings}, second.Behavior)
}
