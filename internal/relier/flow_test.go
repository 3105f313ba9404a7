package relier

import (
	"context"
	"errors"
	"net/url"

	"go.uber.org/mock/gomock"

	"authflow/internal/relier/schema"
	"authflow/internal/sentinel"
	dErrors "authflow/pkg/domain-errors"
)

func (s *ResolverSuite) TestSignInFlow() {
	ctx := context.Background()

	s.Run("resolves and merges registry values", func() {
		s.mockRegistry.EXPECT().GetClientInfo(gomock.Any(), testClientID).Return(s.clientInfo(true), nil)

		flow := s.resolver.Begin(Request{Query: signInQuery(map[string]string{"prompt": "consent"})})
		cfg, err := flow.Fetch(ctx)
		s.Require().NoError(err)

		s.Equal(StateResolved, flow.State())
		s.Equal(KindSignIn, flow.Kind())
		s.Equal([]State{
			StateDetectingFlowKind,
			StateResolvingFromQueryParams,
			StateFetchingClientMetadata,
			StateCrossValidating,
			StateNormalizing,
			StateResolved,
		}, flow.History())

		s.Equal(testClientID, cfg.ClientID)
		s.Equal(testClientID, cfg.Service, "service defaults to client id")
		s.Equal("Relier", cfg.ServiceName)
		s.True(cfg.IsTrusted())
		s.True(cfg.WantsConsent())
		s.Equal("state-1", cfg.State)
		s.Equal([]string{"profile:email", "profile:display_name", "profile:avatar", "profile:uid", "openid"}, cfg.Permissions())
		s.Equal("profile:email profile:display_name profile:avatar profile:uid openid", cfg.Scope)
	})

	s.Run("service parameter is always rejected", func() {
		queries := []url.Values{
			signInQuery(map[string]string{"service": testClientID}),
			signInQuery(map[string]string{"service": "sync", "client_id": "", "scope": ""}),
			{"service": {""}},
		}
		for _, q := range queries {
			flow := s.resolver.Begin(Request{Query: q})
			_, err := flow.Fetch(ctx)
			s.True(dErrors.IsInvalidParameter(err, "service"), q.Encode())
			s.Equal(StateFailed, flow.State())
			s.Equal(err, flow.Err())
		}
	})

	s.Run("invalid query parameter fails before registry", func() {
		_, err := s.resolver.Resolve(ctx, Request{Query: signInQuery(map[string]string{"access_type": "forever"})})
		s.True(dErrors.IsInvalidParameter(err, "access_type"))
	})

	s.Run("missing client id", func() {
		_, err := s.resolver.Resolve(ctx, Request{Query: signInQuery(map[string]string{"client_id": ""})})
		s.True(dErrors.HasCode(err, dErrors.CodeMissingParameter))
		s.Equal("client_id", dErrors.FieldOf(err))
	})

	s.Run("redirect mismatch is incorrect redirect", func() {
		s.mockRegistry.EXPECT().GetClientInfo(gomock.Any(), testClientID).Return(s.clientInfo(true), nil)

		flow := s.resolver.Begin(Request{Query: signInQuery(map[string]string{"redirect_uri": "https://evil.example.com/oauth"})})
		_, err := flow.Fetch(ctx)
		s.True(dErrors.HasCode(err, dErrors.CodeIncorrectRedirect))
		s.Equal(StateCrossValidating, flow.History()[len(flow.History())-2])
	})

	s.Run("absent redirect uri takes the registry value", func() {
		s.mockRegistry.EXPECT().GetClientInfo(gomock.Any(), testClientID).Return(s.clientInfo(true), nil)

		cfg, err := s.resolver.Resolve(ctx, Request{Query: signInQuery(map[string]string{"redirect_uri": ""})})
		s.Require().NoError(err)
		s.Equal(testRedirectURI, cfg.RedirectURI)
	})

	s.Run("untrusted relier scopes are filtered", func() {
		s.mockRegistry.EXPECT().GetClientInfo(gomock.Any(), testClientID).Return(s.clientInfo(false), nil)

		cfg, err := s.resolver.Resolve(ctx, Request{Query: signInQuery(map[string]string{"scope": "profile:email secret", "prompt": "consent"})})
		s.Require().NoError(err)
		s.Equal([]string{"profile:email"}, cfg.Permissions())
	})

	s.Run("untrusted relier with no allowed scope fails", func() {
		s.mockRegistry.EXPECT().GetClientInfo(gomock.Any(), testClientID).Return(s.clientInfo(false), nil)

		flow := s.resolver.Begin(Request{Query: signInQuery(map[string]string{"scope": "secret"})})
		_, err := flow.Fetch(ctx)
		s.True(dErrors.IsInvalidParameter(err, "scope"))
		s.Contains(flow.History(), StateNormalizing)
	})
}

func (s *ResolverSuite) TestClientMetadata() {
	ctx := context.Background()

	s.Run("unknown client id is remapped", func() {
		s.mockRegistry.EXPECT().GetClientInfo(gomock.Any(), testClientID).Return(nil, dErrors.InvalidParameter("client_id"))

		_, err := s.resolver.Resolve(ctx, Request{Query: signInQuery(nil)})
		s.True(dErrors.HasCode(err, dErrors.CodeUnknownClient))

		var de *dErrors.Error
		s.Require().True(errors.As(err, &de))
		s.Equal(testClientID, de.ClientID)
	})

	s.Run("other invalid parameters propagate unchanged", func() {
		cause := dErrors.InvalidParameter("redirect_uri")
		s.mockRegistry.EXPECT().GetClientInfo(gomock.Any(), testClientID).Return(nil, cause)

		_, err := s.resolver.Resolve(ctx, Request{Query: signInQuery(nil)})
		s.Same(cause, err)
	})

	s.Run("transport errors propagate unchanged", func() {
		cause := dErrors.New(dErrors.CodeUnavailable, "registry unavailable")
		s.mockRegistry.EXPECT().GetClientInfo(gomock.Any(), testClientID).Return(nil, cause)

		_, err := s.resolver.Resolve(ctx, Request{Query: signInQuery(nil)})
		s.Same(cause, err)
	})

	s.Run("malformed registry record fails validation", func() {
		info := s.clientInfo(true)
		info["trusted"] = "maybe"
		s.mockRegistry.EXPECT().GetClientInfo(gomock.Any(), testClientID).Return(info, nil)

		_, err := s.resolver.Resolve(ctx, Request{Query: signInQuery(nil)})
		s.True(dErrors.IsInvalidParameter(err, "trusted"))
	})
}

func (s *ResolverSuite) TestVerificationFlow() {
	ctx := context.Background()

	s.Run("resumes the saved context without redirect check", func() {
		s.mockStore.EXPECT().Take(gomock.Any(), testSessionID).Return(schema.Params{
			"client_id":    testClientID,
			"redirect_uri": "https://elsewhere.example.com/oauth",
			"scope":        "profile",
			"state":        "saved-state",
		}, nil)
		s.mockRegistry.EXPECT().GetClientInfo(gomock.Any(), testClientID).Return(s.clientInfo(true), nil)

		flow := s.resolver.Begin(Request{
			Query:     url.Values{"code": {"12345"}, "uid": {"abc"}},
			SessionID: testSessionID,
		})
		cfg, err := flow.Fetch(ctx)
		s.Require().NoError(err)
		s.Equal(KindVerification, flow.Kind())
		s.NotContains(flow.History(), StateCrossValidating)
		s.Equal("saved-state", cfg.State)
		s.Equal(testRedirectURI, cfg.RedirectURI)
		s.Equal([]string{"profile"}, cfg.Permissions())
	})

	s.Run("falls back to the service parameter", func() {
		s.mockStore.EXPECT().Take(gomock.Any(), testSessionID).Return(nil, sentinel.ErrNotFound)
		s.mockRegistry.EXPECT().GetClientInfo(gomock.Any(), testClientID).Return(s.clientInfo(false), nil)

		flow := s.resolver.Begin(Request{
			Query:     url.Values{"code": {"12345"}, "service": {testClientID}},
			SessionID: testSessionID,
		})
		cfg, err := flow.Fetch(ctx)
		s.Require().NoError(err)
		s.Equal(testClientID, cfg.ClientID)
		s.Equal(testClientID, cfg.Service)
		s.Empty(cfg.Scope)
		s.NotContains(flow.History(), StateNormalizing)
	})

	s.Run("without a session the store is not consulted", func() {
		s.mockRegistry.EXPECT().GetClientInfo(gomock.Any(), testClientID).Return(s.clientInfo(true), nil)

		_, err := s.resolver.Resolve(ctx, Request{Query: url.Values{"code": {"12345"}, "service": {testClientID}}})
		s.NoError(err)
	})

	s.Run("fallback requires service", func() {
		s.mockStore.EXPECT().Take(gomock.Any(), testSessionID).Return(nil, sentinel.ErrNotFound)

		_, err := s.resolver.Resolve(ctx, Request{Query: url.Values{"code": {"12345"}}, SessionID: testSessionID})
		s.True(dErrors.HasCode(err, dErrors.CodeMissingParameter))
		s.Equal("service", dErrors.FieldOf(err))
	})

	s.Run("store failure is internal", func() {
		s.mockStore.EXPECT().Take(gomock.Any(), testSessionID).Return(nil, sentinel.ErrUnavailable)

		_, err := s.resolver.Resolve(ctx, Request{Query: url.Values{"code": {"12345"}}, SessionID: testSessionID})
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
		s.ErrorIs(err, sentinel.ErrUnavailable)
	})
}

func (s *ResolverSuite) TestFetchIsIdempotent() {
	ctx := context.Background()
	s.mockRegistry.EXPECT().GetClientInfo(gomock.Any(), testClientID).Return(s.clientInfo(true), nil).Times(1)

	flow := s.resolver.Begin(Request{Query: signInQuery(nil)})
	first, err := flow.Fetch(ctx)
	s.Require().NoError(err)
	second, err := flow.Fetch(ctx)
	s.Require().NoError(err)
	s.Equal(first, second)

	failed := s.resolver.Begin(Request{Query: url.Values{"service": {"x"}}})
	_, err1 := failed.Fetch(ctx)
	_, err2 := failed.Fetch(ctx)
	s.Same(err1, err2)
}

func (s *ResolverSuite) TestPersistVerificationContext() {
	ctx := context.Background()

	s.Run("saves the oauth context", func() {
		s.mockRegistry.EXPECT().GetClientInfo(gomock.Any(), testClientID).Return(s.clientInfo(true), nil)
		cfg, err := s.resolver.Resolve(ctx, Request{Query: signInQuery(map[string]string{"access_type": "offline"})})
		s.Require().NoError(err)

		s.mockStore.EXPECT().Save(gomock.Any(), testSessionID, schema.Params{
			"client_id":    testClientID,
			"action":       "signup",
			"access_type":  "offline",
			"redirect_uri": testRedirectURI,
			"scope":        "profile openid",
			"state":        "state-1",
		}).Return(nil)

		s.NoError(s.resolver.PersistVerificationContext(ctx, testSessionID, cfg, "signup"))
	})

	s.Run("requires a session id", func() {
		err := s.resolver.PersistVerificationContext(ctx, "", Config{ClientID: testClientID}, "")
		s.True(dErrors.HasCode(err, dErrors.CodeMissingParameter))
	})

	s.Run("store failure is wrapped", func() {
		s.mockStore.EXPECT().Save(gomock.Any(), testSessionID, gomock.Any()).Return(sentinel.ErrUnavailable)
		err := s.resolver.PersistVerificationContext(ctx, testSessionID, Config{ClientID: testClientID}, "")
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}
