package registry

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	"authflow/internal/relier/metrics"
	"authflow/internal/relier/schema"
	dErrors "authflow/pkg/domain-errors"
	"authflow/pkg/platform/circuit"
)

// stubRegistry answers from a function and counts calls.
type stubRegistry struct {
	calls atomic.Int32
	fn    func(clientID string) (schema.Params, error)
}

func (s *stubRegistry) GetClientInfo(_ context.Context, clientID string) (schema.Params, error) {
	s.calls.Add(1)
	return s.fn(clientID)
}

type ResilientSuite struct {
	suite.Suite
	ctx    context.Context
	logger *slog.Logger
}

func TestResilientSuite(t *testing.T) {
	suite.Run(t, new(ResilientSuite))
}

func (s *ResilientSuite) SetupTest() {
	s.ctx = context.Background()
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (s *ResilientSuite) newResilient(delegate *stubRegistry, opts ...ResilientOption) *Resilient {
	opts = append([]ResilientOption{
		WithResilientLogger(s.logger),
		WithMetrics(metrics.NewWithRegisterer(prometheus.NewRegistry())),
	}, opts...)
	return NewResilient(delegate, opts...)
}

func testClient() Client {
	return Client{ID: testClientID, Name: "Relier", RedirectURI: "https://relier.example.com/oauth", Trusted: true}
}

func (s *ResilientSuite) TestCachesSuccessfulLookups() {
	delegate := &stubRegistry{fn: func(string) (schema.Params, error) { return testClient().Params(), nil }}
	r := s.newResilient(delegate)

	first, err := r.GetClientInfo(s.ctx, testClientID)
	s.Require().NoError(err)
	first["name"] = "mutated"

	second, err := r.GetClientInfo(s.ctx, testClientID)
	s.Require().NoError(err)
	s.Equal("Relier", second["name"])
	s.Equal(int32(1), delegate.calls.Load())
}

func (s *ResilientSuite) TestExpiredEntriesAreRefetched() {
	delegate := &stubRegistry{fn: func(string) (schema.Params, error) { return testClient().Params(), nil }}
	r := s.newResilient(delegate, WithCacheTTL(time.Minute))
	now := time.Now()
	r.cache.now = func() time.Time { return now }

	_, err := r.GetClientInfo(s.ctx, testClientID)
	s.Require().NoError(err)

	now = now.Add(2 * time.Minute)
	_, err = r.GetClientInfo(s.ctx, testClientID)
	s.Require().NoError(err)
	s.Equal(int32(2), delegate.calls.Load())
}

func (s *ResilientSuite) TestUnknownClientDoesNotTripBreaker() {
	delegate := &stubRegistry{fn: func(string) (schema.Params, error) { return nil, dErrors.InvalidParameter("client_id") }}
	r := s.newResilient(delegate, WithFailureThreshold(1))

	for range 3 {
		_, err := r.GetClientInfo(s.ctx, testClientID)
		s.True(dErrors.IsInvalidParameter(err, "client_id"))
	}
	s.Equal(circuit.StateClosed, r.BreakerState())
}

func (s *ResilientSuite) TestFallsBackToCacheWhenOpen() {
	var mu sync.Mutex
	failing := false
	delegate := &stubRegistry{fn: func(string) (schema.Params, error) {
		mu.Lock()
		defer mu.Unlock()
		if failing {
			return nil, dErrors.New(dErrors.CodeUnavailable, "registry down")
		}
		return testClient().Params(), nil
	}}
	r := s.newResilient(delegate, WithFailureThreshold(2), WithCacheTTL(time.Minute))
	now := time.Now()
	r.cache.now = func() time.Time { return now }

	_, err := r.GetClientInfo(s.ctx, testClientID)
	s.Require().NoError(err)

	mu.Lock()
	failing = true
	mu.Unlock()

	now = now.Add(2 * time.Minute)
	_, err = r.GetClientInfo(s.ctx, testClientID)
	s.True(dErrors.HasCode(err, dErrors.CodeUnavailable), "closed circuit surfaces the failure")

	params, err := r.GetClientInfo(s.ctx, testClientID)
	s.Require().NoError(err, "open circuit serves the stale record")
	s.Equal(testClientID, params["id"])
	s.Equal(circuit.StateOpen, r.BreakerState())
}

func (s *ResilientSuite) TestFailureWithoutCacheSurfaces() {
	delegate := &stubRegistry{fn: func(string) (schema.Params, error) {
		return nil, dErrors.New(dErrors.CodeUnavailable, "registry down")
	}}
	r := s.newResilient(delegate, WithFailureThreshold(1))

	_, err := r.GetClientInfo(s.ctx, testClientID)
	s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
	s.Equal(circuit.StateOpen, r.BreakerState())
}
