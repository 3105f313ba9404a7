//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"authflow/internal/relier/schema"
	"authflow/internal/sentinel"
	"authflow/pkg/testutil"
	"authflow/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *Redis
}

func TestRedisStoreSuite(t *testing.T) {
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.store = NewRedis(s.redis.Client, time.Minute)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisStoreSuite) TestSaveAndTake() {
	ctx := context.Background()
	params := schema.Params{"client_id": "dcdb5ae7add825d2", "state": "abc"}

	s.Require().NoError(s.store.Save(ctx, "s1", params))
	ttl, err := s.redis.Client.TTL(ctx, key("s1")).Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))

	got, err := s.store.Take(ctx, "s1")
	s.Require().NoError(err)
	s.Equal(params, got)

	_, err = s.store.Take(ctx, "s1")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisStoreSuite) TestConcurrentTakeConsumesOnce() {
	ctx := context.Background()
	s.Require().NoError(s.store.Save(ctx, "s2", schema.Params{"client_id": "a"}))

	res := testutil.RunConcurrentCtx(ctx, 10, func(ctx context.Context, _ int) error {
		_, err := s.store.Take(ctx, "s2")
		return err
	})
	s.Equal(int32(1), res.Successes)
	s.Equal(int32(9), res.NotFounds)
}
