package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"authflow/internal/relier/schema"
	"authflow/internal/sentinel"
)

const keyPrefix = "relier:verification:"

// Redis persists verification contexts with TTL eviction. Take uses GETDEL
// so a context is consumed at most once across instances.
type Redis struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedis(client redis.UniversalClient, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Redis{client: client, ttl: ttl}
}

func (r *Redis) Save(ctx context.Context, sessionID string, params schema.Params) error {
	payload, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("encode verification context: %w", err)
	}
	if err := r.client.Set(ctx, key(sessionID), payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("save verification context: %w", err)
	}
	return nil
}

func (r *Redis) Take(ctx context.Context, sessionID string) (schema.Params, error) {
	data, err := r.client.GetDel(ctx, key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("take verification context: %w", err)
	}
	var params schema.Params
	if err := json.Unmarshal(data, &params); err != nil {
		return nil, fmt.Errorf("decode verification context: %w", err)
	}
	return params, nil
}

func key(sessionID string) string {
	return keyPrefix + sessionID
}
