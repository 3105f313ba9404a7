package store

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/redis/go-redis/v9"
)

// Redis stores consented permissions as a set per account and client.
type Redis struct {
	client redis.UniversalClient
}

func NewRedis(client redis.UniversalClient) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Seen(ctx context.Context, uid, clientID string) ([]string, error) {
	members, err := r.client.SMembers(ctx, key(uid, clientID)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("read seen permissions: %w", err)
	}
	slices.Sort(members)
	return members, nil
}

func (r *Redis) MarkSeen(ctx context.Context, uid, clientID string, permissions []string) error {
	if len(permissions) == 0 {
		return nil
	}
	members := make([]any, len(permissions))
	for i, p := range permissions {
		members[i] = p
	}
	if err := r.client.SAdd(ctx, key(uid, clientID), members...).Err(); err != nil {
		return fmt.Errorf("mark permissions seen: %w", err)
	}
	return nil
}
