package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// RedisStore keeps session snapshots in redis. Unlike a cache, entries do
// not expire: this is the primary copy of the staging state.
type RedisStore struct {
	client *redis.Client
}

func (r *RedisStore) Get(ctx context.Context, userID string) ([]byte, error) {
	data, err := r.client.Get(ctx, storeKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrStateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	return data, nil
}

func (r *RedisStore) Set(ctx context.Context, userID string, snapshot []byte) error {
	if err := r.client.Set(ctx, storeKey(userID), snapshot, 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, storeKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func storeKey(userID string) string {
	return fmt.Sprintf("session:%s", userID)
}
