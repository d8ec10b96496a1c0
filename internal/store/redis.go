package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "devpath:bucket:"

// RedisStore is a Redis-backed Store implementation. Each bucket is a
// single key holding the serialized collection.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Read(ctx context.Context, bucket string) ([]byte, error) {
	data, err := s.client.Get(ctx, redisKeyPrefix+bucket).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read bucket %q: %w", bucket, err)
	}
	return data, nil
}

func (s *RedisStore) Write(ctx context.Context, bucket string, data []byte) error {
	if err := s.client.Set(ctx, redisKeyPrefix+bucket, data, 0).Err(); err != nil {
		return fmt.Errorf("write bucket %q: %w", bucket, err)
	}
	return nil
}
