// Package clients holds constructors for external service connections.
package clients

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ivan-22-3-5/e-commerce/service"
)

// RedisCodeStore backs the short-lived confirmation-code storage with redis.
type RedisCodeStore struct {
	client *redis.Client
}

var _ service.CodeStore = (*RedisCodeStore)(nil)

func NewRedisCodeStore(addr string) *RedisCodeStore {
	return &RedisCodeStore{client: redis.NewClient(&redis.Options{Addr: addr})}
}

func (s *RedisCodeStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

// Get returns "" for missing or expired keys.
func (s *RedisCodeStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return value, err
}

func (s *RedisCodeStore) Del(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

func (s *RedisCodeStore) Close() error {
	return s.client.Close()
}
