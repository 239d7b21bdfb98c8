// Package codestore keeps short-lived one-time login codes in Redis. The
// external identity layer writes a code when it messages an attendee and
// checks it back exactly once.
package codestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "otp:"

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Put(ctx context.Context, key, code string, ttl time.Duration) error {
	if err := s.client.Set(ctx, keyPrefix+key, code, ttl).Err(); err != nil {
		return fmt.Errorf("store code: %w", err)
	}
	return nil
}

// CheckAndRemove consumes the stored code atomically via GETDEL: whichever
// value was stored is gone after this call, so each code survives exactly
// one attempt, right or wrong.
func (s *RedisStore) CheckAndRemove(ctx context.Context, key, code string) (bool, error) {
	stored, err := s.client.GetDel(ctx, keyPrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("consume code: %w", err)
	}

	return stored == code, nil
}
