package devicetrust

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const trustKeyPrefix = "trust:device:"

// RedisStore persists trust records in Redis; expiry rides on the key TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore builds a Redis-backed trust store with the given TTL.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Trusted reports whether the (device, email) pair has an unexpired record.
func (s *RedisStore) Trusted(ctx context.Context, deviceID, email string) (bool, error) {
	err := s.client.Get(ctx, s.key(deviceID, email)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Trust records the pair. Calling it again refreshes the TTL.
func (s *RedisStore) Trust(ctx context.Context, deviceID, email string) error {
	return s.client.Set(ctx, s.key(deviceID, email), "1", s.ttl).Err()
}

// Revoke removes the trust record for the pair.
func (s *RedisStore) Revoke(ctx context.Context, deviceID, email string) error {
	return s.client.Del(ctx, s.key(deviceID, email)).Err()
}

func (s *RedisStore) key(deviceID, email string) string {
	return trustKeyPrefix + deviceID + ":" + strings.ToLower(email)
}
