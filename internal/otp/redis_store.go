package otp

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const challengeKeyPrefix = "otp:challenge:"

// resendGrace keeps an expired challenge record around so the user can still
// request a resend. Code validity itself is judged against ExpiresAt.
const resendGrace = 30 * time.Minute

// RedisStore persists challenges in Redis. The key TTL is the challenge
// expiry plus a resend grace window, so abandoned challenges clean themselves
// up without a background sweep.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore builds a Redis-backed challenge store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Put stores the challenge, replacing any prior one for the email.
func (s *RedisStore) Put(ctx context.Context, email string, ch Challenge) error {
	ttl := time.Until(ch.ExpiresAt) + resendGrace
	if ttl <= 0 {
		return s.Delete(ctx, email)
	}
	payload, err := json.Marshal(ch)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key(email), payload, ttl).Err()
}

// Get returns the active challenge for the email, if any.
func (s *RedisStore) Get(ctx context.Context, email string) (Challenge, bool, error) {
	payload, err := s.client.Get(ctx, key(email)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Challenge{}, false, nil
	}
	if err != nil {
		return Challenge{}, false, err
	}
	var ch Challenge
	if err := json.Unmarshal(payload, &ch); err != nil {
		return Challenge{}, false, err
	}
	return ch, true, nil
}

// Delete removes the challenge for the email.
func (s *RedisStore) Delete(ctx context.Context, email string) error {
	return s.client.Del(ctx, key(email)).Err()
}

func key(email string) string {
	return challengeKeyPrefix + strings.ToLower(email)
}
