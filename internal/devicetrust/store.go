package devicetrust

import (
	"context"
	"strings"
	"sync"
	"time"
)

// TrustStore records which (device, email) pairs may skip the OTP step. Trust
// is keyed per pair, so one device can trust several accounts independently.
// Records expire after the configured TTL; there is no permanent trust.
type TrustStore interface {
	Trusted(ctx context.Context, deviceID, email string) (bool, error)
	Trust(ctx context.Context, deviceID, email string) error
	Revoke(ctx context.Context, deviceID, email string) error
}

type memoryStore struct {
	mu      sync.Mutex
	expiry  map[string]time.Time
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore builds an in-memory trust store with the given TTL.
func NewMemoryStore(ttl time.Duration) TrustStore {
	return &memoryStore{expiry: make(map[string]time.Time), ttl: ttl, now: time.Now}
}

func (s *memoryStore) Trusted(_ context.Context, deviceID, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.expiry[trustKey(deviceID, email)]
	if !ok {
		return false, nil
	}
	if s.now().After(exp) {
		delete(s.expiry, trustKey(deviceID, email))
		return false, nil
	}
	return true, nil
}

func (s *memoryStore) Trust(_ context.Context, deviceID, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expiry[trustKey(deviceID, email)] = s.now().Add(s.ttl)
	return nil
}

func (s *memoryStore) Revoke(_ context.Context, deviceID, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.expiry, trustKey(deviceID, email))
	return nil
}

func trustKey(deviceID, email string) string {
	return deviceID + ":" + strings.ToLower(email)
}
