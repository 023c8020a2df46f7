package otp

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Challenge is the ephemeral record behind a pending verification.
type Challenge struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
	Attempts  int       `json:"attempts"`
}

// ChallengeStore keeps at most one active challenge per email. Put overwrites
// any prior challenge for the same email.
type ChallengeStore interface {
	Put(ctx context.Context, email string, ch Challenge) error
	Get(ctx context.Context, email string) (Challenge, bool, error)
	Delete(ctx context.Context, email string) error
}

type memoryStore struct {
	mu         sync.Mutex
	challenges map[string]Challenge
}

// NewMemoryStore builds an in-memory challenge store.
func NewMemoryStore() ChallengeStore {
	return &memoryStore{challenges: make(map[string]Challenge)}
}

func (s *memoryStore) Put(_ context.Context, email string, ch Challenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.challenges[strings.ToLower(email)] = ch
	return nil
}

func (s *memoryStore) Get(_ context.Context, email string) (Challenge, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.challenges[strings.ToLower(email)]
	return ch, ok, nil
}

func (s *memoryStore) Delete(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.challenges, strings.ToLower(email))
	return nil
}
