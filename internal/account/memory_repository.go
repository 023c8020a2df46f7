package account

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

type memoryRepository struct {
	mu       sync.RWMutex
	accounts map[string]Account // keyed by lowercased email
}

// NewMemoryRepository builds an in-memory account store, used in tests and in
// development mode when no database is configured.
func NewMemoryRepository() Repository {
	return &memoryRepository{accounts: make(map[string]Account)}
}

func (r *memoryRepository) Create(_ context.Context, acc Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := strings.ToLower(acc.Email)
	if _, exists := r.accounts[key]; exists {
		return ErrEmailTaken
	}
	r.accounts[key] = acc
	return nil
}

func (r *memoryRepository) FindByEmail(_ context.Context, email string) (Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	acc, ok := r.accounts[strings.ToLower(email)]
	if !ok {
		return Account{}, ErrNotFound
	}
	return acc, nil
}

func (r *memoryRepository) FindByID(_ context.Context, id string) (Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, acc := range r.accounts {
		if acc.ID == id {
			return acc, nil
		}
	}
	return Account{}, ErrNotFound
}

func (r *memoryRepository) List(_ context.Context) ([]Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	accounts := make([]Account, 0, len(r.accounts))
	for _, acc := range r.accounts {
		accounts = append(accounts, acc)
	}
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].CreatedAt.After(accounts[j].CreatedAt)
	})
	return accounts, nil
}

func (r *memoryRepository) UpdateProfile(_ context.Context, id string, profile Profile) error {
	return r.update(id, func(acc *Account) {
		acc.Profile = profile
		acc.UpdatedAt = time.Now().UTC()
	})
}

func (r *memoryRepository) SetApproved(_ context.Context, id string, approved bool) error {
	return r.update(id, func(acc *Account) {
		acc.Approved = approved
		acc.UpdatedAt = time.Now().UTC()
	})
}

func (r *memoryRepository) SetEmailConfirmed(_ context.Context, id string, confirmed bool) error {
	return r.update(id, func(acc *Account) {
		acc.EmailConfirmed = confirmed
		acc.UpdatedAt = time.Now().UTC()
	})
}

func (r *memoryRepository) UpdateTokenVersion(_ context.Context, id string, version int) error {
	return r.update(id, func(acc *Account) {
		acc.TokenVersion = version
	})
}

func (r *memoryRepository) TouchLogin(_ context.Context, id string, at time.Time) error {
	return r.update(id, func(acc *Account) {
		acc.LastLogin = at.UTC()
	})
}

func (r *memoryRepository) update(id string, fn func(*Account)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, acc := range r.accounts {
		if acc.ID == id {
			fn(&acc)
			r.accounts[key] = acc
			return nil
		}
	}
	return ErrNotFound
}
