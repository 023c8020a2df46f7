package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Credential error kinds. The orchestrator matches on these instead of
// inspecting provider-specific message substrings.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailUnconfirmed   = errors.New("email not confirmed, check your inbox for a verification link")
)

// Service manages the account lifecycle and owns credential verification.
type Service struct {
	repo             Repository
	requireConfirmed bool
}

// NewService creates an account service. When requireConfirmed is false new
// accounts are auto-confirmed at sign-up and can authenticate immediately.
func NewService(repo Repository, requireConfirmed bool) *Service {
	return &Service{repo: repo, requireConfirmed: requireConfirmed}
}

// SignUpInput carries the fields collected by the sign-up form. Approved is
// decided by the approval policy, not by the caller's client.
type SignUpInput struct {
	Email    string
	Password string
	Profile  Profile
	Approved bool
}

// SignUp registers a new account with a hashed password.
func (s *Service) SignUp(ctx context.Context, in SignUpInput) (Account, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if !strings.Contains(email, "@") {
		return Account{}, fmt.Errorf("invalid email address")
	}
	if len(in.Password) < 6 {
		return Account{}, fmt.Errorf("password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return Account{}, err
	}

	now := time.Now().UTC()
	acc := Account{
		ID:             uuid.New().String(),
		Email:          email,
		PasswordHash:   hash,
		Profile:        in.Profile,
		Approved:       in.Approved,
		EmailConfirmed: !s.requireConfirmed,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, acc); err != nil {
		return Account{}, err
	}
	return acc, nil
}

// Authenticate verifies an email/password pair. A missing account and a wrong
// password are indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, email, password string) (Account, error) {
	acc, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Account{}, ErrInvalidCredentials
		}
		return Account{}, err
	}

	if err := bcrypt.CompareHashAndPassword(acc.PasswordHash, []byte(password)); err != nil {
		return Account{}, ErrInvalidCredentials
	}

	if s.requireConfirmed && !acc.EmailConfirmed {
		return Account{}, ErrEmailUnconfirmed
	}

	now := time.Now().UTC()
	if err := s.repo.TouchLogin(ctx, acc.ID, now); err != nil {
		return Account{}, err
	}
	acc.LastLogin = now
	return acc, nil
}

// Get fetches an account by id.
func (s *Service) Get(ctx context.Context, id string) (Account, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateProfile replaces the education metadata for an account.
func (s *Service) UpdateProfile(ctx context.Context, id string, profile Profile) error {
	return s.repo.UpdateProfile(ctx, id, profile)
}

// ConfirmEmail marks an account's email as verified.
func (s *Service) ConfirmEmail(ctx context.Context, id string) error {
	return s.repo.SetEmailConfirmed(ctx, id, true)
}
