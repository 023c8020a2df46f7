package otp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mentora-learn/mentora/internal/mailer"
)

var (
	// ErrInvalidOrExpired covers a wrong code, a missing challenge and an
	// expired challenge. Callers cannot tell these apart.
	ErrInvalidOrExpired = errors.New("invalid or expired verification code")
	// ErrTooManyAttempts is returned once a challenge has burned through its
	// attempt budget. The challenge is gone; a new code must be requested.
	ErrTooManyAttempts = errors.New("too many incorrect attempts, request a new code")
	// ErrSendFailed wraps delivery gateway failures.
	ErrSendFailed = errors.New("failed to send verification code")
	// ErrNoPending is returned when a resend is requested without a login in
	// progress for the email.
	ErrNoPending = errors.New("no verification in progress, log in again")
)

// Service issues and verifies email verification codes.
type Service struct {
	store       ChallengeStore
	sender      mailer.Sender
	ttl         time.Duration
	maxAttempts int
	now         func() time.Time
}

// NewService builds an OTP service. ttl bounds challenge validity and
// maxAttempts bounds wrong guesses per challenge.
func NewService(store ChallengeStore, sender mailer.Sender, ttl time.Duration, maxAttempts int) *Service {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	return &Service{store: store, sender: sender, ttl: ttl, maxAttempts: maxAttempts, now: time.Now}
}

// Issue generates a fresh code, stores it (superseding any pending challenge
// for the email) and delivers it. A delivery failure discards the challenge.
func (s *Service) Issue(ctx context.Context, email string) error {
	code := Generate()
	ch := Challenge{Code: code, ExpiresAt: s.now().Add(s.ttl)}
	if err := s.store.Put(ctx, email, ch); err != nil {
		return err
	}

	if err := s.sender.Send(ctx, email, code); err != nil {
		// Best effort: don't leave a challenge the user never received.
		_ = s.store.Delete(ctx, email)
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	return nil
}

// Reissue sends a fresh code for an email that already has a challenge
// record, superseding it. Unlike Issue it refuses to start a verification out
// of thin air: a record only exists within the resend window of a successful
// credential check.
func (s *Service) Reissue(ctx context.Context, email string) error {
	_, ok, err := s.store.Get(ctx, email)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNoPending
	}
	return s.Issue(ctx, email)
}

// Verify checks a candidate code against the active challenge for the email.
// Success consumes the challenge. Expiry is evaluated lazily against the wall
// clock; there is no background sweep. An expired challenge is left in place
// so the user can still request a resend.
func (s *Service) Verify(ctx context.Context, email, candidate string) error {
	ch, ok, err := s.store.Get(ctx, email)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidOrExpired
	}

	if s.now().After(ch.ExpiresAt) {
		return ErrInvalidOrExpired
	}

	if candidate == ch.Code {
		return s.store.Delete(ctx, email)
	}

	ch.Attempts++
	if ch.Attempts >= s.maxAttempts {
		_ = s.store.Delete(ctx, email)
		return ErrTooManyAttempts
	}
	if err := s.store.Put(ctx, email, ch); err != nil {
		return err
	}
	return ErrInvalidOrExpired
}

// Clear drops any pending challenge for the email.
func (s *Service) Clear(ctx context.Context, email string) error {
	return s.store.Delete(ctx, email)
}
