package account

import (
	"context"
	"errors"
	"testing"
)

func TestSignUpAndAuthenticate(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo, false)
	ctx := context.Background()

	acc, err := svc.SignUp(ctx, SignUpInput{Email: "A@x.com", Password: "secret1", Profile: Profile{FullName: "Ada"}})
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if acc.Email != "a@x.com" {
		t.Fatalf("expected normalized email, got %q", acc.Email)
	}
	if !acc.EmailConfirmed {
		t.Fatalf("expected auto-confirmed account")
	}

	authed, err := svc.Authenticate(ctx, "a@x.com", "secret1")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if authed.ID != acc.ID {
		t.Fatalf("expected account %s, got %s", acc.ID, authed.ID)
	}
	if authed.LastLogin.IsZero() {
		t.Fatalf("expected last login to be recorded")
	}
}

func TestSignUpDuplicateEmail(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo, false)
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, SignUpInput{Email: "a@x.com", Password: "secret1"}); err != nil {
		t.Fatalf("first sign up: %v", err)
	}
	if _, err := svc.SignUp(ctx, SignUpInput{Email: "A@X.COM", Password: "secret2"}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthenticateWrongPassword(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo, false)
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, SignUpInput{Email: "a@x.com", Password: "secret1"}); err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "a@x.com", "nope"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	// Unknown emails report the same error kind so accounts cannot be enumerated.
	if _, err := svc.Authenticate(ctx, "b@x.com", "secret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthenticateUnconfirmedEmail(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo, true)
	ctx := context.Background()

	acc, err := svc.SignUp(ctx, SignUpInput{Email: "a@x.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}

	if _, err := svc.Authenticate(ctx, "a@x.com", "secret1"); !errors.Is(err, ErrEmailUnconfirmed) {
		t.Fatalf("expected ErrEmailUnconfirmed, got %v", err)
	}

	if err := svc.ConfirmEmail(ctx, acc.ID); err != nil {
		t.Fatalf("confirm email: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "a@x.com", "secret1"); err != nil {
		t.Fatalf("authenticate after confirmation: %v", err)
	}
}
