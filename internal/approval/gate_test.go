package approval

import (
	"context"
	"errors"
	"testing"

	"github.com/mentora-learn/mentora/internal/account"
	"github.com/mentora-learn/mentora/internal/config"
)

func newAccount(t *testing.T, repo account.Repository, gate *Gate, email string) account.Account {
	t.Helper()
	svc := account.NewService(repo, false)
	acc, err := svc.SignUp(context.Background(), account.SignUpInput{
		Email:    email,
		Password: "secret1",
		Approved: gate.ApproveOnSignUp(),
	})
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	return acc
}

func TestAdminApprovePolicy(t *testing.T) {
	repo := account.NewMemoryRepository()
	gate := NewGate(repo, config.AdminApprove, NewAllowlist([]string{"admin@x.com"}))
	ctx := context.Background()

	acc := newAccount(t, repo, gate, "a@x.com")
	if gate.IsApproved(acc) {
		t.Fatalf("expected new account to be pending under admin-approve")
	}

	if err := gate.Approve(ctx, "admin@x.com", acc.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	acc, _ = repo.FindByID(ctx, acc.ID)
	if !gate.IsApproved(acc) {
		t.Fatalf("expected approved account after approve")
	}

	// Approve is idempotent.
	if err := gate.Approve(ctx, "admin@x.com", acc.ID); err != nil {
		t.Fatalf("approve again: %v", err)
	}

	if err := gate.Revoke(ctx, "admin@x.com", acc.ID); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	acc, _ = repo.FindByID(ctx, acc.ID)
	if gate.IsApproved(acc) {
		t.Fatalf("expected pending account after revoke")
	}
}

func TestAutoApprovePolicy(t *testing.T) {
	repo := account.NewMemoryRepository()
	gate := NewGate(repo, config.AutoApprove, NewAllowlist(nil))

	acc := newAccount(t, repo, gate, "a@x.com")
	if !gate.IsApproved(acc) {
		t.Fatalf("expected new account to be approved under auto-approve")
	}
}

func TestApproveRequiresAuthorization(t *testing.T) {
	repo := account.NewMemoryRepository()
	gate := NewGate(repo, config.AdminApprove, NewAllowlist([]string{"admin@x.com"}))
	ctx := context.Background()

	acc := newAccount(t, repo, gate, "a@x.com")

	if err := gate.Approve(ctx, "student@x.com", acc.ID); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}
	if _, err := gate.List(ctx, "student@x.com"); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized on list, got %v", err)
	}

	// Authorized actors can list accounts for the review screen.
	users, err := gate.List(ctx, "ADMIN@x.com")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("expected 1 account, got %d", len(users))
	}
}
