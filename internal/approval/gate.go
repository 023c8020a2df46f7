package approval

import (
	"context"
	"errors"

	"github.com/mentora-learn/mentora/internal/account"
	"github.com/mentora-learn/mentora/internal/config"
)

// ErrNotAuthorized is returned when an actor may not manage approvals.
var ErrNotAuthorized = errors.New("not authorized to manage approvals")

// Gate decides whether an authenticated account may access the application,
// and carries the administrative approve/revoke mutations.
type Gate struct {
	repo   account.Repository
	policy config.ApprovalPolicy
	authz  Authorizer
}

// NewGate builds an approval gate for the configured policy.
func NewGate(repo account.Repository, policy config.ApprovalPolicy, authz Authorizer) *Gate {
	return &Gate{repo: repo, policy: policy, authz: authz}
}

// ApproveOnSignUp reports whether new accounts start out approved.
func (g *Gate) ApproveOnSignUp() bool {
	return g.policy == config.AutoApprove
}

// IsApproved reports whether the account may access protected routes.
func (g *Gate) IsApproved(acc account.Account) bool {
	return acc.Approved
}

// Approve grants access to the account. Idempotent.
func (g *Gate) Approve(ctx context.Context, actorEmail, accountID string) error {
	if !g.authz.CanApprove(actorEmail) {
		return ErrNotAuthorized
	}
	return g.repo.SetApproved(ctx, accountID, true)
}

// Revoke returns the account to the pending state. Idempotent.
func (g *Gate) Revoke(ctx context.Context, actorEmail, accountID string) error {
	if !g.authz.CanApprove(actorEmail) {
		return ErrNotAuthorized
	}
	return g.repo.SetApproved(ctx, accountID, false)
}

// List returns all accounts for the admin review screen.
func (g *Gate) List(ctx context.Context, actorEmail string) ([]account.Account, error) {
	if !g.authz.CanApprove(actorEmail) {
		return nil, ErrNotAuthorized
	}
	return g.repo.List(ctx)
}
