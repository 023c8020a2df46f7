package approval

import "strings"

// Authorizer decides which actors may manage approvals. The identity of
// administrators is configuration, not a literal compiled into the flow.
type Authorizer interface {
	CanApprove(actorEmail string) bool
}

// Allowlist authorizes a fixed set of administrator emails.
type Allowlist struct {
	emails map[string]struct{}
}

// NewAllowlist builds an allowlist authorizer. Matching is case-insensitive.
func NewAllowlist(emails []string) *Allowlist {
	set := make(map[string]struct{}, len(emails))
	for _, email := range emails {
		set[strings.ToLower(strings.TrimSpace(email))] = struct{}{}
	}
	return &Allowlist{emails: set}
}

// CanApprove reports whether the actor is on the allowlist.
func (a *Allowlist) CanApprove(actorEmail string) bool {
	_, ok := a.emails[strings.ToLower(strings.TrimSpace(actorEmail))]
	return ok
}
