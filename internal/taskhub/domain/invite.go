package domain

import "time"

// WorkspaceInvite is the stored half of an invite capability token. The raw
// token (a signed JWT) travels by email; only its fingerprint is persisted.
// Invites are single-use: acceptance deletes the record.
type WorkspaceInvite struct {
	ID          string
	WorkspaceID string
	UserID      string // invited user
	Role        WorkspaceRole
	TokenHash   string
	ExpiresAt   time.Time
	CreatedAt   time.Time
}

// Expired reports whether the invite can no longer be redeemed at t.
func (i WorkspaceInvite) Expired(t time.Time) bool {
	return i.ExpiresAt.Before(t)
}
