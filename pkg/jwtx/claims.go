package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultInviteTTL is the lifetime of a workspace invite token. Invites are
// capability tokens handed out over email, so they stay valid for a week.
const DefaultInviteTTL = 7 * 24 * time.Hour

// Claims are the token claims used across the service. Access tokens carry
// only the registered claims plus the user's display fields; invite tokens
// additionally carry the workspace/role capability being granted.
type Claims struct {
	jwt.RegisteredClaims

	// Workspace the invite grants membership of (invite tokens only).
	Workspace string `json:"workspace,omitempty"`

	// Role to assign on redemption, e.g. "member" or "admin" (invite tokens only).
	Role string `json:"role,omitempty"`

	// Email of the authenticated user (access tokens only).
	Email string `json:"email,omitempty"`

	// Name is the display name for the user (access tokens only).
	Name string `json:"name,omitempty"`
}

// NewAccessClaims builds minimally-correct claims for an access token.
func NewAccessClaims(
	subject, email, name, issuer string,
	ttl time.Duration,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: registered(subject, issuer, ttl, now),
		Email:            email,
		Name:             name,
	}
}

// NewInviteClaims builds claims for a workspace invite capability token:
// subject is the invited user, workspace/role describe what is granted.
func NewInviteClaims(
	subject, workspaceID, role, issuer string,
	ttl time.Duration,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: registered(subject, issuer, ttl, now),
		Workspace:        workspaceID,
		Role:             role,
	}
}

func registered(subject, issuer string, ttl time.Duration, now time.Time) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        NewJTI(),
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ValidateExpiry ensures the token hasn't expired (exp) and isn't used
// before it is valid (nbf).
func (c *Claims) ValidateExpiry() error {
	now := time.Now().UTC()

	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Time) {
		return ErrExpired
	}

	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}

	return nil
}
