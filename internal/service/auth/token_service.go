// Package auth issues and checks bearer tokens and verifies password hashes.
// Authentication is stateless: a token is trusted when its HMAC signature
// verifies and its expiry has not passed.
package auth

import (
	"context"
	"time"
)

// TokenService issues and validates signed, time-limited bearer tokens bound
// to a single user id.
type TokenService interface {
	// IssueToken creates a signed token for userID that expires after TokenLifetime.
	IssueToken(ctx context.Context, userID int64) (string, error)

	// ValidateToken reports whether the signature verifies and the token has
	// not expired. It never returns an error: any failure is false.
	ValidateToken(ctx context.Context, token string) bool

	// ExtractUserID returns the user id carried in the token subject.
	// Callers are expected to have validated the token first; the signature
	// is checked again but expiry is not.
	ExtractUserID(ctx context.Context, token string) (int64, error)

	// TokenLifetime is the validity window applied to new tokens.
	TokenLifetime() time.Duration
}

// Claims represents the decoded claims of a token.
type Claims struct {
	UserID    int64
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}
