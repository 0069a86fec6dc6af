package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestJWTSecret is a signing key that satisfies the minimum length.
const TestJWTSecret = "test-jwt-secret-that-is-32-chars-long"

// NewTestTokenService creates a TokenService with an injectable clock.
// A nil timeFunc uses time.Now.
func NewTestTokenService(secret string, lifetime time.Duration, timeFunc func() time.Time) (TokenService, error) {
	return newHMACTokenService(secret, lifetime, timeFunc)
}

// RequireTestTokenService creates a one-hour TokenService signed with TestJWTSecret.
func RequireTestTokenService(t *testing.T) TokenService {
	t.Helper()
	svc, err := NewTestTokenService(TestJWTSecret, time.Hour, nil)
	require.NoError(t, err, "Failed to create test token service")
	return svc
}

// AuthHeaderForTesting returns an Authorization header value for userID.
func AuthHeaderForTesting(t *testing.T, svc TokenService, userID int64) string {
	t.Helper()
	token, err := svc.IssueToken(context.Background(), userID)
	require.NoError(t, err, "Failed to issue test token")
	return "Bearer " + token
}
