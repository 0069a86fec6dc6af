package auth

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/kanbanboard/kanban-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenService(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     config.AuthConfig
		wantErr bool
	}{
		{
			name: "valid config",
			cfg:  config.AuthConfig{JWTSecret: TestJWTSecret, TokenLifetimeMinutes: 60},
		},
		{
			name:    "short secret",
			cfg:     config.AuthConfig{JWTSecret: "too-short", TokenLifetimeMinutes: 60},
			wantErr: true,
		},
		{
			name:    "zero lifetime",
			cfg:     config.AuthConfig{JWTSecret: TestJWTSecret, TokenLifetimeMinutes: 0},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, err := NewTokenService(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, svc)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, time.Duration(tt.cfg.TokenLifetimeMinutes)*time.Minute, svc.TokenLifetime())
		})
	}
}

func TestTokenService_IssueAndValidate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := RequireTestTokenService(t)

	token, err := svc.IssueToken(ctx, 42)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	assert.True(t, svc.ValidateToken(ctx, token))

	userID, err := svc.ExtractUserID(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestTokenService_Claims(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	svc, err := newHMACTokenService(TestJWTSecret, 30*time.Minute, func() time.Time { return now })
	require.NoError(t, err)

	token, err := svc.IssueToken(context.Background(), 7)
	require.NoError(t, err)

	claims, err := svc.ParseClaims(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "7", claims.Subject)
	assert.Equal(t, now, claims.IssuedAt)
	assert.Equal(t, now.Add(30*time.Minute), claims.ExpiresAt)
	assert.NotEmpty(t, claims.ID)

	other, err := svc.IssueToken(context.Background(), 7)
	require.NoError(t, err)
	otherClaims, err := svc.ParseClaims(other)
	require.NoError(t, err)
	assert.NotEqual(t, claims.ID, otherClaims.ID, "each token should carry a unique jti")
}

func TestTokenService_Expiry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	issuedAt := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	current := issuedAt
	lifetime := time.Hour

	svc, err := NewTestTokenService(TestJWTSecret, lifetime, func() time.Time { return current })
	require.NoError(t, err)

	token, err := svc.IssueToken(ctx, 1)
	require.NoError(t, err)

	current = issuedAt.Add(lifetime - time.Second)
	assert.True(t, svc.ValidateToken(ctx, token), "token should be valid just before expiry")

	current = issuedAt.Add(lifetime)
	assert.False(t, svc.ValidateToken(ctx, token), "token should be invalid at expiry")

	current = issuedAt.Add(lifetime + time.Minute)
	assert.False(t, svc.ValidateToken(ctx, token), "token should be invalid after expiry")

	userID, err := svc.ExtractUserID(ctx, token)
	require.NoError(t, err, "extraction does not check expiry")
	assert.Equal(t, int64(1), userID)
}

func TestTokenService_DifferentKey(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	issuer := RequireTestTokenService(t)
	verifier, err := NewTestTokenService("a-completely-different-secret-key-value", time.Hour, nil)
	require.NoError(t, err)

	token, err := issuer.IssueToken(ctx, 5)
	require.NoError(t, err)

	assert.False(t, verifier.ValidateToken(ctx, token))
	_, err = verifier.ExtractUserID(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_RejectsBadTokens(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := RequireTestTokenService(t)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	hs512Token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(TestJWTSecret))
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "1",
	}).SignedString([]byte(TestJWTSecret))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"three garbage segments", "a.b.c"},
		{"alg none", noneToken},
		{"wrong HMAC variant", hs512Token},
		{"missing expiry", noExpiry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.NotPanics(t, func() {
				assert.False(t, svc.ValidateToken(ctx, tt.token))
			})
		})
	}
}

func TestTokenService_ExtractUserID_InvalidSubject(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := RequireTestTokenService(t)

	subjects := []string{"", "abc", "-3", "0", strconv.Itoa(1) + "x"}
	for _, sub := range subjects {
		t.Run("sub="+sub, func(t *testing.T) {
			t.Parallel()
			token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
				Subject:   sub,
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			}).SignedString([]byte(TestJWTSecret))
			require.NoError(t, err)

			_, err = svc.ExtractUserID(ctx, token)
			assert.ErrorIs(t, err, ErrInvalidSubject)
		})
	}
}
