package mocks

import (
	"context"
	"time"

	"github.com/kanbanboard/kanban-api/internal/service/auth"
)

// MockTokenService implements auth.TokenService for testing
type MockTokenService struct {
	IssueTokenFn    func(ctx context.Context, userID int64) (string, error)
	ValidateTokenFn func(ctx context.Context, token string) bool
	ExtractUserIDFn func(ctx context.Context, token string) (int64, error)

	// Default values used when functions aren't explicitly defined
	Token      string
	IssueErr   error
	Valid      bool
	UserID     int64
	ExtractErr error
	Lifetime   time.Duration
}

var _ auth.TokenService = (*MockTokenService)(nil)

// IssueToken implements the auth.TokenService interface
func (m *MockTokenService) IssueToken(ctx context.Context, userID int64) (string, error) {
	if m.IssueTokenFn != nil {
		return m.IssueTokenFn(ctx, userID)
	}
	return m.Token, m.IssueErr
}

// ValidateToken implements the auth.TokenService interface
func (m *MockTokenService) ValidateToken(ctx context.Context, token string) bool {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, token)
	}
	return m.Valid
}

// ExtractUserID implements the auth.TokenService interface
func (m *MockTokenService) ExtractUserID(ctx context.Context, token string) (int64, error) {
	if m.ExtractUserIDFn != nil {
		return m.ExtractUserIDFn(ctx, token)
	}
	return m.UserID, m.ExtractErr
}

// TokenLifetime implements the auth.TokenService interface
func (m *MockTokenService) TokenLifetime() time.Duration {
	if m.Lifetime == 0 {
		return time.Hour
	}
	return m.Lifetime
}
