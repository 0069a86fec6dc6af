package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	user, err := NewUser("alice", "alice@x.com", "secret1")
	require.NoError(t, err)
	assert.Zero(t, user.ID, "IDs are assigned by the store")
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@x.com", user.Email)
	assert.Equal(t, "secret1", user.Password)
	assert.False(t, user.CreatedAt.IsZero())
	assert.Equal(t, user.CreatedAt, user.UpdatedAt)
}

func TestUserValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		user      User
		wantField string
	}{
		{"valid plaintext", User{Username: "bob", Email: "bob@x.com", Password: "secret1"}, ""},
		{"valid hashed", User{Username: "bob", Email: "bob@x.com", HashedPassword: "$2a$10$abc"}, ""},
		{"empty username", User{Username: "  ", Email: "bob@x.com", Password: "secret1"}, "username"},
		{"short username", User{Username: "bo", Email: "bob@x.com", Password: "secret1"}, "username"},
		{"long username", User{Username: strings.Repeat("b", 51), Email: "bob@x.com", Password: "secret1"}, "username"},
		{"missing email", User{Username: "bob", Password: "secret1"}, "email"},
		{"malformed email", User{Username: "bob", Email: "bob-at-x", Password: "secret1"}, "email"},
		{"long email", User{Username: "bob", Email: strings.Repeat("b", 95) + "@x.com", Password: "secret1"}, "email"},
		{"short password", User{Username: "bob", Email: "bob@x.com", Password: "12345"}, "password"},
		{"long password", User{Username: "bob", Email: "bob@x.com", Password: strings.Repeat("p", 73)}, "password"},
		{"no password at all", User{Username: "bob", Email: "bob@x.com"}, "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.user.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}
}

func TestValidationErrorsAggregate(t *testing.T) {
	t.Parallel()

	err := (&User{}).Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	var errs ValidationErrors
	require.True(t, errors.As(err, &errs))
	assert.Len(t, errs, 3)
	assert.Contains(t, err.Error(), "username is required")
	assert.Contains(t, err.Error(), "; ")
}
