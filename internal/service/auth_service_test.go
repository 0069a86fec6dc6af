package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/kanbanboard/kanban-api/internal/domain"
	"github.com/kanbanboard/kanban-api/internal/mocks"
	"github.com/kanbanboard/kanban-api/internal/service"
	"github.com/kanbanboard/kanban-api/internal/service/auth"
	"github.com/kanbanboard/kanban-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAuthService_Signup(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("issues token for new user", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		result, err := f.authSvc.Signup(ctx, "alice", "alice@example.com", "password123")
		require.NoError(t, err)
		require.NotNil(t, result.User)
		assert.NotZero(t, result.User.ID)
		assert.Empty(t, result.User.Password, "plaintext must not survive signup")
		assert.NotEmpty(t, result.User.HashedPassword)

		assert.True(t, f.tokens.ValidateToken(ctx, result.Token))
		userID, err := f.tokens.ExtractUserID(ctx, result.Token)
		require.NoError(t, err)
		assert.Equal(t, result.User.ID, userID)
	})

	tests := []struct {
		name     string
		username string
		email    string
		password string
		wantErr  error
	}{
		{"duplicate username", "alice", "other@example.com", "password123", store.ErrUsernameExists},
		{"duplicate email", "alice2", "alice@example.com", "password123", store.ErrEmailExists},
		{"short username", "al", "al@example.com", "password123", domain.ErrValidation},
		{"bad email", "carol", "not-an-email", "password123", domain.ErrValidation},
		{"short password", "carol", "carol@example.com", "12345", domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)
			_, err := f.authSvc.Signup(ctx, "alice", "alice@example.com", "password123")
			require.NoError(t, err)

			_, err = f.authSvc.Signup(ctx, tt.username, tt.email, tt.password)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, 1, f.db.UserCount())
		})
	}

	t.Run("username uniqueness is case-sensitive", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		_, err := f.authSvc.Signup(ctx, "alice", "alice@example.com", "password123")
		require.NoError(t, err)

		_, err = f.authSvc.Signup(ctx, "Alice", "alice2@example.com", "password123")
		assert.NoError(t, err)
		assert.Equal(t, 2, f.db.UserCount())
	})
}

func TestAuthService_Login(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	alice, err := f.authSvc.Signup(ctx, "alice", "alice@example.com", "password123")
	require.NoError(t, err)
	// A username that looks like someone else's email wins over that email.
	shadow, err := f.authSvc.Signup(ctx, "bob@example.com", "shadow@example.com", "shadowpass")
	require.NoError(t, err)
	_, err = f.authSvc.Signup(ctx, "bob", "bob@example.com", "bobspassword")
	require.NoError(t, err)

	tests := []struct {
		name       string
		identifier string
		password   string
		wantUserID int64
		wantErr    error
	}{
		{"by username", "alice", "password123", alice.User.ID, nil},
		{"by email", "alice@example.com", "password123", alice.User.ID, nil},
		{"username checked before email", "bob@example.com", "shadowpass", shadow.User.ID, nil},
		{"wrong password", "alice", "wrongpass", 0, service.ErrInvalidCredentials},
		{"unknown user", "nobody", "password123", 0, service.ErrInvalidCredentials},
		{"case differs", "ALICE", "password123", 0, service.ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result, err := f.authSvc.Login(ctx, tt.identifier, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, result)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantUserID, result.User.ID)
			assert.True(t, f.tokens.ValidateToken(ctx, result.Token))
		})
	}
}

func TestAuthService_Login_StoreFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	users := new(mocks.TestifyMockUserStore)
	dbErr := errors.New("connection refused")
	users.On("GetByUsername", mock.Anything, "alice").Return(nil, dbErr)

	db := mocks.NewMemoryDB()
	svc, err := service.NewAuthService(
		users,
		mocks.NewMockBoardStore(db),
		mocks.NewMockTaskStore(db),
		&mocks.MockTxManager{},
		&mocks.MockTokenService{Token: "unused"},
		&mocks.MockPasswordVerifier{ShouldSucceed: true},
		discardLogger(),
	)
	require.NoError(t, err)

	_, err = svc.Login(ctx, "alice", "password123")
	assert.ErrorIs(t, err, dbErr)
	assert.NotErrorIs(t, err, service.ErrInvalidCredentials)
	users.AssertExpectations(t)
	users.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
}

func TestAuthService_Login_TokenFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := mocks.NewMemoryDB()
	users := mocks.NewMockUserStore(db)
	user, err := domain.NewUser("alice", "alice@example.com", "password123")
	require.NoError(t, err)
	require.NoError(t, users.Create(ctx, user))

	issueErr := errors.New("signing failed")
	verifier := &mocks.MockPasswordVerifier{ShouldSucceed: true}
	svc, err := service.NewAuthService(
		users,
		mocks.NewMockBoardStore(db),
		mocks.NewMockTaskStore(db),
		&mocks.MockTxManager{},
		&mocks.MockTokenService{IssueErr: issueErr},
		verifier,
		discardLogger(),
	)
	require.NoError(t, err)

	_, err = svc.Login(ctx, "alice", "password123")
	assert.ErrorIs(t, err, issueErr)
	assert.Equal(t, 1, verifier.CompareCallCount)
}

func TestAuthService_CurrentUser(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	alice := f.mustUser(t, "alice")

	user, err := f.authSvc.CurrentUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	_, err = f.authSvc.CurrentUser(ctx, alice.ID+1)
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestAuthService_DeleteAccount(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	alice := f.mustUser(t, "alice")
	bob := f.mustUser(t, "bob")

	aliceBoard := f.mustBoard(t, alice.ID, "Alice")
	f.mustTask(t, alice.ID, aliceBoard.ID, "a1", domain.TaskStatusTodo, 0)
	f.mustTask(t, alice.ID, f.mustBoard(t, alice.ID, "Alice 2").ID, "a2", domain.TaskStatusDone, 0)
	bobBoard := f.mustBoard(t, bob.ID, "Bob")
	f.mustTask(t, bob.ID, bobBoard.ID, "b1", domain.TaskStatusTodo, 0)

	require.NoError(t, f.authSvc.DeleteAccount(ctx, alice.ID))

	assert.Equal(t, 1, f.db.UserCount())
	assert.Equal(t, 1, f.db.BoardCount())
	assert.Equal(t, 1, f.db.TaskCount())

	_, err := f.users.GetByID(ctx, alice.ID)
	assert.ErrorIs(t, err, store.ErrUserNotFound)

	err = f.authSvc.DeleteAccount(ctx, alice.ID)
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestNewAuthService_NilDependencies(t *testing.T) {
	t.Parallel()
	db := mocks.NewMemoryDB()

	_, err := service.NewAuthService(
		mocks.NewMockUserStore(db), mocks.NewMockBoardStore(db), mocks.NewMockTaskStore(db),
		&mocks.MockTxManager{}, nil, auth.NewBcryptVerifier(), nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}
