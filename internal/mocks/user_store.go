package mocks

import (
	"context"
	"database/sql"

	"github.com/kanbanboard/kanban-api/internal/domain"
	"github.com/kanbanboard/kanban-api/internal/store"
	"golang.org/x/crypto/bcrypt"
)

// MockUserStore implements store.UserStore for testing
type MockUserStore struct {
	// Function fields for customizable behavior
	CreateFn           func(ctx context.Context, user *domain.User) error
	GetByIDFn          func(ctx context.Context, id int64) (*domain.User, error)
	GetByUsernameFn    func(ctx context.Context, username string) (*domain.User, error)
	GetByEmailFn       func(ctx context.Context, email string) (*domain.User, error)
	ExistsByUsernameFn func(ctx context.Context, username string) (bool, error)
	ExistsByEmailFn    func(ctx context.Context, email string) (bool, error)
	DeleteFn           func(ctx context.Context, id int64) error

	// Data for default implementation
	DB *MemoryDB
}

var _ store.UserStore = (*MockUserStore)(nil)

// NewMockUserStore creates a mock user store backed by db.
// A nil db gets a fresh MemoryDB.
func NewMockUserStore(db *MemoryDB) *MockUserStore {
	if db == nil {
		db = NewMemoryDB()
	}
	return &MockUserStore{DB: db}
}

// Create implements the UserStore interface. Passwords are hashed with
// bcrypt.MinCost so real verifiers can be used against mock users.
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}

	if err := user.Validate(); err != nil {
		return err
	}

	m.DB.mu.Lock()
	defer m.DB.mu.Unlock()

	for _, u := range m.DB.Users {
		if u.Username == user.Username {
			return store.ErrUsernameExists
		}
		if u.Email == user.Email {
			return store.ErrEmailExists
		}
	}

	if user.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.MinCost)
		if err != nil {
			return err
		}
		user.HashedPassword = string(hash)
		user.Password = ""
	}

	m.DB.nextUserID++
	user.ID = m.DB.nextUserID
	stored := *user
	m.DB.Users[user.ID] = &stored
	return nil
}

// GetByID implements the UserStore interface
func (m *MockUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.DB.mu.Lock()
	defer m.DB.mu.Unlock()

	u, ok := m.DB.Users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

// GetByUsername implements the UserStore interface
func (m *MockUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.GetByUsernameFn != nil {
		return m.GetByUsernameFn(ctx, username)
	}
	return m.find(func(u *domain.User) bool { return u.Username == username })
}

// GetByEmail implements the UserStore interface
func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	return m.find(func(u *domain.User) bool { return u.Email == email })
}

// ExistsByUsername implements the UserStore interface
func (m *MockUserStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	if m.ExistsByUsernameFn != nil {
		return m.ExistsByUsernameFn(ctx, username)
	}
	_, err := m.find(func(u *domain.User) bool { return u.Username == username })
	return err == nil, nil
}

// ExistsByEmail implements the UserStore interface
func (m *MockUserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.ExistsByEmailFn != nil {
		return m.ExistsByEmailFn(ctx, email)
	}
	_, err := m.find(func(u *domain.User) bool { return u.Email == email })
	return err == nil, nil
}

// Delete implements the UserStore interface. Like the schema, it refuses to
// delete a user who still owns boards.
func (m *MockUserStore) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	m.DB.mu.Lock()
	defer m.DB.mu.Unlock()

	if _, ok := m.DB.Users[id]; !ok {
		return store.ErrUserNotFound
	}
	for _, b := range m.DB.Boards {
		if b.UserID == id {
			return store.ErrInvalidEntity
		}
	}
	delete(m.DB.Users, id)
	return nil
}

// WithTx implements the UserStore interface for transaction support.
// The mock has no transactions, so it returns itself.
func (m *MockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return m
}

func (m *MockUserStore) find(match func(*domain.User) bool) (*domain.User, error) {
	m.DB.mu.Lock()
	defer m.DB.mu.Unlock()

	for _, u := range m.DB.Users {
		if match(u) {
			out := *u
			return &out, nil
		}
	}
	return nil, store.ErrUserNotFound
}
