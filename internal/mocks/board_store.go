package mocks

import (
	"context"
	"database/sql"

	"github.com/kanbanboard/kanban-api/internal/domain"
	"github.com/kanbanboard/kanban-api/internal/store"
)

// MockBoardStore implements store.BoardStore for testing
type MockBoardStore struct {
	CreateFn        func(ctx context.Context, board *domain.Board) error
	GetByIDFn       func(ctx context.Context, id int64) (*domain.Board, error)
	ListByOwnerFn   func(ctx context.Context, userID int64) ([]*domain.Board, error)
	UpdateFn        func(ctx context.Context, board *domain.Board) error
	DeleteFn        func(ctx context.Context, id int64) error
	DeleteByOwnerFn func(ctx context.Context, userID int64) (int64, error)

	DB *MemoryDB
}

var _ store.BoardStore = (*MockBoardStore)(nil)

// NewMockBoardStore creates a mock board store backed by db.
func NewMockBoardStore(db *MemoryDB) *MockBoardStore {
	if db == nil {
		db = NewMemoryDB()
	}
	return &MockBoardStore{DB: db}
}

// Create implements the BoardStore interface
func (m *MockBoardStore) Create(ctx context.Context, board *domain.Board) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, board)
	}

	m.DB.mu.Lock()
	defer m.DB.mu.Unlock()

	if _, ok := m.DB.Users[board.UserID]; !ok {
		return store.ErrUserNotFound
	}

	m.DB.nextBoardID++
	board.ID = m.DB.nextBoardID
	stored := *board
	stored.TaskCount = 0
	m.DB.Boards[board.ID] = &stored
	return nil
}

// GetByID implements the BoardStore interface
func (m *MockBoardStore) GetByID(ctx context.Context, id int64) (*domain.Board, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.DB.mu.Lock()
	defer m.DB.mu.Unlock()

	b, ok := m.DB.Boards[id]
	if !ok {
		return nil, store.ErrBoardNotFound
	}
	return m.DB.boardWithCountLocked(b), nil
}

// ListByOwner implements the BoardStore interface
func (m *MockBoardStore) ListByOwner(ctx context.Context, userID int64) ([]*domain.Board, error) {
	if m.ListByOwnerFn != nil {
		return m.ListByOwnerFn(ctx, userID)
	}

	m.DB.mu.Lock()
	defer m.DB.mu.Unlock()

	boards := make([]*domain.Board, 0)
	for _, b := range m.DB.Boards {
		if b.UserID == userID {
			boards = append(boards, m.DB.boardWithCountLocked(b))
		}
	}
	sortBoardsNewestFirst(boards)
	return boards, nil
}

// Update implements the BoardStore interface
func (m *MockBoardStore) Update(ctx context.Context, board *domain.Board) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, board)
	}

	m.DB.mu.Lock()
	defer m.DB.mu.Unlock()

	existing, ok := m.DB.Boards[board.ID]
	if !ok {
		return store.ErrBoardNotFound
	}
	existing.Title = board.Title
	existing.Description = board.Description
	existing.UpdatedAt = board.UpdatedAt
	return nil
}

// Delete implements the BoardStore interface. Like the schema, it refuses
// to delete a board that still has tasks.
func (m *MockBoardStore) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	m.DB.mu.Lock()
	defer m.DB.mu.Unlock()

	if _, ok := m.DB.Boards[id]; !ok {
		return store.ErrBoardNotFound
	}
	if m.DB.taskCountLocked(id) > 0 {
		return store.ErrInvalidEntity
	}
	delete(m.DB.Boards, id)
	return nil
}

// DeleteByOwner implements the BoardStore interface
func (m *MockBoardStore) DeleteByOwner(ctx context.Context, userID int64) (int64, error) {
	if m.DeleteByOwnerFn != nil {
		return m.DeleteByOwnerFn(ctx, userID)
	}

	m.DB.mu.Lock()
	defer m.DB.mu.Unlock()

	var n int64
	for id, b := range m.DB.Boards {
		if b.UserID != userID {
			continue
		}
		if m.DB.taskCountLocked(id) > 0 {
			return n, store.ErrInvalidEntity
		}
		delete(m.DB.Boards, id)
		n++
	}
	return n, nil
}

// WithTx implements the BoardStore interface for transaction support.
func (m *MockBoardStore) WithTx(tx *sql.Tx) store.BoardStore {
	return m
}
