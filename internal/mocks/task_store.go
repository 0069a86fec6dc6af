package mocks

import (
	"context"
	"database/sql"

	"github.com/kanbanboard/kanban-api/internal/domain"
	"github.com/kanbanboard/kanban-api/internal/store"
)

// MockTaskStore implements store.TaskStore for testing
type MockTaskStore struct {
	CreateFn        func(ctx context.Context, task *domain.Task) error
	GetByIDFn       func(ctx context.Context, id int64) (*domain.Task, error)
	ListByBoardFn   func(ctx context.Context, boardID int64, status *domain.TaskStatus) ([]*domain.Task, error)
	MaxPositionFn   func(ctx context.Context, boardID int64, status domain.TaskStatus) (int, bool, error)
	UpdateFn        func(ctx context.Context, task *domain.Task) error
	DeleteFn        func(ctx context.Context, id int64) error
	DeleteByBoardFn func(ctx context.Context, boardID int64) (int64, error)
	DeleteByOwnerFn func(ctx context.Context, userID int64) (int64, error)

	// UpdateCalls counts Update invocations, including overridden ones.
	UpdateCalls int

	DB *MemoryDB
}

var _ store.TaskStore = (*MockTaskStore)(nil)

// NewMockTaskStore creates a mock task store backed by db.
func NewMockTaskStore(db *MemoryDB) *MockTaskStore {
	if db == nil {
		db = NewMemoryDB()
	}
	return &MockTaskStore{DB: db}
}

// Create implements the TaskStore interface
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}

	m.DB.mu.Lock()
	defer m.DB.mu.Unlock()

	if _, ok := m.DB.Boards[task.BoardID]; !ok {
		return store.ErrBoardNotFound
	}

	m.DB.nextTaskID++
	task.ID = m.DB.nextTaskID
	stored := *task
	stored.BoardTitle = ""
	m.DB.Tasks[task.ID] = &stored
	return nil
}

// GetByID implements the TaskStore interface
func (m *MockTaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.DB.mu.Lock()
	defer m.DB.mu.Unlock()

	t, ok := m.DB.Tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	return m.DB.taskWithBoardLocked(t), nil
}

// ListByBoard implements the TaskStore interface
func (m *MockTaskStore) ListByBoard(
	ctx context.Context,
	boardID int64,
	status *domain.TaskStatus,
) ([]*domain.Task, error) {
	if m.ListByBoardFn != nil {
		return m.ListByBoardFn(ctx, boardID, status)
	}

	m.DB.mu.Lock()
	defer m.DB.mu.Unlock()

	tasks := make([]*domain.Task, 0)
	for _, t := range m.DB.Tasks {
		if t.BoardID != boardID {
			continue
		}
		if status != nil && t.Status != *status {
			continue
		}
		tasks = append(tasks, m.DB.taskWithBoardLocked(t))
	}
	sortTasks(tasks)
	return tasks, nil
}

// MaxPosition implements the TaskStore interface
func (m *MockTaskStore) MaxPosition(
	ctx context.Context,
	boardID int64,
	status domain.TaskStatus,
) (int, bool, error) {
	if m.MaxPositionFn != nil {
		return m.MaxPositionFn(ctx, boardID, status)
	}

	m.DB.mu.Lock()
	defer m.DB.mu.Unlock()

	maxPos, found := 0, false
	for _, t := range m.DB.Tasks {
		if t.BoardID != boardID || t.Status != status {
			continue
		}
		if !found || t.Position > maxPos {
			maxPos = t.Position
			found = true
		}
	}
	return maxPos, found, nil
}

// Update implements the TaskStore interface. The board reference is kept.
func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	m.UpdateCalls++
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, task)
	}

	m.DB.mu.Lock()
	defer m.DB.mu.Unlock()

	existing, ok := m.DB.Tasks[task.ID]
	if !ok {
		return store.ErrTaskNotFound
	}
	existing.Title = task.Title
	existing.Description = task.Description
	existing.Status = task.Status
	existing.Position = task.Position
	existing.UpdatedAt = task.UpdatedAt
	return nil
}

// Delete implements the TaskStore interface
func (m *MockTaskStore) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	m.DB.mu.Lock()
	defer m.DB.mu.Unlock()

	if _, ok := m.DB.Tasks[id]; !ok {
		return store.ErrTaskNotFound
	}
	delete(m.DB.Tasks, id)
	return nil
}

// DeleteByBoard implements the TaskStore interface
func (m *MockTaskStore) DeleteByBoard(ctx context.Context, boardID int64) (int64, error) {
	if m.DeleteByBoardFn != nil {
		return m.DeleteByBoardFn(ctx, boardID)
	}

	m.DB.mu.Lock()
	defer m.DB.mu.Unlock()

	var n int64
	for id, t := range m.DB.Tasks {
		if t.BoardID == boardID {
			delete(m.DB.Tasks, id)
			n++
		}
	}
	return n, nil
}

// DeleteByOwner implements the TaskStore interface
func (m *MockTaskStore) DeleteByOwner(ctx context.Context, userID int64) (int64, error) {
	if m.DeleteByOwnerFn != nil {
		return m.DeleteByOwnerFn(ctx, userID)
	}

	m.DB.mu.Lock()
	defer m.DB.mu.Unlock()

	var n int64
	for id, t := range m.DB.Tasks {
		if b, ok := m.DB.Boards[t.BoardID]; ok && b.UserID == userID {
			delete(m.DB.Tasks, id)
			n++
		}
	}
	return n, nil
}

// WithTx implements the TaskStore interface for transaction support.
func (m *MockTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return m
}
