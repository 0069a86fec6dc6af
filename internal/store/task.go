package store

import (
	"context"
	"database/sql"

	"github.com/kanbanboard/kanban-api/internal/domain"
)

// TaskStore defines the interface for task persistence.
// Read methods populate Task.BoardTitle.
type TaskStore interface {
	// Create inserts the task and sets task.ID.
	// Returns ErrBoardNotFound if the board does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task. Returns ErrTaskNotFound if absent.
	GetByID(ctx context.Context, id int64) (*domain.Task, error)

	// ListByBoard returns the board's tasks ordered by position, then id.
	// A nil status returns every column.
	ListByBoard(ctx context.Context, boardID int64, status *domain.TaskStatus) ([]*domain.Task, error)

	// MaxPosition returns the highest position in a (board, status) column.
	// ok is false when the column is empty.
	MaxPosition(ctx context.Context, boardID int64, status domain.TaskStatus) (pos int, ok bool, err error)

	// Update persists title, description, status, position and updated_at.
	// The board reference is never changed. Returns ErrTaskNotFound if absent.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task. Returns ErrTaskNotFound if absent.
	Delete(ctx context.Context, id int64) error

	// DeleteByBoard removes every task on a board and reports how many.
	DeleteByBoard(ctx context.Context, boardID int64) (int64, error)

	// DeleteByOwner removes every task on every board owned by userID.
	DeleteByOwner(ctx context.Context, userID int64) (int64, error)

	// WithTx returns a new TaskStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) TaskStore
}
