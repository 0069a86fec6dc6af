package store

import (
	"context"
	"database/sql"

	"github.com/kanbanboard/kanban-api/internal/domain"
)

// BoardStore defines the interface for board persistence.
// Read methods populate Board.TaskCount.
type BoardStore interface {
	// Create inserts the board and sets board.ID.
	// Returns ErrUserNotFound if the owner does not exist.
	Create(ctx context.Context, board *domain.Board) error

	// GetByID retrieves a board. Returns ErrBoardNotFound if absent.
	GetByID(ctx context.Context, id int64) (*domain.Board, error)

	// ListByOwner returns the user's boards, most recently created first.
	ListByOwner(ctx context.Context, userID int64) ([]*domain.Board, error)

	// Update persists title, description and updated_at.
	// Returns ErrBoardNotFound if absent.
	Update(ctx context.Context, board *domain.Board) error

	// Delete removes a board row. Its tasks must already be gone.
	// Returns ErrBoardNotFound if absent.
	Delete(ctx context.Context, id int64) error

	// DeleteByOwner removes every board owned by userID and reports how many.
	DeleteByOwner(ctx context.Context, userID int64) (int64, error)

	// WithTx returns a new BoardStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) BoardStore
}
