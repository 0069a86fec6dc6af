package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/kanbanboard/kanban-api/internal/domain"
	"github.com/kanbanboard/kanban-api/internal/platform/logger"
	"github.com/kanbanboard/kanban-api/internal/store"
)

// PostgresBoardStore implements the store.BoardStore interface
// using a PostgreSQL database as the storage backend.
type PostgresBoardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresBoardStore creates a new PostgreSQL implementation of the BoardStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresBoardStore(db store.DBTX, logger *slog.Logger) *PostgresBoardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresBoardStore{
		db:     db,
		logger: logger.With(slog.String("component", "board_store")),
	}
}

// Ensure PostgresBoardStore implements store.BoardStore interface
var _ store.BoardStore = (*PostgresBoardStore)(nil)

// WithTx implements store.BoardStore.WithTx
func (s *PostgresBoardStore) WithTx(tx *sql.Tx) store.BoardStore {
	return &PostgresBoardStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.BoardStore.Create
func (s *PostgresBoardStore) Create(ctx context.Context, board *domain.Board) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := board.Validate(); err != nil {
		log.Debug("board validation failed during create", slog.String("error", err.Error()))
		return err
	}

	query := `
		INSERT INTO boards (user_id, title, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := s.db.QueryRowContext(ctx, query,
		board.UserID,
		board.Title,
		board.Description,
		board.CreatedAt,
		board.UpdatedAt,
	).Scan(&board.ID)
	if err != nil {
		if IsForeignKeyViolation(err, boardsUserIDFKey) {
			log.Debug("board owner does not exist", slog.Int64("user_id", board.UserID))
			return store.ErrUserNotFound
		}
		log.Error("failed to create board",
			slog.Int64("user_id", board.UserID),
			slog.String("error", err.Error()))
		return store.NewStoreError("board", "create", "failed to insert board", MapError(err))
	}
	board.TaskCount = 0

	log.Info("board created successfully",
		slog.Int64("board_id", board.ID),
		slog.Int64("user_id", board.UserID))
	return nil
}

const boardSelect = `
	SELECT b.id, b.user_id, b.title, b.description, b.created_at, b.updated_at,
	       (SELECT COUNT(*) FROM tasks t WHERE t.board_id = b.id) AS task_count
	FROM boards b
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBoard(row rowScanner) (*domain.Board, error) {
	var b domain.Board
	err := row.Scan(
		&b.ID,
		&b.UserID,
		&b.Title,
		&b.Description,
		&b.CreatedAt,
		&b.UpdatedAt,
		&b.TaskCount,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// GetByID implements store.BoardStore.GetByID
func (s *PostgresBoardStore) GetByID(ctx context.Context, id int64) (*domain.Board, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	board, err := scanBoard(s.db.QueryRowContext(ctx, boardSelect+` WHERE b.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("board not found", slog.Int64("board_id", id))
			return nil, store.ErrBoardNotFound
		}
		log.Error("failed to get board",
			slog.Int64("board_id", id),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("board", "get", "failed to query board", MapError(err))
	}
	return board, nil
}

// ListByOwner implements store.BoardStore.ListByOwner
func (s *PostgresBoardStore) ListByOwner(ctx context.Context, userID int64) ([]*domain.Board, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx,
		boardSelect+` WHERE b.user_id = $1 ORDER BY b.created_at DESC, b.id DESC`, userID)
	if err != nil {
		log.Error("failed to list boards",
			slog.Int64("user_id", userID),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("board", "list", "failed to query boards", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	boards := make([]*domain.Board, 0)
	for rows.Next() {
		board, err := scanBoard(rows)
		if err != nil {
			return nil, store.NewStoreError("board", "list", "failed to scan board", err)
		}
		boards = append(boards, board)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("board", "list", "failed to iterate boards", err)
	}

	log.Debug("boards listed", slog.Int64("user_id", userID), slog.Int("count", len(boards)))
	return boards, nil
}

// Update implements store.BoardStore.Update
func (s *PostgresBoardStore) Update(ctx context.Context, board *domain.Board) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := board.Validate(); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE boards
		SET title = $1, description = $2, updated_at = $3
		WHERE id = $4
	`, board.Title, board.Description, board.UpdatedAt, board.ID)
	if err != nil {
		log.Error("failed to update board",
			slog.Int64("board_id", board.ID),
			slog.String("error", err.Error()))
		return store.NewStoreError("board", "update", "failed to update board", MapError(err))
	}
	if err := CheckRowsAffected(result, store.ErrBoardNotFound); err != nil {
		return err
	}

	log.Info("board updated successfully", slog.Int64("board_id", board.ID))
	return nil
}

// Delete implements store.BoardStore.Delete
func (s *PostgresBoardStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM boards WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete board",
			slog.Int64("board_id", id),
			slog.String("error", err.Error()))
		return store.NewStoreError("board", "delete", "failed to delete board", MapError(err))
	}
	if err := CheckRowsAffected(result, store.ErrBoardNotFound); err != nil {
		return err
	}

	log.Info("board deleted successfully", slog.Int64("board_id", id))
	return nil
}

// DeleteByOwner implements store.BoardStore.DeleteByOwner
func (s *PostgresBoardStore) DeleteByOwner(ctx context.Context, userID int64) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM boards WHERE user_id = $1`, userID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete boards by owner",
			slog.Int64("user_id", userID),
			slog.String("error", err.Error()))
		return 0, store.NewStoreError("board", "delete", "failed to delete boards", MapError(err))
	}
	return result.RowsAffected()
}
