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

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// WithTx implements store.TaskStore.WithTx
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.TaskStore.Create
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Debug("task validation failed during create", slog.String("error", err.Error()))
		return err
	}

	query := `
		INSERT INTO tasks (board_id, title, description, status, position, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := s.db.QueryRowContext(ctx, query,
		task.BoardID,
		task.Title,
		task.Description,
		string(task.Status),
		task.Position,
		task.CreatedAt,
		task.UpdatedAt,
	).Scan(&task.ID)
	if err != nil {
		if IsForeignKeyViolation(err, tasksBoardIDFKey) {
			log.Debug("task board does not exist", slog.Int64("board_id", task.BoardID))
			return store.ErrBoardNotFound
		}
		log.Error("failed to create task",
			slog.Int64("board_id", task.BoardID),
			slog.String("error", err.Error()))
		return store.NewStoreError("task", "create", "failed to insert task", MapError(err))
	}

	log.Info("task created successfully",
		slog.Int64("task_id", task.ID),
		slog.Int64("board_id", task.BoardID),
		slog.String("status", string(task.Status)),
		slog.Int("position", task.Position))
	return nil
}

const taskSelect = `
	SELECT t.id, t.board_id, t.title, t.description, t.status, t.position,
	       t.created_at, t.updated_at, b.title AS board_title
	FROM tasks t
	JOIN boards b ON b.id = t.board_id
`

func scanTask(row rowScanner) (*domain.Task, error) {
	var t domain.Task
	var status string
	err := row.Scan(
		&t.ID,
		&t.BoardID,
		&t.Title,
		&t.Description,
		&status,
		&t.Position,
		&t.CreatedAt,
		&t.UpdatedAt,
		&t.BoardTitle,
	)
	if err != nil {
		return nil, err
	}
	t.Status = domain.TaskStatus(status)
	return &t, nil
}

// GetByID implements store.TaskStore.GetByID
func (s *PostgresTaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := scanTask(s.db.QueryRowContext(ctx, taskSelect+` WHERE t.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.Int64("task_id", id))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task",
			slog.Int64("task_id", id),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("task", "get", "failed to query task", MapError(err))
	}
	return task, nil
}

// ListByBoard implements store.TaskStore.ListByBoard
func (s *PostgresTaskStore) ListByBoard(
	ctx context.Context,
	boardID int64,
	status *domain.TaskStatus,
) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := taskSelect + ` WHERE t.board_id = $1`
	args := []any{boardID}
	if status != nil {
		query += ` AND t.status = $2`
		args = append(args, string(*status))
	}
	query += ` ORDER BY t.position ASC, t.id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list tasks",
			slog.Int64("board_id", boardID),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("task", "list", "failed to query tasks", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, store.NewStoreError("task", "list", "failed to scan task", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("task", "list", "failed to iterate tasks", err)
	}

	log.Debug("tasks listed", slog.Int64("board_id", boardID), slog.Int("count", len(tasks)))
	return tasks, nil
}

// MaxPosition implements store.TaskStore.MaxPosition
func (s *PostgresTaskStore) MaxPosition(
	ctx context.Context,
	boardID int64,
	status domain.TaskStatus,
) (int, bool, error) {
	var maxPos sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT MAX(position) FROM tasks WHERE board_id = $1 AND status = $2`,
		boardID, string(status),
	).Scan(&maxPos)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get max position",
			slog.Int64("board_id", boardID),
			slog.String("error", err.Error()))
		return 0, false, store.NewStoreError("task", "max_position", "failed to query position", MapError(err))
	}
	if !maxPos.Valid {
		return 0, false, nil
	}
	return int(maxPos.Int64), true, nil
}

// Update implements store.TaskStore.Update
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		return err
	}

	// board_id is intentionally absent: a task never changes board
	result, err := s.db.ExecContext(ctx, `
		UPDATE tasks
		SET title = $1, description = $2, status = $3, position = $4, updated_at = $5
		WHERE id = $6
	`, task.Title, task.Description, string(task.Status), task.Position, task.UpdatedAt, task.ID)
	if err != nil {
		log.Error("failed to update task",
			slog.Int64("task_id", task.ID),
			slog.String("error", err.Error()))
		return store.NewStoreError("task", "update", "failed to update task", MapError(err))
	}
	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		return err
	}

	log.Info("task updated successfully",
		slog.Int64("task_id", task.ID),
		slog.String("status", string(task.Status)),
		slog.Int("position", task.Position))
	return nil
}

// Delete implements store.TaskStore.Delete
func (s *PostgresTaskStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete task",
			slog.Int64("task_id", id),
			slog.String("error", err.Error()))
		return store.NewStoreError("task", "delete", "failed to delete task", MapError(err))
	}
	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		return err
	}

	log.Info("task deleted successfully", slog.Int64("task_id", id))
	return nil
}

// DeleteByBoard implements store.TaskStore.DeleteByBoard
func (s *PostgresTaskStore) DeleteByBoard(ctx context.Context, boardID int64) (int64, error) {
	return s.deleteMany(ctx, "board", `DELETE FROM tasks WHERE board_id = $1`, boardID)
}

// DeleteByOwner implements store.TaskStore.DeleteByOwner
func (s *PostgresTaskStore) DeleteByOwner(ctx context.Context, userID int64) (int64, error) {
	return s.deleteMany(ctx, "owner",
		`DELETE FROM tasks WHERE board_id IN (SELECT id FROM boards WHERE user_id = $1)`, userID)
}

func (s *PostgresTaskStore) deleteMany(ctx context.Context, scope, query string, id int64) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		log.Error("failed to delete tasks",
			slog.String("scope", scope),
			slog.Int64("scope_id", id),
			slog.String("error", err.Error()))
		return 0, store.NewStoreError("task", "delete", "failed to delete tasks", MapError(err))
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	log.Debug("tasks deleted",
		slog.String("scope", scope),
		slog.Int64("scope_id", id),
		slog.Int64("count", n))
	return n, nil
}
