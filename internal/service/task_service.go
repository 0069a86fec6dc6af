package service

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/kanbanboard/kanban-api/internal/domain"
	"github.com/kanbanboard/kanban-api/internal/platform/logger"
	"github.com/kanbanboard/kanban-api/internal/store"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// CreateTaskParams holds the caller-supplied fields of a new task.
type CreateTaskParams struct {
	Title       string
	Description string
	Status      domain.TaskStatus
	Position    int
}

// TaskService manages tasks on boards owned by an explicit caller.
// Every operation resolves the task's board and rejects non-owners with ErrNotOwned.
type TaskService interface {
	// CreateTask adds a task to boardID.
	CreateTask(ctx context.Context, callerID, boardID int64, params CreateTaskParams) (*domain.Task, error)

	// ListTasks returns the board's tasks ordered by position, then id.
	// A non-nil status restricts the result to one column.
	ListTasks(ctx context.Context, callerID, boardID int64, status *domain.TaskStatus) ([]*domain.Task, error)

	// GetTask returns a single task.
	GetTask(ctx context.Context, callerID, taskID int64) (*domain.Task, error)

	// UpdateTaskInfo changes title and description only.
	UpdateTaskInfo(ctx context.Context, callerID, taskID int64, title, description string) (*domain.Task, error)

	// UpdateTaskStatus moves a task to a column and position in one write.
	UpdateTaskStatus(ctx context.Context, callerID, taskID int64, status domain.TaskStatus, position int) (*domain.Task, error)

	// UpdateTaskPosition changes the position only. Other tasks are not renumbered.
	UpdateTaskPosition(ctx context.Context, callerID, taskID int64, position int) (*domain.Task, error)

	// DeleteTask removes a task. Other tasks keep their positions.
	DeleteTask(ctx context.Context, callerID, taskID int64) error

	// NextPosition returns one past the highest position in a column, or 0 for an empty column.
	NextPosition(ctx context.Context, callerID, boardID int64, status domain.TaskStatus) (int, error)
}

type taskServiceImpl struct {
	boards store.BoardStore
	tasks  store.TaskStore
	tx     store.TxManager
	logger *slog.Logger
	tracer trace.Tracer
}

// NewTaskService creates a new TaskService.
// It returns an error if any of the required dependencies are nil.
func NewTaskService(
	boards store.BoardStore,
	tasks store.TaskStore,
	tx store.TxManager,
	logger *slog.Logger,
	opts ...Option,
) (TaskService, error) {
	switch {
	case boards == nil:
		return nil, domain.NewValidationError("boards", "cannot be nil")
	case tasks == nil:
		return nil, domain.NewValidationError("tasks", "cannot be nil")
	case tx == nil:
		return nil, domain.NewValidationError("tx", "cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		boards: boards,
		tasks:  tasks,
		tx:     tx,
		logger: logger.With(slog.String("component", "task_service")),
		tracer: newTracer(opts),
	}, nil
}

// ownedTask loads a task and checks the caller owns its board.
func ownedTask(
	ctx context.Context,
	boards store.BoardStore,
	tasks store.TaskStore,
	taskID, callerID int64,
) (*domain.Task, error) {
	task, err := tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if _, err := ownedBoard(ctx, boards, task.BoardID, callerID); err != nil {
		return nil, err
	}
	return task, nil
}

// mutateTask runs apply on an owned task and persists it in one transaction.
func (s *taskServiceImpl) mutateTask(
	ctx context.Context,
	callerID, taskID int64,
	apply func(*domain.Task) error,
) (*domain.Task, error) {
	var updated *domain.Task
	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txTasks := s.tasks.WithTx(tx)

		task, err := ownedTask(ctx, s.boards.WithTx(tx), txTasks, taskID, callerID)
		if err != nil {
			return err
		}
		if err := apply(task); err != nil {
			return err
		}
		if err := txTasks.Update(ctx, task); err != nil {
			return err
		}
		updated = task
		return nil
	})
	return updated, err
}

// CreateTask implements TaskService.CreateTask
func (s *taskServiceImpl) CreateTask(
	ctx context.Context,
	callerID, boardID int64,
	params CreateTaskParams,
) (task *domain.Task, err error) {
	ctx, span := startSpan(ctx, s.tracer, "TaskService.CreateTask",
		attribute.Int64("board.id", boardID),
		attribute.Int64("user.id", callerID))
	log := logger.FromContextOrDefault(ctx, s.logger)
	defer func() { finish(span, log, "failed to create task", err, slog.Int64("board_id", boardID)) }()

	err = s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		board, err := ownedBoard(ctx, s.boards.WithTx(tx), boardID, callerID)
		if err != nil {
			return err
		}

		t, err := domain.NewTask(boardID, params.Title, params.Description, params.Status, params.Position)
		if err != nil {
			return err
		}
		if err := s.tasks.WithTx(tx).Create(ctx, t); err != nil {
			return err
		}
		t.BoardTitle = board.Title
		task = t
		return nil
	})
	if err != nil {
		return nil, NewServiceError("task", "create", err)
	}

	span.SetAttributes(attribute.Int64("task.id", task.ID))
	log.Info("task created",
		slog.Int64("task_id", task.ID),
		slog.Int64("board_id", boardID))
	return task, nil
}

// ListTasks implements TaskService.ListTasks
func (s *taskServiceImpl) ListTasks(
	ctx context.Context,
	callerID, boardID int64,
	status *domain.TaskStatus,
) (tasks []*domain.Task, err error) {
	ctx, span := startSpan(ctx, s.tracer, "TaskService.ListTasks",
		attribute.Int64("board.id", boardID),
		attribute.Int64("user.id", callerID))
	log := logger.FromContextOrDefault(ctx, s.logger)
	defer func() { finish(span, log, "failed to list tasks", err, slog.Int64("board_id", boardID)) }()

	if status != nil && !status.IsValid() {
		return nil, NewServiceError("task", "list",
			domain.NewValidationError("status", "must be one of TODO, IN_PROGRESS, DONE"))
	}

	if _, err = ownedBoard(ctx, s.boards, boardID, callerID); err != nil {
		return nil, NewServiceError("task", "list", err)
	}

	tasks, err = s.tasks.ListByBoard(ctx, boardID, status)
	if err != nil {
		return nil, NewServiceError("task", "list", err)
	}
	return tasks, nil
}

// GetTask implements TaskService.GetTask
func (s *taskServiceImpl) GetTask(ctx context.Context, callerID, taskID int64) (task *domain.Task, err error) {
	ctx, span := startSpan(ctx, s.tracer, "TaskService.GetTask",
		attribute.Int64("task.id", taskID),
		attribute.Int64("user.id", callerID))
	log := logger.FromContextOrDefault(ctx, s.logger)
	defer func() { finish(span, log, "failed to get task", err, slog.Int64("task_id", taskID)) }()

	task, err = ownedTask(ctx, s.boards, s.tasks, taskID, callerID)
	if err != nil {
		return nil, NewServiceError("task", "get", err)
	}
	return task, nil
}

// UpdateTaskInfo implements TaskService.UpdateTaskInfo
func (s *taskServiceImpl) UpdateTaskInfo(
	ctx context.Context,
	callerID, taskID int64,
	title, description string,
) (task *domain.Task, err error) {
	ctx, span := startSpan(ctx, s.tracer, "TaskService.UpdateTaskInfo",
		attribute.Int64("task.id", taskID),
		attribute.Int64("user.id", callerID))
	log := logger.FromContextOrDefault(ctx, s.logger)
	defer func() { finish(span, log, "failed to update task", err, slog.Int64("task_id", taskID)) }()

	task, err = s.mutateTask(ctx, callerID, taskID, func(t *domain.Task) error {
		return t.UpdateInfo(title, description)
	})
	if err != nil {
		return nil, NewServiceError("task", "update_info", err)
	}
	return task, nil
}

// UpdateTaskStatus implements TaskService.UpdateTaskStatus
func (s *taskServiceImpl) UpdateTaskStatus(
	ctx context.Context,
	callerID, taskID int64,
	status domain.TaskStatus,
	position int,
) (task *domain.Task, err error) {
	ctx, span := startSpan(ctx, s.tracer, "TaskService.UpdateTaskStatus",
		attribute.Int64("task.id", taskID),
		attribute.Int64("user.id", callerID),
		attribute.String("task.status", string(status)))
	log := logger.FromContextOrDefault(ctx, s.logger)
	defer func() { finish(span, log, "failed to update task status", err, slog.Int64("task_id", taskID)) }()

	task, err = s.mutateTask(ctx, callerID, taskID, func(t *domain.Task) error {
		return t.UpdateStatus(status, position)
	})
	if err != nil {
		return nil, NewServiceError("task", "update_status", err)
	}

	log.Debug("task status changed",
		slog.Int64("task_id", taskID),
		slog.String("status", string(status)),
		slog.Int("position", position))
	return task, nil
}

// UpdateTaskPosition implements TaskService.UpdateTaskPosition
func (s *taskServiceImpl) UpdateTaskPosition(
	ctx context.Context,
	callerID, taskID int64,
	position int,
) (task *domain.Task, err error) {
	ctx, span := startSpan(ctx, s.tracer, "TaskService.UpdateTaskPosition",
		attribute.Int64("task.id", taskID),
		attribute.Int64("user.id", callerID))
	log := logger.FromContextOrDefault(ctx, s.logger)
	defer func() { finish(span, log, "failed to update task position", err, slog.Int64("task_id", taskID)) }()

	task, err = s.mutateTask(ctx, callerID, taskID, func(t *domain.Task) error {
		return t.UpdatePosition(position)
	})
	if err != nil {
		return nil, NewServiceError("task", "update_position", err)
	}
	return task, nil
}

// DeleteTask implements TaskService.DeleteTask
func (s *taskServiceImpl) DeleteTask(ctx context.Context, callerID, taskID int64) (err error) {
	ctx, span := startSpan(ctx, s.tracer, "TaskService.DeleteTask",
		attribute.Int64("task.id", taskID),
		attribute.Int64("user.id", callerID))
	log := logger.FromContextOrDefault(ctx, s.logger)
	defer func() { finish(span, log, "failed to delete task", err, slog.Int64("task_id", taskID)) }()

	err = s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txTasks := s.tasks.WithTx(tx)
		if _, err := ownedTask(ctx, s.boards.WithTx(tx), txTasks, taskID, callerID); err != nil {
			return err
		}
		return txTasks.Delete(ctx, taskID)
	})
	if err != nil {
		return NewServiceError("task", "delete", err)
	}

	log.Info("task deleted", slog.Int64("task_id", taskID))
	return nil
}

// NextPosition implements TaskService.NextPosition
func (s *taskServiceImpl) NextPosition(
	ctx context.Context,
	callerID, boardID int64,
	status domain.TaskStatus,
) (pos int, err error) {
	ctx, span := startSpan(ctx, s.tracer, "TaskService.NextPosition",
		attribute.Int64("board.id", boardID),
		attribute.Int64("user.id", callerID))
	log := logger.FromContextOrDefault(ctx, s.logger)
	defer func() { finish(span, log, "failed to compute next position", err, slog.Int64("board_id", boardID)) }()

	if !status.IsValid() {
		return 0, NewServiceError("task", "next_position",
			domain.NewValidationError("status", "must be one of TODO, IN_PROGRESS, DONE"))
	}

	if _, err = ownedBoard(ctx, s.boards, boardID, callerID); err != nil {
		return 0, NewServiceError("task", "next_position", err)
	}

	maxPos, ok, err := s.tasks.MaxPosition(ctx, boardID, status)
	if err != nil {
		return 0, NewServiceError("task", "next_position", err)
	}
	if !ok {
		return 0, nil
	}
	if maxPos >= domain.TaskPositionMax {
		return 0, NewServiceError("task", "next_position",
			domain.NewValidationError("position", "column has no free position after the maximum"))
	}
	return maxPos + 1, nil
}
