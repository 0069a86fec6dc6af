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

// BoardService manages boards on behalf of an explicit caller.
type BoardService interface {
	// CreateBoard creates a board owned by ownerID.
	// Returns store.ErrUserNotFound if the owner does not exist.
	CreateBoard(ctx context.Context, ownerID int64, title, description string) (*domain.Board, error)

	// ListBoards returns the owner's boards, newest first, with task counts.
	ListBoards(ctx context.Context, ownerID int64) ([]*domain.Board, error)

	// GetBoard returns a board by id without checking ownership.
	GetBoard(ctx context.Context, id int64) (*domain.Board, error)

	// GetOwnedBoard returns a board only if callerID owns it.
	GetOwnedBoard(ctx context.Context, id, callerID int64) (*domain.Board, error)

	// UpdateBoard overwrites title and description. Owner only.
	UpdateBoard(ctx context.Context, id, callerID int64, title, description string) (*domain.Board, error)

	// DeleteBoard removes the board's tasks, then the board. Owner only.
	DeleteBoard(ctx context.Context, id, callerID int64) error
}

type boardServiceImpl struct {
	users  store.UserStore
	boards store.BoardStore
	tasks  store.TaskStore
	tx     store.TxManager
	logger *slog.Logger
	tracer trace.Tracer
}

// NewBoardService creates a new BoardService.
// It returns an error if any of the required dependencies are nil.
func NewBoardService(
	users store.UserStore,
	boards store.BoardStore,
	tasks store.TaskStore,
	tx store.TxManager,
	logger *slog.Logger,
	opts ...Option,
) (BoardService, error) {
	switch {
	case users == nil:
		return nil, domain.NewValidationError("users", "cannot be nil")
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

	return &boardServiceImpl{
		users:  users,
		boards: boards,
		tasks:  tasks,
		tx:     tx,
		logger: logger.With(slog.String("component", "board_service")),
		tracer: newTracer(opts),
	}, nil
}

// ownedBoard loads a board and checks the caller owns it.
// NotFound takes precedence over Forbidden.
func ownedBoard(ctx context.Context, boards store.BoardStore, boardID, callerID int64) (*domain.Board, error) {
	board, err := boards.GetByID(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if !board.IsOwnedBy(callerID) {
		return nil, ErrNotOwned
	}
	return board, nil
}

// CreateBoard implements BoardService.CreateBoard
func (s *boardServiceImpl) CreateBoard(
	ctx context.Context,
	ownerID int64,
	title, description string,
) (board *domain.Board, err error) {
	ctx, span := startSpan(ctx, s.tracer, "BoardService.CreateBoard",
		attribute.Int64("user.id", ownerID))
	log := logger.FromContextOrDefault(ctx, s.logger)
	defer func() { finish(span, log, "failed to create board", err, slog.Int64("user_id", ownerID)) }()

	board, err = domain.NewBoard(ownerID, title, description)
	if err != nil {
		return nil, NewServiceError("board", "create", err)
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := s.users.WithTx(tx).GetByID(ctx, ownerID); err != nil {
			return err
		}
		return s.boards.WithTx(tx).Create(ctx, board)
	})
	if err != nil {
		return nil, NewServiceError("board", "create", err)
	}

	span.SetAttributes(attribute.Int64("board.id", board.ID))
	log.Info("board created",
		slog.Int64("board_id", board.ID),
		slog.Int64("user_id", ownerID))
	return board, nil
}

// ListBoards implements BoardService.ListBoards
func (s *boardServiceImpl) ListBoards(ctx context.Context, ownerID int64) (boards []*domain.Board, err error) {
	ctx, span := startSpan(ctx, s.tracer, "BoardService.ListBoards",
		attribute.Int64("user.id", ownerID))
	log := logger.FromContextOrDefault(ctx, s.logger)
	defer func() { finish(span, log, "failed to list boards", err, slog.Int64("user_id", ownerID)) }()

	boards, err = s.boards.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, NewServiceError("board", "list", err)
	}
	return boards, nil
}

// GetBoard implements BoardService.GetBoard
func (s *boardServiceImpl) GetBoard(ctx context.Context, id int64) (board *domain.Board, err error) {
	ctx, span := startSpan(ctx, s.tracer, "BoardService.GetBoard",
		attribute.Int64("board.id", id))
	log := logger.FromContextOrDefault(ctx, s.logger)
	defer func() { finish(span, log, "failed to get board", err, slog.Int64("board_id", id)) }()

	board, err = s.boards.GetByID(ctx, id)
	if err != nil {
		return nil, NewServiceError("board", "get", err)
	}
	return board, nil
}

// GetOwnedBoard implements BoardService.GetOwnedBoard
func (s *boardServiceImpl) GetOwnedBoard(ctx context.Context, id, callerID int64) (board *domain.Board, err error) {
	ctx, span := startSpan(ctx, s.tracer, "BoardService.GetOwnedBoard",
		attribute.Int64("board.id", id),
		attribute.Int64("user.id", callerID))
	log := logger.FromContextOrDefault(ctx, s.logger)
	defer func() { finish(span, log, "failed to get board", err, slog.Int64("board_id", id)) }()

	board, err = ownedBoard(ctx, s.boards, id, callerID)
	if err != nil {
		return nil, NewServiceError("board", "get", err)
	}
	return board, nil
}

// UpdateBoard implements BoardService.UpdateBoard
func (s *boardServiceImpl) UpdateBoard(
	ctx context.Context,
	id, callerID int64,
	title, description string,
) (board *domain.Board, err error) {
	ctx, span := startSpan(ctx, s.tracer, "BoardService.UpdateBoard",
		attribute.Int64("board.id", id),
		attribute.Int64("user.id", callerID))
	log := logger.FromContextOrDefault(ctx, s.logger)
	defer func() { finish(span, log, "failed to update board", err, slog.Int64("board_id", id)) }()

	err = s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txBoards := s.boards.WithTx(tx)

		b, err := ownedBoard(ctx, txBoards, id, callerID)
		if err != nil {
			return err
		}
		if err := b.Update(title, description); err != nil {
			return err
		}
		if err := txBoards.Update(ctx, b); err != nil {
			return err
		}
		board = b
		return nil
	})
	if err != nil {
		return nil, NewServiceError("board", "update", err)
	}

	log.Info("board updated", slog.Int64("board_id", id))
	return board, nil
}

// DeleteBoard implements BoardService.DeleteBoard
func (s *boardServiceImpl) DeleteBoard(ctx context.Context, id, callerID int64) (err error) {
	ctx, span := startSpan(ctx, s.tracer, "BoardService.DeleteBoard",
		attribute.Int64("board.id", id),
		attribute.Int64("user.id", callerID))
	log := logger.FromContextOrDefault(ctx, s.logger)
	defer func() { finish(span, log, "failed to delete board", err, slog.Int64("board_id", id)) }()

	err = s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txBoards := s.boards.WithTx(tx)

		if _, err := ownedBoard(ctx, txBoards, id, callerID); err != nil {
			return err
		}

		removed, err := s.tasks.WithTx(tx).DeleteByBoard(ctx, id)
		if err != nil {
			return err
		}
		if err := txBoards.Delete(ctx, id); err != nil {
			return err
		}

		log.Info("board deleted",
			slog.Int64("board_id", id),
			slog.Int64("tasks_removed", removed))
		return nil
	})
	return NewServiceError("board", "delete", err)
}
