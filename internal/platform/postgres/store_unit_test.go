package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/kanbanboard/kanban-api/internal/domain"
	"github.com/kanbanboard/kanban-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

var (
	boardCols = []string{"id", "user_id", "title", "description", "created_at", "updated_at", "task_count"}
	taskCols  = []string{
		"id", "board_id", "title", "description", "status", "position",
		"created_at", "updated_at", "board_title",
	}
)

func TestNewStoresPanicOnNilDB(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { NewPostgresUserStore(nil, bcrypt.MinCost, nil) })
	assert.Panics(t, func() { NewPostgresBoardStore(nil, nil) })
	assert.Panics(t, func() { NewPostgresTaskStore(nil, nil) })
}

func TestPostgresUserStore_Create(t *testing.T) {
	t.Parallel()

	t.Run("hashes password and sets id", func(t *testing.T) {
		t.Parallel()
		db, mock := newMock(t)
		s := NewPostgresUserStore(db, bcrypt.MinCost, nil)

		mock.ExpectQuery(`INSERT INTO users`).
			WithArgs("alice", "alice@x.com", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))

		user, err := domain.NewUser("alice", "alice@x.com", "secret1")
		require.NoError(t, err)
		require.NoError(t, s.Create(context.Background(), user))

		assert.Equal(t, int64(11), user.ID)
		assert.Empty(t, user.Password, "plaintext must be cleared")
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte("secret1")))
	})

	t.Run("maps unique constraints", func(t *testing.T) {
		t.Parallel()

		cases := map[string]error{
			usersUsernameKey: store.ErrUsernameExists,
			usersEmailKey:    store.ErrEmailExists,
		}
		for constraint, want := range cases {
			db, mock := newMock(t)
			s := NewPostgresUserStore(db, bcrypt.MinCost, nil)
			mock.ExpectQuery(`INSERT INTO users`).
				WillReturnError(&pgconn.PgError{Code: uniqueViolationCode, ConstraintName: constraint})

			user, err := domain.NewUser("alice", "alice@x.com", "secret1")
			require.NoError(t, err)
			err = s.Create(context.Background(), user)
			assert.ErrorIs(t, err, want, constraint)
			assert.Zero(t, user.ID)
		}
	})

	t.Run("rejects invalid user without querying", func(t *testing.T) {
		t.Parallel()
		db, _ := newMock(t)
		s := NewPostgresUserStore(db, bcrypt.MinCost, nil)

		err := s.Create(context.Background(), &domain.User{Username: "al", Email: "alice@x.com", Password: "secret1"})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestPostgresUserStore_Lookups(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	cols := []string{"id", "username", "email", "hashed_password", "created_at", "updated_at"}

	t.Run("found by username", func(t *testing.T) {
		t.Parallel()
		db, mock := newMock(t)
		s := NewPostgresUserStore(db, bcrypt.MinCost, nil)

		mock.ExpectQuery(`FROM users WHERE username = \$1`).WithArgs("alice").
			WillReturnRows(sqlmock.NewRows(cols).AddRow(int64(1), "alice", "alice@x.com", "hash", now, now))

		user, err := s.GetByUsername(context.Background(), "alice")
		require.NoError(t, err)
		assert.Equal(t, int64(1), user.ID)
		assert.Equal(t, "hash", user.HashedPassword)
	})

	t.Run("missing email is ErrUserNotFound", func(t *testing.T) {
		t.Parallel()
		db, mock := newMock(t)
		s := NewPostgresUserStore(db, bcrypt.MinCost, nil)

		mock.ExpectQuery(`FROM users WHERE email = \$1`).WithArgs("nobody@x.com").
			WillReturnRows(sqlmock.NewRows(cols))

		_, err := s.GetByEmail(context.Background(), "nobody@x.com")
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})

	t.Run("exists", func(t *testing.T) {
		t.Parallel()
		db, mock := newMock(t)
		s := NewPostgresUserStore(db, bcrypt.MinCost, nil)

		mock.ExpectQuery(`SELECT EXISTS`).WithArgs("alice").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		found, err := s.ExistsByUsername(context.Background(), "alice")
		require.NoError(t, err)
		assert.True(t, found)
	})

	t.Run("delete missing user", func(t *testing.T) {
		t.Parallel()
		db, mock := newMock(t)
		s := NewPostgresUserStore(db, bcrypt.MinCost, nil)

		mock.ExpectExec(`DELETE FROM users`).WithArgs(int64(9)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, s.Delete(context.Background(), 9), store.ErrUserNotFound)
	})
}

func TestPostgresBoardStore(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()

	t.Run("create with missing owner", func(t *testing.T) {
		t.Parallel()
		db, mock := newMock(t)
		s := NewPostgresBoardStore(db, nil)

		mock.ExpectQuery(`INSERT INTO boards`).
			WillReturnError(&pgconn.PgError{Code: foreignKeyViolationCode, ConstraintName: boardsUserIDFKey})

		board, err := domain.NewBoard(99, "Sprint 1", "")
		require.NoError(t, err)
		assert.ErrorIs(t, s.Create(context.Background(), board), store.ErrUserNotFound)
	})

	t.Run("list newest first with task counts", func(t *testing.T) {
		t.Parallel()
		db, mock := newMock(t)
		s := NewPostgresBoardStore(db, nil)

		mock.ExpectQuery(`WHERE b.user_id = \$1 ORDER BY b.created_at DESC, b.id DESC`).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows(boardCols).
				AddRow(int64(2), int64(1), "Sprint 2", "", now, now, int64(0)).
				AddRow(int64(1), int64(1), "Sprint 1", "first", now.Add(-time.Hour), now, int64(3)))

		boards, err := s.ListByOwner(context.Background(), 1)
		require.NoError(t, err)
		require.Len(t, boards, 2)
		assert.Equal(t, "Sprint 2", boards[0].Title)
		assert.Equal(t, 3, boards[1].TaskCount)
	})

	t.Run("get missing board", func(t *testing.T) {
		t.Parallel()
		db, mock := newMock(t)
		s := NewPostgresBoardStore(db, nil)

		mock.ExpectQuery(`WHERE b.id = \$1`).WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows(boardCols))

		_, err := s.GetByID(context.Background(), 5)
		assert.ErrorIs(t, err, store.ErrBoardNotFound)
	})

	t.Run("update missing board", func(t *testing.T) {
		t.Parallel()
		db, mock := newMock(t)
		s := NewPostgresBoardStore(db, nil)

		mock.ExpectExec(`UPDATE boards`).WillReturnResult(sqlmock.NewResult(0, 0))

		board := &domain.Board{ID: 5, UserID: 1, Title: "x", UpdatedAt: now}
		assert.ErrorIs(t, s.Update(context.Background(), board), store.ErrBoardNotFound)
	})

	t.Run("delete surfaces driver errors", func(t *testing.T) {
		t.Parallel()
		db, mock := newMock(t)
		s := NewPostgresBoardStore(db, nil)

		mock.ExpectExec(`DELETE FROM boards WHERE id`).
			WillReturnError(&pgconn.PgError{Code: foreignKeyViolationCode, ConstraintName: tasksBoardIDFKey})

		err := s.Delete(context.Background(), 5)
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
		var storeErr *store.StoreError
		assert.True(t, errors.As(err, &storeErr))
	})
}

func TestPostgresTaskStore(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()

	t.Run("create on missing board", func(t *testing.T) {
		t.Parallel()
		db, mock := newMock(t)
		s := NewPostgresTaskStore(db, nil)

		mock.ExpectQuery(`INSERT INTO tasks`).
			WillReturnError(&pgconn.PgError{Code: foreignKeyViolationCode, ConstraintName: tasksBoardIDFKey})

		task, err := domain.NewTask(4, "Fix bug", "", domain.TaskStatusTodo, 0)
		require.NoError(t, err)
		assert.ErrorIs(t, s.Create(context.Background(), task), store.ErrBoardNotFound)
	})

	t.Run("list filtered by status in position order", func(t *testing.T) {
		t.Parallel()
		db, mock := newMock(t)
		s := NewPostgresTaskStore(db, nil)

		mock.ExpectQuery(`WHERE t.board_id = \$1 AND t.status = \$2 ORDER BY t.position ASC, t.id ASC`).
			WithArgs(int64(4), "DONE").
			WillReturnRows(sqlmock.NewRows(taskCols).
				AddRow(int64(8), int64(4), "Ship", "", "DONE", 0, now, now, "Sprint 1"))

		status := domain.TaskStatusDone
		tasks, err := s.ListByBoard(context.Background(), 4, &status)
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, domain.TaskStatusDone, tasks[0].Status)
		assert.Equal(t, "Sprint 1", tasks[0].BoardTitle)
	})

	t.Run("max position on empty column", func(t *testing.T) {
		t.Parallel()
		db, mock := newMock(t)
		s := NewPostgresTaskStore(db, nil)

		mock.ExpectQuery(`SELECT MAX\(position\)`).WithArgs(int64(4), "TODO").
			WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(nil))

		_, ok, err := s.MaxPosition(context.Background(), 4, domain.TaskStatusTodo)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("update never touches board_id", func(t *testing.T) {
		t.Parallel()
		db, mock := newMock(t)
		s := NewPostgresTaskStore(db, nil)

		mock.ExpectExec(`UPDATE tasks\s+SET title = \$1, description = \$2, status = \$3, position = \$4, updated_at = \$5\s+WHERE id = \$6`).
			WithArgs("Fix bug", "", "IN_PROGRESS", 0, now, int64(3)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		task := &domain.Task{
			ID: 3, BoardID: 4, Title: "Fix bug",
			Status: domain.TaskStatusInProgress, Position: 0, UpdatedAt: now,
		}
		assert.NoError(t, s.Update(context.Background(), task))
	})

	t.Run("delete by owner reports count", func(t *testing.T) {
		t.Parallel()
		db, mock := newMock(t)
		s := NewPostgresTaskStore(db, nil)

		mock.ExpectExec(`DELETE FROM tasks WHERE board_id IN \(SELECT id FROM boards WHERE user_id = \$1\)`).
			WithArgs(int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 4))

		n, err := s.DeleteByOwner(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, int64(4), n)
	})
}

func TestWithTxSharesConfiguration(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM tasks WHERE board_id = \$1`).WithArgs(int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	s := NewPostgresTaskStore(db, nil)
	err := store.RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
		_, err := s.WithTx(tx).DeleteByBoard(ctx, 2)
		return err
	})
	assert.NoError(t, err)
}
