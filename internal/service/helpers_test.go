package service_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/kanbanboard/kanban-api/internal/domain"
	"github.com/kanbanboard/kanban-api/internal/mocks"
	"github.com/kanbanboard/kanban-api/internal/service"
	"github.com/kanbanboard/kanban-api/internal/service/auth"
	"github.com/stretchr/testify/require"
)

// fixture wires every service over one in-memory database.
type fixture struct {
	db     *mocks.MemoryDB
	users  *mocks.MockUserStore
	boards *mocks.MockBoardStore
	tasks  *mocks.MockTaskStore
	tx     *mocks.MockTxManager

	authSvc  service.AuthService
	boardSvc service.BoardService
	taskSvc  service.TaskService
	tokens   auth.TokenService
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newFixture(t *testing.T, opts ...service.Option) *fixture {
	t.Helper()

	f := &fixture{db: mocks.NewMemoryDB(), tx: &mocks.MockTxManager{}}
	f.users = mocks.NewMockUserStore(f.db)
	f.boards = mocks.NewMockBoardStore(f.db)
	f.tasks = mocks.NewMockTaskStore(f.db)
	f.tokens = auth.RequireTestTokenService(t)

	var err error
	f.authSvc, err = service.NewAuthService(
		f.users, f.boards, f.tasks, f.tx, f.tokens, auth.NewBcryptVerifier(), discardLogger(), opts...)
	require.NoError(t, err)
	f.boardSvc, err = service.NewBoardService(f.users, f.boards, f.tasks, f.tx, discardLogger(), opts...)
	require.NoError(t, err)
	f.taskSvc, err = service.NewTaskService(f.boards, f.tasks, f.tx, discardLogger(), opts...)
	require.NoError(t, err)

	return f
}

func (f *fixture) mustUser(t *testing.T, username string) *domain.User {
	t.Helper()
	user, err := domain.NewUser(username, username+"@example.com", "password123")
	require.NoError(t, err)
	require.NoError(t, f.users.Create(context.Background(), user))
	return user
}

func (f *fixture) mustBoard(t *testing.T, ownerID int64, title string) *domain.Board {
	t.Helper()
	board, err := f.boardSvc.CreateBoard(context.Background(), ownerID, title, "")
	require.NoError(t, err)
	return board
}

func (f *fixture) mustTask(
	t *testing.T,
	ownerID, boardID int64,
	title string,
	status domain.TaskStatus,
	position int,
) *domain.Task {
	t.Helper()
	task, err := f.taskSvc.CreateTask(context.Background(), ownerID, boardID, service.CreateTaskParams{
		Title:    title,
		Status:   status,
		Position: position,
	})
	require.NoError(t, err)
	return task
}
