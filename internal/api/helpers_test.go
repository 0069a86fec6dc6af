package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/kanbanboard/kanban-api/internal/api"
	"github.com/kanbanboard/kanban-api/internal/api/middleware"
	"github.com/kanbanboard/kanban-api/internal/mocks"
	"github.com/kanbanboard/kanban-api/internal/service"
	"github.com/kanbanboard/kanban-api/internal/service/auth"
	"github.com/stretchr/testify/require"
)

// testEnv serves the handlers over real services and in-memory stores.
type testEnv struct {
	db     *mocks.MemoryDB
	router http.Handler
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEnv(t *testing.T, requireOwnerForRead bool) *testEnv {
	t.Helper()

	db := mocks.NewMemoryDB()
	users := mocks.NewMockUserStore(db)
	boards := mocks.NewMockBoardStore(db)
	tasks := mocks.NewMockTaskStore(db)
	tx := &mocks.MockTxManager{}
	tokens := auth.RequireTestTokenService(t)
	log := discardLogger()

	authSvc, err := service.NewAuthService(users, boards, tasks, tx, tokens, auth.NewBcryptVerifier(), log)
	require.NoError(t, err)
	boardSvc, err := service.NewBoardService(users, boards, tasks, tx, log)
	require.NoError(t, err)
	taskSvc, err := service.NewTaskService(boards, tasks, tx, log)
	require.NoError(t, err)

	authHandler := api.NewAuthHandler(authSvc)
	boardHandler := api.NewBoardHandler(boardSvc, requireOwnerForRead)
	taskHandler := api.NewTaskHandler(taskSvc)
	gate := middleware.NewAuthGate(tokens, log)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Use(gate.Authenticate)
		r.Post("/auth/signup", authHandler.Signup)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/logout", authHandler.Logout)

		r.Group(func(r chi.Router) {
			r.Use(gate.RequireAuth)
			r.Get("/auth/me", authHandler.Me)
			r.Delete("/auth/me", authHandler.DeleteMe)

			r.Post("/boards", boardHandler.CreateBoard)
			r.Get("/boards", boardHandler.ListBoards)
			r.Get("/boards/{id}", boardHandler.GetBoard)
			r.Put("/boards/{id}", boardHandler.UpdateBoard)
			r.Delete("/boards/{id}", boardHandler.DeleteBoard)

			r.Post("/boards/{boardId}/tasks", taskHandler.CreateTask)
			r.Get("/boards/{boardId}/tasks", taskHandler.ListTasks)
			r.Get("/boards/{boardId}/tasks/next-position", taskHandler.NextPosition)

			r.Get("/tasks/{id}", taskHandler.GetTask)
			r.Put("/tasks/{id}", taskHandler.UpdateTask)
			r.Patch("/tasks/{id}/status", taskHandler.UpdateTaskStatus)
			r.Patch("/tasks/{id}/position", taskHandler.UpdateTaskPosition)
			r.Delete("/tasks/{id}", taskHandler.DeleteTask)
		})
	})

	return &testEnv{db: db, router: r}
}

// do sends a request. body may be nil, a raw string, or a value to encode.
func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// signup registers username and returns its token and id.
func (e *testEnv) signup(t *testing.T, username string) (string, int64) {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/auth/signup", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp api.AuthResponse
	decode(t, w, &resp)
	return resp.AccessToken, resp.UserID
}

func (e *testEnv) createBoard(t *testing.T, token, title string) api.BoardResponse {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/boards", map[string]string{"title": title}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var board api.BoardResponse
	decode(t, w, &board)
	return board
}

func (e *testEnv) createTask(t *testing.T, token string, boardID int64, title, status string, position int) api.TaskResponse {
	t.Helper()
	w := e.do(t, http.MethodPost, boardPath(boardID)+"/tasks", map[string]any{
		"title":    title,
		"status":   status,
		"position": position,
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var task api.TaskResponse
	decode(t, w, &task)
	return task
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	decode(t, w, &body)
	return body
}
