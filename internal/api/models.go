package api

import (
	"time"

	"github.com/kanbanboard/kanban-api/internal/domain"
	"github.com/kanbanboard/kanban-api/internal/service"
)

// Common request/response structures

// SignupRequest defines the payload for the signup endpoint.
type SignupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email"    validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail" validate:"required"`
	Password        string `json:"password"        validate:"required"`
}

// AuthResponse defines the successful response for signup and login.
type AuthResponse struct {
	// AccessToken is the JWT used for API authorization
	AccessToken string `json:"accessToken"`

	// TokenType is always "Bearer"
	TokenType string `json:"tokenType"`

	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// MessageResponse carries a human-readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// BoardRequest defines the payload for creating or updating a board.
type BoardRequest struct {
	Title       string `json:"title"       validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"max=500"`
}

// BoardResponse is the wire form of a board.
type BoardResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	UserID      int64     `json:"userId"`
	TaskCount   int       `json:"taskCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateTaskRequest defines the payload for creating a task.
// Descriptions over the entity limit pass here and fail domain validation.
type CreateTaskRequest struct {
	Title       string `json:"title"       validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Status      string `json:"status"      validate:"required,oneof=TODO IN_PROGRESS DONE"`
	Position    *int   `json:"position"    validate:"required,min=-2147483648,max=2147483647"`
}

// UpdateTaskRequest defines the payload for changing title and description.
type UpdateTaskRequest struct {
	Title       string `json:"title"       validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

// UpdateTaskStatusRequest defines the payload for moving a task between columns.
type UpdateTaskStatusRequest struct {
	Status   string `json:"status"   validate:"required,oneof=TODO IN_PROGRESS DONE"`
	Position *int   `json:"position" validate:"required,min=-2147483648,max=2147483647"`
}

// UpdateTaskPositionRequest defines the payload for reordering a task.
type UpdateTaskPositionRequest struct {
	Position *int `json:"position" validate:"required,min=-2147483648,max=2147483647"`
}

// TaskResponse is the wire form of a task.
type TaskResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Position    int       `json:"position"`
	BoardID     int64     `json:"boardId"`
	BoardTitle  string    `json:"boardTitle"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NextPositionResponse reports the next free slot in a column.
type NextPositionResponse struct {
	Status   string `json:"status"`
	Position int    `json:"position"`
}

func authResultToResponse(result *service.AuthResult) AuthResponse {
	return AuthResponse{
		AccessToken: result.Token,
		TokenType:   "Bearer",
		UserID:      result.User.ID,
		Username:    result.User.Username,
		Email:       result.User.Email,
	}
}

func userToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}
}

func boardToResponse(board *domain.Board) BoardResponse {
	return BoardResponse{
		ID:          board.ID,
		Title:       board.Title,
		Description: board.Description,
		UserID:      board.UserID,
		TaskCount:   board.TaskCount,
		CreatedAt:   board.CreatedAt,
		UpdatedAt:   board.UpdatedAt,
	}
}

func boardsToResponse(boards []*domain.Board) []BoardResponse {
	out := make([]BoardResponse, 0, len(boards))
	for _, b := range boards {
		out = append(out, boardToResponse(b))
	}
	return out
}

func taskToResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		Position:    task.Position,
		BoardID:     task.BoardID,
		BoardTitle:  task.BoardTitle,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

func tasksToResponse(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, taskToResponse(t))
	}
	return out
}
