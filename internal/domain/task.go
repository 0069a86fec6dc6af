package domain

import (
	"fmt"
	"math"
	"time"
	"unicode/utf8"
)

// Field limits for tasks.
const (
	TaskTitleMaxLength       = 200
	TaskDescriptionMaxLength = 1000

	// Positions are stored in a 32-bit column.
	TaskPositionMin = math.MinInt32
	TaskPositionMax = math.MaxInt32
)

// TaskStatus is the kanban column a task sits in.
type TaskStatus string

// Task statuses. Any status may move directly to any other.
const (
	TaskStatusTodo       TaskStatus = "TODO"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusDone       TaskStatus = "DONE"
)

// TaskStatuses lists every valid status in board column order.
var TaskStatuses = []TaskStatus{TaskStatusTodo, TaskStatusInProgress, TaskStatusDone}

// IsValid reports whether s is one of the defined statuses.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

// ParseTaskStatus converts a wire value into a TaskStatus.
func ParseTaskStatus(s string) (TaskStatus, error) {
	status := TaskStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidTaskStatus, s)
	}
	return status, nil
}

// Task is a card on a board. Position orders tasks inside a status column;
// it is advisory and neither unique nor contiguous.
type Task struct {
	ID          int64
	BoardID     int64
	Title       string
	Description string
	Status      TaskStatus
	Position    int
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// BoardTitle is joined in by read queries and never persisted.
	BoardTitle string
}

// NewTask creates an unsaved Task on boardID.
func NewTask(boardID int64, title, description string, status TaskStatus, position int) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		BoardID:     boardID,
		Title:       title,
		Description: description,
		Status:      status,
		Position:    position,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}
	return task, nil
}

// UpdateInfo changes title and description only.
func (t *Task) UpdateInfo(title, description string) error {
	candidate := *t
	candidate.Title = title
	candidate.Description = description
	if err := candidate.Validate(); err != nil {
		return err
	}

	t.Title = title
	t.Description = description
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// UpdateStatus moves the task to a column and slot in one step.
// Sibling positions are never adjusted.
func (t *Task) UpdateStatus(status TaskStatus, position int) error {
	if !status.IsValid() {
		return NewValidationError("status", "must be one of TODO, IN_PROGRESS, DONE")
	}
	if err := validatePosition(position); err != nil {
		return err
	}

	t.Status = status
	t.Position = position
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// UpdatePosition changes the position only.
func (t *Task) UpdatePosition(position int) error {
	if err := validatePosition(position); err != nil {
		return err
	}

	t.Position = position
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	var errs ValidationErrors

	if t.BoardID <= 0 {
		errs = append(errs, NewValidationError("boardId", "is required"))
	}
	errs = append(errs, validateTitle(t.Title, TaskTitleMaxLength)...)
	if utf8.RuneCountInString(t.Description) > TaskDescriptionMaxLength {
		errs = append(errs, NewValidationError("description", "must be at most 1000 characters"))
	}
	if !t.Status.IsValid() {
		errs = append(errs, NewValidationError("status", "must be one of TODO, IN_PROGRESS, DONE"))
	}
	if err := validatePosition(t.Position); err != nil {
		errs = append(errs, err)
	}

	return errs.errOrNil()
}

func validatePosition(position int) *ValidationError {
	if position < TaskPositionMin || position > TaskPositionMax {
		return NewValidationError("position",
			fmt.Sprintf("must be between %d and %d", TaskPositionMin, TaskPositionMax))
	}
	return nil
}
