package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Field limits for boards.
const (
	BoardTitleMaxLength       = 100
	BoardDescriptionMaxLength = 500
)

// Board is a named container of tasks owned by exactly one user.
type Board struct {
	ID          int64
	UserID      int64
	Title       string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// TaskCount is computed by read queries and never persisted.
	TaskCount int
}

// NewBoard creates an unsaved Board owned by userID.
func NewBoard(userID int64, title, description string) (*Board, error) {
	now := time.Now().UTC()
	board := &Board{
		UserID:      userID,
		Title:       title,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := board.Validate(); err != nil {
		return nil, err
	}
	return board, nil
}

// IsOwnedBy reports whether userID owns the board.
func (b *Board) IsOwnedBy(userID int64) bool {
	return b.UserID == userID
}

// Update overwrites title and description and refreshes UpdatedAt.
// The board is left unchanged when the new values are invalid.
func (b *Board) Update(title, description string) error {
	candidate := *b
	candidate.Title = title
	candidate.Description = description
	if err := candidate.Validate(); err != nil {
		return err
	}

	b.Title = title
	b.Description = description
	b.UpdatedAt = time.Now().UTC()
	return nil
}

// Validate checks if the Board has valid data.
func (b *Board) Validate() error {
	var errs ValidationErrors

	if b.UserID <= 0 {
		errs = append(errs, NewValidationError("userId", "is required"))
	}
	errs = append(errs, validateTitle(b.Title, BoardTitleMaxLength)...)
	if utf8.RuneCountInString(b.Description) > BoardDescriptionMaxLength {
		errs = append(errs, NewValidationError("description", "must be at most 500 characters"))
	}

	return errs.errOrNil()
}

func validateTitle(title string, maxLen int) ValidationErrors {
	if strings.TrimSpace(title) == "" {
		return ValidationErrors{NewValidationError("title", "is required")}
	}
	if utf8.RuneCountInString(title) > maxLen {
		return ValidationErrors{
			NewValidationError("title", fmt.Sprintf("must be at most %d characters", maxLen)),
		}
	}
	return nil
}
