package api

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kanbanboard/kanban-api/internal/api/shared"
	"github.com/kanbanboard/kanban-api/internal/domain"
	"github.com/kanbanboard/kanban-api/internal/service"
	"github.com/kanbanboard/kanban-api/internal/service/auth"
	"github.com/kanbanboard/kanban-api/internal/store"
)

const unexpectedErrorMessage = "An unexpected error occurred"

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	var validationErrs validator.ValidationErrors

	switch {
	// Authentication errors
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrInvalidSubject):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, service.ErrNotOwned):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidTaskStatus),
		errors.Is(err, store.ErrInvalidEntity),
		errors.As(err, &validationErrs):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return unexpectedErrorMessage
	}

	var validationErr *domain.ValidationError
	var validationErrs domain.ValidationErrors
	var fieldErrs validator.ValidationErrors

	switch {
	// Authentication errors
	case errors.Is(err, service.ErrInvalidCredentials):
		return "Invalid username/email or password"

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrInvalidSubject):
		return "Invalid token"

	// Authorization errors
	case errors.Is(err, service.ErrNotOwned):
		return "You do not have permission to access this resource"

	// Not found errors
	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrBoardNotFound):
		return "Board not found"

	case errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"

	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	// Conflict errors
	case errors.Is(err, store.ErrUsernameExists):
		return "Username is already taken"

	case errors.Is(err, store.ErrEmailExists):
		return "Email is already in use"

	case errors.Is(err, store.ErrDuplicate):
		return "Resource already exists"

	// Bad request errors. Domain validation messages name only the field and
	// the rule, so they are safe to return.
	case errors.As(err, &validationErrs):
		return "Validation failed: " + validationErrs.Error()

	case errors.As(err, &validationErr):
		return "Validation failed: " + validationErr.Error()

	case errors.As(err, &fieldErrs):
		return SanitizeValidationError(fieldErrs)

	case errors.Is(err, domain.ErrInvalidTaskStatus):
		return "Invalid task status"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	default:
		return unexpectedErrorMessage
	}
}

// SanitizeValidationError turns validator field errors into a short
// message naming the failing JSON fields.
func SanitizeValidationError(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "Validation error"
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("Invalid %s: %s", jsonFieldName(fe), getValidationTagMessage(fe)))
	}
	return strings.Join(msgs, "; ")
}

// jsonFieldName converts a struct field name to the camelCase name clients send.
func jsonFieldName(fe validator.FieldError) string {
	name := fe.Field()
	if name == "" {
		return "field"
	}
	return strings.ToLower(name[:1]) + name[1:]
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(fe validator.FieldError) string {
	if isNumericKind(fe.Kind()) && (fe.Tag() == "min" || fe.Tag() == "max") {
		return "out of range"
	}

	switch fe.Tag() {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the status and safe message for err and logs the
// redacted detail. A non-empty fallback replaces the generic 500 message.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" {
		message = fallback
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}

func isNumericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
