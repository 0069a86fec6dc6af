package service

import (
	"errors"
	"fmt"

	"github.com/kanbanboard/kanban-api/internal/domain"
	"github.com/kanbanboard/kanban-api/internal/store"
)

// Common service errors - sentinel errors used across service implementations.
//
// Error handling principles:
//  1. Service methods return sentinel errors for expected error conditions
//  2. Failures are wrapped in *ServiceError, which keeps errors.Is working
//  3. The API layer maps service errors to HTTP status codes
var (
	// ErrNotOwned indicates a resource is owned by a different user than the one making the request.
	// API layer should map this to HTTP 403 Forbidden.
	ErrNotOwned = errors.New("resource is owned by another user")

	// ErrInvalidCredentials indicates a login with an unknown identifier or a wrong password.
	// The two cases are deliberately indistinguishable to the caller.
	// API layer should map this to HTTP 401 Unauthorized.
	ErrInvalidCredentials = errors.New("invalid username/email or password")
)

// ServiceError records which service operation failed.
type ServiceError struct {
	Service   string
	Operation string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s service %s failed: %v", e.Service, e.Operation, e.Err)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError. A nil err yields nil.
func NewServiceError(service, operation string, err error) error {
	if err == nil {
		return nil
	}
	return &ServiceError{Service: service, Operation: operation, Err: err}
}

// isExpected reports whether err is a client-side outcome rather than a fault.
// Expected errors are logged at debug level.
func isExpected(err error) bool {
	return errors.Is(err, store.ErrNotFound) ||
		errors.Is(err, store.ErrDuplicate) ||
		errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, ErrNotOwned) ||
		errors.Is(err, ErrInvalidCredentials)
}
