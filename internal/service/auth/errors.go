package auth

import "errors"

// Common authentication service errors
var (
	// ErrInvalidToken indicates the token format is invalid or signature doesn't match
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrInvalidSubject indicates a correctly signed token whose subject is not a user id
	ErrInvalidSubject = errors.New("authentication token subject is not a valid user id")

	// ErrInvalidSecret indicates the configured signing key is unusable
	ErrInvalidSecret = errors.New("jwt secret must be at least 32 characters")

	// ErrPasswordMismatch indicates a well-formed hash that the password does not match
	ErrPasswordMismatch = errors.New("password does not match")
)
