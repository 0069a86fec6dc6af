package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// Field limits for users.
const (
	UsernameMinLength = 3
	UsernameMaxLength = 50
	EmailMaxLength    = 100
	PasswordMinLength = 6
	// PasswordMaxLength is bcrypt's input limit.
	PasswordMaxLength = 72
)

var emailValidator = validator.New()

// User is a registered account. Usernames and emails are unique and compared
// case-sensitively.
type User struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Password       string    `json:"-"` // Plaintext, held only until the store hashes it
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates an unsaved User with the given credentials.
// The ID is assigned by the store on insert.
func NewUser(username, email, password string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		Username:  username,
		Email:     email,
		Password:  password,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}
	return user, nil
}

// Validate checks if the User has valid data.
// Either a plaintext password or a hash must be present.
func (u *User) Validate() error {
	var errs ValidationErrors

	n := utf8.RuneCountInString(u.Username)
	switch {
	case strings.TrimSpace(u.Username) == "":
		errs = append(errs, NewValidationError("username", "is required"))
	case n < UsernameMinLength || n > UsernameMaxLength:
		errs = append(errs, NewValidationError("username", "must be between 3 and 50 characters"))
	}

	switch {
	case u.Email == "":
		errs = append(errs, NewValidationError("email", "is required"))
	case utf8.RuneCountInString(u.Email) > EmailMaxLength:
		errs = append(errs, NewValidationError("email", "must be at most 100 characters"))
	case emailValidator.Var(u.Email, "email") != nil:
		errs = append(errs, NewValidationError("email", "must be a valid email address"))
	}

	switch {
	case u.Password != "":
		if len(u.Password) < PasswordMinLength {
			errs = append(errs, NewValidationError("password", "must be at least 6 characters"))
		} else if len(u.Password) > PasswordMaxLength {
			errs = append(errs, NewValidationError("password", "must be at most 72 characters"))
		}
	case u.HashedPassword == "":
		errs = append(errs, NewValidationError("password", "is required"))
	}

	return errs.errOrNil()
}
