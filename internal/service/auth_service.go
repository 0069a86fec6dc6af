package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/kanbanboard/kanban-api/internal/domain"
	"github.com/kanbanboard/kanban-api/internal/platform/logger"
	"github.com/kanbanboard/kanban-api/internal/service/auth"
	"github.com/kanbanboard/kanban-api/internal/store"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// AuthResult is the outcome of a successful signup or login.
type AuthResult struct {
	Token string
	User  *domain.User
}

// AuthService provides account operations: signup, login, lookup and deletion.
type AuthService interface {
	// Signup registers a new user and issues a token for them.
	// Returns store.ErrUsernameExists or store.ErrEmailExists on conflict.
	Signup(ctx context.Context, username, email, password string) (*AuthResult, error)

	// Login resolves usernameOrEmail as a username first, then as an email,
	// and issues a token when the password matches.
	// Returns ErrInvalidCredentials for an unknown identifier or wrong password.
	Login(ctx context.Context, usernameOrEmail, password string) (*AuthResult, error)

	// CurrentUser returns the user identified by a token.
	CurrentUser(ctx context.Context, userID int64) (*domain.User, error)

	// DeleteAccount removes the user's tasks, then boards, then the user, in one transaction.
	DeleteAccount(ctx context.Context, userID int64) error
}

type authServiceImpl struct {
	users    store.UserStore
	boards   store.BoardStore
	tasks    store.TaskStore
	tx       store.TxManager
	tokens   auth.TokenService
	verifier auth.PasswordVerifier
	logger   *slog.Logger
	tracer   trace.Tracer
}

// NewAuthService creates a new AuthService.
// It returns an error if any of the required dependencies are nil.
func NewAuthService(
	users store.UserStore,
	boards store.BoardStore,
	tasks store.TaskStore,
	tx store.TxManager,
	tokens auth.TokenService,
	verifier auth.PasswordVerifier,
	logger *slog.Logger,
	opts ...Option,
) (AuthService, error) {
	switch {
	case users == nil:
		return nil, domain.NewValidationError("users", "cannot be nil")
	case boards == nil:
		return nil, domain.NewValidationError("boards", "cannot be nil")
	case tasks == nil:
		return nil, domain.NewValidationError("tasks", "cannot be nil")
	case tx == nil:
		return nil, domain.NewValidationError("tx", "cannot be nil")
	case tokens == nil:
		return nil, domain.NewValidationError("tokens", "cannot be nil")
	case verifier == nil:
		return nil, domain.NewValidationError("verifier", "cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &authServiceImpl{
		users:    users,
		boards:   boards,
		tasks:    tasks,
		tx:       tx,
		tokens:   tokens,
		verifier: verifier,
		logger:   logger.With(slog.String("component", "auth_service")),
		tracer:   newTracer(opts),
	}, nil
}

// Signup implements AuthService.Signup
func (s *authServiceImpl) Signup(ctx context.Context, username, email, password string) (result *AuthResult, err error) {
	ctx, span := startSpan(ctx, s.tracer, "AuthService.Signup")
	log := logger.FromContextOrDefault(ctx, s.logger)
	defer func() { finish(span, log, "signup failed", err) }()

	user, err := domain.NewUser(username, email, password)
	if err != nil {
		return nil, NewServiceError("auth", "signup", err)
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txUsers := s.users.WithTx(tx)

		exists, err := txUsers.ExistsByUsername(ctx, username)
		if err != nil {
			return err
		}
		if exists {
			return store.ErrUsernameExists
		}

		exists, err = txUsers.ExistsByEmail(ctx, email)
		if err != nil {
			return err
		}
		if exists {
			return store.ErrEmailExists
		}

		return txUsers.Create(ctx, user)
	})
	if err != nil {
		return nil, NewServiceError("auth", "signup", err)
	}

	span.SetAttributes(attribute.Int64("user.id", user.ID))
	log.Info("user signed up", slog.Int64("user_id", user.ID))

	token, err := s.tokens.IssueToken(ctx, user.ID)
	if err != nil {
		return nil, NewServiceError("auth", "signup", err)
	}

	return &AuthResult{Token: token, User: user}, nil
}

// Login implements AuthService.Login
func (s *authServiceImpl) Login(ctx context.Context, usernameOrEmail, password string) (result *AuthResult, err error) {
	ctx, span := startSpan(ctx, s.tracer, "AuthService.Login")
	log := logger.FromContextOrDefault(ctx, s.logger)
	defer func() { finish(span, log, "login failed", err) }()

	user, err := s.users.GetByUsername(ctx, usernameOrEmail)
	if errors.Is(err, store.ErrUserNotFound) {
		user, err = s.users.GetByEmail(ctx, usernameOrEmail)
	}
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, NewServiceError("auth", "login", ErrInvalidCredentials)
		}
		return nil, NewServiceError("auth", "login", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		return nil, NewServiceError("auth", "login", ErrInvalidCredentials)
	}

	token, err := s.tokens.IssueToken(ctx, user.ID)
	if err != nil {
		return nil, NewServiceError("auth", "login", err)
	}

	span.SetAttributes(attribute.Int64("user.id", user.ID))
	log.Debug("user logged in", slog.Int64("user_id", user.ID))

	return &AuthResult{Token: token, User: user}, nil
}

// CurrentUser implements AuthService.CurrentUser
func (s *authServiceImpl) CurrentUser(ctx context.Context, userID int64) (user *domain.User, err error) {
	ctx, span := startSpan(ctx, s.tracer, "AuthService.CurrentUser",
		attribute.Int64("user.id", userID))
	log := logger.FromContextOrDefault(ctx, s.logger)
	defer func() { finish(span, log, "failed to load current user", err, slog.Int64("user_id", userID)) }()

	user, err = s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, NewServiceError("auth", "current_user", err)
	}
	return user, nil
}

// DeleteAccount implements AuthService.DeleteAccount
func (s *authServiceImpl) DeleteAccount(ctx context.Context, userID int64) (err error) {
	ctx, span := startSpan(ctx, s.tracer, "AuthService.DeleteAccount",
		attribute.Int64("user.id", userID))
	log := logger.FromContextOrDefault(ctx, s.logger)
	defer func() { finish(span, log, "failed to delete account", err, slog.Int64("user_id", userID)) }()

	err = s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txUsers := s.users.WithTx(tx)

		if _, err := txUsers.GetByID(ctx, userID); err != nil {
			return err
		}

		tasksRemoved, err := s.tasks.WithTx(tx).DeleteByOwner(ctx, userID)
		if err != nil {
			return err
		}
		boardsRemoved, err := s.boards.WithTx(tx).DeleteByOwner(ctx, userID)
		if err != nil {
			return err
		}
		if err := txUsers.Delete(ctx, userID); err != nil {
			return err
		}

		log.Info("account deleted",
			slog.Int64("user_id", userID),
			slog.Int64("boards_removed", boardsRemoved),
			slog.Int64("tasks_removed", tasksRemoved))
		return nil
	})
	return NewServiceError("auth", "delete_account", err)
}
