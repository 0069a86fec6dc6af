package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/kanbanboard/kanban-api/internal/api"
	"github.com/kanbanboard/kanban-api/internal/config"
	"github.com/kanbanboard/kanban-api/internal/platform/postgres"
	"github.com/kanbanboard/kanban-api/internal/service"
	"github.com/kanbanboard/kanban-api/internal/service/auth"
	"github.com/kanbanboard/kanban-api/internal/store"
	"go.opentelemetry.io/otel/trace"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger         *slog.Logger
	db             *sql.DB
	pinger         api.Pinger
	tracerProvider trace.TracerProvider
	shutdownTracer func(context.Context) error

	// Stores
	userStore  store.UserStore
	boardStore store.BoardStore
	taskStore  store.TaskStore
	txManager  store.TxManager

	// Service interfaces
	tokenService     auth.TokenService
	passwordVerifier auth.PasswordVerifier
	authService      service.AuthService
	boardService     service.BoardService
	taskService      service.TaskService
}

// newApplication creates a new application instance backed by PostgreSQL.
// It accepts core dependencies like configuration, logger, and database connection that
// must be established before application initialization.
func newApplication(
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
	tp trace.TracerProvider,
) (*application, error) {
	app := &application{
		config:         cfg,
		logger:         logger,
		db:             db,
		pinger:         db,
		tracerProvider: tp,
	}

	// Initialize stores
	app.userStore = postgres.NewPostgresUserStore(db, cfg.Auth.BcryptCost, logger)
	app.boardStore = postgres.NewPostgresBoardStore(db, logger)
	app.taskStore = postgres.NewPostgresTaskStore(db, logger)
	app.txManager = store.NewSQLTxManager(db)

	if err := app.initServices(); err != nil {
		return nil, err
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// initServices builds the token service and the managers on top of the
// stores already set on app.
func (app *application) initServices() error {
	var err error

	app.tokenService, err = auth.NewTokenService(app.config.Auth)
	if err != nil {
		return fmt.Errorf("failed to initialize token service: %w", err)
	}
	app.logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", app.config.Auth.TokenLifetimeMinutes)

	if app.passwordVerifier == nil {
		app.passwordVerifier = auth.NewBcryptVerifier()
	}

	opts := []service.Option{service.WithTracerProvider(app.tracerProvider)}

	app.authService, err = service.NewAuthService(
		app.userStore,
		app.boardStore,
		app.taskStore,
		app.txManager,
		app.tokenService,
		app.passwordVerifier,
		app.logger,
		opts...,
	)
	if err != nil {
		return fmt.Errorf("failed to create auth service: %w", err)
	}

	app.boardService, err = service.NewBoardService(
		app.userStore,
		app.boardStore,
		app.taskStore,
		app.txManager,
		app.logger,
		opts...,
	)
	if err != nil {
		return fmt.Errorf("failed to create board service: %w", err)
	}

	app.taskService, err = service.NewTaskService(
		app.boardStore,
		app.taskStore,
		app.txManager,
		app.logger,
		opts...,
	)
	if err != nil {
		return fmt.Errorf("failed to create task service: %w", err)
	}

	return nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup(ctx context.Context) {
	if app.shutdownTracer != nil {
		if err := app.shutdownTracer(ctx); err != nil {
			app.logger.Error("Error shutting down tracer provider", "error", err)
		}
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
