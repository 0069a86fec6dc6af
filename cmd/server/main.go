// Package main implements the entry point for the kanban API server, which
// serves users' boards and tasks over a JSON REST interface.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/kanbanboard/kanban-api/internal/config"
	"github.com/kanbanboard/kanban-api/internal/platform/logger"
	"github.com/kanbanboard/kanban-api/internal/platform/postgres"
)

func main() {
	migrateCmd := flag.String("migrate", "",
		"Run a database migration command and exit ("+strings.Join(postgres.MigrationCommands, "|")+")")
	flag.Parse()

	if err := run(context.Background(), *migrateCmd); err != nil {
		log.Fatalf("kanban-api: %v", err)
	}
}

// run wires the application and either executes a migration command or
// serves HTTP until the process is told to stop.
func run(ctx context.Context, migrateCmd string) error {
	cfg, l, err := initializeApp()
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	db, err := setupAppDatabase(ctx, cfg.Database, l)
	if err != nil {
		return err
	}

	if migrateCmd != "" {
		defer func() { _ = db.Close() }()
		return handleMigrations(ctx, db, migrateCmd, l)
	}

	if cfg.Database.AutoMigrate {
		if err := handleMigrations(ctx, db, "up", l); err != nil {
			_ = db.Close()
			return err
		}
	}

	tp, shutdownTracer, err := setupTracing(ctx, cfg.Tracing, l)
	if err != nil {
		_ = db.Close()
		return err
	}

	app, err := newApplication(cfg, l, db, tp)
	if err != nil {
		_ = db.Close()
		return err
	}
	app.shutdownTracer = shutdownTracer

	return app.Run(ctx)
}

// initializeApp loads configuration and sets up structured logging.
func initializeApp() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	l.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"pid", os.Getpid())
	l.Debug("Auth configuration", "jwt_secret_present", cfg.Auth.JWTSecret != "")

	return cfg, l, nil
}
