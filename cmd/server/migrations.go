package main

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/kanbanboard/kanban-api/internal/platform/postgres"
)

// handleMigrations runs a single goose command and reports how it went.
// It's called from main() when the -migrate flag is set, and before serving
// when auto_migrate is enabled.
func handleMigrations(ctx context.Context, db *sql.DB, migrateCmd string, logger *slog.Logger) error {
	logger.Info("Executing migrations", "command", migrateCmd)
	return postgres.RunMigrations(ctx, db, migrateCmd, logger)
}
