package testdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/kanbanboard/kanban-api/internal/platform/postgres"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestTimeout defines a default timeout for test database operations.
const TestTimeout = 5 * time.Second

// postgresImage is the container image used for integration tests.
const postgresImage = "postgres:16-alpine"

// Database is a migrated PostgreSQL database for tests.
type Database struct {
	DB  *sql.DB
	DSN string

	container *tcpostgres.PostgresContainer
}

// Start opens the database named by TEST_DATABASE_URL, or starts a fresh
// container when it is unset, and applies all migrations.
func Start(ctx context.Context) (*Database, error) {
	d := &Database{DSN: os.Getenv("TEST_DATABASE_URL")}

	if d.DSN == "" {
		ctr, err := tcpostgres.Run(ctx, postgresImage,
			tcpostgres.WithDatabase("kanban_test"),
			tcpostgres.WithUsername("kanban"),
			tcpostgres.WithPassword("kanban"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second),
			),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to start postgres container: %w", err)
		}
		d.container = ctr

		d.DSN, err = ctr.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			_ = d.Close()
			return nil, fmt.Errorf("failed to get connection string: %w", err)
		}
	}

	db, err := sql.Open("pgx", d.DSN)
	if err != nil {
		_ = d.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	d.DB = db

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = d.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := postgres.RunMigrations(ctx, db, "up", slog.Default()); err != nil {
		_ = d.Close()
		return nil, err
	}

	return d, nil
}

// Close releases the connection pool and terminates the container, if any.
func (d *Database) Close() error {
	var errs []error
	if d.DB != nil {
		errs = append(errs, d.DB.Close())
	}
	if d.container != nil {
		errs = append(errs, testcontainers.TerminateContainer(d.container))
	}
	return errors.Join(errs...)
}

// WithTx executes a test function within a transaction, automatically rolling back
// after the test completes. This ensures test isolation and prevents side effects.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.Begin()
	require.NoError(t, err, "Failed to begin transaction")

	defer func() {
		// sql.ErrTxDone is expected if the test already ended the transaction
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("Warning: failed to rollback transaction: %v", err)
		}
	}()

	fn(t, tx)
}

// RunMain is a TestMain helper: it starts the database, stores it in *target,
// runs the package tests and tears everything down.
func RunMain(m *testing.M, target **Database) int {
	ctx := context.Background()

	d, err := Start(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "testdb: %v\n", err)
		return 1
	}
	*target = d

	code := m.Run()

	if err := d.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "testdb: cleanup failed: %v\n", err)
	}
	return code
}
