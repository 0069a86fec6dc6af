package testdb

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// MustInsertUser inserts a user row directly and returns its id.
// The stored hash is not a valid bcrypt hash; use the user store when a
// login must succeed.
func MustInsertUser(ctx context.Context, t *testing.T, tx *sql.Tx, username, email string) int64 {
	t.Helper()

	var id int64
	now := time.Now().UTC()
	err := tx.QueryRowContext(ctx, `
		INSERT INTO users (username, email, hashed_password, created_at, updated_at)
		VALUES ($1, $2, 'not-a-real-hash', $3, $3)
		RETURNING id
	`, username, email, now).Scan(&id)
	require.NoError(t, err, "Failed to insert test user")
	return id
}

// MustInsertBoard inserts a board row directly and returns its id.
func MustInsertBoard(ctx context.Context, t *testing.T, tx *sql.Tx, userID int64, title string) int64 {
	t.Helper()

	var id int64
	now := time.Now().UTC()
	err := tx.QueryRowContext(ctx, `
		INSERT INTO boards (user_id, title, description, created_at, updated_at)
		VALUES ($1, $2, '', $3, $3)
		RETURNING id
	`, userID, title, now).Scan(&id)
	require.NoError(t, err, "Failed to insert test board")
	return id
}

// CountRows returns the number of rows in table matching the where clause.
func CountRows(ctx context.Context, t *testing.T, tx *sql.Tx, table, where string, args ...any) int {
	t.Helper()

	var n int
	err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table+" WHERE "+where, args...).Scan(&n)
	require.NoError(t, err, "Failed to count rows in %s", table)
	return n
}
