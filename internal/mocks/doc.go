// Package mocks provides centralized mock implementations for testing.
//
// The store mocks share a MemoryDB so that a user, board and task store
// built over the same MemoryDB behave like one database: a board created
// through MockBoardStore is visible to MockTaskStore. Every mock method can
// be overridden through its function field.
//
// Usage:
//
//	db := mocks.NewMemoryDB()
//	users := mocks.NewMockUserStore(db)
//	boards := mocks.NewMockBoardStore(db)
//	boards.DeleteFn = func(ctx context.Context, id int64) error {
//	    return errors.New("boom")
//	}
//
// TestifyMockUserStore is available for tests that prefer call expectations
// over a backing state.
package mocks
