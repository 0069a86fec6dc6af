package mocks

import (
	"context"

	"github.com/kanbanboard/kanban-api/internal/store"
)

// MockTxManager implements store.TxManager without a database.
// By default it calls fn with a nil transaction; the mock stores ignore it.
type MockTxManager struct {
	RunInTxFn func(ctx context.Context, fn store.TxFn) error

	// Calls counts RunInTx invocations.
	Calls int
}

var _ store.TxManager = (*MockTxManager)(nil)

// RunInTx implements the TxManager interface
func (m *MockTxManager) RunInTx(ctx context.Context, fn store.TxFn) error {
	m.Calls++
	if m.RunInTxFn != nil {
		return m.RunInTxFn(ctx, fn)
	}
	return fn(ctx, nil)
}
