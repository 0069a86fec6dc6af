// Package service contains the board, task and account use cases. It
// coordinates the domain entities with the stores defined in internal/store.
//
// Key components:
//
// 1. Managers:
//   - AuthService handles signup, login, the current user and account deletion
//   - BoardService and TaskService own every ownership decision: a mutation by a
//     caller that does not own the board fails with ErrNotOwned
//
// 2. Transactions:
//   - Every mutation runs inside store.TxManager.RunInTx, so the ownership check
//     and the write see the same state
//   - Cascades (board delete, account delete) are explicit store calls, never
//     implicit entity graph walks
//
// 3. Errors:
//   - Store sentinels pass through wrapped in a ServiceError, so errors.Is keeps
//     working for the HTTP layer
//   - Expected outcomes (not found, not owned, validation) are logged at debug and
//     leave the span status unset
//
// Services take the caller id as an explicit argument and never read it from the
// context.
package service
