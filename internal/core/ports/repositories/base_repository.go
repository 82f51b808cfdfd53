package repositories

import (
	"context"
)

// TxFunc is the body of a unit of work. Every repository reached through store
// shares the same transaction.
type TxFunc func(ctx context.Context, store Store) error

// UnitOfWork scopes repository access to a transaction.
type UnitOfWork interface {
	// WithinTx runs fn in one transaction. The transaction commits only when fn
	// returns nil and is rolled back on every other exit path, panics included.
	WithinTx(ctx context.Context, fn TxFunc) error

	// View runs fn read-only against one consistent snapshot of committed state.
	View(ctx context.Context, fn TxFunc) error
}
