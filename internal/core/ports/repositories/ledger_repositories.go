package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/partsledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerReader defines read operations for ledgers.
type LedgerReader interface {
	FindLedgerByID(ctx context.Context, ledgerID string) (*domain.Ledger, error)
	FindLedgerByName(ctx context.Context, name string) (*domain.Ledger, error)
	ListLedgers(ctx context.Context, filter domain.LedgerFilter) ([]domain.Ledger, error)
}

// LedgerWriter defines write operations for ledgers.
type LedgerWriter interface {
	SaveLedger(ctx context.Context, ledger domain.Ledger) error
	UpdateLedger(ctx context.Context, ledger domain.Ledger) error
	// LockLedgers loads and row-locks ledgers in ascending id order. Missing ids are absent from the map.
	LockLedgers(ctx context.Context, ledgerIDs []string) (map[string]domain.Ledger, error)
	ApplyBalanceDeltas(ctx context.Context, deltas map[string]decimal.Decimal, userID string, now time.Time) error
}

// LedgerRepositoryFacade combines all ledger-related repository interfaces.
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
