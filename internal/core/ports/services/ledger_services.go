package services

import (
	"context"

	"github.com/SscSPs/partsledger/internal/core/domain"
	"github.com/SscSPs/partsledger/internal/dto"
)

// LedgerReaderSvc defines read operations for ledgers.
type LedgerReaderSvc interface {
	GetLedgerByID(ctx context.Context, ledgerID string) (*domain.Ledger, error)
	ListLedgers(ctx context.Context, params dto.ListLedgersParams) ([]domain.Ledger, error)
	ReconcileLedger(ctx context.Context, ledgerID string) (*domain.LedgerReconciliation, error)
}

// LedgerWriterSvc defines write operations for ledgers.
type LedgerWriterSvc interface {
	CreateLedger(ctx context.Context, req dto.CreateLedgerRequest, userID string) (*domain.Ledger, error)
	UpdateLedger(ctx context.Context, ledgerID string, req dto.UpdateLedgerRequest, userID string) (*domain.Ledger, error)
	DeactivateLedger(ctx context.Context, ledgerID string, userID string) error
	// EnsureSystemLedgers creates any missing cash, sales, purchase and tax ledger.
	EnsureSystemLedgers(ctx context.Context) error
}

// LedgerSvcFacade combines all ledger-related service interfaces.
type LedgerSvcFacade interface {
	LedgerReaderSvc
	LedgerWriterSvc
}
