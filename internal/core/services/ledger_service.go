package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/partsledger/internal/apperrors"
	"github.com/SscSPs/partsledger/internal/core/domain"
	portsrepo "github.com/SscSPs/partsledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/partsledger/internal/core/ports/services"
	"github.com/SscSPs/partsledger/internal/dto"
	"github.com/SscSPs/partsledger/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ledgerService struct {
	BaseService
	systemLedgers domain.SystemLedgerNames
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(uow portsrepo.UnitOfWork, systemLedgers domain.SystemLedgerNames) portssvc.LedgerSvcFacade {
	return &ledgerService{
		BaseService:   BaseService{UOW: uow},
		systemLedgers: systemLedgers,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

func (s *ledgerService) CreateLedger(ctx context.Context, req dto.CreateLedgerRequest, userID string) (*domain.Ledger, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	name, err := requireName("name", req.Name)
	if err != nil {
		return nil, err
	}

	now := s.now()
	ledger := domain.Ledger{
		LedgerID:       uuid.NewString(),
		Name:           name,
		Type:           req.Type,
		Balance:        req.OpeningBalance,
		OpeningBalance: req.OpeningBalance,
		ParentGroup:    normalizeOptional(req.ParentGroup),
		IsActive:       true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	err = s.UOW.WithinTx(ctx, func(ctx context.Context, store portsrepo.Store) error {
		if err := store.Ledgers().SaveLedger(ctx, ledger); err != nil {
			return err
		}
		return writeAudit(ctx, store, userID, domain.AuditCreate, tableLedgers, ledger.LedgerID, nil, ledger, now)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create ledger", slog.String("name", name))
		return nil, fmt.Errorf("failed to create ledger: %w", err)
	}

	s.LogInfo(ctx, "Ledger created successfully",
		slog.String("ledger_id", ledger.LedgerID),
		slog.String("name", ledger.Name),
		slog.String("type", string(ledger.Type)))
	return &ledger, nil
}

func (s *ledgerService) GetLedgerByID(ctx context.Context, ledgerID string) (*domain.Ledger, error) {
	var ledger *domain.Ledger
	err := s.UOW.View(ctx, func(ctx context.Context, store portsrepo.Store) error {
		var err error
		ledger, err = store.Ledgers().FindLedgerByID(ctx, ledgerID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ledger, nil
}

func (s *ledgerService) ListLedgers(ctx context.Context, params dto.ListLedgersParams) ([]domain.Ledger, error) {
	filter := domain.LedgerFilter{Search: params.Search, IncludeInactive: params.IncludeInactive}
	if params.Type != "" {
		t := domain.LedgerType(params.Type)
		if !t.Valid() {
			return nil, fmt.Errorf("%w: unknown ledger type %q", apperrors.ErrValidation, params.Type)
		}
		filter.Type = &t
	}

	var ledgers []domain.Ledger
	err := s.UOW.View(ctx, func(ctx context.Context, store portsrepo.Store) error {
		var err error
		ledgers, err = store.Ledgers().ListLedgers(ctx, filter)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to list ledgers")
		return nil, err
	}
	return ledgers, nil
}

func (s *ledgerService) UpdateLedger(ctx context.Context, ledgerID string, req dto.UpdateLedgerRequest, userID string) (*domain.Ledger, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var updated domain.Ledger
	err := s.UOW.WithinTx(ctx, func(ctx context.Context, store portsrepo.Store) error {
		ledger, err := s.lockLedger(ctx, store, ledgerID)
		if err != nil {
			return err
		}
		before := ledger
		if req.Name != nil {
			name, err := requireName("name", *req.Name)
			if err != nil {
				return err
			}
			if name != ledger.Name && s.systemLedgers.Contains(ledger.Name) {
				return fmt.Errorf("%w: system ledger %s cannot be renamed", apperrors.ErrConflict, ledger.Name)
			}
			ledger.Name = name
		}
		if req.ParentGroup != nil {
			ledger.ParentGroup = normalizeOptional(req.ParentGroup)
		}
		now := s.now()
		ledger.LastUpdatedAt = now
		ledger.LastUpdatedBy = userID

		if err := store.Ledgers().UpdateLedger(ctx, ledger); err != nil {
			return err
		}
		updated = ledger
		return writeAudit(ctx, store, userID, domain.AuditUpdate, tableLedgers, ledger.LedgerID, before, ledger, now)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to update ledger", slog.String("ledger_id", ledgerID))
		return nil, err
	}
	return &updated, nil
}

func (s *ledgerService) DeactivateLedger(ctx context.Context, ledgerID string, userID string) error {
	err := s.UOW.WithinTx(ctx, func(ctx context.Context, store portsrepo.Store) error {
		ledger, err := s.lockLedger(ctx, store, ledgerID)
		if err != nil {
			return err
		}
		if s.systemLedgers.Contains(ledger.Name) {
			return fmt.Errorf("%w: system ledger %s cannot be deactivated", apperrors.ErrConflict, ledger.Name)
		}
		if !ledger.IsActive {
			return nil
		}
		before := ledger
		now := s.now()
		ledger.IsActive = false
		ledger.LastUpdatedAt = now
		ledger.LastUpdatedBy = userID
		if err := store.Ledgers().UpdateLedger(ctx, ledger); err != nil {
			return err
		}
		return writeAudit(ctx, store, userID, domain.AuditDeactivate, tableLedgers, ledger.LedgerID, before, ledger, now)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to deactivate ledger", slog.String("ledger_id", ledgerID))
		return err
	}
	s.LogInfo(ctx, "Ledger deactivated", slog.String("ledger_id", ledgerID))
	return nil
}

// ReconcileLedger replays the opening balance and every posted voucher and
// compares the result with the stored balance.
func (s *ledgerService) ReconcileLedger(ctx context.Context, ledgerID string) (*domain.LedgerReconciliation, error) {
	var result domain.LedgerReconciliation
	err := s.UOW.View(ctx, func(ctx context.Context, store portsrepo.Store) error {
		ledger, err := store.Ledgers().FindLedgerByID(ctx, ledgerID)
		if err != nil {
			return err
		}
		vouchers, err := store.Vouchers().ListVouchers(ctx, domain.VoucherFilter{LedgerID: ledgerID})
		if err != nil {
			return err
		}
		replayed, count, err := accounting.ReplayBalance(*ledger, vouchers)
		if err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrInternal, err)
		}
		result = domain.LedgerReconciliation{
			LedgerID:        ledger.LedgerID,
			Balance:         ledger.Balance,
			ReplayedBalance: replayed,
			VoucherCount:    count,
			Consistent:      replayed.Equal(ledger.Balance),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !result.Consistent {
		s.GetLogger(ctx).Warn("Ledger balance does not match its vouchers",
			slog.String("ledger_id", ledgerID),
			slog.String("balance", result.Balance.String()),
			slog.String("replayed", result.ReplayedBalance.String()))
	}
	return &result, nil
}

// EnsureSystemLedgers creates any missing system ledger. An existing ledger
// with a system name but the wrong type is reported as a conflict.
func (s *ledgerService) EnsureSystemLedgers(ctx context.Context) error {
	return s.UOW.WithinTx(ctx, func(ctx context.Context, store portsrepo.Store) error {
		for _, want := range s.systemLedgers.Specs() {
			existing, err := store.Ledgers().FindLedgerByName(ctx, want.Name)
			if err == nil {
				if existing.Type != want.Type {
					return fmt.Errorf("%w: ledger %s exists with type %s, want %s", apperrors.ErrConflict, want.Name, existing.Type, want.Type)
				}
				continue
			}
			if !errors.Is(err, apperrors.ErrNotFound) {
				return err
			}

			now := s.now()
			ledger := domain.Ledger{
				LedgerID:       uuid.NewString(),
				Name:           want.Name,
				Type:           want.Type,
				Balance:        decimal.Zero,
				OpeningBalance: decimal.Zero,
				IsActive:       true,
				AuditFields: domain.AuditFields{
					CreatedAt:     now,
					CreatedBy:     domain.SystemUser,
					LastUpdatedAt: now,
					LastUpdatedBy: domain.SystemUser,
				},
			}
			if err := store.Ledgers().SaveLedger(ctx, ledger); err != nil {
				return err
			}
			if err := writeAudit(ctx, store, domain.SystemUser, domain.AuditCreate, tableLedgers, ledger.LedgerID, nil, ledger, now); err != nil {
				return err
			}
			s.LogInfo(ctx, "System ledger created", slog.String("name", want.Name))
		}
		return nil
	})
}

func (s *ledgerService) lockLedger(ctx context.Context, store portsrepo.Store, ledgerID string) (domain.Ledger, error) {
	locked, err := store.Ledgers().LockLedgers(ctx, []string{ledgerID})
	if err != nil {
		return domain.Ledger{}, err
	}
	ledger, ok := locked[ledgerID]
	if !ok {
		return domain.Ledger{}, apperrors.NewNotFoundError("ledger", ledgerID)
	}
	return ledger, nil
}

// systemLedgerID resolves a system ledger by name inside a unit of work.
func systemLedgerID(ctx context.Context, store portsrepo.Store, name string) (string, error) {
	ledger, err := store.Ledgers().FindLedgerByName(ctx, name)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", fmt.Errorf("%w: system ledger %q is missing", apperrors.ErrInternal, name)
		}
		return "", err
	}
	return ledger.LedgerID, nil
}
