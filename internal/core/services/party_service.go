package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/partsledger/internal/apperrors"
	"github.com/SscSPs/partsledger/internal/core/domain"
	portsrepo "github.com/SscSPs/partsledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/partsledger/internal/core/ports/services"
	"github.com/SscSPs/partsledger/internal/dto"
	"github.com/google/uuid"
)

type partyService struct {
	BaseService
}

// NewPartyService creates the customer and supplier service.
func NewPartyService(uow portsrepo.UnitOfWork) portssvc.PartySvcFacade {
	return &partyService{BaseService: BaseService{UOW: uow}}
}

var _ portssvc.PartySvcFacade = (*partyService)(nil)

// CreateParty creates the party together with the ledger that carries its balance.
func (s *partyService) CreateParty(ctx context.Context, kind domain.PartyKind, req dto.CreatePartyRequest, userID string) (*domain.Party, error) {
	table, ledgerType, group, err := partyLayout(kind)
	if err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	name, err := requireName("name", req.Name)
	if err != nil {
		return nil, err
	}
	if err := requireNonNegative("creditLimit", req.CreditLimit); err != nil {
		return nil, err
	}

	now := s.now()
	audit := domain.AuditFields{CreatedAt: now, CreatedBy: userID, LastUpdatedAt: now, LastUpdatedBy: userID}
	partyID := uuid.NewString()
	ledger := domain.Ledger{
		LedgerID:       uuid.NewString(),
		Name:           fmt.Sprintf("%s (%s)", name, partyID[:8]),
		Type:           ledgerType,
		Balance:        req.OpeningBalance,
		OpeningBalance: req.OpeningBalance,
		ParentGroup:    &group,
		IsActive:       true,
		AuditFields:    audit,
	}
	party := domain.Party{
		PartyID:     partyID,
		Kind:        kind,
		Name:        name,
		Phone:       normalizeOptional(req.Phone),
		Email:       normalizeOptional(req.Email),
		Address:     normalizeOptional(req.Address),
		GSTIN:       normalizeOptional(req.GSTIN),
		LedgerID:    ledger.LedgerID,
		CreditLimit: req.CreditLimit,
		IsActive:    true,
		Balance:     ledger.Balance,
		AuditFields: audit,
	}

	err = s.UOW.WithinTx(ctx, func(ctx context.Context, store portsrepo.Store) error {
		if err := store.Ledgers().SaveLedger(ctx, ledger); err != nil {
			return err
		}
		if err := writeAudit(ctx, store, userID, domain.AuditCreate, tableLedgers, ledger.LedgerID, nil, ledger, now); err != nil {
			return err
		}
		if err := store.Parties().SaveParty(ctx, party); err != nil {
			return err
		}
		return writeAudit(ctx, store, userID, domain.AuditCreate, table, party.PartyID, nil, party, now)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create party", slog.String("kind", string(kind)), slog.String("name", name))
		return nil, err
	}

	s.LogInfo(ctx, "Party created successfully",
		slog.String("kind", string(kind)),
		slog.String("party_id", party.PartyID),
		slog.String("ledger_id", party.LedgerID))
	return &party, nil
}

func (s *partyService) GetParty(ctx context.Context, kind domain.PartyKind, partyID string) (*domain.Party, error) {
	var party *domain.Party
	err := s.UOW.View(ctx, func(ctx context.Context, store portsrepo.Store) error {
		var err error
		party, err = store.Parties().FindPartyByID(ctx, kind, partyID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return party, nil
}

func (s *partyService) ListParties(ctx context.Context, kind domain.PartyKind, params dto.ListPartiesParams) ([]domain.Party, error) {
	var parties []domain.Party
	err := s.UOW.View(ctx, func(ctx context.Context, store portsrepo.Store) error {
		var err error
		parties, err = store.Parties().ListParties(ctx, kind, domain.PartyFilter{
			Search:          params.Search,
			IncludeInactive: params.IncludeInactive,
		})
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to list parties", slog.String("kind", string(kind)))
		return nil, err
	}
	return parties, nil
}

func (s *partyService) UpdateParty(ctx context.Context, kind domain.PartyKind, partyID string, req dto.UpdatePartyRequest, userID string) (*domain.Party, error) {
	table, _, _, err := partyLayout(kind)
	if err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var updated domain.Party
	err = s.UOW.WithinTx(ctx, func(ctx context.Context, store portsrepo.Store) error {
		party, err := store.Parties().FindPartyByID(ctx, kind, partyID)
		if err != nil {
			return err
		}
		before := *party
		if req.Name != nil {
			if party.Name, err = requireName("name", *req.Name); err != nil {
				return err
			}
		}
		if req.Phone != nil {
			party.Phone = normalizeOptional(req.Phone)
		}
		if req.Email != nil {
			party.Email = normalizeOptional(req.Email)
		}
		if req.Address != nil {
			party.Address = normalizeOptional(req.Address)
		}
		if req.GSTIN != nil {
			party.GSTIN = normalizeOptional(req.GSTIN)
		}
		if req.CreditLimit != nil {
			if err := requireNonNegative("creditLimit", *req.CreditLimit); err != nil {
				return err
			}
			party.CreditLimit = *req.CreditLimit
		}
		now := s.now()
		party.LastUpdatedAt = now
		party.LastUpdatedBy = userID
		if err := store.Parties().UpdateParty(ctx, *party); err != nil {
			return err
		}
		updated = *party
		return writeAudit(ctx, store, userID, domain.AuditUpdate, table, party.PartyID, before, *party, now)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to update party", slog.String("party_id", partyID))
		return nil, err
	}
	return &updated, nil
}

// DeactivateParty deactivates the party and its ledger together.
func (s *partyService) DeactivateParty(ctx context.Context, kind domain.PartyKind, partyID string, userID string) error {
	table, _, _, err := partyLayout(kind)
	if err != nil {
		return err
	}
	err = s.UOW.WithinTx(ctx, func(ctx context.Context, store portsrepo.Store) error {
		party, err := store.Parties().FindPartyByID(ctx, kind, partyID)
		if err != nil {
			return err
		}
		if !party.IsActive {
			return nil
		}
		now := s.now()

		locked, err := store.Ledgers().LockLedgers(ctx, []string{party.LedgerID})
		if err != nil {
			return err
		}
		if ledger, ok := locked[party.LedgerID]; ok && ledger.IsActive {
			beforeLedger := ledger
			ledger.IsActive = false
			ledger.LastUpdatedAt = now
			ledger.LastUpdatedBy = userID
			if err := store.Ledgers().UpdateLedger(ctx, ledger); err != nil {
				return err
			}
			if err := writeAudit(ctx, store, userID, domain.AuditDeactivate, tableLedgers, ledger.LedgerID, beforeLedger, ledger, now); err != nil {
				return err
			}
		}

		before := *party
		party.IsActive = false
		party.LastUpdatedAt = now
		party.LastUpdatedBy = userID
		if err := store.Parties().UpdateParty(ctx, *party); err != nil {
			return err
		}
		return writeAudit(ctx, store, userID, domain.AuditDeactivate, table, party.PartyID, before, *party, now)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to deactivate party", slog.String("party_id", partyID))
		return err
	}
	s.LogInfo(ctx, "Party deactivated", slog.String("kind", string(kind)), slog.String("party_id", partyID))
	return nil
}

// GetStatement returns the party with every voucher posted to its ledger, newest first.
func (s *partyService) GetStatement(ctx context.Context, kind domain.PartyKind, partyID string) (*domain.PartyStatement, error) {
	var statement domain.PartyStatement
	err := s.UOW.View(ctx, func(ctx context.Context, store portsrepo.Store) error {
		party, err := store.Parties().FindPartyByID(ctx, kind, partyID)
		if err != nil {
			return err
		}
		vouchers, err := store.Vouchers().ListVouchers(ctx, domain.VoucherFilter{LedgerID: party.LedgerID})
		if err != nil {
			return err
		}
		statement = domain.PartyStatement{Party: *party, Vouchers: vouchers}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &statement, nil
}

// partyLayout returns the audit table, ledger type and ledger group of a party kind.
func partyLayout(kind domain.PartyKind) (string, domain.LedgerType, string, error) {
	switch kind {
	case domain.CustomerParty:
		return tableCustomers, domain.Asset, domain.GroupSundryDebtors, nil
	case domain.SupplierParty:
		return tableSuppliers, domain.Liability, domain.GroupSundryCreditors, nil
	default:
		return "", "", "", fmt.Errorf("%w: unknown party kind %q", apperrors.ErrValidation, kind)
	}
}
