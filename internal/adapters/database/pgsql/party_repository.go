package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/partsledger/internal/apperrors"
	"github.com/SscSPs/partsledger/internal/core/domain"
	portsrepo "github.com/SscSPs/partsledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
)

type partyRepository struct {
	db DBTX
}

var _ portsrepo.PartyRepositoryFacade = (*partyRepository)(nil)

type partyTable struct {
	name     string
	idColumn string
}

var partyTablesByKind = map[domain.PartyKind]partyTable{
	domain.CustomerParty: {name: "customers", idColumn: "customer_id"},
	domain.SupplierParty: {name: "suppliers", idColumn: "supplier_id"},
}

func partyTableFor(kind domain.PartyKind) (partyTable, error) {
	t, ok := partyTablesByKind[kind]
	if !ok {
		return partyTable{}, fmt.Errorf("%w: unknown party kind %q", apperrors.ErrValidation, kind)
	}
	return t, nil
}

// selectParties joins the party ledger so every row carries its balance.
func (t partyTable) selectParties() string {
	return fmt.Sprintf(`
		SELECT p.%s, p.name, p.phone, p.email, p.address, p.gstin, p.ledger_id, p.credit_limit, p.is_active,
			COALESCE(l.balance, 0), p.created_at, p.created_by, p.last_updated_at, p.last_updated_by
		FROM %s p
		LEFT JOIN ledgers l ON l.ledger_id = p.ledger_id`, t.idColumn, t.name)
}

func scanParty(row rowScanner, kind domain.PartyKind) (domain.Party, error) {
	p := domain.Party{Kind: kind}
	err := row.Scan(
		&p.PartyID,
		&p.Name,
		&p.Phone,
		&p.Email,
		&p.Address,
		&p.GSTIN,
		&p.LedgerID,
		&p.CreditLimit,
		&p.IsActive,
		&p.Balance,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.LastUpdatedAt,
		&p.LastUpdatedBy,
	)
	return p, err
}

func (r *partyRepository) FindPartyByID(ctx context.Context, kind domain.PartyKind, partyID string) (*domain.Party, error) {
	t, err := partyTableFor(kind)
	if err != nil {
		return nil, err
	}
	query := t.selectParties() + fmt.Sprintf(` WHERE p.%s = $1`, t.idColumn)
	p, err := scanParty(r.db.QueryRow(ctx, query, partyID), kind)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(string(kind), partyID)
		}
		return nil, fmt.Errorf("failed to find %s %s: %w", kind, partyID, err)
	}
	return &p, nil
}

func (r *partyRepository) ListParties(ctx context.Context, kind domain.PartyKind, filter domain.PartyFilter) ([]domain.Party, error) {
	t, err := partyTableFor(kind)
	if err != nil {
		return nil, err
	}
	var w whereBuilder
	if !filter.IncludeInactive {
		w.add("p.is_active")
	}
	if filter.Search != "" {
		p := w.arg(likePattern(filter.Search))
		w.conds = append(w.conds, fmt.Sprintf("(p.name ILIKE %[1]s OR p.phone ILIKE %[1]s)", p))
	}
	query := t.selectParties() + w.clause() + ` ORDER BY p.name`

	rows, err := r.db.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", t.name, err)
	}
	defer rows.Close()

	parties := make([]domain.Party, 0)
	for rows.Next() {
		p, err := scanParty(rows, kind)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", t.name, err)
		}
		parties = append(parties, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s rows: %w", t.name, err)
	}
	return parties, nil
}

func (r *partyRepository) SaveParty(ctx context.Context, party domain.Party) error {
	t, err := partyTableFor(party.Kind)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, name, phone, email, address, gstin, ledger_id, credit_limit, is_active,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`, t.name, t.idColumn)
	_, err = r.db.Exec(ctx, query,
		party.PartyID,
		party.Name,
		party.Phone,
		party.Email,
		party.Address,
		party.GSTIN,
		party.LedgerID,
		party.CreditLimit,
		party.IsActive,
		party.CreatedAt,
		party.CreatedBy,
		party.LastUpdatedAt,
		party.LastUpdatedBy,
	)
	return mapPgError(err, "save "+string(party.Kind)+" "+party.Name)
}

// UpdateParty writes the master fields. The ledger link and creation fields never change.
func (r *partyRepository) UpdateParty(ctx context.Context, party domain.Party) error {
	t, err := partyTableFor(party.Kind)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $2, phone = $3, email = $4, address = $5, gstin = $6, credit_limit = $7, is_active = $8,
			last_updated_at = $9, last_updated_by = $10
		WHERE %s = $1`, t.name, t.idColumn)
	ct, err := r.db.Exec(ctx, query,
		party.PartyID,
		party.Name,
		party.Phone,
		party.Email,
		party.Address,
		party.GSTIN,
		party.CreditLimit,
		party.IsActive,
		party.LastUpdatedAt,
		party.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "update "+string(party.Kind)+" "+party.PartyID)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(string(party.Kind), party.PartyID)
	}
	return nil
}
