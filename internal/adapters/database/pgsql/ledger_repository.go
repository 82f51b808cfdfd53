package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/SscSPs/partsledger/internal/apperrors"
	"github.com/SscSPs/partsledger/internal/core/domain"
	portsrepo "github.com/SscSPs/partsledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type ledgerRepository struct {
	db DBTX
}

var _ portsrepo.LedgerRepositoryFacade = (*ledgerRepository)(nil)

const ledgerColumns = `ledger_id, name, ledger_type, balance, opening_balance, parent_group, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

func scanLedger(row rowScanner) (domain.Ledger, error) {
	var l domain.Ledger
	var parentGroup sql.NullString
	err := row.Scan(
		&l.LedgerID,
		&l.Name,
		&l.Type,
		&l.Balance,
		&l.OpeningBalance,
		&parentGroup,
		&l.IsActive,
		&l.CreatedAt,
		&l.CreatedBy,
		&l.LastUpdatedAt,
		&l.LastUpdatedBy,
	)
	if err != nil {
		return domain.Ledger{}, err
	}
	if parentGroup.Valid {
		l.ParentGroup = &parentGroup.String
	}
	return l, nil
}

func (r *ledgerRepository) findOne(ctx context.Context, where string, arg any, label string) (*domain.Ledger, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledgers WHERE ` + where
	l, err := scanLedger(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("ledger", label)
		}
		return nil, fmt.Errorf("failed to find ledger %s: %w", label, err)
	}
	return &l, nil
}

func (r *ledgerRepository) FindLedgerByID(ctx context.Context, ledgerID string) (*domain.Ledger, error) {
	return r.findOne(ctx, "ledger_id = $1", ledgerID, ledgerID)
}

func (r *ledgerRepository) FindLedgerByName(ctx context.Context, name string) (*domain.Ledger, error) {
	return r.findOne(ctx, "LOWER(name) = LOWER($1)", name, name)
}

func (r *ledgerRepository) ListLedgers(ctx context.Context, filter domain.LedgerFilter) ([]domain.Ledger, error) {
	var w whereBuilder
	if !filter.IncludeInactive {
		w.add("is_active")
	}
	if filter.Type != nil {
		w.add("ledger_type = ?", string(*filter.Type))
	}
	if filter.Search != "" {
		w.add("name ILIKE ?", likePattern(filter.Search))
	}
	query := `SELECT ` + ledgerColumns + ` FROM ledgers` + w.clause() + ` ORDER BY name`

	rows, err := r.db.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledgers: %w", err)
	}
	defer rows.Close()

	ledgers := make([]domain.Ledger, 0)
	for rows.Next() {
		l, err := scanLedger(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger row: %w", err)
		}
		ledgers = append(ledgers, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger rows: %w", err)
	}
	return ledgers, nil
}

func (r *ledgerRepository) SaveLedger(ctx context.Context, ledger domain.Ledger) error {
	query := `
		INSERT INTO ledgers (` + ledgerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.db.Exec(ctx, query,
		ledger.LedgerID,
		ledger.Name,
		string(ledger.Type),
		ledger.Balance,
		ledger.OpeningBalance,
		ledger.ParentGroup,
		ledger.IsActive,
		ledger.CreatedAt,
		ledger.CreatedBy,
		ledger.LastUpdatedAt,
		ledger.LastUpdatedBy,
	)
	return mapPgError(err, "save ledger "+ledger.Name)
}

// UpdateLedger writes master data only. Balances move through ApplyBalanceDeltas.
func (r *ledgerRepository) UpdateLedger(ctx context.Context, ledger domain.Ledger) error {
	query := `
		UPDATE ledgers
		SET name = $2, parent_group = $3, is_active = $4, last_updated_at = $5, last_updated_by = $6
		WHERE ledger_id = $1;
	`
	ct, err := r.db.Exec(ctx, query,
		ledger.LedgerID,
		ledger.Name,
		ledger.ParentGroup,
		ledger.IsActive,
		ledger.LastUpdatedAt,
		ledger.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "update ledger "+ledger.LedgerID)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("ledger", ledger.LedgerID)
	}
	return nil
}

// LockLedgers takes row locks in ascending id order so concurrent postings
// touching the same pair of ledgers cannot deadlock.
func (r *ledgerRepository) LockLedgers(ctx context.Context, ledgerIDs []string) (map[string]domain.Ledger, error) {
	if len(ledgerIDs) == 0 {
		return map[string]domain.Ledger{}, nil
	}
	ids := append([]string(nil), ledgerIDs...)
	sort.Strings(ids)

	query := `
		SELECT ` + ledgerColumns + `
		FROM ledgers
		WHERE ledger_id = ANY($1)
		ORDER BY ledger_id
		FOR UPDATE;
	`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledgers by IDs for update: %w", err)
	}
	defer rows.Close()

	locked := make(map[string]domain.Ledger, len(ids))
	for rows.Next() {
		l, err := scanLedger(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan locked ledger row: %w", err)
		}
		locked[l.LedgerID] = l
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating locked ledger rows: %w", err)
	}

	if len(locked) != len(ids) {
		missing := []string{}
		for _, id := range ids {
			if _, found := locked[id]; !found {
				missing = append(missing, id)
			}
		}
		slog.WarnContext(ctx, "Some ledgers requested for update lock were not found", "missing_ledgers", missing)
	}
	return locked, nil
}

// ApplyBalanceDeltas adds each delta to its ledger's balance within the current transaction.
func (r *ledgerRepository) ApplyBalanceDeltas(ctx context.Context, deltas map[string]decimal.Decimal, userID string, now time.Time) error {
	if len(deltas) == 0 {
		return nil
	}

	query := `
		UPDATE ledgers
		SET balance = COALESCE(balance, 0) + $2, last_updated_at = $3, last_updated_by = $4
		WHERE ledger_id = $1;
	`

	ids := make([]string, 0, len(deltas))
	for id, delta := range deltas {
		if !delta.IsZero() {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	sort.Strings(ids)

	batch := &pgx.Batch{}
	for _, id := range ids {
		batch.Queue(query, id, deltas[id], now, userID)
	}

	br := r.db.SendBatch(ctx, batch)
	var batchErr error
	for _, id := range ids {
		ct, err := br.Exec()
		if err != nil {
			if batchErr == nil {
				batchErr = fmt.Errorf("failed to update balance for ledger %s: %w", id, err)
			}
		} else if ct.RowsAffected() == 0 && batchErr == nil {
			batchErr = fmt.Errorf("%w: ledger %s not found during balance update", apperrors.ErrNotFound, id)
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close balance update batch: %w", err)
	}
	return batchErr
}
