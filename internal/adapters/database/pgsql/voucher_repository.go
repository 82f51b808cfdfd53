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

type voucherRepository struct {
	db DBTX
}

var _ portsrepo.VoucherRepositoryFacade = (*voucherRepository)(nil)

const voucherColumns = `voucher_id, voucher_no, voucher_date, voucher_type, debit_ledger_id, credit_ledger_id,
	amount, narration, reference_no, document_id, status, cancelled_at, cancelled_by,
	created_at, created_by, last_updated_at, last_updated_by`

func scanVoucher(row rowScanner) (domain.Voucher, error) {
	var v domain.Voucher
	err := row.Scan(
		&v.VoucherID,
		&v.VoucherNo,
		&v.Date,
		&v.Type,
		&v.DebitLedgerID,
		&v.CreditLedgerID,
		&v.Amount,
		&v.Narration,
		&v.ReferenceNo,
		&v.DocumentID,
		&v.Status,
		&v.CancelledAt,
		&v.CancelledBy,
		&v.CreatedAt,
		&v.CreatedBy,
		&v.LastUpdatedAt,
		&v.LastUpdatedBy,
	)
	return v, err
}

func (r *voucherRepository) findOne(ctx context.Context, voucherID string, lock bool) (*domain.Voucher, error) {
	query := `SELECT ` + voucherColumns + ` FROM vouchers WHERE voucher_id = $1`
	if lock {
		query += ` FOR UPDATE`
	}
	v, err := scanVoucher(r.db.QueryRow(ctx, query, voucherID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("voucher", voucherID)
		}
		return nil, fmt.Errorf("failed to find voucher %s: %w", voucherID, err)
	}
	return &v, nil
}

func (r *voucherRepository) FindVoucherByID(ctx context.Context, voucherID string) (*domain.Voucher, error) {
	return r.findOne(ctx, voucherID, false)
}

// LockVoucher loads the voucher and holds its row lock until the transaction ends.
func (r *voucherRepository) LockVoucher(ctx context.Context, voucherID string) (*domain.Voucher, error) {
	return r.findOne(ctx, voucherID, true)
}

// ListVouchers returns matches newest first by (voucher_date, created_at, voucher_no).
func (r *voucherRepository) ListVouchers(ctx context.Context, filter domain.VoucherFilter) ([]domain.Voucher, error) {
	var w whereBuilder
	if filter.From != nil {
		w.add("voucher_date >= ?", *filter.From)
	}
	if filter.To != nil {
		w.add("voucher_date <= ?", *filter.To)
	}
	if filter.Type != nil {
		w.add("voucher_type = ?", string(*filter.Type))
	}
	if filter.Status != nil {
		w.add("status = ?", string(*filter.Status))
	}
	if filter.LedgerID != "" {
		p := w.arg(filter.LedgerID)
		w.conds = append(w.conds, fmt.Sprintf("(debit_ledger_id = %s OR credit_ledger_id = %s)", p, p))
	}
	if filter.DocumentID != "" {
		w.add("document_id = ?", filter.DocumentID)
	}
	if c := filter.After; c != nil {
		w.add("(voucher_date, created_at, voucher_no) < (?, ?, ?)", c.Date, c.CreatedAt, c.VoucherNo)
	}

	query := `SELECT ` + voucherColumns + ` FROM vouchers` + w.clause() +
		` ORDER BY voucher_date DESC, created_at DESC, voucher_no DESC`
	if filter.Limit > 0 {
		query += " LIMIT " + w.arg(filter.Limit)
	}

	rows, err := r.db.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list vouchers: %w", err)
	}
	defer rows.Close()

	vouchers := make([]domain.Voucher, 0)
	for rows.Next() {
		v, err := scanVoucher(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan voucher row: %w", err)
		}
		vouchers = append(vouchers, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating voucher rows: %w", err)
	}
	return vouchers, nil
}

func (r *voucherRepository) SaveVoucher(ctx context.Context, v domain.Voucher) error {
	query := `
		INSERT INTO vouchers (` + voucherColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err := r.db.Exec(ctx, query,
		v.VoucherID,
		v.VoucherNo,
		v.Date,
		string(v.Type),
		v.DebitLedgerID,
		v.CreditLedgerID,
		v.Amount,
		v.Narration,
		v.ReferenceNo,
		v.DocumentID,
		string(v.Status),
		v.CancelledAt,
		v.CancelledBy,
		v.CreatedAt,
		v.CreatedBy,
		v.LastUpdatedAt,
		v.LastUpdatedBy,
	)
	return mapPgError(err, "save voucher "+v.VoucherNo)
}

// UpdateVoucherStatus writes the status and cancellation fields; nothing else on a voucher changes.
func (r *voucherRepository) UpdateVoucherStatus(ctx context.Context, v domain.Voucher) error {
	query := `
		UPDATE vouchers
		SET status = $2, cancelled_at = $3, cancelled_by = $4, last_updated_at = $5, last_updated_by = $6
		WHERE voucher_id = $1;
	`
	ct, err := r.db.Exec(ctx, query, v.VoucherID, string(v.Status), v.CancelledAt, v.CancelledBy, v.LastUpdatedAt, v.LastUpdatedBy)
	if err != nil {
		return mapPgError(err, "update voucher "+v.VoucherNo)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("voucher", v.VoucherID)
	}
	return nil
}
