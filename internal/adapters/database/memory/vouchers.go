package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/SscSPs/partsledger/internal/apperrors"
	"github.com/SscSPs/partsledger/internal/core/domain"
)

func (t *txStore) FindVoucherByID(_ context.Context, voucherID string) (*domain.Voucher, error) {
	v, ok := t.st.vouchers[voucherID]
	if !ok {
		return nil, apperrors.NewNotFoundError("voucher", voucherID)
	}
	return &v, nil
}

// ListVouchers returns matches newest first by (date, createdAt, voucherNo).
func (t *txStore) ListVouchers(_ context.Context, filter domain.VoucherFilter) ([]domain.Voucher, error) {
	result := make([]domain.Voucher, 0)
	for _, v := range t.st.vouchers {
		if filter.From != nil && v.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && v.Date.After(*filter.To) {
			continue
		}
		if filter.Type != nil && v.Type != *filter.Type {
			continue
		}
		if filter.Status != nil && v.Status != *filter.Status {
			continue
		}
		if filter.LedgerID != "" && !v.Touches(filter.LedgerID) {
			continue
		}
		if filter.DocumentID != "" && (v.DocumentID == nil || *v.DocumentID != filter.DocumentID) {
			continue
		}
		if filter.After != nil && !filter.After.Before(v) {
			continue
		}
		result = append(result, v)
	}
	sort.Slice(result, func(i, j int) bool {
		return domain.VoucherCursor{Date: result[i].Date, CreatedAt: result[i].CreatedAt, VoucherNo: result[i].VoucherNo}.Before(result[j])
	})
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (t *txStore) SaveVoucher(_ context.Context, voucher domain.Voucher) error {
	if err := t.writable(); err != nil {
		return err
	}
	for _, v := range t.st.vouchers {
		if v.VoucherID == voucher.VoucherID || v.VoucherNo == voucher.VoucherNo {
			return fmt.Errorf("%w: voucher %s", apperrors.ErrDuplicate, voucher.VoucherNo)
		}
	}
	t.st.vouchers[voucher.VoucherID] = voucher
	return nil
}

func (t *txStore) LockVoucher(ctx context.Context, voucherID string) (*domain.Voucher, error) {
	return t.FindVoucherByID(ctx, voucherID)
}

func (t *txStore) UpdateVoucherStatus(_ context.Context, voucher domain.Voucher) error {
	if err := t.writable(); err != nil {
		return err
	}
	current, ok := t.st.vouchers[voucher.VoucherID]
	if !ok {
		return apperrors.NewNotFoundError("voucher", voucher.VoucherID)
	}
	current.Status = voucher.Status
	current.CancelledAt = voucher.CancelledAt
	current.CancelledBy = voucher.CancelledBy
	current.LastUpdatedAt = voucher.LastUpdatedAt
	current.LastUpdatedBy = voucher.LastUpdatedBy
	t.st.vouchers[voucher.VoucherID] = current
	return nil
}
