package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/partsledger/internal/apperrors"
	"github.com/SscSPs/partsledger/internal/core/domain"
	portsrepo "github.com/SscSPs/partsledger/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLedger(id, name string) domain.Ledger {
	return domain.Ledger{LedgerID: id, Name: name, Type: domain.Asset, Balance: decimal.Zero, IsActive: true}
}

func TestWithinTxDiscardsFailedWork(t *testing.T) {
	ctx := context.Background()
	s := New()

	boom := errors.New("boom")
	err := s.WithinTx(ctx, func(ctx context.Context, store portsrepo.Store) error {
		require.NoError(t, store.Ledgers().SaveLedger(ctx, testLedger("l1", "Cash")))
		_, err := store.Sequences().NextValue(ctx, "voucher")
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	err = s.View(ctx, func(ctx context.Context, store portsrepo.Store) error {
		_, err := store.Ledgers().FindLedgerByID(ctx, "l1")
		return err
	})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	var next int64
	require.NoError(t, s.WithinTx(ctx, func(ctx context.Context, store portsrepo.Store) error {
		var err error
		next, err = store.Sequences().NextValue(ctx, "voucher")
		return err
	}))
	assert.Equal(t, int64(1), next)
}

func TestViewIsReadOnly(t *testing.T) {
	ctx := context.Background()
	s := New()
	err := s.View(ctx, func(ctx context.Context, store portsrepo.Store) error {
		return store.Ledgers().SaveLedger(ctx, testLedger("l1", "Cash"))
	})
	assert.ErrorIs(t, err, apperrors.ErrInternal)
}

func TestCancelledContextSkipsWork(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := New().WithinTx(ctx, func(context.Context, portsrepo.Store) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestLedgerNamesAreUniqueIgnoringCase(t *testing.T) {
	ctx := context.Background()
	s := New()
	err := s.WithinTx(ctx, func(ctx context.Context, store portsrepo.Store) error {
		if err := store.Ledgers().SaveLedger(ctx, testLedger("l1", "Cash")); err != nil {
			return err
		}
		return store.Ledgers().SaveLedger(ctx, testLedger("l2", "CASH"))
	})
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
}

func TestApplyBalanceDeltasAndLock(t *testing.T) {
	ctx := context.Background()
	s := New()
	now := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.WithinTx(ctx, func(ctx context.Context, store portsrepo.Store) error {
		for _, l := range []domain.Ledger{testLedger("a", "A"), testLedger("b", "B")} {
			if err := store.Ledgers().SaveLedger(ctx, l); err != nil {
				return err
			}
		}
		return store.Ledgers().ApplyBalanceDeltas(ctx, map[string]decimal.Decimal{
			"a": decimal.NewFromInt(10),
			"b": decimal.NewFromInt(-10),
		}, "tester", now)
	}))

	require.NoError(t, s.View(ctx, func(ctx context.Context, store portsrepo.Store) error {
		locked, err := store.Ledgers().LockLedgers(ctx, []string{"a", "b", "missing"})
		require.NoError(t, err)
		assert.Len(t, locked, 2)
		assert.True(t, locked["a"].Balance.Equal(decimal.NewFromInt(10)))
		assert.True(t, locked["b"].Balance.Equal(decimal.NewFromInt(-10)))
		assert.Equal(t, "tester", locked["a"].LastUpdatedBy)
		return nil
	}))
}

func TestListVouchersOrderAndCursor(t *testing.T) {
	ctx := context.Background()
	s := New()
	created := time.Date(2024, 4, 5, 10, 0, 0, 0, time.UTC)
	vouchers := []domain.Voucher{
		{VoucherID: "v1", VoucherNo: "VCH-000001", Date: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), DebitLedgerID: "a", CreditLedgerID: "b", Status: domain.VoucherPosted},
		{VoucherID: "v2", VoucherNo: "VCH-000002", Date: time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC), DebitLedgerID: "a", CreditLedgerID: "b", Status: domain.VoucherPosted},
		{VoucherID: "v3", VoucherNo: "VCH-000003", Date: time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC), DebitLedgerID: "a", CreditLedgerID: "c", Status: domain.VoucherPosted},
	}
	require.NoError(t, s.WithinTx(ctx, func(ctx context.Context, store portsrepo.Store) error {
		for _, v := range vouchers {
			v.CreatedAt = created
			if err := store.Vouchers().SaveVoucher(ctx, v); err != nil {
				return err
			}
		}
		return nil
	}))

	var all, afterFirst, forC []domain.Voucher
	require.NoError(t, s.View(ctx, func(ctx context.Context, store portsrepo.Store) error {
		var err error
		if all, err = store.Vouchers().ListVouchers(ctx, domain.VoucherFilter{}); err != nil {
			return err
		}
		cursor := domain.VoucherCursor{Date: all[0].Date, CreatedAt: all[0].CreatedAt, VoucherNo: all[0].VoucherNo}
		if afterFirst, err = store.Vouchers().ListVouchers(ctx, domain.VoucherFilter{After: &cursor, Limit: 1}); err != nil {
			return err
		}
		forC, err = store.Vouchers().ListVouchers(ctx, domain.VoucherFilter{LedgerID: "c"})
		return err
	}))

	require.Len(t, all, 3)
	assert.Equal(t, []string{"v3", "v2", "v1"}, []string{all[0].VoucherID, all[1].VoucherID, all[2].VoucherID})
	require.Len(t, afterFirst, 1)
	assert.Equal(t, "v2", afterFirst[0].VoucherID)
	require.Len(t, forC, 1)
	assert.Equal(t, "v3", forC[0].VoucherID)
}

func TestSaveDocumentChecksReferences(t *testing.T) {
	ctx := context.Background()
	s := New()
	doc := domain.Document{
		DocumentID: "d1",
		Kind:       domain.SaleDocument,
		Number:     "INV-000001",
		Lines:      []domain.DocumentLine{{LineID: "l1", DocumentID: "d1", LineNo: 1, ItemID: "missing"}},
	}
	err := s.WithinTx(ctx, func(ctx context.Context, store portsrepo.Store) error {
		return store.Documents().SaveDocument(ctx, doc)
	})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
