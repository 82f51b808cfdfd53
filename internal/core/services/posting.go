package services

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/partsledger/internal/apperrors"
	"github.com/SscSPs/partsledger/internal/core/domain"
	portsrepo "github.com/SscSPs/partsledger/internal/core/ports/repositories"
	"github.com/SscSPs/partsledger/internal/utils/accounting"
	"github.com/SscSPs/partsledger/internal/utils/numbering"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// voucherDraft is a voucher before it is numbered and posted.
type voucherDraft struct {
	Date           time.Time
	Type           domain.VoucherType
	DebitLedgerID  string
	CreditLedgerID string
	Amount         decimal.Decimal
	Narration      *string
	ReferenceNo    *string
	DocumentID     *string
}

// postToLedgers moves amount from the credit ledger to the debit ledger and
// returns the resulting balances. Both ledgers are locked for the rest of the tx.
func postToLedgers(ctx context.Context, store portsrepo.Store, debitID, creditID string, amount decimal.Decimal, userID string, now time.Time) (map[string]decimal.Decimal, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	if debitID == creditID {
		return nil, fmt.Errorf("%w: debit and credit ledger must differ", apperrors.ErrValidation)
	}

	locked, err := store.Ledgers().LockLedgers(ctx, []string{debitID, creditID})
	if err != nil {
		return nil, err
	}
	debit, ok := locked[debitID]
	if !ok {
		return nil, apperrors.NewNotFoundError("ledger", debitID)
	}
	credit, ok := locked[creditID]
	if !ok {
		return nil, apperrors.NewNotFoundError("ledger", creditID)
	}
	for _, l := range []domain.Ledger{debit, credit} {
		if !l.IsActive {
			return nil, fmt.Errorf("%w: ledger %s is inactive", apperrors.ErrValidation, l.Name)
		}
	}

	deltas, err := accounting.PostingDeltas(debit, credit, amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInternal, err)
	}
	return applyLedgerDeltas(ctx, store, locked, deltas, userID, now)
}

// applyLedgerDeltas writes deltas and reads every touched balance back.
// A mismatch aborts the unit of work.
func applyLedgerDeltas(ctx context.Context, store portsrepo.Store, locked map[string]domain.Ledger, deltas map[string]decimal.Decimal, userID string, now time.Time) (map[string]decimal.Decimal, error) {
	if err := store.Ledgers().ApplyBalanceDeltas(ctx, deltas, userID, now); err != nil {
		return nil, err
	}

	expected := make(map[string]decimal.Decimal, len(deltas))
	for id, delta := range deltas {
		expected[id] = locked[id].Balance.Add(delta)
	}
	for id, want := range expected {
		got, err := store.Ledgers().FindLedgerByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if !got.Balance.Equal(want) {
			return nil, fmt.Errorf("%w: ledger %s balance is %s, expected %s", apperrors.ErrInvariantViolation, id, got.Balance, want)
		}
	}
	return expected, nil
}

// postVoucherInTx posts draft to both ledgers, numbers it and stores it.
func postVoucherInTx(ctx context.Context, store portsrepo.Store, draft voucherDraft, userID string, now time.Time) (*domain.Voucher, error) {
	if _, err := postToLedgers(ctx, store, draft.DebitLedgerID, draft.CreditLedgerID, draft.Amount, userID, now); err != nil {
		return nil, err
	}

	seq, err := store.Sequences().NextValue(ctx, numbering.Voucher.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate voucher number: %w", err)
	}

	voucher := domain.Voucher{
		VoucherID:      uuid.NewString(),
		VoucherNo:      numbering.Voucher.Format(seq),
		Date:           draft.Date,
		Type:           draft.Type,
		DebitLedgerID:  draft.DebitLedgerID,
		CreditLedgerID: draft.CreditLedgerID,
		Amount:         draft.Amount,
		Narration:      draft.Narration,
		ReferenceNo:    draft.ReferenceNo,
		DocumentID:     draft.DocumentID,
		Status:         domain.VoucherPosted,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := store.Vouchers().SaveVoucher(ctx, voucher); err != nil {
		return nil, err
	}
	if err := writeAudit(ctx, store, userID, domain.AuditPost, tableVouchers, voucher.VoucherID, nil, voucher, now); err != nil {
		return nil, err
	}
	return &voucher, nil
}

// reverseVoucherInTx undoes a posted voucher's exact balance effect and marks it cancelled.
// Vouchers owned by a document are only reversible as part of cancelling that document.
func reverseVoucherInTx(ctx context.Context, store portsrepo.Store, voucherID string, fromDocument bool, userID string, now time.Time) (*domain.Voucher, error) {
	voucher, err := store.Vouchers().LockVoucher(ctx, voucherID)
	if err != nil {
		return nil, err
	}
	if voucher.Status == domain.VoucherCancelled {
		return nil, fmt.Errorf("%w: voucher %s", apperrors.ErrAlreadyCancelled, voucher.VoucherNo)
	}
	if voucher.DocumentID != nil && !fromDocument {
		return nil, fmt.Errorf("%w: voucher %s belongs to a sale or purchase, cancel that instead", apperrors.ErrConflict, voucher.VoucherNo)
	}

	locked, err := store.Ledgers().LockLedgers(ctx, []string{voucher.DebitLedgerID, voucher.CreditLedgerID})
	if err != nil {
		return nil, err
	}
	debit, ok := locked[voucher.DebitLedgerID]
	if !ok {
		return nil, apperrors.NewNotFoundError("ledger", voucher.DebitLedgerID)
	}
	credit, ok := locked[voucher.CreditLedgerID]
	if !ok {
		return nil, apperrors.NewNotFoundError("ledger", voucher.CreditLedgerID)
	}

	deltas, err := accounting.PostingDeltas(debit, credit, voucher.Amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInternal, err)
	}
	if _, err := applyLedgerDeltas(ctx, store, locked, accounting.InvertDeltas(deltas), userID, now); err != nil {
		return nil, err
	}

	before := *voucher
	cancelledAt := now
	cancelledBy := userID
	voucher.Status = domain.VoucherCancelled
	voucher.CancelledAt = &cancelledAt
	voucher.CancelledBy = &cancelledBy
	voucher.LastUpdatedAt = now
	voucher.LastUpdatedBy = userID

	if err := store.Vouchers().UpdateVoucherStatus(ctx, *voucher); err != nil {
		return nil, err
	}
	if err := writeAudit(ctx, store, userID, domain.AuditCancel, tableVouchers, voucher.VoucherID, before, *voucher, now); err != nil {
		return nil, err
	}
	return voucher, nil
}
