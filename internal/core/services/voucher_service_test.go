package services_test

import (
	"errors"
	"time"

	"github.com/SscSPs/partsledger/internal/apperrors"
	"github.com/SscSPs/partsledger/internal/core/domain"
	"github.com/SscSPs/partsledger/internal/dto"
)

func (s *LedgerSuite) postVoucher(debit, credit domain.Ledger, amount string, date time.Time) *domain.Voucher {
	v, err := s.svc.Voucher.PostVoucher(s.ctx, dto.PostVoucherRequest{
		Date:           date,
		Type:           domain.JournalVoucher,
		DebitLedgerID:  debit.LedgerID,
		CreditLedgerID: credit.LedgerID,
		Amount:         dec(amount),
	}, testOperator)
	s.Require().NoError(err)
	return v
}

func (s *LedgerSuite) TestPostThenCancelRestoresBalances() {
	cash := s.ledgerByName("Cash")
	sales := s.ledgerByName("Sales")

	v := s.postVoucher(cash, sales, "1000", day(2))
	s.Equal("VCH-000001", v.VoucherNo)
	s.Equal(domain.VoucherPosted, v.Status)
	s.requireBalance("Cash", "1000")
	s.requireBalance("Sales", "1000")

	cancelled, err := s.svc.Voucher.CancelVoucher(s.ctx, v.VoucherID, testOperator)
	s.Require().NoError(err)
	s.Equal(domain.VoucherCancelled, cancelled.Status)
	s.Require().NotNil(cancelled.CancelledBy)
	s.Equal(testOperator, *cancelled.CancelledBy)
	s.requireBalance("Cash", "0")
	s.requireBalance("Sales", "0")

	_, err = s.svc.Voucher.CancelVoucher(s.ctx, v.VoucherID, testOperator)
	s.True(errors.Is(err, apperrors.ErrAlreadyCancelled))
	s.True(errors.Is(err, apperrors.ErrConflict))

	s.requireLedgersReconcile()
}

func (s *LedgerSuite) TestPostVoucherRejectsBadInput() {
	cash := s.ledgerByName("Cash")
	sales := s.ledgerByName("Sales")
	before := s.auditCount()

	_, err := s.svc.Voucher.PostVoucher(s.ctx, dto.PostVoucherRequest{
		Date: day(2), Type: domain.JournalVoucher, DebitLedgerID: cash.LedgerID, CreditLedgerID: sales.LedgerID, Amount: dec("0"),
	}, testOperator)
	s.True(errors.Is(err, apperrors.ErrValidation), "zero amount")

	_, err = s.svc.Voucher.PostVoucher(s.ctx, dto.PostVoucherRequest{
		Date: day(2), Type: domain.JournalVoucher, DebitLedgerID: cash.LedgerID, CreditLedgerID: cash.LedgerID, Amount: dec("5"),
	}, testOperator)
	s.True(errors.Is(err, apperrors.ErrValidation), "same ledger")

	_, err = s.svc.Voucher.PostVoucher(s.ctx, dto.PostVoucherRequest{
		Date: day(2), Type: domain.JournalVoucher, DebitLedgerID: cash.LedgerID, CreditLedgerID: "missing", Amount: dec("5"),
	}, testOperator)
	s.True(errors.Is(err, apperrors.ErrNotFound), "unknown ledger")

	_, err = s.svc.Voucher.PostVoucher(s.ctx, dto.PostVoucherRequest{
		Date: day(2), Type: domain.SalesVoucher, DebitLedgerID: cash.LedgerID, CreditLedgerID: sales.LedgerID, Amount: dec("5"),
	}, testOperator)
	s.True(errors.Is(err, apperrors.ErrValidation), "document voucher types are not manual")

	rent, err := s.svc.Ledger.CreateLedger(s.ctx, dto.CreateLedgerRequest{Name: "Rent", Type: domain.Expense}, testOperator)
	s.Require().NoError(err)
	s.Require().NoError(s.svc.Ledger.DeactivateLedger(s.ctx, rent.LedgerID, testOperator))
	_, err = s.svc.Voucher.PostVoucher(s.ctx, dto.PostVoucherRequest{
		Date: day(2), Type: domain.PaymentVoucher, DebitLedgerID: rent.LedgerID, CreditLedgerID: cash.LedgerID, Amount: dec("5"),
	}, testOperator)
	s.True(errors.Is(err, apperrors.ErrValidation), "inactive ledger")

	s.requireBalance("Cash", "0")
	s.Equal(before+2, s.auditCount(), "only the ledger create and deactivate were audited")
}

func (s *LedgerSuite) TestListVouchersPaginatesWithoutGaps() {
	cash := s.ledgerByName("Cash")
	sales := s.ledgerByName("Sales")
	for i := 0; i < 5; i++ {
		s.postVoucher(cash, sales, "10", day(2))
	}

	seen := make(map[string]bool)
	var token *string
	pages := 0
	for {
		resp, err := s.svc.Voucher.ListVouchers(s.ctx, dto.ListVouchersParams{Limit: 2, NextToken: token})
		s.Require().NoError(err)
		pages++
		for _, v := range resp.Vouchers {
			s.False(seen[v.VoucherID], "voucher %s repeated", v.VoucherNo)
			seen[v.VoucherID] = true
		}
		if resp.NextToken == nil {
			break
		}
		token = resp.NextToken
	}
	s.Len(seen, 5)
	s.Equal(3, pages)

	bad := "not-a-token"
	_, err := s.svc.Voucher.ListVouchers(s.ctx, dto.ListVouchersParams{Limit: 2, NextToken: &bad})
	s.True(errors.Is(err, apperrors.ErrValidation))
}

func (s *LedgerSuite) TestGetVoucherNotFound() {
	_, err := s.svc.Voucher.GetVoucherByID(s.ctx, "nope")
	s.True(errors.Is(err, apperrors.ErrNotFound))
}
