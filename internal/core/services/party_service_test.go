package services_test

import (
	"errors"
	"strings"

	"github.com/SscSPs/partsledger/internal/apperrors"
	"github.com/SscSPs/partsledger/internal/core/domain"
	"github.com/SscSPs/partsledger/internal/dto"
)

func (s *LedgerSuite) TestCreatePartyOpensLedger() {
	customer, err := s.svc.Party.CreateParty(s.ctx, domain.CustomerParty, dto.CreatePartyRequest{
		Name:           "Kumar Garage",
		Phone:          ptr("98450 00000"),
		OpeningBalance: dec("250"),
	}, testOperator)
	s.Require().NoError(err)
	s.True(customer.Balance.Equal(dec("250")))

	ledger, err := s.svc.Ledger.GetLedgerByID(s.ctx, customer.LedgerID)
	s.Require().NoError(err)
	s.Equal(domain.Asset, ledger.Type)
	s.Require().NotNil(ledger.ParentGroup)
	s.Equal(domain.GroupSundryDebtors, *ledger.ParentGroup)
	s.True(strings.HasPrefix(ledger.Name, "Kumar Garage ("))

	supplier := s.createSupplier("Kumar Garage")
	supplierLedger, err := s.svc.Ledger.GetLedgerByID(s.ctx, supplier.LedgerID)
	s.Require().NoError(err)
	s.Equal(domain.Liability, supplierLedger.Type)
	s.Equal(domain.GroupSundryCreditors, *supplierLedger.ParentGroup)
	s.NotEqual(ledger.Name, supplierLedger.Name, "parties sharing a name get distinct ledgers")

	_, err = s.svc.Party.CreateParty(s.ctx, domain.CustomerParty, dto.CreatePartyRequest{Name: "Bad", CreditLimit: dec("-1")}, testOperator)
	s.True(errors.Is(err, apperrors.ErrValidation))

	_, err = s.svc.Party.CreateParty(s.ctx, "BROKER", dto.CreatePartyRequest{Name: "Bad"}, testOperator)
	s.True(errors.Is(err, apperrors.ErrValidation))
}

func (s *LedgerSuite) TestPartyStatementListsItsVouchers() {
	item := s.createItem("STM-1", "10", "10")
	customer := s.createCustomer("Sharma Autos", "0")

	for _, qty := range []string{"1", "2"} {
		_, err := s.svc.Document.ComposeSale(s.ctx, dto.CreateSaleRequest{
			CustomerID:    &customer.PartyID,
			Date:          day(3),
			PaymentMethod: domain.PaymentCredit,
			Lines:         []dto.DocumentLineRequest{{ItemID: item.ItemID, Quantity: dec(qty), Rate: dec("20")}},
		}, testOperator)
		s.Require().NoError(err)
	}

	cash := s.ledgerByName("Cash")
	_, err := s.svc.Voucher.PostVoucher(s.ctx, dto.PostVoucherRequest{
		Date: day(4), Type: domain.ReceiptVoucher, DebitLedgerID: cash.LedgerID, CreditLedgerID: customer.LedgerID, Amount: dec("40"),
	}, testOperator)
	s.Require().NoError(err)

	statement, err := s.svc.Party.GetStatement(s.ctx, domain.CustomerParty, customer.PartyID)
	s.Require().NoError(err)
	s.True(statement.Party.Balance.Equal(dec("20")))
	s.Require().Len(statement.Vouchers, 3)
	s.Equal(domain.ReceiptVoucher, statement.Vouchers[0].Type, "newest first")

	_, err = s.svc.Party.GetStatement(s.ctx, domain.SupplierParty, customer.PartyID)
	s.True(errors.Is(err, apperrors.ErrNotFound), "a customer is not a supplier")
}

func (s *LedgerSuite) TestUpdateAndDeactivateParty() {
	customer := s.createCustomer("Old Name", "100")

	updated, err := s.svc.Party.UpdateParty(s.ctx, domain.CustomerParty, customer.PartyID, dto.UpdatePartyRequest{
		Name:        ptr("New Name"),
		CreditLimit: ptr(dec("500")),
	}, testOperator)
	s.Require().NoError(err)
	s.Equal("New Name", updated.Name)
	s.True(updated.CreditLimit.Equal(dec("500")))
	s.Equal(customer.LedgerID, updated.LedgerID)

	listed, err := s.svc.Party.ListParties(s.ctx, domain.CustomerParty, dto.ListPartiesParams{Search: "new"})
	s.Require().NoError(err)
	s.Len(listed, 1)

	s.Require().NoError(s.svc.Party.DeactivateParty(s.ctx, domain.CustomerParty, customer.PartyID, testOperator))
	s.Require().NoError(s.svc.Party.DeactivateParty(s.ctx, domain.CustomerParty, customer.PartyID, testOperator))

	ledger, err := s.svc.Ledger.GetLedgerByID(s.ctx, customer.LedgerID)
	s.Require().NoError(err)
	s.False(ledger.IsActive)

	listed, err = s.svc.Party.ListParties(s.ctx, domain.CustomerParty, dto.ListPartiesParams{})
	s.Require().NoError(err)
	s.Empty(listed)

	item := s.createItem("DPT-1", "5", "5")
	_, err = s.svc.Document.ComposeSale(s.ctx, dto.CreateSaleRequest{
		CustomerID:    &customer.PartyID,
		Date:          day(3),
		PaymentMethod: domain.PaymentCredit,
		Lines:         []dto.DocumentLineRequest{{ItemID: item.ItemID, Quantity: dec("1"), Rate: dec("9")}},
	}, testOperator)
	s.True(errors.Is(err, apperrors.ErrValidation), "inactive customer")
}
