package services_test

import (
	"errors"
	"sync"

	"github.com/SscSPs/partsledger/internal/apperrors"
	"github.com/SscSPs/partsledger/internal/core/domain"
	"github.com/SscSPs/partsledger/internal/dto"
)

func (s *LedgerSuite) purchase(supplier *domain.Party, method domain.PaymentMethod, itemID, qty, rate string) *domain.Document {
	doc, err := s.svc.Document.ComposePurchase(s.ctx, dto.CreatePurchaseRequest{
		SupplierID:    supplier.PartyID,
		Date:          day(2),
		PaymentMethod: method,
		Lines:         []dto.DocumentLineRequest{{ItemID: itemID, Quantity: dec(qty), Rate: dec(rate)}},
	}, testOperator)
	s.Require().NoError(err)
	return doc
}

func (s *LedgerSuite) TestOpeningPurchaseSaleScenario() {
	item := s.createItem("BRK-01", "100", "50")
	s.True(item.CurrentQty.Equal(dec("100")))
	s.True(item.AverageCost.Equal(dec("50")))

	supplier := s.createSupplier("Ace Spares")
	pur := s.purchase(supplier, domain.PaymentCash, item.ItemID, "20", "60")
	s.Equal("PUR-000001", pur.Number)
	s.True(pur.Total.Equal(dec("1200")))
	s.Require().NotNil(pur.CounterpartyName)
	s.Equal("Ace Spares", *pur.CounterpartyName)

	item, err := s.svc.Stock.GetStockItemByID(s.ctx, item.ItemID)
	s.Require().NoError(err)
	s.True(item.CurrentQty.Equal(dec("120")))
	s.Equal("51.67", item.AverageCost.StringFixed(2))
	s.Require().NotNil(item.LastPurchasePrice)
	s.True(item.LastPurchasePrice.Equal(dec("60")))

	sale, err := s.cashSale(item.ItemID, "30", "80")
	s.Require().NoError(err)
	s.Equal("INV-000001", sale.Number)
	s.True(sale.Total.Equal(dec("2400")))
	s.Require().Len(sale.Lines, 1)
	s.True(sale.Lines[0].LineTotal.Equal(dec("2400")))

	item, err = s.svc.Stock.GetStockItemByID(s.ctx, item.ItemID)
	s.Require().NoError(err)
	s.True(item.CurrentQty.Equal(dec("90")))
	s.Equal("51.67", item.AverageCost.StringFixed(2), "sales leave the average cost alone")

	s.requireBalance("Sales", "2400")
	s.requireBalance("Purchases", "1200")
	s.requireBalance("Cash", "1200")
	s.requireBalance("Output Tax", "0")

	txns, err := s.svc.Stock.ListStockTransactions(s.ctx, item.ItemID)
	s.Require().NoError(err)
	s.Require().Len(txns, 3)
	s.Equal(domain.StockOpening, txns[0].Type)
	s.Equal(domain.StockPurchase, txns[1].Type)
	s.Equal(domain.StockSale, txns[2].Type)
	s.True(txns[2].Quantity.Equal(dec("-30")))
	s.True(txns[2].QtyAfter.Equal(dec("90")))
	s.Require().NotNil(txns[2].DocumentID)
	s.Equal(sale.DocumentID, *txns[2].DocumentID)

	resp, err := s.svc.Voucher.ListVouchers(s.ctx, dto.ListVouchersParams{})
	s.Require().NoError(err)
	s.Require().Len(resp.Vouchers, 2)
	for _, v := range resp.Vouchers {
		s.Require().NotNil(v.DocumentID)
	}

	s.requireItemReconciles(item.ItemID)
	s.requireLedgersReconcile()
}

func (s *LedgerSuite) TestSaleWithTaxAndDiscountSplitsVouchers() {
	item := s.createItem("FLT-02", "10", "100")

	sale, err := s.svc.Document.ComposeSale(s.ctx, dto.CreateSaleRequest{
		CustomerName:  ptr("Walk-in"),
		Date:          day(3),
		PaymentMethod: domain.PaymentCash,
		Discount:      dec("50"),
		Lines: []dto.DocumentLineRequest{
			{ItemID: item.ItemID, Quantity: dec("2"), Rate: dec("500"), TaxRate: dec("0.18")},
		},
	}, testOperator)
	s.Require().NoError(err)
	s.True(sale.Subtotal.Equal(dec("1000")))
	s.True(sale.TaxAmount.Equal(dec("180")))
	s.True(sale.DiscountAmount.Equal(dec("50")))
	s.True(sale.Total.Equal(dec("1130")))
	s.Nil(sale.CounterpartyID)
	s.Equal("Walk-in", *sale.CounterpartyName)

	s.requireBalance("Sales", "950")
	s.requireBalance("Output Tax", "180")
	s.requireBalance("Cash", "1130")
	s.requireLedgersReconcile()
}

func (s *LedgerSuite) TestInsufficientSaleRollsBackEverything() {
	item := s.createItem("OIL-03", "5", "40")
	auditBefore := s.auditCount()

	_, err := s.svc.Document.ComposeSale(s.ctx, dto.CreateSaleRequest{
		Date:          day(3),
		PaymentMethod: domain.PaymentCash,
		Lines: []dto.DocumentLineRequest{
			{ItemID: item.ItemID, Quantity: dec("3"), Rate: dec("90")},
			{ItemID: item.ItemID, Quantity: dec("3"), Rate: dec("90")},
		},
	}, testOperator)
	s.True(errors.Is(err, apperrors.ErrInsufficientStock))

	s.Equal(auditBefore, s.auditCount())
	txns, err := s.svc.Stock.ListStockTransactions(s.ctx, item.ItemID)
	s.Require().NoError(err)
	s.Len(txns, 1)
	resp, err := s.svc.Voucher.ListVouchers(s.ctx, dto.ListVouchersParams{})
	s.Require().NoError(err)
	s.Empty(resp.Vouchers)
	sales, err := s.svc.Document.ListDocuments(s.ctx, domain.SaleDocument, dto.ListDocumentsParams{})
	s.Require().NoError(err)
	s.Empty(sales)
	s.requireBalance("Cash", "0")

	sale, err := s.cashSale(item.ItemID, "5", "90")
	s.Require().NoError(err)
	s.Equal("INV-000001", sale.Number, "a failed sale does not consume a number")
}

func (s *LedgerSuite) TestConcurrentSalesNeverOversell() {
	item := s.createItem("PLG-04", "10", "20")

	const attempts = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		short     int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.cashSale(item.ItemID, "1", "35")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, apperrors.ErrInsufficientStock):
				short++
			}
		}()
	}
	wg.Wait()

	s.Equal(10, succeeded)
	s.Equal(10, short)
	got, err := s.svc.Stock.GetStockItemByID(s.ctx, item.ItemID)
	s.Require().NoError(err)
	s.True(got.CurrentQty.IsZero())
	s.requireBalance("Sales", "350")
	s.requireItemReconciles(item.ItemID)

	sales, err := s.svc.Document.ListDocuments(s.ctx, domain.SaleDocument, dto.ListDocumentsParams{})
	s.Require().NoError(err)
	numbers := make(map[string]bool)
	for _, d := range sales {
		numbers[d.Number] = true
	}
	s.Len(numbers, 10)
	s.True(numbers["INV-000001"])
	s.True(numbers["INV-000010"])
}

func (s *LedgerSuite) TestCancelSaleRestoresStockAndLedgers() {
	item := s.createItem("CLT-05", "10", "100")
	sale, err := s.cashSale(item.ItemID, "4", "150")
	s.Require().NoError(err)

	cancelled, err := s.svc.Document.CancelDocument(s.ctx, domain.SaleDocument, sale.DocumentID, testOperator)
	s.Require().NoError(err)
	s.Equal(domain.DocumentCancelled, cancelled.Status)
	s.Require().NotNil(cancelled.CancelledBy)

	got, err := s.svc.Stock.GetStockItemByID(s.ctx, item.ItemID)
	s.Require().NoError(err)
	s.True(got.CurrentQty.Equal(dec("10")))
	s.requireBalance("Sales", "0")
	s.requireBalance("Cash", "0")

	txns, err := s.svc.Stock.ListStockTransactions(s.ctx, item.ItemID)
	s.Require().NoError(err)
	s.Require().Len(txns, 3)
	last := txns[2]
	s.Equal(domain.StockAdjustment, last.Type)
	s.True(last.Quantity.Equal(dec("4")))
	s.Require().NotNil(last.Notes)
	s.Contains(*last.Notes, sale.Number)

	cancelledStatus := string(domain.DocumentCancelled)
	docs, err := s.svc.Document.ListDocuments(s.ctx, domain.SaleDocument, dto.ListDocumentsParams{Status: cancelledStatus})
	s.Require().NoError(err)
	s.Len(docs, 1)

	_, err = s.svc.Document.CancelDocument(s.ctx, domain.SaleDocument, sale.DocumentID, testOperator)
	s.True(errors.Is(err, apperrors.ErrAlreadyCancelled))

	s.requireItemReconciles(item.ItemID)
	s.requireLedgersReconcile()
}

func (s *LedgerSuite) TestCancelPurchaseAfterItsStockWasSold() {
	item := s.createItem("HOS-06", "0", "0")
	supplier := s.createSupplier("Zen Parts")
	pur := s.purchase(supplier, domain.PaymentCredit, item.ItemID, "5", "30")

	supplierAfter, err := s.svc.Party.GetParty(s.ctx, domain.SupplierParty, supplier.PartyID)
	s.Require().NoError(err)
	s.True(supplierAfter.Balance.Equal(dec("150")), "we owe the supplier")

	_, err = s.cashSale(item.ItemID, "3", "50")
	s.Require().NoError(err)

	_, err = s.svc.Document.CancelDocument(s.ctx, domain.PurchaseDocument, pur.DocumentID, testOperator)
	s.True(errors.Is(err, apperrors.ErrInsufficientStock))

	still, err := s.svc.Document.GetDocument(s.ctx, domain.PurchaseDocument, pur.DocumentID)
	s.Require().NoError(err)
	s.Equal(domain.DocumentPosted, still.Status)
	s.requireBalance("Purchases", "150")
}

func (s *LedgerSuite) TestCancelPurchaseReversesSupplierBalance() {
	item := s.createItem("BLT-07", "0", "0")
	supplier := s.createSupplier("Delta Auto")
	pur := s.purchase(supplier, domain.PaymentCredit, item.ItemID, "5", "30")

	_, err := s.svc.Document.CancelDocument(s.ctx, domain.PurchaseDocument, pur.DocumentID, testOperator)
	s.Require().NoError(err)

	got, err := s.svc.Party.GetParty(s.ctx, domain.SupplierParty, supplier.PartyID)
	s.Require().NoError(err)
	s.True(got.Balance.IsZero())
	s.requireBalance("Purchases", "0")
	s.requireItemReconciles(item.ItemID)
}

func (s *LedgerSuite) TestDocumentVoucherCannotBeCancelledDirectly() {
	item := s.createItem("WPR-08", "2", "10")
	sale, err := s.cashSale(item.ItemID, "1", "25")
	s.Require().NoError(err)

	resp, err := s.svc.Voucher.ListVouchers(s.ctx, dto.ListVouchersParams{})
	s.Require().NoError(err)
	s.Require().Len(resp.Vouchers, 1)
	s.Equal(sale.DocumentID, *resp.Vouchers[0].DocumentID)

	_, err = s.svc.Voucher.CancelVoucher(s.ctx, resp.Vouchers[0].VoucherID, testOperator)
	s.True(errors.Is(err, apperrors.ErrConflict))
	s.False(errors.Is(err, apperrors.ErrAlreadyCancelled))
	s.requireBalance("Sales", "25")
}

func (s *LedgerSuite) TestCreditSaleRules() {
	item := s.createItem("BAT-09", "20", "100")

	_, err := s.svc.Document.ComposeSale(s.ctx, dto.CreateSaleRequest{
		Date:          day(3),
		PaymentMethod: domain.PaymentCredit,
		Lines:         []dto.DocumentLineRequest{{ItemID: item.ItemID, Quantity: dec("1"), Rate: dec("80")}},
	}, testOperator)
	s.True(errors.Is(err, apperrors.ErrValidation), "credit sale without customer")

	customer := s.createCustomer("Ravi Motors", "1000")
	creditSale := func(qty string) error {
		_, err := s.svc.Document.ComposeSale(s.ctx, dto.CreateSaleRequest{
			CustomerID:    &customer.PartyID,
			Date:          day(3),
			PaymentMethod: domain.PaymentCredit,
			Lines:         []dto.DocumentLineRequest{{ItemID: item.ItemID, Quantity: dec(qty), Rate: dec("80")}},
		}, testOperator)
		return err
	}

	s.Require().NoError(creditSale("10"))
	got, err := s.svc.Party.GetParty(s.ctx, domain.CustomerParty, customer.PartyID)
	s.Require().NoError(err)
	s.True(got.Balance.Equal(dec("800")))

	err = creditSale("5")
	s.True(errors.Is(err, apperrors.ErrValidation), "credit limit exceeded")

	s.Require().NoError(creditSale("2"))
	s.requireBalance("Cash", "0")
	s.requireBalance("Sales", "960")
}

func (s *LedgerSuite) TestSaleRejectsInvalidLines() {
	item := s.createItem("MIR-10", "5", "10")

	_, err := s.cashSale(item.ItemID, "0", "10")
	s.True(errors.Is(err, apperrors.ErrValidation), "zero quantity")

	_, err = s.cashSale("unknown-item", "1", "10")
	s.True(errors.Is(err, apperrors.ErrNotFound))

	_, err = s.svc.Document.ComposeSale(s.ctx, dto.CreateSaleRequest{
		Date:          day(3),
		PaymentMethod: domain.PaymentCash,
		Discount:      dec("100"),
		Lines:         []dto.DocumentLineRequest{{ItemID: item.ItemID, Quantity: dec("1"), Rate: dec("10")}},
	}, testOperator)
	s.True(errors.Is(err, apperrors.ErrValidation), "discount above subtotal")

	s.Require().NoError(s.svc.Stock.DeactivateStockItem(s.ctx, item.ItemID, testOperator))
	_, err = s.cashSale(item.ItemID, "1", "10")
	s.True(errors.Is(err, apperrors.ErrValidation), "inactive item")
}
