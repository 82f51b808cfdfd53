package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/SscSPs/partsledger/internal/apperrors"
	"github.com/SscSPs/partsledger/internal/core/domain"
	portsrepo "github.com/SscSPs/partsledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/partsledger/internal/core/ports/services"
	"github.com/SscSPs/partsledger/internal/dto"
	"github.com/SscSPs/partsledger/internal/utils/accounting"
	"github.com/SscSPs/partsledger/internal/utils/numbering"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type documentService struct {
	BaseService
	systemLedgers domain.SystemLedgerNames
	allowNegative bool
}

// DocumentServiceOption configures a document service.
type DocumentServiceOption func(*documentService)

// WithDocumentNegativeStock lets sales take items below zero.
func WithDocumentNegativeStock(allow bool) DocumentServiceOption {
	return func(s *documentService) {
		s.allowNegative = allow
	}
}

// NewDocumentService creates the sale and purchase composer.
func NewDocumentService(uow portsrepo.UnitOfWork, systemLedgers domain.SystemLedgerNames, options ...DocumentServiceOption) portssvc.DocumentSvcFacade {
	svc := &documentService{
		BaseService:   BaseService{UOW: uow},
		systemLedgers: systemLedgers,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.DocumentSvcFacade = (*documentService)(nil)

func (s *documentService) ComposeSale(ctx context.Context, req dto.CreateSaleRequest, userID string) (*domain.Document, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	customerID := normalizeOptional(req.CustomerID)
	if req.PaymentMethod == domain.PaymentCredit && customerID == nil {
		return nil, fmt.Errorf("%w: credit sales require a customer", apperrors.ErrValidation)
	}
	doc, err := draftDocument(domain.SaleDocument, req.Date, req.PaymentMethod, req.Lines, req.Discount, decimal.Zero, req.Notes, userID, s.now())
	if err != nil {
		return nil, err
	}
	doc.CounterpartyID = customerID
	doc.CounterpartyName = normalizeOptional(req.CustomerName)

	err = s.UOW.WithinTx(ctx, func(ctx context.Context, store portsrepo.Store) error {
		now := doc.CreatedAt
		party, err := findActiveParty(ctx, store, domain.CustomerParty, customerID)
		if err != nil {
			return err
		}
		if party != nil && doc.CounterpartyName == nil {
			name := party.Name
			doc.CounterpartyName = &name
		}
		counterLedgerID, err := s.counterpartyLedgerID(ctx, store, doc.PaymentMethod, party)
		if err != nil {
			return err
		}
		items, err := lockDocumentItems(ctx, store, doc.Lines, true)
		if err != nil {
			return err
		}
		if !s.allowNegative {
			if err := checkAvailability(items, doc.Lines); err != nil {
				return err
			}
		}
		salesID, err := systemLedgerID(ctx, store, s.systemLedgers.Sales)
		if err != nil {
			return err
		}
		outputTaxID, err := systemLedgerID(ctx, store, s.systemLedgers.OutputTax)
		if err != nil {
			return err
		}
		ledgers, err := lockDocumentLedgers(ctx, store, counterLedgerID, salesID, outputTaxID)
		if err != nil {
			return err
		}
		if doc.PaymentMethod == domain.PaymentCredit {
			if err := checkCreditLimit(party, ledgers[counterLedgerID], doc.Total); err != nil {
				return err
			}
		}

		if err := assignNumber(ctx, store, &doc, numbering.Sale); err != nil {
			return err
		}
		if err := store.Documents().SaveDocument(ctx, doc); err != nil {
			return err
		}
		if err := s.moveDocumentStock(ctx, store, doc, domain.StockSale, now); err != nil {
			return err
		}

		drafts := []voucherDraft{
			documentVoucher(doc, domain.SalesVoucher, counterLedgerID, salesID, documentNet(doc), "Sale "+doc.Number),
			documentVoucher(doc, domain.SalesVoucher, counterLedgerID, outputTaxID, doc.TaxAmount, "Output tax on "+doc.Number),
		}
		if err := postDocumentVouchers(ctx, store, drafts, doc.CreatedBy, now); err != nil {
			return err
		}
		return writeAudit(ctx, store, doc.CreatedBy, domain.AuditCreate, tableSales, doc.DocumentID, nil, doc, now)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to compose sale", slog.Int("lines", len(req.Lines)))
		return nil, err
	}

	s.LogInfo(ctx, "Sale composed successfully",
		slog.String("document_id", doc.DocumentID),
		slog.String("number", doc.Number),
		slog.String("total", doc.Total.String()))
	return &doc, nil
}

func (s *documentService) ComposePurchase(ctx context.Context, req dto.CreatePurchaseRequest, userID string) (*domain.Document, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if err := requireNonNegative("shippingCost", req.ShippingCost); err != nil {
		return nil, err
	}
	supplierID := normalizeOptional(&req.SupplierID)
	if supplierID == nil {
		return nil, fmt.Errorf("%w: supplierID is required", apperrors.ErrValidation)
	}
	doc, err := draftDocument(domain.PurchaseDocument, req.Date, req.PaymentMethod, req.Lines, req.Discount, req.ShippingCost, req.Notes, userID, s.now())
	if err != nil {
		return nil, err
	}
	doc.CounterpartyID = supplierID

	err = s.UOW.WithinTx(ctx, func(ctx context.Context, store portsrepo.Store) error {
		now := doc.CreatedAt
		party, err := findActiveParty(ctx, store, domain.SupplierParty, supplierID)
		if err != nil {
			return err
		}
		name := party.Name
		doc.CounterpartyName = &name
		counterLedgerID, err := s.counterpartyLedgerID(ctx, store, doc.PaymentMethod, party)
		if err != nil {
			return err
		}
		if _, err := lockDocumentItems(ctx, store, doc.Lines, true); err != nil {
			return err
		}
		purchasesID, err := systemLedgerID(ctx, store, s.systemLedgers.Purchases)
		if err != nil {
			return err
		}
		inputTaxID, err := systemLedgerID(ctx, store, s.systemLedgers.InputTax)
		if err != nil {
			return err
		}
		if _, err := lockDocumentLedgers(ctx, store, counterLedgerID, purchasesID, inputTaxID); err != nil {
			return err
		}

		if err := assignNumber(ctx, store, &doc, numbering.Purchase); err != nil {
			return err
		}
		if err := store.Documents().SaveDocument(ctx, doc); err != nil {
			return err
		}
		if err := s.moveDocumentStock(ctx, store, doc, domain.StockPurchase, now); err != nil {
			return err
		}

		drafts := []voucherDraft{
			documentVoucher(doc, domain.PurchaseVoucher, purchasesID, counterLedgerID, documentNet(doc), "Purchase "+doc.Number),
			documentVoucher(doc, domain.PurchaseVoucher, inputTaxID, counterLedgerID, doc.TaxAmount, "Input tax on "+doc.Number),
		}
		if err := postDocumentVouchers(ctx, store, drafts, doc.CreatedBy, now); err != nil {
			return err
		}
		return writeAudit(ctx, store, doc.CreatedBy, domain.AuditCreate, tablePurchases, doc.DocumentID, nil, doc, now)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to compose purchase", slog.String("supplier_id", req.SupplierID))
		return nil, err
	}

	s.LogInfo(ctx, "Purchase composed successfully",
		slog.String("document_id", doc.DocumentID),
		slog.String("number", doc.Number),
		slog.String("total", doc.Total.String()))
	return &doc, nil
}

// CancelDocument reverses a sale or purchase: compensating stock adjustments
// for every line, reversal of every voucher it posted, then the status change.
func (s *documentService) CancelDocument(ctx context.Context, kind domain.DocumentKind, documentID string, userID string) (*domain.Document, error) {
	table, err := documentTable(kind)
	if err != nil {
		return nil, err
	}

	var cancelled domain.Document
	err = s.UOW.WithinTx(ctx, func(ctx context.Context, store portsrepo.Store) error {
		doc, err := store.Documents().LockDocument(ctx, kind, documentID)
		if err != nil {
			return err
		}
		if doc.Status == domain.DocumentCancelled {
			return fmt.Errorf("%w: %s", apperrors.ErrAlreadyCancelled, doc.Number)
		}
		if _, err := lockDocumentItems(ctx, store, doc.Lines, false); err != nil {
			return err
		}
		posted := domain.VoucherPosted
		vouchers, err := store.Vouchers().ListVouchers(ctx, domain.VoucherFilter{DocumentID: doc.DocumentID, Status: &posted})
		if err != nil {
			return err
		}
		ledgerIDs := make([]string, 0, 2*len(vouchers))
		for _, v := range vouchers {
			ledgerIDs = append(ledgerIDs, v.DebitLedgerID, v.CreditLedgerID)
		}
		if _, err := lockDocumentLedgers(ctx, store, ledgerIDs...); err != nil {
			return err
		}

		now := s.now()
		notes := "Cancellation of " + doc.Number
		for _, line := range doc.Lines {
			qty := line.Quantity
			if kind == domain.PurchaseDocument {
				qty = qty.Neg()
			}
			_, err := applyStockMovement(ctx, store, stockMovement{
				ItemID:       line.ItemID,
				Type:         domain.StockAdjustment,
				Quantity:     qty,
				Rate:         line.Rate,
				Date:         now,
				ReferenceNo:  &doc.Number,
				DocumentID:   &doc.DocumentID,
				Notes:        &notes,
				Compensating: true,
			}, s.allowNegative, userID, now)
			if err != nil {
				return err
			}
		}

		for _, v := range vouchers {
			if _, err := reverseVoucherInTx(ctx, store, v.VoucherID, true, userID, now); err != nil {
				return err
			}
		}

		before := *doc
		cancelledAt := now
		cancelledBy := userID
		doc.Status = domain.DocumentCancelled
		doc.CancelledAt = &cancelledAt
		doc.CancelledBy = &cancelledBy
		doc.LastUpdatedAt = now
		doc.LastUpdatedBy = userID
		if err := store.Documents().UpdateDocumentStatus(ctx, *doc); err != nil {
			return err
		}
		cancelled = *doc
		return writeAudit(ctx, store, userID, domain.AuditCancel, table, doc.DocumentID, before, *doc, now)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to cancel document", slog.String("kind", string(kind)), slog.String("document_id", documentID))
		return nil, err
	}

	s.LogInfo(ctx, "Document cancelled",
		slog.String("kind", string(kind)),
		slog.String("document_id", cancelled.DocumentID),
		slog.String("number", cancelled.Number))
	return &cancelled, nil
}

func (s *documentService) GetDocument(ctx context.Context, kind domain.DocumentKind, documentID string) (*domain.Document, error) {
	var doc *domain.Document
	err := s.UOW.View(ctx, func(ctx context.Context, store portsrepo.Store) error {
		var err error
		doc, err = store.Documents().FindDocumentByID(ctx, kind, documentID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *documentService) ListDocuments(ctx context.Context, kind domain.DocumentKind, params dto.ListDocumentsParams) ([]domain.Document, error) {
	filter := domain.DocumentFilter{From: params.From, To: params.To, CounterpartyID: params.CounterpartyID}
	if params.Status != "" {
		status := domain.DocumentStatus(params.Status)
		filter.Status = &status
	}
	var docs []domain.Document
	err := s.UOW.View(ctx, func(ctx context.Context, store portsrepo.Store) error {
		var err error
		docs, err = store.Documents().ListDocuments(ctx, kind, filter)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to list documents", slog.String("kind", string(kind)))
		return nil, err
	}
	return docs, nil
}

func (s *documentService) counterpartyLedgerID(ctx context.Context, store portsrepo.Store, method domain.PaymentMethod, party *domain.Party) (string, error) {
	if method == domain.PaymentCredit {
		if party == nil {
			return "", fmt.Errorf("%w: credit documents require a counterparty", apperrors.ErrValidation)
		}
		return party.LedgerID, nil
	}
	return systemLedgerID(ctx, store, s.systemLedgers.Cash)
}

func (s *documentService) moveDocumentStock(ctx context.Context, store portsrepo.Store, doc domain.Document, txnType domain.StockTxnType, now time.Time) error {
	for _, line := range doc.Lines {
		_, err := applyStockMovement(ctx, store, stockMovement{
			ItemID:      line.ItemID,
			Type:        txnType,
			Quantity:    line.Quantity,
			Rate:        line.Rate,
			Date:        doc.Date,
			ReferenceNo: &doc.Number,
			DocumentID:  &doc.DocumentID,
		}, s.allowNegative, doc.CreatedBy, now)
		if err != nil {
			return fmt.Errorf("line %d: %w", line.LineNo, err)
		}
	}
	return nil
}

// draftDocument validates and prices the lines and builds an unnumbered document.
func draftDocument(kind domain.DocumentKind, date time.Time, method domain.PaymentMethod, reqLines []dto.DocumentLineRequest, headerDiscount, shipping decimal.Decimal, notes *string, userID string, now time.Time) (domain.Document, error) {
	if err := requireNonNegative("discount", headerDiscount); err != nil {
		return domain.Document{}, err
	}
	inputs := make([]accounting.LineInput, len(reqLines))
	for i, l := range reqLines {
		field := func(name string) string { return fmt.Sprintf("lines[%d].%s", i, name) }
		if err := requirePositive(field("quantity"), l.Quantity); err != nil {
			return domain.Document{}, err
		}
		for _, c := range []struct {
			name  string
			value decimal.Decimal
		}{{"rate", l.Rate}, {"taxRate", l.TaxRate}, {"discount", l.Discount}} {
			if err := requireNonNegative(field(c.name), c.value); err != nil {
				return domain.Document{}, err
			}
		}
		inputs[i] = accounting.LineInput{Quantity: l.Quantity, Rate: l.Rate, TaxRate: l.TaxRate, Discount: l.Discount}
	}

	totals := accounting.CalculateDocument(inputs, headerDiscount, shipping)
	for i, amounts := range totals.Lines {
		if inputs[i].Discount.GreaterThan(amounts.Gross.Add(amounts.Tax)) {
			return domain.Document{}, fmt.Errorf("%w: lines[%d].discount exceeds the line value", apperrors.ErrValidation, i)
		}
	}
	if totals.DiscountAmount.GreaterThan(totals.Subtotal) {
		return domain.Document{}, fmt.Errorf("%w: discount %s exceeds subtotal %s", apperrors.ErrValidation, totals.DiscountAmount, totals.Subtotal)
	}

	documentID := uuid.NewString()
	lines := make([]domain.DocumentLine, len(reqLines))
	for i, l := range reqLines {
		lines[i] = domain.DocumentLine{
			LineID:     uuid.NewString(),
			DocumentID: documentID,
			LineNo:     i + 1,
			ItemID:     l.ItemID,
			Quantity:   l.Quantity,
			Rate:       l.Rate,
			TaxRate:    l.TaxRate,
			Discount:   l.Discount,
			LineTotal:  totals.Lines[i].LineTotal,
		}
	}

	return domain.Document{
		DocumentID:     documentID,
		Kind:           kind,
		Date:           date,
		Subtotal:       totals.Subtotal,
		TaxAmount:      totals.TaxAmount,
		DiscountAmount: totals.DiscountAmount,
		ShippingCost:   totals.ShippingCost,
		Total:          totals.Total,
		PaymentMethod:  method,
		Status:         domain.DocumentPosted,
		Notes:          normalizeOptional(notes),
		Lines:          lines,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}, nil
}

// documentNet is the amount booked to Sales or Purchases.
func documentNet(doc domain.Document) decimal.Decimal {
	return doc.Subtotal.Sub(doc.DiscountAmount).Add(doc.ShippingCost)
}

func documentVoucher(doc domain.Document, vType domain.VoucherType, debitID, creditID string, amount decimal.Decimal, narration string) voucherDraft {
	return voucherDraft{
		Date:           doc.Date,
		Type:           vType,
		DebitLedgerID:  debitID,
		CreditLedgerID: creditID,
		Amount:         amount,
		Narration:      &narration,
		ReferenceNo:    &doc.Number,
		DocumentID:     &doc.DocumentID,
	}
}

// postDocumentVouchers posts every draft with a positive amount.
func postDocumentVouchers(ctx context.Context, store portsrepo.Store, drafts []voucherDraft, userID string, now time.Time) error {
	for _, d := range drafts {
		if !d.Amount.IsPositive() {
			continue
		}
		if _, err := postVoucherInTx(ctx, store, d, userID, now); err != nil {
			return err
		}
	}
	return nil
}

func assignNumber(ctx context.Context, store portsrepo.Store, doc *domain.Document, seq numbering.Sequence) error {
	value, err := store.Sequences().NextValue(ctx, seq.Name)
	if err != nil {
		return fmt.Errorf("failed to allocate %s number: %w", seq.Name, err)
	}
	doc.Number = seq.Format(value)
	return nil
}

// findActiveParty loads the party when id is set. A nil id yields a nil party.
func findActiveParty(ctx context.Context, store portsrepo.Store, kind domain.PartyKind, id *string) (*domain.Party, error) {
	if id == nil {
		return nil, nil
	}
	party, err := store.Parties().FindPartyByID(ctx, kind, *id)
	if err != nil {
		return nil, err
	}
	if !party.IsActive {
		return nil, fmt.Errorf("%w: %s %s is inactive", apperrors.ErrValidation, kind, party.Name)
	}
	return party, nil
}

// checkCreditLimit compares the locked counterparty ledger with the party's limit.
func checkCreditLimit(party *domain.Party, ledger domain.Ledger, total decimal.Decimal) error {
	if party == nil || !party.CreditLimit.IsPositive() {
		return nil
	}
	if exposure := ledger.Balance.Add(total); exposure.GreaterThan(party.CreditLimit) {
		return fmt.Errorf("%w: credit limit %s of %s would be exceeded (outstanding %s, this sale %s)",
			apperrors.ErrValidation, party.CreditLimit, party.Name, ledger.Balance, total)
	}
	return nil
}

// lockDocumentLedgers locks every ledger a document touches in one call, in
// sorted id order. Callers lock items first.
func lockDocumentLedgers(ctx context.Context, store portsrepo.Store, ledgerIDs ...string) (map[string]domain.Ledger, error) {
	ids := make([]string, 0, len(ledgerIDs))
	seen := make(map[string]bool, len(ledgerIDs))
	for _, id := range ledgerIDs {
		if id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return map[string]domain.Ledger{}, nil
	}
	sort.Strings(ids)

	locked, err := store.Ledgers().LockLedgers(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if _, ok := locked[id]; !ok {
			return nil, apperrors.NewNotFoundError("ledger", id)
		}
	}
	return locked, nil
}

// lockDocumentItems locks every item on the lines in sorted id order.
func lockDocumentItems(ctx context.Context, store portsrepo.Store, lines []domain.DocumentLine, requireActive bool) (map[string]domain.StockItem, error) {
	ids := make([]string, 0, len(lines))
	seen := make(map[string]bool, len(lines))
	for _, l := range lines {
		if !seen[l.ItemID] {
			seen[l.ItemID] = true
			ids = append(ids, l.ItemID)
		}
	}
	sort.Strings(ids)

	items, err := store.Stock().LockItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		item, ok := items[id]
		if !ok {
			return nil, apperrors.NewNotFoundError("stock item", id)
		}
		if requireActive && !item.IsActive {
			return nil, fmt.Errorf("%w: stock item %s is inactive", apperrors.ErrValidation, item.SKU)
		}
	}
	return items, nil
}

// checkAvailability merges lines of the same item before comparing with the quantity on hand.
func checkAvailability(items map[string]domain.StockItem, lines []domain.DocumentLine) error {
	required := make(map[string]decimal.Decimal, len(lines))
	order := make([]string, 0, len(lines))
	for _, l := range lines {
		if _, ok := required[l.ItemID]; !ok {
			order = append(order, l.ItemID)
			required[l.ItemID] = decimal.Zero
		}
		required[l.ItemID] = required[l.ItemID].Add(l.Quantity)
	}
	for _, id := range order {
		item := items[id]
		if item.CurrentQty.LessThan(required[id]) {
			return fmt.Errorf("%w: %s has %s on hand, %s requested", apperrors.ErrInsufficientStock, item.SKU, item.CurrentQty, required[id])
		}
	}
	return nil
}

func documentTable(kind domain.DocumentKind) (string, error) {
	switch kind {
	case domain.SaleDocument:
		return tableSales, nil
	case domain.PurchaseDocument:
		return tablePurchases, nil
	default:
		return "", fmt.Errorf("%w: unknown document kind %q", apperrors.ErrValidation, kind)
	}
}
