package services_test

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/SscSPs/partsledger/internal/adapters/database/memory"
	"github.com/SscSPs/partsledger/internal/core/domain"
	portsrepo "github.com/SscSPs/partsledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/partsledger/internal/core/ports/services"
	"github.com/SscSPs/partsledger/internal/core/services"
	"github.com/SscSPs/partsledger/internal/dto"
	"github.com/SscSPs/partsledger/internal/platform/config"
	"github.com/stretchr/testify/suite"
)

type lockCall struct {
	table string
	ids   []string
}

// lockRecorder wraps a unit of work and records every row-lock request made
// through the stores it hands out.
type lockRecorder struct {
	portsrepo.UnitOfWork
	calls []lockCall
	views int
}

func (r *lockRecorder) WithinTx(ctx context.Context, fn portsrepo.TxFunc) error {
	return r.UnitOfWork.WithinTx(ctx, func(ctx context.Context, store portsrepo.Store) error {
		return fn(ctx, &recordingStore{Store: store, rec: r})
	})
}

func (r *lockRecorder) View(ctx context.Context, fn portsrepo.TxFunc) error {
	r.views++
	return r.UnitOfWork.View(ctx, fn)
}

func (r *lockRecorder) reset() {
	r.calls = nil
	r.views = 0
}

type recordingStore struct {
	portsrepo.Store
	rec *lockRecorder
}

func (s *recordingStore) Ledgers() portsrepo.LedgerRepositoryFacade {
	return &recordingLedgers{LedgerRepositoryFacade: s.Store.Ledgers(), rec: s.rec}
}

func (s *recordingStore) Stock() portsrepo.StockRepositoryFacade {
	return &recordingStock{StockRepositoryFacade: s.Store.Stock(), rec: s.rec}
}

type recordingLedgers struct {
	portsrepo.LedgerRepositoryFacade
	rec *lockRecorder
}

func (l *recordingLedgers) LockLedgers(ctx context.Context, ledgerIDs []string) (map[string]domain.Ledger, error) {
	l.rec.calls = append(l.rec.calls, lockCall{table: "ledgers", ids: append([]string(nil), ledgerIDs...)})
	return l.LedgerRepositoryFacade.LockLedgers(ctx, ledgerIDs)
}

type recordingStock struct {
	portsrepo.StockRepositoryFacade
	rec *lockRecorder
}

func (s *recordingStock) LockItems(ctx context.Context, itemIDs []string) (map[string]domain.StockItem, error) {
	s.rec.calls = append(s.rec.calls, lockCall{table: "stock_items", ids: append([]string(nil), itemIDs...)})
	return s.StockRepositoryFacade.LockItems(ctx, itemIDs)
}

// LockOrderSuite checks that documents take row locks items first, then every
// ledger in a single sorted request, and never widen either set afterwards.
type LockOrderSuite struct {
	suite.Suite
	ctx context.Context
	rec *lockRecorder
	svc *portssvc.ServiceContainer
}

func (s *LockOrderSuite) SetupTest() {
	s.ctx = context.Background()
	s.rec = &lockRecorder{UnitOfWork: memory.New()}
	cfg := &config.Config{QuiesceMaxDuration: time.Minute, SystemLedgers: testSystemLedgers}
	s.svc = services.NewServiceContainer(cfg, s.rec, nil)
	s.Require().NoError(s.svc.Ledger.EnsureSystemLedgers(s.ctx))
}

func TestLockOrderSuite(t *testing.T) {
	suite.Run(t, new(LockOrderSuite))
}

func (s *LockOrderSuite) ledgerID(name string) string {
	ledgers, err := s.svc.Ledger.ListLedgers(s.ctx, dto.ListLedgersParams{Search: name, IncludeInactive: true})
	s.Require().NoError(err)
	for _, l := range ledgers {
		if l.Name == name {
			return l.LedgerID
		}
	}
	s.FailNow("ledger not found", name)
	return ""
}

func (s *LockOrderSuite) item(sku string) string {
	item, err := s.svc.Stock.CreateStockItem(s.ctx, dto.CreateStockItemRequest{
		Name:        "Part " + sku,
		SKU:         sku,
		SaleRate:    dec("80"),
		OpeningQty:  dec("50"),
		OpeningRate: dec("40"),
		OpeningDate: ptr(day(1)),
	}, testOperator)
	s.Require().NoError(err)
	return item.ItemID
}

// requireItemsThenLedgers asserts the recorded locks: item requests first, one
// ledger request holding exactly wantLedgers in ascending order, and later
// requests only re-taking rows already held.
func (s *LockOrderSuite) requireItemsThenLedgers(wantItems, wantLedgers []string) {
	calls := s.rec.calls
	s.Require().NotEmpty(calls)
	s.Require().Equal("stock_items", calls[0].table, "items are locked before any ledger")

	first := -1
	heldItems := map[string]bool{}
	for i, c := range calls {
		if c.table == "ledgers" {
			first = i
			break
		}
		s.True(sort.StringsAreSorted(c.ids), "item ids sorted: %v", c.ids)
		for _, id := range c.ids {
			heldItems[id] = true
		}
	}
	s.Require().NotEqual(-1, first, "ledgers were never locked")
	for _, id := range wantItems {
		s.True(heldItems[id], "item %s locked before ledgers", id)
	}

	want := append([]string(nil), wantLedgers...)
	sort.Strings(want)
	s.Require().Equal(want, calls[first].ids, "every ledger locked in one sorted request")

	heldLedgers := map[string]bool{}
	for _, id := range calls[first].ids {
		heldLedgers[id] = true
	}
	for _, c := range calls[first+1:] {
		held := heldItems
		if c.table == "ledgers" {
			held = heldLedgers
		}
		for _, id := range c.ids {
			s.True(held[id], "%s row %s locked after the ledger request", c.table, id)
		}
	}
}

func (s *LockOrderSuite) TestCreditSaleLocksItemsBeforeLedgers() {
	a, b := s.item("LO-A"), s.item("LO-B")
	customer, err := s.svc.Party.CreateParty(s.ctx, domain.CustomerParty, dto.CreatePartyRequest{
		Name:        "Lock Order Motors",
		CreditLimit: dec("10000"),
	}, testOperator)
	s.Require().NoError(err)

	s.rec.reset()
	_, err = s.svc.Document.ComposeSale(s.ctx, dto.CreateSaleRequest{
		CustomerID:    &customer.PartyID,
		Date:          day(3),
		PaymentMethod: domain.PaymentCredit,
		Lines: []dto.DocumentLineRequest{
			{ItemID: b, Quantity: dec("2"), Rate: dec("80"), TaxRate: dec("0.18")},
			{ItemID: a, Quantity: dec("1"), Rate: dec("80")},
		},
	}, testOperator)
	s.Require().NoError(err)

	s.requireItemsThenLedgers([]string{a, b}, []string{customer.LedgerID, s.ledgerID("Sales"), s.ledgerID("Output Tax")})
}

func (s *LockOrderSuite) TestCreditLimitRejectionHoldsItemLocksFirst() {
	a := s.item("LO-C")
	customer, err := s.svc.Party.CreateParty(s.ctx, domain.CustomerParty, dto.CreatePartyRequest{
		Name:        "Tight Limit Garage",
		CreditLimit: dec("10"),
	}, testOperator)
	s.Require().NoError(err)

	s.rec.reset()
	_, err = s.svc.Document.ComposeSale(s.ctx, dto.CreateSaleRequest{
		CustomerID:    &customer.PartyID,
		Date:          day(3),
		PaymentMethod: domain.PaymentCredit,
		Lines:         []dto.DocumentLineRequest{{ItemID: a, Quantity: dec("1"), Rate: dec("80")}},
	}, testOperator)
	s.Require().Error(err)

	s.requireItemsThenLedgers([]string{a}, []string{customer.LedgerID, s.ledgerID("Sales"), s.ledgerID("Output Tax")})
}

func (s *LockOrderSuite) TestPurchaseLocksItemsBeforeLedgers() {
	a := s.item("LO-D")
	supplier, err := s.svc.Party.CreateParty(s.ctx, domain.SupplierParty, dto.CreatePartyRequest{Name: "Lock Order Spares"}, testOperator)
	s.Require().NoError(err)

	s.rec.reset()
	_, err = s.svc.Document.ComposePurchase(s.ctx, dto.CreatePurchaseRequest{
		SupplierID:    supplier.PartyID,
		Date:          day(2),
		PaymentMethod: domain.PaymentCash,
		Lines:         []dto.DocumentLineRequest{{ItemID: a, Quantity: dec("5"), Rate: dec("45"), TaxRate: dec("0.05")}},
	}, testOperator)
	s.Require().NoError(err)

	s.requireItemsThenLedgers([]string{a}, []string{s.ledgerID("Cash"), s.ledgerID("Purchases"), s.ledgerID("Input Tax")})
}

func (s *LockOrderSuite) TestCancelLocksItemsBeforeEveryVoucherLedger() {
	a, b := s.item("LO-E"), s.item("LO-F")
	customer, err := s.svc.Party.CreateParty(s.ctx, domain.CustomerParty, dto.CreatePartyRequest{Name: "Cancel Order Autos"}, testOperator)
	s.Require().NoError(err)
	sale, err := s.svc.Document.ComposeSale(s.ctx, dto.CreateSaleRequest{
		CustomerID:    &customer.PartyID,
		Date:          day(3),
		PaymentMethod: domain.PaymentCredit,
		Lines: []dto.DocumentLineRequest{
			{ItemID: a, Quantity: dec("1"), Rate: dec("80"), TaxRate: dec("0.18")},
			{ItemID: b, Quantity: dec("3"), Rate: dec("60")},
		},
	}, testOperator)
	s.Require().NoError(err)

	s.rec.reset()
	_, err = s.svc.Document.CancelDocument(s.ctx, domain.SaleDocument, sale.DocumentID, testOperator)
	s.Require().NoError(err)

	s.requireItemsThenLedgers([]string{a, b}, []string{customer.LedgerID, s.ledgerID("Sales"), s.ledgerID("Output Tax")})
}
