package services_test

import (
	"errors"

	"github.com/SscSPs/partsledger/internal/apperrors"
	"github.com/SscSPs/partsledger/internal/core/domain"
	"github.com/SscSPs/partsledger/internal/dto"
)

func (s *LedgerSuite) TestCreateStockItemDefaults() {
	item, err := s.svc.Stock.CreateStockItem(s.ctx, dto.CreateStockItemRequest{Name: "Wiper Blade", SKU: " WB-1 "}, testOperator)
	s.Require().NoError(err)
	s.Equal("WB-1", item.SKU)
	s.Equal(domain.DefaultUnit, item.Unit)
	s.True(item.MinQty.Equal(domain.DefaultMinQty))
	s.True(item.MaxQty.Equal(domain.DefaultMaxQty))
	s.True(item.ReorderLevel.Equal(domain.DefaultReorderLevel))
	s.True(item.CurrentQty.IsZero())
	s.True(item.IsLowStock())

	txns, err := s.svc.Stock.ListStockTransactions(s.ctx, item.ItemID)
	s.Require().NoError(err)
	s.Empty(txns, "no opening without quantity or rate")

	_, err = s.svc.Stock.CreateStockItem(s.ctx, dto.CreateStockItemRequest{Name: "Other", SKU: "WB-1"}, testOperator)
	s.True(errors.Is(err, apperrors.ErrDuplicate))

	_, err = s.svc.Stock.CreateStockItem(s.ctx, dto.CreateStockItemRequest{
		Name: "Bad", SKU: "BAD-1", MinQty: ptr(dec("10")), MaxQty: ptr(dec("5")),
	}, testOperator)
	s.True(errors.Is(err, apperrors.ErrValidation))
}

func (s *LedgerSuite) TestOpeningMustBeFirstTransaction() {
	item := s.createItem("OPN-1", "10", "5")

	_, err := s.svc.Stock.ApplyStockTransaction(s.ctx, dto.ApplyStockTransactionRequest{
		ItemID: item.ItemID, Type: domain.StockOpening, Quantity: dec("3"), Rate: dec("5"), Date: day(2),
	}, testOperator)
	s.True(errors.Is(err, apperrors.ErrConflict))

	fresh := s.createItem("OPN-2", "0", "0")
	txn, err := s.svc.Stock.ApplyStockTransaction(s.ctx, dto.ApplyStockTransactionRequest{
		ItemID: fresh.ItemID, Type: domain.StockOpening, Quantity: dec("3"), Rate: dec("7"), Date: day(2),
	}, testOperator)
	s.Require().NoError(err)
	s.True(txn.QtyAfter.Equal(dec("3")))
	s.True(txn.AvgCostAfter.Equal(dec("7")))
}

func (s *LedgerSuite) TestAdjustmentsAndNegativeStock() {
	item := s.createItem("ADJ-1", "4", "10")

	txn, err := s.svc.Stock.ApplyStockTransaction(s.ctx, dto.ApplyStockTransactionRequest{
		ItemID: item.ItemID, Type: domain.StockAdjustment, Quantity: dec("-1"), Date: day(2), Notes: ptr("damaged"),
	}, testOperator)
	s.Require().NoError(err)
	s.True(txn.Quantity.Equal(dec("-1")))
	s.True(txn.QtyAfter.Equal(dec("3")))
	s.True(txn.AvgCostAfter.Equal(dec("10")), "adjustments keep the average cost")

	_, err = s.svc.Stock.ApplyStockTransaction(s.ctx, dto.ApplyStockTransactionRequest{
		ItemID: item.ItemID, Type: domain.StockAdjustment, Quantity: dec("-5"), Date: day(2),
	}, testOperator)
	s.True(errors.Is(err, apperrors.ErrInsufficientStock))

	_, err = s.svc.Stock.ApplyStockTransaction(s.ctx, dto.ApplyStockTransactionRequest{
		ItemID: item.ItemID, Type: domain.StockAdjustment, Quantity: dec("0"), Date: day(2),
	}, testOperator)
	s.True(errors.Is(err, apperrors.ErrValidation))

	_, err = s.svc.Stock.ApplyStockTransaction(s.ctx, dto.ApplyStockTransactionRequest{
		ItemID: item.ItemID, Type: domain.StockSale, Quantity: dec("-2"), Date: day(2),
	}, testOperator)
	s.True(errors.Is(err, apperrors.ErrValidation), "sale quantities are given unsigned")

	_, err = s.svc.Stock.ApplyStockTransaction(s.ctx, dto.ApplyStockTransactionRequest{
		ItemID: "missing", Type: domain.StockPurchase, Quantity: dec("1"), Date: day(2),
	}, testOperator)
	s.True(errors.Is(err, apperrors.ErrNotFound))

	got, err := s.svc.Stock.GetStockItemByID(s.ctx, item.ItemID)
	s.Require().NoError(err)
	s.True(got.CurrentQty.Equal(dec("3")))
	s.requireItemReconciles(item.ItemID)
}

func (s *LedgerSuite) TestUpdateStockItemLeavesQuantityAlone() {
	item := s.createItem("UPD-1", "6", "12")

	updated, err := s.svc.Stock.UpdateStockItem(s.ctx, item.ItemID, dto.UpdateStockItemRequest{
		Name:     ptr("Renamed Part"),
		SaleRate: ptr(dec("99")),
		Location: ptr("Rack B"),
	}, testOperator)
	s.Require().NoError(err)
	s.Equal("Renamed Part", updated.Name)
	s.True(updated.SaleRate.Equal(dec("99")))
	s.True(updated.CurrentQty.Equal(dec("6")))
	s.True(updated.AverageCost.Equal(dec("12")))
	s.Equal("Rack B", *updated.Location)

	found, err := s.svc.Stock.ListStockItems(s.ctx, dto.ListStockItemsParams{Search: "renamed"})
	s.Require().NoError(err)
	s.Require().Len(found, 1)
	s.Equal(item.ItemID, found[0].ItemID)
}

func (s *LedgerSuite) TestDeactivatedItemsDropOutOfListings() {
	item := s.createItem("DEA-1", "1", "1")
	s.Require().NoError(s.svc.Stock.DeactivateStockItem(s.ctx, item.ItemID, testOperator))

	active, err := s.svc.Stock.ListStockItems(s.ctx, dto.ListStockItemsParams{})
	s.Require().NoError(err)
	s.Empty(active)

	all, err := s.svc.Stock.ListStockItems(s.ctx, dto.ListStockItemsParams{IncludeInactive: true})
	s.Require().NoError(err)
	s.Len(all, 1)

	_, err = s.svc.Stock.ApplyStockTransaction(s.ctx, dto.ApplyStockTransactionRequest{
		ItemID: item.ItemID, Type: domain.StockPurchase, Quantity: dec("1"), Rate: dec("1"), Date: day(2),
	}, testOperator)
	s.True(errors.Is(err, apperrors.ErrValidation))
}

func (s *LedgerSuite) TestListStockTransactionsUnknownItem() {
	_, err := s.svc.Stock.ListStockTransactions(s.ctx, "missing")
	s.True(errors.Is(err, apperrors.ErrNotFound))
}
