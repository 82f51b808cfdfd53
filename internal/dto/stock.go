package dto

import (
	"time"

	"github.com/SscSPs/partsledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateStockItemRequest defines the data needed to create a stock item.
// A positive OpeningQty records the item's opening transaction in the same step.
type CreateStockItemRequest struct {
	Name         string           `json:"name" binding:"required,max=255"`
	SKU          string           `json:"sku" binding:"required,max=64"`
	Barcode      *string          `json:"barcode" binding:"omitempty,max=64"`
	OEMPartNo    *string          `json:"oemPartNo" binding:"omitempty,max=64"`
	Category     *string          `json:"category" binding:"omitempty,max=128"`
	Unit         string           `json:"unit" binding:"omitempty,max=16"`
	MinQty       *decimal.Decimal `json:"minQty"`
	MaxQty       *decimal.Decimal `json:"maxQty"`
	ReorderLevel *decimal.Decimal `json:"reorderLevel"`
	PurchaseRate decimal.Decimal  `json:"purchaseRate"`
	SaleRate     decimal.Decimal  `json:"saleRate"`
	MRP          decimal.Decimal  `json:"mrp"`
	TaxRate      decimal.Decimal  `json:"taxRate"`
	Location     *string          `json:"location" binding:"omitempty,max=128"`
	OpeningQty   decimal.Decimal  `json:"openingQty"`
	OpeningRate  decimal.Decimal  `json:"openingRate"`
	OpeningDate  *time.Time       `json:"openingDate"`
}

// UpdateStockItemRequest defines editable master data. Quantity and cost change only through transactions.
type UpdateStockItemRequest struct {
	Name         *string          `json:"name" binding:"omitempty,min=1,max=255"`
	Barcode      *string          `json:"barcode" binding:"omitempty,max=64"`
	OEMPartNo    *string          `json:"oemPartNo" binding:"omitempty,max=64"`
	Category     *string          `json:"category" binding:"omitempty,max=128"`
	Unit         *string          `json:"unit" binding:"omitempty,min=1,max=16"`
	MinQty       *decimal.Decimal `json:"minQty"`
	MaxQty       *decimal.Decimal `json:"maxQty"`
	ReorderLevel *decimal.Decimal `json:"reorderLevel"`
	PurchaseRate *decimal.Decimal `json:"purchaseRate"`
	SaleRate     *decimal.Decimal `json:"saleRate"`
	MRP          *decimal.Decimal `json:"mrp"`
	TaxRate      *decimal.Decimal `json:"taxRate"`
	Location     *string          `json:"location" binding:"omitempty,max=128"`
}

// ListStockItemsParams defines query parameters for listing stock items.
type ListStockItemsParams struct {
	Category        string `form:"category"`
	Search          string `form:"search"`
	LowStock        bool   `form:"lowStock"`
	IncludeInactive bool   `form:"includeInactive"`
}

// ApplyStockTransactionRequest defines a single stock movement.
// Quantity is positive for PURCHASE, SALE and OPENING and a signed non-zero delta for ADJUSTMENT.
type ApplyStockTransactionRequest struct {
	ItemID      string              `json:"itemID" binding:"required"`
	Type        domain.StockTxnType `json:"type" binding:"required,oneof=PURCHASE SALE ADJUSTMENT OPENING"`
	Quantity    decimal.Decimal     `json:"quantity"`
	Rate        decimal.Decimal     `json:"rate"`
	Date        time.Time           `json:"date" binding:"required"`
	ReferenceNo *string             `json:"referenceNo" binding:"omitempty,max=64"`
	Notes       *string             `json:"notes" binding:"omitempty,max=1000"`
}

// StockItemResponse defines the data returned for a stock item.
type StockItemResponse struct {
	domain.StockItem
	LowStock bool `json:"lowStock"`
}

// ListStockItemsResponse wraps a stock item listing.
type ListStockItemsResponse struct {
	Items []StockItemResponse `json:"items"`
}

// StockTransactionResponse defines the data returned for a stock movement.
type StockTransactionResponse struct {
	domain.StockTransaction
}

// ListStockTransactionsResponse wraps an item's movement log.
type ListStockTransactionsResponse struct {
	Transactions []StockTransactionResponse `json:"transactions"`
}

// ToStockItemResponse converts a domain.StockItem to StockItemResponse DTO.
func ToStockItemResponse(item *domain.StockItem) StockItemResponse {
	return StockItemResponse{StockItem: *item, LowStock: item.IsLowStock()}
}

// ToListStockItemsResponse converts a slice of domain.StockItem.
func ToListStockItemsResponse(items []domain.StockItem) ListStockItemsResponse {
	res := make([]StockItemResponse, len(items))
	for i := range items {
		res[i] = ToStockItemResponse(&items[i])
	}
	return ListStockItemsResponse{Items: res}
}

// ToStockTransactionResponse converts a domain.StockTransaction.
func ToStockTransactionResponse(txn *domain.StockTransaction) StockTransactionResponse {
	return StockTransactionResponse{StockTransaction: *txn}
}

// ToListStockTransactionsResponse converts a slice of domain.StockTransaction.
func ToListStockTransactionsResponse(txns []domain.StockTransaction) ListStockTransactionsResponse {
	res := make([]StockTransactionResponse, len(txns))
	for i := range txns {
		res[i] = ToStockTransactionResponse(&txns[i])
	}
	return ListStockTransactionsResponse{Transactions: res}
}
