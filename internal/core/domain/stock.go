package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockTxnType classifies a stock movement.
type StockTxnType string

const (
	StockPurchase   StockTxnType = "PURCHASE"
	StockSale       StockTxnType = "SALE"
	StockAdjustment StockTxnType = "ADJUSTMENT"
	StockOpening    StockTxnType = "OPENING"
)

// Valid reports whether t is a known stock transaction type.
func (t StockTxnType) Valid() bool {
	switch t {
	case StockPurchase, StockSale, StockAdjustment, StockOpening:
		return true
	}
	return false
}

// Defaults applied to new stock items.
const DefaultUnit = "PCS"

var (
	DefaultMinQty       = decimal.NewFromInt(5)
	DefaultMaxQty       = decimal.NewFromInt(1000)
	DefaultReorderLevel = decimal.NewFromInt(10)
)

// StockItem is an inventory item with its on-hand quantity and weighted average cost.
type StockItem struct {
	ItemID            string           `json:"itemID"`
	Name              string           `json:"name"`
	SKU               string           `json:"sku"`
	Barcode           *string          `json:"barcode,omitempty"`
	OEMPartNo         *string          `json:"oemPartNo,omitempty"`
	Category          *string          `json:"category,omitempty"`
	Unit              string           `json:"unit"`
	CurrentQty        decimal.Decimal  `json:"currentQty"`
	MinQty            decimal.Decimal  `json:"minQty"`
	MaxQty            decimal.Decimal  `json:"maxQty"`
	ReorderLevel      decimal.Decimal  `json:"reorderLevel"`
	PurchaseRate      decimal.Decimal  `json:"purchaseRate"`
	SaleRate          decimal.Decimal  `json:"saleRate"`
	MRP               decimal.Decimal  `json:"mrp"`
	TaxRate           decimal.Decimal  `json:"taxRate"`
	Location          *string          `json:"location,omitempty"`
	AverageCost       decimal.Decimal  `json:"averageCost"`
	LastPurchaseDate  *time.Time       `json:"lastPurchaseDate,omitempty"`
	LastPurchasePrice *decimal.Decimal `json:"lastPurchasePrice,omitempty"`
	IsActive          bool             `json:"isActive"`
	AuditFields
}

// IsLowStock reports whether the item has fallen to its reorder level.
func (i StockItem) IsLowStock() bool {
	return i.CurrentQty.LessThanOrEqual(i.ReorderLevel)
}

// StockTransaction is one append-only quantity movement. Quantity is signed:
// sales are negative, purchases and openings positive, adjustments either.
type StockTransaction struct {
	TransactionID string          `json:"transactionID"`
	Seq           int64           `json:"seq"`
	ItemID        string          `json:"itemID"`
	Type          StockTxnType    `json:"type"`
	Quantity      decimal.Decimal `json:"quantity"`
	Rate          decimal.Decimal `json:"rate"`
	Date          time.Time       `json:"date"`
	ReferenceNo   *string         `json:"referenceNo,omitempty"`
	DocumentID    *string         `json:"documentID,omitempty"`
	Notes         *string         `json:"notes,omitempty"`
	QtyAfter      decimal.Decimal `json:"qtyAfter"`
	AvgCostAfter  decimal.Decimal `json:"avgCostAfter"`
	CreatedAt     time.Time       `json:"createdAt"`
	CreatedBy     string          `json:"createdBy"`
}

// StockItemFilter narrows stock item listings.
type StockItemFilter struct {
	Category        string
	Search          string
	LowStock        bool
	IncludeInactive bool
}

// StockReconciliation compares an item's stored quantity with its replayed transaction log.
type StockReconciliation struct {
	ItemID           string          `json:"itemID"`
	CurrentQty       decimal.Decimal `json:"currentQty"`
	ReplayedQty      decimal.Decimal `json:"replayedQty"`
	TransactionCount int             `json:"transactionCount"`
	Consistent       bool            `json:"consistent"`
}
