package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentKind distinguishes sales from purchases.
type DocumentKind string

const (
	SaleDocument     DocumentKind = "SALE"
	PurchaseDocument DocumentKind = "PURCHASE"
)

// PaymentMethod decides which ledger carries the counterparty side of a document.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "CASH"
	PaymentCredit PaymentMethod = "CREDIT"
)

// DocumentStatus is the lifecycle state of a sale or purchase.
type DocumentStatus string

const (
	DocumentPosted    DocumentStatus = "POSTED"
	DocumentCancelled DocumentStatus = "CANCELLED"
)

// DocumentLine is one item row of a sale or purchase.
type DocumentLine struct {
	LineID     string          `json:"lineID"`
	DocumentID string          `json:"documentID"`
	LineNo     int             `json:"lineNo"`
	ItemID     string          `json:"itemID"`
	Quantity   decimal.Decimal `json:"quantity"`
	Rate       decimal.Decimal `json:"rate"`
	TaxRate    decimal.Decimal `json:"taxRate"`
	Discount   decimal.Decimal `json:"discount"`
	LineTotal  decimal.Decimal `json:"lineTotal"`
}

// Document is a composed sale or purchase with its ordered lines.
type Document struct {
	DocumentID       string          `json:"documentID"`
	Kind             DocumentKind    `json:"kind"`
	Number           string          `json:"number"`
	CounterpartyID   *string         `json:"counterpartyID,omitempty"`
	CounterpartyName *string         `json:"counterpartyName,omitempty"`
	Date             time.Time       `json:"date"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	TaxAmount        decimal.Decimal `json:"taxAmount"`
	DiscountAmount   decimal.Decimal `json:"discountAmount"`
	ShippingCost     decimal.Decimal `json:"shippingCost"`
	Total            decimal.Decimal `json:"total"`
	PaymentMethod    PaymentMethod   `json:"paymentMethod"`
	Status           DocumentStatus  `json:"status"`
	Notes            *string         `json:"notes,omitempty"`
	CancelledAt      *time.Time      `json:"cancelledAt,omitempty"`
	CancelledBy      *string         `json:"cancelledBy,omitempty"`
	Lines            []DocumentLine  `json:"lines"`
	AuditFields
}

// DocumentFilter narrows document listings.
type DocumentFilter struct {
	From           *time.Time
	To             *time.Time
	CounterpartyID string
	Status         *DocumentStatus
}
