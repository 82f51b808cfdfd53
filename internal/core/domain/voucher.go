package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// VoucherType classifies a voucher.
type VoucherType string

const (
	PaymentVoucher  VoucherType = "PAYMENT"
	ReceiptVoucher  VoucherType = "RECEIPT"
	JournalVoucher  VoucherType = "JOURNAL"
	ContraVoucher   VoucherType = "CONTRA"
	SalesVoucher    VoucherType = "SALES"
	PurchaseVoucher VoucherType = "PURCHASE"
)

// VoucherStatus indicates whether a voucher's balance effect is in force.
type VoucherStatus string

const (
	VoucherPosted    VoucherStatus = "POSTED"
	VoucherCancelled VoucherStatus = "CANCELLED"
)

// Voucher is a single double-entry posting of Amount from CreditLedgerID to DebitLedgerID.
// Only Status and the cancellation fields change after posting.
type Voucher struct {
	VoucherID      string          `json:"voucherID"`
	VoucherNo      string          `json:"voucherNo"`
	Date           time.Time       `json:"date"`
	Type           VoucherType     `json:"type"`
	DebitLedgerID  string          `json:"debitLedgerID"`
	CreditLedgerID string          `json:"creditLedgerID"`
	Amount         decimal.Decimal `json:"amount"`
	Narration      *string         `json:"narration,omitempty"`
	ReferenceNo    *string         `json:"referenceNo,omitempty"`
	DocumentID     *string         `json:"documentID,omitempty"`
	Status         VoucherStatus   `json:"status"`
	CancelledAt    *time.Time      `json:"cancelledAt,omitempty"`
	CancelledBy    *string         `json:"cancelledBy,omitempty"`
	AuditFields
}

// Touches reports whether the voucher posts to ledgerID on either side.
func (v Voucher) Touches(ledgerID string) bool {
	return v.DebitLedgerID == ledgerID || v.CreditLedgerID == ledgerID
}

// VoucherCursor marks the last voucher of a page in (date, createdAt, voucherNo) descending order.
type VoucherCursor struct {
	Date      time.Time
	CreatedAt time.Time
	VoucherNo string
}

// Before reports whether v sorts after the cursor, i.e. belongs to a later page.
func (c VoucherCursor) Before(v Voucher) bool {
	if !v.Date.Equal(c.Date) {
		return v.Date.Before(c.Date)
	}
	if !v.CreatedAt.Equal(c.CreatedAt) {
		return v.CreatedAt.Before(c.CreatedAt)
	}
	return v.VoucherNo < c.VoucherNo
}

// VoucherFilter narrows voucher listings. A zero Limit returns every match.
type VoucherFilter struct {
	From       *time.Time
	To         *time.Time
	Type       *VoucherType
	Status     *VoucherStatus
	LedgerID   string
	DocumentID string
	Limit      int
	After      *VoucherCursor
}
