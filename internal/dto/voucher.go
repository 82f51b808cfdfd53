package dto

import (
	"time"

	"github.com/SscSPs/partsledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PostVoucherRequest defines a manual voucher. SALES and PURCHASE vouchers are
// only produced by document composition.
type PostVoucherRequest struct {
	Date           time.Time          `json:"date" binding:"required"`
	Type           domain.VoucherType `json:"type" binding:"required,oneof=PAYMENT RECEIPT JOURNAL CONTRA"`
	DebitLedgerID  string             `json:"debitLedgerID" binding:"required"`
	CreditLedgerID string             `json:"creditLedgerID" binding:"required,nefield=DebitLedgerID"`
	Amount         decimal.Decimal    `json:"amount"`
	Narration      *string            `json:"narration" binding:"omitempty,max=1000"`
	ReferenceNo    *string            `json:"referenceNo" binding:"omitempty,max=64"`
}

// ListVouchersParams defines query parameters for listing vouchers.
type ListVouchersParams struct {
	From      *time.Time `form:"from" time_format:"2006-01-02"`
	To        *time.Time `form:"to" time_format:"2006-01-02"`
	Type      string     `form:"type" binding:"omitempty,oneof=PAYMENT RECEIPT JOURNAL CONTRA SALES PURCHASE"`
	LedgerID  string     `form:"ledgerID"`
	Limit     int        `form:"limit,default=50" binding:"min=1,max=500"`
	NextToken *string    `form:"nextToken"`
}

// VoucherResponse defines the data returned for a voucher.
type VoucherResponse struct {
	VoucherID      string               `json:"voucherID"`
	VoucherNo      string               `json:"voucherNo"`
	Date           time.Time            `json:"date"`
	Type           domain.VoucherType   `json:"type"`
	DebitLedgerID  string               `json:"debitLedgerID"`
	CreditLedgerID string               `json:"creditLedgerID"`
	Amount         decimal.Decimal      `json:"amount"`
	Narration      *string              `json:"narration,omitempty"`
	ReferenceNo    *string              `json:"referenceNo,omitempty"`
	DocumentID     *string              `json:"documentID,omitempty"`
	Status         domain.VoucherStatus `json:"status"`
	CancelledAt    *time.Time           `json:"cancelledAt,omitempty"`
	CancelledBy    *string              `json:"cancelledBy,omitempty"`
	CreatedAt      time.Time            `json:"createdAt"`
	CreatedBy      string               `json:"createdBy"`
}

// ListVouchersResponse is one page of vouchers.
type ListVouchersResponse struct {
	Vouchers  []VoucherResponse `json:"vouchers"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToVoucherResponse converts a domain.Voucher to VoucherResponse DTO.
func ToVoucherResponse(v *domain.Voucher) VoucherResponse {
	return VoucherResponse{
		VoucherID:      v.VoucherID,
		VoucherNo:      v.VoucherNo,
		Date:           v.Date,
		Type:           v.Type,
		DebitLedgerID:  v.DebitLedgerID,
		CreditLedgerID: v.CreditLedgerID,
		Amount:         v.Amount,
		Narration:      v.Narration,
		ReferenceNo:    v.ReferenceNo,
		DocumentID:     v.DocumentID,
		Status:         v.Status,
		CancelledAt:    v.CancelledAt,
		CancelledBy:    v.CancelledBy,
		CreatedAt:      v.CreatedAt,
		CreatedBy:      v.CreatedBy,
	}
}

// ToVoucherResponses converts a slice of domain.Voucher.
func ToVoucherResponses(vouchers []domain.Voucher) []VoucherResponse {
	res := make([]VoucherResponse, len(vouchers))
	for i := range vouchers {
		res[i] = ToVoucherResponse(&vouchers[i])
	}
	return res
}
