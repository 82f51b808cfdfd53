package dto

import (
	"time"

	"github.com/SscSPs/partsledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DocumentLineRequest is one item row of a sale or purchase. TaxRate is a fraction.
type DocumentLineRequest struct {
	ItemID   string          `json:"itemID" binding:"required"`
	Quantity decimal.Decimal `json:"quantity"`
	Rate     decimal.Decimal `json:"rate"`
	TaxRate  decimal.Decimal `json:"taxRate"`
	Discount decimal.Decimal `json:"discount"`
}

// CreateSaleRequest defines a sale. CustomerID is required for CREDIT sales;
// cash sales may name a walk-in customer instead.
type CreateSaleRequest struct {
	CustomerID    *string               `json:"customerID"`
	CustomerName  *string               `json:"customerName" binding:"omitempty,max=255"`
	Date          time.Time             `json:"date" binding:"required"`
	PaymentMethod domain.PaymentMethod  `json:"paymentMethod" binding:"required,oneof=CASH CREDIT"`
	Discount      decimal.Decimal       `json:"discount"`
	Notes         *string               `json:"notes" binding:"omitempty,max=1000"`
	Lines         []DocumentLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// CreatePurchaseRequest defines a purchase from a supplier.
type CreatePurchaseRequest struct {
	SupplierID    string                `json:"supplierID" binding:"required"`
	Date          time.Time             `json:"date" binding:"required"`
	PaymentMethod domain.PaymentMethod  `json:"paymentMethod" binding:"required,oneof=CASH CREDIT"`
	Discount      decimal.Decimal       `json:"discount"`
	ShippingCost  decimal.Decimal       `json:"shippingCost"`
	Notes         *string               `json:"notes" binding:"omitempty,max=1000"`
	Lines         []DocumentLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ListDocumentsParams defines query parameters for listing sales or purchases.
type ListDocumentsParams struct {
	From           *time.Time `form:"from" time_format:"2006-01-02"`
	To             *time.Time `form:"to" time_format:"2006-01-02"`
	CounterpartyID string     `form:"counterpartyID"`
	Status         string     `form:"status" binding:"omitempty,oneof=POSTED CANCELLED"`
}

// DocumentResponse defines the data returned for a sale or purchase.
type DocumentResponse struct {
	domain.Document
}

// ListDocumentsResponse wraps a document listing.
type ListDocumentsResponse struct {
	Documents []DocumentResponse `json:"documents"`
}

// ToDocumentResponse converts a domain.Document.
func ToDocumentResponse(doc *domain.Document) DocumentResponse {
	return DocumentResponse{Document: *doc}
}

// ToListDocumentsResponse converts a slice of domain.Document.
func ToListDocumentsResponse(docs []domain.Document) ListDocumentsResponse {
	res := make([]DocumentResponse, len(docs))
	for i := range docs {
		res[i] = ToDocumentResponse(&docs[i])
	}
	return ListDocumentsResponse{Documents: res}
}
