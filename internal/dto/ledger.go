package dto

import (
	"time"

	"github.com/SscSPs/partsledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateLedgerRequest defines the data needed to create a new ledger.
type CreateLedgerRequest struct {
	Name           string            `json:"name" binding:"required,max=255"`
	Type           domain.LedgerType `json:"type" binding:"required,oneof=ASSET LIABILITY INCOME EXPENSE EQUITY"`
	OpeningBalance decimal.Decimal   `json:"openingBalance"`
	ParentGroup    *string           `json:"parentGroup" binding:"omitempty,max=255"`
}

// UpdateLedgerRequest defines the editable ledger fields. Type and balances are fixed.
type UpdateLedgerRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=255"`
	ParentGroup *string `json:"parentGroup" binding:"omitempty,max=255"`
}

// ListLedgersParams defines query parameters for listing ledgers.
type ListLedgersParams struct {
	Type            string `form:"type" binding:"omitempty,oneof=ASSET LIABILITY INCOME EXPENSE EQUITY"`
	Search          string `form:"search"`
	IncludeInactive bool   `form:"includeInactive"`
}

// LedgerResponse defines the data returned for a ledger.
type LedgerResponse struct {
	LedgerID       string            `json:"ledgerID"`
	Name           string            `json:"name"`
	Type           domain.LedgerType `json:"type"`
	Balance        decimal.Decimal   `json:"balance"`
	OpeningBalance decimal.Decimal   `json:"openingBalance"`
	ParentGroup    *string           `json:"parentGroup,omitempty"`
	IsActive       bool              `json:"isActive"`
	CreatedAt      time.Time         `json:"createdAt"`
	CreatedBy      string            `json:"createdBy"`
	LastUpdatedAt  time.Time         `json:"lastUpdatedAt"`
	LastUpdatedBy  string            `json:"lastUpdatedBy"`
}

// ListLedgersResponse wraps a ledger listing.
type ListLedgersResponse struct {
	Ledgers []LedgerResponse `json:"ledgers"`
}

// ToLedgerResponse converts a domain.Ledger to LedgerResponse DTO.
func ToLedgerResponse(l *domain.Ledger) LedgerResponse {
	return LedgerResponse{
		LedgerID:       l.LedgerID,
		Name:           l.Name,
		Type:           l.Type,
		Balance:        l.Balance,
		OpeningBalance: l.OpeningBalance,
		ParentGroup:    l.ParentGroup,
		IsActive:       l.IsActive,
		CreatedAt:      l.CreatedAt,
		CreatedBy:      l.CreatedBy,
		LastUpdatedAt:  l.LastUpdatedAt,
		LastUpdatedBy:  l.LastUpdatedBy,
	}
}

// ToListLedgersResponse converts a slice of domain.Ledger.
func ToListLedgersResponse(ledgers []domain.Ledger) ListLedgersResponse {
	res := make([]LedgerResponse, len(ledgers))
	for i := range ledgers {
		res[i] = ToLedgerResponse(&ledgers[i])
	}
	return ListLedgersResponse{Ledgers: res}
}
