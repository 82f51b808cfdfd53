package dto

import (
	"github.com/SscSPs/partsledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreatePartyRequest defines the data needed to create a customer or supplier.
type CreatePartyRequest struct {
	Name           string          `json:"name" binding:"required,max=255"`
	Phone          *string         `json:"phone" binding:"omitempty,max=32"`
	Email          *string         `json:"email" binding:"omitempty,email"`
	Address        *string         `json:"address" binding:"omitempty,max=1000"`
	GSTIN          *string         `json:"gstin" binding:"omitempty,max=32"`
	CreditLimit    decimal.Decimal `json:"creditLimit"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
}

// UpdatePartyRequest defines editable party fields.
type UpdatePartyRequest struct {
	Name        *string          `json:"name" binding:"omitempty,min=1,max=255"`
	Phone       *string          `json:"phone" binding:"omitempty,max=32"`
	Email       *string          `json:"email" binding:"omitempty,email"`
	Address     *string          `json:"address" binding:"omitempty,max=1000"`
	GSTIN       *string          `json:"gstin" binding:"omitempty,max=32"`
	CreditLimit *decimal.Decimal `json:"creditLimit"`
}

// ListPartiesParams defines query parameters for listing parties.
type ListPartiesParams struct {
	Search          string `form:"search"`
	IncludeInactive bool   `form:"includeInactive"`
}

// PartyResponse defines the data returned for a customer or supplier.
type PartyResponse struct {
	domain.Party
}

// ListPartiesResponse wraps a party listing.
type ListPartiesResponse struct {
	Parties []PartyResponse `json:"parties"`
}

// PartyStatementResponse is a party with its vouchers.
type PartyStatementResponse struct {
	Party    PartyResponse     `json:"party"`
	Vouchers []VoucherResponse `json:"vouchers"`
}

// ToPartyResponse converts a domain.Party.
func ToPartyResponse(p *domain.Party) PartyResponse {
	return PartyResponse{Party: *p}
}

// ToListPartiesResponse converts a slice of domain.Party.
func ToListPartiesResponse(parties []domain.Party) ListPartiesResponse {
	res := make([]PartyResponse, len(parties))
	for i := range parties {
		res[i] = ToPartyResponse(&parties[i])
	}
	return ListPartiesResponse{Parties: res}
}

// ToPartyStatementResponse converts a domain.PartyStatement.
func ToPartyStatementResponse(s *domain.PartyStatement) PartyStatementResponse {
	return PartyStatementResponse{
		Party:    ToPartyResponse(&s.Party),
		Vouchers: ToVoucherResponses(s.Vouchers),
	}
}
