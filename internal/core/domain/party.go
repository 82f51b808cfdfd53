package domain

import "github.com/shopspring/decimal"

// PartyKind distinguishes customers from suppliers.
type PartyKind string

const (
	CustomerParty PartyKind = "CUSTOMER"
	SupplierParty PartyKind = "SUPPLIER"
)

// Party is a customer or supplier. Its outstanding balance lives on its own ledger.
type Party struct {
	PartyID     string          `json:"partyID"`
	Kind        PartyKind       `json:"kind"`
	Name        string          `json:"name"`
	Phone       *string         `json:"phone,omitempty"`
	Email       *string         `json:"email,omitempty"`
	Address     *string         `json:"address,omitempty"`
	GSTIN       *string         `json:"gstin,omitempty"`
	LedgerID    string          `json:"ledgerID"`
	CreditLimit decimal.Decimal `json:"creditLimit"`
	IsActive    bool            `json:"isActive"`
	Balance     decimal.Decimal `json:"balance"` // read from the party ledger
	AuditFields
}

// PartyFilter narrows party listings.
type PartyFilter struct {
	Search          string
	IncludeInactive bool
}

// PartyStatement is a party with every voucher that touched its ledger.
type PartyStatement struct {
	Party    Party     `json:"party"`
	Vouchers []Voucher `json:"vouchers"`
}
