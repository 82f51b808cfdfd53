package domain

import (
	"github.com/shopspring/decimal"
)

// LedgerType defines the fundamental accounting type of a ledger.
type LedgerType string

const (
	Asset     LedgerType = "ASSET"
	Liability LedgerType = "LIABILITY"
	Income    LedgerType = "INCOME"
	Expense   LedgerType = "EXPENSE"
	Equity    LedgerType = "EQUITY"
)

// Valid reports whether t is one of the five ledger types.
func (t LedgerType) Valid() bool {
	switch t {
	case Asset, Liability, Income, Expense, Equity:
		return true
	}
	return false
}

// IsDebitNormal reports whether a debit increases the balance of a ledger of this type.
func (t LedgerType) IsDebitNormal() bool {
	return t == Asset || t == Expense
}

// Ledger is a named account with a running balance.
type Ledger struct {
	LedgerID       string          `json:"ledgerID"`
	Name           string          `json:"name"`
	Type           LedgerType      `json:"type"`
	Balance        decimal.Decimal `json:"balance"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	ParentGroup    *string         `json:"parentGroup,omitempty"`
	IsActive       bool            `json:"isActive"`
	AuditFields
}

// LedgerFilter narrows ledger listings.
type LedgerFilter struct {
	Type            *LedgerType
	Search          string
	IncludeInactive bool
}

// LedgerReconciliation compares a stored balance with the balance replayed from vouchers.
type LedgerReconciliation struct {
	LedgerID        string          `json:"ledgerID"`
	Balance         decimal.Decimal `json:"balance"`
	ReplayedBalance decimal.Decimal `json:"replayedBalance"`
	VoucherCount    int             `json:"voucherCount"`
	Consistent      bool            `json:"consistent"`
}

// Parent groups used for party ledgers.
const (
	GroupSundryDebtors   = "Sundry Debtors"
	GroupSundryCreditors = "Sundry Creditors"
)

// SystemLedgerNames names the ledgers that sales and purchases post against.
type SystemLedgerNames struct {
	Cash      string
	Sales     string
	Purchases string
	OutputTax string
	InputTax  string
}

// SystemLedgerSpec is a ledger that must exist for documents to post.
type SystemLedgerSpec struct {
	Name string
	Type LedgerType
}

// Specs lists the system ledgers with their types.
func (n SystemLedgerNames) Specs() []SystemLedgerSpec {
	return []SystemLedgerSpec{
		{Name: n.Cash, Type: Asset},
		{Name: n.Sales, Type: Income},
		{Name: n.Purchases, Type: Expense},
		{Name: n.OutputTax, Type: Liability},
		{Name: n.InputTax, Type: Asset},
	}
}

// Contains reports whether name is one of the system ledgers.
func (n SystemLedgerNames) Contains(name string) bool {
	for _, s := range n.Specs() {
		if s.Name == name {
			return true
		}
	}
	return false
}
