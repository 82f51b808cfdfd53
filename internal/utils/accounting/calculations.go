package accounting

import (
	"fmt"

	"github.com/SscSPs/partsledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Scale is the number of decimal places money, quantities and costs are stored with.
const Scale = 4

// CalculateSignedAmount applies the correct sign to an amount posted on side of a ledger of ledgerType.
//
// DEBIT to ASSET/EXPENSE -> Positive (+)
// CREDIT to ASSET/EXPENSE -> Negative (-)
// DEBIT to LIABILITY/EQUITY/INCOME -> Negative (-)
// CREDIT to LIABILITY/EQUITY/INCOME -> Positive (+)
func CalculateSignedAmount(amount decimal.Decimal, side domain.EntrySide, ledgerType domain.LedgerType) (decimal.Decimal, error) {
	isDebit := side == domain.Debit
	switch ledgerType {
	case domain.Asset, domain.Expense:
		if !isDebit {
			return amount.Neg(), nil
		}
	case domain.Liability, domain.Equity, domain.Income:
		if isDebit {
			return amount.Neg(), nil
		}
	default:
		return decimal.Zero, fmt.Errorf("unknown ledger type '%s'", ledgerType)
	}
	return amount, nil
}

// PostingDeltas returns the balance change of each ledger touched by a voucher.
func PostingDeltas(debit, credit domain.Ledger, amount decimal.Decimal) (map[string]decimal.Decimal, error) {
	debitDelta, err := CalculateSignedAmount(amount, domain.Debit, debit.Type)
	if err != nil {
		return nil, fmt.Errorf("ledger %s: %w", debit.LedgerID, err)
	}
	creditDelta, err := CalculateSignedAmount(amount, domain.Credit, credit.Type)
	if err != nil {
		return nil, fmt.Errorf("ledger %s: %w", credit.LedgerID, err)
	}
	return map[string]decimal.Decimal{
		debit.LedgerID:  debitDelta,
		credit.LedgerID: creditDelta,
	}, nil
}

// InvertDeltas negates every delta, producing the exact reversal of a posting.
func InvertDeltas(deltas map[string]decimal.Decimal) map[string]decimal.Decimal {
	inverted := make(map[string]decimal.Decimal, len(deltas))
	for id, d := range deltas {
		inverted[id] = d.Neg()
	}
	return inverted
}

// ReplayBalance folds the posted vouchers touching ledger onto its opening balance.
// Cancelled vouchers are skipped.
func ReplayBalance(ledger domain.Ledger, vouchers []domain.Voucher) (decimal.Decimal, int, error) {
	balance := ledger.OpeningBalance
	counted := 0
	for _, v := range vouchers {
		if v.Status != domain.VoucherPosted || !v.Touches(ledger.LedgerID) {
			continue
		}
		if v.DebitLedgerID == ledger.LedgerID {
			d, err := CalculateSignedAmount(v.Amount, domain.Debit, ledger.Type)
			if err != nil {
				return decimal.Zero, 0, err
			}
			balance = balance.Add(d)
		}
		if v.CreditLedgerID == ledger.LedgerID {
			d, err := CalculateSignedAmount(v.Amount, domain.Credit, ledger.Type)
			if err != nil {
				return decimal.Zero, 0, err
			}
			balance = balance.Add(d)
		}
		counted++
	}
	return balance, counted, nil
}
