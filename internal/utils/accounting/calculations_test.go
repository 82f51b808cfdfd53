package accounting_test

import (
	"testing"

	"github.com/SscSPs/partsledger/internal/core/domain"
	"github.com/SscSPs/partsledger/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateSignedAmount(t *testing.T) {
	hundred := decimal.NewFromInt(100)
	tests := []struct {
		name       string
		side       domain.EntrySide
		ledgerType domain.LedgerType
		want       decimal.Decimal
	}{
		{"debit asset increases", domain.Debit, domain.Asset, hundred},
		{"credit asset decreases", domain.Credit, domain.Asset, hundred.Neg()},
		{"debit expense increases", domain.Debit, domain.Expense, hundred},
		{"credit income increases", domain.Credit, domain.Income, hundred},
		{"debit income decreases", domain.Debit, domain.Income, hundred.Neg()},
		{"credit liability increases", domain.Credit, domain.Liability, hundred},
		{"debit equity decreases", domain.Debit, domain.Equity, hundred.Neg()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := accounting.CalculateSignedAmount(hundred, tt.side, tt.ledgerType)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s got %s", tt.want, got)
		})
	}

	_, err := accounting.CalculateSignedAmount(hundred, domain.Debit, domain.LedgerType("BOGUS"))
	assert.Error(t, err)
}

func TestPostingDeltasAndInverse(t *testing.T) {
	cash := domain.Ledger{LedgerID: "cash", Type: domain.Asset}
	sales := domain.Ledger{LedgerID: "sales", Type: domain.Income}

	deltas, err := accounting.PostingDeltas(cash, sales, decimal.NewFromInt(1000))
	require.NoError(t, err)
	assert.True(t, deltas["cash"].Equal(decimal.NewFromInt(1000)))
	assert.True(t, deltas["sales"].Equal(decimal.NewFromInt(1000)))

	inverse := accounting.InvertDeltas(deltas)
	assert.True(t, inverse["cash"].Equal(decimal.NewFromInt(-1000)))
	assert.True(t, inverse["sales"].Equal(decimal.NewFromInt(-1000)))
}

func TestReplayBalance_SkipsCancelledAndUnrelated(t *testing.T) {
	cash := domain.Ledger{LedgerID: "cash", Type: domain.Asset, OpeningBalance: decimal.NewFromInt(500)}
	vouchers := []domain.Voucher{
		{DebitLedgerID: "cash", CreditLedgerID: "sales", Amount: decimal.NewFromInt(1000), Status: domain.VoucherPosted},
		{DebitLedgerID: "rent", CreditLedgerID: "cash", Amount: decimal.NewFromInt(200), Status: domain.VoucherPosted},
		{DebitLedgerID: "cash", CreditLedgerID: "sales", Amount: decimal.NewFromInt(50), Status: domain.VoucherCancelled},
		{DebitLedgerID: "rent", CreditLedgerID: "bank", Amount: decimal.NewFromInt(75), Status: domain.VoucherPosted},
	}

	balance, count, err := accounting.ReplayBalance(cash, vouchers)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.True(t, decimal.NewFromInt(1300).Equal(balance), "got %s", balance)
}

func TestWeightedAverageCost(t *testing.T) {
	t.Run("blends existing stock with a purchase", func(t *testing.T) {
		got := accounting.WeightedAverageCost(decimal.NewFromInt(100), decimal.NewFromInt(50), decimal.NewFromInt(20), decimal.NewFromInt(60))
		assert.Equal(t, "51.6667", got.String())
		assert.Equal(t, "51.67", got.Round(2).String())
	})

	t.Run("resets to rate when nothing was on hand", func(t *testing.T) {
		got := accounting.WeightedAverageCost(decimal.Zero, decimal.NewFromInt(40), decimal.NewFromInt(10), decimal.NewFromInt(60))
		assert.True(t, decimal.NewFromInt(60).Equal(got))
	})

	t.Run("keeps cost when nothing remains", func(t *testing.T) {
		got := accounting.WeightedAverageCost(decimal.NewFromInt(-10), decimal.NewFromInt(40), decimal.NewFromInt(10), decimal.NewFromInt(60))
		assert.True(t, decimal.NewFromInt(40).Equal(got))
	})
}

func TestCalculateDocument(t *testing.T) {
	lines := []accounting.LineInput{
		{Quantity: decimal.NewFromInt(2), Rate: decimal.NewFromInt(100), TaxRate: decimal.RequireFromString("0.18"), Discount: decimal.NewFromInt(10)},
		{Quantity: decimal.NewFromInt(1), Rate: decimal.NewFromInt(50), TaxRate: decimal.Zero, Discount: decimal.Zero},
	}

	totals := accounting.CalculateDocument(lines, decimal.NewFromInt(5), decimal.NewFromInt(20))

	assert.Equal(t, "226", totals.Lines[0].LineTotal.String())
	assert.Equal(t, "50", totals.Lines[1].LineTotal.String())
	assert.Equal(t, "250", totals.Subtotal.String())
	assert.Equal(t, "36", totals.TaxAmount.String())
	assert.Equal(t, "15", totals.DiscountAmount.String())
	assert.Equal(t, "291", totals.Total.String())
	assert.Equal(t, "255", totals.Net().String())
	assert.True(t, totals.Net().Add(totals.TaxAmount).Equal(totals.Total))
}
