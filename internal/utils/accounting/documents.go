package accounting

import (
	"github.com/shopspring/decimal"
)

// LineInput is the priced part of a document line. TaxRate is a fraction (0.18 = 18%).
type LineInput struct {
	Quantity decimal.Decimal
	Rate     decimal.Decimal
	TaxRate  decimal.Decimal
	Discount decimal.Decimal
}

// LineAmounts holds the derived values of one line.
type LineAmounts struct {
	Gross     decimal.Decimal // quantity * rate
	Tax       decimal.Decimal // gross * taxRate
	LineTotal decimal.Decimal // gross + tax - discount
}

// DocumentTotals holds the derived header values of a sale or purchase.
type DocumentTotals struct {
	Lines          []LineAmounts
	Subtotal       decimal.Decimal
	TaxAmount      decimal.Decimal
	DiscountAmount decimal.Decimal
	ShippingCost   decimal.Decimal
	Total          decimal.Decimal
}

// Net is the pre-tax value after discounts plus shipping, the amount booked to sales or purchases.
func (t DocumentTotals) Net() decimal.Decimal {
	return t.Subtotal.Sub(t.DiscountAmount).Add(t.ShippingCost)
}

// CalculateLine prices one line.
func CalculateLine(in LineInput) LineAmounts {
	gross := in.Quantity.Mul(in.Rate).Round(Scale)
	tax := gross.Mul(in.TaxRate).Round(Scale)
	return LineAmounts{
		Gross:     gross,
		Tax:       tax,
		LineTotal: gross.Add(tax).Sub(in.Discount),
	}
}

// CalculateDocument prices every line and derives the header:
// subtotal is the pre-tax gross, discount is the line discounts plus headerDiscount,
// and total = subtotal + tax - discount + shipping.
func CalculateDocument(lines []LineInput, headerDiscount, shipping decimal.Decimal) DocumentTotals {
	totals := DocumentTotals{
		Lines:          make([]LineAmounts, len(lines)),
		Subtotal:       decimal.Zero,
		TaxAmount:      decimal.Zero,
		DiscountAmount: headerDiscount,
		ShippingCost:   shipping,
	}
	for i, l := range lines {
		amounts := CalculateLine(l)
		totals.Lines[i] = amounts
		totals.Subtotal = totals.Subtotal.Add(amounts.Gross)
		totals.TaxAmount = totals.TaxAmount.Add(amounts.Tax)
		totals.DiscountAmount = totals.DiscountAmount.Add(l.Discount)
	}
	totals.Total = totals.Subtotal.Add(totals.TaxAmount).Sub(totals.DiscountAmount).Add(totals.ShippingCost)
	return totals
}
