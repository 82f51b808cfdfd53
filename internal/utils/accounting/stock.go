package accounting

import (
	"github.com/shopspring/decimal"
)

// WeightedAverageCost returns the average unit cost after receiving qty units at rate.
// The cost is unchanged when nothing remains on hand afterwards, and resets to rate
// when nothing (or a deficit) was on hand before.
func WeightedAverageCost(qtyBefore, avgBefore, qty, rate decimal.Decimal) decimal.Decimal {
	qtyAfter := qtyBefore.Add(qty)
	if qtyAfter.LessThanOrEqual(decimal.Zero) {
		return avgBefore
	}
	if qtyBefore.LessThanOrEqual(decimal.Zero) {
		return rate.Round(Scale)
	}
	value := qtyBefore.Mul(avgBefore).Add(qty.Mul(rate))
	return value.DivRound(qtyAfter, Scale)
}

// ReplayQuantity sums signed quantities in log order.
func ReplayQuantity(quantities []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, q := range quantities {
		total = total.Add(q)
	}
	return total
}
