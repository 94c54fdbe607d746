// Package money holds minor-unit price arithmetic. All amounts are integer
// cents; fractional results are settled with banker's rounding so repeated
// recomputation never drifts.
package money

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// ApplyPercentDiscount reduces amountCents by the given percentage and rounds
// to the nearest minor unit (half-to-even). Percent values outside 0-100 are
// clamped; the result is never negative.
func ApplyPercentDiscount(amountCents int64, percent decimal.Decimal) int64 {
	if amountCents <= 0 {
		return 0
	}
	if percent.LessThanOrEqual(decimal.Zero) {
		return amountCents
	}
	if percent.GreaterThanOrEqual(hundred) {
		return 0
	}

	factor := hundred.Sub(percent).Div(hundred)
	discounted := decimal.NewFromInt(amountCents).Mul(factor).RoundBank(0)
	return discounted.IntPart()
}

// LineTotal multiplies a unit price by a quantity. Quantities are validated
// upstream; non-positive inputs yield zero.
func LineTotal(unitPriceCents int64, quantity int) int64 {
	if unitPriceCents <= 0 || quantity <= 0 {
		return 0
	}
	return unitPriceCents * int64(quantity)
}
