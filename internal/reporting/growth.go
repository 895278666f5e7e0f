package reporting

import (
	"math"

	"github.com/shopspring/decimal"
)

// GrowthFromZero is reported when the baseline is zero and the current
// amount is not. It is a display convention; the true change is unbounded.
const GrowthFromZero = 100.0

var hundred = decimal.NewFromInt(100)

// GrowthRate returns the percentage change from previous to current.
// A zero baseline yields 0 when current is also zero and GrowthFromZero
// otherwise. The result is not rounded.
func GrowthRate(current, previous decimal.Decimal) float64 {
	if previous.IsPositive() {
		return current.Sub(previous).Div(previous).Mul(hundred).InexactFloat64()
	}
	if current.IsZero() {
		return 0
	}
	return GrowthFromZero
}

// Share returns part as a percentage of total, or 0 when total is not positive.
func Share(part, total decimal.Decimal) float64 {
	if !total.IsPositive() {
		return 0
	}
	return part.Div(total).Mul(hundred).InexactFloat64()
}

// RoundTo rounds x half away from zero to the given number of decimal places.
func RoundTo(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}
