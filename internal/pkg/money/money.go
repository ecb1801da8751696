// Package money wraps shopspring/decimal for the price and cash
// arithmetic where float comparisons against exact levels would be
// unreliable.
package money

import (
	"math"

	"github.com/shopspring/decimal"
)

func dec(val float64) decimal.Decimal {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(val)
}

func Cmp(a, b float64) int { return dec(a).Cmp(dec(b)) }

func LTE(a, b float64) bool { return Cmp(a, b) <= 0 }
func GTE(a, b float64) bool { return Cmp(a, b) >= 0 }
func LT(a, b float64) bool  { return Cmp(a, b) < 0 }
func GT(a, b float64) bool  { return Cmp(a, b) > 0 }

// Sub returns a-b computed in decimal space.
func Sub(a, b float64) float64 {
	f, _ := dec(a).Sub(dec(b)).Float64()
	return f
}

// Add returns a+b computed in decimal space.
func Add(a, b float64) float64 {
	f, _ := dec(a).Add(dec(b)).Float64()
	return f
}

// Mul returns a*b computed in decimal space.
func Mul(a, b float64) float64 {
	f, _ := dec(a).Mul(dec(b)).Float64()
	return f
}

// Div returns a/b, or 0 when b is zero.
func Div(a, b float64) float64 {
	d := dec(b)
	if d.IsZero() {
		return 0
	}
	f, _ := dec(a).Div(d).Float64()
	return f
}

// Round2 rounds to cents for display and persistence.
func Round2(v float64) float64 {
	f, _ := dec(v).Round(2).Float64()
	return f
}

// Round4 rounds to four decimals, the precision fractional share
// counts are reported at.
func Round4(v float64) float64 {
	f, _ := dec(v).Round(4).Float64()
	return f
}
