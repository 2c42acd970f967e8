// Package money holds the decimal helpers shared by every pricing step.
//
// All amounts are shopspring decimals. Rounding happens at the boundaries
// named by each calculator and always to two places, half-up.
package money

import (
	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits kept on every stored amount.
const Scale int32 = 2

var (
	Zero    = decimal.Zero
	One     = decimal.NewFromInt(1)
	Hundred = decimal.NewFromInt(100)
)

// Round rounds to two places, half-up. Amounts reaching this point are
// non-negative, where half-away-from-zero and half-up agree.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Scale)
}

// ClampNonNegative returns zero for negative values.
func ClampNonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return Zero
	}
	return d
}

// Min returns the smaller of a and b.
func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

// Max returns the larger of a and b.
func Max(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// InUnitInterval reports whether 0 <= d <= 1.
func InUnitInterval(d decimal.Decimal) bool {
	return !d.IsNegative() && d.LessThanOrEqual(One)
}

// Parse reads a decimal string; empty input yields zero.
func Parse(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return Zero, nil
	}
	return decimal.NewFromString(raw)
}

// MustParse is Parse for constants and tests.
func MustParse(raw string) decimal.Decimal {
	d, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return d
}

// String formats d with exactly two fractional digits.
func String(d decimal.Decimal) string {
	return d.StringFixed(Scale)
}
