package domain

import "github.com/shopspring/decimal"

// TaxMode represents how tax relates to the amount it is computed from.
type TaxMode string

const (
	TaxModeExclusive TaxMode = "exclusive" // net + tax
	TaxModeInclusive TaxMode = "inclusive" // amount already includes tax
)

// Calculator computes tax on a net parking charge. Rates are fractions in [0, 1].
type Calculator interface {
	CalculateTax(netAmount, taxRate decimal.Decimal) (decimal.Decimal, error)
	CalculateGross(netAmount, taxRate decimal.Decimal) (decimal.Decimal, error)
	// CalculateIncludedTax returns the tax portion of a tax-inclusive amount.
	CalculateIncludedTax(grossAmount, taxRate decimal.Decimal) (decimal.Decimal, error)
}
