package service

import (
	"github.com/shopspring/decimal"
	taxdomain "github.com/smallbiznis/parkwise/internal/tax/domain"
	"github.com/smallbiznis/parkwise/pkg/money"
)

type calculator struct{}

func NewCalculator() taxdomain.Calculator {
	return calculator{}
}

// CalculateTax calculates tax added on top of netAmount.
// Rounding happens only here and in CalculateGross.
func (calculator) CalculateTax(netAmount, taxRate decimal.Decimal) (decimal.Decimal, error) {
	if err := validate(netAmount, taxRate); err != nil {
		return money.Zero, err
	}
	return computeTaxExclusive(netAmount, taxRate), nil
}

func (calculator) CalculateGross(netAmount, taxRate decimal.Decimal) (decimal.Decimal, error) {
	if err := validate(netAmount, taxRate); err != nil {
		return money.Zero, err
	}
	return money.Round(netAmount.Add(computeTaxExclusive(netAmount, taxRate))), nil
}

func (calculator) CalculateIncludedTax(grossAmount, taxRate decimal.Decimal) (decimal.Decimal, error) {
	if err := validate(grossAmount, taxRate); err != nil {
		return money.Zero, err
	}
	return computeTaxInclusive(grossAmount, taxRate), nil
}

// ComputeTax dispatches on mode for callers holding a configured TaxMode.
func ComputeTax(calc taxdomain.Calculator, mode taxdomain.TaxMode, amount, taxRate decimal.Decimal) (decimal.Decimal, error) {
	switch mode {
	case taxdomain.TaxModeExclusive, "":
		return calc.CalculateTax(amount, taxRate)
	case taxdomain.TaxModeInclusive:
		return calc.CalculateIncludedTax(amount, taxRate)
	default:
		return money.Zero, taxdomain.ErrInvalidTaxMode
	}
}

func validate(amount, taxRate decimal.Decimal) error {
	if amount.IsNegative() {
		return taxdomain.ErrInvalidNetAmount
	}
	if !money.InUnitInterval(taxRate) {
		return taxdomain.ErrInvalidTaxRate
	}
	return nil
}

func computeTaxExclusive(subtotal, rate decimal.Decimal) decimal.Decimal {
	if !subtotal.IsPositive() || !rate.IsPositive() {
		return money.Round(money.Zero)
	}
	return money.Round(subtotal.Mul(rate))
}

func computeTaxInclusive(total, rate decimal.Decimal) decimal.Decimal {
	if !total.IsPositive() || !rate.IsPositive() {
		return money.Round(money.Zero)
	}
	return money.Round(total.Mul(rate).Div(money.One.Add(rate)))
}
