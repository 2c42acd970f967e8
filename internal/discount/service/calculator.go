package service

import (
	"github.com/shopspring/decimal"
	discountdomain "github.com/smallbiznis/parkwise/internal/discount/domain"
	"github.com/smallbiznis/parkwise/pkg/money"
)

type calculator struct{}

func NewCalculator() discountdomain.Calculator {
	return calculator{}
}

// ApplyDiscountAndCaps cascades the percentage discounts, then the fixed
// promo, then clamps to [0, MaxPriceCap].
func (calculator) ApplyDiscountAndCaps(in discountdomain.NetPriceInput) (decimal.Decimal, error) {
	if in.BasePrice.IsNegative() {
		return money.Zero, discountdomain.ErrInvalidBasePrice
	}
	if in.Penalties.IsNegative() {
		return money.Zero, discountdomain.ErrInvalidPenalties
	}
	if in.MaxPriceCap != nil && in.MaxPriceCap.IsNegative() {
		return money.Zero, discountdomain.ErrInvalidMaxPriceCap
	}
	if err := in.Discount.Validate(); err != nil {
		return money.Zero, err
	}

	amount := in.BasePrice.Add(in.Penalties)

	if pct := in.Discount.SubscriptionDiscountPercent; pct.IsPositive() {
		amount = amount.Sub(amount.Mul(pct))
	}
	if pct := in.Discount.PromoDiscountPercent; pct.IsPositive() {
		amount = amount.Sub(amount.Mul(pct))
	}
	if fixed := in.Discount.PromoDiscountFixed; fixed.IsPositive() {
		amount = amount.Sub(fixed)
	}

	amount = money.ClampNonNegative(amount)
	if in.MaxPriceCap != nil {
		amount = money.Min(amount, *in.MaxPriceCap)
	}

	return money.Round(amount), nil
}
