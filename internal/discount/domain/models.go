package domain

import (
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/parkwise/pkg/money"
)

// DiscountInfo is a user's subscription and promo entitlement. Build it with
// NewDiscountInfo so the free-hours pairing is enforced.
type DiscountInfo struct {
	SubscriptionDiscountPercent decimal.Decimal `json:"subscription_discount_percent"`
	PromoDiscountPercent        decimal.Decimal `json:"promo_discount_percent"`
	PromoDiscountFixed          decimal.Decimal `json:"promo_discount_fixed"`
	SubscriptionHasFreeHours    bool            `json:"subscription_has_free_hours"`
	FreeHoursPerDay             int64           `json:"free_hours_per_day"`
}

func NewDiscountInfo(subscriptionPercent, promoPercent, promoFixed decimal.Decimal, hasFreeHours bool, freeHoursPerDay int64) (DiscountInfo, error) {
	info := DiscountInfo{
		SubscriptionDiscountPercent: subscriptionPercent,
		PromoDiscountPercent:        promoPercent,
		PromoDiscountFixed:          promoFixed,
		SubscriptionHasFreeHours:    hasFreeHours,
		FreeHoursPerDay:             freeHoursPerDay,
	}
	if err := info.Validate(); err != nil {
		return DiscountInfo{}, err
	}
	return info, nil
}

func (d DiscountInfo) Validate() error {
	if !money.InUnitInterval(d.SubscriptionDiscountPercent) {
		return ErrInvalidSubscriptionPercent
	}
	if !money.InUnitInterval(d.PromoDiscountPercent) {
		return ErrInvalidPromoPercent
	}
	if d.PromoDiscountFixed.IsNegative() {
		return ErrInvalidPromoFixed
	}
	if d.FreeHoursPerDay < 0 || (!d.SubscriptionHasFreeHours && d.FreeHoursPerDay != 0) {
		return ErrInvalidFreeHours
	}
	return nil
}

// NetPriceInput is the discount step's input. MaxPriceCap nil means uncapped.
type NetPriceInput struct {
	BasePrice   decimal.Decimal
	Penalties   decimal.Decimal
	Discount    DiscountInfo
	MaxPriceCap *decimal.Decimal
}

// Calculator applies discounts and the global ceiling.
type Calculator interface {
	ApplyDiscountAndCaps(in NetPriceInput) (decimal.Decimal, error)
}
