package domain

import "github.com/smallbiznis/parkwise/internal/errs"

var (
	ErrInvalidBasePrice           = errs.New(errs.ErrInvalidInput, "invalid_base_price")
	ErrInvalidPenalties           = errs.New(errs.ErrInvalidInput, "invalid_penalties")
	ErrInvalidMaxPriceCap         = errs.New(errs.ErrInvalidInput, "invalid_max_price_cap")
	ErrInvalidSubscriptionPercent = errs.New(errs.ErrInvalidInput, "invalid_subscription_discount_percent")
	ErrInvalidPromoPercent        = errs.New(errs.ErrInvalidInput, "invalid_promo_discount_percent")
	ErrInvalidPromoFixed          = errs.New(errs.ErrInvalidInput, "invalid_promo_discount_fixed")
	ErrInvalidFreeHours           = errs.New(errs.ErrInvalidInput, "invalid_free_hours_per_day")
)
