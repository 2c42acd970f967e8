package service

import (
	"github.com/shopspring/decimal"
	pricingdomain "github.com/smallbiznis/parkwise/internal/pricing/domain"
	"github.com/smallbiznis/parkwise/pkg/money"
)

const hoursPerDay = 24

type calculator struct{}

func NewCalculator() pricingdomain.Calculator {
	return calculator{}
}

// CalculateBasePrice applies the pricing steps in a fixed order; reordering
// them changes results once the daily cap is involved.
func (calculator) CalculateBasePrice(in pricingdomain.BasePriceInput) (decimal.Decimal, error) {
	if err := validateInput(in); err != nil {
		return money.Zero, err
	}
	if in.DurationHours == 0 {
		return money.Round(money.Zero), nil
	}

	hours := decimal.NewFromInt(in.DurationHours)
	price := in.Tariff.BaseHourlyRate.Mul(hours)

	switch in.TimeBand {
	case pricingdomain.TimeBandPeak:
		price = price.Mul(in.Dynamic.PeakHourMultiplier)
	case pricingdomain.TimeBandOffPeak:
		price = price.Mul(in.Dynamic.OffPeakMultiplier)
	}

	if in.OccupancyRatio.GreaterThanOrEqual(in.Dynamic.HighOccupancyThreshold) {
		price = price.Mul(in.Dynamic.HighOccupancyMultiplier)
	}

	surcharge := in.Tariff.WeekendOrHolidaySurchargePercent
	if (in.DayType == pricingdomain.DayTypeWeekend || in.DayType == pricingdomain.DayTypeHoliday) && surcharge.IsPositive() {
		price = price.Mul(money.One.Add(surcharge))
	}

	if in.Tariff.HasDailyCap() {
		days := (in.DurationHours + hoursPerDay - 1) / hoursPerDay
		limit := in.Tariff.DailyCap.Mul(decimal.NewFromInt(days))
		price = money.Min(price, limit)
	}

	return money.Round(price), nil
}

func validateInput(in pricingdomain.BasePriceInput) error {
	if in.DurationHours < 0 {
		return pricingdomain.ErrInvalidDuration
	}
	if !money.InUnitInterval(in.OccupancyRatio) {
		return pricingdomain.ErrInvalidOccupancy
	}
	if !in.DayType.Valid() {
		return pricingdomain.ErrInvalidDayType
	}
	if !in.TimeBand.Valid() {
		return pricingdomain.ErrInvalidTimeBand
	}
	if err := in.Tariff.Validate(); err != nil {
		return err
	}
	return in.Dynamic.Validate()
}
