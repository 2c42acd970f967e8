// Package domain contains the tariff and dynamic pricing policy types used
// to compute a session's base price.
package domain

import (
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/parkwise/pkg/money"
)

// DayType classifies the calendar day a session starts on.
type DayType string

const (
	DayTypeWeekday DayType = "WEEKDAY"
	DayTypeWeekend DayType = "WEEKEND"
	DayTypeHoliday DayType = "HOLIDAY"
)

func (d DayType) Valid() bool {
	switch d {
	case DayTypeWeekday, DayTypeWeekend, DayTypeHoliday:
		return true
	}
	return false
}

// TimeOfDayBand classifies the time window a session starts in.
type TimeOfDayBand string

const (
	TimeBandPeak    TimeOfDayBand = "PEAK"
	TimeBandOffPeak TimeOfDayBand = "OFF_PEAK"
)

func (b TimeOfDayBand) Valid() bool {
	return b == TimeBandPeak || b == TimeBandOffPeak
}

// Tariff is the per-zone pricing policy.
type Tariff struct {
	ZoneType       string          `json:"zone_type"`
	BaseHourlyRate decimal.Decimal `json:"base_hourly_rate"`
	// DailyCap is nil when the zone has no cap.
	DailyCap                 *decimal.Decimal `json:"daily_cap,omitempty"`
	OvernightFlatRateEnabled bool             `json:"overnight_flat_rate_enabled"`
	OvernightFlatRate        *decimal.Decimal `json:"overnight_flat_rate,omitempty"`
	// WeekendOrHolidaySurchargePercent is a fraction: 0.60 means +60%.
	// Values above 1 are rejected, which caps the surcharge at +100%.
	WeekendOrHolidaySurchargePercent decimal.Decimal `json:"weekend_or_holiday_surcharge_percent"`
}

func (t Tariff) Validate() error {
	if t.BaseHourlyRate.IsNegative() {
		return ErrInvalidHourlyRate
	}
	if t.DailyCap != nil && t.DailyCap.IsNegative() {
		return ErrInvalidDailyCap
	}
	if t.OvernightFlatRateEnabled {
		if t.OvernightFlatRate == nil || t.OvernightFlatRate.IsNegative() {
			return ErrInvalidOvernightRate
		}
	} else if t.OvernightFlatRate != nil {
		return ErrInvalidOvernightRate
	}
	if !money.InUnitInterval(t.WeekendOrHolidaySurchargePercent) {
		return ErrInvalidSurcharge
	}
	return nil
}

// HasDailyCap reports whether a positive daily cap is configured.
func (t Tariff) HasDailyCap() bool {
	return t.DailyCap != nil && t.DailyCap.IsPositive()
}

// DynamicPricingConfig holds the peak and surge multipliers.
type DynamicPricingConfig struct {
	PeakHourMultiplier      decimal.Decimal `json:"peak_hour_multiplier"`
	OffPeakMultiplier       decimal.Decimal `json:"off_peak_multiplier"`
	HighOccupancyThreshold  decimal.Decimal `json:"high_occupancy_threshold"`
	HighOccupancyMultiplier decimal.Decimal `json:"high_occupancy_multiplier"`
}

func (c DynamicPricingConfig) Validate() error {
	if !c.PeakHourMultiplier.IsPositive() ||
		!c.OffPeakMultiplier.IsPositive() ||
		!c.HighOccupancyMultiplier.IsPositive() {
		return ErrInvalidMultiplier
	}
	if !money.InUnitInterval(c.HighOccupancyThreshold) {
		return ErrInvalidOccupancyThreshold
	}
	return nil
}

// BasePriceInput is everything the base price depends on.
type BasePriceInput struct {
	DurationHours  int64
	DayType        DayType
	TimeBand       TimeOfDayBand
	OccupancyRatio decimal.Decimal
	Tariff         Tariff
	Dynamic        DynamicPricingConfig
}

// Calculator computes a rounded base price.
type Calculator interface {
	CalculateBasePrice(in BasePriceInput) (decimal.Decimal, error)
}
