package domain

import "github.com/smallbiznis/parkwise/internal/errs"

var (
	ErrInvalidDuration  = errs.New(errs.ErrInvalidInput, "invalid_duration_hours")
	ErrInvalidOccupancy = errs.New(errs.ErrInvalidInput, "invalid_occupancy_ratio")
	ErrInvalidDayType   = errs.New(errs.ErrInvalidInput, "invalid_day_type")
	ErrInvalidTimeBand  = errs.New(errs.ErrInvalidInput, "invalid_time_band")

	ErrInvalidHourlyRate         = errs.New(errs.ErrInvalidConfig, "invalid_base_hourly_rate")
	ErrInvalidDailyCap           = errs.New(errs.ErrInvalidConfig, "invalid_daily_cap")
	ErrInvalidOvernightRate      = errs.New(errs.ErrInvalidConfig, "invalid_overnight_flat_rate")
	ErrInvalidSurcharge          = errs.New(errs.ErrInvalidConfig, "invalid_surcharge_percent")
	ErrInvalidMultiplier         = errs.New(errs.ErrInvalidConfig, "invalid_multiplier")
	ErrInvalidOccupancyThreshold = errs.New(errs.ErrInvalidConfig, "invalid_occupancy_threshold")
	ErrInvalidPeakWindow         = errs.New(errs.ErrInvalidConfig, "invalid_peak_window")
	ErrInvalidHoliday            = errs.New(errs.ErrInvalidConfig, "invalid_holiday")
)
