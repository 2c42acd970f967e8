package service

import (
	"time"

	pricingdomain "github.com/smallbiznis/parkwise/internal/pricing/domain"
)

// ClassifyDay maps a session start to its day type. Holidays take
// precedence over weekends.
func ClassifyDay(t time.Time, cal pricingdomain.Calendar) pricingdomain.DayType {
	local := t.In(location(cal))
	if _, ok := cal.Holidays[local.Format("2006-01-02")]; ok {
		return pricingdomain.DayTypeHoliday
	}
	switch local.Weekday() {
	case time.Saturday, time.Sunday:
		return pricingdomain.DayTypeWeekend
	default:
		return pricingdomain.DayTypeWeekday
	}
}

// ClassifyBand maps a session start to PEAK when its local time of day
// falls inside any configured peak window.
func ClassifyBand(t time.Time, cal pricingdomain.Calendar) pricingdomain.TimeOfDayBand {
	local := t.In(location(cal))
	minute := local.Hour()*60 + local.Minute()
	for _, w := range cal.PeakWindows {
		if w.Contains(minute) {
			return pricingdomain.TimeBandPeak
		}
	}
	return pricingdomain.TimeBandOffPeak
}

func location(cal pricingdomain.Calendar) *time.Location {
	if cal.Location == nil {
		return time.UTC
	}
	return cal.Location
}
