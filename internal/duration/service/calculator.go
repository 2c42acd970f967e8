package service

import (
	"time"

	durationdomain "github.com/smallbiznis/parkwise/internal/duration/domain"
)

const minutesPerHour = 60

type calculator struct{}

func NewCalculator() durationdomain.Calculator {
	return calculator{}
}

func (calculator) CalculateDuration(entryTime, exitTime time.Time, maxDurationHours int64) (durationdomain.DurationInfo, error) {
	if entryTime.IsZero() || exitTime.IsZero() {
		return durationdomain.DurationInfo{}, durationdomain.ErrMissingTimestamp
	}
	if maxDurationHours <= 0 {
		return durationdomain.DurationInfo{}, durationdomain.ErrInvalidMaxDuration
	}
	if exitTime.Before(entryTime) {
		return durationdomain.DurationInfo{}, durationdomain.ErrExitBeforeEntry
	}

	minutes := int64(exitTime.Sub(entryTime) / time.Minute)
	if minutes == 0 {
		return durationdomain.DurationInfo{}, nil
	}

	hours := (minutes + minutesPerHour - 1) / minutesPerHour
	return durationdomain.DurationInfo{
		Hours:       hours,
		ExceededMax: hours > maxDurationHours,
	}, nil
}

// OverstayHours is the number of billable hours past the allowed maximum.
func OverstayHours(info durationdomain.DurationInfo, maxDurationHours int64) int64 {
	if !info.ExceededMax || info.Hours <= maxDurationHours {
		return 0
	}
	return info.Hours - maxDurationHours
}
