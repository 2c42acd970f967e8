// Package domain describes billable session duration.
package domain

import "time"

// DurationInfo is the billable length of one session.
type DurationInfo struct {
	// Hours is ceil(elapsed minutes / 60); zero only for a zero-minute session.
	Hours       int64
	ExceededMax bool
}

// Calculator converts an entry/exit pair into billable hours.
type Calculator interface {
	CalculateDuration(entryTime, exitTime time.Time, maxDurationHours int64) (DurationInfo, error)
}
