package domain

import "github.com/smallbiznis/parkwise/internal/errs"

var (
	ErrExitBeforeEntry    = errs.New(errs.ErrInvalidInterval, "exit_before_entry")
	ErrInvalidMaxDuration = errs.New(errs.ErrInvalidConfig, "invalid_max_duration_hours")
	ErrMissingTimestamp   = errs.New(errs.ErrInvalidInput, "missing_timestamp")
)
