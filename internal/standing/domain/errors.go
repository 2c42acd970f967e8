package domain

import "github.com/smallbiznis/parkwise/internal/errs"

var (
	ErrInvalidLimits       = errs.New(errs.ErrInvalidConfig, "invalid_standing_limits")
	ErrMissingPenaltyCount = errs.New(errs.ErrInvalidInput, "missing_penalty_count")
)
