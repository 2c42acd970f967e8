package domain

import (
	"errors"

	"github.com/smallbiznis/parkwise/internal/errs"
)

var (
	ErrInvalidExtraHours       = errs.New(errs.ErrInvalidInput, "invalid_extra_hours")
	ErrInvalidPenaltyType      = errs.New(errs.ErrInvalidInput, "invalid_penalty_type")
	ErrInvalidPenaltyAmount    = errs.New(errs.ErrInvalidInput, "invalid_penalty_amount")
	ErrInvalidPenaltyTimestamp = errs.New(errs.ErrInvalidInput, "invalid_penalty_timestamp")
	ErrInvalidUserID           = errs.New(errs.ErrInvalidInput, "invalid_user_id")
	ErrMissingHistory          = errs.New(errs.ErrInvalidInput, "missing_penalty_history")
	ErrHistoryOwnerMismatch    = errs.New(errs.ErrInvalidInput, "penalty_history_owner_mismatch")
	ErrInvalidThreshold        = errs.New(errs.ErrInvalidInput, "invalid_max_allowed_penalties")
	ErrInvalidWindow           = errs.New(errs.ErrInvalidInput, "invalid_blacklist_window")

	ErrMissingFee  = errs.New(errs.ErrInvalidConfig, "missing_penalty_fee")
	ErrNegativeFee = errs.New(errs.ErrInvalidConfig, "negative_penalty_fee")
)

var ErrLockUnavailable = errors.New("penalty_history_busy")
