package domain

import (
	"errors"

	"github.com/smallbiznis/parkwise/internal/errs"
)

var (
	ErrNegativeAmount     = errs.New(errs.ErrInvalidInput, "negative_billing_amount")
	ErrInconsistentResult = errs.New(errs.ErrInvalidInput, "inconsistent_billing_result")
	ErrMissingSessionID   = errs.New(errs.ErrInvalidInput, "missing_session_id")
	ErrMissingZoneType    = errs.New(errs.ErrInvalidInput, "missing_zone_type")

	ErrBillNotFound     = errors.New("bill_not_found")
	ErrDuplicateSession = errors.New("duplicate_session_bill")
)
