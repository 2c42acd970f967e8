package domain

import "github.com/smallbiznis/parkwise/internal/errs"

var (
	ErrInvalidTaxRate   = errs.New(errs.ErrInvalidInput, "invalid_tax_rate")
	ErrInvalidNetAmount = errs.New(errs.ErrInvalidInput, "invalid_net_amount")
	ErrInvalidTaxMode   = errs.New(errs.ErrInvalidInput, "invalid_tax_mode")
)
