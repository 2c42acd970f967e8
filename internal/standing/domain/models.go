// Package domain holds the account-standing decision table types.
package domain

import "github.com/shopspring/decimal"

// AccountStanding is recomputed from counters on every evaluation.
type AccountStanding string

const (
	StandingGood      AccountStanding = "GOOD_STANDING"
	StandingWarning   AccountStanding = "WARNING"
	StandingSuspended AccountStanding = "SUSPENDED"
)

// UserStatus is the account status shown to the rest of the system.
type UserStatus string

const (
	UserStatusActive      UserStatus = "ACTIVE"
	UserStatusInactive    UserStatus = "INACTIVE"
	UserStatusBlacklisted UserStatus = "BLACKLISTED"
)

// Counters are the aggregates a standing is derived from.
type Counters struct {
	PenaltyCount       int64           `json:"penalty_count"`
	UnpaidSessionCount int64           `json:"unpaid_session_count"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
}

// Limits are the suspension thresholds.
type Limits struct {
	PenaltyLimit      int64
	UnpaidLimit       int64
	MaxAllowedBalance decimal.Decimal
}

// DefaultLimits suspends at 3 penalties or 2 unpaid sessions.
func DefaultLimits(maxAllowedBalance decimal.Decimal) Limits {
	return Limits{
		PenaltyLimit:      3,
		UnpaidLimit:       2,
		MaxAllowedBalance: maxAllowedBalance,
	}
}

func (l Limits) Validate() error {
	if l.PenaltyLimit <= 0 || l.UnpaidLimit <= 0 || l.MaxAllowedBalance.IsNegative() {
		return ErrInvalidLimits
	}
	return nil
}

// Evaluator is a total function over counters; it never fails.
type Evaluator interface {
	EvaluateStanding(c Counters, l Limits) AccountStanding
	DeriveUserStatus(standing AccountStanding, manualBlacklist bool) UserStatus
}
