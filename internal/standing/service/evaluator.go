package service

import (
	standingdomain "github.com/smallbiznis/parkwise/internal/standing/domain"
)

type evaluator struct{}

func NewEvaluator() standingdomain.Evaluator {
	return evaluator{}
}

// EvaluateStanding applies the decision table. Negative counters and a
// credit balance count as zero.
func (evaluator) EvaluateStanding(c standingdomain.Counters, l standingdomain.Limits) standingdomain.AccountStanding {
	penalties := max(c.PenaltyCount, 0)
	unpaid := max(c.UnpaidSessionCount, 0)
	owesNothing := !c.OutstandingBalance.IsPositive()

	if penalties == 0 && unpaid == 0 && owesNothing {
		return standingdomain.StandingGood
	}
	if penalties >= l.PenaltyLimit ||
		unpaid >= l.UnpaidLimit ||
		c.OutstandingBalance.GreaterThan(l.MaxAllowedBalance) {
		return standingdomain.StandingSuspended
	}
	return standingdomain.StandingWarning
}

func (evaluator) DeriveUserStatus(standing standingdomain.AccountStanding, manualBlacklist bool) standingdomain.UserStatus {
	switch {
	case manualBlacklist:
		return standingdomain.UserStatusBlacklisted
	case standing == standingdomain.StandingSuspended:
		return standingdomain.UserStatusInactive
	default:
		return standingdomain.UserStatusActive
	}
}
