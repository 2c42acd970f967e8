package service

import (
	"testing"

	"github.com/shopspring/decimal"
	standingdomain "github.com/smallbiznis/parkwise/internal/standing/domain"
	"github.com/smallbiznis/parkwise/pkg/money"
	"github.com/stretchr/testify/assert"
)

func TestEvaluateStanding_DecisionTable(t *testing.T) {
	limits := standingdomain.DefaultLimits(money.MustParse("500.00"))
	eval := NewEvaluator()

	tests := []struct {
		name     string
		counters standingdomain.Counters
		want     standingdomain.AccountStanding
	}{
		{"all zero", standingdomain.Counters{}, standingdomain.StandingGood},
		{"credit balance", standingdomain.Counters{OutstandingBalance: money.MustParse("-10")}, standingdomain.StandingGood},
		{"one penalty", standingdomain.Counters{PenaltyCount: 1}, standingdomain.StandingWarning},
		{"two penalties", standingdomain.Counters{PenaltyCount: 2}, standingdomain.StandingWarning},
		{"three penalties", standingdomain.Counters{PenaltyCount: 3}, standingdomain.StandingSuspended},
		{"one unpaid", standingdomain.Counters{UnpaidSessionCount: 1}, standingdomain.StandingWarning},
		{"two unpaid", standingdomain.Counters{UnpaidSessionCount: 2}, standingdomain.StandingSuspended},
		{"balance at limit", standingdomain.Counters{OutstandingBalance: money.MustParse("500.00")}, standingdomain.StandingWarning},
		{"balance over limit", standingdomain.Counters{OutstandingBalance: money.MustParse("500.01")}, standingdomain.StandingSuspended},
		{"small balance", standingdomain.Counters{OutstandingBalance: money.MustParse("0.01")}, standingdomain.StandingWarning},
		{"mixed below limits", standingdomain.Counters{PenaltyCount: 2, UnpaidSessionCount: 1, OutstandingBalance: decimal.NewFromInt(100)}, standingdomain.StandingWarning},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, eval.EvaluateStanding(tc.counters, limits))
		})
	}
}

func TestDeriveUserStatus(t *testing.T) {
	eval := NewEvaluator()

	assert.Equal(t, standingdomain.UserStatusBlacklisted, eval.DeriveUserStatus(standingdomain.StandingGood, true))
	assert.Equal(t, standingdomain.UserStatusBlacklisted, eval.DeriveUserStatus(standingdomain.StandingSuspended, true))
	assert.Equal(t, standingdomain.UserStatusInactive, eval.DeriveUserStatus(standingdomain.StandingSuspended, false))
	assert.Equal(t, standingdomain.UserStatusActive, eval.DeriveUserStatus(standingdomain.StandingWarning, false))
	assert.Equal(t, standingdomain.UserStatusActive, eval.DeriveUserStatus(standingdomain.StandingGood, false))
}

func TestLimitsValidate(t *testing.T) {
	assert.NoError(t, standingdomain.DefaultLimits(money.Zero).Validate())
	assert.ErrorIs(t, standingdomain.Limits{PenaltyLimit: 0, UnpaidLimit: 2}.Validate(), standingdomain.ErrInvalidLimits)
	assert.ErrorIs(t, standingdomain.DefaultLimits(money.MustParse("-1")).Validate(), standingdomain.ErrInvalidLimits)
}
