package service

import (
	"time"

	"github.com/smallbiznis/parkwise/internal/clock"
	penaltydomain "github.com/smallbiznis/parkwise/internal/penalty/domain"
)

type blacklistEvaluator struct {
	clock clock.Clock
}

func NewBlacklistEvaluator(clk clock.Clock) penaltydomain.BlacklistEvaluator {
	if clk == nil {
		clk = clock.System()
	}
	return &blacklistEvaluator{clock: clk}
}

// UpdatePenaltyHistoryAndCheckBlacklist appends penalty to history, then
// flags the user when more than maxAllowedPenalties fall inside the window
// ending now. The window is inclusive at both ends.
func (e *blacklistEvaluator) UpdatePenaltyHistoryAndCheckBlacklist(
	userID string,
	penalty penaltydomain.Penalty,
	history *penaltydomain.PenaltyHistory,
	maxAllowedPenalties int,
	window time.Duration,
) (penaltydomain.BlacklistStatus, error) {
	if userID == "" {
		return penaltydomain.BlacklistStatusNone, penaltydomain.ErrInvalidUserID
	}
	if history == nil {
		return penaltydomain.BlacklistStatusNone, penaltydomain.ErrMissingHistory
	}
	if history.UserID() != userID {
		return penaltydomain.BlacklistStatusNone, penaltydomain.ErrHistoryOwnerMismatch
	}
	if maxAllowedPenalties < 0 {
		return penaltydomain.BlacklistStatusNone, penaltydomain.ErrInvalidThreshold
	}
	if window <= 0 {
		return penaltydomain.BlacklistStatusNone, penaltydomain.ErrInvalidWindow
	}
	if err := penalty.Validate(); err != nil {
		return penaltydomain.BlacklistStatusNone, err
	}

	history.Append(penalty)

	now := e.clock.Now()
	if history.CountWithin(now.Add(-window), now) > maxAllowedPenalties {
		return penaltydomain.BlacklistStatusCandidate, nil
	}
	return penaltydomain.BlacklistStatusNone, nil
}
