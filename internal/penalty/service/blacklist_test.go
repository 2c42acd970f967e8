package service

import (
	"testing"
	"time"

	"github.com/smallbiznis/parkwise/internal/clock"
	"github.com/smallbiznis/parkwise/internal/errs"
	penaltydomain "github.com/smallbiznis/parkwise/internal/penalty/domain"
	"github.com/smallbiznis/parkwise/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const window = 30 * 24 * time.Hour

var now = time.Date(2026, 6, 30, 12, 0, 0, 0, time.UTC)

func penaltyAt(ts time.Time) penaltydomain.Penalty {
	p, err := penaltydomain.NewPenalty(penaltydomain.PenaltyTypeOverstay, money.MustParse("10"), ts)
	if err != nil {
		panic(err)
	}
	return p
}

func TestBlacklist_StrictlyGreaterThanThreshold(t *testing.T) {
	evaluator := NewBlacklistEvaluator(clock.NewFakeClock(now))
	history := penaltydomain.NewPenaltyHistory("user-1")

	for i := 1; i <= 3; i++ {
		status, err := evaluator.UpdatePenaltyHistoryAndCheckBlacklist("user-1", penaltyAt(now.Add(-time.Duration(i)*time.Hour)), history, 3, window)
		require.NoError(t, err)
		assert.Equal(t, penaltydomain.BlacklistStatusNone, status, "penalty #%d", i)
	}

	status, err := evaluator.UpdatePenaltyHistoryAndCheckBlacklist("user-1", penaltyAt(now), history, 3, window)
	require.NoError(t, err)
	assert.Equal(t, penaltydomain.BlacklistStatusCandidate, status)
	assert.Equal(t, 4, history.Len())
}

func TestBlacklist_OldPenaltiesFallOutOfWindow(t *testing.T) {
	evaluator := NewBlacklistEvaluator(clock.NewFakeClock(now))
	history := penaltydomain.NewPenaltyHistory("user-1",
		penaltyAt(now.Add(-window-time.Second)),
		penaltyAt(now.Add(-window-time.Hour)),
		penaltyAt(now.Add(-window)),
		penaltyAt(now.Add(-time.Hour)),
	)

	// Two of four existing entries are inside the window, plus the new one.
	status, err := evaluator.UpdatePenaltyHistoryAndCheckBlacklist("user-1", penaltyAt(now), history, 3, window)
	require.NoError(t, err)
	assert.Equal(t, penaltydomain.BlacklistStatusNone, status)
	assert.Equal(t, 5, history.Len())
	assert.Equal(t, "50", history.Total().String())
}

func TestBlacklist_WindowSlidesWithClock(t *testing.T) {
	clk := clock.NewFakeClock(now)
	evaluator := NewBlacklistEvaluator(clk)
	history := penaltydomain.NewPenaltyHistory("user-1")

	for i := 0; i < 4; i++ {
		_, err := evaluator.UpdatePenaltyHistoryAndCheckBlacklist("user-1", penaltyAt(clk.Now()), history, 3, window)
		require.NoError(t, err)
		clk.Advance(time.Hour)
	}

	clk.Advance(window)
	status, err := evaluator.UpdatePenaltyHistoryAndCheckBlacklist("user-1", penaltyAt(clk.Now()), history, 3, window)
	require.NoError(t, err)
	assert.Equal(t, penaltydomain.BlacklistStatusNone, status)
}

func TestBlacklist_ZeroThresholdFlagsFirstPenalty(t *testing.T) {
	evaluator := NewBlacklistEvaluator(clock.NewFakeClock(now))
	history := penaltydomain.NewPenaltyHistory("user-1")

	status, err := evaluator.UpdatePenaltyHistoryAndCheckBlacklist("user-1", penaltyAt(now), history, 0, window)
	require.NoError(t, err)
	assert.Equal(t, penaltydomain.BlacklistStatusCandidate, status)
}

func TestBlacklist_InvalidInputLeavesHistoryUntouched(t *testing.T) {
	evaluator := NewBlacklistEvaluator(clock.NewFakeClock(now))
	history := penaltydomain.NewPenaltyHistory("user-1")

	tests := []struct {
		name    string
		userID  string
		penalty penaltydomain.Penalty
		history *penaltydomain.PenaltyHistory
		max     int
		window  time.Duration
		want    error
	}{
		{"empty user", "", penaltyAt(now), history, 3, window, penaltydomain.ErrInvalidUserID},
		{"nil history", "user-1", penaltyAt(now), nil, 3, window, penaltydomain.ErrMissingHistory},
		{"foreign history", "user-2", penaltyAt(now), history, 3, window, penaltydomain.ErrHistoryOwnerMismatch},
		{"negative threshold", "user-1", penaltyAt(now), history, -1, window, penaltydomain.ErrInvalidThreshold},
		{"zero window", "user-1", penaltyAt(now), history, 3, 0, penaltydomain.ErrInvalidWindow},
		{"bad penalty", "user-1", penaltydomain.Penalty{Type: "PARKING", Timestamp: now}, history, 3, window, penaltydomain.ErrInvalidPenaltyType},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := evaluator.UpdatePenaltyHistoryAndCheckBlacklist(tc.userID, tc.penalty, tc.history, tc.max, tc.window)
			assert.ErrorIs(t, err, tc.want)
			assert.ErrorIs(t, err, errs.ErrInvalidInput)
		})
	}
	assert.Equal(t, 0, history.Len())
}

func TestNewPenalty_Validation(t *testing.T) {
	_, err := penaltydomain.NewPenalty(penaltydomain.PenaltyTypeMisuse, money.MustParse("-1"), now)
	assert.ErrorIs(t, err, penaltydomain.ErrInvalidPenaltyAmount)

	_, err = penaltydomain.NewPenalty(penaltydomain.PenaltyTypeMisuse, money.MustParse("1"), time.Time{})
	assert.ErrorIs(t, err, penaltydomain.ErrInvalidPenaltyTimestamp)
}
