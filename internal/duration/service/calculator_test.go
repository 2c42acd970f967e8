package service

import (
	"errors"
	"testing"
	"time"

	durationdomain "github.com/smallbiznis/parkwise/internal/duration/domain"
	"github.com/smallbiznis/parkwise/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var entry = time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

func TestCalculateDuration_Boundaries(t *testing.T) {
	calc := NewCalculator()

	tests := []struct {
		name     string
		elapsed  time.Duration
		max      int64
		hours    int64
		exceeded bool
	}{
		{"zero elapsed", 0, 4, 0, false},
		{"sub-minute truncates to zero", 30 * time.Second, 4, 0, false},
		{"one minute rounds up", time.Minute, 4, 1, false},
		{"exactly one hour", time.Hour, 4, 1, false},
		{"one hour one minute", 61 * time.Minute, 4, 2, false},
		{"59 minutes", 59 * time.Minute, 4, 1, false},
		{"at max", 4 * time.Hour, 4, 4, false},
		{"one minute past max", 4*time.Hour + time.Minute, 4, 5, true},
		{"multi day", 49 * time.Hour, 24, 49, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			info, err := calc.CalculateDuration(entry, entry.Add(tc.elapsed), tc.max)
			require.NoError(t, err)
			assert.Equal(t, tc.hours, info.Hours)
			assert.Equal(t, tc.exceeded, info.ExceededMax)
		})
	}
}

func TestCalculateDuration_Failures(t *testing.T) {
	calc := NewCalculator()

	_, err := calc.CalculateDuration(entry, entry.Add(-time.Minute), 4)
	assert.True(t, errors.Is(err, errs.ErrInvalidInterval))
	assert.True(t, errors.Is(err, durationdomain.ErrExitBeforeEntry))

	_, err = calc.CalculateDuration(entry, entry.Add(time.Hour), 0)
	assert.True(t, errors.Is(err, errs.ErrInvalidConfig))

	_, err = calc.CalculateDuration(entry, entry.Add(time.Hour), -3)
	assert.True(t, errors.Is(err, durationdomain.ErrInvalidMaxDuration))

	_, err = calc.CalculateDuration(time.Time{}, entry, 4)
	assert.True(t, errors.Is(err, errs.ErrInvalidInput))
}

func TestOverstayHours(t *testing.T) {
	assert.Equal(t, int64(0), OverstayHours(durationdomain.DurationInfo{Hours: 3}, 4))
	assert.Equal(t, int64(0), OverstayHours(durationdomain.DurationInfo{Hours: 4}, 4))
	assert.Equal(t, int64(2), OverstayHours(durationdomain.DurationInfo{Hours: 6, ExceededMax: true}, 4))
}
