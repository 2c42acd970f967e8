package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/parkwise/internal/errs"
	penaltydomain "github.com/smallbiznis/parkwise/internal/penalty/domain"
	"github.com/smallbiznis/parkwise/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decPtr(s string) *decimal.Decimal {
	d := money.MustParse(s)
	return &d
}

func fees() penaltydomain.FeeSchedule {
	return penaltydomain.FeeSchedule{
		OverstayRatePerHour: decPtr("10.00"),
		OverstayCap:         decPtr("50.00"),
		LostTicketFee:       decPtr("100.00"),
		ZoneMisuseFee:       decPtr("75.50"),
	}
}

func TestCalculatePenalty_OverstayIsCapped(t *testing.T) {
	amount, err := NewCalculator().CalculatePenalty(penaltydomain.Violations{Overstayed: true, ExtraHours: 10}, fees())
	require.NoError(t, err)
	assert.Equal(t, "50.00", money.String(amount))
}

func TestCalculatePenalty_OverstayBelowCap(t *testing.T) {
	calc := NewCalculator()
	for hours, want := range map[int64]string{0: "0.00", 1: "10.00", 4: "40.00", 5: "50.00", 6: "50.00"} {
		amount, err := calc.CalculatePenalty(penaltydomain.Violations{Overstayed: true, ExtraHours: hours}, fees())
		require.NoError(t, err)
		assert.Equal(t, want, money.String(amount), "hours=%d", hours)
		assert.True(t, amount.LessThanOrEqual(*fees().OverstayCap))
	}
}

func TestCalculatePenalty_ExtraHoursIgnoredWithoutOverstay(t *testing.T) {
	amount, err := NewCalculator().CalculatePenalty(penaltydomain.Violations{ExtraHours: -5}, fees())
	require.NoError(t, err)
	assert.True(t, amount.IsZero())
}

func TestItemize_AllViolations(t *testing.T) {
	items, err := NewCalculator().Itemize(penaltydomain.Violations{
		Overstayed: true,
		ExtraHours: 2,
		LostTicket: true,
		ZoneMisuse: true,
	}, fees())
	require.NoError(t, err)
	assert.Equal(t, "20.00", money.String(items.Overstay))
	assert.Equal(t, "100.00", money.String(items.LostTicket))
	assert.Equal(t, "75.50", money.String(items.Misuse))
	assert.Equal(t, "195.50", money.String(items.Total))

	ts := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	penalties := items.Penalties(ts)
	require.Len(t, penalties, 3)
	assert.Equal(t, penaltydomain.PenaltyTypeOverstay, penalties[0].Type)
	assert.Equal(t, penaltydomain.PenaltyTypeLostTicket, penalties[1].Type)
	assert.Equal(t, penaltydomain.PenaltyTypeMisuse, penalties[2].Type)
	assert.Equal(t, ts, penalties[2].Timestamp)
}

func TestItemize_ZeroComponentsProduceNoPenalties(t *testing.T) {
	items, err := NewCalculator().Itemize(penaltydomain.Violations{LostTicket: true}, fees())
	require.NoError(t, err)
	assert.Len(t, items.Penalties(time.Now()), 1)
}

func TestCalculatePenalty_Failures(t *testing.T) {
	calc := NewCalculator()

	_, err := calc.CalculatePenalty(penaltydomain.Violations{Overstayed: true, ExtraHours: -1}, fees())
	assert.ErrorIs(t, err, penaltydomain.ErrInvalidExtraHours)
	assert.ErrorIs(t, err, errs.ErrInvalidInput)

	missing := fees()
	missing.LostTicketFee = nil
	_, err = calc.CalculatePenalty(penaltydomain.Violations{}, missing)
	assert.ErrorIs(t, err, penaltydomain.ErrMissingFee)
	assert.ErrorIs(t, err, errs.ErrInvalidConfig)

	negative := fees()
	negative.OverstayCap = decPtr("-1")
	_, err = calc.CalculatePenalty(penaltydomain.Violations{}, negative)
	assert.ErrorIs(t, err, penaltydomain.ErrNegativeFee)
}

func TestCalculatePenalty_RoundsTotalOnce(t *testing.T) {
	subCent := penaltydomain.FeeSchedule{
		OverstayRatePerHour: decPtr("0.125"),
		OverstayCap:         decPtr("50.00"),
		LostTicketFee:       decPtr("0.125"),
		ZoneMisuseFee:       decPtr("0"),
	}
	v := penaltydomain.Violations{Overstayed: true, ExtraHours: 1, LostTicket: true}

	amount, err := NewCalculator().CalculatePenalty(v, subCent)
	require.NoError(t, err)
	assert.Equal(t, "0.25", money.String(amount))

	items, err := NewCalculator().Itemize(v, subCent)
	require.NoError(t, err)
	assert.Equal(t, "0.13", money.String(items.Overstay))
	assert.Equal(t, "0.13", money.String(items.LostTicket))
	assert.Equal(t, "0.25", money.String(items.Total))
}
