package service

import (
	"github.com/shopspring/decimal"
	penaltydomain "github.com/smallbiznis/parkwise/internal/penalty/domain"
	"github.com/smallbiznis/parkwise/pkg/money"
)

type calculator struct{}

func NewCalculator() penaltydomain.Calculator {
	return calculator{}
}

func (c calculator) CalculatePenalty(v penaltydomain.Violations, fees penaltydomain.FeeSchedule) (decimal.Decimal, error) {
	items, err := c.Itemize(v, fees)
	if err != nil {
		return money.Zero, err
	}
	return items.Total, nil
}

// Itemize prices each violation. The overstay part is capped by OverstayCap.
func (calculator) Itemize(v penaltydomain.Violations, fees penaltydomain.FeeSchedule) (penaltydomain.Itemized, error) {
	if err := fees.Validate(); err != nil {
		return penaltydomain.Itemized{}, err
	}
	if v.Overstayed && v.ExtraHours < 0 {
		return penaltydomain.Itemized{}, penaltydomain.ErrInvalidExtraHours
	}

	overstay, lost, misuse := money.Zero, money.Zero, money.Zero
	if v.Overstayed {
		overstay = money.Min(fees.OverstayRatePerHour.Mul(decimal.NewFromInt(v.ExtraHours)), *fees.OverstayCap)
	}
	if v.LostTicket {
		lost = *fees.LostTicketFee
	}
	if v.ZoneMisuse {
		misuse = *fees.ZoneMisuseFee
	}

	// Components are rounded for display only; the total rounds the raw sum once.
	return penaltydomain.Itemized{
		Overstay:   money.Round(overstay),
		LostTicket: money.Round(lost),
		Misuse:     money.Round(misuse),
		Total:      money.Round(money.ClampNonNegative(overstay.Add(lost).Add(misuse))),
	}, nil
}
