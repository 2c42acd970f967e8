// Package domain defines penalties, per-user penalty history, and the
// blacklist escalation outcome.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PenaltyType is the rule a penalty was charged for.
type PenaltyType string

const (
	PenaltyTypeOverstay   PenaltyType = "OVERSTAY"
	PenaltyTypeLostTicket PenaltyType = "LOST_TICKET"
	PenaltyTypeMisuse     PenaltyType = "MISUSE"
)

func (t PenaltyType) Valid() bool {
	switch t {
	case PenaltyTypeOverstay, PenaltyTypeLostTicket, PenaltyTypeMisuse:
		return true
	}
	return false
}

// Penalty is an immutable charge for one violation.
type Penalty struct {
	Type      PenaltyType     `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	Timestamp time.Time       `json:"timestamp"`
}

func NewPenalty(typ PenaltyType, amount decimal.Decimal, ts time.Time) (Penalty, error) {
	p := Penalty{Type: typ, Amount: amount, Timestamp: ts.UTC()}
	if err := p.Validate(); err != nil {
		return Penalty{}, err
	}
	return p, nil
}

func (p Penalty) Validate() error {
	if !p.Type.Valid() {
		return ErrInvalidPenaltyType
	}
	if p.Amount.IsNegative() {
		return ErrInvalidPenaltyAmount
	}
	if p.Timestamp.IsZero() {
		return ErrInvalidPenaltyTimestamp
	}
	return nil
}

// BlacklistStatus is the escalation outcome of a penalty submission.
type BlacklistStatus string

const (
	BlacklistStatusNone      BlacklistStatus = "NONE"
	BlacklistStatusCandidate BlacklistStatus = "CANDIDATE_FOR_BLACKLISTING"
)

// FeeSchedule holds the penalty fees and caps. Every field is required;
// nil means the deployment did not configure it.
type FeeSchedule struct {
	OverstayRatePerHour *decimal.Decimal
	OverstayCap         *decimal.Decimal
	LostTicketFee       *decimal.Decimal
	ZoneMisuseFee       *decimal.Decimal
}

func (f FeeSchedule) Validate() error {
	for _, v := range []*decimal.Decimal{f.OverstayRatePerHour, f.OverstayCap, f.LostTicketFee, f.ZoneMisuseFee} {
		if v == nil {
			return ErrMissingFee
		}
		if v.IsNegative() {
			return ErrNegativeFee
		}
	}
	return nil
}

// Violations are the flags raised for one session.
type Violations struct {
	Overstayed bool
	ExtraHours int64
	LostTicket bool
	ZoneMisuse bool
}

// Itemized is a penalty split per violation. Components are rounded
// individually; Total is the rounded sum of the unrounded components.
type Itemized struct {
	Overstay   decimal.Decimal
	LostTicket decimal.Decimal
	Misuse     decimal.Decimal
	Total      decimal.Decimal
}

// Penalties converts the non-zero components into penalties stamped at ts.
func (i Itemized) Penalties(ts time.Time) []Penalty {
	out := make([]Penalty, 0, 3)
	add := func(t PenaltyType, amount decimal.Decimal) {
		if amount.IsPositive() {
			out = append(out, Penalty{Type: t, Amount: amount, Timestamp: ts.UTC()})
		}
	}
	add(PenaltyTypeOverstay, i.Overstay)
	add(PenaltyTypeLostTicket, i.LostTicket)
	add(PenaltyTypeMisuse, i.Misuse)
	return out
}

// BlacklistPolicy configures windowed escalation.
type BlacklistPolicy struct {
	MaxAllowedPenalties int
	Window              time.Duration
}

// Calculator prices violations.
type Calculator interface {
	CalculatePenalty(v Violations, fees FeeSchedule) (decimal.Decimal, error)
	Itemize(v Violations, fees FeeSchedule) (Itemized, error)
}

// BlacklistEvaluator appends to a history and decides escalation.
type BlacklistEvaluator interface {
	UpdatePenaltyHistoryAndCheckBlacklist(userID string, penalty Penalty, history *PenaltyHistory, maxAllowedPenalties int, window time.Duration) (BlacklistStatus, error)
}
