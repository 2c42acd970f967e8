package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PenaltyHistory is the append-only penalty log of one user. It is not
// safe for concurrent writers; callers serialize appends per user.
type PenaltyHistory struct {
	userID  string
	entries []Penalty
}

// NewPenaltyHistory seeds a history with previously recorded penalties,
// which must already be in chronological order.
func NewPenaltyHistory(userID string, existing ...Penalty) *PenaltyHistory {
	entries := make([]Penalty, len(existing))
	copy(entries, existing)
	return &PenaltyHistory{userID: userID, entries: entries}
}

func (h *PenaltyHistory) UserID() string { return h.userID }

func (h *PenaltyHistory) Len() int { return len(h.entries) }

// Append adds p to the end of the log.
func (h *PenaltyHistory) Append(p Penalty) {
	h.entries = append(h.entries, p)
}

// Entries returns a copy of the log.
func (h *PenaltyHistory) Entries() []Penalty {
	out := make([]Penalty, len(h.entries))
	copy(out, h.entries)
	return out
}

// Total sums every penalty ever recorded.
func (h *PenaltyHistory) Total() decimal.Decimal {
	total := decimal.Zero
	for _, p := range h.entries {
		total = total.Add(p.Amount)
	}
	return total
}

// CountWithin counts penalties with from <= timestamp <= to.
func (h *PenaltyHistory) CountWithin(from, to time.Time) int {
	n := 0
	for _, p := range h.entries {
		if p.Timestamp.Before(from) || p.Timestamp.After(to) {
			continue
		}
		n++
	}
	return n
}
