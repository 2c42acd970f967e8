package domain

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/parkwise/pkg/db/pagination"
)

// Service is the penalty use-case layer on top of the pure calculators.
type Service interface {
	// Assess prices violations with the configured fee schedule.
	Assess(ctx context.Context, v Violations) (Itemized, error)
	// Record appends a penalty to the user's history and reports whether
	// the user is now a blacklist candidate.
	Record(ctx context.Context, userID string, p Penalty) (RecordResult, error)
	History(ctx context.Context, userID string) (HistorySummary, error)
	ListPenalties(ctx context.Context, userID string, page pagination.Pagination) (PenaltyPage, error)
}

type RecordResult struct {
	UserID      string          `json:"user_id"`
	Penalty     Penalty         `json:"penalty"`
	Status      BlacklistStatus `json:"status"`
	WindowCount int             `json:"window_count"`
}

type HistorySummary struct {
	UserID string          `json:"user_id"`
	Count  int             `json:"count"`
	Total  decimal.Decimal `json:"total"`
}

type PenaltyPage struct {
	Items    []Penalty           `json:"items"`
	PageInfo pagination.PageInfo `json:"page_info"`
}
