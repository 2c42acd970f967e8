package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// EvaluateRequest carries the counters of one account. When PenaltyCount
// is nil the recorded penalty history of UserID is counted instead.
type EvaluateRequest struct {
	UserID             string
	PenaltyCount       *int64
	UnpaidSessionCount int64
	OutstandingBalance decimal.Decimal
	ManualBlacklist    bool
}

type Decision struct {
	UserID   string          `json:"user_id,omitempty"`
	Counters Counters        `json:"counters"`
	Standing AccountStanding `json:"standing"`
	Status   UserStatus      `json:"status"`
}

type Service interface {
	Evaluate(ctx context.Context, req EvaluateRequest) (Decision, error)
}
