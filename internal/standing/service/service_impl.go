package service

import (
	"context"
	"strings"

	"github.com/smallbiznis/parkwise/internal/config"
	"github.com/smallbiznis/parkwise/internal/observability/metrics"
	penaltydomain "github.com/smallbiznis/parkwise/internal/penalty/domain"
	standingdomain "github.com/smallbiznis/parkwise/internal/standing/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log       *zap.Logger
	Policy    config.PolicyProvider
	Evaluator standingdomain.Evaluator
	Penalties penaltydomain.HistoryStore
	Metrics   *metrics.Metrics `optional:"true"`
}

type Service struct {
	log       *zap.Logger
	policy    config.PolicyProvider
	evaluator standingdomain.Evaluator
	penalties penaltydomain.HistoryStore
	metrics   *metrics.Metrics
}

func New(p Params) standingdomain.Service {
	return &Service{
		log:       p.Log.Named("standing.service"),
		policy:    p.Policy,
		evaluator: p.Evaluator,
		penalties: p.Penalties,
		metrics:   p.Metrics,
	}
}

func (s *Service) Evaluate(ctx context.Context, req standingdomain.EvaluateRequest) (standingdomain.Decision, error) {
	limits := s.policy.Get().Standing
	if err := limits.Validate(); err != nil {
		return standingdomain.Decision{}, err
	}

	userID := strings.TrimSpace(req.UserID)
	counters := standingdomain.Counters{
		UnpaidSessionCount: req.UnpaidSessionCount,
		OutstandingBalance: req.OutstandingBalance,
	}
	switch {
	case req.PenaltyCount != nil:
		counters.PenaltyCount = *req.PenaltyCount
	case userID != "":
		history, err := s.penalties.Load(ctx, userID)
		if err != nil {
			return standingdomain.Decision{}, err
		}
		counters.PenaltyCount = int64(history.Len())
	default:
		return standingdomain.Decision{}, standingdomain.ErrMissingPenaltyCount
	}

	standing := s.evaluator.EvaluateStanding(counters, limits)
	status := s.evaluator.DeriveUserStatus(standing, req.ManualBlacklist)

	s.metrics.RecordStanding(ctx, string(standing))
	s.log.Debug("standing evaluated",
		zap.String("user_id", userID),
		zap.Int64("penalty_count", counters.PenaltyCount),
		zap.Int64("unpaid_sessions", counters.UnpaidSessionCount),
		zap.String("standing", string(standing)),
		zap.String("status", string(status)),
	)

	return standingdomain.Decision{
		UserID:   userID,
		Counters: counters,
		Standing: standing,
		Status:   status,
	}, nil
}
