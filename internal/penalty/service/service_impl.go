package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/smallbiznis/parkwise/internal/clock"
	"github.com/smallbiznis/parkwise/internal/config"
	"github.com/smallbiznis/parkwise/internal/lock"
	"github.com/smallbiznis/parkwise/internal/observability/metrics"
	penaltydomain "github.com/smallbiznis/parkwise/internal/penalty/domain"
	"github.com/smallbiznis/parkwise/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	Policy     config.PolicyProvider
	Clock      clock.Clock
	Locker     lock.Locker
	Store      penaltydomain.HistoryStore
	Repo       penaltydomain.Repository
	Calculator penaltydomain.Calculator
	Evaluator  penaltydomain.BlacklistEvaluator
	Metrics    *metrics.Metrics `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	policy     config.PolicyProvider
	clock      clock.Clock
	locker     lock.Locker
	store      penaltydomain.HistoryStore
	repo       penaltydomain.Repository
	calculator penaltydomain.Calculator
	evaluator  penaltydomain.BlacklistEvaluator
	metrics    *metrics.Metrics
}

func New(p Params) penaltydomain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("penalty.service"),
		policy:     p.Policy,
		clock:      p.Clock,
		locker:     p.Locker,
		store:      p.Store,
		repo:       p.Repo,
		calculator: p.Calculator,
		evaluator:  p.Evaluator,
		metrics:    p.Metrics,
	}
}

func (s *Service) Assess(ctx context.Context, v penaltydomain.Violations) (penaltydomain.Itemized, error) {
	items, err := s.calculator.Itemize(v, s.policy.Get().Penalty)
	if err != nil {
		return penaltydomain.Itemized{}, err
	}
	s.log.Debug("penalty assessed",
		zap.Bool("overstayed", v.Overstayed),
		zap.Int64("extra_hours", v.ExtraHours),
		zap.Bool("lost_ticket", v.LostTicket),
		zap.Bool("zone_misuse", v.ZoneMisuse),
		zap.String("total", items.Total.StringFixed(2)),
	)
	return items, nil
}

// Record serializes on the user, so two concurrent submissions for the
// same user both land in the history and both see each other.
func (s *Service) Record(ctx context.Context, userID string, p penaltydomain.Penalty) (penaltydomain.RecordResult, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return penaltydomain.RecordResult{}, penaltydomain.ErrInvalidUserID
	}
	if err := p.Validate(); err != nil {
		return penaltydomain.RecordResult{}, err
	}
	p.Timestamp = p.Timestamp.UTC()

	release, err := s.locker.Acquire(ctx, "penalty:"+userID)
	if err != nil {
		if errors.Is(err, lock.ErrNotAcquired) {
			return penaltydomain.RecordResult{}, fmt.Errorf("%w: %v", penaltydomain.ErrLockUnavailable, err)
		}
		return penaltydomain.RecordResult{}, err
	}
	defer release()

	history, err := s.store.Load(ctx, userID)
	if err != nil {
		return penaltydomain.RecordResult{}, err
	}

	policy := s.policy.Get().Blacklist
	status, err := s.evaluator.UpdatePenaltyHistoryAndCheckBlacklist(userID, p, history, policy.MaxAllowedPenalties, policy.Window)
	if err != nil {
		return penaltydomain.RecordResult{}, err
	}

	if err := s.store.Append(ctx, userID, p); err != nil {
		return penaltydomain.RecordResult{}, err
	}

	now := s.clock.Now()
	result := penaltydomain.RecordResult{
		UserID:      userID,
		Penalty:     p,
		Status:      status,
		WindowCount: history.CountWithin(now.Add(-policy.Window), now),
	}

	s.metrics.RecordPenalty(ctx, string(p.Type))
	s.metrics.RecordBlacklistDecision(ctx, string(status))

	log := s.log.With(
		zap.String("user_id", userID),
		zap.String("penalty_type", string(p.Type)),
		zap.Int("window_count", result.WindowCount),
	)
	if status == penaltydomain.BlacklistStatusCandidate {
		log.Warn("user flagged as blacklist candidate", zap.Int("max_allowed", policy.MaxAllowedPenalties))
	} else {
		log.Debug("penalty recorded")
	}

	return result, nil
}

func (s *Service) History(ctx context.Context, userID string) (penaltydomain.HistorySummary, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return penaltydomain.HistorySummary{}, penaltydomain.ErrInvalidUserID
	}
	history, err := s.store.Load(ctx, userID)
	if err != nil {
		return penaltydomain.HistorySummary{}, err
	}
	return penaltydomain.HistorySummary{
		UserID: userID,
		Count:  history.Len(),
		Total:  history.Total(),
	}, nil
}

func (s *Service) ListPenalties(ctx context.Context, userID string, page pagination.Pagination) (penaltydomain.PenaltyPage, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return penaltydomain.PenaltyPage{}, penaltydomain.ErrInvalidUserID
	}
	after, err := pagination.DecodeCursor(page.PageToken)
	if err != nil {
		return penaltydomain.PenaltyPage{}, err
	}

	limit := page.Limit()
	records, err := s.repo.ListPage(ctx, s.db, userID, after, limit)
	if err != nil {
		return penaltydomain.PenaltyPage{}, err
	}

	kept, info, err := pagination.Page(records, limit, func(r penaltydomain.PenaltyRecord) pagination.Cursor {
		return pagination.Cursor{ID: r.ID.String(), OccurredAt: r.OccurredAt}
	})
	if err != nil {
		return penaltydomain.PenaltyPage{}, err
	}

	items := make([]penaltydomain.Penalty, 0, len(kept))
	for _, rec := range kept {
		items = append(items, rec.Penalty())
	}
	return penaltydomain.PenaltyPage{Items: items, PageInfo: info}, nil
}
