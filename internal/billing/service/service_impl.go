package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	billingdomain "github.com/smallbiznis/parkwise/internal/billing/domain"
	"github.com/smallbiznis/parkwise/internal/clock"
	"github.com/smallbiznis/parkwise/internal/config"
	durationservice "github.com/smallbiznis/parkwise/internal/duration/service"
	"github.com/smallbiznis/parkwise/internal/observability/metrics"
	penaltydomain "github.com/smallbiznis/parkwise/internal/penalty/domain"
	pricingservice "github.com/smallbiznis/parkwise/internal/pricing/service"
	tariffdomain "github.com/smallbiznis/parkwise/internal/tariff/domain"
	"github.com/smallbiznis/parkwise/pkg/money"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Clock        clock.Clock
	Policy       config.PolicyProvider
	Tariffs      tariffdomain.Catalog
	Orchestrator billingdomain.Orchestrator
	Penalties    penaltydomain.Calculator
	Repo         billingdomain.Repository
	Metrics      *metrics.Metrics `optional:"true"`
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	clock        clock.Clock
	policy       config.PolicyProvider
	tariffs      tariffdomain.Catalog
	orchestrator billingdomain.Orchestrator
	penalties    penaltydomain.Calculator
	repo         billingdomain.Repository
	metrics      *metrics.Metrics
}

func New(p Params) billingdomain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("billing.service"),
		genID:        p.GenID,
		clock:        p.Clock,
		policy:       p.Policy,
		tariffs:      p.Tariffs,
		orchestrator: p.Orchestrator,
		penalties:    p.Penalties,
		repo:         p.Repo,
		metrics:      p.Metrics,
	}
}

func (s *Service) Quote(ctx context.Context, req billingdomain.QuoteRequest) (billingdomain.Quote, error) {
	q, err := s.quote(req)
	if err != nil {
		s.metrics.RecordBill(ctx, s.zoneLabel(req.ZoneType), metrics.OutcomeFailure, 0)
		s.log.Debug("quote rejected",
			zap.String("zone_type", req.ZoneType),
			zap.Error(err),
		)
		return billingdomain.Quote{}, err
	}

	s.metrics.RecordBill(ctx, q.ZoneType, metrics.OutcomeSuccess, q.Result.FinalPrice.InexactFloat64())
	s.log.Debug("quote computed",
		zap.String("session_id", q.SessionID),
		zap.String("zone_type", q.ZoneType),
		zap.Int64("duration_hours", q.DurationHours),
		zap.String("day_type", string(q.DayType)),
		zap.String("time_band", string(q.TimeBand)),
		zap.String("final_price", money.String(q.Result.FinalPrice)),
	)
	return q, nil
}

// zoneLabel keeps unknown zone names out of metric labels.
func (s *Service) zoneLabel(zoneType string) string {
	t, err := s.tariffs.Get(zoneType)
	if err != nil {
		return "unknown"
	}
	return t.ZoneType
}

func (s *Service) quote(req billingdomain.QuoteRequest) (billingdomain.Quote, error) {
	zone := strings.ToUpper(strings.TrimSpace(req.ZoneType))
	if zone == "" {
		return billingdomain.Quote{}, billingdomain.ErrMissingZoneType
	}
	tariff, err := s.tariffs.Get(zone)
	if err != nil {
		return billingdomain.Quote{}, err
	}

	policy := s.policy.Get()

	dayType := req.DayType
	if dayType == "" {
		dayType = pricingservice.ClassifyDay(req.EntryTime, policy.Calendar)
	}
	band := req.TimeBand
	if band == "" {
		band = pricingservice.ClassifyBand(req.EntryTime, policy.Calendar)
	}
	taxRate := policy.DefaultTaxRate
	if req.TaxRate != nil {
		taxRate = *req.TaxRate
	}

	billReq := billingdomain.BillRequest{
		EntryTime:        req.EntryTime,
		ExitTime:         req.ExitTime,
		ZoneType:         zone,
		DayType:          dayType,
		TimeBand:         band,
		OccupancyRatio:   req.OccupancyRatio,
		Tariff:           tariff,
		Dynamic:          policy.Dynamic,
		Discount:         req.Discount,
		Penalties:        req.Penalties,
		MaxDurationHours: policy.MaxDurationHours,
		TaxRate:          taxRate,
		TaxMode:          policy.TaxMode,
		MaxPriceCap:      policy.MaxPriceCap,
	}

	breakdown, err := s.orchestrator.Compute(billReq)
	if err != nil {
		return billingdomain.Quote{}, err
	}
	overstay := durationservice.OverstayHours(breakdown.Duration, policy.MaxDurationHours)

	var assessed *penaltydomain.Itemized
	if req.Violations != nil {
		items, err := s.penalties.Itemize(penaltydomain.Violations{
			Overstayed: breakdown.Duration.ExceededMax,
			ExtraHours: overstay,
			LostTicket: req.Violations.LostTicket,
			ZoneMisuse: req.Violations.ZoneMisuse,
		}, policy.Penalty)
		if err != nil {
			return billingdomain.Quote{}, err
		}
		assessed = &items

		// reprice with the assessed penalties on top of the explicit ones
		if items.Total.IsPositive() {
			billReq.Penalties = req.Penalties.Add(items.Total)
			breakdown, err = s.orchestrator.Compute(billReq)
			if err != nil {
				return billingdomain.Quote{}, err
			}
		}
	}

	return billingdomain.Quote{
		SessionID:     strings.TrimSpace(req.SessionID),
		UserID:        strings.TrimSpace(req.UserID),
		ZoneType:      zone,
		EntryTime:     req.EntryTime.UTC(),
		ExitTime:      req.ExitTime.UTC(),
		DurationHours: breakdown.Duration.Hours,
		ExceededMax:   breakdown.Duration.ExceededMax,
		OverstayHours: overstay,
		DayType:       dayType,
		TimeBand:      band,
		TaxRate:       taxRate,
		Assessed:      assessed,
		Result:        breakdown.Result,
	}, nil
}

func (s *Service) Settle(ctx context.Context, req billingdomain.QuoteRequest) (billingdomain.BillingRecord, error) {
	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		return billingdomain.BillingRecord{}, billingdomain.ErrMissingSessionID
	}

	existing, err := s.repo.FindBySessionID(ctx, s.db, sessionID)
	if err != nil {
		return billingdomain.BillingRecord{}, err
	}
	if existing != nil {
		return *existing, nil
	}

	q, err := s.Quote(ctx, req)
	if err != nil {
		return billingdomain.BillingRecord{}, err
	}

	rec := billingdomain.BillingRecord{
		ID:             s.genID.Generate(),
		SessionID:      sessionID,
		UserID:         q.UserID,
		ZoneType:       q.ZoneType,
		EntryTime:      q.EntryTime,
		ExitTime:       q.ExitTime,
		DurationHours:  q.DurationHours,
		DayType:        string(q.DayType),
		TimeBand:       string(q.TimeBand),
		TaxRate:        q.TaxRate,
		BasePrice:      q.Result.BasePrice,
		DiscountsTotal: q.Result.DiscountsTotal,
		PenaltiesTotal: q.Result.PenaltiesTotal,
		NetPrice:       q.Result.NetPrice,
		TaxAmount:      q.Result.TaxAmount,
		FinalPrice:     q.Result.FinalPrice,
		CreatedAt:      s.clock.Now(),
	}

	if err := s.repo.Insert(ctx, s.db, &rec); err != nil {
		if !errors.Is(err, billingdomain.ErrDuplicateSession) {
			return billingdomain.BillingRecord{}, err
		}
		// lost a race with a concurrent settle of the same session
		winner, findErr := s.repo.FindBySessionID(ctx, s.db, sessionID)
		if findErr != nil {
			return billingdomain.BillingRecord{}, findErr
		}
		if winner == nil {
			return billingdomain.BillingRecord{}, err
		}
		return *winner, nil
	}

	s.log.Info("bill settled",
		zap.String("session_id", sessionID),
		zap.String("bill_id", rec.ID.String()),
		zap.String("final_price", money.String(rec.FinalPrice)),
	)
	return rec, nil
}

func (s *Service) GetBySession(ctx context.Context, sessionID string) (billingdomain.BillingRecord, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return billingdomain.BillingRecord{}, billingdomain.ErrMissingSessionID
	}
	rec, err := s.repo.FindBySessionID(ctx, s.db, sessionID)
	if err != nil {
		return billingdomain.BillingRecord{}, err
	}
	if rec == nil {
		return billingdomain.BillingRecord{}, billingdomain.ErrBillNotFound
	}
	return *rec, nil
}
