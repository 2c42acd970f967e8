package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	billingdomain "github.com/smallbiznis/parkwise/internal/billing/domain"
	"github.com/smallbiznis/parkwise/internal/billing/repository"
	"github.com/smallbiznis/parkwise/internal/clock"
	"github.com/smallbiznis/parkwise/internal/config"
	"github.com/smallbiznis/parkwise/internal/errs"
	penaltyservice "github.com/smallbiznis/parkwise/internal/penalty/service"
	pricingdomain "github.com/smallbiznis/parkwise/internal/pricing/domain"
	tariffdomain "github.com/smallbiznis/parkwise/internal/tariff/domain"
	tariffservice "github.com/smallbiznis/parkwise/internal/tariff/service"
	"github.com/smallbiznis/parkwise/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var settledAt = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&billingdomain.BillingRecord{}))
	return db
}

func newTestService(t *testing.T) billingdomain.Service {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	policy := config.NewStaticPolicy(config.DefaultPolicy())
	return New(Params{
		DB:           newTestDB(t),
		Log:          zap.NewNop(),
		GenID:        node,
		Clock:        clock.NewFakeClock(settledAt),
		Policy:       policy,
		Tariffs:      tariffservice.NewCatalog(policy),
		Orchestrator: newTestOrchestrator(),
		Penalties:    penaltyservice.NewCalculator(),
		Repo:         repository.Provide(),
	})
}

func quoteRequest(entry time.Time, d time.Duration) billingdomain.QuoteRequest {
	return billingdomain.QuoteRequest{
		SessionID:      "sess-1",
		UserID:         "user-1",
		ZoneType:       "standard",
		EntryTime:      entry,
		ExitTime:       entry.Add(d),
		OccupancyRatio: money.MustParse("0.5"),
	}
}

func TestQuote_ClassifiesWeekdayPeak(t *testing.T) {
	svc := newTestService(t)

	// Wednesday 08:00 falls in the morning peak window
	q, err := svc.Quote(context.Background(), quoteRequest(time.Date(2026, 3, 4, 8, 0, 0, 0, time.UTC), 2*time.Hour))
	require.NoError(t, err)

	assert.Equal(t, "STANDARD", q.ZoneType)
	assert.Equal(t, pricingdomain.DayTypeWeekday, q.DayType)
	assert.Equal(t, pricingdomain.TimeBandPeak, q.TimeBand)
	assert.Equal(t, int64(2), q.DurationHours)
	assert.Equal(t, "600.00", money.String(q.Result.BasePrice))
	assert.Equal(t, "66.00", money.String(q.Result.TaxAmount))
	assert.Equal(t, "666.00", money.String(q.Result.FinalPrice))
	assert.Nil(t, q.Assessed)
}

func TestQuote_ClassifiesWeekendOffPeak(t *testing.T) {
	svc := newTestService(t)

	q, err := svc.Quote(context.Background(), quoteRequest(time.Date(2026, 3, 7, 12, 0, 0, 0, time.UTC), 2*time.Hour))
	require.NoError(t, err)

	assert.Equal(t, pricingdomain.DayTypeWeekend, q.DayType)
	assert.Equal(t, pricingdomain.TimeBandOffPeak, q.TimeBand)
	// 400 with the 25% weekend surcharge
	assert.Equal(t, "500.00", money.String(q.Result.BasePrice))
	assert.Equal(t, "555.00", money.String(q.Result.FinalPrice))
}

func TestQuote_ExplicitOverrides(t *testing.T) {
	svc := newTestService(t)

	req := quoteRequest(time.Date(2026, 3, 4, 8, 0, 0, 0, time.UTC), time.Hour)
	req.DayType = pricingdomain.DayTypeHoliday
	req.TimeBand = pricingdomain.TimeBandOffPeak
	rate := money.MustParse("0")
	req.TaxRate = &rate

	q, err := svc.Quote(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, pricingdomain.DayTypeHoliday, q.DayType)
	assert.Equal(t, "250.00", money.String(q.Result.BasePrice))
	assert.Equal(t, "0.00", money.String(q.Result.TaxAmount))
	assert.Equal(t, "250.00", money.String(q.Result.FinalPrice))
}

func TestQuote_PricesViolations(t *testing.T) {
	svc := newTestService(t)

	req := quoteRequest(time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC), 26*time.Hour)
	req.Violations = &billingdomain.ViolationFlags{LostTicket: true}

	q, err := svc.Quote(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, q.ExceededMax)
	assert.Equal(t, int64(2), q.OverstayHours)
	require.NotNil(t, q.Assessed)
	assert.Equal(t, "20.00", money.String(q.Assessed.Overstay))
	assert.Equal(t, "100.00", money.String(q.Assessed.LostTicket))

	// 26h off-peak is capped at two days of 1500
	assert.Equal(t, "3000.00", money.String(q.Result.BasePrice))
	assert.Equal(t, "120.00", money.String(q.Result.PenaltiesTotal))
	assert.Equal(t, "3120.00", money.String(q.Result.NetPrice))
	assert.Equal(t, "3463.20", money.String(q.Result.FinalPrice))
}

func TestQuote_Rejections(t *testing.T) {
	svc := newTestService(t)
	entry := time.Date(2026, 3, 4, 8, 0, 0, 0, time.UTC)

	req := quoteRequest(entry, time.Hour)
	req.ZoneType = "   "
	_, err := svc.Quote(context.Background(), req)
	assert.ErrorIs(t, err, billingdomain.ErrMissingZoneType)

	req = quoteRequest(entry, time.Hour)
	req.ZoneType = "ROOFTOP"
	_, err = svc.Quote(context.Background(), req)
	assert.ErrorIs(t, err, tariffdomain.ErrTariffNotFound)

	req = quoteRequest(entry, -time.Hour)
	_, err = svc.Quote(context.Background(), req)
	assert.ErrorIs(t, err, errs.ErrInvalidInterval)
}

func TestSettle_IsIdempotentPerSession(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	entry := time.Date(2026, 3, 4, 8, 0, 0, 0, time.UTC)

	first, err := svc.Settle(ctx, quoteRequest(entry, 2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "sess-1", first.SessionID)
	assert.Equal(t, "666.00", money.String(first.FinalPrice))
	assert.True(t, first.CreatedAt.Equal(settledAt))

	// a retry with different inputs still returns the stored bill
	second, err := svc.Settle(ctx, quoteRequest(entry, 5*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "666.00", money.String(second.FinalPrice))

	got, err := svc.GetBySession(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, first.Result().FinalPrice.String(), got.Result().FinalPrice.String())
}

func TestSettle_RequiresSessionID(t *testing.T) {
	svc := newTestService(t)

	req := quoteRequest(time.Date(2026, 3, 4, 8, 0, 0, 0, time.UTC), time.Hour)
	req.SessionID = ""
	_, err := svc.Settle(context.Background(), req)
	assert.ErrorIs(t, err, billingdomain.ErrMissingSessionID)
	assert.True(t, errs.IsValidation(err))
}

func TestSettle_DoesNotStoreRejectedQuote(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	req := quoteRequest(time.Date(2026, 3, 4, 8, 0, 0, 0, time.UTC), time.Hour)
	req.OccupancyRatio = money.MustParse("2")
	_, err := svc.Settle(ctx, req)
	require.Error(t, err)

	_, err = svc.GetBySession(ctx, "sess-1")
	assert.ErrorIs(t, err, billingdomain.ErrBillNotFound)
}
