package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	billingdomain "github.com/smallbiznis/parkwise/internal/billing/domain"
	discountdomain "github.com/smallbiznis/parkwise/internal/discount/domain"
	pricingdomain "github.com/smallbiznis/parkwise/internal/pricing/domain"
	"github.com/smallbiznis/parkwise/pkg/money"
)

type discountRequest struct {
	SubscriptionDiscountPercent decimal.Decimal `json:"subscription_discount_percent"`
	PromoDiscountPercent        decimal.Decimal `json:"promo_discount_percent"`
	PromoDiscountFixed          decimal.Decimal `json:"promo_discount_fixed"`
	SubscriptionHasFreeHours    bool            `json:"subscription_has_free_hours"`
	FreeHoursPerDay             int64           `json:"free_hours_per_day"`
}

type violationFlagsRequest struct {
	LostTicket bool `json:"lost_ticket"`
	ZoneMisuse bool `json:"zone_misuse"`
}

type billRequest struct {
	SessionID      string                 `json:"session_id"`
	UserID         string                 `json:"user_id"`
	ZoneType       string                 `json:"zone_type"`
	EntryTime      time.Time              `json:"entry_time"`
	ExitTime       time.Time              `json:"exit_time"`
	OccupancyRatio decimal.Decimal        `json:"occupancy_ratio"`
	Discount       *discountRequest       `json:"discount"`
	Penalties      decimal.Decimal        `json:"penalties"`
	Violations     *violationFlagsRequest `json:"violations"`
	DayType        string                 `json:"day_type"`
	TimeBand       string                 `json:"time_band"`
	TaxRate        *decimal.Decimal       `json:"tax_rate"`
}

type billingResultResponse struct {
	BasePrice      string `json:"base_price"`
	DiscountsTotal string `json:"discounts_total"`
	PenaltiesTotal string `json:"penalties_total"`
	NetPrice       string `json:"net_price"`
	TaxAmount      string `json:"tax_amount"`
	FinalPrice     string `json:"final_price"`
}

type itemizedPenaltyResponse struct {
	Overstay   string `json:"overstay"`
	LostTicket string `json:"lost_ticket"`
	Misuse     string `json:"misuse"`
	Total      string `json:"total"`
}

type quoteResponse struct {
	SessionID         string                   `json:"session_id,omitempty"`
	UserID            string                   `json:"user_id,omitempty"`
	ZoneType          string                   `json:"zone_type"`
	EntryTime         time.Time                `json:"entry_time"`
	ExitTime          time.Time                `json:"exit_time"`
	DurationHours     int64                    `json:"duration_hours"`
	ExceededMax       bool                     `json:"exceeded_max"`
	OverstayHours     int64                    `json:"overstay_hours"`
	DayType           string                   `json:"day_type"`
	TimeBand          string                   `json:"time_band"`
	TaxRate           string                   `json:"tax_rate"`
	AssessedPenalties *itemizedPenaltyResponse `json:"assessed_penalties,omitempty"`
	Result            billingResultResponse    `json:"result"`
}

type billResponse struct {
	ID            string                `json:"id"`
	SessionID     string                `json:"session_id"`
	UserID        string                `json:"user_id,omitempty"`
	ZoneType      string                `json:"zone_type"`
	EntryTime     time.Time             `json:"entry_time"`
	ExitTime      time.Time             `json:"exit_time"`
	DurationHours int64                 `json:"duration_hours"`
	DayType       string                `json:"day_type"`
	TimeBand      string                `json:"time_band"`
	TaxRate       string                `json:"tax_rate"`
	Result        billingResultResponse `json:"result"`
	CreatedAt     time.Time             `json:"created_at"`
}

func (s *Server) QuoteBill(c *gin.Context) {
	req, err := bindBillRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	q, err := s.billingSvc.Quote(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": newQuoteResponse(q)})
}

func (s *Server) SettleBill(c *gin.Context) {
	req, err := bindBillRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	rec, err := s.billingSvc.Settle(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": newBillResponse(rec)})
}

func (s *Server) GetBill(c *gin.Context) {
	sessionID := strings.TrimSpace(c.Param("session_id"))
	rec, err := s.billingSvc.GetBySession(c.Request.Context(), sessionID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": newBillResponse(rec)})
}

func bindBillRequest(c *gin.Context) (billingdomain.QuoteRequest, error) {
	var req billRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return billingdomain.QuoteRequest{}, invalidRequestError()
	}
	if req.EntryTime.IsZero() {
		return billingdomain.QuoteRequest{}, newValidationError("entry_time", "required", "entry_time is required")
	}
	if req.ExitTime.IsZero() {
		return billingdomain.QuoteRequest{}, newValidationError("exit_time", "required", "exit_time is required")
	}

	out := billingdomain.QuoteRequest{
		SessionID:      strings.TrimSpace(req.SessionID),
		UserID:         strings.TrimSpace(req.UserID),
		ZoneType:       strings.TrimSpace(req.ZoneType),
		EntryTime:      req.EntryTime,
		ExitTime:       req.ExitTime,
		OccupancyRatio: req.OccupancyRatio,
		Penalties:      req.Penalties,
		DayType:        pricingdomain.DayType(strings.ToUpper(strings.TrimSpace(req.DayType))),
		TimeBand:       pricingdomain.TimeOfDayBand(strings.ToUpper(strings.TrimSpace(req.TimeBand))),
		TaxRate:        req.TaxRate,
	}

	if d := req.Discount; d != nil {
		info, err := discountdomain.NewDiscountInfo(
			d.SubscriptionDiscountPercent,
			d.PromoDiscountPercent,
			d.PromoDiscountFixed,
			d.SubscriptionHasFreeHours,
			d.FreeHoursPerDay,
		)
		if err != nil {
			return billingdomain.QuoteRequest{}, err
		}
		out.Discount = info
	}
	if v := req.Violations; v != nil {
		out.Violations = &billingdomain.ViolationFlags{
			LostTicket: v.LostTicket,
			ZoneMisuse: v.ZoneMisuse,
		}
	}
	return out, nil
}

func newBillingResultResponse(r billingdomain.BillingResult) billingResultResponse {
	return billingResultResponse{
		BasePrice:      money.String(r.BasePrice),
		DiscountsTotal: money.String(r.DiscountsTotal),
		PenaltiesTotal: money.String(r.PenaltiesTotal),
		NetPrice:       money.String(r.NetPrice),
		TaxAmount:      money.String(r.TaxAmount),
		FinalPrice:     money.String(r.FinalPrice),
	}
}

func newQuoteResponse(q billingdomain.Quote) quoteResponse {
	resp := quoteResponse{
		SessionID:     q.SessionID,
		UserID:        q.UserID,
		ZoneType:      q.ZoneType,
		EntryTime:     q.EntryTime,
		ExitTime:      q.ExitTime,
		DurationHours: q.DurationHours,
		ExceededMax:   q.ExceededMax,
		OverstayHours: q.OverstayHours,
		DayType:       string(q.DayType),
		TimeBand:      string(q.TimeBand),
		TaxRate:       q.TaxRate.String(),
		Result:        newBillingResultResponse(q.Result),
	}
	if q.Assessed != nil {
		items := newItemizedPenaltyResponse(*q.Assessed)
		resp.AssessedPenalties = &items
	}
	return resp
}

func newBillResponse(rec billingdomain.BillingRecord) billResponse {
	return billResponse{
		ID:            rec.ID.String(),
		SessionID:     rec.SessionID,
		UserID:        rec.UserID,
		ZoneType:      rec.ZoneType,
		EntryTime:     rec.EntryTime.UTC(),
		ExitTime:      rec.ExitTime.UTC(),
		DurationHours: rec.DurationHours,
		DayType:       rec.DayType,
		TimeBand:      rec.TimeBand,
		TaxRate:       rec.TaxRate.String(),
		Result:        newBillingResultResponse(rec.Result()),
		CreatedAt:     rec.CreatedAt.UTC(),
	}
}
