package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	discountdomain "github.com/smallbiznis/parkwise/internal/discount/domain"
	penaltydomain "github.com/smallbiznis/parkwise/internal/penalty/domain"
	pricingdomain "github.com/smallbiznis/parkwise/internal/pricing/domain"
)

// QuoteRequest describes a finished session. Classification, tax rate and
// tariff come from the active policy unless overridden here.
type QuoteRequest struct {
	SessionID      string
	UserID         string
	ZoneType       string
	EntryTime      time.Time
	ExitTime       time.Time
	OccupancyRatio decimal.Decimal
	Discount       discountdomain.DiscountInfo
	// Penalties is an already-assessed amount added to the bill.
	Penalties decimal.Decimal
	// Violations, when set, are priced with the configured fees and added
	// to Penalties. Overstay is derived from the session duration.
	Violations *ViolationFlags
	DayType    pricingdomain.DayType
	TimeBand   pricingdomain.TimeOfDayBand
	TaxRate    *decimal.Decimal
}

type ViolationFlags struct {
	LostTicket bool
	ZoneMisuse bool
}

// Quote is a priced session, not yet persisted.
type Quote struct {
	SessionID     string                      `json:"session_id,omitempty"`
	UserID        string                      `json:"user_id,omitempty"`
	ZoneType      string                      `json:"zone_type"`
	EntryTime     time.Time                   `json:"entry_time"`
	ExitTime      time.Time                   `json:"exit_time"`
	DurationHours int64                       `json:"duration_hours"`
	ExceededMax   bool                        `json:"exceeded_max"`
	OverstayHours int64                       `json:"overstay_hours"`
	DayType       pricingdomain.DayType       `json:"day_type"`
	TimeBand      pricingdomain.TimeOfDayBand `json:"time_band"`
	TaxRate       decimal.Decimal             `json:"tax_rate"`
	Assessed      *penaltydomain.Itemized     `json:"assessed_penalties,omitempty"`
	Result        BillingResult               `json:"result"`
}

type Service interface {
	Quote(ctx context.Context, req QuoteRequest) (Quote, error)
	// Settle prices the session and stores the bill once per SessionID.
	Settle(ctx context.Context, req QuoteRequest) (BillingRecord, error)
	GetBySession(ctx context.Context, sessionID string) (BillingRecord, error)
}
