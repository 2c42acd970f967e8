// Package domain holds the billing result of a parking session and the
// persisted billing record.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
	discountdomain "github.com/smallbiznis/parkwise/internal/discount/domain"
	durationdomain "github.com/smallbiznis/parkwise/internal/duration/domain"
	pricingdomain "github.com/smallbiznis/parkwise/internal/pricing/domain"
	taxdomain "github.com/smallbiznis/parkwise/internal/tax/domain"
	"github.com/smallbiznis/parkwise/pkg/money"
)

// BillingResult is the immutable outcome of billing one session. Every
// amount is rounded to 2 places and FinalPrice = NetPrice + TaxAmount.
type BillingResult struct {
	BasePrice      decimal.Decimal `json:"base_price"`
	DiscountsTotal decimal.Decimal `json:"discounts_total"`
	PenaltiesTotal decimal.Decimal `json:"penalties_total"`
	NetPrice       decimal.Decimal `json:"net_price"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	FinalPrice     decimal.Decimal `json:"final_price"`
}

// NewBillingResult rounds every component and derives FinalPrice.
func NewBillingResult(base, discounts, penalties, net, tax decimal.Decimal) (BillingResult, error) {
	r := BillingResult{
		BasePrice:      money.Round(base),
		DiscountsTotal: money.Round(discounts),
		PenaltiesTotal: money.Round(penalties),
		NetPrice:       money.Round(net),
		TaxAmount:      money.Round(tax),
	}
	r.FinalPrice = r.NetPrice.Add(r.TaxAmount)
	if err := r.Validate(); err != nil {
		return BillingResult{}, err
	}
	return r, nil
}

func (r BillingResult) Validate() error {
	for _, v := range []decimal.Decimal{r.BasePrice, r.DiscountsTotal, r.PenaltiesTotal, r.NetPrice, r.TaxAmount, r.FinalPrice} {
		if v.IsNegative() {
			return ErrNegativeAmount
		}
	}
	if !r.FinalPrice.Equal(r.NetPrice.Add(r.TaxAmount)) {
		return ErrInconsistentResult
	}
	if r.NetPrice.GreaterThan(r.BasePrice.Add(r.PenaltiesTotal)) {
		return ErrInconsistentResult
	}
	return nil
}

// BillRequest is everything one bill depends on. MaxPriceCap nil means no
// global ceiling.
type BillRequest struct {
	EntryTime        time.Time
	ExitTime         time.Time
	ZoneType         string
	DayType          pricingdomain.DayType
	TimeBand         pricingdomain.TimeOfDayBand
	OccupancyRatio   decimal.Decimal
	Tariff           pricingdomain.Tariff
	Dynamic          pricingdomain.DynamicPricingConfig
	Discount         discountdomain.DiscountInfo
	Penalties        decimal.Decimal
	MaxDurationHours int64
	TaxRate          decimal.Decimal
	TaxMode          taxdomain.TaxMode
	MaxPriceCap      *decimal.Decimal
}

// Breakdown is a BillingResult together with the duration it was priced on.
type Breakdown struct {
	Duration durationdomain.DurationInfo
	Result   BillingResult
}

// Orchestrator sequences duration, base price, discounts and tax.
type Orchestrator interface {
	CalculateBill(req BillRequest) (BillingResult, error)
	Compute(req BillRequest) (Breakdown, error)
}
