package service

import (
	"github.com/shopspring/decimal"
	billingdomain "github.com/smallbiznis/parkwise/internal/billing/domain"
	discountdomain "github.com/smallbiznis/parkwise/internal/discount/domain"
	durationdomain "github.com/smallbiznis/parkwise/internal/duration/domain"
	pricingdomain "github.com/smallbiznis/parkwise/internal/pricing/domain"
	taxdomain "github.com/smallbiznis/parkwise/internal/tax/domain"
	taxservice "github.com/smallbiznis/parkwise/internal/tax/service"
	"github.com/smallbiznis/parkwise/pkg/money"
	"go.uber.org/fx"
)

type OrchestratorParams struct {
	fx.In

	Duration durationdomain.Calculator
	Pricing  pricingdomain.Calculator
	Discount discountdomain.Calculator
	Tax      taxdomain.Calculator
}

type orchestrator struct {
	duration durationdomain.Calculator
	pricing  pricingdomain.Calculator
	discount discountdomain.Calculator
	tax      taxdomain.Calculator
}

func NewOrchestrator(p OrchestratorParams) billingdomain.Orchestrator {
	return &orchestrator{
		duration: p.Duration,
		pricing:  p.Pricing,
		discount: p.Discount,
		tax:      p.Tax,
	}
}

func (o *orchestrator) CalculateBill(req billingdomain.BillRequest) (billingdomain.BillingResult, error) {
	b, err := o.Compute(req)
	if err != nil {
		return billingdomain.BillingResult{}, err
	}
	return b.Result, nil
}

// Compute runs duration, base price, discounts and tax in that order and
// stops at the first failing step.
func (o *orchestrator) Compute(req billingdomain.BillRequest) (billingdomain.Breakdown, error) {
	info, err := o.duration.CalculateDuration(req.EntryTime, req.ExitTime, req.MaxDurationHours)
	if err != nil {
		return billingdomain.Breakdown{}, err
	}

	base, err := o.pricing.CalculateBasePrice(pricingdomain.BasePriceInput{
		DurationHours:  info.Hours,
		DayType:        req.DayType,
		TimeBand:       req.TimeBand,
		OccupancyRatio: req.OccupancyRatio,
		Tariff:         req.Tariff,
		Dynamic:        req.Dynamic,
	})
	if err != nil {
		return billingdomain.Breakdown{}, err
	}

	if req.Penalties.IsNegative() {
		return billingdomain.Breakdown{}, discountdomain.ErrInvalidPenalties
	}
	penalties := money.Round(req.Penalties)
	charged, err := o.discount.ApplyDiscountAndCaps(discountdomain.NetPriceInput{
		BasePrice:   base,
		Penalties:   penalties,
		Discount:    req.Discount,
		MaxPriceCap: req.MaxPriceCap,
	})
	if err != nil {
		return billingdomain.Breakdown{}, err
	}

	// Measured against the charged amount so inclusive tax is not counted as a discount.
	discounts := money.ClampNonNegative(base.Add(penalties).Sub(charged))

	net, tax, err := o.splitTax(req.TaxMode, charged, req.TaxRate)
	if err != nil {
		return billingdomain.Breakdown{}, err
	}

	result, err := billingdomain.NewBillingResult(base, discounts, penalties, net, tax)
	if err != nil {
		return billingdomain.Breakdown{}, err
	}
	return billingdomain.Breakdown{Duration: info, Result: result}, nil
}

// splitTax adds tax on top of the charged amount, or carves it out when
// the tariff prices are tax inclusive.
func (o *orchestrator) splitTax(mode taxdomain.TaxMode, charged, rate decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	tax, err := taxservice.ComputeTax(o.tax, mode, charged, rate)
	if err != nil {
		return money.Zero, money.Zero, err
	}
	if mode == taxdomain.TaxModeInclusive {
		return charged.Sub(tax), tax, nil
	}
	return charged, tax, nil
}
