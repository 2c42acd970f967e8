package config

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/parkwise/internal/errs"
	penaltydomain "github.com/smallbiznis/parkwise/internal/penalty/domain"
	pricingdomain "github.com/smallbiznis/parkwise/internal/pricing/domain"
	standingdomain "github.com/smallbiznis/parkwise/internal/standing/domain"
	taxdomain "github.com/smallbiznis/parkwise/internal/tax/domain"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Policy is the validated pricing and enforcement configuration. It is
// passed explicitly into every calculation; nothing reads it globally.
type Policy struct {
	// MaxPriceCap is nil when no global ceiling is configured.
	MaxPriceCap      *decimal.Decimal
	DefaultTaxRate   decimal.Decimal
	TaxMode          taxdomain.TaxMode
	MaxDurationHours int64
	Calendar         pricingdomain.Calendar
	Dynamic          pricingdomain.DynamicPricingConfig
	Tariffs          map[string]pricingdomain.Tariff
	Penalty          penaltydomain.FeeSchedule
	Blacklist        penaltydomain.BlacklistPolicy
	Standing         standingdomain.Limits
}

// PolicyProvider returns the policy currently in force.
type PolicyProvider interface {
	Get() Policy
}

type rawTariff struct {
	ZoneType                 string `mapstructure:"zoneType"`
	BaseHourlyRate           string `mapstructure:"baseHourlyRate"`
	DailyCap                 string `mapstructure:"dailyCap"`
	OvernightFlatRateEnabled bool   `mapstructure:"overnightFlatRateEnabled"`
	OvernightFlatRate        string `mapstructure:"overnightFlatRate"`
	// Fraction in [0, 1]: "0.60" is +60%. Whole-percent values such as "60" are rejected.
	WeekendOrHolidaySurchargePercent string `mapstructure:"weekendOrHolidaySurchargePercent"`
}

type rawPolicy struct {
	MaxPriceCap      string   `mapstructure:"maxPriceCap"`
	DefaultTaxRate   string   `mapstructure:"defaultTaxRate"`
	TaxMode          string   `mapstructure:"taxMode"`
	MaxDurationHours int64    `mapstructure:"maxDurationHours"`
	Timezone         string   `mapstructure:"timezone"`
	PeakWindows      []string `mapstructure:"peakWindows"`
	Holidays         []string `mapstructure:"holidays"`

	DynamicPricing struct {
		PeakHourMultiplier      string `mapstructure:"peakHourMultiplier"`
		OffPeakMultiplier       string `mapstructure:"offPeakMultiplier"`
		HighOccupancyThreshold  string `mapstructure:"highOccupancyThreshold"`
		HighOccupancyMultiplier string `mapstructure:"highOccupancyMultiplier"`
	} `mapstructure:"dynamicPricing"`

	Tariffs []rawTariff `mapstructure:"tariffs"`

	Penalty struct {
		OverstayRatePerHour string `mapstructure:"overstayRatePerHour"`
		OverstayCap         string `mapstructure:"overstayCap"`
		LostTicketFee       string `mapstructure:"lostTicketFee"`
		ZoneMisuseFee       string `mapstructure:"zoneMisuseFee"`
	} `mapstructure:"penalty"`

	Blacklist struct {
		MaxAllowedPenalties int    `mapstructure:"maxAllowedPenalties"`
		Window              string `mapstructure:"window"`
	} `mapstructure:"blacklist"`

	Standing struct {
		MaxAllowedBalance string `mapstructure:"maxAllowedBalance"`
		PenaltyLimit      int64  `mapstructure:"penaltyLimit"`
		UnpaidLimit       int64  `mapstructure:"unpaidLimit"`
	} `mapstructure:"standing"`
}

func setPolicyDefaults(v *viper.Viper) {
	v.SetDefault("policy.maxPriceCap", "5000.00")
	v.SetDefault("policy.defaultTaxRate", "0.11")
	v.SetDefault("policy.taxMode", string(taxdomain.TaxModeExclusive))
	v.SetDefault("policy.maxDurationHours", 24)
	v.SetDefault("policy.timezone", "UTC")
	v.SetDefault("policy.peakWindows", []string{"07:00-10:00", "16:00-19:00"})
	v.SetDefault("policy.holidays", []string{})

	v.SetDefault("policy.dynamicPricing.peakHourMultiplier", "1.5")
	v.SetDefault("policy.dynamicPricing.offPeakMultiplier", "1.0")
	v.SetDefault("policy.dynamicPricing.highOccupancyThreshold", "0.85")
	v.SetDefault("policy.dynamicPricing.highOccupancyMultiplier", "1.25")

	v.SetDefault("policy.tariffs", []map[string]any{
		{
			"zoneType":                         "STANDARD",
			"baseHourlyRate":                   "200.00",
			"dailyCap":                         "1500.00",
			"weekendOrHolidaySurchargePercent": "0.25",
		},
		{
			"zoneType":                         "PREMIUM",
			"baseHourlyRate":                   "350.00",
			"dailyCap":                         "2500.00",
			"overnightFlatRateEnabled":         true,
			"overnightFlatRate":                "600.00",
			"weekendOrHolidaySurchargePercent": "0.60",
		},
		{
			"zoneType":       "EV",
			"baseHourlyRate": "250.00",
		},
	})

	v.SetDefault("policy.penalty.overstayRatePerHour", "10.00")
	v.SetDefault("policy.penalty.overstayCap", "50.00")
	v.SetDefault("policy.penalty.lostTicketFee", "100.00")
	v.SetDefault("policy.penalty.zoneMisuseFee", "75.00")

	v.SetDefault("policy.blacklist.maxAllowedPenalties", 3)
	v.SetDefault("policy.blacklist.window", "720h")

	v.SetDefault("policy.standing.maxAllowedBalance", "500.00")
	v.SetDefault("policy.standing.penaltyLimit", 3)
	v.SetDefault("policy.standing.unpaidLimit", 2)
}

// DefaultPolicy is the policy used when no policy.yml is present.
func DefaultPolicy() Policy {
	v := viper.New()
	setPolicyDefaults(v)
	p, err := decodePolicy(v)
	if err != nil {
		panic(fmt.Sprintf("default policy is invalid: %v", err))
	}
	return p
}

// PolicyHolder keeps the current Policy and swaps it on file changes.
type PolicyHolder struct {
	current atomic.Value // holds Policy
}

func NewPolicyHolder(cfg Config, log *zap.Logger) (*PolicyHolder, error) {
	log = log.Named("config.policy")
	v := viper.New()

	v.SetConfigName("policy")
	v.SetConfigType("yml")
	if cfg.PolicyPath != "" {
		v.AddConfigPath(cfg.PolicyPath)
	}
	v.AddConfigPath("/etc/parkwise")
	v.AddConfigPath(".")

	v.SetEnvPrefix("PARKWISE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setPolicyDefaults(v)

	fileFound := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		fileFound = false
		log.Info("policy file not found, using defaults")
	}

	policy, err := decodePolicy(v)
	if err != nil {
		return nil, err
	}

	holder := &PolicyHolder{}
	holder.current.Store(policy)

	if fileFound {
		v.WatchConfig()
		v.OnConfigChange(func(e fsnotify.Event) {
			updated, err := decodePolicy(v)
			if err != nil {
				log.Warn("invalid policy ignored", zap.String("file", e.Name), zap.Error(err))
				return
			}
			holder.current.Store(updated)
			log.Info("policy reloaded", zap.String("file", e.Name))
		})
	}

	return holder, nil
}

// NewStaticPolicy wraps a fixed policy, mainly for tests.
func NewStaticPolicy(p Policy) *PolicyHolder {
	h := &PolicyHolder{}
	h.current.Store(p)
	return h
}

func (h *PolicyHolder) Get() Policy {
	return h.current.Load().(Policy)
}

func decodePolicy(v *viper.Viper) (Policy, error) {
	// Unmarshal goes through AllSettings so a partial file keeps the
	// defaults of the keys it leaves out.
	var doc struct {
		Policy rawPolicy `mapstructure:"policy"`
	}
	if err := v.Unmarshal(&doc); err != nil {
		return Policy{}, fmt.Errorf("%w: decode policy: %v", errs.ErrInvalidConfig, err)
	}
	return buildPolicy(doc.Policy)
}

func buildPolicy(raw rawPolicy) (Policy, error) {
	p := Policy{
		TaxMode:          taxdomain.TaxMode(strings.ToLower(strings.TrimSpace(raw.TaxMode))),
		MaxDurationHours: raw.MaxDurationHours,
		Tariffs:          make(map[string]pricingdomain.Tariff, len(raw.Tariffs)),
	}

	var err error
	if p.MaxPriceCap, err = optionalDecimal("maxPriceCap", raw.MaxPriceCap); err != nil {
		return Policy{}, err
	}
	if p.MaxPriceCap != nil && p.MaxPriceCap.IsNegative() {
		return Policy{}, invalid("maxPriceCap", "must not be negative")
	}
	if p.DefaultTaxRate, err = requiredDecimal("defaultTaxRate", raw.DefaultTaxRate); err != nil {
		return Policy{}, err
	}
	if p.DefaultTaxRate.IsNegative() || p.DefaultTaxRate.GreaterThan(decimal.NewFromInt(1)) {
		return Policy{}, invalid("defaultTaxRate", "must be within [0, 1]")
	}
	if p.TaxMode != taxdomain.TaxModeExclusive && p.TaxMode != taxdomain.TaxModeInclusive {
		return Policy{}, invalid("taxMode", "must be exclusive or inclusive")
	}
	if p.MaxDurationHours <= 0 {
		return Policy{}, invalid("maxDurationHours", "must be positive")
	}

	if p.Calendar, err = pricingdomain.NewCalendar(raw.Timezone, raw.PeakWindows, raw.Holidays); err != nil {
		return Policy{}, fmt.Errorf("%w: policy.calendar: %w", errs.ErrInvalidConfig, err)
	}

	dyn := raw.DynamicPricing
	if p.Dynamic.PeakHourMultiplier, err = requiredDecimal("dynamicPricing.peakHourMultiplier", dyn.PeakHourMultiplier); err != nil {
		return Policy{}, err
	}
	if p.Dynamic.OffPeakMultiplier, err = requiredDecimal("dynamicPricing.offPeakMultiplier", dyn.OffPeakMultiplier); err != nil {
		return Policy{}, err
	}
	if p.Dynamic.HighOccupancyThreshold, err = requiredDecimal("dynamicPricing.highOccupancyThreshold", dyn.HighOccupancyThreshold); err != nil {
		return Policy{}, err
	}
	if p.Dynamic.HighOccupancyMultiplier, err = requiredDecimal("dynamicPricing.highOccupancyMultiplier", dyn.HighOccupancyMultiplier); err != nil {
		return Policy{}, err
	}
	if err := p.Dynamic.Validate(); err != nil {
		return Policy{}, err
	}

	if len(raw.Tariffs) == 0 {
		return Policy{}, invalid("tariffs", "at least one tariff is required")
	}
	for i, rt := range raw.Tariffs {
		t, err := buildTariff(i, rt)
		if err != nil {
			return Policy{}, err
		}
		if _, dup := p.Tariffs[t.ZoneType]; dup {
			return Policy{}, invalid(fmt.Sprintf("tariffs[%d].zoneType", i), "duplicate zone "+t.ZoneType)
		}
		p.Tariffs[t.ZoneType] = t
	}

	pen := raw.Penalty
	if p.Penalty.OverstayRatePerHour, err = optionalDecimal("penalty.overstayRatePerHour", pen.OverstayRatePerHour); err != nil {
		return Policy{}, err
	}
	if p.Penalty.OverstayCap, err = optionalDecimal("penalty.overstayCap", pen.OverstayCap); err != nil {
		return Policy{}, err
	}
	if p.Penalty.LostTicketFee, err = optionalDecimal("penalty.lostTicketFee", pen.LostTicketFee); err != nil {
		return Policy{}, err
	}
	if p.Penalty.ZoneMisuseFee, err = optionalDecimal("penalty.zoneMisuseFee", pen.ZoneMisuseFee); err != nil {
		return Policy{}, err
	}
	if err := p.Penalty.Validate(); err != nil {
		return Policy{}, err
	}

	window, err := time.ParseDuration(strings.TrimSpace(raw.Blacklist.Window))
	if err != nil || window <= 0 {
		return Policy{}, invalid("blacklist.window", "must be a positive duration")
	}
	if raw.Blacklist.MaxAllowedPenalties < 0 {
		return Policy{}, invalid("blacklist.maxAllowedPenalties", "must not be negative")
	}
	p.Blacklist = penaltydomain.BlacklistPolicy{
		MaxAllowedPenalties: raw.Blacklist.MaxAllowedPenalties,
		Window:              window,
	}

	balance, err := requiredDecimal("standing.maxAllowedBalance", raw.Standing.MaxAllowedBalance)
	if err != nil {
		return Policy{}, err
	}
	p.Standing = standingdomain.Limits{
		PenaltyLimit:      raw.Standing.PenaltyLimit,
		UnpaidLimit:       raw.Standing.UnpaidLimit,
		MaxAllowedBalance: balance,
	}
	if err := p.Standing.Validate(); err != nil {
		return Policy{}, err
	}

	return p, nil
}

func buildTariff(i int, rt rawTariff) (pricingdomain.Tariff, error) {
	field := func(name string) string { return fmt.Sprintf("tariffs[%d].%s", i, name) }

	zone := strings.ToUpper(strings.TrimSpace(rt.ZoneType))
	if zone == "" {
		return pricingdomain.Tariff{}, invalid(field("zoneType"), "is required")
	}

	t := pricingdomain.Tariff{
		ZoneType:                 zone,
		OvernightFlatRateEnabled: rt.OvernightFlatRateEnabled,
	}
	var err error
	if t.BaseHourlyRate, err = requiredDecimal(field("baseHourlyRate"), rt.BaseHourlyRate); err != nil {
		return pricingdomain.Tariff{}, err
	}
	if t.DailyCap, err = optionalDecimal(field("dailyCap"), rt.DailyCap); err != nil {
		return pricingdomain.Tariff{}, err
	}
	if t.OvernightFlatRate, err = optionalDecimal(field("overnightFlatRate"), rt.OvernightFlatRate); err != nil {
		return pricingdomain.Tariff{}, err
	}
	surcharge, err := optionalDecimal(field("weekendOrHolidaySurchargePercent"), rt.WeekendOrHolidaySurchargePercent)
	if err != nil {
		return pricingdomain.Tariff{}, err
	}
	if surcharge != nil {
		t.WeekendOrHolidaySurchargePercent = *surcharge
	}

	if err := t.Validate(); err != nil {
		return pricingdomain.Tariff{}, fmt.Errorf("%s: %w", field("zoneType="+zone), err)
	}
	return t, nil
}

func requiredDecimal(field, raw string) (decimal.Decimal, error) {
	d, err := optionalDecimal(field, raw)
	if err != nil {
		return decimal.Zero, err
	}
	if d == nil {
		return decimal.Zero, invalid(field, "is required")
	}
	return *d, nil
}

func optionalDecimal(field, raw string) (*decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, invalid(field, fmt.Sprintf("not a decimal: %q", raw))
	}
	return &d, nil
}

func invalid(field, msg string) error {
	return fmt.Errorf("%w: policy.%s %s", errs.ErrInvalidConfig, field, msg)
}
