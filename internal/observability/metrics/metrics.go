package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics exposes the pricing and enforcement instruments. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	billsComputed       metric.Int64Counter
	billAmount          metric.Float64Histogram
	penaltiesAssessed   metric.Int64Counter
	blacklistDecisions  metric.Int64Counter
	standingEvaluations metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				log.Info("shutting down meter provider")
				return provider.Shutdown(ctx)
			},
		})
	}

	log.Info("metrics initialized",
		zap.String("endpoint", cfg.ExporterEndpoint),
		zap.String("protocol", cfg.ExporterProtocol),
	)

	return provider, nil
}

// New creates the domain instruments on provider.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "parkwise"
	}
	meter := provider.Meter(name)

	billsComputed, err := meter.Int64Counter("parkwise_bills_computed_total",
		metric.WithDescription("Bills computed by zone type and outcome."))
	if err != nil {
		return nil, err
	}
	billAmount, err := meter.Float64Histogram("parkwise_bill_final_amount",
		metric.WithDescription("Final amount of successfully computed bills."),
		metric.WithExplicitBucketBoundaries(10, 50, 100, 500, 1000, 5000))
	if err != nil {
		return nil, err
	}
	penaltiesAssessed, err := meter.Int64Counter("parkwise_penalties_recorded_total",
		metric.WithDescription("Penalties recorded by penalty type."))
	if err != nil {
		return nil, err
	}
	blacklistDecisions, err := meter.Int64Counter("parkwise_blacklist_decisions_total",
		metric.WithDescription("Blacklist evaluations by resulting status."))
	if err != nil {
		return nil, err
	}
	standingEvaluations, err := meter.Int64Counter("parkwise_standing_evaluations_total",
		metric.WithDescription("Account standing evaluations by result."))
	if err != nil {
		return nil, err
	}

	return &Metrics{
		billsComputed:       billsComputed,
		billAmount:          billAmount,
		penaltiesAssessed:   penaltiesAssessed,
		blacklistDecisions:  blacklistDecisions,
		standingEvaluations: standingEvaluations,
	}, nil
}

// RecordBill counts a bill computation; amount is only observed on success.
func (m *Metrics) RecordBill(ctx context.Context, zoneType, outcome string, amount float64) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("zone_type", strings.TrimSpace(zoneType)),
		attribute.String("outcome", outcome),
	)
	m.billsComputed.Add(ctx, 1, metric.WithAttributes(attrs...))
	if outcome == OutcomeSuccess {
		m.billAmount.Record(ctx, amount, metric.WithAttributes(FilterAttributes(
			attribute.String("zone_type", strings.TrimSpace(zoneType)),
		)...))
	}
}

func (m *Metrics) RecordPenalty(ctx context.Context, penaltyType string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("penalty_type", strings.TrimSpace(penaltyType)))
	m.penaltiesAssessed.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func (m *Metrics) RecordBlacklistDecision(ctx context.Context, status string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("status", strings.TrimSpace(status)))
	m.blacklistDecisions.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func (m *Metrics) RecordStanding(ctx context.Context, standing string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("standing", strings.TrimSpace(standing)))
	m.standingEvaluations.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{otlpmetrichttp.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

// User ids never become labels.
var allowedLabelKeys = map[attribute.Key]struct{}{
	"zone_type":    {},
	"outcome":      {},
	"penalty_type": {},
	"status":       {},
	"standing":     {},
	"method":       {},
	"route":        {},
	"status_code":  {},
}

// FilterAttributes strips disallowed labels to keep metrics low-cardinality.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
