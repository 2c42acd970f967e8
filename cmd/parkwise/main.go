package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/parkwise/internal/billing"
	"github.com/smallbiznis/parkwise/internal/clock"
	"github.com/smallbiznis/parkwise/internal/config"
	"github.com/smallbiznis/parkwise/internal/discount"
	"github.com/smallbiznis/parkwise/internal/duration"
	"github.com/smallbiznis/parkwise/internal/lock"
	"github.com/smallbiznis/parkwise/internal/migration"
	"github.com/smallbiznis/parkwise/internal/observability"
	"github.com/smallbiznis/parkwise/internal/penalty"
	"github.com/smallbiznis/parkwise/internal/pricing"
	"github.com/smallbiznis/parkwise/internal/server"
	"github.com/smallbiznis/parkwise/internal/standing"
	"github.com/smallbiznis/parkwise/internal/tariff"
	"github.com/smallbiznis/parkwise/internal/tax"
	"github.com/smallbiznis/parkwise/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func main() {
	app := fx.New(
		// Core Infrastructure
		config.Module,
		observability.Module,
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
		clock.Module,
		lock.Module,

		// Calculators
		duration.Module,
		pricing.Module,
		discount.Module,
		tax.Module,

		// Functional Domains
		tariff.Module,
		penalty.Module,
		standing.Module,
		billing.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake(cfg config.Config) (*snowflake.Node, error) {
	return snowflake.NewNode(cfg.NodeID)
}
