package penalty

import (
	"github.com/smallbiznis/parkwise/internal/penalty/repository"
	"github.com/smallbiznis/parkwise/internal/penalty/service"
	"go.uber.org/fx"
)

var Module = fx.Module("penalty.service",
	fx.Provide(repository.Provide),
	fx.Provide(repository.NewGormStore),
	fx.Provide(service.NewCalculator),
	fx.Provide(service.NewBlacklistEvaluator),
	fx.Provide(service.New),
)
