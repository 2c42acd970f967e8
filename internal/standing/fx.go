package standing

import (
	"github.com/smallbiznis/parkwise/internal/standing/service"
	"go.uber.org/fx"
)

var Module = fx.Module("standing.service",
	fx.Provide(service.NewEvaluator),
	fx.Provide(service.New),
)
