package duration

import (
	"github.com/smallbiznis/parkwise/internal/duration/service"
	"go.uber.org/fx"
)

var Module = fx.Module("duration.service",
	fx.Provide(service.NewCalculator),
)
