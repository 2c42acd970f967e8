package tariff

import (
	"github.com/smallbiznis/parkwise/internal/tariff/service"
	"go.uber.org/fx"
)

var Module = fx.Module("tariff.service",
	fx.Provide(service.NewCatalog),
)
