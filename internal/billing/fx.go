package billing

import (
	"github.com/smallbiznis/parkwise/internal/billing/repository"
	"github.com/smallbiznis/parkwise/internal/billing/service"
	"go.uber.org/fx"
)

var Module = fx.Module("billing.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewOrchestrator),
	fx.Provide(service.New),
)
