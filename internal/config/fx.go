package config

import "go.uber.org/fx"

var Module = fx.Module("config",
	fx.Provide(Load),
	fx.Provide(NewPolicyHolder),
	fx.Provide(func(h *PolicyHolder) PolicyProvider { return h }),
)
