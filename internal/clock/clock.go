package clock

import (
	"time"

	"go.uber.org/fx"
)

// Clock is the time source for anything that evaluates "now".
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// System returns the wall clock in UTC.
func System() Clock { return systemClock{} }

func (systemClock) Now() time.Time { return time.Now().UTC() }

var Module = fx.Module("clock",
	fx.Provide(System),
)
