package membership

import "go.uber.org/fx"

// Module exposes the lifecycle engine and its expiry sweep via Fx.
var Module = fx.Options(
	fx.Provide(NewService),
	fx.Invoke(runSweeper),
)
