package payment

import "go.uber.org/fx"

// Module exposes the payment ledger via Fx.
var Module = fx.Options(
	fx.Provide(NewService),
)
