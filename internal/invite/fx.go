package invite

import "go.uber.org/fx"

var Module = fx.Module("invite.service",
	fx.Provide(New),
)
