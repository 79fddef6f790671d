package rsvp

import (
	"github.com/vowsuite/vowsuite/internal/rsvp/token"
	"go.uber.org/fx"
)

var Module = fx.Module("rsvp.service",
	fx.Provide(token.New),
	fx.Provide(New),
)
