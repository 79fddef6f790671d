package event

import (
	"github.com/vowsuite/vowsuite/internal/event/repository"
	"github.com/vowsuite/vowsuite/internal/event/service"
	"go.uber.org/fx"
)

var Module = fx.Module("event.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
