package ceremony

import (
	"github.com/vowsuite/vowsuite/internal/ceremony/repository"
	"github.com/vowsuite/vowsuite/internal/ceremony/service"
	"go.uber.org/fx"
)

var Module = fx.Module("ceremony.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
