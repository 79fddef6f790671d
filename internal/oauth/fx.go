package oauth

import (
	notifdomain "github.com/vowsuite/vowsuite/internal/notification/domain"
	"go.uber.org/fx"
)

var Module = fx.Module("oauth.service",
	fx.Provide(NewStateStore),
	fx.Provide(New),
	fx.Provide(func(svc Service) notifdomain.TokenRefresher { return svc }),
)
