package notification

import (
	"github.com/vowsuite/vowsuite/internal/notification/email"
	"github.com/vowsuite/vowsuite/internal/notification/whatsapp"
	"go.uber.org/fx"
)

var Module = fx.Module("notification",
	fx.Provide(email.NewResolver),
	fx.Provide(whatsapp.NewResolver),
)
