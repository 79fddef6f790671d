package email

import (
	"context"
	"net/http"

	"github.com/vowsuite/vowsuite/internal/config"
	eventdomain "github.com/vowsuite/vowsuite/internal/event/domain"
	"github.com/vowsuite/vowsuite/internal/notification/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Resolver picks the email channel for an event from its stored
// credentials. Precedence, first match wins:
//
//  1. event-level API key (always Resend)
//  2. Gmail OAuth, when enabled, selected, and connected
//  3. Outlook OAuth, when enabled, selected, and connected
//  4. SendGrid key, when enabled and selected
//  5. platform Resend key, when the event provider is resend
type Resolver struct {
	log       *zap.Logger
	envAPIKey string
	client    *http.Client
	refresher domain.TokenRefresher
}

type ResolverParams struct {
	fx.In

	Log       *zap.Logger
	Config    config.Config
	Refresher domain.TokenRefresher `optional:"true"`
}

func NewResolver(p ResolverParams) *Resolver {
	return &Resolver{
		log:       p.Log.Named("notification.email"),
		envAPIKey: p.Config.ResendAPIKey,
		client:    http.DefaultClient,
		refresher: p.Refresher,
	}
}

func (r *Resolver) FromEvent(ctx context.Context, event eventdomain.Event) (domain.Channel, error) {
	from := FormatFrom(event.CoupleNames, event.EmailFromAddress, event.EmailFromDomain)
	provider := event.EmailProvider
	if provider == "" {
		provider = eventdomain.ProviderResend
	}

	switch {
	case event.EmailAPIKey != "":
		r.log.Debug("using event api key", zap.String("event_id", event.ID.String()))
		return NewResend(event.EmailAPIKey, from, r.client), nil

	case event.UseGmail && provider == eventdomain.ProviderGmail && event.GmailAccessToken != "":
		token, err := r.freshToken(ctx, event, "gmail", event.GmailAccessToken)
		if err != nil {
			return nil, err
		}
		return NewGmailSMTP(event.GmailAccount, token, from), nil

	case event.UseOutlook && provider == eventdomain.ProviderOutlook && event.OutlookAccessToken != "":
		token, err := r.freshToken(ctx, event, "outlook", event.OutlookAccessToken)
		if err != nil {
			return nil, err
		}
		return NewOutlookSMTP(event.OutlookAccount, token, from), nil

	case event.UseSendGrid && provider == eventdomain.ProviderSendGrid && event.SendGridAPIKey != "":
		return NewSendGrid(event.SendGridAPIKey, from, r.client), nil

	case r.envAPIKey != "" && provider == eventdomain.ProviderResend:
		r.log.Debug("using platform resend key", zap.String("event_id", event.ID.String()))
		return NewResend(r.envAPIKey, from, r.client), nil
	}

	return nil, domain.ErrChannelNotConfigured
}

func (r *Resolver) freshToken(ctx context.Context, event eventdomain.Event, provider, stored string) (string, error) {
	if r.refresher == nil {
		return stored, nil
	}
	token, err := r.refresher.FreshAccessToken(ctx, event.ID, provider)
	if err != nil {
		r.log.Warn("token refresh failed, using stored token",
			zap.String("event_id", event.ID.String()),
			zap.String("provider", provider),
			zap.Error(err),
		)
		return stored, nil
	}
	return token, nil
}
