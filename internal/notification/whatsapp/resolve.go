package whatsapp

import (
	"net/http"

	"github.com/vowsuite/vowsuite/internal/config"
	eventdomain "github.com/vowsuite/vowsuite/internal/event/domain"
	"github.com/vowsuite/vowsuite/internal/notification/domain"
	"go.uber.org/zap"
)

// Resolver builds the WhatsApp channel for an event. Event-level
// credentials win; the platform account is the fallback.
type Resolver struct {
	log         *zap.Logger
	phoneID     string
	accessToken string
	countryCode string
	client      *http.Client
}

func NewResolver(log *zap.Logger, cfg config.Config) *Resolver {
	return &Resolver{
		log:         log.Named("notification.whatsapp"),
		phoneID:     cfg.WhatsAppPhoneNumberID,
		accessToken: cfg.WhatsAppAccessToken,
		countryCode: cfg.WhatsAppCountryCode,
		client:      http.DefaultClient,
	}
}

func (r *Resolver) FromEvent(event eventdomain.Event) (domain.Channel, error) {
	if !event.UseWhatsApp {
		return nil, domain.ErrChannelNotConfigured
	}

	phoneID := event.WhatsAppPhoneNumberID
	token := event.WhatsAppAccessToken
	if phoneID == "" || token == "" {
		phoneID = r.phoneID
		token = r.accessToken
	}
	if phoneID == "" || token == "" {
		return nil, domain.ErrChannelNotConfigured
	}

	return New(phoneID, token, r.countryCode, r.client), nil
}
