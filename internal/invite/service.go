package invite

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/vowsuite/vowsuite/internal/config"
	eventdomain "github.com/vowsuite/vowsuite/internal/event/domain"
	guestdomain "github.com/vowsuite/vowsuite/internal/guest/domain"
	"github.com/vowsuite/vowsuite/internal/notification"
	notifdomain "github.com/vowsuite/vowsuite/internal/notification/domain"
	"github.com/vowsuite/vowsuite/internal/notification/email"
	"github.com/vowsuite/vowsuite/internal/notification/whatsapp"
	"github.com/vowsuite/vowsuite/internal/rsvp/token"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log       *zap.Logger
	Config    config.Config
	Codec     *token.Codec
	Events    eventdomain.Service
	Guests    guestdomain.Service
	Email     *email.Resolver
	WhatsApp  *whatsapp.Resolver
	Templates *config.TemplateHolder
}

type service struct {
	log       *zap.Logger
	publicURL string
	codec     *token.Codec
	events    eventdomain.Service
	guests    guestdomain.Service
	email     *email.Resolver
	whatsapp  *whatsapp.Resolver
	templates *config.TemplateHolder
}

func New(p Params) Service {
	return &service{
		log:       p.Log.Named("invite.service"),
		publicURL: strings.TrimRight(p.Config.PublicURL, "/"),
		codec:     p.Codec,
		events:    p.Events,
		guests:    p.Guests,
		email:     p.Email,
		whatsapp:  p.WhatsApp,
		templates: p.Templates,
	}
}

func (s *service) GenerateLinks(ctx context.Context, req GenerateLinksRequest) ([]GuestLink, error) {
	event, err := s.events.GetByID(ctx, eventdomain.GetEventRequest{ID: req.EventID})
	if err != nil {
		return nil, err
	}

	guests, _, err := s.selectGuests(ctx, event, req.GuestIDs)
	if err != nil {
		return nil, err
	}

	base := s.baseURL(req.BaseURL)
	links := make([]GuestLink, 0, len(guests))
	for _, guest := range guests {
		raw, err := s.codec.Issue(guest.ID, event.ID)
		if err != nil {
			return nil, err
		}
		links = append(links, GuestLink{
			GuestID: guest.ID,
			Name:    guest.FullName(),
			Email:   guest.Email,
			Phone:   guest.Phone,
			Token:   raw,
			Link:    s.link(base, raw),
		})
	}
	return links, nil
}

func (s *service) SendInvites(ctx context.Context, req SendInvitesRequest) (*SendInvitesResult, error) {
	channel := strings.ToLower(strings.TrimSpace(req.Channel))
	if channel == "" {
		channel = ChannelEmail
	}
	if channel != ChannelEmail && channel != ChannelWhatsApp && channel != ChannelBoth {
		return nil, ErrInvalidChannel
	}

	event, err := s.events.GetByID(ctx, eventdomain.GetEventRequest{ID: req.EventID})
	if err != nil {
		return nil, err
	}

	guests, missing, err := s.selectGuests(ctx, event, req.GuestIDs)
	if err != nil {
		return nil, err
	}

	// Channels resolve once per batch. A single requested channel that
	// cannot be configured fails the whole request up front.
	var emailCh, waCh notifdomain.Channel
	if channel == ChannelEmail || channel == ChannelBoth {
		emailCh, err = s.email.FromEvent(ctx, event)
		if err != nil && channel == ChannelEmail {
			return nil, err
		}
	}
	if channel == ChannelWhatsApp || channel == ChannelBoth {
		waCh, err = s.whatsapp.FromEvent(event)
		if err != nil && channel == ChannelWhatsApp {
			return nil, err
		}
	}
	if emailCh == nil && waCh == nil {
		return nil, notifdomain.ErrChannelNotConfigured
	}

	templates := s.templates.Current()
	base := s.baseURL(req.BaseURL)
	result := &SendInvitesResult{Outcomes: make([]InviteOutcome, 0, len(guests)+len(missing))}

	// Requested guests that do not exist on the event still get a row,
	// so the caller can see exactly which IDs were skipped.
	for _, id := range missing {
		result.Failed++
		result.Outcomes = append(result.Outcomes, InviteOutcome{
			GuestID: id,
			Error:   "guest not found",
		})
	}

	for _, guest := range guests {
		outcome := s.sendOne(ctx, event, guest, emailCh, waCh, templates, base)
		if outcome.EmailSent || outcome.WhatsAppSent {
			result.Sent++
		} else {
			result.Failed++
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}
	return result, nil
}

func (s *service) sendOne(ctx context.Context, event eventdomain.Event, guest guestdomain.Guest, emailCh, waCh notifdomain.Channel, templates config.MessageTemplates, base string) InviteOutcome {
	outcome := InviteOutcome{
		GuestID: guest.ID,
		Name:    guest.FullName(),
		Email:   guest.Email,
		Phone:   guest.Phone,
	}

	raw, err := s.codec.Issue(guest.ID, event.ID)
	if err != nil {
		outcome.Error = err.Error()
		return outcome
	}

	data := notification.NewTemplateData(event, guest)
	data.RSVPLink = s.link(base, raw)
	outcome.RSVPLink = data.RSVPLink

	if emailCh != nil && guest.Email != "" {
		if err := s.sendEmail(ctx, emailCh, guest, templates, data); err != nil {
			outcome.Error = err.Error()
			s.log.Warn("invite email failed",
				zap.String("guest_id", guest.ID.String()),
				zap.Error(err),
			)
		} else {
			outcome.EmailSent = true
		}
	}

	if waCh != nil && guest.Phone != "" {
		text, err := notification.RenderText(templates.InviteText, data)
		if err != nil {
			outcome.Error = err.Error()
			return outcome
		}
		if _, err := waCh.Send(ctx, notifdomain.Message{
			ToPhone:  guest.Phone,
			TextBody: text,
		}); err != nil {
			outcome.Error = err.Error()
			s.log.Warn("invite whatsapp failed",
				zap.String("guest_id", guest.ID.String()),
				zap.Error(err),
			)
		} else {
			outcome.WhatsAppSent = true
		}
	}

	return outcome
}

func (s *service) sendEmail(ctx context.Context, channel notifdomain.Channel, guest guestdomain.Guest, templates config.MessageTemplates, data notification.TemplateData) error {
	subject, err := notification.RenderText(templates.InviteSubject, data)
	if err != nil {
		return err
	}
	text, err := notification.RenderText(templates.InviteText, data)
	if err != nil {
		return err
	}
	html, err := notification.RenderHTML(templates.InviteHTML, data)
	if err != nil {
		return err
	}

	_, err = channel.Send(ctx, notifdomain.Message{
		ToEmail:  guest.Email,
		Subject:  subject,
		TextBody: text,
		HTMLBody: html,
	})
	return err
}

// selectGuests resolves the requested IDs against the event's guest
// list. Requested IDs with no matching guest come back separately.
func (s *service) selectGuests(ctx context.Context, event eventdomain.Event, guestIDs []string) ([]guestdomain.Guest, []snowflake.ID, error) {
	all, err := s.guests.ListByEvent(ctx, guestdomain.ListGuestsRequest{EventID: event.ID.String()})
	if err != nil {
		return nil, nil, err
	}
	if len(guestIDs) == 0 {
		return all, nil, nil
	}

	wanted := make([]snowflake.ID, 0, len(guestIDs))
	seen := make(map[snowflake.ID]bool, len(guestIDs))
	for _, raw := range guestIDs {
		id, err := snowflake.ParseString(strings.TrimSpace(raw))
		if err != nil || id == 0 {
			return nil, nil, guestdomain.ErrInvalidID
		}
		if !seen[id] {
			seen[id] = true
			wanted = append(wanted, id)
		}
	}

	byID := make(map[snowflake.ID]guestdomain.Guest, len(all))
	for _, guest := range all {
		byID[guest.ID] = guest
	}

	selected := make([]guestdomain.Guest, 0, len(wanted))
	var missing []snowflake.ID
	for _, id := range wanted {
		if guest, ok := byID[id]; ok {
			selected = append(selected, guest)
		} else {
			missing = append(missing, id)
		}
	}
	return selected, missing, nil
}

func (s *service) baseURL(override string) string {
	if base := strings.TrimRight(strings.TrimSpace(override), "/"); base != "" {
		return base
	}
	return s.publicURL
}

func (s *service) link(base, rawToken string) string {
	return base + "/guest-rsvp?token=" + rawToken
}
