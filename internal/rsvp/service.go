package rsvp

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	ceremonydomain "github.com/vowsuite/vowsuite/internal/ceremony/domain"
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

	Log        *zap.Logger
	Codec      *token.Codec
	Events     eventdomain.Service
	Guests     guestdomain.Service
	Ceremonies ceremonydomain.Service
	Email      *email.Resolver
	WhatsApp   *whatsapp.Resolver
	Templates  *config.TemplateHolder
}

type service struct {
	log        *zap.Logger
	codec      *token.Codec
	events     eventdomain.Service
	guests     guestdomain.Service
	ceremonies ceremonydomain.Service
	email      *email.Resolver
	whatsapp   *whatsapp.Resolver
	templates  *config.TemplateHolder
}

func New(p Params) Service {
	return &service{
		log:        p.Log.Named("rsvp.service"),
		codec:      p.Codec,
		events:     p.Events,
		guests:     p.Guests,
		ceremonies: p.Ceremonies,
		email:      p.Email,
		whatsapp:   p.WhatsApp,
		templates:  p.Templates,
	}
}

func (s *service) Verify(ctx context.Context, rawToken string) (*VerifyResult, error) {
	guest, event, err := s.resolveToken(ctx, rawToken)
	if err != nil {
		return nil, err
	}

	attendance, err := s.ceremonies.AttendanceForGuest(ctx, guest.ID, event.ID)
	if err != nil {
		return nil, err
	}

	return &VerifyResult{
		Guest: guest,
		Event: EventSummary{
			ID:           event.ID,
			Title:        event.Title,
			CoupleNames:  event.CoupleNames,
			Description:  event.Description,
			Location:     event.Location,
			StartDate:    event.StartDate,
			EndDate:      event.EndDate,
			RSVPDeadline: event.RSVPDeadline,
		},
		Ceremonies: attendance,
	}, nil
}

func (s *service) Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	guest, event, err := s.resolveToken(ctx, req.Token)
	if err != nil {
		return nil, err
	}

	status := guestdomain.RSVPStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	if verr := validateSubmission(guest, status, req); verr != nil {
		return nil, verr
	}

	updated, err := s.guests.ApplyRSVP(ctx, guestdomain.ApplyRSVPRequest{
		GuestID:                 guest.ID,
		Status:                  status,
		PlusOneConfirmed:        req.PlusOneConfirmed,
		PlusOneName:             req.PlusOneName,
		Children:                req.Children,
		DietaryRestrictions:     req.DietaryRestrictions,
		AccommodationPreference: req.AccommodationPreference,
	})
	if err != nil {
		return nil, err
	}

	if status == guestdomain.StatusConfirmed {
		if err := s.applyAttendance(ctx, updated, req.Ceremonies); err != nil {
			return nil, err
		}
	}

	result := &SubmitResult{Guest: updated}
	result.EmailSent, result.WhatsAppSent = s.sendConfirmation(ctx, event, updated)
	return result, nil
}

// resolveToken turns a link token into its guest and event, rejecting
// tokens whose guest no longer belongs to the claimed event.
func (s *service) resolveToken(ctx context.Context, rawToken string) (guestdomain.Guest, eventdomain.Event, error) {
	claims, err := s.codec.Verify(rawToken)
	if err != nil {
		return guestdomain.Guest{}, eventdomain.Event{}, err
	}

	guest, err := s.guests.Lookup(ctx, claims.GuestID)
	if err != nil {
		if err == guestdomain.ErrNotFound {
			return guestdomain.Guest{}, eventdomain.Event{}, token.ErrInvalidToken
		}
		return guestdomain.Guest{}, eventdomain.Event{}, err
	}
	if guest.EventID != claims.EventID {
		return guestdomain.Guest{}, eventdomain.Event{}, token.ErrInvalidToken
	}

	event, err := s.events.GetByID(ctx, eventdomain.GetEventRequest{ID: claims.EventID.String()})
	if err != nil {
		if err == eventdomain.ErrNotFound {
			return guestdomain.Guest{}, eventdomain.Event{}, token.ErrInvalidToken
		}
		return guestdomain.Guest{}, eventdomain.Event{}, err
	}
	return guest, event, nil
}

func validateSubmission(guest guestdomain.Guest, status guestdomain.RSVPStatus, req SubmitRequest) *ValidationError {
	var fields []FieldError

	if status != guestdomain.StatusConfirmed && status != guestdomain.StatusDeclined {
		fields = append(fields, FieldError{
			Field:   "rsvp_status",
			Message: "must be confirmed or declined",
		})
	}
	if req.PlusOneConfirmed && !guest.PlusOneAllowed {
		fields = append(fields, FieldError{
			Field:   "plus_one_confirmed",
			Message: "plus one is not allowed for this guest",
		})
	}
	if req.PlusOneConfirmed && strings.TrimSpace(req.PlusOneName) == "" {
		fields = append(fields, FieldError{
			Field:   "plus_one_name",
			Message: "name is required when bringing a plus one",
		})
	}
	for _, child := range req.Children {
		if strings.TrimSpace(child.Name) == "" {
			fields = append(fields, FieldError{
				Field:   "children",
				Message: "child name is required",
			})
			break
		}
		if child.Age < 0 {
			fields = append(fields, FieldError{
				Field:   "children",
				Message: "child age cannot be negative",
			})
			break
		}
	}

	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

func (s *service) applyAttendance(ctx context.Context, guest guestdomain.Guest, responses []CeremonyResponse) error {
	for _, resp := range responses {
		ceremonyID, err := snowflake.ParseString(strings.TrimSpace(resp.CeremonyID))
		if err != nil || ceremonyID == 0 {
			return &ValidationError{Fields: []FieldError{{
				Field:   "ceremonies",
				Message: "invalid ceremony id",
			}}}
		}

		var mealOptionID *snowflake.ID
		if resp.MealOptionID != "" {
			parsed, err := snowflake.ParseString(strings.TrimSpace(resp.MealOptionID))
			if err != nil || parsed == 0 {
				return &ValidationError{Fields: []FieldError{{
					Field:   "ceremonies",
					Message: "invalid meal option id",
				}}}
			}
			mealOptionID = &parsed
		}

		err = s.ceremonies.SetAttendance(ctx, ceremonydomain.SetAttendanceRequest{
			GuestID:      guest.ID,
			EventID:      guest.EventID,
			CeremonyID:   ceremonyID,
			Attending:    resp.Attending,
			MealOptionID: mealOptionID,
		})
		if err == ceremonydomain.ErrInvalidMealOption || err == ceremonydomain.ErrNotFound {
			return &ValidationError{Fields: []FieldError{{
				Field:   "ceremonies",
				Message: "unknown ceremony or meal option",
			}}}
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// sendConfirmation is best effort: a guest's saved response never
// fails because a provider is down.
func (s *service) sendConfirmation(ctx context.Context, event eventdomain.Event, guest guestdomain.Guest) (emailSent, whatsappSent bool) {
	templates := s.templates.Current()
	data := notification.NewTemplateData(event, guest)

	if guest.Email != "" {
		emailSent = s.sendConfirmationEmail(ctx, event, guest, templates, data)
	}
	if guest.Phone != "" {
		whatsappSent = s.sendConfirmationWhatsApp(ctx, event, guest, templates, data)
	}
	return emailSent, whatsappSent
}

func (s *service) sendConfirmationEmail(ctx context.Context, event eventdomain.Event, guest guestdomain.Guest, templates config.MessageTemplates, data notification.TemplateData) bool {
	channel, err := s.email.FromEvent(ctx, event)
	if err != nil {
		s.log.Warn("confirmation email skipped",
			zap.String("event_id", event.ID.String()),
			zap.String("guest_id", guest.ID.String()),
			zap.Error(err),
		)
		return false
	}

	subject, err := notification.RenderText(templates.ConfirmSubject, data)
	if err != nil {
		s.log.Error("confirmation subject render failed", zap.Error(err))
		return false
	}
	text, err := notification.RenderText(templates.ConfirmText, data)
	if err != nil {
		s.log.Error("confirmation text render failed", zap.Error(err))
		return false
	}
	html, err := notification.RenderHTML(templates.ConfirmHTML, data)
	if err != nil {
		s.log.Error("confirmation html render failed", zap.Error(err))
		return false
	}

	if _, err := channel.Send(ctx, notifdomain.Message{
		ToEmail:  guest.Email,
		Subject:  subject,
		TextBody: text,
		HTMLBody: html,
	}); err != nil {
		s.log.Warn("confirmation email failed",
			zap.String("event_id", event.ID.String()),
			zap.String("guest_id", guest.ID.String()),
			zap.String("provider", channel.Name()),
			zap.Error(err),
		)
		return false
	}
	return true
}

func (s *service) sendConfirmationWhatsApp(ctx context.Context, event eventdomain.Event, guest guestdomain.Guest, templates config.MessageTemplates, data notification.TemplateData) bool {
	channel, err := s.whatsapp.FromEvent(event)
	if err != nil {
		if err != notifdomain.ErrChannelNotConfigured {
			s.log.Warn("confirmation whatsapp skipped", zap.Error(err))
		}
		return false
	}

	text, err := notification.RenderText(templates.ConfirmText, data)
	if err != nil {
		s.log.Error("confirmation text render failed", zap.Error(err))
		return false
	}

	if _, err := channel.Send(ctx, notifdomain.Message{
		ToPhone:  guest.Phone,
		TextBody: text,
	}); err != nil {
		s.log.Warn("confirmation whatsapp failed",
			zap.String("event_id", event.ID.String()),
			zap.String("guest_id", guest.ID.String()),
			zap.Error(err),
		)
		return false
	}
	return true
}
