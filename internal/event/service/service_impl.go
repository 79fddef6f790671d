package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/vowsuite/vowsuite/internal/clock"
	"github.com/vowsuite/vowsuite/internal/event/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("event.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateEventRequest) (domain.Event, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return domain.Event{}, domain.ErrInvalidTitle
	}
	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return domain.Event{}, domain.ErrInvalidDateRange
	}

	now := s.clock.Now().UTC()
	event := domain.Event{
		ID:            s.genID.Generate(),
		Title:         title,
		Description:   strings.TrimSpace(req.Description),
		CoupleNames:   strings.TrimSpace(req.CoupleNames),
		Location:      strings.TrimSpace(req.Location),
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		RSVPDeadline:  req.RSVPDeadline,
		EmailProvider: domain.ProviderResend,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Insert(ctx, s.db, &event); err != nil {
		return domain.Event{}, err
	}
	return event, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetEventRequest) (domain.Event, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Event{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Event{}, err
	}
	if item == nil {
		return domain.Event{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Event, error) {
	items, err := s.repo.List(ctx, s.db)
	if err != nil {
		return nil, err
	}

	events := make([]domain.Event, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		events = append(events, *item)
	}
	return events, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateEventRequest) (domain.Event, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Event{}, err
	}

	columns := map[string]any{}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return domain.Event{}, domain.ErrInvalidTitle
		}
		columns["title"] = title
	}
	if req.Description != nil {
		columns["description"] = strings.TrimSpace(*req.Description)
	}
	if req.CoupleNames != nil {
		columns["couple_names"] = strings.TrimSpace(*req.CoupleNames)
	}
	if req.Location != nil {
		columns["location"] = strings.TrimSpace(*req.Location)
	}
	if req.StartDate != nil {
		columns["start_date"] = *req.StartDate
	}
	if req.EndDate != nil {
		columns["end_date"] = *req.EndDate
	}
	if req.RSVPDeadline != nil {
		columns["rsvp_deadline"] = *req.RSVPDeadline
	}

	return s.applyUpdate(ctx, id, columns)
}

func (s *Service) Delete(ctx context.Context, req domain.GetEventRequest) error {
	id, err := s.parseID(req.ID)
	if err != nil {
		return err
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}
	return s.repo.Delete(ctx, s.db, id)
}

func (s *Service) UpdateEmailConfig(ctx context.Context, req domain.UpdateEmailConfigRequest) (domain.Event, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Event{}, err
	}

	columns := map[string]any{}
	if req.Provider != nil {
		provider := domain.EmailProvider(strings.ToLower(strings.TrimSpace(*req.Provider)))
		if !provider.Valid() {
			return domain.Event{}, domain.ErrInvalidProvider
		}
		columns["email_provider"] = provider
	}
	if req.APIKey != nil {
		columns["email_api_key"] = strings.TrimSpace(*req.APIKey)
	}
	if req.FromAddress != nil {
		columns["email_from_address"] = strings.TrimSpace(*req.FromAddress)
	}
	if req.FromDomain != nil {
		columns["email_from_domain"] = strings.TrimSpace(*req.FromDomain)
	}
	if req.ReplyTo != nil {
		columns["email_reply_to"] = strings.TrimSpace(*req.ReplyTo)
	}
	if req.UseGmail != nil {
		columns["use_gmail"] = *req.UseGmail
	}
	if req.UseOutlook != nil {
		columns["use_outlook"] = *req.UseOutlook
	}
	if req.UseSendGrid != nil {
		columns["use_send_grid"] = *req.UseSendGrid
	}
	if req.SendGridAPIKey != nil {
		columns["send_grid_api_key"] = strings.TrimSpace(*req.SendGridAPIKey)
	}
	if req.UseWhatsApp != nil {
		columns["use_whatsapp"] = *req.UseWhatsApp
	}
	if req.WhatsAppPhoneNumberID != nil {
		columns["whatsapp_phone_number_id"] = strings.TrimSpace(*req.WhatsAppPhoneNumberID)
	}
	if req.WhatsAppAccessToken != nil {
		columns["whatsapp_access_token"] = strings.TrimSpace(*req.WhatsAppAccessToken)
	}

	return s.applyUpdate(ctx, id, columns)
}

func (s *Service) OAuthStatus(ctx context.Context, rawID string, provider domain.EmailProvider) (domain.OAuthStatus, error) {
	if provider != domain.ProviderGmail && provider != domain.ProviderOutlook {
		return domain.OAuthStatus{}, domain.ErrInvalidProvider
	}

	event, err := s.GetByID(ctx, domain.GetEventRequest{ID: rawID})
	if err != nil {
		return domain.OAuthStatus{}, err
	}

	status := domain.OAuthStatus{Provider: provider}
	switch provider {
	case domain.ProviderGmail:
		status.ClientID = event.GmailClientID
		status.Configured = event.GmailClientID != "" && event.GmailClientSecret != ""
		status.Connected = event.GmailRefreshToken != ""
		status.Account = event.GmailAccount
		status.Enabled = event.UseGmail
	case domain.ProviderOutlook:
		status.ClientID = event.OutlookClientID
		status.Configured = event.OutlookClientID != "" && event.OutlookClientSecret != ""
		status.Connected = event.OutlookRefreshToken != ""
		status.Account = event.OutlookAccount
		status.Enabled = event.UseOutlook
	}
	return status, nil
}

func (s *Service) UpdateOAuthClient(ctx context.Context, req domain.UpdateOAuthClientRequest) error {
	id, err := s.parseID(req.ID)
	if err != nil {
		return err
	}

	var columns map[string]any
	switch req.Provider {
	case domain.ProviderGmail:
		columns = map[string]any{
			"gmail_client_id":     strings.TrimSpace(req.ClientID),
			"gmail_client_secret": strings.TrimSpace(req.ClientSecret),
		}
	case domain.ProviderOutlook:
		columns = map[string]any{
			"outlook_client_id":     strings.TrimSpace(req.ClientID),
			"outlook_client_secret": strings.TrimSpace(req.ClientSecret),
		}
	default:
		return domain.ErrInvalidProvider
	}

	_, err = s.applyUpdate(ctx, id, columns)
	return err
}

func (s *Service) SaveOAuthTokens(ctx context.Context, req domain.SaveOAuthTokensRequest) error {
	var columns map[string]any
	switch req.Provider {
	case domain.ProviderGmail:
		columns = map[string]any{
			"gmail_access_token": req.AccessToken,
			"gmail_token_expiry": req.Expiry,
		}
		// Refresh grants can omit the refresh token; keep the stored one.
		if req.RefreshToken != "" {
			columns["gmail_refresh_token"] = req.RefreshToken
		}
		if req.Account != "" {
			columns["gmail_account"] = req.Account
		}
		if req.Enable {
			columns["use_gmail"] = true
		}
	case domain.ProviderOutlook:
		columns = map[string]any{
			"outlook_access_token": req.AccessToken,
			"outlook_token_expiry": req.Expiry,
		}
		if req.RefreshToken != "" {
			columns["outlook_refresh_token"] = req.RefreshToken
		}
		if req.Account != "" {
			columns["outlook_account"] = req.Account
		}
		if req.Enable {
			columns["use_outlook"] = true
		}
	default:
		return domain.ErrInvalidProvider
	}

	_, err := s.applyUpdate(ctx, req.EventID, columns)
	return err
}

func (s *Service) DisconnectOAuth(ctx context.Context, rawID string, provider domain.EmailProvider) error {
	id, err := s.parseID(rawID)
	if err != nil {
		return err
	}

	var columns map[string]any
	switch provider {
	case domain.ProviderGmail:
		columns = map[string]any{
			"gmail_access_token":  "",
			"gmail_refresh_token": "",
			"gmail_token_expiry":  nil,
			"gmail_account":       "",
			"use_gmail":           false,
		}
	case domain.ProviderOutlook:
		columns = map[string]any{
			"outlook_access_token":  "",
			"outlook_refresh_token": "",
			"outlook_token_expiry":  nil,
			"outlook_account":       "",
			"use_outlook":           false,
		}
	default:
		return domain.ErrInvalidProvider
	}

	_, err = s.applyUpdate(ctx, id, columns)
	return err
}

func (s *Service) applyUpdate(ctx context.Context, id snowflake.ID, columns map[string]any) (domain.Event, error) {
	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Event{}, err
	}
	if item == nil {
		return domain.Event{}, domain.ErrNotFound
	}

	if len(columns) > 0 {
		columns["updated_at"] = s.clock.Now().UTC()
		if err := s.repo.UpdateColumns(ctx, s.db, id, columns); err != nil {
			return domain.Event{}, err
		}
		item, err = s.repo.FindByID(ctx, s.db, id)
		if err != nil {
			return domain.Event{}, err
		}
		if item == nil {
			return domain.Event{}, domain.ErrNotFound
		}
	}
	return *item, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
