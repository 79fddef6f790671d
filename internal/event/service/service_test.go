package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/vowsuite/vowsuite/internal/clock"
	"github.com/vowsuite/vowsuite/internal/event/domain"
	"github.com/vowsuite/vowsuite/internal/event/repository"
	"github.com/vowsuite/vowsuite/pkg/db"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) (domain.Service, *clock.FakeClock) {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := dbConn.AutoMigrate(&domain.Event{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}

	clk := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	svc := New(Params{
		DB:    dbConn,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clk,
		Repo:  repository.Provide(),
	})
	return svc, clk
}

func mustCreate(t *testing.T, svc domain.Service) domain.Event {
	t.Helper()
	event, err := svc.Create(context.Background(), domain.CreateEventRequest{
		Title:       "Summer Wedding",
		CoupleNames: "Ana & Ben",
		Location:    "Lisbon",
	})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	return event
}

func strPtr(v string) *string { return &v }
func boolPtr(v bool) *bool    { return &v }

func TestCreateDefaultsToResend(t *testing.T) {
	svc, _ := newTestService(t)

	event := mustCreate(t, svc)
	if event.EmailProvider != domain.ProviderResend {
		t.Fatalf("expected resend default, got %q", event.EmailProvider)
	}

	if _, err := svc.Create(context.Background(), domain.CreateEventRequest{Title: "  "}); !errors.Is(err, domain.ErrInvalidTitle) {
		t.Fatalf("expected ErrInvalidTitle, got %v", err)
	}

	start := time.Date(2025, 9, 2, 0, 0, 0, 0, time.UTC)
	end := start.Add(-24 * time.Hour)
	_, err := svc.Create(context.Background(), domain.CreateEventRequest{
		Title:     "Backwards",
		StartDate: &start,
		EndDate:   &end,
	})
	if !errors.Is(err, domain.ErrInvalidDateRange) {
		t.Fatalf("expected ErrInvalidDateRange, got %v", err)
	}
}

func TestCreateAndUpdateDetails(t *testing.T) {
	svc, clk := newTestService(t)

	deadline := clk.Now().Add(30 * 24 * time.Hour)
	event, err := svc.Create(context.Background(), domain.CreateEventRequest{
		Title:        "Summer Wedding",
		CoupleNames:  "Ana & Ben",
		Description:  "Join us by the sea",
		Location:     "Lisbon",
		RSVPDeadline: &deadline,
	})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	if event.Description != "Join us by the sea" {
		t.Fatalf("unexpected description %q", event.Description)
	}
	if event.RSVPDeadline == nil || !event.RSVPDeadline.Equal(deadline) {
		t.Fatalf("unexpected rsvp deadline %v", event.RSVPDeadline)
	}

	later := deadline.Add(7 * 24 * time.Hour)
	updated, err := svc.Update(context.Background(), domain.UpdateEventRequest{
		ID:           event.ID.String(),
		Description:  strPtr("New venue, same date"),
		RSVPDeadline: &later,
	})
	if err != nil {
		t.Fatalf("update event: %v", err)
	}
	if updated.Description != "New venue, same date" {
		t.Fatalf("unexpected description %q", updated.Description)
	}
	if updated.RSVPDeadline == nil || !updated.RSVPDeadline.Equal(later) {
		t.Fatalf("unexpected rsvp deadline %v", updated.RSVPDeadline)
	}
}

func TestUpdateEmailConfigPartial(t *testing.T) {
	svc, _ := newTestService(t)
	event := mustCreate(t, svc)

	updated, err := svc.UpdateEmailConfig(context.Background(), domain.UpdateEmailConfigRequest{
		ID:             event.ID.String(),
		Provider:       strPtr("sendgrid"),
		SendGridAPIKey: strPtr("sg-key"),
		UseSendGrid:    boolPtr(true),
	})
	if err != nil {
		t.Fatalf("update email config: %v", err)
	}
	if updated.EmailProvider != domain.ProviderSendGrid {
		t.Fatalf("expected sendgrid provider, got %q", updated.EmailProvider)
	}
	if updated.SendGridAPIKey != "sg-key" || !updated.UseSendGrid {
		t.Fatalf("sendgrid fields not stored: %+v", updated)
	}
	if updated.Title != event.Title {
		t.Fatalf("untouched field changed: %q", updated.Title)
	}

	_, err = svc.UpdateEmailConfig(context.Background(), domain.UpdateEmailConfigRequest{
		ID:       event.ID.String(),
		Provider: strPtr("pigeon"),
	})
	if !errors.Is(err, domain.ErrInvalidProvider) {
		t.Fatalf("expected ErrInvalidProvider, got %v", err)
	}
}

func TestOAuthClientAndStatus(t *testing.T) {
	svc, _ := newTestService(t)
	event := mustCreate(t, svc)

	status, err := svc.OAuthStatus(context.Background(), event.ID.String(), domain.ProviderGmail)
	if err != nil {
		t.Fatalf("oauth status: %v", err)
	}
	if status.Configured || status.Connected || status.Enabled {
		t.Fatalf("fresh event should have an empty status: %+v", status)
	}

	err = svc.UpdateOAuthClient(context.Background(), domain.UpdateOAuthClientRequest{
		ID:           event.ID.String(),
		Provider:     domain.ProviderGmail,
		ClientID:     "client-id",
		ClientSecret: "client-secret",
	})
	if err != nil {
		t.Fatalf("update oauth client: %v", err)
	}

	status, err = svc.OAuthStatus(context.Background(), event.ID.String(), domain.ProviderGmail)
	if err != nil {
		t.Fatalf("oauth status: %v", err)
	}
	if !status.Configured || status.Connected {
		t.Fatalf("expected configured but not connected: %+v", status)
	}
	if status.ClientID != "client-id" {
		t.Fatalf("expected client id surfaced, got %q", status.ClientID)
	}

	if _, err := svc.OAuthStatus(context.Background(), event.ID.String(), domain.ProviderResend); !errors.Is(err, domain.ErrInvalidProvider) {
		t.Fatalf("expected ErrInvalidProvider for resend, got %v", err)
	}
}

func TestSaveOAuthTokensKeepsRefreshToken(t *testing.T) {
	svc, clk := newTestService(t)
	event := mustCreate(t, svc)

	expiry := clk.Now().Add(time.Hour)
	err := svc.SaveOAuthTokens(context.Background(), domain.SaveOAuthTokensRequest{
		EventID:      event.ID,
		Provider:     domain.ProviderOutlook,
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		Expiry:       &expiry,
		Account:      "couple@example.com",
	})
	if err != nil {
		t.Fatalf("save tokens: %v", err)
	}

	// A refresh grant that omits the refresh token keeps the stored one.
	err = svc.SaveOAuthTokens(context.Background(), domain.SaveOAuthTokensRequest{
		EventID:     event.ID,
		Provider:    domain.ProviderOutlook,
		AccessToken: "access-2",
		Expiry:      &expiry,
	})
	if err != nil {
		t.Fatalf("save tokens: %v", err)
	}

	stored, err := svc.GetByID(context.Background(), domain.GetEventRequest{ID: event.ID.String()})
	if err != nil {
		t.Fatalf("get event: %v", err)
	}
	if stored.OutlookAccessToken != "access-2" {
		t.Fatalf("expected rotated access token, got %q", stored.OutlookAccessToken)
	}
	if stored.OutlookRefreshToken != "refresh-1" {
		t.Fatalf("expected stored refresh token kept, got %q", stored.OutlookRefreshToken)
	}
	if stored.OutlookAccount != "couple@example.com" {
		t.Fatalf("expected account kept, got %q", stored.OutlookAccount)
	}

	// A rotation that carries a new refresh token overwrites it.
	err = svc.SaveOAuthTokens(context.Background(), domain.SaveOAuthTokensRequest{
		EventID:      event.ID,
		Provider:     domain.ProviderOutlook,
		AccessToken:  "access-3",
		RefreshToken: "refresh-2",
	})
	if err != nil {
		t.Fatalf("save tokens: %v", err)
	}
	stored, _ = svc.GetByID(context.Background(), domain.GetEventRequest{ID: event.ID.String()})
	if stored.OutlookRefreshToken != "refresh-2" {
		t.Fatalf("expected rotated refresh token, got %q", stored.OutlookRefreshToken)
	}
}

func TestSaveOAuthTokensEnableFlag(t *testing.T) {
	svc, clk := newTestService(t)
	event := mustCreate(t, svc)

	expiry := clk.Now().Add(time.Hour)
	err := svc.SaveOAuthTokens(context.Background(), domain.SaveOAuthTokensRequest{
		EventID:      event.ID,
		Provider:     domain.ProviderGmail,
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		Expiry:       &expiry,
		Account:      "couple@gmail.com",
		Enable:       true,
	})
	if err != nil {
		t.Fatalf("save tokens: %v", err)
	}

	stored, err := svc.GetByID(context.Background(), domain.GetEventRequest{ID: event.ID.String()})
	if err != nil {
		t.Fatalf("get event: %v", err)
	}
	if !stored.UseGmail {
		t.Fatal("expected use_gmail to be switched on by the connect")
	}

	// A later refresh grant without Enable leaves the flag where it is.
	_, err = svc.UpdateEmailConfig(context.Background(), domain.UpdateEmailConfigRequest{
		ID:       event.ID.String(),
		UseGmail: boolPtr(false),
	})
	if err != nil {
		t.Fatalf("toggle flag: %v", err)
	}
	err = svc.SaveOAuthTokens(context.Background(), domain.SaveOAuthTokensRequest{
		EventID:     event.ID,
		Provider:    domain.ProviderGmail,
		AccessToken: "access-2",
		Expiry:      &expiry,
	})
	if err != nil {
		t.Fatalf("save tokens: %v", err)
	}
	stored, _ = svc.GetByID(context.Background(), domain.GetEventRequest{ID: event.ID.String()})
	if stored.UseGmail {
		t.Fatal("expected refresh grant to leave use_gmail alone")
	}
}

func TestDisconnectOAuthClearsCredentials(t *testing.T) {
	svc, clk := newTestService(t)
	event := mustCreate(t, svc)

	expiry := clk.Now().Add(time.Hour)
	if err := svc.SaveOAuthTokens(context.Background(), domain.SaveOAuthTokensRequest{
		EventID:      event.ID,
		Provider:     domain.ProviderGmail,
		AccessToken:  "access",
		RefreshToken: "refresh",
		Expiry:       &expiry,
		Account:      "couple@example.com",
	}); err != nil {
		t.Fatalf("save tokens: %v", err)
	}
	if _, err := svc.UpdateEmailConfig(context.Background(), domain.UpdateEmailConfigRequest{
		ID:       event.ID.String(),
		UseGmail: boolPtr(true),
	}); err != nil {
		t.Fatalf("enable gmail: %v", err)
	}

	if err := svc.DisconnectOAuth(context.Background(), event.ID.String(), domain.ProviderGmail); err != nil {
		t.Fatalf("disconnect: %v", err)
	}

	stored, err := svc.GetByID(context.Background(), domain.GetEventRequest{ID: event.ID.String()})
	if err != nil {
		t.Fatalf("get event: %v", err)
	}
	if stored.GmailAccessToken != "" || stored.GmailRefreshToken != "" || stored.GmailAccount != "" {
		t.Fatalf("expected gmail credentials cleared: %+v", stored)
	}
	if stored.GmailTokenExpiry != nil {
		t.Fatal("expected gmail token expiry cleared")
	}
	if stored.UseGmail {
		t.Fatal("expected use_gmail disabled")
	}

	status, err := svc.OAuthStatus(context.Background(), event.ID.String(), domain.ProviderGmail)
	if err != nil {
		t.Fatalf("oauth status: %v", err)
	}
	if status.Connected || status.Enabled {
		t.Fatalf("expected disconnected status: %+v", status)
	}
}

func TestUpdateNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	title := "New Title"
	_, err := svc.Update(context.Background(), domain.UpdateEventRequest{
		ID:    snowflake.ID(424242).String(),
		Title: &title,
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
