package invite

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/vowsuite/vowsuite/internal/clock"
	"github.com/vowsuite/vowsuite/internal/config"
	eventdomain "github.com/vowsuite/vowsuite/internal/event/domain"
	eventrepo "github.com/vowsuite/vowsuite/internal/event/repository"
	eventservice "github.com/vowsuite/vowsuite/internal/event/service"
	guestdomain "github.com/vowsuite/vowsuite/internal/guest/domain"
	guestrepo "github.com/vowsuite/vowsuite/internal/guest/repository"
	guestservice "github.com/vowsuite/vowsuite/internal/guest/service"
	notifdomain "github.com/vowsuite/vowsuite/internal/notification/domain"
	"github.com/vowsuite/vowsuite/internal/notification/email"
	"github.com/vowsuite/vowsuite/internal/notification/whatsapp"
	"github.com/vowsuite/vowsuite/internal/rsvp/token"
	"github.com/vowsuite/vowsuite/pkg/db"
	"go.uber.org/zap"
)

type testStack struct {
	svc    Service
	codec  *token.Codec
	events eventdomain.Service
	guests guestdomain.Service
}

func newTestStack(t *testing.T, cfg config.Config) *testStack {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := dbConn.AutoMigrate(&eventdomain.Event{}, &guestdomain.Guest{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}

	clk := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	log := zap.NewNop()

	events := eventservice.New(eventservice.Params{
		DB: dbConn, Log: log, GenID: node, Clock: clk, Repo: eventrepo.Provide(),
	})
	guests := guestservice.New(guestservice.Params{
		DB: dbConn, Log: log, GenID: node, Clock: clk, Repo: guestrepo.Provide(),
	})

	codec, err := token.NewCodec([]byte("test-secret"), 30*24*time.Hour, clk)
	if err != nil {
		t.Fatalf("failed to create codec: %v", err)
	}

	if cfg.PublicURL == "" {
		cfg.PublicURL = "https://wedding.example.com"
	}

	svc := New(Params{
		Log:       log,
		Config:    cfg,
		Codec:     codec,
		Events:    events,
		Guests:    guests,
		Email:     email.NewResolver(email.ResolverParams{Log: log, Config: cfg}),
		WhatsApp:  whatsapp.NewResolver(log, cfg),
		Templates: config.NewStaticTemplateHolder(config.DefaultMessageTemplates()),
	})

	return &testStack{svc: svc, codec: codec, events: events, guests: guests}
}

func (s *testStack) seedEvent(t *testing.T) eventdomain.Event {
	t.Helper()

	event, err := s.events.Create(context.Background(), eventdomain.CreateEventRequest{
		Title:       "Summer Wedding",
		CoupleNames: "Ana & Ben",
	})
	if err != nil {
		t.Fatalf("failed to create event: %v", err)
	}
	return event
}

func (s *testStack) seedGuest(t *testing.T, eventID snowflake.ID, firstName string) guestdomain.Guest {
	t.Helper()

	guest, err := s.guests.Create(context.Background(), guestdomain.CreateGuestRequest{
		EventID:   eventID.String(),
		FirstName: firstName,
	})
	if err != nil {
		t.Fatalf("failed to create guest: %v", err)
	}
	return guest
}

func TestGenerateLinksForAllGuests(t *testing.T) {
	stack := newTestStack(t, config.Config{})
	event := stack.seedEvent(t)
	first := stack.seedGuest(t, event.ID, "Clara")
	second := stack.seedGuest(t, event.ID, "Dana")

	links, err := stack.svc.GenerateLinks(context.Background(), GenerateLinksRequest{
		EventID: event.ID.String(),
	})
	if err != nil {
		t.Fatalf("failed to generate links: %v", err)
	}
	if len(links) != 2 {
		t.Fatalf("expected 2 links, got %d", len(links))
	}

	seen := map[snowflake.ID]bool{}
	for _, link := range links {
		seen[link.GuestID] = true
		if !strings.HasPrefix(link.Link, "https://wedding.example.com/guest-rsvp?token=") {
			t.Fatalf("unexpected link format %q", link.Link)
		}
		claims, err := stack.codec.Verify(link.Token)
		if err != nil {
			t.Fatalf("generated token does not verify: %v", err)
		}
		if claims.EventID != event.ID {
			t.Fatalf("token bound to wrong event %v", claims.EventID)
		}
	}
	if !seen[first.ID] || !seen[second.ID] {
		t.Fatal("expected links for both guests")
	}
}

func TestGenerateLinksForSelectedGuests(t *testing.T) {
	stack := newTestStack(t, config.Config{})
	event := stack.seedEvent(t)
	first := stack.seedGuest(t, event.ID, "Clara")
	stack.seedGuest(t, event.ID, "Dana")

	links, err := stack.svc.GenerateLinks(context.Background(), GenerateLinksRequest{
		EventID:  event.ID.String(),
		GuestIDs: []string{first.ID.String()},
	})
	if err != nil {
		t.Fatalf("failed to generate links: %v", err)
	}
	if len(links) != 1 || links[0].GuestID != first.ID {
		t.Fatalf("expected a single link for the selected guest, got %+v", links)
	}
}

func TestGenerateLinksBaseURLOverride(t *testing.T) {
	stack := newTestStack(t, config.Config{})
	event := stack.seedEvent(t)
	guest, err := stack.guests.Create(context.Background(), guestdomain.CreateGuestRequest{
		EventID:   event.ID.String(),
		FirstName: "Clara",
		LastName:  "Reyes",
		Email:     "clara@example.com",
	})
	if err != nil {
		t.Fatalf("failed to create guest: %v", err)
	}

	links, err := stack.svc.GenerateLinks(context.Background(), GenerateLinksRequest{
		EventID: event.ID.String(),
		BaseURL: "https://override.example.com/",
	})
	if err != nil {
		t.Fatalf("failed to generate links: %v", err)
	}
	if len(links) != 1 {
		t.Fatalf("expected one link, got %d", len(links))
	}
	link := links[0]
	if !strings.HasPrefix(link.Link, "https://override.example.com/guest-rsvp?token=") {
		t.Fatalf("expected the override base url, got %q", link.Link)
	}
	if link.GuestID != guest.ID || link.Name != "Clara Reyes" || link.Email != "clara@example.com" {
		t.Fatalf("unexpected link details %+v", link)
	}
}

func TestSendInvitesReportsUnknownGuests(t *testing.T) {
	stack := newTestStack(t, config.Config{ResendAPIKey: "platform-key"})
	event := stack.seedEvent(t)
	guest := stack.seedGuest(t, event.ID, "Clara")

	result, err := stack.svc.SendInvites(context.Background(), SendInvitesRequest{
		EventID:  event.ID.String(),
		GuestIDs: []string{guest.ID.String(), "424242"},
		Channel:  ChannelEmail,
	})
	if err != nil {
		t.Fatalf("failed to send invites: %v", err)
	}
	if len(result.Outcomes) != 2 {
		t.Fatalf("expected two outcomes, got %d", len(result.Outcomes))
	}

	var missing *InviteOutcome
	for i := range result.Outcomes {
		if result.Outcomes[i].GuestID == snowflake.ID(424242) {
			missing = &result.Outcomes[i]
		}
	}
	if missing == nil {
		t.Fatal("expected an outcome row for the unknown guest")
	}
	if missing.Error != "guest not found" {
		t.Fatalf("unexpected error %q", missing.Error)
	}
	if missing.EmailSent || missing.WhatsAppSent {
		t.Fatal("expected nothing sent for the unknown guest")
	}
	if result.Failed < 1 {
		t.Fatalf("expected the unknown guest counted as failed, got %d", result.Failed)
	}
}

func TestSendInvitesInvalidChannel(t *testing.T) {
	stack := newTestStack(t, config.Config{})
	event := stack.seedEvent(t)

	_, err := stack.svc.SendInvites(context.Background(), SendInvitesRequest{
		EventID: event.ID.String(),
		Channel: "pigeon",
	})
	if err != ErrInvalidChannel {
		t.Fatalf("expected ErrInvalidChannel, got %v", err)
	}
}

func TestSendInvitesEmailChannelNotConfigured(t *testing.T) {
	stack := newTestStack(t, config.Config{})
	event := stack.seedEvent(t)
	stack.seedGuest(t, event.ID, "Clara")

	_, err := stack.svc.SendInvites(context.Background(), SendInvitesRequest{
		EventID: event.ID.String(),
		Channel: ChannelEmail,
	})
	if err != notifdomain.ErrChannelNotConfigured {
		t.Fatalf("expected ErrChannelNotConfigured, got %v", err)
	}
}

func TestSendInvitesGuestWithoutContactDetails(t *testing.T) {
	// A platform resend key configures the email channel, but guests
	// without an email address simply report nothing sent.
	stack := newTestStack(t, config.Config{ResendAPIKey: "platform-key"})
	event := stack.seedEvent(t)
	guest := stack.seedGuest(t, event.ID, "Clara")

	result, err := stack.svc.SendInvites(context.Background(), SendInvitesRequest{
		EventID: event.ID.String(),
		Channel: ChannelEmail,
	})
	if err != nil {
		t.Fatalf("failed to send invites: %v", err)
	}
	if len(result.Outcomes) != 1 {
		t.Fatalf("expected one outcome, got %d", len(result.Outcomes))
	}
	outcome := result.Outcomes[0]
	if outcome.GuestID != guest.ID {
		t.Fatalf("unexpected guest %v", outcome.GuestID)
	}
	if outcome.Name != "Clara" {
		t.Fatalf("unexpected name %q", outcome.Name)
	}
	if !strings.Contains(outcome.RSVPLink, "/guest-rsvp?token=") {
		t.Fatalf("expected an rsvp link on the outcome, got %q", outcome.RSVPLink)
	}
	if outcome.EmailSent || outcome.WhatsAppSent {
		t.Fatal("expected nothing to be sent without contact details")
	}
	if result.Sent != 0 || result.Failed != 1 {
		t.Fatalf("unexpected totals sent=%d failed=%d", result.Sent, result.Failed)
	}
}

func TestSendInvitesUnknownEvent(t *testing.T) {
	stack := newTestStack(t, config.Config{})

	_, err := stack.svc.SendInvites(context.Background(), SendInvitesRequest{
		EventID: "12345",
		Channel: ChannelEmail,
	})
	if err != eventdomain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
