package whatsapp

import (
	"testing"

	"github.com/vowsuite/vowsuite/internal/config"
	eventdomain "github.com/vowsuite/vowsuite/internal/event/domain"
	"github.com/vowsuite/vowsuite/internal/notification/domain"
	"go.uber.org/zap"
)

func TestNormalizePhone(t *testing.T) {
	channel := New("123", "token", "972", nil)

	tests := []struct {
		in   string
		want string
	}{
		{"050-123-4567", "972501234567"},
		{"+972 50 123 4567", "972501234567"},
		{"9720501234567", "972501234567"},
		{"(050) 1234567", "972501234567"},
		{"14155552671", "14155552671"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := channel.NormalizePhone(tt.in); got != tt.want {
			t.Fatalf("NormalizePhone(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizePhoneNoCountryCode(t *testing.T) {
	channel := New("123", "token", "", nil)

	if got := channel.NormalizePhone("050-123-4567"); got != "0501234567" {
		t.Fatalf("expected raw digits, got %q", got)
	}
}

func TestIsConfigured(t *testing.T) {
	if New("", "token", "", nil).IsConfigured() {
		t.Fatal("expected unconfigured without phone number id")
	}
	if New("123", "", "", nil).IsConfigured() {
		t.Fatal("expected unconfigured without access token")
	}
	if !New("123", "token", "", nil).IsConfigured() {
		t.Fatal("expected configured")
	}
}

func TestResolverEventCredentialsWin(t *testing.T) {
	r := NewResolver(zap.NewNop(), config.Config{
		WhatsAppPhoneNumberID: "platform-id",
		WhatsAppAccessToken:   "platform-token",
	})

	event := eventdomain.Event{
		UseWhatsApp:           true,
		WhatsAppPhoneNumberID: "event-id",
		WhatsAppAccessToken:   "event-token",
	}

	channel, err := r.FromEvent(event)
	if err != nil {
		t.Fatalf("failed to resolve: %v", err)
	}
	if channel.(*Channel).phoneNumberID != "event-id" {
		t.Fatal("expected event credentials to win")
	}
}

func TestResolverFallsBackToPlatform(t *testing.T) {
	r := NewResolver(zap.NewNop(), config.Config{
		WhatsAppPhoneNumberID: "platform-id",
		WhatsAppAccessToken:   "platform-token",
	})

	channel, err := r.FromEvent(eventdomain.Event{UseWhatsApp: true})
	if err != nil {
		t.Fatalf("failed to resolve: %v", err)
	}
	if channel.(*Channel).phoneNumberID != "platform-id" {
		t.Fatal("expected platform credentials")
	}
}

func TestResolverDisabledOrMissing(t *testing.T) {
	r := NewResolver(zap.NewNop(), config.Config{})

	if _, err := r.FromEvent(eventdomain.Event{}); err != domain.ErrChannelNotConfigured {
		t.Fatalf("expected ErrChannelNotConfigured, got %v", err)
	}
	if _, err := r.FromEvent(eventdomain.Event{UseWhatsApp: true}); err != domain.ErrChannelNotConfigured {
		t.Fatalf("expected ErrChannelNotConfigured, got %v", err)
	}
}
