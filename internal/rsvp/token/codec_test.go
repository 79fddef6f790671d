package token

import (
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/vowsuite/vowsuite/internal/clock"
)

func newTestCodec(t *testing.T, clk clock.Clock) *Codec {
	t.Helper()

	codec, err := NewCodec([]byte("test-secret"), 30*24*time.Hour, clk)
	if err != nil {
		t.Fatalf("failed to create codec: %v", err)
	}
	return codec
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	codec := newTestCodec(t, clk)

	guestID := snowflake.ID(1234567890)
	eventID := snowflake.ID(9876543210)

	raw, err := codec.Issue(guestID, eventID)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	claims, err := codec.Verify(raw)
	if err != nil {
		t.Fatalf("failed to verify token: %v", err)
	}
	if claims.GuestID != guestID {
		t.Fatalf("expected guest %v, got %v", guestID, claims.GuestID)
	}
	if claims.EventID != eventID {
		t.Fatalf("expected event %v, got %v", eventID, claims.EventID)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	codec := newTestCodec(t, clk)

	raw, err := codec.Issue(1, 2)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	clk.Advance(30*24*time.Hour + time.Minute)

	if _, err := codec.Verify(raw); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyTamperedToken(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	codec := newTestCodec(t, clk)

	raw, err := codec.Issue(1, 2)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		t.Fatalf("expected three token segments, got %d", len(parts))
	}
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	if _, err := codec.Verify(tampered); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	codec := newTestCodec(t, clk)

	other, err := NewCodec([]byte("other-secret"), time.Hour, clk)
	if err != nil {
		t.Fatalf("failed to create codec: %v", err)
	}

	raw, err := other.Issue(1, 2)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	if _, err := codec.Verify(raw); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyGarbage(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	codec := newTestCodec(t, clk)

	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := codec.Verify(raw); err != ErrInvalidToken {
			t.Fatalf("expected ErrInvalidToken for %q, got %v", raw, err)
		}
	}
}
