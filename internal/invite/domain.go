package invite

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

// Channel selects where invites go.
const (
	ChannelEmail    = "email"
	ChannelWhatsApp = "whatsapp"
	ChannelBoth     = "both"
)

type GenerateLinksRequest struct {
	EventID  string
	GuestIDs []string // empty means every guest on the event
	BaseURL  string   // overrides the configured public URL when set
}

type GuestLink struct {
	GuestID snowflake.ID `json:"guest_id"`
	Name    string       `json:"name"`
	Email   string       `json:"email,omitempty"`
	Phone   string       `json:"phone,omitempty"`
	Token   string       `json:"token"`
	Link    string       `json:"rsvp_link"`
}

type SendInvitesRequest struct {
	EventID  string
	GuestIDs []string
	Channel  string
	BaseURL  string
}

// InviteOutcome is one guest's delivery report. A failed guest never
// blocks the rest of the batch.
type InviteOutcome struct {
	GuestID      snowflake.ID `json:"guest_id"`
	Name         string       `json:"name"`
	Email        string       `json:"email,omitempty"`
	Phone        string       `json:"phone,omitempty"`
	RSVPLink     string       `json:"rsvp_link,omitempty"`
	EmailSent    bool         `json:"email_sent"`
	WhatsAppSent bool         `json:"whatsapp_sent"`
	Error        string       `json:"error,omitempty"`
}

type SendInvitesResult struct {
	Outcomes []InviteOutcome `json:"outcomes"`
	Sent     int             `json:"sent"`
	Failed   int             `json:"failed"`
}

type Service interface {
	GenerateLinks(ctx context.Context, req GenerateLinksRequest) ([]GuestLink, error)
	SendInvites(ctx context.Context, req SendInvitesRequest) (*SendInvitesResult, error)
}

var ErrInvalidChannel = errors.New("invalid_channel")
