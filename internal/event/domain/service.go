package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type CreateEventRequest struct {
	Title        string
	Description  string
	CoupleNames  string
	Location     string
	StartDate    *time.Time
	EndDate      *time.Time
	RSVPDeadline *time.Time
}

type UpdateEventRequest struct {
	ID           string
	Title        *string
	Description  *string
	CoupleNames  *string
	Location     *string
	StartDate    *time.Time
	EndDate      *time.Time
	RSVPDeadline *time.Time
}

type GetEventRequest struct {
	ID string
}

// UpdateEmailConfigRequest is the single write path for every sending
// credential on an event. Nil fields are left untouched.
type UpdateEmailConfigRequest struct {
	ID string

	Provider    *string
	APIKey      *string
	FromAddress *string
	FromDomain  *string
	ReplyTo     *string

	UseGmail    *bool
	UseOutlook  *bool
	UseSendGrid *bool

	SendGridAPIKey *string

	UseWhatsApp           *bool
	WhatsAppPhoneNumberID *string
	WhatsAppAccessToken   *string
}

type UpdateOAuthClientRequest struct {
	ID           string
	Provider     EmailProvider
	ClientID     string
	ClientSecret string
}

// OAuthStatus is the redacted connection summary for one provider.
type OAuthStatus struct {
	Provider   EmailProvider `json:"provider"`
	Configured bool          `json:"configured"`
	Connected  bool          `json:"connected"`
	Account    string        `json:"account,omitempty"`
	Enabled    bool          `json:"enabled"`
	ClientID   string        `json:"client_id,omitempty"`
}

type SaveOAuthTokensRequest struct {
	EventID      snowflake.ID
	Provider     EmailProvider
	AccessToken  string
	RefreshToken string
	Expiry       *time.Time
	Account      string

	// Enable switches the provider's use flag on. Set by the initial
	// connect; refresh grants leave the flag alone.
	Enable bool
}

type Service interface {
	Create(context.Context, CreateEventRequest) (Event, error)
	GetByID(context.Context, GetEventRequest) (Event, error)
	List(context.Context) ([]Event, error)
	Update(context.Context, UpdateEventRequest) (Event, error)
	Delete(context.Context, GetEventRequest) error

	UpdateEmailConfig(context.Context, UpdateEmailConfigRequest) (Event, error)
	OAuthStatus(ctx context.Context, id string, provider EmailProvider) (OAuthStatus, error)
	UpdateOAuthClient(context.Context, UpdateOAuthClientRequest) error
	SaveOAuthTokens(context.Context, SaveOAuthTokensRequest) error
	DisconnectOAuth(ctx context.Context, id string, provider EmailProvider) error
}

var (
	ErrInvalidTitle     = errors.New("invalid_title")
	ErrInvalidID        = errors.New("invalid_id")
	ErrInvalidProvider  = errors.New("invalid_provider")
	ErrInvalidDateRange = errors.New("invalid_date_range")
	ErrNotFound         = errors.New("not_found")
)
