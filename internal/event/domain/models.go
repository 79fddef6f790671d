package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// EmailProvider is the sending backend selected for an event.
type EmailProvider string

const (
	ProviderResend   EmailProvider = "resend"
	ProviderSendGrid EmailProvider = "sendgrid"
	ProviderGmail    EmailProvider = "gmail"
	ProviderOutlook  EmailProvider = "outlook"
)

func (p EmailProvider) Valid() bool {
	switch p {
	case ProviderResend, ProviderSendGrid, ProviderGmail, ProviderOutlook:
		return true
	}
	return false
}

// Event carries both the public wedding details and the per-event
// sending credentials. Secrets never serialize; handlers expose
// redacted summaries instead.
type Event struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	Title        string       `gorm:"not null" json:"title"`
	Description  string       `json:"description"`
	CoupleNames  string       `json:"couple_names"`
	Location     string       `json:"location"`
	StartDate    *time.Time   `json:"start_date,omitempty"`
	EndDate      *time.Time   `json:"end_date,omitempty"`
	RSVPDeadline *time.Time   `gorm:"column:rsvp_deadline" json:"rsvp_deadline,omitempty"`

	EmailProvider    EmailProvider `gorm:"not null;default:resend" json:"email_provider"`
	EmailAPIKey      string        `gorm:"column:email_api_key" json:"-"`
	EmailFromAddress string        `json:"email_from_address"`
	EmailFromDomain  string        `json:"email_from_domain"`
	EmailReplyTo     string        `json:"email_reply_to"`

	GmailClientID     string     `json:"-"`
	GmailClientSecret string     `json:"-"`
	GmailAccessToken  string     `json:"-"`
	GmailRefreshToken string     `json:"-"`
	GmailTokenExpiry  *time.Time `json:"-"`
	GmailAccount      string     `json:"gmail_account,omitempty"`
	UseGmail          bool       `gorm:"not null;default:false" json:"use_gmail"`

	OutlookClientID     string     `json:"-"`
	OutlookClientSecret string     `json:"-"`
	OutlookAccessToken  string     `json:"-"`
	OutlookRefreshToken string     `json:"-"`
	OutlookTokenExpiry  *time.Time `json:"-"`
	OutlookAccount      string     `json:"outlook_account,omitempty"`
	UseOutlook          bool       `gorm:"not null;default:false" json:"use_outlook"`

	SendGridAPIKey string `gorm:"column:send_grid_api_key" json:"-"`
	UseSendGrid    bool   `gorm:"not null;default:false" json:"use_send_grid"`

	WhatsAppPhoneNumberID string `gorm:"column:whatsapp_phone_number_id" json:"-"`
	WhatsAppAccessToken   string `gorm:"column:whatsapp_access_token" json:"-"`
	UseWhatsApp           bool   `gorm:"column:use_whatsapp;not null;default:false" json:"use_whatsapp"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Event) TableName() string { return "events" }
