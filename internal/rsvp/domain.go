package rsvp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	ceremonydomain "github.com/vowsuite/vowsuite/internal/ceremony/domain"
	guestdomain "github.com/vowsuite/vowsuite/internal/guest/domain"
)

// EventSummary is the public slice of an event shown on the RSVP page.
// Credentials never appear here.
type EventSummary struct {
	ID           snowflake.ID `json:"id"`
	Title        string       `json:"title"`
	CoupleNames  string       `json:"couple_names"`
	Description  string       `json:"description,omitempty"`
	Location     string       `json:"location"`
	StartDate    *time.Time   `json:"start_date,omitempty"`
	EndDate      *time.Time   `json:"end_date,omitempty"`
	RSVPDeadline *time.Time   `json:"rsvp_deadline,omitempty"`
}

type VerifyResult struct {
	Guest      guestdomain.Guest           `json:"guest"`
	Event      EventSummary                `json:"event"`
	Ceremonies []ceremonydomain.Attendance `json:"ceremonies"`
}

type CeremonyResponse struct {
	CeremonyID   string `json:"ceremony_id"`
	Attending    bool   `json:"attending"`
	MealOptionID string `json:"meal_option_id,omitempty"`
}

type SubmitRequest struct {
	Token                   string
	Status                  string
	PlusOneConfirmed        bool
	PlusOneName             string
	Children                []guestdomain.ChildDetail
	DietaryRestrictions     string
	AccommodationPreference string
	Ceremonies              []CeremonyResponse
}

type SubmitResult struct {
	Guest        guestdomain.Guest `json:"guest"`
	EmailSent    bool              `json:"email_sent"`
	WhatsAppSent bool              `json:"whatsapp_sent"`
}

type Service interface {
	Verify(ctx context.Context, rawToken string) (*VerifyResult, error)
	Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error)
}

// FieldError ties a validation failure to the submitted field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates the field failures of one submission.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
