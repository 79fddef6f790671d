package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type CreateGuestRequest struct {
	EventID        string
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	PlusOneAllowed bool
}

type UpdateGuestRequest struct {
	ID             string
	FirstName      *string
	LastName       *string
	Email          *string
	Phone          *string
	PlusOneAllowed *bool
}

type GetGuestRequest struct {
	ID string
}

type ListGuestsRequest struct {
	EventID string
}

// ApplyRSVPRequest is the single write path for a guest's response.
// It is used by both the public RSVP flow and admin corrections.
type ApplyRSVPRequest struct {
	GuestID                 snowflake.ID
	Status                  RSVPStatus
	PlusOneConfirmed        bool
	PlusOneName             string
	Children                []ChildDetail
	DietaryRestrictions     string
	AccommodationPreference string
}

type Service interface {
	Create(context.Context, CreateGuestRequest) (Guest, error)
	GetByID(context.Context, GetGuestRequest) (Guest, error)
	ListByEvent(context.Context, ListGuestsRequest) ([]Guest, error)
	Update(context.Context, UpdateGuestRequest) (Guest, error)
	Delete(context.Context, GetGuestRequest) error

	Lookup(ctx context.Context, id snowflake.ID) (Guest, error)
	ApplyRSVP(context.Context, ApplyRSVPRequest) (Guest, error)
}

var (
	ErrInvalidID         = errors.New("invalid_id")
	ErrInvalidEvent      = errors.New("invalid_event")
	ErrInvalidName       = errors.New("invalid_name")
	ErrInvalidEmail      = errors.New("invalid_email")
	ErrInvalidStatus     = errors.New("invalid_status")
	ErrPlusOneNotAllowed = errors.New("plus_one_not_allowed")
	ErrNotFound          = errors.New("not_found")
)
