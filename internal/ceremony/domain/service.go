package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type CreateCeremonyRequest struct {
	EventID     string
	Name        string
	Description string
	Location    string
	AttireCode  string
	StartsAt    *time.Time
	EndsAt      *time.Time
}

type UpdateCeremonyRequest struct {
	ID          string
	Name        *string
	Description *string
	Location    *string
	AttireCode  *string
	StartsAt    *time.Time
	EndsAt      *time.Time
}

type GetCeremonyRequest struct {
	ID string
}

type CreateMealOptionRequest struct {
	CeremonyID  string
	Name        string
	Description string
}

// SetAttendanceRequest upserts one guest's answer. EventID scopes the
// write: a ceremony from another event is treated as unknown.
type SetAttendanceRequest struct {
	GuestID      snowflake.ID
	EventID      snowflake.ID
	CeremonyID   snowflake.ID
	Attending    bool
	MealOptionID *snowflake.ID
}

// Attendance pairs a ceremony with the guest's stored answer, if any.
type Attendance struct {
	Ceremony    Ceremony       `json:"ceremony"`
	MealOptions []MealOption   `json:"meal_options,omitempty"`
	Record      *GuestCeremony `json:"record,omitempty"`
}

type Service interface {
	Create(context.Context, CreateCeremonyRequest) (Ceremony, error)
	GetByID(context.Context, GetCeremonyRequest) (Ceremony, error)
	ListByEvent(ctx context.Context, eventID string) ([]Ceremony, error)
	Update(context.Context, UpdateCeremonyRequest) (Ceremony, error)
	Delete(context.Context, GetCeremonyRequest) error

	AddMealOption(context.Context, CreateMealOptionRequest) (MealOption, error)
	ListMealOptions(ctx context.Context, ceremonyID string) ([]MealOption, error)
	RemoveMealOption(ctx context.Context, id string) error

	SetAttendance(context.Context, SetAttendanceRequest) error
	AttendanceForGuest(ctx context.Context, guestID, eventID snowflake.ID) ([]Attendance, error)
}

var (
	ErrInvalidID           = errors.New("invalid_id")
	ErrInvalidEvent        = errors.New("invalid_event")
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidMealOption   = errors.New("invalid_meal_option")
	ErrDuplicateMealOption = errors.New("duplicate_meal_option")
	ErrNotFound            = errors.New("not_found")
)
