package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// RSVPStatus values follow the guest response lifecycle.
type RSVPStatus string

const (
	StatusPending   RSVPStatus = "pending"
	StatusConfirmed RSVPStatus = "confirmed"
	StatusDeclined  RSVPStatus = "declined"
)

func (s RSVPStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusDeclined:
		return true
	}
	return false
}

type ChildDetail struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

type Guest struct {
	ID      snowflake.ID `gorm:"primaryKey" json:"id"`
	EventID snowflake.ID `gorm:"not null;index" json:"event_id"`

	FirstName string `gorm:"not null" json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`

	RSVPStatus       RSVPStatus `gorm:"column:rsvp_status;not null;default:pending" json:"rsvp_status"`
	PlusOneAllowed   bool       `gorm:"not null;default:false" json:"plus_one_allowed"`
	PlusOneConfirmed bool       `gorm:"not null;default:false" json:"plus_one_confirmed"`
	PlusOneName      string     `json:"plus_one_name,omitempty"`

	ChildrenDetails         datatypes.JSONSlice[ChildDetail] `gorm:"type:jsonb" json:"children_details,omitempty"`
	DietaryRestrictions     string                           `json:"dietary_restrictions,omitempty"`
	AccommodationPreference string                           `json:"accommodation_preference,omitempty"`

	RSVPSubmittedAt *time.Time `gorm:"column:rsvp_submitted_at" json:"rsvp_submitted_at,omitempty"`
	CreatedAt       time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Guest) TableName() string { return "guests" }

// FullName joins the guest's names for display and greetings.
func (g Guest) FullName() string {
	if g.LastName == "" {
		return g.FirstName
	}
	return g.FirstName + " " + g.LastName
}
