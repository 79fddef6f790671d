package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Ceremony struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	EventID     snowflake.ID `gorm:"not null;index" json:"event_id"`
	Name        string       `gorm:"not null" json:"name"`
	Description string       `json:"description,omitempty"`
	Location    string       `json:"location,omitempty"`
	AttireCode  string       `json:"attire_code,omitempty"`
	StartsAt    *time.Time   `json:"starts_at,omitempty"`
	EndsAt      *time.Time   `json:"ends_at,omitempty"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Ceremony) TableName() string { return "ceremonies" }

// MealOption names are unique within a ceremony.
type MealOption struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	CeremonyID  snowflake.ID `gorm:"not null;uniqueIndex:uq_meal_option_name" json:"ceremony_id"`
	Name        string       `gorm:"not null;uniqueIndex:uq_meal_option_name" json:"name"`
	Description string       `json:"description,omitempty"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (MealOption) TableName() string { return "meal_options" }

// GuestCeremony records one guest's attendance answer for one ceremony.
// The (guest, ceremony) pair is unique; writes go through an upsert.
type GuestCeremony struct {
	ID           snowflake.ID  `gorm:"primaryKey" json:"id"`
	GuestID      snowflake.ID  `gorm:"not null;uniqueIndex:uq_guest_ceremony" json:"guest_id"`
	CeremonyID   snowflake.ID  `gorm:"not null;uniqueIndex:uq_guest_ceremony" json:"ceremony_id"`
	Attending    bool          `gorm:"not null;default:false" json:"attending"`
	MealOptionID *snowflake.ID `json:"meal_option_id,omitempty"`
	CreatedAt    time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (GuestCeremony) TableName() string { return "guest_ceremonies" }
