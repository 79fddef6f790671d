package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, ceremony *Ceremony) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Ceremony, error)
	ListByEvent(ctx context.Context, db *gorm.DB, eventID snowflake.ID) ([]*Ceremony, error)
	Update(ctx context.Context, db *gorm.DB, ceremony *Ceremony) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error

	InsertMealOption(ctx context.Context, db *gorm.DB, option *MealOption) error
	FindMealOption(ctx context.Context, db *gorm.DB, id snowflake.ID) (*MealOption, error)
	ListMealOptions(ctx context.Context, db *gorm.DB, ceremonyID snowflake.ID) ([]*MealOption, error)
	DeleteMealOption(ctx context.Context, db *gorm.DB, id snowflake.ID) error

	UpsertAttendance(ctx context.Context, db *gorm.DB, record *GuestCeremony) error
	ListAttendanceByGuest(ctx context.Context, db *gorm.DB, guestID snowflake.ID) ([]*GuestCeremony, error)
}
