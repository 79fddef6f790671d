package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, guest *Guest) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Guest, error)
	ListByEvent(ctx context.Context, db *gorm.DB, eventID snowflake.ID) ([]*Guest, error)
	Update(ctx context.Context, db *gorm.DB, guest *Guest) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
