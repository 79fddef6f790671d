package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, event *Event) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Event, error)
	List(ctx context.Context, db *gorm.DB) ([]*Event, error)
	UpdateColumns(ctx context.Context, db *gorm.DB, id snowflake.ID, columns map[string]any) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
