package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/vowsuite/vowsuite/internal/ceremony/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, ceremony *domain.Ceremony) error {
	return db.WithContext(ctx).Create(ceremony).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Ceremony, error) {
	var ceremony domain.Ceremony
	err := db.WithContext(ctx).
		Where("id = ?", id).
		Take(&ceremony).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ceremony, nil
}

func (r *repo) ListByEvent(ctx context.Context, db *gorm.DB, eventID snowflake.ID) ([]*domain.Ceremony, error) {
	var ceremonies []*domain.Ceremony
	err := db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("starts_at asc, id asc").
		Find(&ceremonies).Error
	if err != nil {
		return nil, err
	}
	return ceremonies, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, ceremony *domain.Ceremony) error {
	return db.WithContext(ctx).Save(ceremony).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&domain.Ceremony{}).Error
}

func (r *repo) InsertMealOption(ctx context.Context, db *gorm.DB, option *domain.MealOption) error {
	return db.WithContext(ctx).Create(option).Error
}

func (r *repo) FindMealOption(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.MealOption, error) {
	var option domain.MealOption
	err := db.WithContext(ctx).
		Where("id = ?", id).
		Take(&option).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &option, nil
}

func (r *repo) ListMealOptions(ctx context.Context, db *gorm.DB, ceremonyID snowflake.ID) ([]*domain.MealOption, error) {
	var options []*domain.MealOption
	err := db.WithContext(ctx).
		Where("ceremony_id = ?", ceremonyID).
		Order("id asc").
		Find(&options).Error
	if err != nil {
		return nil, err
	}
	return options, nil
}

func (r *repo) DeleteMealOption(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&domain.MealOption{}).Error
}

func (r *repo) UpsertAttendance(ctx context.Context, db *gorm.DB, record *domain.GuestCeremony) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "guest_id"}, {Name: "ceremony_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"attending",
				"meal_option_id",
				"updated_at",
			}),
		}).
		Create(record).Error
}

func (r *repo) ListAttendanceByGuest(ctx context.Context, db *gorm.DB, guestID snowflake.ID) ([]*domain.GuestCeremony, error) {
	var records []*domain.GuestCeremony
	err := db.WithContext(ctx).
		Where("guest_id = ?", guestID).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
