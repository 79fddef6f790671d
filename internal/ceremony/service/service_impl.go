package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/vowsuite/vowsuite/internal/ceremony/domain"
	"github.com/vowsuite/vowsuite/internal/clock"
	"github.com/vowsuite/vowsuite/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("ceremony.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateCeremonyRequest) (domain.Ceremony, error) {
	eventID, err := snowflake.ParseString(strings.TrimSpace(req.EventID))
	if err != nil || eventID == 0 {
		return domain.Ceremony{}, domain.ErrInvalidEvent
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Ceremony{}, domain.ErrInvalidName
	}

	now := s.clock.Now().UTC()
	ceremony := domain.Ceremony{
		ID:          s.genID.Generate(),
		EventID:     eventID,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Location:    strings.TrimSpace(req.Location),
		AttireCode:  strings.TrimSpace(req.AttireCode),
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Insert(ctx, s.db, &ceremony); err != nil {
		return domain.Ceremony{}, err
	}
	return ceremony, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetCeremonyRequest) (domain.Ceremony, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Ceremony{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Ceremony{}, err
	}
	if item == nil {
		return domain.Ceremony{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) ListByEvent(ctx context.Context, rawEventID string) ([]domain.Ceremony, error) {
	eventID, err := snowflake.ParseString(strings.TrimSpace(rawEventID))
	if err != nil || eventID == 0 {
		return nil, domain.ErrInvalidEvent
	}

	items, err := s.repo.ListByEvent(ctx, s.db, eventID)
	if err != nil {
		return nil, err
	}

	ceremonies := make([]domain.Ceremony, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		ceremonies = append(ceremonies, *item)
	}
	return ceremonies, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateCeremonyRequest) (domain.Ceremony, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Ceremony{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Ceremony{}, err
	}
	if item == nil {
		return domain.Ceremony{}, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Ceremony{}, domain.ErrInvalidName
		}
		item.Name = name
	}
	if req.Description != nil {
		item.Description = strings.TrimSpace(*req.Description)
	}
	if req.Location != nil {
		item.Location = strings.TrimSpace(*req.Location)
	}
	if req.AttireCode != nil {
		item.AttireCode = strings.TrimSpace(*req.AttireCode)
	}
	if req.StartsAt != nil {
		item.StartsAt = req.StartsAt
	}
	if req.EndsAt != nil {
		item.EndsAt = req.EndsAt
	}

	item.UpdatedAt = s.clock.Now().UTC()
	if err := s.repo.Update(ctx, s.db, item); err != nil {
		return domain.Ceremony{}, err
	}
	return *item, nil
}

func (s *Service) Delete(ctx context.Context, req domain.GetCeremonyRequest) error {
	id, err := s.parseID(req.ID)
	if err != nil {
		return err
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}
	return s.repo.Delete(ctx, s.db, id)
}

func (s *Service) AddMealOption(ctx context.Context, req domain.CreateMealOptionRequest) (domain.MealOption, error) {
	ceremonyID, err := s.parseID(req.CeremonyID)
	if err != nil {
		return domain.MealOption{}, err
	}

	ceremony, err := s.repo.FindByID(ctx, s.db, ceremonyID)
	if err != nil {
		return domain.MealOption{}, err
	}
	if ceremony == nil {
		return domain.MealOption{}, domain.ErrNotFound
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.MealOption{}, domain.ErrInvalidName
	}

	now := s.clock.Now().UTC()
	option := domain.MealOption{
		ID:          s.genID.Generate(),
		CeremonyID:  ceremonyID,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.InsertMealOption(ctx, s.db, &option); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.MealOption{}, domain.ErrDuplicateMealOption
		}
		return domain.MealOption{}, err
	}
	return option, nil
}

func (s *Service) ListMealOptions(ctx context.Context, rawCeremonyID string) ([]domain.MealOption, error) {
	ceremonyID, err := s.parseID(rawCeremonyID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListMealOptions(ctx, s.db, ceremonyID)
	if err != nil {
		return nil, err
	}

	options := make([]domain.MealOption, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		options = append(options, *item)
	}
	return options, nil
}

func (s *Service) RemoveMealOption(ctx context.Context, rawID string) error {
	id, err := s.parseID(rawID)
	if err != nil {
		return err
	}

	item, err := s.repo.FindMealOption(ctx, s.db, id)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}
	return s.repo.DeleteMealOption(ctx, s.db, id)
}

func (s *Service) SetAttendance(ctx context.Context, req domain.SetAttendanceRequest) error {
	ceremony, err := s.repo.FindByID(ctx, s.db, req.CeremonyID)
	if err != nil {
		return err
	}
	if ceremony == nil {
		return domain.ErrNotFound
	}
	// A ceremony from another event is treated as unknown.
	if req.EventID != 0 && ceremony.EventID != req.EventID {
		return domain.ErrNotFound
	}

	// A meal choice must belong to the ceremony being answered.
	if req.MealOptionID != nil {
		option, err := s.repo.FindMealOption(ctx, s.db, *req.MealOptionID)
		if err != nil {
			return err
		}
		if option == nil || option.CeremonyID != req.CeremonyID {
			return domain.ErrInvalidMealOption
		}
	}

	now := s.clock.Now().UTC()
	record := domain.GuestCeremony{
		ID:           s.genID.Generate(),
		GuestID:      req.GuestID,
		CeremonyID:   req.CeremonyID,
		Attending:    req.Attending,
		MealOptionID: req.MealOptionID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if !req.Attending {
		record.MealOptionID = nil
	}

	return s.repo.UpsertAttendance(ctx, s.db, &record)
}

func (s *Service) AttendanceForGuest(ctx context.Context, guestID, eventID snowflake.ID) ([]domain.Attendance, error) {
	ceremonies, err := s.repo.ListByEvent(ctx, s.db, eventID)
	if err != nil {
		return nil, err
	}

	records, err := s.repo.ListAttendanceByGuest(ctx, s.db, guestID)
	if err != nil {
		return nil, err
	}
	byCeremony := make(map[snowflake.ID]*domain.GuestCeremony, len(records))
	for _, record := range records {
		if record == nil {
			continue
		}
		byCeremony[record.CeremonyID] = record
	}

	out := make([]domain.Attendance, 0, len(ceremonies))
	for _, ceremony := range ceremonies {
		if ceremony == nil {
			continue
		}

		options, err := s.repo.ListMealOptions(ctx, s.db, ceremony.ID)
		if err != nil {
			return nil, err
		}
		mealOptions := make([]domain.MealOption, 0, len(options))
		for _, option := range options {
			if option == nil {
				continue
			}
			mealOptions = append(mealOptions, *option)
		}

		out = append(out, domain.Attendance{
			Ceremony:    *ceremony,
			MealOptions: mealOptions,
			Record:      byCeremony[ceremony.ID],
		})
	}
	return out, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
