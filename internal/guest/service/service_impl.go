package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/vowsuite/vowsuite/internal/clock"
	"github.com/vowsuite/vowsuite/internal/guest/domain"
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
		log:   p.Log.Named("guest.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateGuestRequest) (domain.Guest, error) {
	eventID, err := snowflake.ParseString(strings.TrimSpace(req.EventID))
	if err != nil || eventID == 0 {
		return domain.Guest{}, domain.ErrInvalidEvent
	}

	firstName := strings.TrimSpace(req.FirstName)
	if firstName == "" {
		return domain.Guest{}, domain.ErrInvalidName
	}

	email := strings.TrimSpace(req.Email)
	if email != "" && !strings.Contains(email, "@") {
		return domain.Guest{}, domain.ErrInvalidEmail
	}

	now := s.clock.Now().UTC()
	guest := domain.Guest{
		ID:             s.genID.Generate(),
		EventID:        eventID,
		FirstName:      firstName,
		LastName:       strings.TrimSpace(req.LastName),
		Email:          email,
		Phone:          strings.TrimSpace(req.Phone),
		RSVPStatus:     domain.StatusPending,
		PlusOneAllowed: req.PlusOneAllowed,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Insert(ctx, s.db, &guest); err != nil {
		return domain.Guest{}, err
	}
	return guest, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetGuestRequest) (domain.Guest, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Guest{}, err
	}
	return s.Lookup(ctx, id)
}

func (s *Service) Lookup(ctx context.Context, id snowflake.ID) (domain.Guest, error) {
	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Guest{}, err
	}
	if item == nil {
		return domain.Guest{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) ListByEvent(ctx context.Context, req domain.ListGuestsRequest) ([]domain.Guest, error) {
	eventID, err := snowflake.ParseString(strings.TrimSpace(req.EventID))
	if err != nil || eventID == 0 {
		return nil, domain.ErrInvalidEvent
	}

	items, err := s.repo.ListByEvent(ctx, s.db, eventID)
	if err != nil {
		return nil, err
	}

	guests := make([]domain.Guest, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		guests = append(guests, *item)
	}
	return guests, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateGuestRequest) (domain.Guest, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Guest{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Guest{}, err
	}
	if item == nil {
		return domain.Guest{}, domain.ErrNotFound
	}

	if req.FirstName != nil {
		firstName := strings.TrimSpace(*req.FirstName)
		if firstName == "" {
			return domain.Guest{}, domain.ErrInvalidName
		}
		item.FirstName = firstName
	}
	if req.LastName != nil {
		item.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if email != "" && !strings.Contains(email, "@") {
			return domain.Guest{}, domain.ErrInvalidEmail
		}
		item.Email = email
	}
	if req.Phone != nil {
		item.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.PlusOneAllowed != nil {
		item.PlusOneAllowed = *req.PlusOneAllowed
		if !item.PlusOneAllowed {
			item.PlusOneConfirmed = false
			item.PlusOneName = ""
		}
	}

	item.UpdatedAt = s.clock.Now().UTC()
	if err := s.repo.Update(ctx, s.db, item); err != nil {
		return domain.Guest{}, err
	}
	return *item, nil
}

func (s *Service) Delete(ctx context.Context, req domain.GetGuestRequest) error {
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

func (s *Service) ApplyRSVP(ctx context.Context, req domain.ApplyRSVPRequest) (domain.Guest, error) {
	if !req.Status.Valid() || req.Status == domain.StatusPending {
		return domain.Guest{}, domain.ErrInvalidStatus
	}

	item, err := s.repo.FindByID(ctx, s.db, req.GuestID)
	if err != nil {
		return domain.Guest{}, err
	}
	if item == nil {
		return domain.Guest{}, domain.ErrNotFound
	}

	if req.PlusOneConfirmed && !item.PlusOneAllowed {
		return domain.Guest{}, domain.ErrPlusOneNotAllowed
	}

	now := s.clock.Now().UTC()
	item.RSVPStatus = req.Status
	item.RSVPSubmittedAt = &now
	item.UpdatedAt = now

	if req.Status == domain.StatusDeclined {
		// A decline clears every attendance detail.
		item.PlusOneConfirmed = false
		item.PlusOneName = ""
		item.ChildrenDetails = nil
		item.DietaryRestrictions = ""
		item.AccommodationPreference = ""
	} else {
		item.PlusOneConfirmed = req.PlusOneConfirmed
		item.PlusOneName = strings.TrimSpace(req.PlusOneName)
		if !req.PlusOneConfirmed {
			item.PlusOneName = ""
		}
		item.ChildrenDetails = req.Children
		item.DietaryRestrictions = strings.TrimSpace(req.DietaryRestrictions)
		item.AccommodationPreference = strings.TrimSpace(req.AccommodationPreference)
	}

	if err := s.repo.Update(ctx, s.db, item); err != nil {
		return domain.Guest{}, err
	}
	return *item, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
