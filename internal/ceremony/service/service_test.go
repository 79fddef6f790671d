package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/vowsuite/vowsuite/internal/ceremony/domain"
	"github.com/vowsuite/vowsuite/internal/ceremony/repository"
	"github.com/vowsuite/vowsuite/internal/clock"
	"github.com/vowsuite/vowsuite/pkg/db"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) domain.Service {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := dbConn.AutoMigrate(&domain.Ceremony{}, &domain.MealOption{}, &domain.GuestCeremony{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}

	return New(Params{
		DB:    dbConn,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)),
		Repo:  repository.Provide(),
	})
}

func mustCreateCeremony(t *testing.T, svc domain.Service, eventID string) domain.Ceremony {
	t.Helper()
	ceremony, err := svc.Create(context.Background(), domain.CreateCeremonyRequest{
		EventID:  eventID,
		Name:     "Reception",
		Location: "Garden Hall",
	})
	if err != nil {
		t.Fatalf("create ceremony: %v", err)
	}
	return ceremony
}

func TestCreateAndUpdateDetails(t *testing.T) {
	svc := newTestService(t)

	starts := time.Date(2025, 9, 6, 15, 0, 0, 0, time.UTC)
	ends := starts.Add(5 * time.Hour)
	ceremony, err := svc.Create(context.Background(), domain.CreateCeremonyRequest{
		EventID:    "101",
		Name:       "Reception",
		AttireCode: "black tie",
		StartsAt:   &starts,
		EndsAt:     &ends,
	})
	if err != nil {
		t.Fatalf("create ceremony: %v", err)
	}
	if ceremony.AttireCode != "black tie" {
		t.Fatalf("unexpected attire code %q", ceremony.AttireCode)
	}
	if ceremony.EndsAt == nil || !ceremony.EndsAt.Equal(ends) {
		t.Fatalf("unexpected end time %v", ceremony.EndsAt)
	}

	attire := "cocktail"
	later := ends.Add(time.Hour)
	updated, err := svc.Update(context.Background(), domain.UpdateCeremonyRequest{
		ID:         ceremony.ID.String(),
		AttireCode: &attire,
		EndsAt:     &later,
	})
	if err != nil {
		t.Fatalf("update ceremony: %v", err)
	}
	if updated.AttireCode != "cocktail" {
		t.Fatalf("unexpected attire code %q", updated.AttireCode)
	}
	if updated.EndsAt == nil || !updated.EndsAt.Equal(later) {
		t.Fatalf("unexpected end time %v", updated.EndsAt)
	}
}

func TestAddMealOptionDuplicateName(t *testing.T) {
	svc := newTestService(t)
	ceremony := mustCreateCeremony(t, svc, "101")

	_, err := svc.AddMealOption(context.Background(), domain.CreateMealOptionRequest{
		CeremonyID: ceremony.ID.String(),
		Name:       "Salmon",
	})
	if err != nil {
		t.Fatalf("add meal option: %v", err)
	}

	_, err = svc.AddMealOption(context.Background(), domain.CreateMealOptionRequest{
		CeremonyID: ceremony.ID.String(),
		Name:       "Salmon",
	})
	if !errors.Is(err, domain.ErrDuplicateMealOption) {
		t.Fatalf("expected ErrDuplicateMealOption, got %v", err)
	}

	// The same name on another ceremony is fine.
	other := mustCreateCeremony(t, svc, "102")
	if _, err := svc.AddMealOption(context.Background(), domain.CreateMealOptionRequest{
		CeremonyID: other.ID.String(),
		Name:       "Salmon",
	}); err != nil {
		t.Fatalf("add meal option on other ceremony: %v", err)
	}
}

func TestSetAttendanceScopedToEvent(t *testing.T) {
	svc := newTestService(t)
	ceremony := mustCreateCeremony(t, svc, "101")

	err := svc.SetAttendance(context.Background(), domain.SetAttendanceRequest{
		GuestID:    snowflake.ID(555),
		EventID:    snowflake.ID(202),
		CeremonyID: ceremony.ID,
		Attending:  true,
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign event, got %v", err)
	}

	err = svc.SetAttendance(context.Background(), domain.SetAttendanceRequest{
		GuestID:    snowflake.ID(555),
		EventID:    ceremony.EventID,
		CeremonyID: ceremony.ID,
		Attending:  true,
	})
	if err != nil {
		t.Fatalf("set attendance: %v", err)
	}
}
