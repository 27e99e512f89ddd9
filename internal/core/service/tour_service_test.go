package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/trailhead/tours-api/internal/core/domain"
	"github.com/trailhead/tours-api/internal/core/ports"
)

func TestTourServiceCreateDerivesSlugAndDefaults(t *testing.T) {
	repo := newStubTourRepo()
	svc := NewTourService(repo, zerolog.Nop())

	created, err := svc.Create(context.Background(), ports.CreateTourInput{
		Name:         "The Forest Hiker",
		Duration:     5,
		MaxGroupSize: 25,
		Difficulty:   domain.DifficultyEasy,
		Price:        397,
		Summary:      "Breathtaking hike through the Canadian Banff National Park",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if created.Slug != "the-forest-hiker" {
		t.Errorf("slug = %q, want the-forest-hiker", created.Slug)
	}
	if created.RatingsAverage != domain.DefaultRatingsAverage {
		t.Errorf("ratings average = %v, want default %v", created.RatingsAverage, domain.DefaultRatingsAverage)
	}
	if created.RatingsQuantity != domain.DefaultRatingsQuantity {
		t.Errorf("ratings quantity = %v, want default %v", created.RatingsQuantity, domain.DefaultRatingsQuantity)
	}
}

func TestTourServiceUpdateRederivesSlug(t *testing.T) {
	repo := newStubTourRepo()
	repo.add(&domain.Tour{ID: "tour-1", Name: "The Forest Hiker", Slug: "the-forest-hiker"})
	svc := NewTourService(repo, zerolog.Nop())

	newName := "The Sea Explorer"
	updated, err := svc.Update(context.Background(), "tour-1", ports.TourPatch{Name: &newName})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Slug != "the-sea-explorer" {
		t.Errorf("slug = %q, want re-derived the-sea-explorer", updated.Slug)
	}
}
