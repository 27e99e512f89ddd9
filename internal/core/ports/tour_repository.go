package ports

import (
	"context"

	"github.com/trailhead/tours-api/internal/core/domain"
)

// TourPatch carries the mutable fields of a tour. Nil fields are left
// untouched. Rating summary fields are owned by the aggregator and are not
// patchable here.
type TourPatch struct {
	Name         *string
	Slug         *string
	Duration     *int
	MaxGroupSize *int
	Difficulty   *domain.TourDifficulty
	Price        *float64
	Summary      *string
	Description  *string
}

// TourRepository defines persistence for tours.
type TourRepository interface {
	Create(ctx context.Context, tour *domain.Tour) (*domain.Tour, error)
	FindByID(ctx context.Context, id string) (*domain.Tour, error)
	List(ctx context.Context) ([]domain.Tour, error)
	Update(ctx context.Context, id string, patch TourPatch) (*domain.Tour, error)
	Delete(ctx context.Context, id string) error
	// UpdateRatingSummary writes the cached count/average for exactly one
	// tour; recomputes for different tours never interfere.
	UpdateRatingSummary(ctx context.Context, id string, summary domain.RatingSummary) error
}
