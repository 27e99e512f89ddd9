package ports

import (
	"context"

	"github.com/trailhead/tours-api/internal/core/domain"
)

// CreateTourInput carries all data needed to create a tour. The slug and the
// rating summary defaults are derived by the service.
type CreateTourInput struct {
	Name         string
	Duration     int
	MaxGroupSize int
	Difficulty   domain.TourDifficulty
	Price        float64
	Summary      string
	Description  string
}

// TourService defines use-case operations for tours.
type TourService interface {
	Create(ctx context.Context, input CreateTourInput) (*domain.Tour, error)
	Get(ctx context.Context, id string) (*domain.Tour, error)
	List(ctx context.Context) ([]domain.Tour, error)
	Update(ctx context.Context, id string, patch TourPatch) (*domain.Tour, error)
	Delete(ctx context.Context, id string) error
}
