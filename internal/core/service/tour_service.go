package service

import (
	"context"
	"time"

	"github.com/gosimple/slug"
	"github.com/rs/zerolog"

	"github.com/trailhead/tours-api/internal/core/domain"
	"github.com/trailhead/tours-api/internal/core/ports"
)

// TourService implements tour CRUD. Rating summary fields are never set
// here beyond their creation defaults; the aggregator owns them.
type TourService struct {
	tours ports.TourRepository
	log   zerolog.Logger
}

func NewTourService(tours ports.TourRepository, log zerolog.Logger) *TourService {
	return &TourService{tours: tours, log: log}
}

func (s *TourService) Create(ctx context.Context, input ports.CreateTourInput) (*domain.Tour, error) {
	tour := &domain.Tour{
		Name:            input.Name,
		Slug:            slug.Make(input.Name),
		Duration:        input.Duration,
		MaxGroupSize:    input.MaxGroupSize,
		Difficulty:      input.Difficulty,
		Price:           input.Price,
		Summary:         input.Summary,
		Description:     input.Description,
		RatingsAverage:  domain.DefaultRatingsAverage,
		RatingsQuantity: domain.DefaultRatingsQuantity,
		CreatedAt:       time.Now().UTC(),
	}

	created, err := s.tours.Create(ctx, tour)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("tour_id", created.ID).Str("slug", created.Slug).Msg("tour created")
	return created, nil
}

func (s *TourService) Get(ctx context.Context, id string) (*domain.Tour, error) {
	return s.tours.FindByID(ctx, id)
}

func (s *TourService) List(ctx context.Context) ([]domain.Tour, error) {
	return s.tours.List(ctx)
}

func (s *TourService) Update(ctx context.Context, id string, patch ports.TourPatch) (*domain.Tour, error) {
	if patch.Name != nil {
		derived := slug.Make(*patch.Name)
		patch.Slug = &derived
	}
	return s.tours.Update(ctx, id, patch)
}

func (s *TourService) Delete(ctx context.Context, id string) error {
	return s.tours.Delete(ctx, id)
}
