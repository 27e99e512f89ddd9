package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/trailhead/tours-api/internal/api/metrics"
	"github.com/trailhead/tours-api/internal/core/domain"
	"github.com/trailhead/tours-api/internal/core/ports"
)

// ReviewService implements review CRUD and keeps each tour's cached rating
// summary in sync with its review set.
type ReviewService struct {
	reviews ports.ReviewRepository
	tours   ports.TourRepository
	log     zerolog.Logger
}

func NewReviewService(reviews ports.ReviewRepository, tours ports.TourRepository, log zerolog.Logger) *ReviewService {
	return &ReviewService{reviews: reviews, tours: tours, log: log}
}

func (s *ReviewService) Create(ctx context.Context, input ports.CreateReviewInput) (*domain.Review, error) {
	if _, err := s.tours.FindByID(ctx, input.TourID); err != nil {
		return nil, err
	}

	review := &domain.Review{
		Text:      input.Text,
		Rating:    input.Rating,
		TourID:    input.TourID,
		AuthorID:  input.AuthorID,
		CreatedAt: time.Now().UTC(),
	}

	created, err := s.reviews.Create(ctx, review)
	if err != nil {
		return nil, err
	}

	s.recomputeRating(ctx, created.TourID)
	return created, nil
}

func (s *ReviewService) Get(ctx context.Context, id string) (*domain.Review, error) {
	return s.reviews.FindByID(ctx, id)
}

func (s *ReviewService) List(ctx context.Context, tourID string) ([]domain.Review, error) {
	return s.reviews.List(ctx, tourID)
}

func (s *ReviewService) Update(ctx context.Context, input ports.MutateReviewInput, patch ports.ReviewPatch) (*domain.Review, error) {
	// Fetch the pre-image to authorize and to learn the owning tour before
	// the mutation lands. Interleaved mutations on the same tour may observe
	// each other's intermediate state; the last recompute wins.
	existing, err := s.reviews.FindByID(ctx, input.ReviewID)
	if err != nil {
		return nil, err
	}
	if err := authorizeReviewMutation(existing, input); err != nil {
		return nil, err
	}

	updated, err := s.reviews.Update(ctx, input.ReviewID, patch)
	if err != nil {
		return nil, err
	}

	s.recomputeRating(ctx, existing.TourID)
	return updated, nil
}

func (s *ReviewService) Delete(ctx context.Context, input ports.MutateReviewInput) error {
	existing, err := s.reviews.FindByID(ctx, input.ReviewID)
	if err != nil {
		return err
	}
	if err := authorizeReviewMutation(existing, input); err != nil {
		return err
	}

	if err := s.reviews.Delete(ctx, input.ReviewID); err != nil {
		return err
	}

	s.recomputeRating(ctx, existing.TourID)
	return nil
}

// recomputeRating recalculates the tour's cached summary from its current
// review set and writes it back. The review mutation has already committed,
// so a failed recompute is logged and self-corrects on the next mutation.
func (s *ReviewService) recomputeRating(ctx context.Context, tourID string) {
	summary, err := s.reviews.AggregateRatings(ctx, tourID)
	if err != nil {
		metrics.RatingRecomputesTotal.WithLabelValues("error").Inc()
		s.log.Error().Err(err).Str("tour_id", tourID).Msg("rating aggregation failed")
		return
	}

	next := domain.DefaultRatingSummary()
	if summary != nil {
		next = domain.RatingSummary{
			Quantity: summary.Quantity,
			Average:  domain.RoundRating(summary.Average),
		}
	}

	if err := s.tours.UpdateRatingSummary(ctx, tourID, next); err != nil {
		metrics.RatingRecomputesTotal.WithLabelValues("error").Inc()
		s.log.Error().Err(err).Str("tour_id", tourID).Msg("rating summary write failed")
		return
	}

	metrics.RatingRecomputesTotal.WithLabelValues("ok").Inc()
}

// authorizeReviewMutation allows the author or an admin.
func authorizeReviewMutation(review *domain.Review, input ports.MutateReviewInput) error {
	if input.Role == domain.RoleAdmin || review.AuthorID == input.AccountID {
		return nil
	}
	return domain.ErrForbidden
}
