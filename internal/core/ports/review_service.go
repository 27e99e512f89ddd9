package ports

import (
	"context"

	"github.com/trailhead/tours-api/internal/core/domain"
)

// CreateReviewInput carries the data for a new review. AuthorID always comes
// from the authenticated identity, never from the request body.
type CreateReviewInput struct {
	Text     string
	Rating   int
	TourID   string
	AuthorID string
}

// MutateReviewInput identifies who is updating or deleting a review so the
// service can enforce author-or-admin ownership.
type MutateReviewInput struct {
	ReviewID  string
	AccountID string
	Role      string
}

// ReviewService defines review CRUD. Every persisted mutation triggers a
// rating-summary recompute for the owning tour.
type ReviewService interface {
	Create(ctx context.Context, input CreateReviewInput) (*domain.Review, error)
	Get(ctx context.Context, id string) (*domain.Review, error)
	List(ctx context.Context, tourID string) ([]domain.Review, error)
	Update(ctx context.Context, input MutateReviewInput, patch ReviewPatch) (*domain.Review, error)
	Delete(ctx context.Context, input MutateReviewInput) error
}
