package ports

import (
	"context"

	"github.com/trailhead/tours-api/internal/core/domain"
)

// ReviewPatch carries the author-mutable fields of a review. Nil fields are
// left untouched; tour and author bindings are immutable after creation.
type ReviewPatch struct {
	Text   *string
	Rating *int
}

// ReviewRepository defines persistence for reviews.
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) (*domain.Review, error)
	FindByID(ctx context.Context, id string) (*domain.Review, error)
	// List returns all reviews, or only those of one tour when tourID is
	// non-empty.
	List(ctx context.Context, tourID string) ([]domain.Review, error)
	Update(ctx context.Context, id string, patch ReviewPatch) (*domain.Review, error)
	Delete(ctx context.Context, id string) error
	// AggregateRatings groups the tour's current reviews into a count/mean
	// summary. Returns nil when the tour has no reviews.
	AggregateRatings(ctx context.Context, tourID string) (*domain.RatingSummary, error)
}
