package ports

import (
	"context"

	"github.com/trailhead/tours-api/internal/core/domain"
)

// UpdateMeInput holds the self-service profile fields. Password changes go
// through AuthService.UpdatePassword, never through here.
type UpdateMeInput struct {
	Name  *string
	Email *string
	Photo *string
}

// UserService covers account profile operations: the self-service subset
// plus the admin-only management surface.
type UserService interface {
	Me(ctx context.Context, accountID string) (*domain.Account, error)
	UpdateMe(ctx context.Context, accountID string, input UpdateMeInput) (*domain.Account, error)
	// DeactivateMe soft-deletes the account; subsequent default lookups
	// exclude it.
	DeactivateMe(ctx context.Context, accountID string) error

	List(ctx context.Context) ([]domain.Account, error)
	Get(ctx context.Context, id string) (*domain.Account, error)
	Update(ctx context.Context, id string, patch ProfilePatch) (*domain.Account, error)
	Delete(ctx context.Context, id string) error
}
