package ports

import (
	"context"
	"time"

	"github.com/trailhead/tours-api/internal/core/domain"
)

// ProfilePatch carries the mutable non-credential fields of an account.
// Nil fields are left untouched.
type ProfilePatch struct {
	Name  *string
	Email *string
	Photo *string
	Role  *string
}

// AccountRepository defines persistence for accounts. Lookups exclude
// soft-deleted (inactive) accounts by default; the repository applies that
// predicate explicitly when building queries.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	// FindByResetTokenHash matches an account holding the given reset-token
	// hash with an expiry strictly after now.
	FindByResetTokenHash(ctx context.Context, tokenHash string, now time.Time) (*domain.Account, error)
	List(ctx context.Context) ([]domain.Account, error)
	UpdateProfile(ctx context.Context, id string, patch ProfilePatch) (*domain.Account, error)
	// SetPassword atomically writes the new hash and changedAt while
	// clearing any in-flight reset-token state on the same document.
	SetPassword(ctx context.Context, id, passwordHash string, changedAt time.Time) error
	SetResetToken(ctx context.Context, id, tokenHash string, expiresAt time.Time) error
	ClearResetToken(ctx context.Context, id string) error
	Deactivate(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}
