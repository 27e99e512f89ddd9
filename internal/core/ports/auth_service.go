package ports

import (
	"context"
	"time"

	"github.com/trailhead/tours-api/internal/core/domain"
)

// SignupInput carries the fields needed to create a new account.
type SignupInput struct {
	Name     string
	Email    string
	Password string
}

// AuthResult is returned by every operation that ends with a logged-in
// session: a fresh signed token plus the resolved account.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	Account   *domain.Account
}

// AuthService implements the authentication and password lifecycle.
type AuthService interface {
	Signup(ctx context.Context, input SignupInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	// ForgotPassword issues a one-time reset token and mails it embedded in
	// {origin}/api/v1/users/resetPassword/{rawToken}. Delivery failure rolls
	// the token state back.
	ForgotPassword(ctx context.Context, email, origin string) error
	// ResetPassword redeems a raw reset token, commits the new password and
	// logs the account in.
	ResetPassword(ctx context.Context, rawToken, newPassword string) (*AuthResult, error)
	// UpdatePassword rotates the password of a logged-in account after
	// re-verifying the current one.
	UpdatePassword(ctx context.Context, accountID, currentPassword, newPassword string) (*AuthResult, error)
}
