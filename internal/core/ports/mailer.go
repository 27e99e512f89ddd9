package ports

import (
	"context"

	"github.com/trailhead/tours-api/internal/core/domain"
)

// Mailer is the outbound email collaborator. Implementations may fail
// transiently; callers treat failures as retryable.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to *domain.Account, resetURL string) error
	SendWelcome(ctx context.Context, to *domain.Account, loginURL string) error
}

// EmailKind selects which template an asynchronous email job renders.
type EmailKind string

const (
	EmailWelcome EmailKind = "welcome"
)

// EmailJob is a unit of asynchronous email work handed to the dispatcher.
// Password-reset mail is deliberately not sent through here: reset delivery
// must stay synchronous so a failure can roll back the token state.
type EmailJob struct {
	Kind    EmailKind
	Account *domain.Account
	URL     string
}
