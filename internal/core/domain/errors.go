package domain

import "errors"

// Operational errors shown to clients with a specific message. Anything not
// in this taxonomy is logged and surfaced as a generic internal error.
var (
	// ErrInvalidCredentials covers both unknown email and wrong password at
	// login; callers must not be able to tell the two apart.
	ErrInvalidCredentials = errors.New("incorrect email or password")

	// Session-token failures. All three map to the same generic 401 so the
	// client cannot learn which check rejected the token.
	ErrTokenMalformed = errors.New("session token is malformed")
	ErrTokenExpired   = errors.New("session token has expired")
	ErrTokenSignature = errors.New("session token signature is invalid")

	ErrAccountNotFound = errors.New("account not found")
	ErrAccountExists   = errors.New("an account with that email already exists")
	ErrForbidden       = errors.New("you do not have permission to perform this action")

	// ErrInvalidResetToken covers malformed, expired and already-consumed
	// reset tokens uniformly; there is no oracle for the actual cause.
	ErrInvalidResetToken = errors.New("reset token is invalid or has expired")

	// ErrResetThrottled rejects a second reset request inside the cooldown
	// window while the first email may still be in flight.
	ErrResetThrottled = errors.New("a reset email was sent recently, try again later")

	// ErrDeliveryFailed signals that the outbound reset email could not be
	// sent; any speculative reset-token state has been rolled back.
	ErrDeliveryFailed = errors.New("failed to send the email, try again later")

	ErrTourNotFound    = errors.New("tour not found")
	ErrTourExists      = errors.New("a tour with that name already exists")
	ErrReviewNotFound  = errors.New("review not found")
	ErrDuplicateReview = errors.New("you have already reviewed this tour")
)
