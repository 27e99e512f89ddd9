package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/trailhead/tours-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors:
// status "fail" for client-caused rejections, "error" for server faults.
type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps the operational error taxonomy to deterministic HTTP codes.
//   - Logs unexpected errors internally without leaking details to clients.
//   - Renders the consistent envelope {"status": ..., "message": ...}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		status := "fail"
		if code >= http.StatusInternalServerError {
			status = "error"
		}
		_ = c.JSON(code, errorResponse{Status: status, Message: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, middleware rejections).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Operational errors from the taxonomy map to deterministic codes.
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, domain.ErrInvalidCredentials.Error()
	case errors.Is(err, domain.ErrTokenMalformed),
		errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrTokenSignature):
		// Uniform message regardless of which token check failed.
		return http.StatusUnauthorized, "you are not logged in or your session has expired"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, domain.ErrForbidden.Error()
	case errors.Is(err, domain.ErrInvalidResetToken):
		return http.StatusBadRequest, domain.ErrInvalidResetToken.Error()
	case errors.Is(err, domain.ErrResetThrottled):
		return http.StatusTooManyRequests, domain.ErrResetThrottled.Error()
	case errors.Is(err, domain.ErrDeliveryFailed):
		return http.StatusInternalServerError, domain.ErrDeliveryFailed.Error()
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound, domain.ErrAccountNotFound.Error()
	case errors.Is(err, domain.ErrAccountExists):
		return http.StatusConflict, domain.ErrAccountExists.Error()
	case errors.Is(err, domain.ErrTourNotFound):
		return http.StatusNotFound, domain.ErrTourNotFound.Error()
	case errors.Is(err, domain.ErrTourExists):
		return http.StatusConflict, domain.ErrTourExists.Error()
	case errors.Is(err, domain.ErrReviewNotFound):
		return http.StatusNotFound, domain.ErrReviewNotFound.Error()
	case errors.Is(err, domain.ErrDuplicateReview):
		return http.StatusBadRequest, domain.ErrDuplicateReview.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
