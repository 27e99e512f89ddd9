package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trailhead/tours-api/internal/api/middleware"
	"github.com/trailhead/tours-api/internal/core/domain"
)

// ctxAccount extracts the account injected by the Protect middleware and
// fast-fails before any service call. A missing account on a protected
// route means the middleware chain is miswired.
func ctxAccount(c echo.Context) (*domain.Account, error) {
	account, ok := c.Get(middleware.AccountContextKey).(*domain.Account)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return account, nil
}
