package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/trailhead/tours-api/internal/api/metrics"
	"github.com/trailhead/tours-api/internal/core/domain"
	"github.com/trailhead/tours-api/internal/core/ports"
	"github.com/trailhead/tours-api/internal/core/service"
)

// AccountContextKey is where Protect stores the resolved account in the
// echo context.
const AccountContextKey = "account"

// sessionMessage is the uniform 401 body for every session-validity failure
// so clients cannot learn which check rejected them.
const sessionMessage = "you are not logged in or your session has expired"

// Protect resolves the request's session token into an authenticated
// account or rejects with 401. The pipeline is strictly ordered: extract,
// verify, resolve, password-freshness, attach.
func Protect(tokens *service.TokenService, accounts ports.AccountRepository, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			account, reason := resolveAccount(c, tokens, accounts, cookieName)
			if account == nil {
				metrics.AuthRejectionsTotal.WithLabelValues(reason).Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, sessionMessage)
			}
			c.Set(AccountContextKey, account)
			return next(c)
		}
	}
}

// OptionalAuth runs the same pipeline as Protect but treats every failure
// as anonymous. Used for personalization only, never to protect resources.
func OptionalAuth(tokens *service.TokenService, accounts ports.AccountRepository, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if account, _ := resolveAccount(c, tokens, accounts, cookieName); account != nil {
				c.Set(AccountContextKey, account)
			}
			return next(c)
		}
	}
}

// RequireRoles rejects with 403 unless the authenticated account's role is
// in the permitted set. It must run after Protect; a missing account here
// is a wiring bug, not a client error.
func RequireRoles(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			account, ok := c.Get(AccountContextKey).(*domain.Account)
			if !ok {
				panic("middleware: RequireRoles used without Protect")
			}
			if _, ok := allowed[account.Role]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, domain.ErrForbidden.Error())
			}
			return next(c)
		}
	}
}

// resolveAccount walks the auth pipeline and returns the account, or nil
// plus the terminal failure reason.
func resolveAccount(c echo.Context, tokens *service.TokenService, accounts ports.AccountRepository, cookieName string) (*domain.Account, string) {
	token := extractToken(c, cookieName)
	if token == "" {
		return nil, "no_credentials"
	}

	claims, err := tokens.Verify(token)
	if err != nil {
		return nil, "invalid_session"
	}

	account, err := accounts.FindByID(c.Request().Context(), claims.AccountID)
	if err != nil {
		return nil, "account_gone"
	}

	if account.PasswordChangedAfter(claims.IssuedAt) {
		return nil, "stale_password"
	}

	return account, ""
}

// extractToken prefers the bearer header and falls back to the session
// cookie.
func extractToken(c echo.Context, cookieName string) string {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
		return ""
	}

	if cookie, err := c.Cookie(cookieName); err == nil {
		return cookie.Value
	}
	return ""
}
