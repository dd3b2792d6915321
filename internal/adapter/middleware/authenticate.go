// Package middleware holds the request middleware that resolves who is calling
// and which client they are bound to.
package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"client-gate/internal/adapter/cookies"
	"client-gate/internal/domain"
	"client-gate/internal/usecase"

	"github.com/labstack/echo/v4"
)

const bearerPrefix = "Bearer "

// Authenticate attaches a domain.Principal to the request context when the
// request carries a valid bearer token, read from the Authorization header or
// the auth_token cookie. Requests without a valid token pass through
// unauthenticated.
func Authenticate(uc *usecase.Authenticate) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := extractToken(c)
			if raw == "" {
				return next(c)
			}

			ctx := c.Request().Context()
			principal, err := uc.Execute(ctx, raw)
			if err != nil {
				if errors.Is(err, domain.ErrUnauthenticated) {
					slog.DebugContext(ctx, "bearer token rejected", "error", err)
					return next(c)
				}
				slog.ErrorContext(ctx, "authentication lookup failed", "error", err, "remote_addr", c.RealIP())
				return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
			}

			c.SetRequest(c.Request().WithContext(domain.WithPrincipal(ctx, principal)))
			return next(c)
		}
	}
}

// RequireAuth rejects requests that Authenticate left unauthenticated.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := domain.PrincipalFrom(c.Request().Context()); !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthenticated.")
			}
			return next(c)
		}
	}
}

func extractToken(c echo.Context) string {
	if header := c.Request().Header.Get(echo.HeaderAuthorization); header != "" {
		if len(header) > len(bearerPrefix) && strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
			return strings.TrimSpace(header[len(bearerPrefix):])
		}
		return ""
	}

	if cookie, err := c.Cookie(cookies.AuthToken); err == nil {
		return cookie.Value
	}
	return ""
}
