package handler

import (
	"errors"
	"net/http"

	"client-gate/internal/domain"
	"client-gate/utils/validator"

	"github.com/labstack/echo/v4"
)

// validationResponse mirrors the 422 body the SPA expects.
type validationResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

// mapDomainError converts a domain error into an appropriate echo.HTTPError.
func mapDomainError(err error) *echo.HTTPError {
	var verr *validator.ValidationError
	if errors.As(err, &verr) {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, validationResponse{
			Message: "The given data was invalid.",
			Errors:  verr.Errors,
		})
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, "The provided credentials are incorrect.")

	case errors.Is(err, domain.ErrUnauthenticated),
		errors.Is(err, domain.ErrTokenInvalid),
		errors.Is(err, domain.ErrTokenRevoked):
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthenticated.")

	case errors.Is(err, domain.ErrTenantNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "client not found")

	case errors.Is(err, domain.ErrUserNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "user not found")

	case errors.Is(err, domain.ErrEmailTaken):
		return echo.NewHTTPError(http.StatusConflict, "The email has already been taken.")

	case errors.Is(err, domain.ErrStoreUnavailable):
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")

	case errors.Is(err, domain.ErrTokenGeneration),
		errors.Is(err, domain.ErrCookieSecretMissing):
		return echo.NewHTTPError(http.StatusInternalServerError, "token generation error")

	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
