package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"client-gate/internal/adapter/cookies"
	"client-gate/internal/domain"
	"client-gate/internal/infrastructure/metrics"
	"client-gate/internal/usecase"

	"github.com/labstack/echo/v4"
)

// TenantBindingConfig configures the client cookie validator.
type TenantBindingConfig struct {
	// Enabled turns validation on; when false every request is skipped.
	Enabled bool
	UseCase *usecase.ValidateTenantBinding
	Jar     *cookies.Jar
	// Logger receives the audit record for rejected browser requests.
	Logger *slog.Logger
}

type rejectResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// TenantBinding verifies the client_data cookie of authenticated non-API
// requests and attaches the validated domain.TenantContext.
//
// JSON clients receive 401 on rejection. Browser requests have the client
// cookies cleared and are redirected to "/".
func TenantBinding(cfg TenantBindingConfig) echo.MiddlewareFunc {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			ctx := req.Context()

			principal, authenticated := domain.PrincipalFrom(ctx)
			if !cfg.Enabled || skipsBinding(req.URL.Path) || !authenticated {
				metrics.RecordTenantBinding(metrics.OutcomeSkipped)
				return next(c)
			}

			var raw string
			if cookie, err := c.Cookie(cookies.ClientData); err == nil {
				raw = cookie.Value
			}

			decision, err := cfg.UseCase.Execute(ctx, principal.User, raw)
			if err != nil {
				metrics.RecordTenantBinding(metrics.OutcomeStoreError)
				logger.ErrorContext(ctx, "tenant binding lookup failed", "error", err, "user_id", principal.User.ID)
				return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
			}
			metrics.RecordTenantBinding(decision.Outcome.String())

			if decision.Rejected() {
				return reject(c, cfg.Jar, logger, principal.User, raw)
			}

			if decision.Tenant != nil {
				c.SetRequest(req.WithContext(domain.WithTenantContext(ctx, decision.Tenant)))
			}
			return next(c)
		}
	}
}

func reject(c echo.Context, jar *cookies.Jar, logger *slog.Logger, user *domain.User, raw string) error {
	req := c.Request()

	if expectsJSON(req) {
		return c.JSON(http.StatusUnauthorized, rejectResponse{
			Error:   "Invalid client cookies",
			Message: "Please login again",
		})
	}

	logger.WarnContext(req.Context(), "invalid client cookies detected",
		"user_id", user.ID,
		"ip", c.RealIP(),
		"user_agent", req.UserAgent(),
		"client_data", raw,
	)
	jar.Expire(c, cookies.ClientCookies...)
	return c.Redirect(http.StatusFound, "/")
}

// unboundPrefixes are the first path segments served without a binding check:
// the bearer API plus the probe and scrape endpoints.
var unboundPrefixes = []string{"api", "health", "internal"}

func skipsBinding(path string) bool {
	for _, prefix := range unboundPrefixes {
		if hasSegmentPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func isAPIPath(path string) bool {
	return hasSegmentPrefix(path, "api")
}

func hasSegmentPrefix(path, segment string) bool {
	trimmed := strings.TrimPrefix(path, "/")
	return trimmed == segment || strings.HasPrefix(trimmed, segment+"/")
}

// expectsJSON reports whether the caller wants a JSON error instead of a redirect.
func expectsJSON(req *http.Request) bool {
	if isAPIPath(req.URL.Path) {
		return true
	}
	if strings.EqualFold(req.Header.Get(echo.HeaderXRequestedWith), "XMLHttpRequest") {
		return true
	}
	accept := req.Header.Get(echo.HeaderAccept)
	return strings.Contains(accept, "/json") || strings.Contains(accept, "+json")
}
