package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// InternalAuthHeader carries the scrape secret for /internal endpoints.
const InternalAuthHeader = "X-Internal-Auth"

// InternalAuth guards operator endpoints such as the metrics scrape. The
// secret is read from X-Internal-Auth or, for scrape configs that only send
// bearer credentials, from "Authorization: Bearer". The explicit header wins
// when both are present.
func InternalAuth(sharedSecret string) echo.MiddlewareFunc {
	want := sha256.Sum256([]byte(sharedSecret))
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			provided, ok := scrapeCredential(c.Request())
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing internal auth header")
			}
			// Digests keep the comparison length-independent.
			got := sha256.Sum256([]byte(provided))
			if subtle.ConstantTimeCompare(got[:], want[:]) != 1 {
				return echo.NewHTTPError(http.StatusForbidden, "invalid internal auth")
			}
			return next(c)
		}
	}
}

func scrapeCredential(req *http.Request) (string, bool) {
	if v := req.Header.Get(InternalAuthHeader); v != "" {
		return v, true
	}
	scheme, credential, found := strings.Cut(req.Header.Get(echo.HeaderAuthorization), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	credential = strings.TrimSpace(credential)
	return credential, credential != ""
}
