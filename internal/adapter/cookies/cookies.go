// Package cookies names and builds the cookies client-gate issues.
package cookies

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Cookie names.
const (
	ClientData  = "client_data"
	ClientID    = "client_id"
	ClientName  = "client_name"
	ClientEmail = "client_email"
	AuthToken   = "auth_token"
)

// ClientDataMaxAge is the lifetime of the client_data cookie (seven days).
const ClientDataMaxAge = 7 * 24 * 60 * 60

// ClientCookies are cleared when a tenant binding is rejected.
var ClientCookies = []string{ClientData, ClientID, ClientName, ClientEmail}

// Jar issues and expires cookies with consistent attributes.
type Jar struct {
	Secure bool
}

// NewJar creates a Jar. secure controls the Secure attribute.
func NewJar(secure bool) *Jar {
	return &Jar{Secure: secure}
}

// Set writes a root-path, HttpOnly, SameSite=Lax cookie.
func (j *Jar) Set(c echo.Context, name, value string, maxAge int) {
	c.SetCookie(j.build(name, value, maxAge))
}

// SetUntil writes a cookie that lives until expiresAt.
func (j *Jar) SetUntil(c echo.Context, name, value string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge <= 0 {
		maxAge = -1
	}
	cookie := j.build(name, value, maxAge)
	cookie.Expires = expiresAt
	c.SetCookie(cookie)
}

// Expire overwrites each named cookie with an empty, already-expired value.
func (j *Jar) Expire(c echo.Context, names ...string) {
	for _, name := range names {
		cookie := j.build(name, "", -1)
		cookie.Expires = time.Unix(0, 0)
		c.SetCookie(cookie)
	}
}

func (j *Jar) build(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   j.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
