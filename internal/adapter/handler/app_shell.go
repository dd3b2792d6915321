package handler

import (
	"bytes"
	"html/template"
	"log/slog"
	"net/http"

	"client-gate/internal/domain"

	"github.com/labstack/echo/v4"
)

var shellTemplate = template.Must(template.New("shell").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
{{- if .Tenant}}
<meta name="client-id" content="{{.Tenant.ID}}">
<meta name="client-name" content="{{.Tenant.Name}}">
{{- end}}
<title>{{.Title}}</title>
<link rel="stylesheet" href="/build/app.css">
</head>
<body>
<div id="app"></div>
<script type="module" src="/build/app.js"></script>
</body>
</html>
`))

type shellData struct {
	Title  string
	Tenant *domain.TenantContext
}

// AppShellHandler serves the single-page app's HTML shell.
type AppShellHandler struct {
	title string
}

// NewAppShellHandler creates a shell handler with the given page title.
func NewAppShellHandler(title string) *AppShellHandler {
	return &AppShellHandler{title: title}
}

// Handle renders the shell, exposing the validated tenant when present.
func (h *AppShellHandler) Handle(c echo.Context) error {
	ctx := c.Request().Context()
	tenant, _ := domain.TenantContextFrom(ctx)

	var buf bytes.Buffer
	if err := shellTemplate.Execute(&buf, shellData{Title: h.title, Tenant: tenant}); err != nil {
		slog.ErrorContext(ctx, "failed to render app shell", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}
