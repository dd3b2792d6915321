package handler

import (
	"log/slog"
	"net/http"

	"client-gate/internal/domain"
	"client-gate/internal/usecase"

	"github.com/labstack/echo/v4"
)

// ClientInfoHandler returns the caller's client as recorded on the user.
type ClientInfoHandler struct {
	uc *usecase.GetClientInfo
}

// NewClientInfoHandler creates a new client info handler.
func NewClientInfoHandler(uc *usecase.GetClientInfo) *ClientInfoHandler {
	return &ClientInfoHandler{uc: uc}
}

type clientInfoResponse struct {
	Client *tenantResponse `json:"client"`
}

// Handle processes GET /api/client-info.
func (h *ClientInfoHandler) Handle(c echo.Context) error {
	ctx := c.Request().Context()
	principal, ok := domain.PrincipalFrom(ctx)
	if !ok {
		return mapDomainError(domain.ErrUnauthenticated)
	}

	tenant, err := h.uc.Execute(ctx, principal.User)
	if err != nil {
		slog.ErrorContext(ctx, "client info lookup failed", "error", err, "user_id", principal.User.ID)
		return mapDomainError(err)
	}

	return c.JSON(http.StatusOK, clientInfoResponse{Client: newTenantResponse(tenant)})
}
