package handler

import (
	"log/slog"
	"net/http"

	"client-gate/internal/adapter/cookies"
	"client-gate/internal/domain"
	"client-gate/internal/usecase"

	"github.com/labstack/echo/v4"
)

// AuthHandler serves login, logout, registration and the current user.
type AuthHandler struct {
	login    *usecase.Login
	logout   *usecase.Logout
	register *usecase.Register
	jar      *cookies.Jar
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(login *usecase.Login, logout *usecase.Logout, register *usecase.Register, jar *cookies.Jar) *AuthHandler {
	return &AuthHandler{login: login, logout: logout, register: register, jar: jar}
}

type loginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

type registerRequest struct {
	Email     string `json:"email" form:"email" validate:"required,email,max=255"`
	Password  string `json:"password" form:"password" validate:"required,min=8,max=72"`
	FirstName string `json:"first_name" form:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" form:"last_name" validate:"required,max=100"`
}

type tokenResponse struct {
	Message   string          `json:"message"`
	Token     string          `json:"token"`
	TokenType string          `json:"token_type"`
	ExpiresIn int64           `json:"expires_in"`
	User      userResponse    `json:"user"`
	Tenant    *tenantResponse `json:"tenant"`
}

// Login verifies credentials and issues the bearer token and client_data cookie.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	if err := c.Validate(&req); err != nil {
		return mapDomainError(err)
	}

	ctx := c.Request().Context()
	result, err := h.login.Execute(ctx, req.Email, req.Password)
	if err != nil {
		mapped := mapDomainError(err)
		if mapped.Code >= http.StatusInternalServerError {
			slog.ErrorContext(ctx, "login failed", "error", err, "remote_addr", c.RealIP())
		}
		return mapped
	}

	if result.ClientCookie != "" {
		h.jar.Set(c, cookies.ClientData, result.ClientCookie, cookies.ClientDataMaxAge)
	}
	h.jar.SetUntil(c, cookies.AuthToken, result.Token.Value, result.Token.ExpiresAt)

	return c.JSON(http.StatusOK, tokenResponse{
		Message:   "Login successful",
		Token:     result.Token.Value,
		TokenType: "Bearer",
		ExpiresIn: expiresIn(result.Token.ExpiresAt),
		User:      newUserResponse(result.User),
		Tenant:    newTenantResponse(result.Tenant),
	})
}

// Logout revokes the current bearer token and clears the auth_token cookie.
// client_data is left in place.
func (h *AuthHandler) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	principal, ok := domain.PrincipalFrom(ctx)
	if !ok {
		return mapDomainError(domain.ErrUnauthenticated)
	}

	if err := h.logout.Execute(ctx, principal.Claims); err != nil {
		slog.ErrorContext(ctx, "logout failed", "error", err, "user_id", principal.User.ID)
		return mapDomainError(err)
	}

	h.jar.Expire(c, cookies.AuthToken)
	return c.JSON(http.StatusOK, map[string]string{"message": "Logout successful"})
}

// Register creates an unbound Viewer account.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	if err := c.Validate(&req); err != nil {
		return mapDomainError(err)
	}

	ctx := c.Request().Context()
	result, err := h.register.Execute(ctx, usecase.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return mapDomainError(err)
	}

	h.jar.SetUntil(c, cookies.AuthToken, result.Token.Value, result.Token.ExpiresAt)

	return c.JSON(http.StatusCreated, tokenResponse{
		Message:   "User created successfully",
		Token:     result.Token.Value,
		TokenType: "Bearer",
		ExpiresIn: expiresIn(result.Token.ExpiresAt),
		User:      newUserResponse(result.User),
	})
}

type meResponse struct {
	User userResponse `json:"user"`
}

// Me returns the authenticated user wrapped under "user".
func (h *AuthHandler) Me(c echo.Context) error {
	principal, ok := domain.PrincipalFrom(c.Request().Context())
	if !ok {
		return mapDomainError(domain.ErrUnauthenticated)
	}
	return c.JSON(http.StatusOK, meResponse{User: newUserResponse(principal.User)})
}
