package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"client-gate/internal/domain"
	"client-gate/internal/infrastructure/metrics"
)

// LoginResult is everything the login handler needs to build its response.
type LoginResult struct {
	Token *domain.IssuedToken
	User  *domain.User
	// Tenant and ClientCookie are empty when the user has no usable client.
	Tenant       *domain.TenantContext
	ClientCookie string
}

// Login verifies credentials, issues a bearer token and signs the tenant binding.
type Login struct {
	users   domain.UserStore
	tenants domain.TenantStore
	hasher  domain.PasswordHasher
	tokens  domain.TokenService
	codec   domain.CookieCodec
	logger  *slog.Logger
}

// NewLogin creates a new Login usecase.
func NewLogin(
	users domain.UserStore,
	tenants domain.TenantStore,
	hasher domain.PasswordHasher,
	tokens domain.TokenService,
	codec domain.CookieCodec,
	logger *slog.Logger,
) *Login {
	return &Login{users: users, tenants: tenants, hasher: hasher, tokens: tokens, codec: codec, logger: logger}
}

// Execute authenticates email/password. Unknown email and wrong password both
// yield domain.ErrInvalidCredentials.
func (uc *Login) Execute(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := uc.users.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.RecordLogin("invalid_credentials")
			return nil, domain.ErrInvalidCredentials
		}
		metrics.RecordLogin("error")
		return nil, err
	}

	if err := uc.hasher.Compare(user.PasswordHash, password); err != nil {
		metrics.RecordLogin("invalid_credentials")
		uc.logger.InfoContext(ctx, "login rejected", "user_id", user.ID)
		return nil, domain.ErrInvalidCredentials
	}

	issued, err := uc.tokens.Issue(ctx, user)
	if err != nil {
		metrics.RecordLogin("error")
		return nil, err
	}

	result := &LoginResult{Token: issued, User: user}

	tenant, err := uc.resolveTenant(ctx, user)
	if err != nil {
		metrics.RecordLogin("error")
		return nil, err
	}
	if tenant != nil {
		cookie, err := uc.signBinding(tenant, user)
		if err != nil {
			metrics.RecordLogin("error")
			return nil, err
		}
		result.Tenant = domain.NewTenantContext(tenant)
		result.ClientCookie = cookie
	}

	metrics.RecordLogin("success")
	uc.logger.InfoContext(ctx, "login succeeded",
		"user_id", user.ID, "client_id", user.TenantID, "client_bound", tenant != nil)
	return result, nil
}

// resolveTenant returns nil without error when the user has no client or the
// client row is gone. Inactive clients are returned.
func (uc *Login) resolveTenant(ctx context.Context, user *domain.User) (*domain.Tenant, error) {
	if !user.HasTenant() {
		return nil, nil
	}

	tenant, err := uc.tenants.FindTenantByID(ctx, user.TenantID)
	if err != nil {
		if errors.Is(err, domain.ErrTenantNotFound) {
			uc.logger.WarnContext(ctx, "user references missing client", "user_id", user.ID, "client_id", user.TenantID)
			return nil, nil
		}
		return nil, fmt.Errorf("tenant lookup at login: %w", err)
	}
	if !tenant.Active {
		// Signed anyway so the response matches the app shell; the validator
		// rejects the cookie on the next browser request.
		uc.logger.WarnContext(ctx, "user belongs to inactive client", "user_id", user.ID, "client_id", tenant.ID)
	}
	return tenant, nil
}

func (uc *Login) signBinding(tenant *domain.Tenant, user *domain.User) (string, error) {
	nonce, err := uc.codec.GenerateNonce()
	if err != nil {
		return "", err
	}
	return uc.codec.Sign(domain.SignedPayload{
		TenantID:   tenant.ID,
		TenantName: tenant.Name,
		UserID:     user.ID,
		Nonce:      nonce,
	})
}
