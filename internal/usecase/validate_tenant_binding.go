package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"client-gate/internal/domain"
)

// BindingOutcome classifies a tenant-binding check.
type BindingOutcome int

const (
	// BindingNoCookie: no client_data cookie; tenant resolved from the user record.
	BindingNoCookie BindingOutcome = iota + 1
	// BindingConsistent: cookie verified and matches the stored binding.
	BindingConsistent
	// BindingInvalidSignature: cookie failed decoding or HMAC verification.
	BindingInvalidSignature
	// BindingInconsistent: cookie verified but disagrees with the stored binding.
	BindingInconsistent
)

func (o BindingOutcome) String() string {
	switch o {
	case BindingNoCookie:
		return "no_cookie"
	case BindingConsistent:
		return "consistent"
	case BindingInvalidSignature:
		return "invalid_signature"
	case BindingInconsistent:
		return "inconsistent"
	default:
		return "unknown"
	}
}

// BindingDecision is the result of a tenant-binding check. Tenant is set
// only when the request may proceed with a tenant attached.
type BindingDecision struct {
	Outcome BindingOutcome
	Tenant  *domain.TenantContext
}

// Rejected reports whether the request must be rejected.
func (d BindingDecision) Rejected() bool {
	return d.Outcome == BindingInvalidSignature || d.Outcome == BindingInconsistent
}

// ValidateTenantBinding checks the client_data cookie against the tenant
// store and the authenticated user.
type ValidateTenantBinding struct {
	codec   domain.CookieCodec
	tenants domain.TenantStore
	logger  *slog.Logger
}

// NewValidateTenantBinding creates a new ValidateTenantBinding usecase.
func NewValidateTenantBinding(codec domain.CookieCodec, tenants domain.TenantStore, logger *slog.Logger) *ValidateTenantBinding {
	return &ValidateTenantBinding{codec: codec, tenants: tenants, logger: logger}
}

// Execute decides the binding for user given the raw cookie value ("" when absent).
// The returned error is non-nil only when the tenant store fails; callers must
// not treat that as "no tenant".
func (uc *ValidateTenantBinding) Execute(ctx context.Context, user *domain.User, cookieValue string) (BindingDecision, error) {
	if cookieValue == "" {
		return uc.fromUserRecord(ctx, user)
	}

	payload, err := uc.codec.Verify(cookieValue)
	if err != nil {
		return BindingDecision{Outcome: BindingInvalidSignature}, nil
	}

	tenant, err := uc.tenants.FindTenantByID(ctx, payload.TenantID)
	if err != nil {
		if errors.Is(err, domain.ErrTenantNotFound) {
			return BindingDecision{Outcome: BindingInconsistent}, nil
		}
		return BindingDecision{}, fmt.Errorf("tenant lookup for client cookie: %w", err)
	}

	if err := checkConsistency(payload, tenant, user); err != nil {
		uc.logger.DebugContext(ctx, "client cookie inconsistent",
			"user_id", user.ID, "cookie_tenant_id", payload.TenantID, "reason", err.Error())
		return BindingDecision{Outcome: BindingInconsistent}, nil
	}

	return BindingDecision{Outcome: BindingConsistent, Tenant: domain.NewTenantContext(tenant)}, nil
}

func (uc *ValidateTenantBinding) fromUserRecord(ctx context.Context, user *domain.User) (BindingDecision, error) {
	decision := BindingDecision{Outcome: BindingNoCookie}
	if !user.HasTenant() {
		return decision, nil
	}

	tenant, err := uc.tenants.FindTenantByID(ctx, user.TenantID)
	if err != nil {
		if errors.Is(err, domain.ErrTenantNotFound) {
			return decision, nil
		}
		return BindingDecision{}, fmt.Errorf("tenant lookup for user: %w", err)
	}

	decision.Tenant = domain.NewTenantContext(tenant)
	return decision, nil
}

func checkConsistency(p *domain.SignedPayload, t *domain.Tenant, u *domain.User) error {
	switch {
	case !t.Active:
		return fmt.Errorf("%w: client inactive", domain.ErrTenantInconsistent)
	case t.Name != p.TenantName:
		return fmt.Errorf("%w: client name mismatch", domain.ErrTenantInconsistent)
	case p.UserID != u.ID:
		return fmt.Errorf("%w: user mismatch", domain.ErrTenantInconsistent)
	case u.TenantID != p.TenantID:
		return fmt.Errorf("%w: user belongs to another client", domain.ErrTenantInconsistent)
	}
	return nil
}
