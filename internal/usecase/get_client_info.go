package usecase

import (
	"context"
	"errors"

	"client-gate/internal/domain"
)

// GetClientInfo returns the client the user is bound to in the user store.
type GetClientInfo struct {
	tenants domain.TenantStore
}

// NewGetClientInfo creates a new GetClientInfo usecase.
func NewGetClientInfo(tenants domain.TenantStore) *GetClientInfo {
	return &GetClientInfo{tenants: tenants}
}

// Execute returns nil without error when the user has no client.
func (uc *GetClientInfo) Execute(ctx context.Context, user *domain.User) (*domain.TenantContext, error) {
	if !user.HasTenant() {
		return nil, nil
	}

	tenant, err := uc.tenants.FindTenantByID(ctx, user.TenantID)
	if err != nil {
		if errors.Is(err, domain.ErrTenantNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return domain.NewTenantContext(tenant), nil
}
