package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"client-gate/internal/domain"

	"github.com/jackc/pgx/v5"
)

const activeFlag = "1"

// TenantRepository reads rows from the clients table.
// Implements domain.TenantStore.
type TenantRepository struct {
	db     DBTX
	logger *slog.Logger
}

// NewTenantRepository creates a new tenant repository.
func NewTenantRepository(db DBTX, logger *slog.Logger) *TenantRepository {
	return &TenantRepository{
		db:     db,
		logger: logger.With("component", "tenant_repository"),
	}
}

// FindTenantByID loads a client by primary key.
func (r *TenantRepository) FindTenantByID(ctx context.Context, id int64) (*domain.Tenant, error) {
	const query = `
		SELECT id, name, COALESCE(email, ''), active
		FROM clients WHERE id = $1`

	var (
		tenant domain.Tenant
		active string
	)
	err := r.db.QueryRow(ctx, query, id).Scan(&tenant.ID, &tenant.Name, &tenant.Email, &active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTenantNotFound
		}
		r.logger.ErrorContext(ctx, "failed to load client", "client_id", id, "error", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}

	tenant.Active = active == activeFlag
	return &tenant, nil
}
