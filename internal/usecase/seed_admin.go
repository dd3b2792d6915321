package usecase

import (
	"context"
	"errors"
	"log/slog"

	"client-gate/internal/domain"
)

// AdminRole is granted to the seeded administrator.
const AdminRole = "super_admin"

// DefaultTenantID is the client row created by the initial migration.
const DefaultTenantID int64 = 1

// SeedAdmin makes sure an administrator bound to the default client exists.
type SeedAdmin struct {
	users  domain.UserStore
	hasher domain.PasswordHasher
	logger *slog.Logger
}

// NewSeedAdmin creates a new SeedAdmin usecase.
func NewSeedAdmin(users domain.UserStore, hasher domain.PasswordHasher, logger *slog.Logger) *SeedAdmin {
	return &SeedAdmin{users: users, hasher: hasher, logger: logger}
}

// Execute creates the admin when missing and (re)grants the admin role.
// It reports whether a user was created.
func (uc *SeedAdmin) Execute(ctx context.Context, email, password string) (bool, error) {
	existing, err := uc.users.FindUserByEmail(ctx, email)
	switch {
	case err == nil:
		uc.logger.InfoContext(ctx, "admin user already present", "user_id", existing.ID)
		return false, uc.users.AssignRole(ctx, existing.ID, AdminRole)
	case !errors.Is(err, domain.ErrUserNotFound):
		return false, err
	}

	if password == "" {
		return false, errors.New("admin password is required to create the admin user")
	}
	hash, err := uc.hasher.Hash(password)
	if err != nil {
		return false, err
	}

	admin := &domain.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    "Admin",
		LastName:     "User",
		TenantID:     DefaultTenantID,
		Active:       true,
	}
	if err := uc.users.CreateUser(ctx, admin); err != nil {
		return false, err
	}
	if err := uc.users.AssignRole(ctx, admin.ID, AdminRole); err != nil {
		return false, err
	}

	uc.logger.InfoContext(ctx, "admin user created", "user_id", admin.ID, "client_id", admin.TenantID)
	return true, nil
}
