package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"client-gate/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

const selectUser = `
	SELECT u.id, u.email, u.password, u.first_name, u.last_name, u.client_id, u.active,
	       COALESCE(array_agg(r.name ORDER BY r.name) FILTER (WHERE r.name IS NOT NULL), '{}')
	FROM users u
	LEFT JOIN user_roles ur ON ur.user_id = u.id
	LEFT JOIN roles r ON r.id = ur.role_id`

// UserRepository reads and writes rows of the users table.
// Implements domain.UserStore.
type UserRepository struct {
	db     DBTX
	logger *slog.Logger
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db DBTX, logger *slog.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger.With("component", "user_repository"),
	}
}

// FindUserByEmail loads a user by email, case-insensitively.
func (r *UserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := selectUser + ` WHERE u.email = $1 GROUP BY u.id`
	return r.scanUser(ctx, query, strings.ToLower(strings.TrimSpace(email)))
}

// FindUserByID loads a user by primary key.
func (r *UserRepository) FindUserByID(ctx context.Context, id int64) (*domain.User, error) {
	query := selectUser + ` WHERE u.id = $1 GROUP BY u.id`
	return r.scanUser(ctx, query, id)
}

func (r *UserRepository) scanUser(ctx context.Context, query string, arg any) (*domain.User, error) {
	var (
		user   domain.User
		active string
		roles  []string
	)
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.TenantID,
		&active,
		&roles,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		r.logger.ErrorContext(ctx, "failed to load user", "error", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}

	user.Active = active == activeFlag
	user.Roles = roles
	return &user, nil
}

// CreateUser inserts the user and sets its generated id.
func (r *UserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	const query = `
		INSERT INTO users (email, password, first_name, last_name, client_id, active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	active := "0"
	if user.Active {
		active = activeFlag
	}

	email := strings.ToLower(strings.TrimSpace(user.Email))
	err := r.db.QueryRow(ctx, query,
		email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.TenantID,
		active,
	).Scan(&user.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrEmailTaken
		}
		r.logger.ErrorContext(ctx, "failed to create user", "error", err)
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}

	user.Email = email
	r.logger.InfoContext(ctx, "user created", "user_id", user.ID, "client_id", user.TenantID)
	return nil
}

// AssignRole links the user to the named role. Assigning a role twice is a no-op.
func (r *UserRepository) AssignRole(ctx context.Context, userID int64, role string) error {
	const query = `
		INSERT INTO user_roles (user_id, role_id)
		SELECT $1, id FROM roles WHERE name = $2
		ON CONFLICT DO NOTHING`

	if _, err := r.db.Exec(ctx, query, userID, role); err != nil {
		r.logger.ErrorContext(ctx, "failed to assign role", "user_id", userID, "role", role, "error", err)
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	return nil
}
