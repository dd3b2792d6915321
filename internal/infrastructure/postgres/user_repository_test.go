package postgres

import (
	"context"
	"errors"
	"testing"

	"client-gate/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userColumns = []string{"id", "email", "password", "first_name", "last_name", "client_id", "active", "roles"}

func TestUserRepository_FindUserByEmail(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock, testLogger())

	mock.ExpectQuery("FROM users u").
		WithArgs("admin@erp.com").
		WillReturnRows(pgxmock.NewRows(userColumns).
			AddRow(int64(1), "admin@erp.com", "$2a$10$hash", "Admin", "User", int64(1), "1", []string{"super_admin"}))

	got, err := repo.FindUserByEmail(context.Background(), "  Admin@ERP.com ")
	require.NoError(t, err)
	assert.Equal(t, &domain.User{
		ID:           1,
		Email:        "admin@erp.com",
		PasswordHash: "$2a$10$hash",
		FirstName:    "Admin",
		LastName:     "User",
		TenantID:     1,
		Active:       true,
		Roles:        []string{"super_admin"},
	}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindUserByID(t *testing.T) {
	tests := []struct {
		name    string
		setupDB func(pgxmock.PgxPoolIface)
		wantErr error
	}{
		{
			name: "found without tenant",
			setupDB: func(m pgxmock.PgxPoolIface) {
				m.ExpectQuery("FROM users u").
					WithArgs(int64(7)).
					WillReturnRows(pgxmock.NewRows(userColumns).
						AddRow(int64(7), "v@example.com", "h", "V", "W", int64(0), "1", []string{}))
			},
		},
		{
			name: "not found",
			setupDB: func(m pgxmock.PgxPoolIface) {
				m.ExpectQuery("FROM users u").
					WithArgs(int64(7)).
					WillReturnRows(pgxmock.NewRows(userColumns))
			},
			wantErr: domain.ErrUserNotFound,
		},
		{
			name: "database failure",
			setupDB: func(m pgxmock.PgxPoolIface) {
				m.ExpectQuery("FROM users u").
					WithArgs(int64(7)).
					WillReturnError(errors.New("timeout"))
			},
			wantErr: domain.ErrStoreUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMockPool(t)
			tt.setupDB(mock)
			repo := NewUserRepository(mock, testLogger())

			got, err := repo.FindUserByID(context.Background(), 7)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				assert.Equal(t, int64(7), got.ID)
				assert.False(t, got.HasTenant())
				assert.Empty(t, got.Roles)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_CreateUser(t *testing.T) {
	t.Run("assigns generated id", func(t *testing.T) {
		mock := newMockPool(t)
		repo := NewUserRepository(mock, testLogger())

		mock.ExpectQuery("INSERT INTO users").
			WithArgs("new@example.com", "hash", "New", "User", int64(0), "1").
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(12)))

		user := &domain.User{
			Email:        "New@Example.com",
			PasswordHash: "hash",
			FirstName:    "New",
			LastName:     "User",
			Active:       true,
		}
		require.NoError(t, repo.CreateUser(context.Background(), user))
		assert.Equal(t, int64(12), user.ID)
		assert.Equal(t, "new@example.com", user.Email)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate email", func(t *testing.T) {
		mock := newMockPool(t)
		repo := NewUserRepository(mock, testLogger())

		mock.ExpectQuery("INSERT INTO users").
			WithArgs("dup@example.com", "hash", "", "", int64(0), "1").
			WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key"})

		err := repo.CreateUser(context.Background(), &domain.User{Email: "dup@example.com", PasswordHash: "hash", Active: true})
		assert.ErrorIs(t, err, domain.ErrEmailTaken)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database failure", func(t *testing.T) {
		mock := newMockPool(t)
		repo := NewUserRepository(mock, testLogger())

		mock.ExpectQuery("INSERT INTO users").
			WithArgs("x@example.com", "hash", "", "", int64(0), "0").
			WillReturnError(errors.New("connection reset"))

		err := repo.CreateUser(context.Background(), &domain.User{Email: "x@example.com", PasswordHash: "hash"})
		assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_AssignRole(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock, testLogger())

	mock.ExpectExec("INSERT INTO user_roles").
		WithArgs(int64(12), domain.DefaultRole).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO user_roles").
		WithArgs(int64(12), domain.DefaultRole).
		WillReturnError(errors.New("broken pipe"))

	assert.NoError(t, repo.AssignRole(context.Background(), 12, domain.DefaultRole))
	assert.ErrorIs(t, repo.AssignRole(context.Background(), 12, domain.DefaultRole), domain.ErrStoreUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}
