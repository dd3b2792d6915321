package postgres

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"client-gate/internal/domain"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestTenantRepository_FindTenantByID(t *testing.T) {
	columns := []string{"id", "name", "email", "active"}

	tests := []struct {
		name    string
		setupDB func(pgxmock.PgxPoolIface)
		want    *domain.Tenant
		wantErr error
	}{
		{
			name: "active client",
			setupDB: func(m pgxmock.PgxPoolIface) {
				m.ExpectQuery("FROM clients WHERE id").
					WithArgs(int64(1)).
					WillReturnRows(pgxmock.NewRows(columns).AddRow(int64(1), "NaidSystems", "admin@naidsystems.com", "1"))
			},
			want: &domain.Tenant{ID: 1, Name: "NaidSystems", Email: "admin@naidsystems.com", Active: true},
		},
		{
			name: "inactive client",
			setupDB: func(m pgxmock.PgxPoolIface) {
				m.ExpectQuery("FROM clients WHERE id").
					WithArgs(int64(1)).
					WillReturnRows(pgxmock.NewRows(columns).AddRow(int64(1), "NaidSystems", "", "0"))
			},
			want: &domain.Tenant{ID: 1, Name: "NaidSystems", Active: false},
		},
		{
			name: "missing client",
			setupDB: func(m pgxmock.PgxPoolIface) {
				m.ExpectQuery("FROM clients WHERE id").
					WithArgs(int64(1)).
					WillReturnRows(pgxmock.NewRows(columns))
			},
			wantErr: domain.ErrTenantNotFound,
		},
		{
			name: "database failure",
			setupDB: func(m pgxmock.PgxPoolIface) {
				m.ExpectQuery("FROM clients WHERE id").
					WithArgs(int64(1)).
					WillReturnError(errors.New("connection refused"))
			},
			wantErr: domain.ErrStoreUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMockPool(t)
			tt.setupDB(mock)
			repo := NewTenantRepository(mock, testLogger())

			got, err := repo.FindTenantByID(context.Background(), 1)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
