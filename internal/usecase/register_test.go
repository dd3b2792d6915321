package usecase

import (
	"context"
	"testing"

	"client-gate/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_CreatesUnboundViewer(t *testing.T) {
	users := newMockUserStore()
	uc := NewRegister(users, &mockHasher{}, newMockTokenService(), discardLogger())

	result, err := uc.Execute(context.Background(), RegisterInput{
		Email:     "new@example.com",
		Password:  "password123",
		FirstName: "New",
		LastName:  "User",
	})
	require.NoError(t, err)

	assert.Positive(t, result.User.ID)
	assert.Equal(t, domain.NoTenant, result.User.TenantID)
	assert.False(t, result.User.HasTenant())
	assert.True(t, result.User.Active)
	assert.Equal(t, "hashed:password123", result.User.PasswordHash)
	assert.Equal(t, []string{domain.DefaultRole}, result.User.Roles)
	assert.Equal(t, []string{domain.DefaultRole}, users.roles[result.User.ID])
	assert.NotEmpty(t, result.Token.Value)
}

func TestRegister_Errors(t *testing.T) {
	t.Run("duplicate email", func(t *testing.T) {
		users := newMockUserStore(&domain.User{ID: 1, Email: "dup@example.com"})
		uc := NewRegister(users, &mockHasher{}, newMockTokenService(), discardLogger())

		_, err := uc.Execute(context.Background(), RegisterInput{Email: "dup@example.com", Password: "password123"})
		assert.ErrorIs(t, err, domain.ErrEmailTaken)
	})

	t.Run("hash failure", func(t *testing.T) {
		uc := NewRegister(newMockUserStore(), &mockHasher{err: errBoom}, newMockTokenService(), discardLogger())

		_, err := uc.Execute(context.Background(), RegisterInput{Email: "a@example.com", Password: "password123"})
		assert.ErrorIs(t, err, errBoom)
	})

	t.Run("role assignment failure", func(t *testing.T) {
		users := newMockUserStore()
		users.roleErr = errStoreDown
		uc := NewRegister(users, &mockHasher{}, newMockTokenService(), discardLogger())

		_, err := uc.Execute(context.Background(), RegisterInput{Email: "a@example.com", Password: "password123"})
		assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	})
}
