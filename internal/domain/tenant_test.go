package domain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTenantContext_RoundTrip(t *testing.T) {
	tc := NewTenantContext(&Tenant{ID: 1, Name: "Acme", Email: "ops@acme.test", Active: true})
	ctx := WithTenantContext(context.Background(), tc)

	got, ok := TenantContextFrom(ctx)
	assert.True(t, ok)
	assert.Equal(t, &TenantContext{ID: 1, Name: "Acme", Email: "ops@acme.test"}, got)
}

func TestTenantContextFrom_Absent(t *testing.T) {
	got, ok := TenantContextFrom(context.Background())
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestPrincipalFrom(t *testing.T) {
	_, ok := PrincipalFrom(context.Background())
	assert.False(t, ok)

	_, ok = PrincipalFrom(WithPrincipal(context.Background(), &Principal{}))
	assert.False(t, ok, "principal without a user is not authenticated")

	p := &Principal{User: &User{ID: 7}}
	got, ok := PrincipalFrom(WithPrincipal(context.Background(), p))
	assert.True(t, ok)
	assert.Equal(t, int64(7), got.User.ID)
}

func TestUser_HasTenant(t *testing.T) {
	assert.False(t, (&User{TenantID: NoTenant}).HasTenant())
	assert.True(t, (&User{TenantID: 3}).HasTenant())
}
