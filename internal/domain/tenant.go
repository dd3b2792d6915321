package domain

import "context"

// Tenant is a client organisation record.
type Tenant struct {
	ID     int64
	Name   string
	Email  string
	Active bool
}

// SignedPayload is the plaintext carried inside the client_data cookie.
type SignedPayload struct {
	TenantID   int64  `json:"tenant_id"`
	TenantName string `json:"tenant_name"`
	UserID     int64  `json:"user_id"`
	Nonce      string `json:"nonce"`
}

// TenantContext is the tenant binding validated for the current request.
type TenantContext struct {
	ID    int64
	Name  string
	Email string
}

// NewTenantContext projects a tenant record into a request-scoped context value.
func NewTenantContext(t *Tenant) *TenantContext {
	return &TenantContext{ID: t.ID, Name: t.Name, Email: t.Email}
}

type tenantContextKey struct{}

// WithTenantContext attaches a validated tenant to ctx.
func WithTenantContext(ctx context.Context, tc *TenantContext) context.Context {
	return context.WithValue(ctx, tenantContextKey{}, tc)
}

// TenantContextFrom returns the validated tenant attached to ctx, if any.
func TenantContextFrom(ctx context.Context) (*TenantContext, bool) {
	tc, ok := ctx.Value(tenantContextKey{}).(*TenantContext)
	return tc, ok && tc != nil
}
