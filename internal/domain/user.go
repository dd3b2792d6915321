package domain

import (
	"context"
	"time"
)

// NoTenant is the client_id value of a user provisioned without a tenant.
const NoTenant int64 = 0

// DefaultRole is assigned to self-registered users.
const DefaultRole = "Viewer"

// User is an account record. TenantID points at the user's client.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	TenantID     int64
	Active       bool
	Roles        []string
}

// HasTenant reports whether the user is bound to a client.
func (u *User) HasTenant() bool {
	return u.TenantID != NoTenant
}

// TokenClaims are the verified contents of a bearer token.
type TokenClaims struct {
	TokenID   string
	UserID    int64
	TenantID  int64
	Email     string
	ExpiresAt time.Time
}

// IssuedToken is a freshly minted bearer token.
type IssuedToken struct {
	Value     string
	ExpiresAt time.Time
	Claims    TokenClaims
}

// Principal is the authenticated identity of a request.
type Principal struct {
	User   *User
	Claims *TokenClaims
}

type principalKey struct{}

// WithPrincipal attaches the authenticated identity to ctx.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the authenticated identity attached to ctx, if any.
func PrincipalFrom(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok && p != nil && p.User != nil
}
