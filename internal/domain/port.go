package domain

import (
	"context"
	"time"
)

// TenantStore reads tenant (client) records.
type TenantStore interface {
	// FindTenantByID returns ErrTenantNotFound when no row exists.
	FindTenantByID(ctx context.Context, id int64) (*Tenant, error)
}

// UserStore reads and creates user records.
type UserStore interface {
	FindUserByEmail(ctx context.Context, email string) (*User, error)
	FindUserByID(ctx context.Context, id int64) (*User, error)
	CreateUser(ctx context.Context, user *User) error
	AssignRole(ctx context.Context, userID int64, role string) error
}

// TokenService issues, verifies and revokes bearer tokens.
type TokenService interface {
	Issue(ctx context.Context, user *User) (*IssuedToken, error)
	Verify(ctx context.Context, raw string) (*TokenClaims, error)
	Revoke(ctx context.Context, claims *TokenClaims) error
}

// RevocationList remembers revoked token ids until they would have expired anyway.
type RevocationList interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// CookieCodec signs and verifies the client_data cookie payload.
type CookieCodec interface {
	Sign(payload SignedPayload) (string, error)
	Verify(token string) (*SignedPayload, error)
	GenerateNonce() (string, error)
}

// PasswordHasher hashes and checks user passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}
