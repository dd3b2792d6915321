package handler

import (
	"context"
	"fmt"
	"time"

	"client-gate/internal/domain"
)

type fakeTenantStore struct {
	tenants map[int64]*domain.Tenant
	err     error
}

func (f *fakeTenantStore) FindTenantByID(_ context.Context, id int64) (*domain.Tenant, error) {
	if f.err != nil {
		return nil, f.err
	}
	t, ok := f.tenants[id]
	if !ok {
		return nil, domain.ErrTenantNotFound
	}
	return t, nil
}

type fakeUserStore struct {
	users  map[string]*domain.User
	nextID int64
}

func (f *fakeUserStore) FindUserByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := f.users[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserStore) FindUserByID(_ context.Context, id int64) (*domain.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserStore) CreateUser(_ context.Context, u *domain.User) error {
	if _, ok := f.users[u.Email]; ok {
		return domain.ErrEmailTaken
	}
	f.nextID++
	u.ID = f.nextID
	f.users[u.Email] = u
	return nil
}

func (f *fakeUserStore) AssignRole(context.Context, int64, string) error { return nil }

type fakeHasher struct{}

func (fakeHasher) Hash(p string) (string, error) { return "hashed:" + p, nil }

func (fakeHasher) Compare(hash, p string) error {
	if hash != "hashed:"+p {
		return domain.ErrInvalidCredentials
	}
	return nil
}

type fakeTokens struct {
	revoked []string
}

func (f *fakeTokens) Issue(_ context.Context, u *domain.User) (*domain.IssuedToken, error) {
	exp := time.Now().Add(time.Hour)
	claims := domain.TokenClaims{TokenID: fmt.Sprintf("jti-%d", u.ID), UserID: u.ID, TenantID: u.TenantID, Email: u.Email, ExpiresAt: exp}
	return &domain.IssuedToken{Value: "bearer-" + claims.TokenID, ExpiresAt: exp, Claims: claims}, nil
}

func (f *fakeTokens) Verify(context.Context, string) (*domain.TokenClaims, error) {
	return nil, domain.ErrTokenInvalid
}

func (f *fakeTokens) Revoke(_ context.Context, c *domain.TokenClaims) error {
	f.revoked = append(f.revoked, c.TokenID)
	return nil
}

type fakeCodec struct{}

func (fakeCodec) Sign(p domain.SignedPayload) (string, error) {
	return fmt.Sprintf("signed:%d:%d", p.TenantID, p.UserID), nil
}

func (fakeCodec) Verify(string) (*domain.SignedPayload, error) {
	return nil, domain.ErrInvalidClientCookie
}

func (fakeCodec) GenerateNonce() (string, error) { return "nonce", nil }

type fakePinger struct{ err error }

func (f fakePinger) HealthCheck(context.Context) error { return f.err }
