package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"client-gate/internal/domain"
)

var errStoreDown = fmt.Errorf("%w: connection refused", domain.ErrStoreUnavailable)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// mockTenantStore implements domain.TenantStore for testing.
type mockTenantStore struct {
	tenants map[int64]*domain.Tenant
	err     error
	calls   int
}

func newMockTenantStore(tenants ...*domain.Tenant) *mockTenantStore {
	m := &mockTenantStore{tenants: make(map[int64]*domain.Tenant)}
	for _, t := range tenants {
		m.tenants[t.ID] = t
	}
	return m
}

func (m *mockTenantStore) FindTenantByID(_ context.Context, id int64) (*domain.Tenant, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	t, ok := m.tenants[id]
	if !ok {
		return nil, domain.ErrTenantNotFound
	}
	copied := *t
	return &copied, nil
}

// mockUserStore implements domain.UserStore for testing.
type mockUserStore struct {
	byEmail   map[string]*domain.User
	byID      map[int64]*domain.User
	nextID    int64
	findErr   error
	createErr error
	roleErr   error
	roles     map[int64][]string
}

func newMockUserStore(users ...*domain.User) *mockUserStore {
	m := &mockUserStore{
		byEmail: make(map[string]*domain.User),
		byID:    make(map[int64]*domain.User),
		roles:   make(map[int64][]string),
		nextID:  100,
	}
	for _, u := range users {
		m.byEmail[u.Email] = u
		m.byID[u.ID] = u
	}
	return m
}

func (m *mockUserStore) FindUserByEmail(_ context.Context, email string) (*domain.User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	u, ok := m.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (m *mockUserStore) FindUserByID(_ context.Context, id int64) (*domain.User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	u, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (m *mockUserStore) CreateUser(_ context.Context, u *domain.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	if _, taken := m.byEmail[u.Email]; taken {
		return domain.ErrEmailTaken
	}
	m.nextID++
	u.ID = m.nextID
	m.byEmail[u.Email] = u
	m.byID[u.ID] = u
	return nil
}

func (m *mockUserStore) AssignRole(_ context.Context, userID int64, role string) error {
	if m.roleErr != nil {
		return m.roleErr
	}
	m.roles[userID] = append(m.roles[userID], role)
	return nil
}

// mockHasher implements domain.PasswordHasher with a reversible "hash".
type mockHasher struct {
	err error
}

func (m *mockHasher) Hash(password string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return "hashed:" + password, nil
}

func (m *mockHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return domain.ErrInvalidCredentials
	}
	return nil
}

// mockTokenService implements domain.TokenService for testing.
type mockTokenService struct {
	claims    map[string]*domain.TokenClaims
	revoked   map[string]bool
	issueErr  error
	verifyErr error
	revokeErr error
}

func newMockTokenService() *mockTokenService {
	return &mockTokenService{
		claims:  make(map[string]*domain.TokenClaims),
		revoked: make(map[string]bool),
	}
}

func (m *mockTokenService) Issue(_ context.Context, u *domain.User) (*domain.IssuedToken, error) {
	if m.issueErr != nil {
		return nil, m.issueErr
	}
	id := fmt.Sprintf("jti-%d-%d", u.ID, len(m.claims))
	claims := domain.TokenClaims{
		TokenID:   id,
		UserID:    u.ID,
		TenantID:  u.TenantID,
		Email:     u.Email,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	m.claims["token-"+id] = &claims
	return &domain.IssuedToken{Value: "token-" + id, ExpiresAt: claims.ExpiresAt, Claims: claims}, nil
}

func (m *mockTokenService) Verify(_ context.Context, raw string) (*domain.TokenClaims, error) {
	if m.verifyErr != nil {
		return nil, m.verifyErr
	}
	c, ok := m.claims[raw]
	if !ok {
		return nil, domain.ErrTokenInvalid
	}
	if m.revoked[c.TokenID] {
		return nil, domain.ErrTokenRevoked
	}
	return c, nil
}

func (m *mockTokenService) Revoke(_ context.Context, c *domain.TokenClaims) error {
	if m.revokeErr != nil {
		return m.revokeErr
	}
	m.revoked[c.TokenID] = true
	return nil
}

// mockCodec implements domain.CookieCodec with an unsigned, inspectable format.
type mockCodec struct {
	payloads map[string]domain.SignedPayload
	signErr  error
	nonceErr error
}

func newMockCodec() *mockCodec {
	return &mockCodec{payloads: make(map[string]domain.SignedPayload)}
}

func (m *mockCodec) Sign(p domain.SignedPayload) (string, error) {
	if m.signErr != nil {
		return "", m.signErr
	}
	token := fmt.Sprintf("signed-%d-%d-%s", p.TenantID, p.UserID, p.Nonce)
	m.payloads[token] = p
	return token, nil
}

func (m *mockCodec) Verify(token string) (*domain.SignedPayload, error) {
	p, ok := m.payloads[token]
	if !ok {
		return nil, domain.ErrInvalidClientCookie
	}
	return &p, nil
}

func (m *mockCodec) GenerateNonce() (string, error) {
	if m.nonceErr != nil {
		return "", m.nonceErr
	}
	return "nonce", nil
}

var errBoom = errors.New("boom")
