package token

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"client-gate/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTConfig holds bearer token configuration.
type JWTConfig struct {
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration
}

// bearerClaims is the wire form of an issued bearer token.
type bearerClaims struct {
	Email    string `json:"email"`
	ClientID int64  `json:"cid"`
	jwt.RegisteredClaims
}

// JWTService issues and verifies HS256 bearer tokens.
// Implements domain.TokenService.
type JWTService struct {
	cfg     JWTConfig
	revoked domain.RevocationList
	now     func() time.Time
}

// NewJWTService creates a new bearer token service. revoked may be nil,
// in which case tokens stay valid until they expire.
func NewJWTService(cfg JWTConfig, revoked domain.RevocationList) *JWTService {
	return &JWTService{cfg: cfg, revoked: revoked, now: time.Now}
}

// Issue mints a signed token for the user.
func (j *JWTService) Issue(_ context.Context, user *domain.User) (*domain.IssuedToken, error) {
	if j.cfg.Secret == "" {
		return nil, fmt.Errorf("%w: empty signing secret", domain.ErrTokenGeneration)
	}

	now := j.now()
	expiresAt := now.Add(j.cfg.TTL)
	tokenID := uuid.NewString()

	claims := bearerClaims{
		Email:    user.Email,
		ClientID: user.TenantID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			Issuer:    j.cfg.Issuer,
			Audience:  jwt.ClaimStrings{j.cfg.Audience},
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(j.cfg.Secret))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrTokenGeneration, err)
	}

	return &domain.IssuedToken{
		Value:     signed,
		ExpiresAt: claims.ExpiresAt.Time,
		Claims: domain.TokenClaims{
			TokenID:   tokenID,
			UserID:    user.ID,
			TenantID:  user.TenantID,
			Email:     user.Email,
			ExpiresAt: claims.ExpiresAt.Time,
		},
	}, nil
}

// Verify parses the token, checks signature, issuer, audience and expiry,
// then consults the revocation list.
func (j *JWTService) Verify(ctx context.Context, raw string) (*domain.TokenClaims, error) {
	if raw == "" {
		return nil, domain.ErrTokenInvalid
	}

	parsed, err := jwt.ParseWithClaims(raw, &bearerClaims{}, func(t *jwt.Token) (any, error) {
		return []byte(j.cfg.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(j.cfg.Issuer),
		jwt.WithAudience(j.cfg.Audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrTokenInvalid, err)
	}

	claims, ok := parsed.Claims.(*bearerClaims)
	if !ok || !parsed.Valid || claims.ID == "" {
		return nil, domain.ErrTokenInvalid
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return nil, fmt.Errorf("%w: bad subject", domain.ErrTokenInvalid)
	}

	if j.revoked != nil {
		revoked, err := j.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
		}
		if revoked {
			return nil, domain.ErrTokenRevoked
		}
	}

	return &domain.TokenClaims{
		TokenID:   claims.ID,
		UserID:    userID,
		TenantID:  claims.ClientID,
		Email:     claims.Email,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Revoke records the token id until its natural expiry.
func (j *JWTService) Revoke(ctx context.Context, claims *domain.TokenClaims) error {
	if claims == nil || claims.TokenID == "" {
		return domain.ErrTokenInvalid
	}
	if j.revoked == nil {
		return errors.New("no revocation list configured")
	}

	ttl := claims.ExpiresAt.Sub(j.now())
	if ttl <= 0 {
		return nil
	}
	return j.revoked.Revoke(ctx, claims.TokenID, ttl)
}
