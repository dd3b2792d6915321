package usecase

import (
	"context"
	"errors"

	"client-gate/internal/domain"
)

// Authenticate resolves a raw bearer token into the live user record.
type Authenticate struct {
	tokens domain.TokenService
	users  domain.UserStore
}

// NewAuthenticate creates a new Authenticate usecase.
func NewAuthenticate(tokens domain.TokenService, users domain.UserStore) *Authenticate {
	return &Authenticate{tokens: tokens, users: users}
}

// Execute verifies the token and loads its user. Token problems and deleted
// users yield errors matching domain.ErrUnauthenticated; store failures are
// returned as-is.
func (uc *Authenticate) Execute(ctx context.Context, rawToken string) (*domain.Principal, error) {
	claims, err := uc.tokens.Verify(ctx, rawToken)
	if err != nil {
		if errors.Is(err, domain.ErrTokenInvalid) || errors.Is(err, domain.ErrTokenRevoked) {
			return nil, errors.Join(domain.ErrUnauthenticated, err)
		}
		return nil, err
	}

	user, err := uc.users.FindUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, errors.Join(domain.ErrUnauthenticated, err)
		}
		return nil, err
	}

	return &domain.Principal{User: user, Claims: claims}, nil
}
