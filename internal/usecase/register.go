package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"client-gate/internal/domain"
)

// RegisterInput is a self-registration request.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// RegisterResult is the created user and its first bearer token.
type RegisterResult struct {
	User  *domain.User
	Token *domain.IssuedToken
}

// Register creates an unbound user with the default role.
type Register struct {
	users  domain.UserStore
	hasher domain.PasswordHasher
	tokens domain.TokenService
	logger *slog.Logger
}

// NewRegister creates a new Register usecase.
func NewRegister(users domain.UserStore, hasher domain.PasswordHasher, tokens domain.TokenService, logger *slog.Logger) *Register {
	return &Register{users: users, hasher: hasher, tokens: tokens, logger: logger}
}

// Execute creates the user. A duplicate email yields domain.ErrEmailTaken.
func (uc *Register) Execute(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		TenantID:     domain.NoTenant,
		Active:       true,
	}
	if err := uc.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	if err := uc.users.AssignRole(ctx, user.ID, domain.DefaultRole); err != nil {
		return nil, fmt.Errorf("assign default role: %w", err)
	}
	user.Roles = []string{domain.DefaultRole}

	issued, err := uc.tokens.Issue(ctx, user)
	if err != nil {
		return nil, err
	}

	uc.logger.InfoContext(ctx, "user registered", "user_id", user.ID)
	return &RegisterResult{User: user, Token: issued}, nil
}
