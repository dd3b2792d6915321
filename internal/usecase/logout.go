package usecase

import (
	"context"
	"log/slog"

	"client-gate/internal/domain"
	"client-gate/internal/infrastructure/metrics"
)

// Logout revokes the bearer token of the current request.
type Logout struct {
	tokens domain.TokenService
	logger *slog.Logger
}

// NewLogout creates a new Logout usecase.
func NewLogout(tokens domain.TokenService, logger *slog.Logger) *Logout {
	return &Logout{tokens: tokens, logger: logger}
}

// Execute revokes the token described by claims.
func (uc *Logout) Execute(ctx context.Context, claims *domain.TokenClaims) error {
	if claims == nil {
		return domain.ErrUnauthenticated
	}
	if err := uc.tokens.Revoke(ctx, claims); err != nil {
		return err
	}

	metrics.RecordRevocation()
	uc.logger.InfoContext(ctx, "token revoked", "user_id", claims.UserID, "token_id", claims.TokenID)
	return nil
}
