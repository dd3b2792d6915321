package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"client-gate/config"
	"client-gate/internal/adapter/server"
	"client-gate/internal/domain"
	"client-gate/internal/infrastructure/password"
	"client-gate/internal/infrastructure/postgres"
	"client-gate/internal/infrastructure/revocation"
	"client-gate/internal/infrastructure/token"
	"client-gate/internal/usecase"
	appmiddleware "client-gate/middleware"
	"client-gate/utils/logger"
	"client-gate/utils/otel"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API and app shell",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return serve(cmd.Context())
	},
}

func serve(ctx context.Context) error {
	otelCfg := otel.ConfigFromEnv()
	otelShutdown, err := otel.InitProvider(ctx, otelCfg)
	if err != nil {
		slog.Warn("failed to initialize OpenTelemetry, continuing without tracing", "error", err)
		otelCfg.Enabled = false
		otelShutdown = func(context.Context) error { return nil }
	}

	log := logger.Init(otelCfg.Enabled)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	log.InfoContext(ctx, "configuration loaded",
		"port", cfg.Port,
		"token_ttl", cfg.TokenTTL,
		"tenant_binding_enabled", cfg.TenantBindingEnabled,
		"redis_revocation", cfg.RedisURL != "")

	db, err := postgres.NewConnection(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return err
	}
	defer db.Close()

	revoked, closeRevoked, err := newRevocationList(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	defer closeRevoked()

	tenants := postgres.NewTenantRepository(db.Pool(), log)
	users := postgres.NewUserRepository(db.Pool(), log)
	hasher := password.NewBcryptHasher(cfg.BcryptCost)
	codec := token.NewCookieCodec(cfg.AppKey)
	tokens := token.NewJWTService(token.JWTConfig{
		Secret:   cfg.TokenSecret,
		Issuer:   cfg.TokenIssuer,
		Audience: cfg.TokenAudience,
		TTL:      cfg.TokenTTL,
	}, revoked)

	credentialLimiter := appmiddleware.NewRateLimiter(appmiddleware.PerMinute(10), 5)
	defer credentialLimiter.Close()

	e := server.NewRouter(server.Options{
		TenantBindingEnabled: cfg.TenantBindingEnabled,
		CookieSecure:         cfg.CookieSecure,
		InternalAuthSecret:   cfg.InternalAuthSecret,
		TrustedProxies:       cfg.TrustedProxies,
		OTelEnabled:          otelCfg.Enabled,
		ServiceName:          otelCfg.ServiceName,
		AppTitle:             "ERP",
	}, server.Deps{
		Login:                 usecase.NewLogin(users, tenants, hasher, tokens, codec, log),
		Logout:                usecase.NewLogout(tokens, log),
		Register:              usecase.NewRegister(users, hasher, tokens, log),
		Authenticate:          usecase.NewAuthenticate(tokens, users),
		ValidateTenantBinding: usecase.NewValidateTenantBinding(codec, tenants, log),
		GetClientInfo:         usecase.NewGetClientInfo(tenants),
		DB:                    db,
		CredentialLimiter:     credentialLimiter,
		Logger:                log,
	})

	address := fmt.Sprintf(":%s", cfg.Port)
	log.InfoContext(ctx, "starting client-gate server", "address", address)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := e.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		log.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return otelShutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("server exited properly")
	return nil
}

// newRevocationList picks Redis when a URL is configured and the in-process
// list otherwise. The in-process list does not survive restarts and is not
// shared between replicas.
func newRevocationList(ctx context.Context, redisURL string) (domain.RevocationList, func(), error) {
	if redisURL == "" {
		slog.WarnContext(ctx, "REDIS_URL not set, revoked tokens are tracked in memory only")
		list := revocation.NewMemoryList(time.Minute)
		return list, func() { _ = list.Close() }, nil
	}

	list, err := revocation.NewRedisListWithURL(redisURL)
	if err != nil {
		return nil, nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := list.Ping(pingCtx); err != nil {
		_ = list.Close()
		return nil, nil, fmt.Errorf("redis revocation list: %w", err)
	}
	return list, func() { _ = list.Close() }, nil
}
