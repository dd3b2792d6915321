package main

import (
	"context"
	"fmt"

	"client-gate/config"
	"client-gate/internal/infrastructure/password"
	"client-gate/internal/infrastructure/postgres"
	"client-gate/internal/usecase"
	"client-gate/utils/logger"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create or promote the super_admin account from SEED_ADMIN_*",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return seed(cmd.Context())
	},
}

func seed(ctx context.Context) error {
	log := logger.Init(false)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	db, err := postgres.NewConnection(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return err
	}
	defer db.Close()

	users := postgres.NewUserRepository(db.Pool(), log)
	uc := usecase.NewSeedAdmin(users, password.NewBcryptHasher(cfg.BcryptCost), log)

	created, err := uc.Execute(ctx, cfg.SeedAdminEmail, cfg.SeedAdminPassword)
	if err != nil {
		return err
	}
	log.InfoContext(ctx, "admin seed finished", "email", cfg.SeedAdminEmail, "created", created)
	return nil
}
