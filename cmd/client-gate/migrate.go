package main

import (
	"context"
	"fmt"

	"client-gate/config"
	"client-gate/internal/infrastructure/postgres"
	"client-gate/utils/logger"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down]",
	Short:     "Apply all pending migrations, or roll back the latest one",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"up", "down"},
	RunE: func(cmd *cobra.Command, args []string) error {
		direction := "up"
		if len(args) == 1 {
			direction = args[0]
		}
		return migrate(cmd.Context(), direction)
	},
}

func migrate(ctx context.Context, direction string) error {
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

	m := postgres.NewMigrator(db.Pool(), log, postgres.Migrations())

	switch direction {
	case "up":
		n, err := m.Up(ctx)
		if err != nil {
			return err
		}
		log.InfoContext(ctx, "migrations applied", "count", n)
	case "down":
		reverted, err := m.Down(ctx)
		if err != nil {
			return err
		}
		log.InfoContext(ctx, "migration rollback finished", "reverted", reverted)
	default:
		return fmt.Errorf("unknown migrate direction %q (want up or down)", direction)
	}
	return nil
}
