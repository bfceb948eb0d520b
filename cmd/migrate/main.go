package main

// Run database migrations:
//   go run ./cmd/migrate up
//   go run ./cmd/migrate down
//   go run ./cmd/migrate status

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"nutricoach-backend/internal/shared/config"
	"nutricoach-backend/internal/shared/storage/db"
	"nutricoach-backend/internal/shared/telemetry"
)

type migrateFunc func(ctx context.Context, database *sql.DB) error

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "migrate",
		Short:         "Manage the check-in database schema",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), db.RunMigrations)
		},
	}
	cmd.AddCommand(newStepCommand("up", "Apply all pending migrations", db.RunMigrations))
	cmd.AddCommand(newStepCommand("down", "Roll back the most recent migration", db.RollbackMigration))
	cmd.AddCommand(newStepCommand("status", "Print the state of every migration", db.MigrationStatus))
	return cmd
}

func newStepCommand(use, short string, fn migrateFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), fn)
		},
	}
}

func run(ctx context.Context, fn migrateFunc) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := config.Load()
	telemetry.SetLevel(cfg.LogLevel)

	opts := db.OptionsFromEnv(db.DefaultMigrateOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer sqlDB.Close()

	if err := fn(ctx, sqlDB); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	telemetry.Info("migrate.done", nil)
	return nil
}
