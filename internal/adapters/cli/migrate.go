package cli

import (
	"context"
	"fmt"

	"stockwatch/internal/logging"
	"stockwatch/migrations"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	Long: `Apply the embedded schema to the configured PostgreSQL database.
Every statement is idempotent, so migrate is safe to run on each deploy.`,
	RunE: runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	if cfg.Store != "postgres" {
		return fmt.Errorf("migrate requires the postgres store")
	}

	ctx := context.Background()
	b, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	applied, err := migrations.Apply(ctx, b.pool)
	if err != nil {
		return err
	}
	for _, name := range applied {
		logging.Info().Str("file", name).Msg("Migration applied")
	}
	cmd.Printf("Applied %d migration(s).\n", len(applied))
	return nil
}
