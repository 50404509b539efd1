// Package cli implements the stockwatch command line.
package cli

import (
	"context"
	"fmt"

	"stockwatch/internal/app"
	"stockwatch/internal/config"
	"stockwatch/internal/core"
	"stockwatch/internal/db"
	"stockwatch/internal/logging"
	"stockwatch/internal/store/memory"
	"stockwatch/internal/store/postgres"
	"stockwatch/pkg/version"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile     string
	databaseURL string
	storeKind   string
	logLevel    string

	// Global config
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "stockwatch",
		Short: "Inventory registration and low-stock alert service",
		Long: `stockwatch registers products and their per-warehouse stock, and
reports the stock positions of a company that are running low: at or below
threshold, still selling, and with a supplier to reorder from.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./stockwatch.yaml)")
	rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", "",
		"PostgreSQL connection string")
	rootCmd.PersistentFlags().StringVar(&storeKind, "store", "",
		"data store: postgres or memory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(alertsCmd)
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	// Override with CLI flags
	if databaseURL != "" {
		cfg.DatabaseURL = databaseURL
	}
	if storeKind != "" {
		cfg.Store = storeKind
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
	})
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.Info())
	},
}

// backend is a wired ApplicationService and the resources behind it.
type backend struct {
	svc  app.ApplicationService
	pool *pgxpool.Pool // nil for the memory store
}

func (b *backend) Close() {
	if b.pool != nil {
		b.pool.Close()
	}
}

// openBackend validates cfg, opens the configured store and wires the services.
func openBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	defaults := core.AlertDefaults{
		LowStockThreshold: cfg.Alerts.DefaultThreshold,
		RecentDays:        cfg.Alerts.DefaultRecentDays,
	}

	var (
		store  core.Store
		seeder core.Seeder
		pool   *pgxpool.Pool
	)
	switch cfg.Store {
	case "memory":
		mem := memory.New()
		store, seeder = mem, mem
		logging.Warn().Msg("Using the in-memory store; data is lost on exit")
	default:
		var err error
		pool, err = db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		pg := postgres.NewStore(pool)
		store, seeder = pg, pg
	}

	registration := core.NewRegistrationService(store)
	alerts := core.NewAlertService(store, defaults)
	return &backend{
		svc:  app.NewAppService(store, seeder, registration, alerts),
		pool: pool,
	}, nil
}
