package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	webAdapter "stockwatch/internal/adapters/web"
	"stockwatch/internal/app"
	"stockwatch/internal/logging"

	"github.com/spf13/cobra"
)

var (
	serveAddr string
	serveDemo bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API. The server stops accepting connections on
SIGINT or SIGTERM and waits up to http.shutdown_timeout for in-flight
requests to finish.

Example:
  stockwatch serve --addr :8080
  stockwatch serve --store memory --demo`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "",
		"listen address (default: :8080)")
	serveCmd.Flags().BoolVar(&serveDemo, "demo", false,
		"generate a demo dataset before serving")
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveAddr != "" {
		cfg.HTTP.Addr = serveAddr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	if serveDemo {
		res, err := b.svc.SeedDemoData(ctx, seedRequest(0))
		if err != nil {
			return fmt.Errorf("failed to generate demo data: %w", err)
		}
		logging.Info().Ints("company_ids", res.Summary.CompanyIDs).Msg("Demo data ready")
	}

	srv := &http.Server{
		Addr: cfg.HTTP.Addr,
		Handler: webAdapter.NewHandler(b.svc, webAdapter.Options{
			AllowedOrigins: cfg.HTTP.AllowedOrigins,
			MaxBodyBytes:   cfg.HTTP.MaxBodyBytes,
		}),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", srv.Addr).Str("store", cfg.Store).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logging.Info().Msg("Received shutdown signal")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	logging.Info().Msg("Server stopped")
	return nil
}

// seedRequest builds a SeedRequest from the seed command flags.
func seedRequest(seed uint64) app.SeedRequest {
	return app.SeedRequest{
		Companies:            seedCompanies,
		WarehousesPerCompany: seedWarehouses,
		ProductsPerCompany:   seedProducts,
		Suppliers:            seedSuppliers,
		OrdersPerWarehouse:   seedOrders,
		HistoryDays:          seedHistoryDays,
		Seed:                 seed,
	}
}
