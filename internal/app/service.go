package app

import (
	"context"

	"stockwatch/internal/core"
)

// ApplicationService is the single interface all adapters (CLI, Web) call.
// It decouples transport from business logic. Implementations contain no
// HTTP or terminal concerns.
type ApplicationService interface {
	// RegisterProduct validates a raw registration body, then creates or reuses
	// the product by SKU and creates its inventory row in one transaction.
	RegisterProduct(ctx context.Context, raw core.RawRegistration) (*RegistrationResult, error)

	// LowStockAlerts returns the low-stock report for a company.
	// A nil RecentDays uses the configured default window.
	LowStockAlerts(ctx context.Context, req LowStockRequest) (*core.AlertReport, error)

	// DefaultRecentDays returns the configured lookback window.
	DefaultRecentDays() int

	// SeedDemoData generates a demo dataset.
	SeedDemoData(ctx context.Context, req SeedRequest) (*SeedResult, error)

	// Health reports whether the data store is reachable.
	Health(ctx context.Context) *HealthResult
}
