package core

import (
	"context"
	"errors"
	"time"
)

const (
	msgCompanyNotFound    = "Company not found"
	msgNegativeRecentDays = "recent_days must be non-negative"
	msgRecentDaysTooLarge = "recent_days must be at most 999999999"
	msgDatabase           = "Database error"
)

// AlertService computes low-stock alerts.
type AlertService interface {
	// LowStockAlerts returns the stock positions of a company that are at or
	// below threshold, have completed sales within window, and have at least
	// one supplier. Rows are ordered by ascending stock. The company is looked
	// up before window is checked. A company without warehouses yields an
	// empty report.
	LowStockAlerts(ctx context.Context, companyID int, window Window) (*AlertReport, error)
	// Defaults returns the configured fallbacks.
	Defaults() AlertDefaults
}

type alertService struct {
	store    Store
	defaults AlertDefaults
	now      func() time.Time
}

func NewAlertService(store Store, defaults AlertDefaults) AlertService {
	return NewAlertServiceWithClock(store, defaults, time.Now)
}

// NewAlertServiceWithClock is NewAlertService with an injectable wall clock.
func NewAlertServiceWithClock(store Store, defaults AlertDefaults, now func() time.Time) AlertService {
	return &alertService{store: store, defaults: defaults, now: now}
}

func (s *alertService) Defaults() AlertDefaults { return s.defaults }

// earliestCutoff is the oldest sales cutoff; longer windows cover all history.
var earliestCutoff = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)

func (s *alertService) LowStockAlerts(ctx context.Context, companyID int, window Window) (*AlertReport, error) {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, storeError(msgDatabase, err)
	}
	// Read-only: rolling back releases the session either way.
	defer tx.Rollback(ctx)

	if _, err := tx.GetCompany(ctx, companyID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, notFoundError(msgCompanyNotFound)
		}
		return nil, storeError(msgDatabase, err)
	}

	recentDays, err := window.Resolve(s.defaults.RecentDays)
	if err != nil {
		return nil, err
	}
	cutoff := s.now().UTC().AddDate(0, 0, -recentDays)
	if cutoff.Before(earliestCutoff) {
		cutoff = earliestCutoff
	}

	warehouses, err := tx.ListWarehouses(ctx, companyID)
	if err != nil {
		return nil, storeError(msgDatabase, err)
	}
	report := &AlertReport{Alerts: []LowStockAlert{}, RecentDays: recentDays}
	if len(warehouses) == 0 {
		return report, nil
	}

	warehouseIDs := make([]int, len(warehouses))
	for i, w := range warehouses {
		warehouseIDs[i] = w.ID
	}

	candidates, err := tx.LowStockCandidates(ctx, s.candidateQuery(warehouseIDs, cutoff))
	if err != nil {
		return nil, storeError(msgDatabase, err)
	}

	for _, c := range candidates {
		report.Alerts = append(report.Alerts, s.toAlert(c, recentDays))
	}
	report.TotalAlerts = len(report.Alerts)
	return report, nil
}

// candidateQuery fixes the join strategies. Supplier and sales joins are inner
// joins: a position is only reported when it is actively selling and someone
// can be contacted to restock it.
func (s *alertService) candidateQuery(warehouseIDs []int, cutoff time.Time) CandidateQuery {
	return CandidateQuery{
		WarehouseIDs:     warehouseIDs,
		SalesSince:       cutoff,
		DefaultThreshold: s.defaults.LowStockThreshold,
		SupplierJoin:     InnerJoin,
		SalesJoin:        InnerJoin,
	}
}

func (s *alertService) toAlert(c StockCandidate, recentDays int) LowStockAlert {
	threshold := s.defaults.LowStockThreshold
	if c.Product.LowStockThreshold != nil {
		threshold = *c.Product.LowStockThreshold
	}

	var totalSold int64
	if c.TotalSold != nil {
		totalSold = *c.TotalSold
	}

	alert := LowStockAlert{
		ProductID:         c.Product.ID,
		ProductName:       c.Product.Name,
		SKU:               c.Product.SKU,
		WarehouseID:       c.Warehouse.ID,
		WarehouseName:     c.Warehouse.Name,
		CurrentStock:      c.Inventory.Quantity,
		Threshold:         threshold,
		DaysUntilStockout: DaysUntilStockout(c.Inventory.Quantity, totalSold, recentDays),
	}
	if c.Supplier != nil {
		alert.Supplier = &SupplierContact{
			ID:           c.Supplier.ID,
			Name:         c.Supplier.Name,
			ContactEmail: c.Supplier.ContactInfo,
		}
	}
	return alert
}

// DaysUntilStockout projects how many whole days quantity lasts at the average
// daily rate totalSold/recentDays. It returns nil when there is no positive
// sales rate, including when recentDays is zero.
func DaysUntilStockout(quantity int, totalSold int64, recentDays int) *int {
	if totalSold <= 0 || recentDays <= 0 {
		return nil
	}
	// floor(quantity / (totalSold/recentDays)) without float rounding.
	days := int(int64(quantity) * int64(recentDays) / totalSold)
	return &days
}
