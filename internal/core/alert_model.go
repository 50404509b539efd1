package core

import (
	"errors"
	"strconv"
	"strings"
)

// SupplierContact is the supplier block of a low-stock alert.
type SupplierContact struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	ContactEmail string `json:"contact_email"`
}

// LowStockAlert is one actionable stock position: a product in a warehouse at
// or below threshold, with one supplier to reorder from.
type LowStockAlert struct {
	ProductID         int              `json:"product_id"`
	ProductName       string           `json:"product_name"`
	SKU               string           `json:"sku"`
	WarehouseID       int              `json:"warehouse_id"`
	WarehouseName     string           `json:"warehouse_name"`
	CurrentStock      int              `json:"current_stock"`
	Threshold         int              `json:"threshold"`
	DaysUntilStockout *int             `json:"days_until_stockout"`
	Supplier          *SupplierContact `json:"supplier"`
}

// AlertReport is the result of a low-stock query for one company.
type AlertReport struct {
	Alerts      []LowStockAlert `json:"alerts"`
	TotalAlerts int             `json:"total_alerts"`
	// RecentDays is the resolved window the report was computed over.
	RecentDays int `json:"-"`
}

// AlertDefaults are the deployment-level fallbacks used by AlertService.
type AlertDefaults struct {
	// LowStockThreshold applies to products without their own threshold.
	LowStockThreshold int
	// RecentDays is the sales lookback window used when the caller gives none.
	RecentDays int
}

// DefaultAlertDefaults returns the stock defaults: threshold 20, 30-day window.
func DefaultAlertDefaults() AlertDefaults {
	return AlertDefaults{LowStockThreshold: 20, RecentDays: 30}
}

// MaxRecentDays bounds the sales lookback window.
const MaxRecentDays = 999999999

// Window is a requested sales lookback. The zero value selects the configured
// default. Build one with LastDays or RecentDaysParam.
type Window struct {
	days   *int
	raw    string
	hasRaw bool
}

// LastDays is an explicit window of n days.
func LastDays(n int) Window { return Window{days: &n} }

// RecentDaysParam is an unparsed recent_days query value.
func RecentDaysParam(raw string) Window { return Window{raw: raw, hasRaw: true} }

// Resolve returns the window length in days, falling back to defaultDays.
func (w Window) Resolve(defaultDays int) (int, error) {
	if w.days == nil {
		return ParseRecentDays(w.raw, w.hasRaw, defaultDays)
	}
	return checkRecentDays(*w.days)
}

// ParseRecentDays parses the recent_days query value. When the parameter was
// not supplied at all, defaultDays is returned; a supplied empty value is invalid.
func ParseRecentDays(raw string, present bool, defaultDays int) (int, error) {
	if !present {
		return defaultDays, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return 0, validationError(msgRecentDaysTooLarge)
		}
		return 0, validationError("Invalid recent_days value")
	}
	return checkRecentDays(n)
}

func checkRecentDays(n int) (int, error) {
	switch {
	case n < 0:
		return 0, validationError(msgNegativeRecentDays)
	case n > MaxRecentDays:
		return 0, validationError(msgRecentDaysTooLarge)
	}
	return n, nil
}
