package app

import "stockwatch/internal/datagen"

// RegistrationResult is returned by RegisterProduct.
type RegistrationResult struct {
	Message     string `json:"message"`
	ProductID   int    `json:"product_id"`
	InventoryID int    `json:"inventory_id"`
}

// SeedResult is returned by SeedDemoData.
type SeedResult struct {
	Summary *datagen.Summary
}

// HealthResult is returned by Health.
type HealthResult struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// OK reports whether every dependency is reachable.
func (h *HealthResult) OK() bool { return h.Status == "ok" }
