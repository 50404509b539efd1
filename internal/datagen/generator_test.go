package datagen

import (
	"context"
	"testing"
	"time"

	"stockwatch/internal/core"
	"stockwatch/internal/store/memory"
)

func TestGenerate(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	registration := core.NewRegistrationService(store)
	g := NewGenerator(NewFakerWithSeed(42), store, registration)

	plan := Plan{
		Companies:            2,
		WarehousesPerCompany: 2,
		ProductsPerCompany:   10,
		Suppliers:            3,
		OrdersPerWarehouse:   5,
		HistoryDays:          30,
	}
	sum, err := g.Generate(ctx, plan)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if len(sum.CompanyIDs) != 2 {
		t.Errorf("expected 2 companies, got %d", len(sum.CompanyIDs))
	}
	if sum.Warehouses != 4 || sum.Suppliers != 3 || sum.Products != 20 {
		t.Errorf("unexpected summary: %+v", sum)
	}
	// Each company's first warehouse always holds stock; the others usually do.
	if sum.Orders < 2*plan.OrdersPerWarehouse || sum.Orders > 4*plan.OrdersPerWarehouse {
		t.Errorf("unexpected order count %d", sum.Orders)
	}

	products, inventory := store.Counts()
	if products != sum.Products || inventory != sum.Inventory {
		t.Errorf("summary %d/%d disagrees with store %d/%d", sum.Products, sum.Inventory, products, inventory)
	}
	if inventory < products {
		t.Errorf("every product should be stocked at least once, got %d rows for %d products", inventory, products)
	}

	// The generated data must be queryable end to end.
	alerts := core.NewAlertService(store, core.DefaultAlertDefaults())
	for _, id := range sum.CompanyIDs {
		if _, err := alerts.LowStockAlerts(ctx, id, core.LastDays(30)); err != nil {
			t.Errorf("LowStockAlerts(%d) failed: %v", id, err)
		}
	}
}

func TestGenerate_InvalidPlan(t *testing.T) {
	store := memory.New()
	g := NewGenerator(NewFakerWithSeed(1), store, core.NewRegistrationService(store))

	if _, err := g.Generate(context.Background(), Plan{Companies: 0, WarehousesPerCompany: 1}); err == nil {
		t.Error("expected an error for a plan without companies")
	}
	if _, err := g.Generate(context.Background(), Plan{Companies: 1}); err == nil {
		t.Error("expected an error for a plan without warehouses")
	}
}

func TestFakerWithSeed_IsReproducible(t *testing.T) {
	a, b := NewFakerWithSeed(7), NewFakerWithSeed(7)
	for i := 0; i < 5; i++ {
		if x, y := a.SKUPrefix(), b.SKUPrefix(); x != y {
			t.Fatalf("expected identical sequences, got %q and %q", x, y)
		}
	}
}

func TestFaker_Ranges(t *testing.T) {
	f := NewFakerWithSeed(3)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	for i := 0; i < 100; i++ {
		if n := f.Int(2, 4); n < 2 || n > 4 {
			t.Fatalf("Int out of range: %d", n)
		}
		if d := f.DateRange(start, end); d.Before(start) || d.After(end) {
			t.Fatalf("DateRange out of range: %s", d)
		}
		if p := f.SKUPrefix(); len(p) != 3 {
			t.Fatalf("expected a 3-letter prefix, got %q", p)
		}
	}
	if got := Choose(f, []string{}); got != "" {
		t.Errorf("expected zero value from an empty slice, got %q", got)
	}
	if got := Choose(f, []int{9}); got != 9 {
		t.Errorf("expected the only element, got %d", got)
	}
}
