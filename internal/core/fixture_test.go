package core_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"stockwatch/internal/core"
	"stockwatch/internal/store/memory"
)

// fixedNow is the wall clock used by alert tests.
var fixedNow = time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)

type fixture struct {
	ctx          context.Context
	store        *memory.Store
	registration core.RegistrationService
	alerts       core.AlertService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	return &fixture{
		ctx:          context.Background(),
		store:        store,
		registration: core.NewRegistrationService(store),
		alerts: core.NewAlertServiceWithClock(store, core.DefaultAlertDefaults(), func() time.Time {
			return fixedNow
		}),
	}
}

func (f *fixture) company(t *testing.T, name string) int {
	t.Helper()
	id, err := f.store.CreateCompany(f.ctx, name)
	if err != nil {
		t.Fatalf("CreateCompany failed: %v", err)
	}
	return id
}

func (f *fixture) warehouse(t *testing.T, companyID int, name string) int {
	t.Helper()
	id, err := f.store.CreateWarehouse(f.ctx, companyID, name)
	if err != nil {
		t.Fatalf("CreateWarehouse failed: %v", err)
	}
	return id
}

func (f *fixture) supplier(t *testing.T, name, contact string) int {
	t.Helper()
	id, err := f.store.CreateSupplier(f.ctx, name, contact)
	if err != nil {
		t.Fatalf("CreateSupplier failed: %v", err)
	}
	return id
}

// stock registers sku in warehouseID with quantity and returns the product id.
func (f *fixture) stock(t *testing.T, sku, name string, warehouseID, quantity int) int {
	t.Helper()
	res, err := f.registration.CreateProductAndInventory(f.ctx, core.RegistrationRequest{
		SKU: sku, Name: name, WarehouseID: warehouseID, InitialQuantity: quantity,
	})
	if err != nil {
		t.Fatalf("CreateProductAndInventory(%s) failed: %v", sku, err)
	}
	return res.ProductID
}

func (f *fixture) threshold(t *testing.T, productID, threshold int) {
	t.Helper()
	if err := f.store.SetLowStockThreshold(f.ctx, productID, &threshold); err != nil {
		t.Fatalf("SetLowStockThreshold failed: %v", err)
	}
}

func (f *fixture) link(t *testing.T, productID, supplierID int) {
	t.Helper()
	if err := f.store.LinkSupplier(f.ctx, productID, supplierID); err != nil {
		t.Fatalf("LinkSupplier failed: %v", err)
	}
}

func (f *fixture) sale(t *testing.T, warehouseID, productID, quantity int, status core.OrderStatus, at time.Time) {
	t.Helper()
	_, err := f.store.CreateOrder(f.ctx, core.Order{
		WarehouseID: warehouseID,
		OrderDate:   at,
		Status:      status,
		Items:       []core.OrderItem{{ProductID: productID, Quantity: quantity}},
	})
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
}

func requireKind(t *testing.T, err error, kind core.ErrorKind, message string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error %q, got nil", kind, message)
	}
	if got := core.KindOf(err); got != kind {
		t.Fatalf("expected kind %s, got %s (%v)", kind, got, err)
	}
	if message == "" {
		return
	}
	var ce *core.Error
	if !errors.As(err, &ce) {
		t.Fatalf("expected *core.Error, got %T", err)
	}
	if ce.Message != message {
		t.Errorf("expected message %q, got %q", message, ce.Message)
	}
}
