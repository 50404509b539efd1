package core_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"stockwatch/internal/core"
	"stockwatch/internal/store/memory"

	"github.com/shopspring/decimal"
)

func TestRegistration_CreatesProductAndInventory(t *testing.T) {
	f := newFixture(t)
	companyID := f.company(t, "Acme")
	warehouseID := f.warehouse(t, companyID, "Main")

	price := decimal.RequireFromString("19.99")
	res, err := f.registration.CreateProductAndInventory(f.ctx, core.RegistrationRequest{
		SKU: "A1", Name: "Widget", WarehouseID: warehouseID, Price: &price, InitialQuantity: 5,
	})
	if err != nil {
		t.Fatalf("CreateProductAndInventory failed: %v", err)
	}
	if !res.ProductCreated || res.ProductID == 0 || res.InventoryID == 0 {
		t.Errorf("unexpected result: %+v", res)
	}

	inv, ok := f.store.Inventory(res.ProductID, warehouseID)
	if !ok {
		t.Fatal("inventory row was not committed")
	}
	if inv.ID != res.InventoryID || inv.Quantity != 5 {
		t.Errorf("expected inventory %d with quantity 5, got %+v", res.InventoryID, inv)
	}
}

func TestRegistration_DefaultQuantityIsZero(t *testing.T) {
	f := newFixture(t)
	warehouseID := f.warehouse(t, f.company(t, "Acme"), "Main")

	productID := f.stock(t, "A1", "Widget", warehouseID, 0)
	inv, ok := f.store.Inventory(productID, warehouseID)
	if !ok || inv.Quantity != 0 {
		t.Errorf("expected quantity 0, got %+v (found=%v)", inv, ok)
	}
}

func TestRegistration_ReusesProductAcrossWarehouses(t *testing.T) {
	f := newFixture(t)
	companyID := f.company(t, "Acme")
	north := f.warehouse(t, companyID, "North")
	south := f.warehouse(t, companyID, "South")

	first := f.stock(t, "A1", "Widget", north, 5)
	res, err := f.registration.CreateProductAndInventory(f.ctx, core.RegistrationRequest{
		SKU: "A1", Name: "Widget", WarehouseID: south, InitialQuantity: 9,
	})
	if err != nil {
		t.Fatalf("second warehouse registration failed: %v", err)
	}
	if res.ProductID != first {
		t.Errorf("expected product %d to be reused, got %d", first, res.ProductID)
	}
	if res.ProductCreated {
		t.Error("expected ProductCreated=false for an existing SKU")
	}

	products, inventory := f.store.Counts()
	if products != 1 || inventory != 2 {
		t.Errorf("expected 1 product and 2 inventory rows, got %d and %d", products, inventory)
	}
}

func TestRegistration_SKUNameMismatch(t *testing.T) {
	f := newFixture(t)
	companyID := f.company(t, "Acme")
	north := f.warehouse(t, companyID, "North")
	south := f.warehouse(t, companyID, "South")
	f.stock(t, "A1", "Widget", north, 5)

	_, err := f.registration.CreateProductAndInventory(f.ctx, core.RegistrationRequest{
		SKU: "A1", Name: "Gadget", WarehouseID: south, InitialQuantity: 1,
	})
	requireKind(t, err, core.KindConflict, "Product SKU already exists with a different name")

	products, inventory := f.store.Counts()
	if products != 1 || inventory != 1 {
		t.Errorf("expected no state change, got %d products and %d inventory rows", products, inventory)
	}
}

func TestRegistration_ResubmissionConflicts(t *testing.T) {
	f := newFixture(t)
	warehouseID := f.warehouse(t, f.company(t, "Acme"), "Main")
	req := core.RegistrationRequest{SKU: "A1", Name: "Widget", WarehouseID: warehouseID, InitialQuantity: 5}

	res, err := f.registration.CreateProductAndInventory(f.ctx, req)
	if err != nil {
		t.Fatalf("first registration failed: %v", err)
	}

	req.InitialQuantity = 50
	_, err = f.registration.CreateProductAndInventory(f.ctx, req)
	requireKind(t, err, core.KindConflict, "Inventory for this product in this warehouse already exists")

	inv, _ := f.store.Inventory(res.ProductID, warehouseID)
	if inv.Quantity != 5 {
		t.Errorf("expected quantity to stay 5, got %d", inv.Quantity)
	}
	products, inventory := f.store.Counts()
	if products != 1 || inventory != 1 {
		t.Errorf("expected 1 product and 1 inventory row, got %d and %d", products, inventory)
	}
}

func TestRegistration_WarehouseNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.registration.CreateProductAndInventory(f.ctx, core.RegistrationRequest{
		SKU: "A1", Name: "Widget", WarehouseID: 999,
	})
	requireKind(t, err, core.KindNotFound, "Warehouse not found")

	if products, inventory := f.store.Counts(); products != 0 || inventory != 0 {
		t.Errorf("expected empty store, got %d products and %d inventory rows", products, inventory)
	}
}

func TestRegistration_StoreFailureRollsBack(t *testing.T) {
	f := newFixture(t)
	warehouseID := f.warehouse(t, f.company(t, "Acme"), "Main")

	cause := errors.New("connection reset by peer")
	f.store.FailOn("InsertInventory", cause)

	_, err := f.registration.CreateProductAndInventory(f.ctx, core.RegistrationRequest{
		SKU: "A1", Name: "Widget", WarehouseID: warehouseID, InitialQuantity: 5,
	})
	requireKind(t, err, core.KindStore, "Internal server error")
	if !errors.Is(err, cause) {
		t.Errorf("expected the cause to be wrapped, got %v", err)
	}

	if products, inventory := f.store.Counts(); products != 0 || inventory != 0 {
		t.Errorf("expected the product insert to roll back, got %d products and %d inventory rows", products, inventory)
	}
}

func TestRegistration_BeginFailure(t *testing.T) {
	f := newFixture(t)
	f.store.FailOn("Begin", errors.New("pool exhausted"))

	_, err := f.registration.CreateProductAndInventory(f.ctx, core.RegistrationRequest{
		SKU: "A1", Name: "Widget", WarehouseID: 1,
	})
	requireKind(t, err, core.KindStore, "Internal server error")
}

// racingStore commits a competing registration just before the first Commit
// of the transaction it hands out.
type racingStore struct {
	*memory.Store
	race func()
}

func (r *racingStore) Begin(ctx context.Context) (core.StoreTx, error) {
	tx, err := r.Store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	race := r.race
	r.race = nil
	return &racingTx{StoreTx: tx, race: race}, nil
}

type racingTx struct {
	core.StoreTx
	race func()
}

func (t *racingTx) Commit(ctx context.Context) (core.WriteOutcome, error) {
	if t.race != nil {
		t.race()
	}
	return t.StoreTx.Commit(ctx)
}

func TestRegistration_CommitConflictIsReported(t *testing.T) {
	f := newFixture(t)
	companyID := f.company(t, "Acme")
	north := f.warehouse(t, companyID, "North")
	south := f.warehouse(t, companyID, "South")

	racing := &racingStore{Store: f.store}
	racing.race = func() {
		f.stock(t, "A1", "Widget", south, 3)
	}
	svc := core.NewRegistrationService(racing)

	_, err := svc.CreateProductAndInventory(f.ctx, core.RegistrationRequest{
		SKU: "A1", Name: "Widget", WarehouseID: north, InitialQuantity: 5,
	})
	requireKind(t, err, core.KindConflict, "Database integrity error, possibly duplicate SKU")

	products, inventory := f.store.Counts()
	if products != 1 || inventory != 1 {
		t.Errorf("expected only the competing rows, got %d products and %d inventory rows", products, inventory)
	}
}

func TestRegistration_ConcurrentIdenticalRequests(t *testing.T) {
	f := newFixture(t)
	warehouseID := f.warehouse(t, f.company(t, "Acme"), "Main")
	req := core.RegistrationRequest{SKU: "A1", Name: "Widget", WarehouseID: warehouseID, InitialQuantity: 5}

	const workers = 8
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.registration.CreateProductAndInventory(f.ctx, req)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		if core.KindOf(err) != core.KindConflict {
			t.Errorf("expected conflict, got %v", err)
		}
	}
	if succeeded != 1 {
		t.Errorf("expected exactly one success, got %d", succeeded)
	}
	if products, inventory := f.store.Counts(); products != 1 || inventory != 1 {
		t.Errorf("expected 1 product and 1 inventory row, got %d and %d", products, inventory)
	}
}
