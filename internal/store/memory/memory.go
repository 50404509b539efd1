// Package memory is an in-process implementation of core.Store.
// It keeps the relational semantics the services depend on (unique SKU,
// unique inventory pair, FK checks, join strategies) without a database.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"stockwatch/internal/core"
)

type supplierLink struct {
	productID  int
	supplierID int
}

// Store is a mutex-guarded in-memory relational store.
type Store struct {
	mu sync.RWMutex

	seq        int
	companies  map[int]core.Company
	warehouses map[int]core.Warehouse
	products   map[int]core.Product
	inventory  map[int]core.Inventory
	suppliers  map[int]core.Supplier
	links      []supplierLink
	orders     map[int]core.Order

	faults map[string]error
}

// New returns an empty store.
func New() *Store {
	return &Store{
		companies:  make(map[int]core.Company),
		warehouses: make(map[int]core.Warehouse),
		products:   make(map[int]core.Product),
		inventory:  make(map[int]core.Inventory),
		suppliers:  make(map[int]core.Supplier),
		orders:     make(map[int]core.Order),
		faults:     make(map[string]error),
	}
}

// FailOn makes every later call of the named operation (a StoreTx or Store
// method name such as "InsertInventory" or "Begin") return err. A nil err clears it.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.faults, op)
		return
	}
	s.faults[op] = err
}

func (s *Store) fault(op string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.faults[op]
}

// nextID must be called with s.mu held for writing.
func (s *Store) nextID() int {
	s.seq++
	return s.seq
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.fault("Ping"); err != nil {
		return err
	}
	return ctx.Err()
}

func (s *Store) Begin(ctx context.Context) (core.StoreTx, error) {
	if err := s.fault("Begin"); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &tx{s: s}, nil
}

// ── Seeder ────────────────────────────────────────────────────────────────────

func (s *Store) CreateCompany(ctx context.Context, name string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID()
	s.companies[id] = core.Company{ID: id, Name: name}
	return id, nil
}

func (s *Store) CreateWarehouse(ctx context.Context, companyID int, name string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.companies[companyID]; !ok {
		return 0, fmt.Errorf("company %d does not exist", companyID)
	}
	id := s.nextID()
	s.warehouses[id] = core.Warehouse{ID: id, CompanyID: companyID, Name: name}
	return id, nil
}

func (s *Store) CreateSupplier(ctx context.Context, name, contactInfo string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID()
	s.suppliers[id] = core.Supplier{ID: id, Name: name, ContactInfo: contactInfo}
	return id, nil
}

func (s *Store) LinkSupplier(ctx context.Context, productID, supplierID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[productID]; !ok {
		return fmt.Errorf("product %d does not exist", productID)
	}
	if _, ok := s.suppliers[supplierID]; !ok {
		return fmt.Errorf("supplier %d does not exist", supplierID)
	}
	for _, l := range s.links {
		if l.productID == productID && l.supplierID == supplierID {
			return nil
		}
	}
	s.links = append(s.links, supplierLink{productID: productID, supplierID: supplierID})
	return nil
}

func (s *Store) SetLowStockThreshold(ctx context.Context, productID int, threshold *int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[productID]
	if !ok {
		return fmt.Errorf("product %d does not exist", productID)
	}
	if threshold != nil {
		t := *threshold
		threshold = &t
	}
	p.LowStockThreshold = threshold
	s.products[productID] = p
	return nil
}

func (s *Store) CreateOrder(ctx context.Context, order core.Order) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.warehouses[order.WarehouseID]; !ok {
		return 0, fmt.Errorf("warehouse %d does not exist", order.WarehouseID)
	}
	order.ID = s.nextID()
	items := make([]core.OrderItem, len(order.Items))
	for i, it := range order.Items {
		if _, ok := s.products[it.ProductID]; !ok {
			return 0, fmt.Errorf("product %d does not exist", it.ProductID)
		}
		it.ID = s.nextID()
		it.OrderID = order.ID
		items[i] = it
	}
	order.Items = items
	s.orders[order.ID] = order
	return order.ID, nil
}

// Inventory returns the committed inventory row for (productID, warehouseID).
func (s *Store) Inventory(productID, warehouseID int) (core.Inventory, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, inv := range s.inventory {
		if inv.ProductID == productID && inv.WarehouseID == warehouseID {
			return inv, true
		}
	}
	return core.Inventory{}, false
}

// Counts reports the number of committed products and inventory rows.
func (s *Store) Counts() (products, inventory int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products), len(s.inventory)
}

// ── Transaction ──────────────────────────────────────────────────────────────

// tx buffers inserts until Commit. Reads see committed rows plus its own writes.
type tx struct {
	s         *Store
	products  []core.Product
	inventory []core.Inventory
	done      bool
}

var errTxDone = errors.New("transaction already finished")

func (t *tx) check(op string) error {
	if t.done {
		return errTxDone
	}
	return t.s.fault(op)
}

func (t *tx) GetCompany(ctx context.Context, id int) (*core.Company, error) {
	if err := t.check("GetCompany"); err != nil {
		return nil, err
	}
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	c, ok := t.s.companies[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &c, nil
}

func (t *tx) GetWarehouse(ctx context.Context, id int) (*core.Warehouse, error) {
	if err := t.check("GetWarehouse"); err != nil {
		return nil, err
	}
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	w, ok := t.s.warehouses[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &w, nil
}

func (t *tx) ListWarehouses(ctx context.Context, companyID int) ([]core.Warehouse, error) {
	if err := t.check("ListWarehouses"); err != nil {
		return nil, err
	}
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	var out []core.Warehouse
	for _, w := range t.s.warehouses {
		if w.CompanyID == companyID {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (t *tx) FindProductBySKU(ctx context.Context, sku string) (*core.Product, error) {
	if err := t.check("FindProductBySKU"); err != nil {
		return nil, err
	}
	for _, p := range t.products {
		if p.SKU == sku {
			return &p, nil
		}
	}
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	for _, p := range t.s.products {
		if p.SKU == sku {
			return &p, nil
		}
	}
	return nil, core.ErrNotFound
}

func (t *tx) InsertProduct(ctx context.Context, in core.NewProduct) (int, core.WriteOutcome, error) {
	if err := t.check("InsertProduct"); err != nil {
		return 0, core.WriteOK, err
	}
	if _, err := t.FindProductBySKU(ctx, in.SKU); err == nil {
		return 0, core.WriteConflict, nil
	}
	t.s.mu.Lock()
	id := t.s.nextID()
	t.s.mu.Unlock()
	p := core.Product{ID: id, SKU: in.SKU, Name: in.Name}
	if in.Price != nil {
		price := *in.Price
		p.Price = &price
	}
	t.products = append(t.products, p)
	return id, core.WriteOK, nil
}

func (t *tx) FindInventory(ctx context.Context, productID, warehouseID int) (*core.Inventory, error) {
	if err := t.check("FindInventory"); err != nil {
		return nil, err
	}
	for _, inv := range t.inventory {
		if inv.ProductID == productID && inv.WarehouseID == warehouseID {
			return &inv, nil
		}
	}
	if inv, ok := t.s.Inventory(productID, warehouseID); ok {
		return &inv, nil
	}
	return nil, core.ErrNotFound
}

func (t *tx) InsertInventory(ctx context.Context, productID, warehouseID, quantity int) (int, core.WriteOutcome, error) {
	if err := t.check("InsertInventory"); err != nil {
		return 0, core.WriteOK, err
	}
	if quantity < 0 {
		return 0, core.WriteOK, fmt.Errorf("inventory quantity %d violates check constraint", quantity)
	}
	if !t.productExists(productID) {
		return 0, core.WriteOK, fmt.Errorf("product %d does not exist", productID)
	}
	if _, err := t.GetWarehouse(ctx, warehouseID); err != nil {
		return 0, core.WriteOK, fmt.Errorf("warehouse %d does not exist", warehouseID)
	}
	if _, err := t.FindInventory(ctx, productID, warehouseID); err == nil {
		return 0, core.WriteConflict, nil
	}
	t.s.mu.Lock()
	id := t.s.nextID()
	t.s.mu.Unlock()
	t.inventory = append(t.inventory, core.Inventory{ID: id, ProductID: productID, WarehouseID: warehouseID, Quantity: quantity})
	return id, core.WriteOK, nil
}

func (t *tx) productExists(id int) bool {
	for _, p := range t.products {
		if p.ID == id {
			return true
		}
	}
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	_, ok := t.s.products[id]
	return ok
}

// Commit re-checks uniqueness against rows committed since the writes were
// buffered; a clash reports WriteConflict and discards the transaction.
func (t *tx) Commit(ctx context.Context) (core.WriteOutcome, error) {
	if err := t.check("Commit"); err != nil {
		return core.WriteOK, err
	}
	t.done = true

	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	for _, p := range t.products {
		for _, existing := range t.s.products {
			if existing.SKU == p.SKU {
				return core.WriteConflict, nil
			}
		}
	}
	for _, inv := range t.inventory {
		for _, existing := range t.s.inventory {
			if existing.ProductID == inv.ProductID && existing.WarehouseID == inv.WarehouseID {
				return core.WriteConflict, nil
			}
		}
	}
	for _, p := range t.products {
		t.s.products[p.ID] = p
	}
	for _, inv := range t.inventory {
		t.s.inventory[inv.ID] = inv
	}
	return core.WriteOK, nil
}

func (t *tx) Rollback(ctx context.Context) error {
	t.done = true
	t.products = nil
	t.inventory = nil
	return nil
}
