package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// WriteOutcome is the tagged result of a write against the store.
// A uniqueness violation is reported as WriteConflict rather than as an error,
// so callers can tell a lost check-then-insert race apart from a store failure.
type WriteOutcome int

const (
	WriteOK WriteOutcome = iota
	WriteConflict
)

// JoinStrategy selects how the candidate query joins an optional relation.
type JoinStrategy int

const (
	// InnerJoin drops candidates with no matching row.
	InnerJoin JoinStrategy = iota
	// LeftJoin keeps candidates and leaves the joined columns empty.
	LeftJoin
)

func (j JoinStrategy) String() string {
	if j == LeftJoin {
		return "LEFT JOIN"
	}
	return "JOIN"
}

// Store is the relational data store. Every unit of work runs inside a StoreTx.
type Store interface {
	Begin(ctx context.Context) (StoreTx, error)
	Ping(ctx context.Context) error
}

// StoreTx is a transaction scope. Lookups that match nothing return ErrNotFound.
// Rollback after a successful Commit is a no-op.
type StoreTx interface {
	GetCompany(ctx context.Context, id int) (*Company, error)
	GetWarehouse(ctx context.Context, id int) (*Warehouse, error)
	ListWarehouses(ctx context.Context, companyID int) ([]Warehouse, error)

	FindProductBySKU(ctx context.Context, sku string) (*Product, error)
	InsertProduct(ctx context.Context, in NewProduct) (int, WriteOutcome, error)

	FindInventory(ctx context.Context, productID, warehouseID int) (*Inventory, error)
	InsertInventory(ctx context.Context, productID, warehouseID, quantity int) (int, WriteOutcome, error)

	// LowStockCandidates runs the alert aggregation: inventory at or below
	// threshold, joined to suppliers and to recent completed sales.
	LowStockCandidates(ctx context.Context, q CandidateQuery) ([]StockCandidate, error)

	Commit(ctx context.Context) (WriteOutcome, error)
	Rollback(ctx context.Context) error
}

// NewProduct holds the columns written when a product is first registered.
type NewProduct struct {
	SKU   string
	Name  string
	Price *decimal.Decimal
}

// CandidateQuery parameterizes StoreTx.LowStockCandidates.
type CandidateQuery struct {
	WarehouseIDs     []int
	SalesSince       time.Time
	DefaultThreshold int
	SupplierJoin     JoinStrategy
	SalesJoin        JoinStrategy
}

// StockCandidate is one (inventory, product, warehouse, supplier) tuple from the
// candidate query. Supplier is nil and TotalSold is nil when the corresponding
// join is a LeftJoin and found no match.
type StockCandidate struct {
	Inventory Inventory
	Product   Product
	Warehouse Warehouse
	Supplier  *Supplier
	TotalSold *int64
}

// Seeder writes reference data that has no registration endpoint of its own.
type Seeder interface {
	CreateCompany(ctx context.Context, name string) (int, error)
	CreateWarehouse(ctx context.Context, companyID int, name string) (int, error)
	CreateSupplier(ctx context.Context, name, contactInfo string) (int, error)
	LinkSupplier(ctx context.Context, productID, supplierID int) error
	SetLowStockThreshold(ctx context.Context, productID int, threshold *int) error
	CreateOrder(ctx context.Context, order Order) (int, error)
}
