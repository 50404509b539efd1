package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of a sales order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Company is the root of a warehouse hierarchy.
type Company struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Warehouse is a physical storage location owned by a company.
type Warehouse struct {
	ID        int       `json:"id"`
	CompanyID int       `json:"company_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Product is a catalog item identified by its SKU.
// Price and LowStockThreshold are optional; a nil threshold falls back to the
// configured default when computing alerts.
type Product struct {
	ID                int              `json:"id"`
	SKU               string           `json:"sku"`
	Name              string           `json:"name"`
	Price             *decimal.Decimal `json:"price,omitempty"`
	LowStockThreshold *int             `json:"low_stock_threshold,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
}

// Inventory binds a product to a warehouse with an on-hand quantity.
// At most one row exists per (ProductID, WarehouseID).
type Inventory struct {
	ID          int       `json:"id"`
	ProductID   int       `json:"product_id"`
	WarehouseID int       `json:"warehouse_id"`
	Quantity    int       `json:"quantity"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Supplier is a vendor that can restock products.
// ContactInfo is free text; it is reported as an email but never validated as one.
type Supplier struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	ContactInfo string `json:"contact_info"`
}

// Order is a sales order fulfilled from a single warehouse.
type Order struct {
	ID          int         `json:"id"`
	WarehouseID int         `json:"warehouse_id"`
	OrderDate   time.Time   `json:"order_date"`
	Status      OrderStatus `json:"status"`
	Items       []OrderItem `json:"items,omitempty"`
}

// OrderItem is one line of an order.
type OrderItem struct {
	ID        int `json:"id"`
	OrderID   int `json:"order_id"`
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}
