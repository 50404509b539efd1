package postgres

import (
	"context"
	"fmt"

	"stockwatch/internal/core"
)

func (s *Store) CreateCompany(ctx context.Context, name string) (int, error) {
	var id int
	if err := s.pool.QueryRow(ctx, "INSERT INTO companies (name) VALUES ($1) RETURNING id", name).Scan(&id); err != nil {
		return 0, fmt.Errorf("create company %q: %w", name, err)
	}
	return id, nil
}

func (s *Store) CreateWarehouse(ctx context.Context, companyID int, name string) (int, error) {
	var id int
	err := s.pool.QueryRow(ctx,
		"INSERT INTO warehouses (company_id, name) VALUES ($1, $2) RETURNING id",
		companyID, name,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create warehouse %q: %w", name, err)
	}
	return id, nil
}

func (s *Store) CreateSupplier(ctx context.Context, name, contactInfo string) (int, error) {
	var id int
	err := s.pool.QueryRow(ctx,
		"INSERT INTO suppliers (name, contact_info) VALUES ($1, $2) RETURNING id",
		name, contactInfo,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create supplier %q: %w", name, err)
	}
	return id, nil
}

func (s *Store) LinkSupplier(ctx context.Context, productID, supplierID int) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO supplier_products (product_id, supplier_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, productID, supplierID)
	if err != nil {
		return fmt.Errorf("link supplier %d to product %d: %w", supplierID, productID, err)
	}
	return nil
}

func (s *Store) SetLowStockThreshold(ctx context.Context, productID int, threshold *int) error {
	tag, err := s.pool.Exec(ctx, "UPDATE products SET low_stock_threshold = $1 WHERE id = $2", threshold, productID)
	if err != nil {
		return fmt.Errorf("set threshold for product %d: %w", productID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product %d does not exist", productID)
	}
	return nil
}

// CreateOrder inserts the order header and its items in one transaction.
func (s *Store) CreateOrder(ctx context.Context, order core.Order) (int, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var id int
	err = tx.QueryRow(ctx, `
		INSERT INTO orders (warehouse_id, order_date, status)
		VALUES ($1, $2, $3)
		RETURNING id
	`, order.WarehouseID, order.OrderDate, string(order.Status)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create order: %w", err)
	}

	for _, it := range order.Items {
		if _, err := tx.Exec(ctx,
			"INSERT INTO order_items (order_id, product_id, quantity) VALUES ($1, $2, $3)",
			id, it.ProductID, it.Quantity,
		); err != nil {
			return 0, fmt.Errorf("create order item for product %d: %w", it.ProductID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit order: %w", err)
	}
	return id, nil
}
