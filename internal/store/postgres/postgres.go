// Package postgres implements core.Store on PostgreSQL through a pgx pool.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"stockwatch/internal/core"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// uniqueViolation is the SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// Store is a core.Store backed by PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Begin(ctx context.Context) (core.StoreTx, error) {
	t, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &tx{tx: t}, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

type tx struct {
	tx pgx.Tx
}

func (t *tx) GetCompany(ctx context.Context, id int) (*core.Company, error) {
	var c core.Company
	err := t.tx.QueryRow(ctx, "SELECT id, name, created_at FROM companies WHERE id = $1", id).
		Scan(&c.ID, &c.Name, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch company %d: %w", id, err)
	}
	return &c, nil
}

func (t *tx) GetWarehouse(ctx context.Context, id int) (*core.Warehouse, error) {
	var w core.Warehouse
	err := t.tx.QueryRow(ctx, "SELECT id, company_id, name, created_at FROM warehouses WHERE id = $1", id).
		Scan(&w.ID, &w.CompanyID, &w.Name, &w.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch warehouse %d: %w", id, err)
	}
	return &w, nil
}

func (t *tx) ListWarehouses(ctx context.Context, companyID int) ([]core.Warehouse, error) {
	rows, err := t.tx.Query(ctx, `
		SELECT id, company_id, name, created_at
		FROM warehouses
		WHERE company_id = $1
		ORDER BY id
	`, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query warehouses: %w", err)
	}
	defer rows.Close()

	var warehouses []core.Warehouse
	for rows.Next() {
		var w core.Warehouse
		if err := rows.Scan(&w.ID, &w.CompanyID, &w.Name, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan warehouse: %w", err)
		}
		warehouses = append(warehouses, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating warehouses: %w", err)
	}
	return warehouses, nil
}

func (t *tx) FindProductBySKU(ctx context.Context, sku string) (*core.Product, error) {
	var p core.Product
	var price decimal.NullDecimal
	err := t.tx.QueryRow(ctx, `
		SELECT id, sku, name, price, low_stock_threshold, created_at
		FROM products
		WHERE sku = $1
	`, sku).Scan(&p.ID, &p.SKU, &p.Name, &price, &p.LowStockThreshold, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch product %q: %w", sku, err)
	}
	if price.Valid {
		p.Price = &price.Decimal
	}
	return &p, nil
}

func (t *tx) InsertProduct(ctx context.Context, in core.NewProduct) (int, core.WriteOutcome, error) {
	var price decimal.NullDecimal
	if in.Price != nil {
		price = decimal.NewNullDecimal(*in.Price)
	}
	var id int
	err := t.tx.QueryRow(ctx, `
		INSERT INTO products (sku, name, price)
		VALUES ($1, $2, $3)
		RETURNING id
	`, in.SKU, in.Name, price).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, core.WriteConflict, nil
		}
		return 0, core.WriteOK, fmt.Errorf("failed to insert product %q: %w", in.SKU, err)
	}
	return id, core.WriteOK, nil
}

func (t *tx) FindInventory(ctx context.Context, productID, warehouseID int) (*core.Inventory, error) {
	var inv core.Inventory
	err := t.tx.QueryRow(ctx, `
		SELECT id, product_id, warehouse_id, quantity, updated_at
		FROM inventory
		WHERE product_id = $1 AND warehouse_id = $2
	`, productID, warehouseID).Scan(&inv.ID, &inv.ProductID, &inv.WarehouseID, &inv.Quantity, &inv.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch inventory for product %d in warehouse %d: %w", productID, warehouseID, err)
	}
	return &inv, nil
}

func (t *tx) InsertInventory(ctx context.Context, productID, warehouseID, quantity int) (int, core.WriteOutcome, error) {
	var id int
	err := t.tx.QueryRow(ctx, `
		INSERT INTO inventory (product_id, warehouse_id, quantity)
		VALUES ($1, $2, $3)
		RETURNING id
	`, productID, warehouseID, quantity).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, core.WriteConflict, nil
		}
		return 0, core.WriteOK, fmt.Errorf("failed to insert inventory: %w", err)
	}
	return id, core.WriteOK, nil
}

func (t *tx) Commit(ctx context.Context) (core.WriteOutcome, error) {
	if err := t.tx.Commit(ctx); err != nil {
		if isUniqueViolation(err) {
			return core.WriteConflict, nil
		}
		return core.WriteOK, fmt.Errorf("failed to commit: %w", err)
	}
	return core.WriteOK, nil
}

func (t *tx) Rollback(ctx context.Context) error {
	err := t.tx.Rollback(ctx)
	if errors.Is(err, pgx.ErrTxClosed) {
		return nil
	}
	return err
}
