package postgres

import (
	"context"
	"fmt"

	"stockwatch/internal/core"

	"github.com/shopspring/decimal"
)

// candidateSQL takes the supplier join keyword twice (link table, supplier)
// and the sales join keyword once.
const candidateSQL = `
	WITH recent_sales AS (
		SELECT oi.product_id, SUM(oi.quantity)::bigint AS total_sold
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.warehouse_id = ANY($1)
		  AND o.order_date >= $2
		  AND o.status = 'completed'
		GROUP BY oi.product_id
	)
	SELECT i.id, i.product_id, i.warehouse_id, i.quantity, i.updated_at,
	       p.id, p.sku, p.name, p.price, p.low_stock_threshold, p.created_at,
	       w.id, w.company_id, w.name, w.created_at,
	       s.id, s.name, s.contact_info,
	       rs.total_sold
	FROM inventory i
	JOIN products p   ON p.id = i.product_id
	JOIN warehouses w ON w.id = i.warehouse_id
	%[1]s supplier_products sp ON sp.product_id = p.id
	%[1]s suppliers s ON s.id = sp.supplier_id
	%[2]s recent_sales rs ON rs.product_id = p.id
	WHERE i.warehouse_id = ANY($1)
	  AND i.quantity <= COALESCE(p.low_stock_threshold, $3)
	ORDER BY i.quantity ASC, i.id ASC, s.id ASC NULLS FIRST
`

func buildCandidateSQL(q core.CandidateQuery) string {
	return fmt.Sprintf(candidateSQL, q.SupplierJoin, q.SalesJoin)
}

func (t *tx) LowStockCandidates(ctx context.Context, q core.CandidateQuery) ([]core.StockCandidate, error) {
	rows, err := t.tx.Query(ctx, buildCandidateSQL(q), q.WarehouseIDs, q.SalesSince, q.DefaultThreshold)
	if err != nil {
		return nil, fmt.Errorf("failed to query low-stock candidates: %w", err)
	}
	defer rows.Close()

	var out []core.StockCandidate
	for rows.Next() {
		var c core.StockCandidate
		var price decimal.NullDecimal
		var supplierID *int
		var supplierName, contactInfo *string
		if err := rows.Scan(
			&c.Inventory.ID, &c.Inventory.ProductID, &c.Inventory.WarehouseID, &c.Inventory.Quantity, &c.Inventory.UpdatedAt,
			&c.Product.ID, &c.Product.SKU, &c.Product.Name, &price, &c.Product.LowStockThreshold, &c.Product.CreatedAt,
			&c.Warehouse.ID, &c.Warehouse.CompanyID, &c.Warehouse.Name, &c.Warehouse.CreatedAt,
			&supplierID, &supplierName, &contactInfo,
			&c.TotalSold,
		); err != nil {
			return nil, fmt.Errorf("failed to scan low-stock candidate: %w", err)
		}
		if price.Valid {
			c.Product.Price = &price.Decimal
		}
		if supplierID != nil {
			c.Supplier = &core.Supplier{ID: *supplierID}
			if supplierName != nil {
				c.Supplier.Name = *supplierName
			}
			if contactInfo != nil {
				c.Supplier.ContactInfo = *contactInfo
			}
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating low-stock candidates: %w", err)
	}
	return out, nil
}
