package memory

import (
	"context"
	"sort"

	"stockwatch/internal/core"
)

// LowStockCandidates evaluates the candidate query over committed rows.
func (t *tx) LowStockCandidates(ctx context.Context, q core.CandidateQuery) ([]core.StockCandidate, error) {
	if err := t.check("LowStockCandidates"); err != nil {
		return nil, err
	}
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	inScope := make(map[int]bool, len(q.WarehouseIDs))
	for _, id := range q.WarehouseIDs {
		inScope[id] = true
	}

	totalSold := make(map[int]int64)
	for _, o := range t.s.orders {
		if !inScope[o.WarehouseID] || o.Status != core.OrderStatusCompleted || o.OrderDate.Before(q.SalesSince) {
			continue
		}
		for _, it := range o.Items {
			totalSold[it.ProductID] += int64(it.Quantity)
		}
	}

	var out []core.StockCandidate
	for _, inv := range t.s.inventory {
		if !inScope[inv.WarehouseID] {
			continue
		}
		product := t.s.products[inv.ProductID]
		threshold := q.DefaultThreshold
		if product.LowStockThreshold != nil {
			threshold = *product.LowStockThreshold
		}
		if inv.Quantity > threshold {
			continue
		}

		var sold *int64
		if n, ok := totalSold[inv.ProductID]; ok {
			sold = &n
		} else if q.SalesJoin == core.InnerJoin {
			continue
		}

		base := core.StockCandidate{
			Inventory: inv,
			Product:   product,
			Warehouse: t.s.warehouses[inv.WarehouseID],
			TotalSold: sold,
		}

		matched := false
		for _, l := range t.s.links {
			if l.productID != inv.ProductID {
				continue
			}
			supplier := t.s.suppliers[l.supplierID]
			c := base
			c.Supplier = &supplier
			out = append(out, c)
			matched = true
		}
		if !matched && q.SupplierJoin == core.LeftJoin {
			out = append(out, base)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Inventory.Quantity != b.Inventory.Quantity {
			return a.Inventory.Quantity < b.Inventory.Quantity
		}
		if a.Inventory.ID != b.Inventory.ID {
			return a.Inventory.ID < b.Inventory.ID
		}
		return supplierID(a) < supplierID(b)
	})
	return out, nil
}

func supplierID(c core.StockCandidate) int {
	if c.Supplier == nil {
		return 0
	}
	return c.Supplier.ID
}
