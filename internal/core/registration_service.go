package core

import (
	"context"
	"errors"
)

const (
	msgInternal          = "Internal server error"
	msgWarehouseNotFound = "Warehouse not found"
	msgSKUNameMismatch   = "Product SKU already exists with a different name"
	msgInventoryExists   = "Inventory for this product in this warehouse already exists"
	msgIntegrity         = "Database integrity error, possibly duplicate SKU"
)

// RegistrationService creates products and their initial warehouse stock.
type RegistrationService interface {
	// CreateProductAndInventory reuses the product with req.SKU when its name
	// matches exactly, creates it otherwise, and inserts a new inventory row for
	// (product, req.WarehouseID). Both writes commit atomically. It never updates
	// an existing inventory row.
	CreateProductAndInventory(ctx context.Context, req RegistrationRequest) (*RegistrationResult, error)
}

type registrationService struct {
	store Store
}

func NewRegistrationService(store Store) RegistrationService {
	return &registrationService{store: store}
}

func (s *registrationService) CreateProductAndInventory(ctx context.Context, req RegistrationRequest) (*RegistrationResult, error) {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, storeError(msgInternal, err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.GetWarehouse(ctx, req.WarehouseID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, notFoundError(msgWarehouseNotFound)
		}
		return nil, storeError(msgInternal, err)
	}

	result := &RegistrationResult{}

	product, err := tx.FindProductBySKU(ctx, req.SKU)
	switch {
	case errors.Is(err, ErrNotFound):
		id, outcome, err := tx.InsertProduct(ctx, NewProduct{SKU: req.SKU, Name: req.Name, Price: req.Price})
		if err != nil {
			return nil, storeError(msgInternal, err)
		}
		if outcome == WriteConflict {
			return nil, conflictError(msgIntegrity)
		}
		result.ProductID = id
		result.ProductCreated = true
	case err != nil:
		return nil, storeError(msgInternal, err)
	case product.Name != req.Name:
		return nil, conflictError(msgSKUNameMismatch)
	default:
		result.ProductID = product.ID
	}

	if _, err := tx.FindInventory(ctx, result.ProductID, req.WarehouseID); err == nil {
		return nil, conflictError(msgInventoryExists)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, storeError(msgInternal, err)
	}

	inventoryID, outcome, err := tx.InsertInventory(ctx, result.ProductID, req.WarehouseID, req.InitialQuantity)
	if err != nil {
		return nil, storeError(msgInternal, err)
	}
	if outcome == WriteConflict {
		return nil, conflictError(msgIntegrity)
	}
	result.InventoryID = inventoryID

	outcome, err = tx.Commit(ctx)
	if err != nil {
		return nil, storeError(msgInternal, err)
	}
	if outcome == WriteConflict {
		return nil, conflictError(msgIntegrity)
	}

	return result, nil
}
