package datagen

import (
	"context"
	"fmt"
	"time"

	"stockwatch/internal/core"
	"stockwatch/internal/logging"

	"github.com/shopspring/decimal"
)

// Plan sizes a generated dataset.
type Plan struct {
	Companies            int
	WarehousesPerCompany int
	ProductsPerCompany   int
	Suppliers            int
	OrdersPerWarehouse   int
	// HistoryDays is how far back order dates are spread.
	HistoryDays int
}

// DefaultPlan returns a small dataset that produces a handful of alerts.
func DefaultPlan() Plan {
	return Plan{
		Companies:            2,
		WarehousesPerCompany: 3,
		ProductsPerCompany:   25,
		Suppliers:            8,
		OrdersPerWarehouse:   40,
		HistoryDays:          60,
	}
}

// Summary counts what a Generate call wrote.
type Summary struct {
	CompanyIDs []int `json:"company_ids"`
	Warehouses int   `json:"warehouses"`
	Products   int   `json:"products"`
	Inventory  int   `json:"inventory"`
	Suppliers  int   `json:"suppliers"`
	Orders     int   `json:"orders"`
}

// Generator writes demo data. Products and stock go through the registration
// service so generated rows obey the same rules as API traffic.
type Generator struct {
	faker        *Faker
	seeder       core.Seeder
	registration core.RegistrationService
	now          func() time.Time
}

func NewGenerator(faker *Faker, seeder core.Seeder, registration core.RegistrationService) *Generator {
	return &Generator{faker: faker, seeder: seeder, registration: registration, now: time.Now}
}

type stockedProduct struct {
	productID   int
	warehouseID int
}

func (g *Generator) Generate(ctx context.Context, plan Plan) (*Summary, error) {
	if plan.Companies < 1 || plan.WarehousesPerCompany < 1 {
		return nil, fmt.Errorf("plan needs at least one company and one warehouse per company")
	}

	sum := &Summary{}

	var supplierIDs []int
	for i := 0; i < plan.Suppliers; i++ {
		id, err := g.seeder.CreateSupplier(ctx, g.faker.Company(), g.faker.Email())
		if err != nil {
			return nil, fmt.Errorf("failed to generate supplier: %w", err)
		}
		supplierIDs = append(supplierIDs, id)
	}
	sum.Suppliers = len(supplierIDs)

	for c := 0; c < plan.Companies; c++ {
		companyID, err := g.seeder.CreateCompany(ctx, g.faker.Company())
		if err != nil {
			return nil, fmt.Errorf("failed to generate company: %w", err)
		}
		sum.CompanyIDs = append(sum.CompanyIDs, companyID)

		var warehouseIDs []int
		for w := 0; w < plan.WarehousesPerCompany; w++ {
			id, err := g.seeder.CreateWarehouse(ctx, companyID, g.faker.City()+" Warehouse")
			if err != nil {
				return nil, fmt.Errorf("failed to generate warehouse for company %d: %w", companyID, err)
			}
			warehouseIDs = append(warehouseIDs, id)
		}
		sum.Warehouses += len(warehouseIDs)

		stocked, products, err := g.generateProducts(ctx, companyID, plan.ProductsPerCompany, warehouseIDs, supplierIDs)
		if err != nil {
			return nil, err
		}
		sum.Products += products
		sum.Inventory += len(stocked)

		orders, err := g.generateOrders(ctx, warehouseIDs, stocked, plan)
		if err != nil {
			return nil, err
		}
		sum.Orders += orders

		logging.Info().
			Int("company_id", companyID).
			Int("warehouses", len(warehouseIDs)).
			Int("inventory", len(stocked)).
			Int("orders", orders).
			Msg("Company complete")
	}

	return sum, nil
}

func (g *Generator) generateProducts(ctx context.Context, companyID, count int, warehouseIDs, supplierIDs []int) ([]stockedProduct, int, error) {
	var stocked []stockedProduct
	prefix := g.faker.SKUPrefix()

	for p := 0; p < count; p++ {
		sku := fmt.Sprintf("%s-%d-%04d", prefix, companyID, p+1)
		name := g.faker.ProductName()
		price := decimal.NewFromFloat(g.faker.Price(1, 500)).Round(2)

		productID := 0
		for _, warehouseID := range warehouseIDs {
			if productID != 0 && !g.faker.Chance(0.6) {
				continue
			}
			res, err := g.registration.CreateProductAndInventory(ctx, core.RegistrationRequest{
				SKU:             sku,
				Name:            name,
				WarehouseID:     warehouseID,
				Price:           &price,
				InitialQuantity: g.faker.Int(0, 120),
			})
			if err != nil {
				return nil, 0, fmt.Errorf("failed to register %s in warehouse %d: %w", sku, warehouseID, err)
			}
			productID = res.ProductID
			stocked = append(stocked, stockedProduct{productID: productID, warehouseID: warehouseID})
		}

		if g.faker.Chance(0.5) {
			threshold := g.faker.Int(5, 40)
			if err := g.seeder.SetLowStockThreshold(ctx, productID, &threshold); err != nil {
				return nil, 0, err
			}
		}

		// Some products stay supplier-less; they never show up in alerts.
		if len(supplierIDs) > 0 {
			for n := g.faker.Int(0, 2); n > 0; n-- {
				if err := g.seeder.LinkSupplier(ctx, productID, Choose(g.faker, supplierIDs)); err != nil {
					return nil, 0, err
				}
			}
		}
	}
	return stocked, count, nil
}

func (g *Generator) generateOrders(ctx context.Context, warehouseIDs []int, stocked []stockedProduct, plan Plan) (int, error) {
	byWarehouse := make(map[int][]int)
	for _, s := range stocked {
		byWarehouse[s.warehouseID] = append(byWarehouse[s.warehouseID], s.productID)
	}

	statuses := []core.OrderStatus{
		core.OrderStatusCompleted, core.OrderStatusCompleted, core.OrderStatusCompleted,
		core.OrderStatusPending, core.OrderStatusCancelled,
	}
	end := g.now().UTC()
	start := end.AddDate(0, 0, -plan.HistoryDays)

	orders := 0
	for _, warehouseID := range warehouseIDs {
		products := byWarehouse[warehouseID]
		if len(products) == 0 {
			continue
		}
		for o := 0; o < plan.OrdersPerWarehouse; o++ {
			order := core.Order{
				WarehouseID: warehouseID,
				OrderDate:   g.faker.DateRange(start, end),
				Status:      Choose(g.faker, statuses),
			}
			for n := g.faker.Int(1, 3); n > 0; n-- {
				order.Items = append(order.Items, core.OrderItem{
					ProductID: Choose(g.faker, products),
					Quantity:  g.faker.Int(1, 15),
				})
			}
			if _, err := g.seeder.CreateOrder(ctx, order); err != nil {
				return 0, fmt.Errorf("failed to generate order for warehouse %d: %w", warehouseID, err)
			}
			orders++
		}
	}
	return orders, nil
}
