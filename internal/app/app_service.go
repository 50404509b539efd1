package app

import (
	"context"
	"fmt"

	"stockwatch/internal/core"
	"stockwatch/internal/datagen"
	"stockwatch/internal/logging"
)

const registrationCreatedMessage = "Product and inventory created successfully"

type appService struct {
	store        core.Store
	seeder       core.Seeder
	registration core.RegistrationService
	alerts       core.AlertService
}

// NewAppService constructs an appService that satisfies ApplicationService.
// seeder may be nil when demo data generation is not offered.
func NewAppService(
	store core.Store,
	seeder core.Seeder,
	registration core.RegistrationService,
	alerts core.AlertService,
) ApplicationService {
	return &appService{
		store:        store,
		seeder:       seeder,
		registration: registration,
		alerts:       alerts,
	}
}

// RegisterProduct parses raw, then runs the registration transaction.
func (s *appService) RegisterProduct(ctx context.Context, raw core.RawRegistration) (*RegistrationResult, error) {
	req, err := core.ParseRegistration(raw)
	if err != nil {
		logging.Debug().Err(err).Msg("Registration rejected")
		return nil, err
	}

	res, err := s.registration.CreateProductAndInventory(ctx, req)
	if err != nil {
		event := logging.Warn()
		if kind := core.KindOf(err); kind == core.KindStore || kind == core.KindInternal {
			event = logging.Error()
		}
		event.Err(err).
			Str("sku", req.SKU).
			Int("warehouse_id", req.WarehouseID).
			Msg("Registration failed")
		return nil, err
	}

	logging.Info().
		Str("sku", req.SKU).
		Int("product_id", res.ProductID).
		Int("inventory_id", res.InventoryID).
		Bool("product_created", res.ProductCreated).
		Msg("Product registered")

	return &RegistrationResult{
		Message:     registrationCreatedMessage,
		ProductID:   res.ProductID,
		InventoryID: res.InventoryID,
	}, nil
}

// LowStockAlerts runs the alert query for one company.
func (s *appService) LowStockAlerts(ctx context.Context, req LowStockRequest) (*core.AlertReport, error) {
	var window core.Window
	switch {
	case req.RecentDays != nil:
		window = core.LastDays(*req.RecentDays)
	case req.RawRecentDays != nil:
		window = core.RecentDaysParam(*req.RawRecentDays)
	}

	report, err := s.alerts.LowStockAlerts(ctx, req.CompanyID, window)
	if err != nil {
		if kind := core.KindOf(err); kind == core.KindStore || kind == core.KindInternal {
			logging.Error().Err(err).Int("company_id", req.CompanyID).Msg("Low-stock query failed")
		}
		return nil, err
	}

	logging.Debug().
		Int("company_id", req.CompanyID).
		Int("recent_days", report.RecentDays).
		Int("alerts", report.TotalAlerts).
		Msg("Low-stock query")
	return report, nil
}

func (s *appService) DefaultRecentDays() int {
	return s.alerts.Defaults().RecentDays
}

// SeedDemoData generates companies, warehouses, products, stock, suppliers and orders.
func (s *appService) SeedDemoData(ctx context.Context, req SeedRequest) (*SeedResult, error) {
	if s.seeder == nil {
		return nil, fmt.Errorf("demo data generation is not available for this store")
	}

	faker := datagen.NewFaker()
	if req.Seed != 0 {
		faker = datagen.NewFakerWithSeed(req.Seed)
	}

	plan := datagen.Plan{
		Companies:            req.Companies,
		WarehousesPerCompany: req.WarehousesPerCompany,
		ProductsPerCompany:   req.ProductsPerCompany,
		Suppliers:            req.Suppliers,
		OrdersPerWarehouse:   req.OrdersPerWarehouse,
		HistoryDays:          req.HistoryDays,
	}

	summary, err := datagen.NewGenerator(faker, s.seeder, s.registration).Generate(ctx, plan)
	if err != nil {
		return nil, err
	}
	return &SeedResult{Summary: summary}, nil
}

// Health pings the store.
func (s *appService) Health(ctx context.Context) *HealthResult {
	if err := s.store.Ping(ctx); err != nil {
		logging.Warn().Err(err).Msg("Health check: store unreachable")
		return &HealthResult{Status: "degraded", Database: "unreachable"}
	}
	return &HealthResult{Status: "ok", Database: "ok"}
}
