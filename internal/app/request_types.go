package app

// LowStockRequest is the input for a low-stock query.
type LowStockRequest struct {
	CompanyID  int
	RecentDays *int // nil means "use the configured default"
	// RawRecentDays is the unparsed recent_days query value. It is used when
	// RecentDays is nil and validated after the company lookup.
	RawRecentDays *string
}

// SeedRequest is the input for demo data generation.
type SeedRequest struct {
	Companies            int
	WarehousesPerCompany int
	ProductsPerCompany   int
	Suppliers            int
	OrdersPerWarehouse   int
	HistoryDays          int
	Seed                 uint64 // zero means "random"
}
