package services

// ServiceContainer holds instances of all the application services.
// It is the main entry point for handlers.
type ServiceContainer struct {
	Ledger      LedgerSvcFacade
	Voucher     VoucherSvcFacade
	Stock       StockSvcFacade
	Category    CategorySvcFacade
	Document    DocumentSvcFacade
	Party       PartySvcFacade
	Vehicle     VehicleSvcFacade
	Audit       AuditSvc
	Maintenance MaintenanceSvc
}
