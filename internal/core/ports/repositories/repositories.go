package repositories

// Store exposes every repository bound to one data-access handle.
type Store interface {
	Ledgers() LedgerRepositoryFacade
	Vouchers() VoucherRepositoryFacade
	Stock() StockRepositoryFacade
	Documents() DocumentRepositoryFacade
	Parties() PartyRepositoryFacade
	Vehicles() VehicleRepositoryFacade
	Audit() AuditRepositoryFacade
	Sequences() SequenceRepository
	Categories() CategoryRepositoryFacade
}
