package services

import (
	"github.com/SscSPs/partsledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/partsledger/internal/core/ports/services"
	"github.com/SscSPs/partsledger/internal/platform/config"
)

// NewServiceContainer wires every service over one unit of work. Mutations
// pass through a shared posting gate so that maintenance can quiesce them.
func NewServiceContainer(cfg *config.Config, uow repositories.UnitOfWork, exporter portssvc.StockRegisterExporter) *portssvc.ServiceContainer {
	gate := NewPostingGate(cfg.QuiesceMaxDuration)
	gated := NewGatedUnitOfWork(uow, gate)

	return &portssvc.ServiceContainer{
		Ledger:  NewLedgerService(gated, cfg.SystemLedgers),
		Voucher: NewVoucherService(gated),
		Stock: NewStockService(gated,
			WithNegativeStock(cfg.AllowNegativeStock),
			WithStockRegisterExporter(exporter)),
		Category:    NewCategoryService(gated),
		Document:    NewDocumentService(gated, cfg.SystemLedgers, WithDocumentNegativeStock(cfg.AllowNegativeStock)),
		Party:       NewPartyService(gated),
		Vehicle:     NewVehicleService(gated),
		Audit:       NewAuditService(gated),
		Maintenance: NewMaintenanceService(gate),
	}
}
