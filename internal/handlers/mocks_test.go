package handlers_test

import (
	"context"
	"io"

	"github.com/SscSPs/partsledger/internal/core/domain"
	portssvc "github.com/SscSPs/partsledger/internal/core/ports/services"
	"github.com/SscSPs/partsledger/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) GetLedgerByID(ctx context.Context, ledgerID string) (*domain.Ledger, error) {
	args := m.Called(ctx, ledgerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ledger), args.Error(1)
}
func (m *MockLedgerService) ListLedgers(ctx context.Context, params dto.ListLedgersParams) ([]domain.Ledger, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Ledger), args.Error(1)
}
func (m *MockLedgerService) ReconcileLedger(ctx context.Context, ledgerID string) (*domain.LedgerReconciliation, error) {
	args := m.Called(ctx, ledgerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerReconciliation), args.Error(1)
}
func (m *MockLedgerService) CreateLedger(ctx context.Context, req dto.CreateLedgerRequest, userID string) (*domain.Ledger, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ledger), args.Error(1)
}
func (m *MockLedgerService) UpdateLedger(ctx context.Context, ledgerID string, req dto.UpdateLedgerRequest, userID string) (*domain.Ledger, error) {
	args := m.Called(ctx, ledgerID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ledger), args.Error(1)
}
func (m *MockLedgerService) DeactivateLedger(ctx context.Context, ledgerID string, userID string) error {
	return m.Called(ctx, ledgerID, userID).Error(0)
}
func (m *MockLedgerService) EnsureSystemLedgers(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

// --- Mock VoucherService ---
type MockVoucherService struct {
	mock.Mock
}

func (m *MockVoucherService) PostVoucher(ctx context.Context, req dto.PostVoucherRequest, userID string) (*domain.Voucher, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Voucher), args.Error(1)
}
func (m *MockVoucherService) CancelVoucher(ctx context.Context, voucherID string, userID string) (*domain.Voucher, error) {
	args := m.Called(ctx, voucherID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Voucher), args.Error(1)
}
func (m *MockVoucherService) GetVoucherByID(ctx context.Context, voucherID string) (*domain.Voucher, error) {
	args := m.Called(ctx, voucherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Voucher), args.Error(1)
}
func (m *MockVoucherService) ListVouchers(ctx context.Context, params dto.ListVouchersParams) (*dto.ListVouchersResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListVouchersResponse), args.Error(1)
}

var _ portssvc.VoucherSvcFacade = (*MockVoucherService)(nil)

// --- Mock StockService ---
type MockStockService struct {
	mock.Mock
}

func (m *MockStockService) GetStockItemByID(ctx context.Context, itemID string) (*domain.StockItem, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StockItem), args.Error(1)
}
func (m *MockStockService) ListStockItems(ctx context.Context, params dto.ListStockItemsParams) ([]domain.StockItem, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StockItem), args.Error(1)
}
func (m *MockStockService) ListStockTransactions(ctx context.Context, itemID string) ([]domain.StockTransaction, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StockTransaction), args.Error(1)
}
func (m *MockStockService) ReconcileStockItem(ctx context.Context, itemID string) (*domain.StockReconciliation, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StockReconciliation), args.Error(1)
}
func (m *MockStockService) ExportStockRegister(ctx context.Context, w io.Writer) error {
	args := m.Called(ctx, w)
	if body, ok := args.Get(1).(string); ok {
		_, _ = io.WriteString(w, body)
	}
	return args.Error(0)
}
func (m *MockStockService) CreateStockItem(ctx context.Context, req dto.CreateStockItemRequest, userID string) (*domain.StockItem, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StockItem), args.Error(1)
}
func (m *MockStockService) UpdateStockItem(ctx context.Context, itemID string, req dto.UpdateStockItemRequest, userID string) (*domain.StockItem, error) {
	args := m.Called(ctx, itemID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StockItem), args.Error(1)
}
func (m *MockStockService) DeactivateStockItem(ctx context.Context, itemID string, userID string) error {
	return m.Called(ctx, itemID, userID).Error(0)
}
func (m *MockStockService) ApplyStockTransaction(ctx context.Context, req dto.ApplyStockTransactionRequest, userID string) (*domain.StockTransaction, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StockTransaction), args.Error(1)
}

var _ portssvc.StockSvcFacade = (*MockStockService)(nil)

// --- Mock DocumentService ---
type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) ComposeSale(ctx context.Context, req dto.CreateSaleRequest, userID string) (*domain.Document, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}
func (m *MockDocumentService) ComposePurchase(ctx context.Context, req dto.CreatePurchaseRequest, userID string) (*domain.Document, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}
func (m *MockDocumentService) CancelDocument(ctx context.Context, kind domain.DocumentKind, documentID string, userID string) (*domain.Document, error) {
	args := m.Called(ctx, kind, documentID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}
func (m *MockDocumentService) GetDocument(ctx context.Context, kind domain.DocumentKind, documentID string) (*domain.Document, error) {
	args := m.Called(ctx, kind, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}
func (m *MockDocumentService) ListDocuments(ctx context.Context, kind domain.DocumentKind, params dto.ListDocumentsParams) ([]domain.Document, error) {
	args := m.Called(ctx, kind, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Document), args.Error(1)
}

var _ portssvc.DocumentSvcFacade = (*MockDocumentService)(nil)

// --- Mock PartyService ---
type MockPartyService struct {
	mock.Mock
}

func (m *MockPartyService) CreateParty(ctx context.Context, kind domain.PartyKind, req dto.CreatePartyRequest, userID string) (*domain.Party, error) {
	args := m.Called(ctx, kind, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Party), args.Error(1)
}
func (m *MockPartyService) GetParty(ctx context.Context, kind domain.PartyKind, partyID string) (*domain.Party, error) {
	args := m.Called(ctx, kind, partyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Party), args.Error(1)
}
func (m *MockPartyService) ListParties(ctx context.Context, kind domain.PartyKind, params dto.ListPartiesParams) ([]domain.Party, error) {
	args := m.Called(ctx, kind, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Party), args.Error(1)
}
func (m *MockPartyService) UpdateParty(ctx context.Context, kind domain.PartyKind, partyID string, req dto.UpdatePartyRequest, userID string) (*domain.Party, error) {
	args := m.Called(ctx, kind, partyID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Party), args.Error(1)
}
func (m *MockPartyService) DeactivateParty(ctx context.Context, kind domain.PartyKind, partyID string, userID string) error {
	return m.Called(ctx, kind, partyID, userID).Error(0)
}
func (m *MockPartyService) GetStatement(ctx context.Context, kind domain.PartyKind, partyID string) (*domain.PartyStatement, error) {
	args := m.Called(ctx, kind, partyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PartyStatement), args.Error(1)
}

var _ portssvc.PartySvcFacade = (*MockPartyService)(nil)

// --- Mock CategoryService ---
type MockCategoryService struct {
	mock.Mock
}

func (m *MockCategoryService) CreateCategory(ctx context.Context, req dto.CreateCategoryRequest, userID string) (*domain.Category, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}
func (m *MockCategoryService) GetCategory(ctx context.Context, categoryID string) (*domain.CategoryDetail, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CategoryDetail), args.Error(1)
}
func (m *MockCategoryService) ListCategories(ctx context.Context, params dto.ListCategoriesParams) ([]domain.Category, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Category), args.Error(1)
}
func (m *MockCategoryService) UpdateCategory(ctx context.Context, categoryID string, req dto.UpdateCategoryRequest, userID string) (*domain.Category, error) {
	args := m.Called(ctx, categoryID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}
func (m *MockCategoryService) DeactivateCategory(ctx context.Context, categoryID string, userID string) error {
	return m.Called(ctx, categoryID, userID).Error(0)
}

var _ portssvc.CategorySvcFacade = (*MockCategoryService)(nil)

// --- Mock VehicleService ---
type MockVehicleService struct {
	mock.Mock
}

func (m *MockVehicleService) CreateMake(ctx context.Context, req dto.CreateMakeRequest, userID string) (*domain.CarMake, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CarMake), args.Error(1)
}
func (m *MockVehicleService) ListMakes(ctx context.Context) ([]domain.CarMake, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CarMake), args.Error(1)
}
func (m *MockVehicleService) CreateModel(ctx context.Context, req dto.CreateModelRequest, userID string) (*domain.CarModel, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CarModel), args.Error(1)
}
func (m *MockVehicleService) ListModels(ctx context.Context, makeID string) ([]domain.CarModel, error) {
	args := m.Called(ctx, makeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CarModel), args.Error(1)
}
func (m *MockVehicleService) SearchVehicles(ctx context.Context, query string) ([]domain.VehicleMatch, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.VehicleMatch), args.Error(1)
}
func (m *MockVehicleService) AddCompatibility(ctx context.Context, req dto.AddCompatibilityRequest, userID string) (*domain.ItemCompatibility, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ItemCompatibility), args.Error(1)
}
func (m *MockVehicleService) ListCompatibility(ctx context.Context, itemID string) ([]domain.ItemCompatibility, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ItemCompatibility), args.Error(1)
}
func (m *MockVehicleService) RemoveCompatibility(ctx context.Context, compatibilityID string, userID string) error {
	return m.Called(ctx, compatibilityID, userID).Error(0)
}
func (m *MockVehicleService) FindItemsForVehicle(ctx context.Context, params dto.VehicleItemsParams) ([]domain.StockItem, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StockItem), args.Error(1)
}

var _ portssvc.VehicleSvcFacade = (*MockVehicleService)(nil)

// --- Mock MaintenanceService ---
type MockMaintenanceService struct {
	mock.Mock
}

func (m *MockMaintenanceService) Quiesce(ctx context.Context) error { return m.Called(ctx).Error(0) }
func (m *MockMaintenanceService) Resume(ctx context.Context) error  { return m.Called(ctx).Error(0) }
func (m *MockMaintenanceService) Quiesced() bool                    { return m.Called().Bool(0) }

var _ portssvc.MaintenanceSvc = (*MockMaintenanceService)(nil)

// --- Mock AuditService ---
type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) ListAuditLogs(ctx context.Context, params dto.ListAuditLogsParams) ([]domain.AuditLogEntry, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuditLogEntry), args.Error(1)
}

var _ portssvc.AuditSvc = (*MockAuditService)(nil)
