package services

import (
	"context"
	"io"

	"github.com/SscSPs/partsledger/internal/core/domain"
	"github.com/SscSPs/partsledger/internal/dto"
)

// StockReaderSvc defines read operations for stock.
type StockReaderSvc interface {
	GetStockItemByID(ctx context.Context, itemID string) (*domain.StockItem, error)
	ListStockItems(ctx context.Context, params dto.ListStockItemsParams) ([]domain.StockItem, error)
	ListStockTransactions(ctx context.Context, itemID string) ([]domain.StockTransaction, error)
	ReconcileStockItem(ctx context.Context, itemID string) (*domain.StockReconciliation, error)
	ExportStockRegister(ctx context.Context, w io.Writer) error
}

// StockWriterSvc defines write operations for stock.
type StockWriterSvc interface {
	CreateStockItem(ctx context.Context, req dto.CreateStockItemRequest, userID string) (*domain.StockItem, error)
	UpdateStockItem(ctx context.Context, itemID string, req dto.UpdateStockItemRequest, userID string) (*domain.StockItem, error)
	DeactivateStockItem(ctx context.Context, itemID string, userID string) error
	ApplyStockTransaction(ctx context.Context, req dto.ApplyStockTransactionRequest, userID string) (*domain.StockTransaction, error)
}

// StockSvcFacade combines all stock-related service interfaces.
type StockSvcFacade interface {
	StockReaderSvc
	StockWriterSvc
}

// StockRegisterExporter renders the stock register as a spreadsheet.
type StockRegisterExporter interface {
	WriteStockRegister(w io.Writer, items []domain.StockItem) error
}
