package repositories

import (
	"context"

	"github.com/SscSPs/partsledger/internal/core/domain"
)

// StockReader defines read operations for stock items and their movements.
type StockReader interface {
	FindItemByID(ctx context.Context, itemID string) (*domain.StockItem, error)
	ListItems(ctx context.Context, filter domain.StockItemFilter) ([]domain.StockItem, error)
	// ListTransactions returns an item's movements in (date, seq) order.
	ListTransactions(ctx context.Context, itemID string) ([]domain.StockTransaction, error)
	CountTransactions(ctx context.Context, itemID string) (int, error)
}

// StockWriter defines write operations for stock items and their movements.
type StockWriter interface {
	SaveItem(ctx context.Context, item domain.StockItem) error
	// UpdateItemMaster writes descriptive fields only; quantity and cost are never touched.
	UpdateItemMaster(ctx context.Context, item domain.StockItem) error
	// UpdateItemStock writes quantity, average cost and last purchase fields.
	UpdateItemStock(ctx context.Context, item domain.StockItem) error
	LockItems(ctx context.Context, itemIDs []string) (map[string]domain.StockItem, error)
	// AppendTransaction stores txn and returns it with its sequence number assigned.
	AppendTransaction(ctx context.Context, txn domain.StockTransaction) (domain.StockTransaction, error)
}

// StockRepositoryFacade combines all stock-related repository interfaces.
type StockRepositoryFacade interface {
	StockReader
	StockWriter
}
