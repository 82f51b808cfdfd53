package services

import (
	"context"
	"log/slog"
	"time"

	portsrepo "github.com/SscSPs/partsledger/internal/core/ports/repositories"
	"github.com/SscSPs/partsledger/internal/middleware"
)

// Audit log table names.
const (
	tableLedgers           = "ledgers"
	tableVouchers          = "vouchers"
	tableStockItems        = "stock_items"
	tableCategories        = "categories"
	tableStockTransactions = "stock_transactions"
	tableSales             = "sales"
	tablePurchases         = "purchases"
	tableCustomers         = "customers"
	tableSuppliers         = "suppliers"
	tableCarMakes          = "car_makes"
	tableCarModels         = "car_models"
	tableCompatibility     = "item_vehicle_compatibility"
)

// BaseService provides common functionality for all services.
type BaseService struct {
	UOW portsrepo.UnitOfWork
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	s.GetLogger(ctx).Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

func (s *BaseService) now() time.Time {
	return time.Now().UTC()
}
