package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/SscSPs/partsledger/internal/apperrors"
	"github.com/SscSPs/partsledger/internal/core/domain"
	portsrepo "github.com/SscSPs/partsledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/partsledger/internal/core/ports/services"
	"github.com/SscSPs/partsledger/internal/dto"
	"github.com/SscSPs/partsledger/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type stockService struct {
	BaseService
	allowNegative bool
	exporter      portssvc.StockRegisterExporter
}

// StockServiceOption configures a stock service.
type StockServiceOption func(*stockService)

// WithNegativeStock lets sales and adjustments take an item below zero.
func WithNegativeStock(allow bool) StockServiceOption {
	return func(s *stockService) {
		s.allowNegative = allow
	}
}

// WithStockRegisterExporter sets the writer used by ExportStockRegister.
func WithStockRegisterExporter(exporter portssvc.StockRegisterExporter) StockServiceOption {
	return func(s *stockService) {
		s.exporter = exporter
	}
}

// NewStockService creates a new stock service.
func NewStockService(uow portsrepo.UnitOfWork, options ...StockServiceOption) portssvc.StockSvcFacade {
	svc := &stockService{BaseService: BaseService{UOW: uow}}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.StockSvcFacade = (*stockService)(nil)

func (s *stockService) CreateStockItem(ctx context.Context, req dto.CreateStockItemRequest, userID string) (*domain.StockItem, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	name, err := requireName("name", req.Name)
	if err != nil {
		return nil, err
	}
	sku, err := requireName("sku", req.SKU)
	if err != nil {
		return nil, err
	}

	unit := strings.TrimSpace(req.Unit)
	if unit == "" {
		unit = domain.DefaultUnit
	}
	now := s.now()
	item := domain.StockItem{
		ItemID:       uuid.NewString(),
		Name:         name,
		SKU:          sku,
		Barcode:      normalizeOptional(req.Barcode),
		OEMPartNo:    normalizeOptional(req.OEMPartNo),
		Category:     normalizeOptional(req.Category),
		Unit:         unit,
		CurrentQty:   decimal.Zero,
		MinQty:       valueOr(req.MinQty, domain.DefaultMinQty),
		MaxQty:       valueOr(req.MaxQty, domain.DefaultMaxQty),
		ReorderLevel: valueOr(req.ReorderLevel, domain.DefaultReorderLevel),
		PurchaseRate: req.PurchaseRate,
		SaleRate:     req.SaleRate,
		MRP:          req.MRP,
		TaxRate:      req.TaxRate,
		Location:     normalizeOptional(req.Location),
		AverageCost:  decimal.Zero,
		IsActive:     true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := validateItemAmounts(item); err != nil {
		return nil, err
	}
	if err := requireNonNegative("openingQty", req.OpeningQty); err != nil {
		return nil, err
	}
	if err := requireNonNegative("openingRate", req.OpeningRate); err != nil {
		return nil, err
	}

	var created *domain.StockItem
	err = s.UOW.WithinTx(ctx, func(ctx context.Context, store portsrepo.Store) error {
		var err error
		if item.Category, err = resolveCategory(ctx, store, item.Category); err != nil {
			return err
		}
		if err := store.Stock().SaveItem(ctx, item); err != nil {
			return err
		}
		if err := writeAudit(ctx, store, userID, domain.AuditCreate, tableStockItems, item.ItemID, nil, item, now); err != nil {
			return err
		}
		if req.OpeningQty.IsPositive() || req.OpeningRate.IsPositive() {
			openingDate := now
			if req.OpeningDate != nil {
				openingDate = *req.OpeningDate
			}
			notes := "Opening stock"
			_, err := applyStockMovement(ctx, store, stockMovement{
				ItemID:   item.ItemID,
				Type:     domain.StockOpening,
				Quantity: req.OpeningQty,
				Rate:     req.OpeningRate,
				Date:     openingDate,
				Notes:    &notes,
			}, s.allowNegative, userID, now)
			if err != nil {
				return err
			}
		}
		created, err = store.Stock().FindItemByID(ctx, item.ItemID)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create stock item", slog.String("sku", sku))
		return nil, err
	}

	s.LogInfo(ctx, "Stock item created successfully",
		slog.String("item_id", created.ItemID),
		slog.String("sku", created.SKU),
		slog.String("opening_qty", created.CurrentQty.String()))
	return created, nil
}

func (s *stockService) GetStockItemByID(ctx context.Context, itemID string) (*domain.StockItem, error) {
	var item *domain.StockItem
	err := s.UOW.View(ctx, func(ctx context.Context, store portsrepo.Store) error {
		var err error
		item, err = store.Stock().FindItemByID(ctx, itemID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *stockService) ListStockItems(ctx context.Context, params dto.ListStockItemsParams) ([]domain.StockItem, error) {
	filter := domain.StockItemFilter{
		Category:        params.Category,
		Search:          params.Search,
		LowStock:        params.LowStock,
		IncludeInactive: params.IncludeInactive,
	}
	var items []domain.StockItem
	err := s.UOW.View(ctx, func(ctx context.Context, store portsrepo.Store) error {
		var err error
		items, err = store.Stock().ListItems(ctx, filter)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to list stock items")
		return nil, err
	}
	return items, nil
}

func (s *stockService) UpdateStockItem(ctx context.Context, itemID string, req dto.UpdateStockItemRequest, userID string) (*domain.StockItem, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var updated domain.StockItem
	err := s.UOW.WithinTx(ctx, func(ctx context.Context, store portsrepo.Store) error {
		item, err := s.lockItem(ctx, store, itemID)
		if err != nil {
			return err
		}
		before := item
		if req.Name != nil {
			if item.Name, err = requireName("name", *req.Name); err != nil {
				return err
			}
		}
		if req.Unit != nil {
			if item.Unit, err = requireName("unit", *req.Unit); err != nil {
				return err
			}
		}
		if req.Barcode != nil {
			item.Barcode = normalizeOptional(req.Barcode)
		}
		if req.OEMPartNo != nil {
			item.OEMPartNo = normalizeOptional(req.OEMPartNo)
		}
		if req.Category != nil {
			if item.Category, err = resolveCategory(ctx, store, req.Category); err != nil {
				return err
			}
		}
		if req.Location != nil {
			item.Location = normalizeOptional(req.Location)
		}
		item.MinQty = valueOr(req.MinQty, item.MinQty)
		item.MaxQty = valueOr(req.MaxQty, item.MaxQty)
		item.ReorderLevel = valueOr(req.ReorderLevel, item.ReorderLevel)
		item.PurchaseRate = valueOr(req.PurchaseRate, item.PurchaseRate)
		item.SaleRate = valueOr(req.SaleRate, item.SaleRate)
		item.MRP = valueOr(req.MRP, item.MRP)
		item.TaxRate = valueOr(req.TaxRate, item.TaxRate)
		if err := validateItemAmounts(item); err != nil {
			return err
		}

		now := s.now()
		item.LastUpdatedAt = now
		item.LastUpdatedBy = userID
		if err := store.Stock().UpdateItemMaster(ctx, item); err != nil {
			return err
		}
		updated = item
		return writeAudit(ctx, store, userID, domain.AuditUpdate, tableStockItems, item.ItemID, before, item, now)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to update stock item", slog.String("item_id", itemID))
		return nil, err
	}
	return &updated, nil
}

func (s *stockService) DeactivateStockItem(ctx context.Context, itemID string, userID string) error {
	err := s.UOW.WithinTx(ctx, func(ctx context.Context, store portsrepo.Store) error {
		item, err := s.lockItem(ctx, store, itemID)
		if err != nil {
			return err
		}
		if !item.IsActive {
			return nil
		}
		before := item
		now := s.now()
		item.IsActive = false
		item.LastUpdatedAt = now
		item.LastUpdatedBy = userID
		if err := store.Stock().UpdateItemMaster(ctx, item); err != nil {
			return err
		}
		return writeAudit(ctx, store, userID, domain.AuditDeactivate, tableStockItems, item.ItemID, before, item, now)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to deactivate stock item", slog.String("item_id", itemID))
		return err
	}
	s.LogInfo(ctx, "Stock item deactivated", slog.String("item_id", itemID))
	return nil
}

func (s *stockService) ApplyStockTransaction(ctx context.Context, req dto.ApplyStockTransactionRequest, userID string) (*domain.StockTransaction, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	movement := stockMovement{
		ItemID:      req.ItemID,
		Type:        req.Type,
		Quantity:    req.Quantity,
		Rate:        req.Rate,
		Date:        req.Date,
		ReferenceNo: normalizeOptional(req.ReferenceNo),
		Notes:       normalizeOptional(req.Notes),
	}
	var txn *domain.StockTransaction
	err := s.UOW.WithinTx(ctx, func(ctx context.Context, store portsrepo.Store) error {
		var err error
		txn, err = applyStockMovement(ctx, store, movement, s.allowNegative, userID, s.now())
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to apply stock transaction",
			slog.String("item_id", req.ItemID),
			slog.String("type", string(req.Type)))
		return nil, err
	}

	s.LogInfo(ctx, "Stock transaction applied",
		slog.String("item_id", txn.ItemID),
		slog.String("type", string(txn.Type)),
		slog.String("quantity", txn.Quantity.String()),
		slog.String("qty_after", txn.QtyAfter.String()))
	return txn, nil
}

func (s *stockService) ListStockTransactions(ctx context.Context, itemID string) ([]domain.StockTransaction, error) {
	var txns []domain.StockTransaction
	err := s.UOW.View(ctx, func(ctx context.Context, store portsrepo.Store) error {
		if _, err := store.Stock().FindItemByID(ctx, itemID); err != nil {
			return err
		}
		var err error
		txns, err = store.Stock().ListTransactions(ctx, itemID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return txns, nil
}

// ReconcileStockItem sums the item's transaction log and compares it with the stored quantity.
func (s *stockService) ReconcileStockItem(ctx context.Context, itemID string) (*domain.StockReconciliation, error) {
	var result domain.StockReconciliation
	err := s.UOW.View(ctx, func(ctx context.Context, store portsrepo.Store) error {
		item, err := store.Stock().FindItemByID(ctx, itemID)
		if err != nil {
			return err
		}
		txns, err := store.Stock().ListTransactions(ctx, itemID)
		if err != nil {
			return err
		}
		quantities := make([]decimal.Decimal, len(txns))
		for i, t := range txns {
			quantities[i] = t.Quantity
		}
		replayed := accounting.ReplayQuantity(quantities)
		result = domain.StockReconciliation{
			ItemID:           item.ItemID,
			CurrentQty:       item.CurrentQty,
			ReplayedQty:      replayed,
			TransactionCount: len(txns),
			Consistent:       replayed.Equal(item.CurrentQty),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !result.Consistent {
		s.GetLogger(ctx).Warn("Stock quantity does not match its transactions",
			slog.String("item_id", itemID),
			slog.String("current_qty", result.CurrentQty.String()),
			slog.String("replayed_qty", result.ReplayedQty.String()))
	}
	return &result, nil
}

// ExportStockRegister writes every active item to w.
func (s *stockService) ExportStockRegister(ctx context.Context, w io.Writer) error {
	if s.exporter == nil {
		return fmt.Errorf("%w: no stock register exporter configured", apperrors.ErrInternal)
	}
	items, err := s.ListStockItems(ctx, dto.ListStockItemsParams{})
	if err != nil {
		return err
	}
	if err := s.exporter.WriteStockRegister(w, items); err != nil {
		s.LogError(ctx, err, "Failed to write stock register")
		return fmt.Errorf("failed to write stock register: %w", err)
	}
	s.LogInfo(ctx, "Stock register exported", slog.Int("items", len(items)))
	return nil
}

func (s *stockService) lockItem(ctx context.Context, store portsrepo.Store, itemID string) (domain.StockItem, error) {
	locked, err := store.Stock().LockItems(ctx, []string{itemID})
	if err != nil {
		return domain.StockItem{}, err
	}
	item, ok := locked[itemID]
	if !ok {
		return domain.StockItem{}, apperrors.NewNotFoundError("stock item", itemID)
	}
	return item, nil
}

func validateItemAmounts(item domain.StockItem) error {
	checks := []struct {
		field string
		value decimal.Decimal
	}{
		{"minQty", item.MinQty},
		{"maxQty", item.MaxQty},
		{"reorderLevel", item.ReorderLevel},
		{"purchaseRate", item.PurchaseRate},
		{"saleRate", item.SaleRate},
		{"mrp", item.MRP},
		{"taxRate", item.TaxRate},
	}
	for _, c := range checks {
		if err := requireNonNegative(c.field, c.value); err != nil {
			return err
		}
	}
	if item.MaxQty.LessThan(item.MinQty) {
		return fmt.Errorf("%w: maxQty must not be below minQty", apperrors.ErrValidation)
	}
	return nil
}

func valueOr(v *decimal.Decimal, fallback decimal.Decimal) decimal.Decimal {
	if v == nil {
		return fallback
	}
	return *v
}
