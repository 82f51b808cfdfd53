package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/SscSPs/partsledger/internal/apperrors"
	"github.com/SscSPs/partsledger/internal/core/domain"
)

func (t *txStore) FindItemByID(_ context.Context, itemID string) (*domain.StockItem, error) {
	item, ok := t.st.items[itemID]
	if !ok {
		return nil, apperrors.NewNotFoundError("stock item", itemID)
	}
	return &item, nil
}

func (t *txStore) ListItems(_ context.Context, filter domain.StockItemFilter) ([]domain.StockItem, error) {
	result := make([]domain.StockItem, 0)
	for _, item := range t.st.items {
		if !filter.IncludeInactive && !item.IsActive {
			continue
		}
		if filter.Category != "" && (item.Category == nil || !strings.EqualFold(*item.Category, filter.Category)) {
			continue
		}
		if filter.LowStock && !item.IsLowStock() {
			continue
		}
		if filter.Search != "" &&
			!containsFold(item.Name, filter.Search) &&
			!containsFold(item.SKU, filter.Search) &&
			!optionalContainsFold(item.Barcode, filter.Search) &&
			!optionalContainsFold(item.OEMPartNo, filter.Search) {
			continue
		}
		result = append(result, item)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// ListTransactions returns the item's movements in (date, seq) order.
func (t *txStore) ListTransactions(_ context.Context, itemID string) ([]domain.StockTransaction, error) {
	result := make([]domain.StockTransaction, 0)
	for _, txn := range t.st.stockTxns {
		if txn.ItemID == itemID {
			result = append(result, txn)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		return result[i].Seq < result[j].Seq
	})
	return result, nil
}

func (t *txStore) CountTransactions(_ context.Context, itemID string) (int, error) {
	count := 0
	for _, txn := range t.st.stockTxns {
		if txn.ItemID == itemID {
			count++
		}
	}
	return count, nil
}

func (t *txStore) SaveItem(_ context.Context, item domain.StockItem) error {
	if err := t.writable(); err != nil {
		return err
	}
	for _, existing := range t.st.items {
		if existing.ItemID == item.ItemID || strings.EqualFold(existing.SKU, item.SKU) {
			return fmt.Errorf("%w: stock item with SKU %s", apperrors.ErrDuplicate, item.SKU)
		}
	}
	t.st.items[item.ItemID] = item
	return nil
}

// UpdateItemMaster stores descriptive fields; quantity and cost are left as they are.
func (t *txStore) UpdateItemMaster(_ context.Context, item domain.StockItem) error {
	if err := t.writable(); err != nil {
		return err
	}
	current, ok := t.st.items[item.ItemID]
	if !ok {
		return apperrors.NewNotFoundError("stock item", item.ItemID)
	}
	current.Name = item.Name
	current.Barcode = item.Barcode
	current.OEMPartNo = item.OEMPartNo
	current.Category = item.Category
	current.Unit = item.Unit
	current.MinQty = item.MinQty
	current.MaxQty = item.MaxQty
	current.ReorderLevel = item.ReorderLevel
	current.PurchaseRate = item.PurchaseRate
	current.SaleRate = item.SaleRate
	current.MRP = item.MRP
	current.TaxRate = item.TaxRate
	current.Location = item.Location
	current.IsActive = item.IsActive
	current.LastUpdatedAt = item.LastUpdatedAt
	current.LastUpdatedBy = item.LastUpdatedBy
	t.st.items[item.ItemID] = current
	return nil
}

// UpdateItemStock stores the quantity and cost fields.
func (t *txStore) UpdateItemStock(_ context.Context, item domain.StockItem) error {
	if err := t.writable(); err != nil {
		return err
	}
	current, ok := t.st.items[item.ItemID]
	if !ok {
		return apperrors.NewNotFoundError("stock item", item.ItemID)
	}
	current.CurrentQty = item.CurrentQty
	current.AverageCost = item.AverageCost
	current.LastPurchaseDate = item.LastPurchaseDate
	current.LastPurchasePrice = item.LastPurchasePrice
	current.LastUpdatedAt = item.LastUpdatedAt
	current.LastUpdatedBy = item.LastUpdatedBy
	t.st.items[item.ItemID] = current
	return nil
}

func (t *txStore) LockItems(_ context.Context, itemIDs []string) (map[string]domain.StockItem, error) {
	result := make(map[string]domain.StockItem, len(itemIDs))
	for _, id := range itemIDs {
		if item, ok := t.st.items[id]; ok {
			result[id] = item
		}
	}
	return result, nil
}

func (t *txStore) AppendTransaction(_ context.Context, txn domain.StockTransaction) (domain.StockTransaction, error) {
	if err := t.writable(); err != nil {
		return domain.StockTransaction{}, err
	}
	if _, ok := t.st.items[txn.ItemID]; !ok {
		return domain.StockTransaction{}, apperrors.NewNotFoundError("stock item", txn.ItemID)
	}
	t.st.stockSeq++
	txn.Seq = t.st.stockSeq
	t.st.stockTxns = append(t.st.stockTxns, txn)
	return txn, nil
}
