package pgsql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/SscSPs/partsledger/internal/apperrors"
	"github.com/SscSPs/partsledger/internal/core/domain"
	portsrepo "github.com/SscSPs/partsledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type stockRepository struct {
	db DBTX
}

var _ portsrepo.StockRepositoryFacade = (*stockRepository)(nil)

const stockItemColumns = `item_id, name, sku, barcode, oem_part_no, category, unit, current_qty, min_qty, max_qty,
	reorder_level, purchase_rate, sale_rate, mrp, tax_rate, location, average_cost, last_purchase_date,
	last_purchase_price, is_active, created_at, created_by, last_updated_at, last_updated_by`

const stockTxnColumns = `transaction_id, seq, item_id, txn_type, quantity, rate, txn_date, reference_no, document_id,
	notes, qty_after, avg_cost_after, created_at, created_by`

func scanStockItem(row rowScanner) (domain.StockItem, error) {
	var item domain.StockItem
	var lastPrice decimal.NullDecimal
	err := row.Scan(
		&item.ItemID,
		&item.Name,
		&item.SKU,
		&item.Barcode,
		&item.OEMPartNo,
		&item.Category,
		&item.Unit,
		&item.CurrentQty,
		&item.MinQty,
		&item.MaxQty,
		&item.ReorderLevel,
		&item.PurchaseRate,
		&item.SaleRate,
		&item.MRP,
		&item.TaxRate,
		&item.Location,
		&item.AverageCost,
		&item.LastPurchaseDate,
		&lastPrice,
		&item.IsActive,
		&item.CreatedAt,
		&item.CreatedBy,
		&item.LastUpdatedAt,
		&item.LastUpdatedBy,
	)
	if err != nil {
		return domain.StockItem{}, err
	}
	if lastPrice.Valid {
		item.LastPurchasePrice = &lastPrice.Decimal
	}
	return item, nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func scanStockTxn(row rowScanner) (domain.StockTransaction, error) {
	var t domain.StockTransaction
	err := row.Scan(
		&t.TransactionID,
		&t.Seq,
		&t.ItemID,
		&t.Type,
		&t.Quantity,
		&t.Rate,
		&t.Date,
		&t.ReferenceNo,
		&t.DocumentID,
		&t.Notes,
		&t.QtyAfter,
		&t.AvgCostAfter,
		&t.CreatedAt,
		&t.CreatedBy,
	)
	return t, err
}

func (r *stockRepository) FindItemByID(ctx context.Context, itemID string) (*domain.StockItem, error) {
	query := `SELECT ` + stockItemColumns + ` FROM stock_items WHERE item_id = $1`
	item, err := scanStockItem(r.db.QueryRow(ctx, query, itemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("stock item", itemID)
		}
		return nil, fmt.Errorf("failed to find stock item %s: %w", itemID, err)
	}
	return &item, nil
}

func (r *stockRepository) ListItems(ctx context.Context, filter domain.StockItemFilter) ([]domain.StockItem, error) {
	var w whereBuilder
	if !filter.IncludeInactive {
		w.add("is_active")
	}
	if filter.Category != "" {
		w.add("LOWER(category) = LOWER(?)", filter.Category)
	}
	if filter.LowStock {
		w.add("current_qty <= reorder_level")
	}
	if filter.Search != "" {
		p := w.arg(likePattern(filter.Search))
		w.conds = append(w.conds, fmt.Sprintf(
			"(name ILIKE %[1]s OR sku ILIKE %[1]s OR barcode ILIKE %[1]s OR oem_part_no ILIKE %[1]s)", p))
	}
	query := `SELECT ` + stockItemColumns + ` FROM stock_items` + w.clause() + ` ORDER BY name`

	rows, err := r.db.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list stock items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.StockItem, 0)
	for rows.Next() {
		item, err := scanStockItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stock item row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stock item rows: %w", err)
	}
	return items, nil
}

func (r *stockRepository) ListTransactions(ctx context.Context, itemID string) ([]domain.StockTransaction, error) {
	query := `SELECT ` + stockTxnColumns + ` FROM stock_transactions WHERE item_id = $1 ORDER BY txn_date, seq`
	rows, err := r.db.Query(ctx, query, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to list stock transactions for %s: %w", itemID, err)
	}
	defer rows.Close()

	txns := make([]domain.StockTransaction, 0)
	for rows.Next() {
		t, err := scanStockTxn(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stock transaction row: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stock transaction rows: %w", err)
	}
	return txns, nil
}

func (r *stockRepository) CountTransactions(ctx context.Context, itemID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM stock_transactions WHERE item_id = $1`, itemID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count stock transactions for %s: %w", itemID, err)
	}
	return count, nil
}

func (r *stockRepository) SaveItem(ctx context.Context, item domain.StockItem) error {
	query := `
		INSERT INTO stock_items (` + stockItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24);
	`
	_, err := r.db.Exec(ctx, query,
		item.ItemID,
		item.Name,
		item.SKU,
		item.Barcode,
		item.OEMPartNo,
		item.Category,
		item.Unit,
		item.CurrentQty,
		item.MinQty,
		item.MaxQty,
		item.ReorderLevel,
		item.PurchaseRate,
		item.SaleRate,
		item.MRP,
		item.TaxRate,
		item.Location,
		item.AverageCost,
		item.LastPurchaseDate,
		nullDecimal(item.LastPurchasePrice),
		item.IsActive,
		item.CreatedAt,
		item.CreatedBy,
		item.LastUpdatedAt,
		item.LastUpdatedBy,
	)
	return mapPgError(err, "save stock item "+item.SKU)
}

func (r *stockRepository) UpdateItemMaster(ctx context.Context, item domain.StockItem) error {
	query := `
		UPDATE stock_items
		SET name = $2, barcode = $3, oem_part_no = $4, category = $5, unit = $6, min_qty = $7, max_qty = $8,
			reorder_level = $9, purchase_rate = $10, sale_rate = $11, mrp = $12, tax_rate = $13, location = $14,
			is_active = $15, last_updated_at = $16, last_updated_by = $17
		WHERE item_id = $1;
	`
	ct, err := r.db.Exec(ctx, query,
		item.ItemID,
		item.Name,
		item.Barcode,
		item.OEMPartNo,
		item.Category,
		item.Unit,
		item.MinQty,
		item.MaxQty,
		item.ReorderLevel,
		item.PurchaseRate,
		item.SaleRate,
		item.MRP,
		item.TaxRate,
		item.Location,
		item.IsActive,
		item.LastUpdatedAt,
		item.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "update stock item "+item.ItemID)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("stock item", item.ItemID)
	}
	return nil
}

func (r *stockRepository) UpdateItemStock(ctx context.Context, item domain.StockItem) error {
	query := `
		UPDATE stock_items
		SET current_qty = $2, average_cost = $3, last_purchase_date = $4, last_purchase_price = $5,
			last_updated_at = $6, last_updated_by = $7
		WHERE item_id = $1;
	`
	ct, err := r.db.Exec(ctx, query,
		item.ItemID,
		item.CurrentQty,
		item.AverageCost,
		item.LastPurchaseDate,
		nullDecimal(item.LastPurchasePrice),
		item.LastUpdatedAt,
		item.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "update stock for item "+item.ItemID)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("stock item", item.ItemID)
	}
	return nil
}

// LockItems row-locks the items in ascending id order so concurrent documents
// touching overlapping items cannot deadlock.
func (r *stockRepository) LockItems(ctx context.Context, itemIDs []string) (map[string]domain.StockItem, error) {
	ids := append([]string(nil), itemIDs...)
	sort.Strings(ids)

	query := `SELECT ` + stockItemColumns + ` FROM stock_items WHERE item_id = ANY($1) ORDER BY item_id FOR UPDATE`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to lock stock items: %w", err)
	}
	defer rows.Close()

	items := make(map[string]domain.StockItem, len(ids))
	for rows.Next() {
		item, err := scanStockItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan locked stock item: %w", err)
		}
		items[item.ItemID] = item
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating locked stock items: %w", err)
	}
	if len(items) < len(ids) {
		slog.WarnContext(ctx, "Some stock items were not found while locking", slog.Int("requested", len(ids)), slog.Int("found", len(items)))
	}
	return items, nil
}

func (r *stockRepository) AppendTransaction(ctx context.Context, txn domain.StockTransaction) (domain.StockTransaction, error) {
	query := `
		INSERT INTO stock_transactions (transaction_id, item_id, txn_type, quantity, rate, txn_date, reference_no,
			document_id, notes, qty_after, avg_cost_after, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING seq;
	`
	err := r.db.QueryRow(ctx, query,
		txn.TransactionID,
		txn.ItemID,
		string(txn.Type),
		txn.Quantity,
		txn.Rate,
		txn.Date,
		txn.ReferenceNo,
		txn.DocumentID,
		txn.Notes,
		txn.QtyAfter,
		txn.AvgCostAfter,
		txn.CreatedAt,
		txn.CreatedBy,
	).Scan(&txn.Seq)
	if err != nil {
		return domain.StockTransaction{}, mapPgError(err, "append stock transaction for "+txn.ItemID)
	}
	return txn, nil
}
