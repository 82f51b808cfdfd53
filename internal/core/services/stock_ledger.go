package services

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/partsledger/internal/apperrors"
	"github.com/SscSPs/partsledger/internal/core/domain"
	portsrepo "github.com/SscSPs/partsledger/internal/core/ports/repositories"
	"github.com/SscSPs/partsledger/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// stockMovement is a requested change to one item's quantity.
// Quantity is positive for purchases, sales and openings and a signed delta for adjustments.
type stockMovement struct {
	ItemID      string
	Type        domain.StockTxnType
	Quantity    decimal.Decimal
	Rate        decimal.Decimal
	Date        time.Time
	ReferenceNo *string
	DocumentID  *string
	Notes       *string
	// Compensating marks the reversal of an earlier movement; it may touch inactive items.
	Compensating bool
}

func signedQuantity(m stockMovement) (decimal.Decimal, error) {
	switch m.Type {
	case domain.StockPurchase:
		return m.Quantity, requirePositive("quantity", m.Quantity)
	case domain.StockSale:
		return m.Quantity.Neg(), requirePositive("quantity", m.Quantity)
	case domain.StockOpening:
		return m.Quantity, requireNonNegative("quantity", m.Quantity)
	case domain.StockAdjustment:
		if m.Quantity.IsZero() {
			return decimal.Zero, fmt.Errorf("%w: adjustment quantity must not be zero", apperrors.ErrValidation)
		}
		return m.Quantity, nil
	default:
		return decimal.Zero, fmt.Errorf("%w: unknown stock transaction type %q", apperrors.ErrValidation, m.Type)
	}
}

// applyStockMovement appends one stock transaction and updates the item's
// quantity and average cost in the same unit of work.
func applyStockMovement(ctx context.Context, store portsrepo.Store, m stockMovement, allowNegative bool, userID string, now time.Time) (*domain.StockTransaction, error) {
	signed, err := signedQuantity(m)
	if err != nil {
		return nil, err
	}
	if err := requireNonNegative("rate", m.Rate); err != nil {
		return nil, err
	}

	locked, err := store.Stock().LockItems(ctx, []string{m.ItemID})
	if err != nil {
		return nil, err
	}
	item, ok := locked[m.ItemID]
	if !ok {
		return nil, apperrors.NewNotFoundError("stock item", m.ItemID)
	}
	if !item.IsActive && !m.Compensating {
		return nil, fmt.Errorf("%w: stock item %s is inactive", apperrors.ErrValidation, item.SKU)
	}

	if m.Type == domain.StockOpening {
		count, err := store.Stock().CountTransactions(ctx, item.ItemID)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, fmt.Errorf("%w: opening stock must be the first transaction of %s", apperrors.ErrConflict, item.SKU)
		}
	}

	qtyAfter := item.CurrentQty.Add(signed)
	if qtyAfter.IsNegative() && !allowNegative {
		return nil, fmt.Errorf("%w: %s has %s on hand, %s requested", apperrors.ErrInsufficientStock, item.SKU, item.CurrentQty, signed.Abs())
	}

	switch m.Type {
	case domain.StockPurchase:
		item.AverageCost = accounting.WeightedAverageCost(item.CurrentQty, item.AverageCost, signed, m.Rate)
		purchaseDate := m.Date
		purchaseRate := m.Rate
		item.LastPurchaseDate = &purchaseDate
		item.LastPurchasePrice = &purchaseRate
	case domain.StockOpening:
		item.AverageCost = m.Rate.Round(accounting.Scale)
	}
	item.CurrentQty = qtyAfter
	item.LastUpdatedAt = now
	item.LastUpdatedBy = userID

	txn, err := store.Stock().AppendTransaction(ctx, domain.StockTransaction{
		TransactionID: uuid.NewString(),
		ItemID:        item.ItemID,
		Type:          m.Type,
		Quantity:      signed,
		Rate:          m.Rate,
		Date:          m.Date,
		ReferenceNo:   m.ReferenceNo,
		DocumentID:    m.DocumentID,
		Notes:         m.Notes,
		QtyAfter:      qtyAfter,
		AvgCostAfter:  item.AverageCost,
		CreatedAt:     now,
		CreatedBy:     userID,
	})
	if err != nil {
		return nil, err
	}
	if err := store.Stock().UpdateItemStock(ctx, item); err != nil {
		return nil, err
	}

	stored, err := store.Stock().FindItemByID(ctx, item.ItemID)
	if err != nil {
		return nil, err
	}
	if !stored.CurrentQty.Equal(qtyAfter) {
		return nil, fmt.Errorf("%w: item %s quantity is %s, expected %s", apperrors.ErrInvariantViolation, item.ItemID, stored.CurrentQty, qtyAfter)
	}

	if err := writeAudit(ctx, store, userID, domain.AuditPost, tableStockTransactions, txn.TransactionID, nil, txn, now); err != nil {
		return nil, err
	}
	return &txn, nil
}
