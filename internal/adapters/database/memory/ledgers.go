package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/partsledger/internal/apperrors"
	"github.com/SscSPs/partsledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

func (t *txStore) FindLedgerByID(_ context.Context, ledgerID string) (*domain.Ledger, error) {
	l, ok := t.st.ledgers[ledgerID]
	if !ok {
		return nil, apperrors.NewNotFoundError("ledger", ledgerID)
	}
	return &l, nil
}

func (t *txStore) FindLedgerByName(_ context.Context, name string) (*domain.Ledger, error) {
	for _, l := range t.st.ledgers {
		if l.Name == name {
			return &l, nil
		}
	}
	return nil, apperrors.NewNotFoundError("ledger", name)
}

func (t *txStore) ListLedgers(_ context.Context, filter domain.LedgerFilter) ([]domain.Ledger, error) {
	result := make([]domain.Ledger, 0)
	for _, l := range t.st.ledgers {
		if !filter.IncludeInactive && !l.IsActive {
			continue
		}
		if filter.Type != nil && l.Type != *filter.Type {
			continue
		}
		if filter.Search != "" && !containsFold(l.Name, filter.Search) {
			continue
		}
		result = append(result, l)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (t *txStore) SaveLedger(_ context.Context, ledger domain.Ledger) error {
	if err := t.writable(); err != nil {
		return err
	}
	if _, exists := t.st.ledgers[ledger.LedgerID]; exists {
		return fmt.Errorf("%w: ledger %s", apperrors.ErrDuplicate, ledger.LedgerID)
	}
	for _, l := range t.st.ledgers {
		if strings.EqualFold(l.Name, ledger.Name) {
			return fmt.Errorf("%w: ledger named %s", apperrors.ErrDuplicate, ledger.Name)
		}
	}
	t.st.ledgers[ledger.LedgerID] = ledger
	return nil
}

// UpdateLedger stores master data only; the balance columns are left as they are.
func (t *txStore) UpdateLedger(_ context.Context, ledger domain.Ledger) error {
	if err := t.writable(); err != nil {
		return err
	}
	current, ok := t.st.ledgers[ledger.LedgerID]
	if !ok {
		return apperrors.NewNotFoundError("ledger", ledger.LedgerID)
	}
	for id, l := range t.st.ledgers {
		if id != ledger.LedgerID && strings.EqualFold(l.Name, ledger.Name) {
			return fmt.Errorf("%w: ledger named %s", apperrors.ErrDuplicate, ledger.Name)
		}
	}
	current.Name = ledger.Name
	current.ParentGroup = ledger.ParentGroup
	current.IsActive = ledger.IsActive
	current.LastUpdatedAt = ledger.LastUpdatedAt
	current.LastUpdatedBy = ledger.LastUpdatedBy
	t.st.ledgers[ledger.LedgerID] = current
	return nil
}

// LockLedgers returns the requested ledgers. Missing ids are simply absent from the map.
func (t *txStore) LockLedgers(_ context.Context, ledgerIDs []string) (map[string]domain.Ledger, error) {
	result := make(map[string]domain.Ledger, len(ledgerIDs))
	for _, id := range ledgerIDs {
		if l, ok := t.st.ledgers[id]; ok {
			result[id] = l
		}
	}
	return result, nil
}

func (t *txStore) ApplyBalanceDeltas(_ context.Context, deltas map[string]decimal.Decimal, userID string, now time.Time) error {
	if err := t.writable(); err != nil {
		return err
	}
	for id, delta := range deltas {
		l, ok := t.st.ledgers[id]
		if !ok {
			return apperrors.NewNotFoundError("ledger", id)
		}
		l.Balance = l.Balance.Add(delta)
		l.LastUpdatedAt = now
		l.LastUpdatedBy = userID
		t.st.ledgers[id] = l
	}
	return nil
}
