package memory

import (
	"context"
	"slices"

	"github.com/SscSPs/partsledger/internal/core/domain"
)

func (t *txStore) AppendAudit(_ context.Context, entry domain.AuditLogEntry) error {
	if err := t.writable(); err != nil {
		return err
	}
	t.st.audit = append(t.st.audit, entry)
	return nil
}

// ListAudit returns matching entries newest first.
func (t *txStore) ListAudit(_ context.Context, filter domain.AuditFilter) ([]domain.AuditLogEntry, error) {
	result := make([]domain.AuditLogEntry, 0)
	for _, entry := range slices.Backward(t.st.audit) {
		if filter.TableName != "" && entry.TableName != filter.TableName {
			continue
		}
		if filter.RecordID != "" && entry.RecordID != filter.RecordID {
			continue
		}
		result = append(result, entry)
		if filter.Limit > 0 && len(result) == filter.Limit {
			break
		}
	}
	return result, nil
}
