package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/partsledger/internal/core/domain"
	portsrepo "github.com/SscSPs/partsledger/internal/core/ports/repositories"
)

type auditRepository struct {
	db DBTX
}

var _ portsrepo.AuditRepositoryFacade = (*auditRepository)(nil)

func (r *auditRepository) AppendAudit(ctx context.Context, entry domain.AuditLogEntry) error {
	query := `
		INSERT INTO audit_logs (entry_id, user_name, action, table_name, record_id, old_value, new_value, logged_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.db.Exec(ctx, query,
		entry.EntryID,
		entry.User,
		string(entry.Action),
		entry.TableName,
		entry.RecordID,
		jsonbArg(entry.OldValue),
		jsonbArg(entry.NewValue),
		entry.Timestamp,
	)
	return mapPgError(err, "append audit entry")
}

// ListAudit returns matching entries newest first.
func (r *auditRepository) ListAudit(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditLogEntry, error) {
	var w whereBuilder
	if filter.TableName != "" {
		w.add("table_name = ?", filter.TableName)
	}
	if filter.RecordID != "" {
		w.add("record_id = ?", filter.RecordID)
	}
	query := `
		SELECT entry_id, user_name, action, table_name, record_id, old_value, new_value, logged_at
		FROM audit_logs` + w.clause() + ` ORDER BY logged_at DESC, entry_id DESC`
	if filter.Limit > 0 {
		query += " LIMIT " + w.arg(filter.Limit)
	}

	rows, err := r.db.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.AuditLogEntry, 0)
	for rows.Next() {
		var e domain.AuditLogEntry
		var oldValue, newValue []byte
		if err := rows.Scan(&e.EntryID, &e.User, &e.Action, &e.TableName, &e.RecordID, &oldValue, &newValue, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan audit row: %w", err)
		}
		e.OldValue = oldValue
		e.NewValue = newValue
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit rows: %w", err)
	}
	return entries, nil
}

// jsonbArg passes raw JSON as text so a nil value becomes SQL NULL.
func jsonbArg(raw []byte) *string {
	if len(raw) == 0 {
		return nil
	}
	s := string(raw)
	return &s
}
