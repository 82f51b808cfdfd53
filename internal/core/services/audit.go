package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/SscSPs/partsledger/internal/core/domain"
	portsrepo "github.com/SscSPs/partsledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/partsledger/internal/core/ports/services"
	"github.com/SscSPs/partsledger/internal/dto"
	"github.com/google/uuid"
)

// writeAudit appends one audit entry through the store of the running unit of work,
// so the entry commits or rolls back with the mutation it describes.
// Pass a nil interface, not a typed nil pointer, for an absent value.
func writeAudit(ctx context.Context, store portsrepo.Store, userID string, action domain.AuditAction, table, recordID string, oldValue, newValue any, now time.Time) error {
	entry := domain.AuditLogEntry{
		EntryID:   uuid.NewString(),
		User:      userID,
		Action:    action,
		TableName: table,
		RecordID:  recordID,
		Timestamp: now,
	}
	if oldValue != nil {
		raw, err := json.Marshal(oldValue)
		if err != nil {
			return fmt.Errorf("failed to encode audit old value: %w", err)
		}
		entry.OldValue = raw
	}
	if newValue != nil {
		raw, err := json.Marshal(newValue)
		if err != nil {
			return fmt.Errorf("failed to encode audit new value: %w", err)
		}
		entry.NewValue = raw
	}
	return store.Audit().AppendAudit(ctx, entry)
}

type auditService struct {
	BaseService
}

// NewAuditService creates the read side of the audit trail.
func NewAuditService(uow portsrepo.UnitOfWork) portssvc.AuditSvc {
	return &auditService{BaseService: BaseService{UOW: uow}}
}

var _ portssvc.AuditSvc = (*auditService)(nil)

func (s *auditService) ListAuditLogs(ctx context.Context, params dto.ListAuditLogsParams) ([]domain.AuditLogEntry, error) {
	filter := domain.AuditFilter{TableName: params.TableName, RecordID: params.RecordID, Limit: params.Limit}
	var entries []domain.AuditLogEntry
	err := s.UOW.View(ctx, func(ctx context.Context, store portsrepo.Store) error {
		var err error
		entries, err = store.Audit().ListAudit(ctx, filter)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to list audit logs")
		return nil, err
	}
	return entries, nil
}
