package repositories

import (
	"context"

	"github.com/SscSPs/partsledger/internal/core/domain"
)

// AuditRepositoryFacade appends and lists audit log entries. Entries are never updated or deleted.
type AuditRepositoryFacade interface {
	AppendAudit(ctx context.Context, entry domain.AuditLogEntry) error
	ListAudit(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditLogEntry, error)
}

// SequenceRepository hands out gapless counter values. A value is consumed only
// when the surrounding transaction commits.
type SequenceRepository interface {
	NextValue(ctx context.Context, name string) (int64, error)
}
