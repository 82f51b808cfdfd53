package services

import (
	"context"

	"github.com/SscSPs/partsledger/internal/core/domain"
	"github.com/SscSPs/partsledger/internal/dto"
)

// AuditSvc exposes the audit trail.
type AuditSvc interface {
	ListAuditLogs(ctx context.Context, params dto.ListAuditLogsParams) ([]domain.AuditLogEntry, error)
}

// MaintenanceSvc quiesces postings around an external database copy.
type MaintenanceSvc interface {
	// Quiesce waits for in-flight postings and rejects new ones until Resume.
	Quiesce(ctx context.Context) error
	Resume(ctx context.Context) error
	Quiesced() bool
}
