package dto

import "github.com/SscSPs/partsledger/internal/core/domain"

// ListAuditLogsParams defines query parameters for the audit trail.
type ListAuditLogsParams struct {
	TableName string `form:"table"`
	RecordID  string `form:"recordID"`
	Limit     int    `form:"limit,default=100" binding:"min=1,max=1000"`
}

// ListAuditLogsResponse wraps audit entries, newest first.
type ListAuditLogsResponse struct {
	Entries []domain.AuditLogEntry `json:"entries"`
}
