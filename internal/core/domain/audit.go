package domain

import (
	"encoding/json"
	"time"
)

// AuditAction names the kind of mutation recorded.
type AuditAction string

const (
	AuditCreate     AuditAction = "CREATE"
	AuditUpdate     AuditAction = "UPDATE"
	AuditDeactivate AuditAction = "DEACTIVATE"
	AuditPost       AuditAction = "POST"
	AuditCancel     AuditAction = "CANCEL"
	AuditDelete     AuditAction = "DELETE"
)

// AuditLogEntry is an immutable record of one mutation.
type AuditLogEntry struct {
	EntryID   string          `json:"entryID"`
	User      string          `json:"user"`
	Action    AuditAction     `json:"action"`
	TableName string          `json:"tableName"`
	RecordID  string          `json:"recordID"`
	OldValue  json.RawMessage `json:"oldValue,omitempty"`
	NewValue  json.RawMessage `json:"newValue,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// AuditFilter narrows audit log listings. A zero Limit returns every match.
type AuditFilter struct {
	TableName string
	RecordID  string
	Limit     int
}
