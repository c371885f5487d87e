package models

import (
	"time"
)

// AuditLog is an append-only record of a state-changing or access-control
// action. Entries are never updated or deleted after insert.
type AuditLog struct {
	ID           int64     `json:"id" db:"id"`
	UserID       *int64    `json:"user_id" db:"user_id"`
	AdminID      *int64    `json:"admin_id" db:"admin_id"`
	Action       string    `json:"action" db:"action"`
	ResourceType string    `json:"resource_type" db:"resource_type"`
	ResourceID   *string   `json:"resource_id" db:"resource_id"`
	IPAddress    *string   `json:"ip_address" db:"ip_address"`
	UserAgent    *string   `json:"user_agent" db:"user_agent"`
	Method       *string   `json:"method" db:"method"`
	Details      JSONB     `json:"details" db:"details"`
	Status       string    `json:"status" db:"status"`
	ErrorMessage *string   `json:"error_message" db:"error_message"`
	Timestamp    time.Time `json:"timestamp" db:"timestamp"`
}

// Status values for audit logs
const (
	AuditStatusSuccess = "success"
	AuditStatusFailure = "failure"
	AuditStatusError   = "error"
)

// AuditLogFilters represents filters for querying audit logs
type AuditLogFilters struct {
	Action       *string    `json:"action"`
	ResourceType *string    `json:"resource_type"`
	UserID       *int64     `json:"user_id"`
	AdminID      *int64     `json:"admin_id"`
	Status       *string    `json:"status"`
	StartDate    *time.Time `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
	Limit        int        `json:"limit"`
	Offset       int        `json:"offset"`
}
