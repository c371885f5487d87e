package services

import (
	"context"
	"log"

	"klimarechner/internal/models"
	"klimarechner/internal/repositories"
)

// RequestContext carries request metadata into audit entries.
type RequestContext struct {
	IPAddress string
	UserAgent string
	Method    string
}

// AuditEntry describes one action to record.
type AuditEntry struct {
	UserID       *int64
	AdminID      *int64
	Action       string
	ResourceType string
	ResourceID   *string
	Details      models.JSONB
	Status       string
	ErrorMessage *string
	Request      *RequestContext
}

// AuditService records actions to the append-only audit trail. Recording is
// best effort: a failed insert is logged and never fails the caller's
// operation.
type AuditService interface {
	Record(ctx context.Context, entry *AuditEntry)
	List(ctx context.Context, filters *models.AuditLogFilters) ([]*models.AuditLog, error)
}

type auditService struct {
	repo repositories.AuditLogsRepository
}

func NewAuditService(repo repositories.AuditLogsRepository) AuditService {
	return &auditService{repo: repo}
}

func (s *auditService) Record(ctx context.Context, entry *AuditEntry) {
	if entry == nil {
		return
	}
	status := entry.Status
	if status == "" {
		status = models.AuditStatusSuccess
	}

	auditLog := &models.AuditLog{
		UserID:       entry.UserID,
		AdminID:      entry.AdminID,
		Action:       entry.Action,
		ResourceType: entry.ResourceType,
		ResourceID:   entry.ResourceID,
		Details:      entry.Details,
		Status:       status,
		ErrorMessage: entry.ErrorMessage,
	}
	if entry.Request != nil {
		if entry.Request.IPAddress != "" {
			auditLog.IPAddress = &entry.Request.IPAddress
		}
		if entry.Request.UserAgent != "" {
			auditLog.UserAgent = &entry.Request.UserAgent
		}
		if entry.Request.Method != "" {
			auditLog.Method = &entry.Request.Method
		}
	}

	if err := s.repo.Create(ctx, auditLog); err != nil {
		log.Printf("Failed to record audit entry %s/%s: %v", entry.ResourceType, entry.Action, err)
	}
}

func (s *auditService) List(ctx context.Context, filters *models.AuditLogFilters) ([]*models.AuditLog, error) {
	return s.repo.List(ctx, filters)
}
