package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"klimarechner/internal/common"
	"klimarechner/internal/models"
	"klimarechner/internal/services"
)

// AuditLogsHandlers exposes the audit trail to administrators.
type AuditLogsHandlers struct {
	audit services.AuditService
}

func NewAuditLogsHandlers(audit services.AuditService) *AuditLogsHandlers {
	return &AuditLogsHandlers{audit: audit}
}

type ListAuditLogsRequest struct {
	Action       string `query:"action"`
	ResourceType string `query:"resource_type"`
	Status       string `query:"status"`
	UserID       int64  `query:"user_id"`
	AdminID      int64  `query:"admin_id"`
	StartDate    string `query:"start_date"`
	EndDate      string `query:"end_date"`
	Limit        int    `query:"limit"`
	Offset       int    `query:"offset"`
}

func (h *AuditLogsHandlers) ListAuditLogs(c echo.Context) error {
	var req ListAuditLogsRequest
	if err := c.Bind(&req); err != nil {
		return common.SendBadRequest(c, "Invalid query parameters", common.CodeMissingFields)
	}

	filters := &models.AuditLogFilters{
		Limit:  req.Limit,
		Offset: req.Offset,
	}
	if req.Action != "" {
		filters.Action = &req.Action
	}
	if req.ResourceType != "" {
		filters.ResourceType = &req.ResourceType
	}
	if req.Status != "" {
		filters.Status = &req.Status
	}
	if req.UserID != 0 {
		filters.UserID = &req.UserID
	}
	if req.AdminID != 0 {
		filters.AdminID = &req.AdminID
	}
	if req.StartDate != "" {
		start, err := time.Parse(time.RFC3339, req.StartDate)
		if err != nil {
			return common.SendBadRequest(c, "start_date must be RFC3339", common.CodeMissingFields)
		}
		filters.StartDate = &start
	}
	if req.EndDate != "" {
		end, err := time.Parse(time.RFC3339, req.EndDate)
		if err != nil {
			return common.SendBadRequest(c, "end_date must be RFC3339", common.CodeMissingFields)
		}
		filters.EndDate = &end
	}

	logs, err := h.audit.List(c.Request().Context(), filters)
	if err != nil {
		return common.SendServerError(c, "Failed to list audit logs")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"audit_logs": logs,
		"count":      len(logs),
	})
}
