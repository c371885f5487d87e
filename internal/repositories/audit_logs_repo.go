package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"klimarechner/internal/models"
)

// maxAuditPageSize caps List results so an unbounded query cannot drag the
// whole table into memory.
const maxAuditPageSize = 1000

// AuditLogsRepository is append-only: entries are never updated or deleted.
type AuditLogsRepository interface {
	Create(ctx context.Context, auditLog *models.AuditLog) error
	List(ctx context.Context, filters *models.AuditLogFilters) ([]*models.AuditLog, error)
}

type auditLogsRepo struct {
	db Database
}

func NewAuditLogsRepo(db Database) AuditLogsRepository {
	return &auditLogsRepo{db: db}
}

func (r *auditLogsRepo) Create(ctx context.Context, auditLog *models.AuditLog) error {
	var detailsBytes []byte
	var err error
	if auditLog.Details != nil {
		detailsBytes, err = json.Marshal(auditLog.Details)
		if err != nil {
			return fmt.Errorf("failed to marshal details: %w", err)
		}
	}

	query := `
		INSERT INTO audit_logs (user_id, admin_id, action, resource_type, resource_id, ip_address, user_agent, method, details, status, error_message, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
		RETURNING id, timestamp
	`
	return r.db.QueryRow(ctx, query,
		auditLog.UserID,
		auditLog.AdminID,
		auditLog.Action,
		auditLog.ResourceType,
		auditLog.ResourceID,
		auditLog.IPAddress,
		auditLog.UserAgent,
		auditLog.Method,
		detailsBytes,
		auditLog.Status,
		auditLog.ErrorMessage,
	).Scan(&auditLog.ID, &auditLog.Timestamp)
}

func (r *auditLogsRepo) List(ctx context.Context, filters *models.AuditLogFilters) ([]*models.AuditLog, error) {
	if filters == nil {
		filters = &models.AuditLogFilters{}
	}

	query := `
		SELECT id, user_id, admin_id, action, resource_type, resource_id, ip_address, user_agent, method, details, status, error_message, timestamp
		FROM audit_logs
		WHERE 1=1
	`

	args := []interface{}{}
	argIdx := 0

	if filters.Action != nil {
		argIdx++
		query += fmt.Sprintf(" AND action = $%d", argIdx)
		args = append(args, *filters.Action)
	}

	if filters.ResourceType != nil {
		argIdx++
		query += fmt.Sprintf(" AND resource_type = $%d", argIdx)
		args = append(args, *filters.ResourceType)
	}

	if filters.Status != nil {
		argIdx++
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, *filters.Status)
	}

	if filters.UserID != nil {
		argIdx++
		query += fmt.Sprintf(" AND user_id = $%d", argIdx)
		args = append(args, *filters.UserID)
	}

	if filters.AdminID != nil {
		argIdx++
		query += fmt.Sprintf(" AND admin_id = $%d", argIdx)
		args = append(args, *filters.AdminID)
	}

	if filters.StartDate != nil {
		argIdx++
		query += fmt.Sprintf(" AND timestamp >= $%d", argIdx)
		args = append(args, *filters.StartDate)
	}

	if filters.EndDate != nil {
		argIdx++
		query += fmt.Sprintf(" AND timestamp <= $%d", argIdx)
		args = append(args, *filters.EndDate)
	}

	query += " ORDER BY timestamp DESC"

	limit := filters.Limit
	if limit <= 0 || limit > maxAuditPageSize {
		limit = maxAuditPageSize
	}
	argIdx++
	query += fmt.Sprintf(" LIMIT $%d", argIdx)
	args = append(args, limit)

	if filters.Offset > 0 {
		argIdx++
		query += fmt.Sprintf(" OFFSET $%d", argIdx)
		args = append(args, filters.Offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var auditLogs []*models.AuditLog
	for rows.Next() {
		auditLog := &models.AuditLog{}
		var detailsBytes []byte
		if err := rows.Scan(
			&auditLog.ID,
			&auditLog.UserID,
			&auditLog.AdminID,
			&auditLog.Action,
			&auditLog.ResourceType,
			&auditLog.ResourceID,
			&auditLog.IPAddress,
			&auditLog.UserAgent,
			&auditLog.Method,
			&detailsBytes,
			&auditLog.Status,
			&auditLog.ErrorMessage,
			&auditLog.Timestamp,
		); err != nil {
			return nil, err
		}
		if len(detailsBytes) > 0 {
			if err := json.Unmarshal(detailsBytes, &auditLog.Details); err != nil {
				return nil, fmt.Errorf("failed to unmarshal details: %w", err)
			}
		}
		auditLogs = append(auditLogs, auditLog)
	}
	return auditLogs, rows.Err()
}
