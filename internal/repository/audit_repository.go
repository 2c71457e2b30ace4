package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/restaurant-pos/internal/database"
	"github.com/iliyamo/restaurant-pos/internal/model"
)

// AuditRepo appends to audit_logs. Rows are never updated or deleted.
type AuditRepo struct{}

// NewAuditRepo returns an AuditRepo.
func NewAuditRepo() *AuditRepo { return &AuditRepo{} }

// auditRecord scans details as raw bytes so a NULL column is tolerated.
type auditRecord struct {
	ID         string    `db:"id"`
	ActionType string    `db:"action_type"`
	EntityType string    `db:"entity_type"`
	EntityID   string    `db:"entity_id"`
	StaffID    *string   `db:"staff_id"`
	Details    []byte    `db:"details"`
	CreatedAt  time.Time `db:"created_at"`
}

// Insert appends one entry.
func (r *AuditRepo) Insert(ctx context.Context, q database.Querier, e *model.AuditEntry) error {
	var details any
	if len(e.Details) > 0 {
		details = string(e.Details)
	}
	_, err := q.ExecContext(ctx,
		`INSERT INTO audit_logs (id, action_type, entity_type, entity_id, staff_id, details, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.ActionType, e.EntityType, e.EntityID, e.StaffID, details, e.CreatedAt)
	return translate(err, "insert audit entry")
}

// ListByEntity returns the entries of one entity, oldest first.
func (r *AuditRepo) ListByEntity(ctx context.Context, q database.Querier, entityType, entityID string) ([]model.AuditEntry, error) {
	var rows []auditRecord
	err := sqlx.SelectContext(ctx, q, &rows,
		`SELECT id, action_type, entity_type, entity_id, staff_id, details, created_at
		   FROM audit_logs WHERE entity_type = ? AND entity_id = ?
		  ORDER BY created_at, id`, entityType, entityID)
	if err != nil {
		return nil, translate(err, "list audit entries")
	}
	out := make([]model.AuditEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, model.AuditEntry{
			ID:         row.ID,
			ActionType: row.ActionType,
			EntityType: row.EntityType,
			EntityID:   row.EntityID,
			StaffID:    row.StaffID,
			Details:    json.RawMessage(row.Details),
			CreatedAt:  row.CreatedAt,
		})
	}
	return out, nil
}
