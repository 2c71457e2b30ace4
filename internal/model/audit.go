package model

import (
	"encoding/json"
	"time"
)

// Audit action types.
const (
	AuditGuestCountReduction = "GUEST_COUNT_REDUCTION"
	AuditOrderCancel         = "ORDER_CANCEL"
	AuditOrderVoid           = "ORDER_VOID"
	AuditForceSettle         = "FORCE_SETTLE"
)

// AuditEntityOrder is the entity type used for order-scoped entries.
const AuditEntityOrder = "order"

// AuditEntry is an append-only record of an exceptional action.
type AuditEntry struct {
	ID         string          `db:"id" json:"id"`
	ActionType string          `db:"action_type" json:"action_type"`
	EntityType string          `db:"entity_type" json:"entity_type"`
	EntityID   string          `db:"entity_id" json:"entity_id"`
	StaffID    *string         `db:"staff_id" json:"staff_id,omitempty"`
	Details    json.RawMessage `db:"details" json:"details,omitempty"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
}
