// Package audit records exceptional staff actions. Entries are written in
// the caller's transaction so they commit or roll back with the change they
// describe.
package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/iliyamo/restaurant-pos/internal/database"
	"github.com/iliyamo/restaurant-pos/internal/model"
)

// Entry is the input of Record.
type Entry struct {
	Action     string
	EntityType string
	EntityID   string
	StaffID    *string
	Details    map[string]any
}

// Recorder appends audit entries.
type Recorder struct {
	repo model.AuditRepository
	now  func() time.Time
}

// NewRecorder returns a Recorder using the wall clock.
func NewRecorder(repo model.AuditRepository) *Recorder {
	return &Recorder{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// WithClock overrides the time source.
func (r *Recorder) WithClock(now func() time.Time) *Recorder {
	r.now = now
	return r
}

// Record inserts e. Any failure must abort the surrounding transaction.
func (r *Recorder) Record(ctx context.Context, q database.Querier, e Entry) (*model.AuditEntry, error) {
	if e.Action == "" || e.EntityType == "" || e.EntityID == "" {
		return nil, errors.New("audit entry needs action, entity type and entity id")
	}
	var details json.RawMessage
	if e.Details != nil {
		raw, err := json.Marshal(e.Details)
		if err != nil {
			return nil, errors.Wrap(err, "encode audit details")
		}
		details = raw
	}
	entry := &model.AuditEntry{
		ID:         uuid.NewString(),
		ActionType: e.Action,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		StaffID:    e.StaffID,
		Details:    details,
		CreatedAt:  r.now(),
	}
	if err := r.repo.Insert(ctx, q, entry); err != nil {
		return nil, errors.Wrap(err, "record audit entry")
	}
	return entry, nil
}

// List returns the entries recorded for one entity, oldest first.
func (r *Recorder) List(ctx context.Context, q database.Querier, entityType, entityID string) ([]model.AuditEntry, error) {
	return r.repo.ListByEntity(ctx, q, entityType, entityID)
}
