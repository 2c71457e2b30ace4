package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-pos/internal/model"
	"github.com/iliyamo/restaurant-pos/internal/repository/memory"
)

func TestRecordAndList(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	at := time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)
	rec := NewRecorder(store.Audit()).WithClock(func() time.Time { return at })
	staff := "manager-1"

	entry, err := rec.Record(ctx, store.DB(), Entry{
		Action:     model.AuditGuestCountReduction,
		EntityType: model.AuditEntityOrder,
		EntityID:   "o1",
		StaffID:    &staff,
		Details:    map[string]any{"old_count": 4, "new_count": 2},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, at, entry.CreatedAt)
	assert.JSONEq(t, `{"old_count":4,"new_count":2}`, string(entry.Details))

	entries, err := rec.List(ctx, store.DB(), model.AuditEntityOrder, "o1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "manager-1", *entries[0].StaffID)

	others, err := rec.List(ctx, store.DB(), model.AuditEntityOrder, "o2")
	require.NoError(t, err)
	assert.Empty(t, others)
}

func TestRecordRequiresIdentity(t *testing.T) {
	store := memory.New()
	_, err := NewRecorder(store.Audit()).Record(context.Background(), store.DB(), Entry{Action: model.AuditOrderVoid})
	assert.Error(t, err)
}
