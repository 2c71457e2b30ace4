package tables

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-pos/internal/model"
	"github.com/iliyamo/restaurant-pos/internal/repository/memory"
)

func setup(t *testing.T) (*Manager, *memory.Store, *test.Hook) {
	t.Helper()
	store := memory.New()
	store.PutTable(model.Table{ID: "t1", Status: model.TableAvailable})
	log, hook := test.NewNullLogger()
	return NewManager(store.Tables(), log), store, hook
}

func TestAcquireAndRelease(t *testing.T) {
	ctx := context.Background()
	m, store, _ := setup(t)

	require.NoError(t, m.Acquire(ctx, store.DB(), "t1", "o1"))
	tbl, _ := store.Table("t1")
	assert.Equal(t, model.TableOccupied, tbl.Status)
	require.NotNil(t, tbl.ActiveOrderID)
	assert.Equal(t, "o1", *tbl.ActiveOrderID)

	// second acquire by the same order changes nothing
	require.NoError(t, m.Acquire(ctx, store.DB(), "t1", "o1"))

	require.NoError(t, m.Release(ctx, store.DB(), "t1", "o1"))
	tbl, _ = store.Table("t1")
	assert.Equal(t, model.TableAvailable, tbl.Status)
	assert.Nil(t, tbl.ActiveOrderID)

	require.NoError(t, m.Release(ctx, store.DB(), "t1", "o1"))
}

func TestAcquireUnknownTable(t *testing.T) {
	m, store, _ := setup(t)
	err := m.Acquire(context.Background(), store.DB(), "missing", "o1")
	assert.ErrorIs(t, err, ErrTableNotFound)
}

func TestReleaseUnknownTableIsNoop(t *testing.T) {
	m, store, _ := setup(t)
	assert.NoError(t, m.Release(context.Background(), store.DB(), "missing", "o1"))
}

func TestAcquireHeldTableLogsWarning(t *testing.T) {
	ctx := context.Background()
	m, store, hook := setup(t)

	require.NoError(t, m.Acquire(ctx, store.DB(), "t1", "o1"))
	require.NoError(t, m.Acquire(ctx, store.DB(), "t1", "o2"))

	tbl, _ := store.Table("t1")
	assert.Equal(t, "o2", *tbl.ActiveOrderID)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, "o1", hook.LastEntry().Data["previous_order"])
}

func TestReleaseKeepsTableHeldByAnotherOrder(t *testing.T) {
	ctx := context.Background()
	m, store, _ := setup(t)

	require.NoError(t, m.Acquire(ctx, store.DB(), "t1", "o1"))
	require.NoError(t, m.Acquire(ctx, store.DB(), "t1", "o2"))
	require.NoError(t, m.Release(ctx, store.DB(), "t1", "o1"))

	tbl, _ := store.Table("t1")
	assert.Equal(t, model.TableOccupied, tbl.Status)
	require.NotNil(t, tbl.ActiveOrderID)
	assert.Equal(t, "o2", *tbl.ActiveOrderID)
}
