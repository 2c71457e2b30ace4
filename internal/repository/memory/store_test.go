package memory

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-pos/internal/model"
	"github.com/iliyamo/restaurant-pos/internal/repository"
)

func TestRollbackRestoresSnapshot(t *testing.T) {
	ctx := context.Background()
	s := New()
	s.PutTable(model.Table{ID: "t1", Status: model.TableAvailable})

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	orderID := "o1"
	require.NoError(t, s.Orders().Insert(ctx, tx, &model.Order{ID: orderID}))
	require.NoError(t, s.Tables().UpdateState(ctx, tx, "t1", model.TableOccupied, &orderID))
	require.NoError(t, tx.Rollback())

	_, err = s.Orders().Get(ctx, s.DB(), orderID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	tbl, ok := s.Table("t1")
	require.True(t, ok)
	assert.Equal(t, model.TableAvailable, tbl.Status)
	assert.Nil(t, tbl.ActiveOrderID)

	assert.ErrorIs(t, tx.Commit(), sql.ErrTxDone)
}

func TestCommitKeepsWrites(t *testing.T) {
	ctx := context.Background()
	s := New()

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, s.Orders().Insert(ctx, tx, &model.Order{ID: "o1", Items: []model.OrderItem{{ID: "i1"}}}))
	require.NoError(t, tx.Commit())
	assert.ErrorIs(t, tx.Rollback(), sql.ErrTxDone)

	got, err := s.Orders().Get(ctx, s.DB(), "o1")
	require.NoError(t, err)
	assert.Nil(t, got.Items)

	ok, err := s.Orders().Delete(ctx, s.DB(), "o1")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = s.Orders().Delete(ctx, s.DB(), "o1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTakeawayTokenUniquePerDate(t *testing.T) {
	ctx := context.Background()
	s := New()
	repo := s.Takeaway()

	require.NoError(t, repo.Insert(ctx, s.DB(), &model.TakeawayExtension{OrderID: "a", Token: "T-001", TokenNumber: 1, TokenDate: "2026-10-16"}))
	err := repo.Insert(ctx, s.DB(), &model.TakeawayExtension{OrderID: "b", Token: "T-001", TokenNumber: 1, TokenDate: "2026-10-16"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
	require.NoError(t, repo.Insert(ctx, s.DB(), &model.TakeawayExtension{OrderID: "c", Token: "T-001", TokenNumber: 1, TokenDate: "2026-10-17"}))

	tokens, err := repo.ListTokens(ctx, s.DB(), "2026-10-16")
	require.NoError(t, err)
	assert.Equal(t, []string{"T-001"}, tokens)
}

func TestExtensionGetMissingReturnsNil(t *testing.T) {
	s := New()
	ext, err := s.DineIn().Get(context.Background(), s.DB(), "nope")
	assert.NoError(t, err)
	assert.Nil(t, ext)
}

func TestBeginHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New().Begin(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
