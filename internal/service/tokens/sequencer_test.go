package tokens

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-pos/internal/model"
	"github.com/iliyamo/restaurant-pos/internal/repository/memory"
)

var day = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

func TestFormat(t *testing.T) {
	assert.Equal(t, "T-001", Format(1))
	assert.Equal(t, "T-042", Format(42))
	assert.Equal(t, "T-999", Format(999))
	assert.Equal(t, "T-1000", Format(1000))
}

func TestParseNumber(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"T-001", 1, true},
		{"T-1000", 1000, true},
		{"007", 7, true},
		{"T-", 0, false},
		{"T-abc", 0, false},
		{"T-000", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		n, ok := ParseNumber(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.Equal(t, tc.want, n, tc.in)
	}
}

func TestNextFirstOfDay(t *testing.T) {
	store := memory.New()
	tok, err := NewSequencer(store.Takeaway()).Next(context.Background(), store.DB(), day)
	require.NoError(t, err)
	assert.Equal(t, Token{Value: "T-001", Number: 1, Date: "2026-10-16"}, tok)
}

func TestNextSkipsMalformedAndOtherDays(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	repo := store.Takeaway()
	for _, e := range []model.TakeawayExtension{
		{OrderID: "a", Token: "T-004", TokenNumber: 4, TokenDate: "2026-10-16"},
		{OrderID: "b", Token: "manual", TokenNumber: 90, TokenDate: "2026-10-16"},
		{OrderID: "c", Token: "T-002", TokenNumber: 2, TokenDate: "2026-10-16"},
		{OrderID: "d", Token: "T-050", TokenNumber: 50, TokenDate: "2026-10-15"},
	} {
		e := e
		require.NoError(t, repo.Insert(ctx, store.DB(), &e))
	}

	tok, err := NewSequencer(repo).Next(ctx, store.DB(), day)
	require.NoError(t, err)
	assert.Equal(t, "T-005", tok.Value)
	assert.Equal(t, 5, tok.Number)
}

func TestNextBeyondThreeDigits(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	repo := store.Takeaway()
	require.NoError(t, repo.Insert(ctx, store.DB(), &model.TakeawayExtension{
		OrderID: "a", Token: "T-999", TokenNumber: 999, TokenDate: "2026-10-16",
	}))

	tok, err := NewSequencer(repo).Next(ctx, store.DB(), day)
	require.NoError(t, err)
	assert.Equal(t, "T-1000", tok.Value)
}

func TestPickupEstimate(t *testing.T) {
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, now.Add(10*time.Minute), PickupEstimate(now, 0))
	assert.Equal(t, now.Add(16*time.Minute), PickupEstimate(now, 3))
	assert.Equal(t, now.Add(30*time.Minute), PickupEstimate(now, 10))
	assert.Equal(t, now.Add(30*time.Minute), PickupEstimate(now, 50))
}
