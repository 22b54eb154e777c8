package storage_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitos/portfolio_rotation/internal/domain"
	"github.com/vitos/portfolio_rotation/internal/infrastructure/storage"
)

func newStore(t *testing.T) *storage.SQLiteStore {
	t.Helper()
	store, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveAndListTrades(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	first := &domain.Trade{
		Ticker:    "AMD",
		Type:      domain.TradeSell,
		Shares:    50,
		Price:     105,
		Timestamp: time.Now().Add(-time.Minute),
		Score:     0.4,
		Reason:    "score improved",
	}
	second := &domain.Trade{
		Ticker:    "NVDA",
		Type:      domain.TradeBuy,
		Shares:    26,
		Price:     200,
		Timestamp: time.Now(),
		Score:     0.7,
		Reason:    "score improved",
	}
	require.NoError(t, store.SaveTrade(ctx, first))
	require.NoError(t, store.SaveTrade(ctx, second))

	trades, err := store.ListTrades(ctx, 10)
	require.NoError(t, err)
	require.Len(t, trades, 2)

	// Newest first.
	assert.Equal(t, "NVDA", trades[0].Ticker)
	assert.Equal(t, domain.TradeBuy, trades[0].Type)
	assert.Equal(t, 26, trades[0].Shares)
	assert.Equal(t, "AMD", trades[1].Ticker)
	assert.Equal(t, 0.4, trades[1].Score)
}

func TestListTradesLimit(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.SaveTrade(ctx, &domain.Trade{
			Ticker: "NVDA", Type: domain.TradeBuy, Shares: 1, Price: 100, Timestamp: time.Now(),
		}))
	}

	trades, err := store.ListTrades(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, trades, 3)
}

func TestSaveAndListSnapshots(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	p := domain.NewPortfolio(10000)
	require.True(t, p.AddPosition("NVDA", 10, 100, 0.8, "entry"))
	require.NoError(t, store.SaveSnapshot(ctx, p.Snapshot()))

	snapshots, err := store.ListSnapshots(ctx, 10)
	require.NoError(t, err)
	require.Len(t, snapshots, 1)

	snap := snapshots[0]
	assert.Equal(t, 10000.0, snap.InitialCapital)
	assert.Equal(t, 9000.0, snap.Cash)
	assert.Equal(t, 1, snap.NumPositions)
	require.Len(t, snap.Positions, 1)
	assert.Equal(t, "NVDA", snap.Positions[0].Ticker)
}
