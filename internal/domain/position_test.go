package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vitos/portfolio_rotation/internal/domain"
)

func TestPositionValueFallsBackToEntry(t *testing.T) {
	pos := &domain.Position{Ticker: "NVDA", Shares: 10, EntryPrice: 100, EntryDate: time.Now()}

	assert.Equal(t, 1000.0, pos.EntryValue())
	assert.Equal(t, 1000.0, pos.CurrentValue())
	assert.Zero(t, pos.UnrealizedPnL())

	pos.UpdatePrice(120)
	assert.Equal(t, 1200.0, pos.CurrentValue())
	assert.Equal(t, 200.0, pos.UnrealizedPnL())
	assert.InDelta(t, 20.0, pos.UnrealizedPnLPct(), 1e-9)
}

func TestStopLossBoundary(t *testing.T) {
	pos := &domain.Position{Ticker: "NVDA", Shares: 10, EntryPrice: 100, EntryDate: time.Now()}

	pos.UpdatePrice(85.01)
	assert.False(t, pos.StopLossHit())

	// Exactly -15% counts as hit.
	pos.UpdatePrice(85)
	assert.True(t, pos.StopLossHit())
}

func TestPositionSnapshotNullableScore(t *testing.T) {
	pos := &domain.Position{Ticker: "NVDA", Shares: 10, EntryPrice: 100, EntryDate: time.Now()}

	snap := pos.Snapshot()
	assert.Nil(t, snap.CurrentScore)
	assert.Zero(t, snap.CurrentPrice)

	pos.UpdatePrice(110)
	pos.UpdateScore(0.12345)
	snap = pos.Snapshot()
	assert.Equal(t, 110.0, snap.CurrentPrice)
	assert.NotNil(t, snap.CurrentScore)
	assert.Equal(t, 0.1235, *snap.CurrentScore)
}
