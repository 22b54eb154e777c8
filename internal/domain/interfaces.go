package domain

import "context"

// MarketData defines the interface for fetching price series and quotes.
type MarketData interface {
	GetHistory(ctx context.Context, ticker string, days int) ([]Candle, error)
	GetCurrentPrice(ctx context.Context, ticker string) (float64, error)
	GetBatchHistory(ctx context.Context, tickers []string, days int) (map[string][]Candle, error)
	GetBatchCurrentPrices(ctx context.Context, tickers []string) (map[string]float64, error)
}

// TradeJournal defines storage operations for executed trades.
type TradeJournal interface {
	SaveTrade(ctx context.Context, trade *Trade) error
	ListTrades(ctx context.Context, limit int) ([]*Trade, error)
}

// SnapshotRepository defines storage operations for per-cycle portfolio snapshots.
type SnapshotRepository interface {
	SaveSnapshot(ctx context.Context, snap *Snapshot) error
	ListSnapshots(ctx context.Context, limit int) ([]*Snapshot, error)
}
