package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/vitos/portfolio_rotation/internal/domain"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS trades (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			ticker TEXT NOT NULL,
			type TEXT NOT NULL,
			shares INTEGER NOT NULL,
			price REAL NOT NULL,
			score REAL NOT NULL,
			commission REAL NOT NULL DEFAULT 0,
			reason TEXT,
			created_at DATETIME NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_trades_ticker ON trades(ticker);`,
		`CREATE TABLE IF NOT EXISTS portfolio_snapshots (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			current_value REAL NOT NULL,
			cash REAL NOT NULL,
			holdings_value REAL NOT NULL,
			total_return_pct REAL NOT NULL,
			num_positions INTEGER NOT NULL,
			state TEXT NOT NULL,
			created_at DATETIME NOT NULL
		);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return fmt.Errorf("failed to exec query %s: %w", q, err)
		}
	}

	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// TradeJournal Implementation

func (s *SQLiteStore) SaveTrade(ctx context.Context, trade *domain.Trade) error {
	query := `INSERT INTO trades (ticker, type, shares, price, score, commission, reason, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		trade.Ticker, string(trade.Type), trade.Shares, trade.Price,
		trade.Score, trade.Commission, trade.Reason, trade.Timestamp)
	return err
}

func (s *SQLiteStore) ListTrades(ctx context.Context, limit int) ([]*domain.Trade, error) {
	query := `SELECT ticker, type, shares, price, score, commission, reason, created_at FROM trades ORDER BY id DESC LIMIT ?`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trades []*domain.Trade
	for rows.Next() {
		var t domain.Trade
		var typ string
		if err := rows.Scan(&t.Ticker, &typ, &t.Shares, &t.Price, &t.Score, &t.Commission, &t.Reason, &t.Timestamp); err != nil {
			return nil, err
		}
		t.Type = domain.TradeType(typ)
		trades = append(trades, &t)
	}
	return trades, rows.Err()
}

// SnapshotRepository Implementation

func (s *SQLiteStore) SaveSnapshot(ctx context.Context, snap *domain.Snapshot) error {
	state, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	query := `INSERT INTO portfolio_snapshots (current_value, cash, holdings_value, total_return_pct, num_positions, state, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err = s.db.ExecContext(ctx, query,
		snap.CurrentValue, snap.Cash, snap.HoldingsValue, snap.TotalReturnPct,
		snap.NumPositions, string(state), time.Now())
	return err
}

func (s *SQLiteStore) ListSnapshots(ctx context.Context, limit int) ([]*domain.Snapshot, error) {
	query := `SELECT state FROM portfolio_snapshots ORDER BY id DESC LIMIT ?`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snapshots []*domain.Snapshot
	for rows.Next() {
		var state string
		if err := rows.Scan(&state); err != nil {
			return nil, err
		}
		var snap domain.Snapshot
		if err := json.Unmarshal([]byte(state), &snap); err != nil {
			return nil, err
		}
		snapshots = append(snapshots, &snap)
	}
	return snapshots, rows.Err()
}
