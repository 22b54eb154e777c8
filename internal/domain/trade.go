package domain

import (
	"math"
	"time"
)

type TradeType string

const (
	TradeBuy      TradeType = "BUY"
	TradeSell     TradeType = "SELL"
	TradeRotation TradeType = "ROTATION"
)

// Trade is an immutable record of one executed transaction. It is
// appended to the portfolio's history on every buy and sell and never
// mutated afterwards; it is the audit trail.
type Trade struct {
	Ticker     string
	Type       TradeType
	Shares     int
	Price      float64
	Timestamp  time.Time
	Score      float64
	Reason     string
	Commission float64
}

// Value returns shares times price.
func (t *Trade) Value() float64 {
	return float64(t.Shares) * t.Price
}

// TotalCost returns the trade value adjusted by commission: added for
// buys, subtracted for sells.
func (t *Trade) TotalCost() float64 {
	if t.Type == TradeBuy {
		return t.Value() + t.Commission
	}
	return t.Value() - t.Commission
}

// TradeSnapshot is the display form of a trade.
type TradeSnapshot struct {
	Ticker     string  `json:"ticker"`
	Type       string  `json:"type"`
	Shares     int     `json:"shares"`
	Price      float64 `json:"price"`
	Value      float64 `json:"value"`
	Commission float64 `json:"commission"`
	TotalCost  float64 `json:"total_cost"`
	Score      float64 `json:"score"`
	Reason     string  `json:"reason"`
	Timestamp  string  `json:"timestamp"`
}

// Snapshot converts the trade to its display form.
func (t *Trade) Snapshot() TradeSnapshot {
	return TradeSnapshot{
		Ticker:     t.Ticker,
		Type:       string(t.Type),
		Shares:     t.Shares,
		Price:      Round2(t.Price),
		Value:      Round2(t.Value()),
		Commission: Round2(t.Commission),
		TotalCost:  Round2(t.TotalCost()),
		Score:      Round4(t.Score),
		Reason:     t.Reason,
		Timestamp:  t.Timestamp.Format(time.RFC3339),
	}
}

// Round2 rounds to 2 decimal places for dollar display values.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round4 rounds to 4 decimal places for score display values.
func Round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
