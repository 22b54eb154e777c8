package domain

import (
	"sort"
	"time"
)

// Portfolio is the ledger: cash, open positions keyed by ticker, the
// append-only trade history, and the peak value used for drawdown. All
// mutation of financial state goes through its methods. Mutating
// operations decline by returning false and leave the ledger untouched;
// cash never goes negative.
//
// The portfolio holds no lock. Callers that share one instance across
// goroutines must serialize access themselves.
type Portfolio struct {
	InitialCapital float64
	Cash           float64
	Positions      map[string]*Position
	Trades         []*Trade
	PeakValue      float64
	CreatedAt      time.Time
}

func NewPortfolio(initialCapital float64) *Portfolio {
	return &Portfolio{
		InitialCapital: initialCapital,
		Cash:           initialCapital,
		Positions:      make(map[string]*Position),
		PeakValue:      initialCapital,
		CreatedAt:      time.Now(),
	}
}

// Value returns total portfolio value: cash plus holdings.
func (p *Portfolio) Value() float64 {
	return p.Cash + p.HoldingsValue()
}

// HoldingsValue returns the combined current value of all positions.
func (p *Portfolio) HoldingsValue() float64 {
	total := 0.0
	for _, pos := range p.Positions {
		total += pos.CurrentValue()
	}
	return total
}

// TotalReturnPct returns the total return relative to initial capital.
func (p *Portfolio) TotalReturnPct() float64 {
	if p.InitialCapital == 0 {
		return 0
	}
	return (p.Value() - p.InitialCapital) / p.InitialCapital * 100
}

// UnrealizedPnL returns the sum of open position P&L.
func (p *Portfolio) UnrealizedPnL() float64 {
	total := 0.0
	for _, pos := range p.Positions {
		total += pos.UnrealizedPnL()
	}
	return total
}

// RealizedPnL returns realized P&L from closed positions.
func (p *Portfolio) RealizedPnL() float64 {
	return p.Value() - p.InitialCapital - p.UnrealizedPnL()
}

// MaxDrawdownPct returns the percentage decline from the peak value.
func (p *Portfolio) MaxDrawdownPct() float64 {
	if p.PeakValue == 0 {
		return 0
	}
	return (p.Value() - p.PeakValue) / p.PeakValue * 100
}

// NumPositions returns the number of open positions.
func (p *Portfolio) NumPositions() int {
	return len(p.Positions)
}

// CashPct returns cash as a percentage of portfolio value.
func (p *Portfolio) CashPct() float64 {
	if p.Value() == 0 {
		return 0
	}
	return p.Cash / p.Value() * 100
}

// Leverage returns value over initial capital while cash remains, else 0.
func (p *Portfolio) Leverage() float64 {
	if p.Cash <= 0 {
		return 0
	}
	return p.Value() / p.InitialCapital
}

// AddPosition opens a new position or increases an existing one.
// Returns false without mutating anything if cost exceeds cash.
// Repeat buys bump the share count and overwrite the current
// price/score but keep the original entry price and entry score.
func (p *Portfolio) AddPosition(ticker string, shares int, price, score float64, reason string) bool {
	cost := float64(shares) * price
	if cost > p.Cash {
		return false
	}

	if pos, ok := p.Positions[ticker]; ok {
		pos.Shares += shares
		pos.UpdatePrice(price)
		pos.UpdateScore(score)
	} else {
		pos := &Position{
			Ticker:     ticker,
			Shares:     shares,
			EntryPrice: price,
			EntryScore: score,
			EntryDate:  time.Now(),
		}
		pos.UpdatePrice(price)
		pos.UpdateScore(score)
		p.Positions[ticker] = pos
	}

	p.Cash -= cost
	p.Trades = append(p.Trades, &Trade{
		Ticker:    ticker,
		Type:      TradeBuy,
		Shares:    shares,
		Price:     price,
		Timestamp: time.Now(),
		Score:     score,
		Reason:    reason,
	})
	p.updatePeak()
	return true
}

// RemovePosition closes a holding entirely at the given price and
// returns the proceeds. Returns (false, 0) if the ticker is not held.
func (p *Portfolio) RemovePosition(ticker string, price float64, reason string) (bool, float64) {
	pos, ok := p.Positions[ticker]
	if !ok {
		return false, 0
	}

	proceeds := float64(pos.Shares) * price
	score := 0.0
	if pos.CurrentScore != nil {
		score = *pos.CurrentScore
	}

	p.Trades = append(p.Trades, &Trade{
		Ticker:    ticker,
		Type:      TradeSell,
		Shares:    pos.Shares,
		Price:     price,
		Timestamp: time.Now(),
		Score:     score,
		Reason:    reason,
	})
	p.Cash += proceeds
	delete(p.Positions, ticker)
	p.updatePeak()
	return true, proceeds
}

// RotatePosition closes sellTicker and opens buyTicker with the
// proceeds as a single logical transaction. The share count is derived
// before any mutation, so a failed rotation leaves the ledger unchanged.
func (p *Portfolio) RotatePosition(sellTicker, buyTicker string, sellPrice, buyPrice, newScore float64, reason string) bool {
	pos, ok := p.Positions[sellTicker]
	if !ok {
		return false
	}
	if buyPrice <= 0 {
		return false
	}

	proceeds := float64(pos.Shares) * sellPrice
	sharesToBuy := int(proceeds / buyPrice)
	if sharesToBuy == 0 {
		return false
	}

	ok, _ = p.RemovePosition(sellTicker, sellPrice, reason)
	if !ok {
		return false
	}

	// Cannot fail: sharesToBuy*buyPrice <= proceeds, which is now cash.
	return p.AddPosition(buyTicker, sharesToBuy, buyPrice, newScore, reason)
}

// UpdatePrices sets the current price for every held ticker present in
// the map and refreshes the peak value.
func (p *Portfolio) UpdatePrices(prices map[string]float64) {
	for ticker, price := range prices {
		if pos, ok := p.Positions[ticker]; ok {
			pos.UpdatePrice(price)
		}
	}
	p.updatePeak()
}

// CheckStopLosses returns the tickers whose unrealized loss is 15% or
// worse, sorted for deterministic output.
func (p *Portfolio) CheckStopLosses() []string {
	var stopped []string
	for ticker, pos := range p.Positions {
		if pos.StopLossHit() {
			stopped = append(stopped, ticker)
		}
	}
	sort.Strings(stopped)
	return stopped
}

// Position returns the open position for ticker, or nil.
func (p *Portfolio) Position(ticker string) *Position {
	return p.Positions[ticker]
}

// Tickers returns held tickers in sorted order.
func (p *Portfolio) Tickers() []string {
	out := make([]string, 0, len(p.Positions))
	for t := range p.Positions {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func (p *Portfolio) updatePeak() {
	if v := p.Value(); v > p.PeakValue {
		p.PeakValue = v
	}
}

// Snapshot is the full serializable portfolio state with every derived
// metric rounded for display.
type Snapshot struct {
	CreatedAt      string             `json:"created_at"`
	InitialCapital float64            `json:"initial_capital"`
	CurrentValue   float64            `json:"current_value"`
	Cash           float64            `json:"cash"`
	HoldingsValue  float64            `json:"holdings_value"`
	TotalReturnPct float64            `json:"total_return_pct"`
	UnrealizedPnL  float64            `json:"unrealized_pnl"`
	RealizedPnL    float64            `json:"realized_pnl"`
	PeakValue      float64            `json:"peak_value"`
	MaxDrawdownPct float64            `json:"max_drawdown_pct"`
	NumPositions   int                `json:"num_positions"`
	CashPct        float64            `json:"cash_pct"`
	Leverage       float64            `json:"leverage"`
	Positions      []PositionSnapshot `json:"positions"`
	TradeCount     int                `json:"trade_count"`
}

// Snapshot captures the full portfolio state for display or persistence.
func (p *Portfolio) Snapshot() *Snapshot {
	positions := make([]PositionSnapshot, 0, len(p.Positions))
	for _, ticker := range p.Tickers() {
		positions = append(positions, p.Positions[ticker].Snapshot())
	}
	return &Snapshot{
		CreatedAt:      p.CreatedAt.Format(time.RFC3339),
		InitialCapital: Round2(p.InitialCapital),
		CurrentValue:   Round2(p.Value()),
		Cash:           Round2(p.Cash),
		HoldingsValue:  Round2(p.HoldingsValue()),
		TotalReturnPct: Round2(p.TotalReturnPct()),
		UnrealizedPnL:  Round2(p.UnrealizedPnL()),
		RealizedPnL:    Round2(p.RealizedPnL()),
		PeakValue:      Round2(p.PeakValue),
		MaxDrawdownPct: Round2(p.MaxDrawdownPct()),
		NumPositions:   p.NumPositions(),
		CashPct:        Round2(p.CashPct()),
		Leverage:       Round4(p.Leverage()),
		Positions:      positions,
		TradeCount:     len(p.Trades),
	}
}
