package domain

import "time"

// Position represents a single open holding in the portfolio.
// CurrentPrice and CurrentScore are nil until the first market update,
// so valuation falls back to the entry price rather than zero.
type Position struct {
	Ticker       string
	Shares       int
	EntryPrice   float64
	EntryScore   float64
	EntryDate    time.Time
	CurrentPrice *float64
	CurrentScore *float64
}

const stopLossPct = -15.0

// EntryValue returns the position value at entry.
func (p *Position) EntryValue() float64 {
	return float64(p.Shares) * p.EntryPrice
}

// CurrentValue returns the position value at the last observed price,
// or the entry value if no price update has arrived yet.
func (p *Position) CurrentValue() float64 {
	if p.CurrentPrice == nil {
		return p.EntryValue()
	}
	return float64(p.Shares) * *p.CurrentPrice
}

// UnrealizedPnL returns the open profit or loss in dollars.
func (p *Position) UnrealizedPnL() float64 {
	return p.CurrentValue() - p.EntryValue()
}

// UnrealizedPnLPct returns the open profit or loss as a percentage of entry value.
func (p *Position) UnrealizedPnLPct() float64 {
	entry := p.EntryValue()
	if entry == 0 {
		return 0
	}
	return p.UnrealizedPnL() / entry * 100
}

// StopLossHit reports whether the position is down 15% or more.
func (p *Position) StopLossHit() bool {
	return p.UnrealizedPnLPct() <= stopLossPct
}

// UpdatePrice sets the current price.
func (p *Position) UpdatePrice(price float64) {
	p.CurrentPrice = &price
}

// UpdateScore sets the current expected-return score.
func (p *Position) UpdateScore(score float64) {
	p.CurrentScore = &score
}

// PositionSnapshot is the display form of a position, rounded for output.
type PositionSnapshot struct {
	Ticker           string   `json:"ticker"`
	Shares           int      `json:"shares"`
	EntryPrice       float64  `json:"entry_price"`
	EntryValue       float64  `json:"entry_value"`
	EntryScore       float64  `json:"entry_score"`
	EntryDate        string   `json:"entry_date"`
	CurrentPrice     float64  `json:"current_price"`
	CurrentValue     float64  `json:"current_value"`
	CurrentScore     *float64 `json:"current_score"`
	UnrealizedPnL    float64  `json:"unrealized_pnl"`
	UnrealizedPnLPct float64  `json:"unrealized_pnl_pct"`
}

// Snapshot converts the position to its display form.
func (p *Position) Snapshot() PositionSnapshot {
	snap := PositionSnapshot{
		Ticker:           p.Ticker,
		Shares:           p.Shares,
		EntryPrice:       Round2(p.EntryPrice),
		EntryValue:       Round2(p.EntryValue()),
		EntryScore:       Round4(p.EntryScore),
		EntryDate:        p.EntryDate.Format(time.RFC3339),
		CurrentValue:     Round2(p.CurrentValue()),
		UnrealizedPnL:    Round2(p.UnrealizedPnL()),
		UnrealizedPnLPct: Round2(p.UnrealizedPnLPct()),
	}
	if p.CurrentPrice != nil {
		snap.CurrentPrice = Round2(*p.CurrentPrice)
	}
	if p.CurrentScore != nil {
		score := Round4(*p.CurrentScore)
		snap.CurrentScore = &score
	}
	return snap
}
