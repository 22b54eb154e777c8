package usecase

import (
	"errors"
	"fmt"
	"sort"

	"github.com/vitos/portfolio_rotation/internal/domain"
)

var (
	ErrPriceDataMissing = errors.New("price data missing")
	ErrInvalidPrices    = errors.New("invalid prices")
	ErrRotationFailed   = errors.New("rotation failed: insufficient proceeds or cash")
)

// RotationCandidate is one potential swap of a held ticker for a
// watchlist candidate, with the score differential to be gained.
type RotationCandidate struct {
	SellTicker string
	BuyTicker  string
	Gain       float64
}

// Rotation is the selected best opportunity.
type Rotation struct {
	SellTicker string
	BuyTicker  string
	Gain       float64
	Reason     string
}

// RotationEngine compares holdings against watchlist candidates and
// executes the selected rotation against the portfolio.
type RotationEngine struct {
	threshold     float64
	maxPerRun     int
	lastRotations map[string]string // sell ticker -> buy ticker, diagnostic only
}

func NewRotationEngine() *RotationEngine {
	return NewRotationEngineWithThreshold(0.02)
}

func NewRotationEngineWithThreshold(threshold float64) *RotationEngine {
	return &RotationEngine{
		threshold:     threshold,
		maxPerRun:     1,
		lastRotations: make(map[string]string),
	}
}

// Threshold returns the minimum score differential for a rotation.
func (e *RotationEngine) Threshold() float64 {
	return e.threshold
}

// EvaluateRotations pairs every holding with every watchlist candidate
// not already held and keeps the pairs whose score gain exceeds the
// threshold, sorted by gain descending. A holding with no score yet
// counts as 0. Ordering among exact ties is unspecified.
func (e *RotationEngine) EvaluateRotations(p *domain.Portfolio, watchlistScores map[string]float64) []RotationCandidate {
	var candidates []RotationCandidate

	candidateTickers := make([]string, 0, len(watchlistScores))
	for ticker := range watchlistScores {
		candidateTickers = append(candidateTickers, ticker)
	}
	sort.Strings(candidateTickers)

	for _, heldTicker := range p.Tickers() {
		heldScore := 0.0
		if pos := p.Position(heldTicker); pos != nil && pos.CurrentScore != nil {
			heldScore = *pos.CurrentScore
		}

		for _, candidate := range candidateTickers {
			if p.Position(candidate) != nil {
				continue
			}
			gain := watchlistScores[candidate] - heldScore
			if gain > e.threshold {
				candidates = append(candidates, RotationCandidate{
					SellTicker: heldTicker,
					BuyTicker:  candidate,
					Gain:       gain,
				})
			}
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Gain > candidates[j].Gain
	})
	return candidates
}

// GetBestRotation returns the single highest-gain rotation opportunity,
// or nil when no pair clears the threshold.
func (e *RotationEngine) GetBestRotation(p *domain.Portfolio, watchlistScores map[string]float64, prices map[string]float64) *Rotation {
	candidates := e.EvaluateRotations(p, watchlistScores)
	if len(candidates) == 0 {
		return nil
	}

	best := candidates[0]
	reason := fmt.Sprintf("Score improved from %.3f to %.3f (+%.3f)",
		watchlistScores[best.SellTicker], watchlistScores[best.BuyTicker], best.Gain)
	return &Rotation{
		SellTicker: best.SellTicker,
		BuyTicker:  best.BuyTicker,
		Gain:       best.Gain,
		Reason:     reason,
	}
}

// ShouldExecuteRotation is the sole pre-trade gate: the portfolio must
// hold at least minimumCash.
func (e *RotationEngine) ShouldExecuteRotation(p *domain.Portfolio, minimumCash float64) bool {
	return p.Cash >= minimumCash
}

// ExecuteRotation validates the price snapshot and delegates to the
// portfolio's atomic rotate operation. A nil return means the rotation
// executed; any error means the ledger is unchanged.
func (e *RotationEngine) ExecuteRotation(p *domain.Portfolio, sellTicker, buyTicker string, prices map[string]float64, newScore float64, reason string) error {
	sellPrice, okSell := prices[sellTicker]
	buyPrice, okBuy := prices[buyTicker]
	if !okSell || !okBuy {
		return ErrPriceDataMissing
	}
	if sellPrice <= 0 || buyPrice <= 0 {
		return ErrInvalidPrices
	}

	if !p.RotatePosition(sellTicker, buyTicker, sellPrice, buyPrice, newScore, reason) {
		return ErrRotationFailed
	}

	e.lastRotations[sellTicker] = buyTicker
	return nil
}

// LastRotations returns the sell->buy pairs executed so far. Diagnostic
// only; it never blocks a re-rotation.
func (e *RotationEngine) LastRotations() map[string]string {
	out := make(map[string]string, len(e.lastRotations))
	for k, v := range e.lastRotations {
		out[k] = v
	}
	return out
}
