package usecase

import (
	"math"

	"github.com/vitos/portfolio_rotation/internal/domain"
	"github.com/vitos/portfolio_rotation/internal/signals"
)

// Score weights: catalyst strength, momentum acceleration, upside
// potential, timing factor.
const (
	weightCatalyst = 0.40
	weightMomentum = 0.30
	weightUpside   = 0.20
	weightTiming   = 0.10
)

// Scorer calculates expected-return scores for opportunities.
type Scorer struct {
	rsiPeriod  int
	macdFast   int
	macdSlow   int
	macdSignal int
}

func NewScorer() *Scorer {
	return &Scorer{
		rsiPeriod:  14,
		macdFast:   12,
		macdSlow:   26,
		macdSignal: 9,
	}
}

// Score combines catalyst strength, momentum acceleration, upside
// potential, and a timing factor into a single [0,1] score. Catalyst
// strength and upside potential are clamped into [0,1] before
// combination rather than rejected.
func (s *Scorer) Score(ticker string, candles []domain.Candle, catalystStrength, upsidePotential float64) float64 {
	catalystStrength = clamp(catalystStrength, 0, 1)
	upsidePotential = clamp(upsidePotential, 0, 1)

	momentum := s.momentumAcceleration(candles)
	timing := s.timingFactor(candles)

	score := catalystStrength*weightCatalyst +
		momentum*weightMomentum +
		upsidePotential*weightUpside +
		timing*weightTiming

	return clamp(score, 0, 1)
}

// momentumAcceleration measures how fast momentum is building, in
// [-1,1]: the average of the 5-bar RSI change scaled by 50 and the
// 5-bar histogram change normalized by the largest histogram magnitude
// over the trailing 10 bars. Requires at least 6 bars.
func (s *Scorer) momentumAcceleration(candles []domain.Candle) float64 {
	if len(candles) < 6 {
		return 0
	}
	closes := domain.Closes(candles)

	rsiMomentum := 0.0
	rsi := signals.RSI(closes, s.rsiPeriod)
	rsiCurr, rsiPast := signals.At(rsi, 0), signals.At(rsi, 5)
	if rsiCurr.Valid && rsiPast.Valid {
		rsiMomentum = (rsiCurr.Float64 - rsiPast.Float64) / 50
	}

	macdMomentum := 0.0
	_, _, histogram := signals.MACD(closes, s.macdFast, s.macdSlow, s.macdSignal)
	histCurr, histPast := signals.At(histogram, 0), signals.At(histogram, 5)
	if histCurr.Valid && histPast.Valid {
		maxAbs := 0.0
		for back := 0; back < 10; back++ {
			if v := signals.At(histogram, back); v.Valid {
				maxAbs = math.Max(maxAbs, math.Abs(v.Float64))
			}
		}
		macdMomentum = (histCurr.Float64 - histPast.Float64) / math.Max(maxAbs, 0.0001)
	}

	return clamp((rsiMomentum+macdMomentum)/2, -1, 1)
}

// timingFactor rewards entries at the start of a move and penalizes
// chasing an extended one: +0.5 entering momentum (RSI 40-60, positive
// histogram), +0.25 mid-momentum (RSI 60-70), 0 late (RSI 70-75), -0.5
// extended (RSI > 75 or weakening histogram).
func (s *Scorer) timingFactor(candles []domain.Candle) float64 {
	if len(candles) < 2 {
		return 0
	}
	closes := domain.Closes(candles)

	rsi := signals.Last(signals.RSI(closes, s.rsiPeriod))
	if !rsi.Valid {
		return 0
	}

	_, _, histogram := signals.MACD(closes, s.macdFast, s.macdSlow, s.macdSignal)
	histCurr, histPrev := signals.At(histogram, 0), signals.At(histogram, 1)
	macdPositive := histCurr.Valid && histCurr.Float64 > 0

	switch {
	case rsi.Float64 >= 40 && rsi.Float64 <= 60 && macdPositive:
		return 0.5
	case rsi.Float64 >= 60 && rsi.Float64 <= 70 && macdPositive:
		return 0.25
	case rsi.Float64 >= 70 && rsi.Float64 <= 75:
		return 0
	case rsi.Float64 > 75,
		histCurr.Valid && histPrev.Valid && histCurr.Float64 < histPrev.Float64:
		return -0.5
	}
	return 0
}

// ScoreInput is one ticker's scoring request for BatchScore.
type ScoreInput struct {
	Candles          []domain.Candle
	CatalystStrength float64
	UpsidePotential  float64
}

// BatchScore scores every ticker independently. A ticker that cannot be
// scored (no price data) yields 0.0 without aborting the batch.
func (s *Scorer) BatchScore(inputs map[string]ScoreInput) map[string]float64 {
	results := make(map[string]float64, len(inputs))
	for ticker, in := range inputs {
		if in.Candles == nil {
			results[ticker] = 0.0
			continue
		}
		results[ticker] = s.Score(ticker, in.Candles, in.CatalystStrength, in.UpsidePotential)
	}
	return results
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
