package usecase

import (
	"strings"

	"github.com/vitos/portfolio_rotation/internal/domain"
	"github.com/vitos/portfolio_rotation/internal/signals"
)

// Catalyst is one triggered bullish event with its fixed weight.
type Catalyst struct {
	Name   string
	Weight float64
}

// ExogenousSignals carries the optional inputs the scanner cannot derive
// from the price series. Nil means "not available this cycle".
type ExogenousSignals struct {
	AnalystTarget    *float64
	EarningsSurprise *float64
	NewsSentiment    *float64
	SectorMomentum   *float64
}

// catalystWeights is the fixed weight table, summing to 1.0. Output
// order of DetectCatalysts follows this table.
var catalystWeights = []Catalyst{
	{"analyst_upgrade", 0.25},
	{"earnings_surprise", 0.20},
	{"rsi_crossover_above_50", 0.15},
	{"macd_bullish_crossover", 0.15},
	{"volume_surge", 0.10},
	{"news_sentiment_spike", 0.10},
	{"sector_rotation_inflow", 0.05},
}

var catalystSummaries = map[string]string{
	"analyst_upgrade":        "Analyst upgrade with >=15% upside",
	"earnings_surprise":      "Earnings surprise > +10%",
	"rsi_crossover_above_50": "RSI crossed above 50",
	"macd_bullish_crossover": "MACD bullish crossover",
	"volume_surge":           "Volume surge > 2x average",
	"news_sentiment_spike":   "News sentiment spike (>0.7)",
	"sector_rotation_inflow": "Sector rotation inflow detected",
}

// Scanner detects bullish catalysts and exit signals.
type Scanner struct {
	rsiPeriod            int
	volumeWindow         int
	volumeSurgeThreshold float64
	rsiThreshold         float64
	rsiOverbought        float64
	macdFast             int
	macdSlow             int
	macdSignal           int
}

func NewScanner() *Scanner {
	return &Scanner{
		rsiPeriod:            14,
		volumeWindow:         20,
		volumeSurgeThreshold: 2.0,
		rsiThreshold:         50,
		rsiOverbought:        75,
		macdFast:             12,
		macdSlow:             26,
		macdSignal:           9,
	}
}

// DetectCatalysts evaluates every trigger rule independently and returns
// the triggered catalysts in weight-table order. Indicators that are not
// computable for the available history simply do not trigger.
func (s *Scanner) DetectCatalysts(ticker string, candles []domain.Candle, sig ExogenousSignals) []Catalyst {
	var triggered []Catalyst
	closes := domain.Closes(candles)

	add := func(name string) {
		for _, c := range catalystWeights {
			if c.Name == name {
				triggered = append(triggered, c)
				return
			}
		}
	}

	if sig.AnalystTarget != nil && len(closes) > 0 {
		current := closes[len(closes)-1]
		if current > 0 && (*sig.AnalystTarget-current)/current >= 0.15 {
			add("analyst_upgrade")
		}
	}

	if sig.EarningsSurprise != nil && *sig.EarningsSurprise > 0.10 {
		add("earnings_surprise")
	}

	rsi := signals.RSI(closes, s.rsiPeriod)
	curr, prev := signals.At(rsi, 0), signals.At(rsi, 1)
	if curr.Valid && prev.Valid && prev.Float64 <= s.rsiThreshold && curr.Float64 > s.rsiThreshold {
		add("rsi_crossover_above_50")
	}

	_, _, histogram := signals.MACD(closes, s.macdFast, s.macdSlow, s.macdSignal)
	currHist, prevHist := signals.At(histogram, 0), signals.At(histogram, 1)
	if currHist.Valid && prevHist.Valid && prevHist.Float64 <= 0 && currHist.Float64 > 0 {
		add("macd_bullish_crossover")
	}

	volRatio := signals.Last(signals.VolumeRatio(domain.Volumes(candles), s.volumeWindow))
	if volRatio.Valid && volRatio.Float64 > s.volumeSurgeThreshold {
		add("volume_surge")
	}

	if sig.NewsSentiment != nil && *sig.NewsSentiment > 0.7 {
		add("news_sentiment_spike")
	}

	if sig.SectorMomentum != nil && *sig.SectorMomentum > 0 {
		add("sector_rotation_inflow")
	}

	return triggered
}

// CatalystStrength sums the triggered weights, capped at 1.0.
func (s *Scanner) CatalystStrength(triggered []Catalyst) float64 {
	total := 0.0
	for _, c := range triggered {
		total += c.Weight
	}
	if total > 1.0 {
		return 1.0
	}
	return total
}

// ShouldExit checks the holding-period exit ladder; the first matching
// rule wins. It is a risk-control hook and is reported as an alert by
// the cycle, never acted on automatically.
func (s *Scanner) ShouldExit(ticker string, candles []domain.Candle, positionScore float64, consecutiveNegativeDays int, analystTarget *float64, priceTargetAchieved bool) (bool, string) {
	closes := domain.Closes(candles)

	rsi := signals.Last(signals.RSI(closes, s.rsiPeriod))
	if rsi.Valid && rsi.Float64 > s.rsiOverbought {
		return true, "RSI > 75 (overbought)"
	}

	_, _, histogram := signals.MACD(closes, s.macdFast, s.macdSlow, s.macdSignal)
	currHist, prevHist := signals.At(histogram, 0), signals.At(histogram, 1)
	if currHist.Valid && prevHist.Valid && prevHist.Float64 > 0 && currHist.Float64 <= 0 {
		return true, "MACD bearish crossover"
	}

	if priceTargetAchieved && analystTarget != nil && len(closes) > 0 {
		if closes[len(closes)-1] >= *analystTarget {
			return true, "Analyst price target achieved"
		}
	}

	if consecutiveNegativeDays >= 3 {
		return true, "3 consecutive days of negative momentum"
	}

	return false, ""
}

// CatalystSummary returns a human-readable summary of triggered catalysts.
func (s *Scanner) CatalystSummary(triggered []Catalyst) string {
	if len(triggered) == 0 {
		return "No catalysts detected"
	}
	parts := make([]string, 0, len(triggered))
	for _, c := range triggered {
		if desc, ok := catalystSummaries[c.Name]; ok {
			parts = append(parts, desc)
		} else {
			parts = append(parts, c.Name)
		}
	}
	return strings.Join(parts, " | ")
}

// CatalystDescriptions returns the summaries for triggered catalysts as
// a list, for inclusion in a trade plan.
func (s *Scanner) CatalystDescriptions(triggered []Catalyst) []string {
	out := make([]string, 0, len(triggered))
	for _, c := range triggered {
		if desc, ok := catalystSummaries[c.Name]; ok {
			out = append(out, desc)
		} else {
			out = append(out, c.Name)
		}
	}
	return out
}
