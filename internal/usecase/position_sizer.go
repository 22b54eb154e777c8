package usecase

import (
	"fmt"
	"math"
)

// PositionSizer maps conviction scores to capital-allocation fractions.
type PositionSizer struct {
	baseAllocation    float64
	confidenceScaling float64
	maxPositionPct    float64
	minPositionPct    float64
}

func NewPositionSizer() *PositionSizer {
	return &PositionSizer{
		baseAllocation:    0.50,
		confidenceScaling: 0.40,
		maxPositionPct:    0.90,
		minPositionPct:    0.10,
	}
}

// CalculateSize returns the portfolio fraction to allocate for a score,
// scaled from the base allocation by conviction and clamped to
// [0.10, 0.90]. A score outside [0,1] is an error, not clamped.
func (s *PositionSizer) CalculateSize(score float64) (float64, error) {
	if score < 0 || score > 1 {
		return 0, fmt.Errorf("score must be between 0 and 1, got %v", score)
	}
	size := s.baseAllocation + score*s.confidenceScaling
	size = math.Min(size, s.maxPositionPct)
	size = math.Max(size, s.minPositionPct)
	return size, nil
}

// KellyFormula returns the classical edge/odds sizing: edge is the
// expected value per trade, odds the win/loss ratio, and the fraction
// edge/odds clamped to [0, 0.90] to avoid overleverage.
func (s *PositionSizer) KellyFormula(winRate, avgWin, avgLoss float64) (edge, odds, fraction float64, err error) {
	if winRate < 0 || winRate > 1 {
		return 0, 0, 0, fmt.Errorf("win rate must be 0-1, got %v", winRate)
	}
	if avgWin <= 0 || avgLoss <= 0 {
		return 0, 0, 0, fmt.Errorf("average win and loss must be positive")
	}

	lossRate := 1 - winRate
	edge = winRate*avgWin - lossRate*avgLoss
	odds = avgWin / avgLoss

	if odds != 0 {
		fraction = edge / odds
	}
	fraction = math.Max(0, math.Min(fraction, s.maxPositionPct))
	return edge, odds, fraction, nil
}

// CalculateShares converts a portfolio fraction and share price into a
// whole-share quantity, rounded down, never negative.
func (s *PositionSizer) CalculateShares(portfolioValue, fraction, sharePrice float64) int {
	if sharePrice <= 0 {
		return 0
	}
	shares := int(portfolioValue * fraction / sharePrice)
	if shares < 0 {
		return 0
	}
	return shares
}
