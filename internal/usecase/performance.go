package usecase

import (
	"math"
	"time"

	"github.com/vitos/portfolio_rotation/internal/domain"
)

// PerfSnapshot is one recorded point of portfolio state over time.
type PerfSnapshot struct {
	Timestamp      time.Time `json:"timestamp"`
	PortfolioValue float64   `json:"portfolio_value"`
	Cash           float64   `json:"cash"`
	HoldingsValue  float64   `json:"holdings_value"`
	NumPositions   int       `json:"num_positions"`
}

// ReturnStats summarizes recorded daily returns.
type ReturnStats struct {
	TotalDays      int     `json:"total_days"`
	AvgDailyReturn float64 `json:"avg_daily_return"`
	StdDailyReturn float64 `json:"std_daily_return"`
	MaxDailyReturn float64 `json:"max_daily_return"`
	MinDailyReturn float64 `json:"min_daily_return"`
	PositiveDays   int     `json:"positive_days"`
	NegativeDays   int     `json:"negative_days"`
	WinRateDaily   float64 `json:"win_rate_daily"`
}

// PerformanceTracker accumulates portfolio snapshots and daily returns
// for the lifetime of the process.
type PerformanceTracker struct {
	snapshots    []PerfSnapshot
	dailyReturns []float64
}

func NewPerformanceTracker() *PerformanceTracker {
	return &PerformanceTracker{}
}

func (t *PerformanceTracker) RecordSnapshot(ts time.Time, portfolioValue, cash, holdingsValue float64, numPositions int) {
	t.snapshots = append(t.snapshots, PerfSnapshot{
		Timestamp:      ts,
		PortfolioValue: portfolioValue,
		Cash:           cash,
		HoldingsValue:  holdingsValue,
		NumPositions:   numPositions,
	})
}

func (t *PerformanceTracker) RecordDailyReturn(returnPct float64) {
	t.dailyReturns = append(t.dailyReturns, returnPct)
}

func (t *PerformanceTracker) Snapshots() []PerfSnapshot {
	return t.snapshots
}

// Statistics computes summary stats over recorded daily returns, or nil
// when none have been recorded.
func (t *PerformanceTracker) Statistics() *ReturnStats {
	n := len(t.dailyReturns)
	if n == 0 {
		return nil
	}

	stats := &ReturnStats{
		TotalDays:      n,
		MaxDailyReturn: t.dailyReturns[0],
		MinDailyReturn: t.dailyReturns[0],
	}

	sum := 0.0
	for _, r := range t.dailyReturns {
		sum += r
		stats.MaxDailyReturn = math.Max(stats.MaxDailyReturn, r)
		stats.MinDailyReturn = math.Min(stats.MinDailyReturn, r)
		if r > 0 {
			stats.PositiveDays++
		} else if r < 0 {
			stats.NegativeDays++
		}
	}
	stats.AvgDailyReturn = sum / float64(n)

	if n > 1 {
		variance := 0.0
		for _, r := range t.dailyReturns {
			d := r - stats.AvgDailyReturn
			variance += d * d
		}
		stats.StdDailyReturn = math.Sqrt(variance / float64(n-1))
	}
	stats.WinRateDaily = float64(stats.PositiveDays) / float64(n) * 100
	return stats
}

// tradeStats derives win rate, average winner/loser percentage, and the
// profit factor from the portfolio's sell history. Each sell is matched
// against the last buy of the same ticker.
func tradeStats(p *domain.Portfolio) (winRate, avgWinner, avgLoser, profitFactor float64) {
	var wins, losses []float64

	for _, sell := range p.Trades {
		if sell.Type != domain.TradeSell {
			continue
		}
		var buyPrice float64
		found := false
		for _, t := range p.Trades {
			if t.Ticker == sell.Ticker && (t.Type == domain.TradeBuy || t.Type == domain.TradeRotation) {
				buyPrice = t.Price
				found = true
			}
		}
		if !found || buyPrice == 0 {
			continue
		}

		pnlPct := (sell.Price - buyPrice) / buyPrice * 100
		if pnlPct >= 0 {
			wins = append(wins, pnlPct)
		} else {
			losses = append(losses, pnlPct)
		}
	}

	total := len(wins) + len(losses)
	if total == 0 {
		return 0, 0, 0, 0
	}
	winRate = float64(len(wins)) / float64(total) * 100

	for _, w := range wins {
		avgWinner += w
	}
	if len(wins) > 0 {
		avgWinner /= float64(len(wins))
	}
	for _, l := range losses {
		avgLoser += l
	}
	if len(losses) > 0 {
		avgLoser /= float64(len(losses))
	}

	totalWins := 0.0
	for _, w := range wins {
		totalWins += math.Abs(w)
	}
	totalLosses := 1.0
	if len(losses) > 0 {
		totalLosses = 0
		for _, l := range losses {
			totalLosses += math.Abs(l)
		}
	}
	if totalLosses > 0 {
		profitFactor = totalWins / totalLosses
	}
	return winRate, avgWinner, avgLoser, profitFactor
}

func elapsedDays(p *domain.Portfolio) int {
	return int(time.Since(p.CreatedAt).Hours() / 24)
}

// annualizedReturnPct compounds the total return over 365 days; 0 before
// the first full day.
func annualizedReturnPct(p *domain.Portfolio) float64 {
	if p.InitialCapital == 0 {
		return 0
	}
	days := elapsedDays(p)
	if days < 1 {
		return 0
	}
	totalReturn := p.Value() / p.InitialCapital
	return (math.Pow(totalReturn, 365/float64(days)) - 1) * 100
}

func dailyCompoundPct(p *domain.Portfolio) float64 {
	if p.InitialCapital == 0 {
		return 0
	}
	days := math.Max(float64(elapsedDays(p)), 1)
	totalReturn := p.Value() / p.InitialCapital
	return (math.Pow(totalReturn, 1/days) - 1) * 100
}

// sharpeEstimate approximates the Sharpe ratio using drawdown as a
// volatility proxy, with a 4% annual risk-free rate.
func sharpeEstimate(p *domain.Portfolio) float64 {
	const riskFreeRate = 0.04
	days := math.Max(float64(elapsedDays(p)), 1)

	totalReturn := p.Value() / p.InitialCapital
	annualReturn := math.Pow(totalReturn, 365/days) - 1

	estimatedVolatility := math.Abs(p.MaxDrawdownPct()) / 200
	if estimatedVolatility == 0 {
		return 0
	}
	return (annualReturn - riskFreeRate/100) / estimatedVolatility
}
