package usecase

import (
	"fmt"
	"time"

	"github.com/vitos/portfolio_rotation/internal/domain"
)

// Recommendation values for a cycle.
const (
	RecommendHold   = "HOLD"
	RecommendRotate = "ROTATE"
)

// TradePlan is the per-cycle decision object handed to presentation.
type TradePlan struct {
	GeneratedAt         string          `json:"generated_at"`
	Objective           string          `json:"objective"`
	PortfolioValue      float64         `json:"portfolio_value"`
	TotalReturnPct      float64         `json:"total_return_pct"`
	AnnualizedReturnPct float64         `json:"annualized_return_pct"`
	Recommendation      string          `json:"recommendation"`
	Rotation            *RotationDetail `json:"rotation"`
	ExpectedImprovement string          `json:"expected_improvement,omitempty"`
	PositionSize        string          `json:"position_size,omitempty"`
	PostTradeCash       float64         `json:"post_trade_cash"`
}

// RotationDetail describes both legs of a proposed rotation.
type RotationDetail struct {
	Sell SellLeg `json:"sell"`
	Buy  BuyLeg  `json:"buy"`
}

type SellLeg struct {
	Ticker       string  `json:"ticker"`
	Shares       int     `json:"shares"`
	Price        float64 `json:"price"`
	Proceeds     float64 `json:"proceeds"`
	CurrentScore float64 `json:"current_score"`
	Reason       string  `json:"reason"`
}

type BuyLeg struct {
	Ticker          string   `json:"ticker"`
	Shares          int      `json:"shares"`
	Price           float64  `json:"price"`
	Cost            float64  `json:"cost"`
	ExpectedScore   float64  `json:"expected_score"`
	Catalysts       []string `json:"catalysts"`
	UpsidePotential string   `json:"upside_potential"`
}

// Dashboard is the performance summary block of a cycle report.
type Dashboard struct {
	Performance PerformanceSummary `json:"performance"`
}

type PerformanceSummary struct {
	StartingCapital   float64 `json:"starting_capital"`
	CurrentValue      float64 `json:"current_value"`
	TotalReturn       string  `json:"total_return"`
	DaysElapsed       int     `json:"days_elapsed"`
	DailyCompoundRate string  `json:"daily_compound_rate"`
	AnnualizedRate    string  `json:"annualized_rate"`
	SharpeRatio       float64 `json:"sharpe_ratio"`
	MaxDrawdown       string  `json:"max_drawdown"`
	WinRate           string  `json:"win_rate"`
	AvgWinner         string  `json:"avg_winner"`
	AvgLoser          string  `json:"avg_loser"`
	ProfitFactor      float64 `json:"profit_factor"`
	TotalRotations    int     `json:"total_rotations"`
}

// CycleReport is everything one evaluation cycle produces.
type CycleReport struct {
	TradePlan       *TradePlan         `json:"trade_plan,omitempty"`
	Performance     *Dashboard         `json:"performance,omitempty"`
	PortfolioState  *domain.Snapshot   `json:"portfolio_state,omitempty"`
	WatchlistScores map[string]float64 `json:"watchlist_scores,omitempty"`
	Prices          map[string]float64 `json:"prices,omitempty"`
	Alerts          []string           `json:"alerts,omitempty"`
	Reasoning       string             `json:"reasoning,omitempty"`
	Error           string             `json:"error,omitempty"`
	Recommendation  string             `json:"recommendation"`
}

// BuildTradePlan assembles the decision object for the cycle.
func BuildTradePlan(p *domain.Portfolio, recommendation string, rotation *RotationDetail, expectedImprovement, positionSize string) *TradePlan {
	return &TradePlan{
		GeneratedAt:         time.Now().Format(time.RFC3339),
		Objective:           "MAXIMIZE_RETURN",
		PortfolioValue:      domain.Round2(p.Value()),
		TotalReturnPct:      domain.Round2(p.TotalReturnPct()),
		AnnualizedReturnPct: domain.Round2(annualizedReturnPct(p)),
		Recommendation:      recommendation,
		Rotation:            rotation,
		ExpectedImprovement: expectedImprovement,
		PositionSize:        positionSize,
		PostTradeCash:       domain.Round2(p.Cash),
	}
}

// BuildRotationDetail assembles the sell and buy legs of a proposed
// rotation for display.
func BuildRotationDetail(sellTicker string, sellShares int, sellPrice, sellScore float64, sellReason, buyTicker string, buyShares int, buyPrice, buyScore float64, catalysts []string, upsidePotential string) *RotationDetail {
	return &RotationDetail{
		Sell: SellLeg{
			Ticker:       sellTicker,
			Shares:       sellShares,
			Price:        domain.Round2(sellPrice),
			Proceeds:     domain.Round2(float64(sellShares) * sellPrice),
			CurrentScore: domain.Round4(sellScore),
			Reason:       sellReason,
		},
		Buy: BuyLeg{
			Ticker:          buyTicker,
			Shares:          buyShares,
			Price:           domain.Round2(buyPrice),
			Cost:            domain.Round2(float64(buyShares) * buyPrice),
			ExpectedScore:   domain.Round4(buyScore),
			Catalysts:       catalysts,
			UpsidePotential: upsidePotential,
		},
	}
}

// BuildDashboard assembles the performance summary from the ledger.
func BuildDashboard(p *domain.Portfolio) *Dashboard {
	winRate, avgWinner, avgLoser, profitFactor := tradeStats(p)

	rotations := 0
	for _, t := range p.Trades {
		if t.Type == domain.TradeRotation {
			rotations++
		}
	}

	return &Dashboard{
		Performance: PerformanceSummary{
			StartingCapital:   domain.Round2(p.InitialCapital),
			CurrentValue:      domain.Round2(p.Value()),
			TotalReturn:       signedPct(p.TotalReturnPct()),
			DaysElapsed:       elapsedDays(p),
			DailyCompoundRate: signedPct(dailyCompoundPct(p)),
			AnnualizedRate:    signedPct(annualizedReturnPct(p)),
			SharpeRatio:       domain.Round2(sharpeEstimate(p)),
			MaxDrawdown:       fmt.Sprintf("%.2f%%", p.MaxDrawdownPct()),
			WinRate:           fmt.Sprintf("%.1f%%", winRate),
			AvgWinner:         signedPct(avgWinner),
			AvgLoser:          fmt.Sprintf("%.2f%%", avgLoser),
			ProfitFactor:      domain.Round2(profitFactor),
			TotalRotations:    rotations,
		},
	}
}

func signedPct(v float64) string {
	if v >= 0 {
		return fmt.Sprintf("+%.2f%%", v)
	}
	return fmt.Sprintf("%.2f%%", v)
}
