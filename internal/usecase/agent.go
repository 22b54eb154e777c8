package usecase

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/vitos/portfolio_rotation/internal/domain"
	"go.uber.org/zap"
)

// WatchlistProvider supplies the candidate tickers for a cycle.
type WatchlistProvider interface {
	Tickers() []string
}

// AgentService orchestrates one evaluation cycle: fetch market data,
// score the watchlist, pick the best rotation, and execute or annotate
// it. The portfolio itself is lock-free; the service's mutex serializes
// every access so the cycle loop and web handlers can share it.
type AgentService struct {
	portfolio *domain.Portfolio
	market    domain.MarketData
	watchlist WatchlistProvider
	scanner   *Scanner
	scorer    *Scorer
	sizer     *PositionSizer
	engine    *RotationEngine
	tracker   *PerformanceTracker
	logger    *zap.Logger

	journal   domain.TradeJournal
	snapshots domain.SnapshotRepository

	minimumCash float64
	historyDays int
	journaled   int

	mu         sync.Mutex
	lastReport *CycleReport
}

func NewAgentService(portfolio *domain.Portfolio, market domain.MarketData, watchlist WatchlistProvider, engine *RotationEngine, logger *zap.Logger) *AgentService {
	return &AgentService{
		portfolio:   portfolio,
		market:      market,
		watchlist:   watchlist,
		scanner:     NewScanner(),
		scorer:      NewScorer(),
		sizer:       NewPositionSizer(),
		engine:      engine,
		tracker:     NewPerformanceTracker(),
		logger:      logger,
		minimumCash: 10.0,
		historyDays: 365,
	}
}

// AttachJournal enables persistence of executed trades and cycle
// snapshots. The ledger itself stays in memory; only the embedding
// caller decides to persist.
func (s *AgentService) AttachJournal(journal domain.TradeJournal, snapshots domain.SnapshotRepository) {
	s.journal = journal
	s.snapshots = snapshots
}

// SetMinimumCash overrides the cash floor checked before a rotation
// executes. Negative values are ignored.
func (s *AgentService) SetMinimumCash(v float64) {
	if v >= 0 {
		s.minimumCash = v
	}
}

// SetHistoryDays overrides the lookback window requested from the
// market data source. Non-positive values are ignored.
func (s *AgentService) SetHistoryDays(days int) {
	if days > 0 {
		s.historyDays = days
	}
}

// RunCycle performs one full evaluation. With dryRun the decision is
// annotated but not executed. Any data failure degrades to HOLD.
func (s *AgentService) RunCycle(ctx context.Context, dryRun bool) (*CycleReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tickers := s.watchlist.Tickers()
	s.logger.Info("Fetching market data", zap.Int("tickers", len(tickers)))

	history, err := s.market.GetBatchHistory(ctx, tickers, s.historyDays)
	if err != nil {
		s.logger.Error("Failed to fetch history", zap.Error(err))
	}
	prices, err := s.market.GetBatchCurrentPrices(ctx, tickers)
	if err != nil {
		s.logger.Error("Failed to fetch prices", zap.Error(err))
	}
	if len(prices) == 0 {
		report := &CycleReport{
			Error:          "failed to fetch market data",
			Recommendation: RecommendHold,
		}
		s.lastReport = report
		return report, nil
	}

	s.portfolio.UpdatePrices(prices)

	s.logger.Info("Scoring watchlist candidates")
	scores := s.scoreWatchlist(tickers, history)

	s.logger.Info("Evaluating rotations")
	rotation := s.engine.GetBestRotation(s.portfolio, scores, prices)

	recommendation := RecommendHold
	var rotationDetail *RotationDetail
	var expectedImprovement, positionSize string

	if rotation != nil && s.engine.ShouldExecuteRotation(s.portfolio, s.minimumCash) {
		buyScore := scores[rotation.BuyTicker]

		if !dryRun {
			s.logger.Info("Executing rotation",
				zap.String("sell", rotation.SellTicker),
				zap.String("buy", rotation.BuyTicker),
				zap.Float64("gain", rotation.Gain))

			if err := s.engine.ExecuteRotation(s.portfolio, rotation.SellTicker, rotation.BuyTicker, prices, buyScore, rotation.Reason); err != nil {
				s.logger.Warn("Rotation failed", zap.Error(err))
			} else {
				recommendation = RecommendRotate
				s.tracker.RecordSnapshot(time.Now(), s.portfolio.Value(), s.portfolio.Cash, s.portfolio.HoldingsValue(), s.portfolio.NumPositions())
				s.persistCycle(ctx)
			}
		} else {
			recommendation = RecommendRotate
			size, sizeErr := s.sizer.CalculateSize(buyScore)
			if sizeErr != nil {
				size = 0
			}
			sharesToBuy := s.sizer.CalculateShares(s.portfolio.Value(), size, prices[rotation.BuyTicker])
			sellPos := s.portfolio.Position(rotation.SellTicker)

			if sellPos != nil && sharesToBuy > 0 {
				sellScore := 0.0
				if sellPos.CurrentScore != nil {
					sellScore = *sellPos.CurrentScore
				}
				catalysts := s.scanner.DetectCatalysts(rotation.BuyTicker, history[rotation.BuyTicker], ExogenousSignals{})
				rotationDetail = BuildRotationDetail(
					rotation.SellTicker, sellPos.Shares, prices[rotation.SellTicker], sellScore, "Score improvement available",
					rotation.BuyTicker, sharesToBuy, prices[rotation.BuyTicker], buyScore,
					s.scanner.CatalystDescriptions(catalysts),
					fmt.Sprintf("+%.1f%%", scores[rotation.BuyTicker]*25),
				)
				expectedImprovement = fmt.Sprintf("+%.4f score differential", rotation.Gain)
				positionSize = fmt.Sprintf("%.0f%% of portfolio", size*100)
			}
		}
	}

	report := &CycleReport{
		TradePlan:       BuildTradePlan(s.portfolio, recommendation, rotationDetail, expectedImprovement, positionSize),
		Performance:     BuildDashboard(s.portfolio),
		PortfolioState:  s.portfolio.Snapshot(),
		WatchlistScores: roundScores(scores),
		Prices:          prices,
		Alerts:          s.collectAlerts(history),
		Recommendation:  recommendation,
	}
	s.lastReport = report
	return report, nil
}

// scoreWatchlist scores every candidate; a ticker without usable price
// history scores 0.0 without aborting the batch.
func (s *AgentService) scoreWatchlist(tickers []string, history map[string][]domain.Candle) map[string]float64 {
	inputs := make(map[string]ScoreInput, len(tickers))
	for _, ticker := range tickers {
		candles, ok := history[ticker]
		if !ok || len(candles) < 2 {
			inputs[ticker] = ScoreInput{}
			continue
		}

		catalysts := s.scanner.DetectCatalysts(ticker, candles, ExogenousSignals{})
		strength := s.scanner.CatalystStrength(catalysts)
		// Upside from analyst targets is not wired yet; derive a
		// conservative proxy from catalyst strength.
		upside := math.Min(0.3, strength*0.5)

		inputs[ticker] = ScoreInput{
			Candles:          candles,
			CatalystStrength: strength,
			UpsidePotential:  upside,
		}
	}
	return s.scorer.BatchScore(inputs)
}

// collectAlerts surfaces stop-loss hits and exit signals on current
// holdings. Alerts are diagnostic; they never mutate the ledger.
func (s *AgentService) collectAlerts(history map[string][]domain.Candle) []string {
	var alerts []string
	for _, ticker := range s.portfolio.CheckStopLosses() {
		alerts = append(alerts, fmt.Sprintf("%s: stop-loss hit (<= -15%%)", ticker))
	}
	for _, ticker := range s.portfolio.Tickers() {
		candles, ok := history[ticker]
		if !ok {
			continue
		}
		pos := s.portfolio.Position(ticker)
		score := 0.0
		if pos.CurrentScore != nil {
			score = *pos.CurrentScore
		}
		if exit, reason := s.scanner.ShouldExit(ticker, candles, score, 0, nil, false); exit {
			alerts = append(alerts, fmt.Sprintf("%s: exit signal (%s)", ticker, reason))
		}
	}
	return alerts
}

func (s *AgentService) persistCycle(ctx context.Context) {
	s.journalNewTrades(ctx)
	if s.snapshots != nil {
		if err := s.snapshots.SaveSnapshot(ctx, s.portfolio.Snapshot()); err != nil {
			s.logger.Error("Failed to persist snapshot", zap.Error(err))
		}
	}
}

// journalNewTrades persists every ledger trade not yet written to the
// journal, so out-of-cycle entries reach the audit trail too.
// Callers hold s.mu.
func (s *AgentService) journalNewTrades(ctx context.Context) {
	if s.journal == nil {
		return
	}
	trades := s.portfolio.Trades
	for ; s.journaled < len(trades); s.journaled++ {
		if err := s.journal.SaveTrade(ctx, trades[s.journaled]); err != nil {
			s.logger.Error("Failed to persist trade", zap.Error(err))
		}
	}
}

// SeedPosition opens an initial holding outside the rotation flow, used
// to bootstrap a portfolio from the CLI. Returns false if cash is
// insufficient.
func (s *AgentService) SeedPosition(ctx context.Context, ticker string, shares int, price, score float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.portfolio.AddPosition(ticker, shares, price, score, "Initial position") {
		return false
	}
	s.journalNewTrades(ctx)
	return true
}

// PortfolioSnapshot returns the current full ledger state.
func (s *AgentService) PortfolioSnapshot() *domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.portfolio.Snapshot()
}

// LastReport returns the most recent cycle report, or nil before the
// first cycle.
func (s *AgentService) LastReport() *CycleReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastReport
}

// Tracker exposes the performance tracker.
func (s *AgentService) Tracker() *PerformanceTracker {
	return s.tracker
}

func roundScores(scores map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(scores))
	for ticker, score := range scores {
		out[ticker] = domain.Round4(score)
	}
	return out
}
