package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vitos/portfolio_rotation/internal/config"
	"github.com/vitos/portfolio_rotation/internal/domain"
	"github.com/vitos/portfolio_rotation/internal/infrastructure/logger"
	"github.com/vitos/portfolio_rotation/internal/infrastructure/marketdata"
	"github.com/vitos/portfolio_rotation/internal/infrastructure/storage"
	"github.com/vitos/portfolio_rotation/internal/infrastructure/watchlist"
	"github.com/vitos/portfolio_rotation/internal/usecase"
)

func main() {
	root := &cobra.Command{
		Use:   "rotation-agent",
		Short: "Portfolio rotation agent",
	}

	var configPath string
	root.PersistentFlags().StringVar(&configPath, "config", "config/config.yaml", "path to config file")

	root.AddCommand(runCmd(&configPath))
	root.AddCommand(serveCmd(&configPath))
	root.AddCommand(historyCmd(&configPath))

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// buildAgent wires the service graph shared by run and serve. The
// returned store is nil when persistence is disabled.
func buildAgent(cfg *config.Config, capital float64, watchlistPath string, log *zap.Logger) (*usecase.AgentService, *marketdata.YahooClient, *watchlist.FileWatchlist, *storage.SQLiteStore, error) {
	// 1. Watchlist
	if watchlistPath == "" {
		watchlistPath = cfg.Agent.WatchlistPath
	}
	wl, err := watchlist.Load(watchlistPath)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to load watchlist: %w", err)
	}

	// 2. Market data
	yahoo := marketdata.NewYahooClient(cfg.MarketData.YahooEndpoint,
		time.Duration(cfg.MarketData.CacheTTLMinutes)*time.Minute)

	// 3. Ledger + engine
	if capital <= 0 {
		capital = cfg.Agent.InitialCapital
	}
	portfolio := domain.NewPortfolio(capital)
	engine := usecase.NewRotationEngineWithThreshold(cfg.Rotation.ScoreThreshold)

	agent := usecase.NewAgentService(portfolio, yahoo, wl, engine, log)
	agent.SetMinimumCash(cfg.Agent.MinCash)
	agent.SetHistoryDays(cfg.Agent.HistoryDays)

	// 4. Persistence
	var store *storage.SQLiteStore
	if cfg.Storage.Path != "" {
		store, err = storage.NewSQLiteStore(cfg.Storage.Path)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("failed to init sqlite: %w", err)
		}
		agent.AttachJournal(store, store)
	}

	return agent, yahoo, wl, store, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Logging.File != "" {
		return logger.NewFileLogger(cfg.Logging.Level, cfg.Logging.File)
	}
	return logger.NewLogger(cfg.Logging.Level)
}
