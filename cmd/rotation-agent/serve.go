package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vitos/portfolio_rotation/internal/config"
	"github.com/vitos/portfolio_rotation/internal/domain"
	"github.com/vitos/portfolio_rotation/internal/infrastructure/marketdata"
	"github.com/vitos/portfolio_rotation/internal/usecase"
	"github.com/vitos/portfolio_rotation/internal/web"
)

func serveCmd(configPath *string) *cobra.Command {
	var (
		mode    string
		capital float64
		wlPath  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the agent on a schedule with the web API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if mode != "analyze" && mode != "trade" {
				return fmt.Errorf("invalid mode %q: must be analyze or trade", mode)
			}

			// 1. Load Config
			cfg, err := config.Load(*configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			// 2. Init Logger
			log, err := newLogger(cfg)
			if err != nil {
				return fmt.Errorf("failed to init logger: %w", err)
			}
			defer log.Sync()

			// 3. Wire the agent
			agent, yahoo, wl, store, err := buildAgent(cfg, capital, wlPath, log)
			if err != nil {
				return err
			}
			if store != nil {
				defer store.Close()
			}

			// 4. Live price stream (optional)
			if cfg.MarketData.FinnhubAPIKey != "" {
				stream := marketdata.NewFinnhubStream(cfg.MarketData.FinnhubEndpoint, cfg.MarketData.FinnhubAPIKey, log)
				stream.OnPriceUpdate(func(ticker string, price float64) {
					yahoo.SetLivePrice(ticker, price)
				})
				if err := stream.Connect(wl.Tickers()); err != nil {
					log.Warn("Failed to connect price stream", zap.Error(err))
				} else {
					defer stream.Close()
				}
			}

			// 5. Web server + metrics
			var journal domain.TradeJournal
			if store != nil {
				journal = store
			}
			metrics := web.NewMetrics()
			server := web.NewServer(cfg.Server.Port, agent, journal, metrics, log)
			go func() {
				if err := server.Start(); err != nil {
					log.Fatal("Web server failed", zap.Error(err))
				}
			}()

			// 6. Cycle loop
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			go cycleLoop(ctx, agent, metrics, time.Duration(cfg.Agent.CycleMinutes)*time.Minute, mode == "analyze", log)

			// 7. Wait for shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			<-sigCh
			log.Info("Shutting down")

			cancel()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			return server.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "analyze", "analyze (dry run) or trade (execute)")
	cmd.Flags().Float64Var(&capital, "capital", 0, "initial capital, overrides config")
	cmd.Flags().StringVar(&wlPath, "watchlist", "", "watchlist file, overrides config")

	return cmd
}

func cycleLoop(ctx context.Context, agent *usecase.AgentService, metrics *web.Metrics, interval time.Duration, dryRun bool, log *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	runOnce := func() {
		cycleCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
		defer cancel()

		report, err := agent.RunCycle(cycleCtx, dryRun)
		if err != nil {
			log.Error("Cycle failed", zap.Error(err))
			return
		}
		metrics.ObserveCycle(report)
		log.Info("Cycle complete",
			zap.String("recommendation", report.Recommendation),
			zap.Int("alerts", len(report.Alerts)))
	}

	runOnce()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
