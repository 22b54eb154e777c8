package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vitos/portfolio_rotation/internal/config"
	"github.com/vitos/portfolio_rotation/internal/infrastructure/ai"
)

func runCmd(configPath *string) *cobra.Command {
	var (
		mode      string
		capital   float64
		wlPath    string
		output    string
		reasoning bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one evaluation cycle and print the report",
		RunE: func(cmd *cobra.Command, args []string) error {
			if mode != "analyze" && mode != "trade" {
				return fmt.Errorf("invalid mode %q: must be analyze or trade", mode)
			}

			cfg, err := config.Load(*configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			log, err := newLogger(cfg)
			if err != nil {
				return fmt.Errorf("failed to init logger: %w", err)
			}
			defer log.Sync()

			agent, _, _, store, err := buildAgent(cfg, capital, wlPath, log)
			if err != nil {
				return err
			}
			if store != nil {
				defer store.Close()
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
			defer cancel()

			report, err := agent.RunCycle(ctx, mode == "analyze")
			if err != nil {
				return err
			}

			if reasoning && cfg.AI.GeminiAPIKey != "" {
				narrator, err := ai.NewGeminiNarrator(ctx, cfg.AI.GeminiAPIKey, cfg.AI.Model)
				if err != nil {
					log.Warn("Failed to init narrator", zap.Error(err))
				} else if text, err := narrator.Narrate(ctx, report); err != nil {
					log.Warn("Narration failed", zap.Error(err))
				} else {
					report.Reasoning = text
				}
			}

			data, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return err
			}

			if output != "" {
				if err := os.WriteFile(output, data, 0o644); err != nil {
					return err
				}
				log.Info("Report written", zap.String("path", output))
			}
			fmt.Println(string(data))
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "analyze", "analyze (dry run) or trade (execute)")
	cmd.Flags().Float64Var(&capital, "capital", 0, "initial capital, overrides config")
	cmd.Flags().StringVar(&wlPath, "watchlist", "", "watchlist file, overrides config")
	cmd.Flags().StringVar(&output, "output", "", "also write the report to this file")
	cmd.Flags().BoolVar(&reasoning, "reasoning", false, "add an AI narration of the decision")

	return cmd
}
