package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vitos/portfolio_rotation/internal/config"
	"github.com/vitos/portfolio_rotation/internal/infrastructure/storage"
)

func historyCmd(configPath *string) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print recent trades and portfolio snapshots",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			store, err := storage.NewSQLiteStore(cfg.Storage.Path)
			if err != nil {
				return fmt.Errorf("failed to open storage: %w", err)
			}
			defer store.Close()

			trades, err := store.ListTrades(cmd.Context(), limit)
			if err != nil {
				return err
			}
			snapshots, err := store.ListSnapshots(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := map[string]interface{}{
				"trades":    trades,
				"snapshots": snapshots,
			}
			data, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum entries per section")
	return cmd
}
