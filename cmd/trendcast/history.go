package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/abdulachik/trendcast/internal/config"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent fetch cycles",
	Long:  `Display the most recent fetch cycles and how often each source won.`,
	RunE:  runHistory,
}

var historyLimit int

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Number of cycles to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	total, err := store.CountCycles(ctx)
	if err != nil {
		return fmt.Errorf("count cycles: %w", err)
	}

	bySource, err := store.CountCyclesBySource(ctx)
	if err != nil {
		return fmt.Errorf("count cycles by source: %w", err)
	}

	recent, err := store.ListRecentCycles(ctx, int64(historyLimit))
	if err != nil {
		return fmt.Errorf("list cycles: %w", err)
	}

	fmt.Println("=== trendcast fetch history ===")
	fmt.Println()
	fmt.Printf("Database: %s\n", cfg.DatabasePath)
	fmt.Printf("Total cycles: %d\n", total)
	fmt.Println()

	if len(bySource) > 0 {
		fmt.Println("Wins by source:")
		for _, row := range bySource {
			fmt.Printf("  %s: %d\n", row.Source, row.Count)
		}
		fmt.Println()
	}

	if len(recent) == 0 {
		fmt.Println("No cycles recorded yet. Run 'trendcast fetch' or 'trendcast serve'.")
		return nil
	}

	fmt.Printf("Last %d cycles:\n", len(recent))
	for _, c := range recent {
		fmt.Printf("  %s  %-20s %2d items  %5dms  %s\n",
			c.FetchedAt.Local().Format("2006-01-02 15:04:05"),
			c.Source,
			c.ItemCount,
			c.DurationMs,
			c.ID,
		)

		failures, err := c.DecodeFailures()
		if err != nil {
			slog.Warn("bad failures column", "cycle_id", c.ID, "error", err)
			continue
		}
		if len(failures) > 0 {
			var parts []string
			for _, f := range failures {
				parts = append(parts, f.Strategy+": "+f.Error)
			}
			fmt.Printf("      failed: %s\n", strings.Join(parts, "; "))
		}
	}

	return nil
}
