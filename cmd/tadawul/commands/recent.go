package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// recentCmd represents the recent command
var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Recompute RS ratings for the recent window",
	Long: `Recomputes ratings for the last N calendar days counted back
from the latest price date. Every date in the window is recomputed
unconditionally so corrected prices flow into the ratings.

Flags:
  --days   window length in calendar days (default from config)

Example:
  go run ./cmd/tadawul recent
  go run ./cmd/tadawul recent --days 7`,
	RunE: runRecent,
}

var recentDays int

func init() {
	rootCmd.AddCommand(recentCmd)

	recentCmd.Flags().IntVar(&recentDays, "days", 0, "window length in calendar days")
}

func runRecent(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Tadawul RS Recent Refresh ===")

	eng, err := initEngine()
	if err != nil {
		return err
	}
	defer eng.Close()

	days := recentDays
	if days <= 0 {
		days = eng.cfg.Engine.RecentDays
	}

	summary, err := eng.driver.RunRecent(context.Background(), days)
	if err != nil {
		printSummary(summary)
		return fmt.Errorf("recent refresh: %w", err)
	}

	printSummary(summary)
	return nil
}
