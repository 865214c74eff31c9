package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// backfillCmd represents the backfill command
var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Backfill RS ratings over a date range",
	Long: `Processes every trading date in the range, oldest first.
Dates that already hold a full cohort of results are skipped, so an
interrupted backfill resumes where it stopped.

Flags:
  --from   start date (YYYY-MM-DD, default: earliest price date)
  --to     end date (YYYY-MM-DD, default: latest price date)

Example:
  go run ./cmd/tadawul backfill
  go run ./cmd/tadawul backfill --from 2020-01-01 --to 2025-12-31`,
	RunE: runBackfill,
}

var (
	backfillFrom string
	backfillTo   string
)

func init() {
	rootCmd.AddCommand(backfillCmd)

	backfillCmd.Flags().StringVar(&backfillFrom, "from", "", "start date (YYYY-MM-DD)")
	backfillCmd.Flags().StringVar(&backfillTo, "to", "", "end date (YYYY-MM-DD)")
}

func runBackfill(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Tadawul RS Backfill ===")

	var from, to time.Time
	var err error

	if backfillFrom != "" {
		from, err = time.Parse("2006-01-02", backfillFrom)
		if err != nil {
			return fmt.Errorf("invalid from date: %w", err)
		}
	}
	if backfillTo != "" {
		to, err = time.Parse("2006-01-02", backfillTo)
		if err != nil {
			return fmt.Errorf("invalid to date: %w", err)
		}
	}

	eng, err := initEngine()
	if err != nil {
		return err
	}
	defer eng.Close()

	summary, err := eng.driver.RunRange(context.Background(), from, to)
	if err != nil {
		printSummary(summary)
		return fmt.Errorf("backfill: %w", err)
	}

	printSummary(summary)
	return nil
}
