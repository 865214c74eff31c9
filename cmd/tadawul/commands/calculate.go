package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// calculateCmd represents the calculate command
var calculateCmd = &cobra.Command{
	Use:   "calculate",
	Short: "Calculate RS ratings for one date",
	Long: `Calculates relative strength ratings for every symbol with a
price on the given date and persists the results, overwriting any
previous run for that date.

Flags:
  --date   target date (YYYY-MM-DD, required)

Example:
  go run ./cmd/tadawul calculate --date 2026-01-15`,
	RunE: runCalculate,
}

var calculateDate string

func init() {
	rootCmd.AddCommand(calculateCmd)

	calculateCmd.Flags().StringVar(&calculateDate, "date", "", "target date (YYYY-MM-DD)")
	calculateCmd.MarkFlagRequired("date")
}

func runCalculate(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Tadawul RS Calculate ===")

	date, err := time.Parse("2006-01-02", calculateDate)
	if err != nil {
		return fmt.Errorf("invalid date: %w", err)
	}

	eng, err := initEngine()
	if err != nil {
		return err
	}
	defer eng.Close()

	summary, err := eng.driver.RunDate(context.Background(), date)
	if err != nil {
		return fmt.Errorf("calculate %s: %w", calculateDate, err)
	}

	printSummary(summary)
	return nil
}
