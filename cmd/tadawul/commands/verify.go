package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/youssefm/tadawul-rs/internal/results"
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Show strongest and weakest symbols for a date",
	Long: `Reads back persisted ratings and prints the strongest and
weakest symbols plus distribution statistics, as a sanity check after
a calculation run.

Flags:
  --date    target date (YYYY-MM-DD, default: latest computed date)
  --limit   rows per list (default: 15)

Example:
  go run ./cmd/tadawul verify
  go run ./cmd/tadawul verify --date 2026-01-15 --limit 25`,
	RunE: runVerify,
}

var (
	verifyDate  string
	verifyLimit int
)

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().StringVar(&verifyDate, "date", "", "target date (YYYY-MM-DD)")
	verifyCmd.Flags().IntVar(&verifyLimit, "limit", 15, "rows per list")
}

func runVerify(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Tadawul RS Verify ===")

	eng, err := initEngine()
	if err != nil {
		return err
	}
	defer eng.Close()

	ctx := context.Background()

	var date time.Time
	if verifyDate != "" {
		date, err = time.Parse("2006-01-02", verifyDate)
		if err != nil {
			return fmt.Errorf("invalid date: %w", err)
		}
	} else {
		date, err = eng.results.LatestRatingDate(ctx)
		if err != nil {
			return fmt.Errorf("resolve latest date: %w", err)
		}
	}

	fmt.Printf("\n📅 Date: %s\n", date.Format("2006-01-02"))

	top, err := eng.results.TopRatings(ctx, date, verifyLimit)
	if err != nil {
		return fmt.Errorf("query top ratings: %w", err)
	}
	bottom, err := eng.results.BottomRatings(ctx, date, verifyLimit)
	if err != nil {
		return fmt.Errorf("query bottom ratings: %w", err)
	}
	stats, err := eng.results.StatsForDate(ctx, date)
	if err != nil {
		return fmt.Errorf("query stats: %w", err)
	}

	fmt.Printf("\n🏆 Top %d by RS rating\n", verifyLimit)
	printRatingTable(top)

	fmt.Printf("\n📉 Bottom %d by RS rating\n", verifyLimit)
	printRatingTable(bottom)

	fmt.Println("\n📊 Distribution")
	fmt.Printf("  Symbols      : %d\n", stats.Total)
	if stats.AvgRating != nil {
		fmt.Printf("  Avg rating   : %.1f\n", *stats.AvgRating)
	}
	fmt.Printf("  Rating >= 80 : %d\n", stats.Rating80Plus)
	fmt.Printf("  Rating <= 20 : %d\n", stats.Rating20Below)

	return nil
}

func printRatingTable(ratings []results.Rating) {
	fmt.Printf("  %-8s %-24s %4s %8s %8s %8s %8s\n",
		"SYMBOL", "COMPANY", "RS", "3M", "6M", "9M", "12M")

	for _, r := range ratings {
		name := r.CompanyName
		if len(name) > 24 {
			name = name[:24]
		}
		fmt.Printf("  %-8s %-24s %4s %8s %8s %8s %8s\n",
			r.Symbol, name, fmtRating(r.RSRating),
			fmtPct(r.Change3M), fmtPct(r.Change6M),
			fmtPct(r.Change9M), fmtPct(r.Change12M))
	}
}

func fmtRating(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}

func fmtPct(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%+.1f%%", *v*100)
}
