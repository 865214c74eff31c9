package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tadawul",
	Short: "Tadawul RS - relative strength ratings for the Saudi exchange",
	Long: `Tadawul RS Engine

Computes daily 1-99 relative strength ratings from calendar-month
returns over 3, 6, 9 and 12 month horizons, persisted to Postgres.

Usage:
  go run ./cmd/tadawul [command]

Examples:
  go run ./cmd/tadawul migrate
  go run ./cmd/tadawul calculate --date 2026-01-15
  go run ./cmd/tadawul backfill --from 2020-01-01
  go run ./cmd/tadawul recent --days 30
  go run ./cmd/tadawul verify
  go run ./cmd/tadawul api
  go run ./cmd/tadawul scheduler start`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
