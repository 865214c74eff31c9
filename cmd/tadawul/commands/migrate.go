package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create result tables",
	Long: `Creates the price_changes and rs_daily tables with their
indexes if they do not exist. Safe to run repeatedly.

Example:
  go run ./cmd/tadawul migrate`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	eng, err := initEngine()
	if err != nil {
		return err
	}
	defer eng.Close()

	if err := eng.results.EnsureTables(context.Background()); err != nil {
		return fmt.Errorf("ensure tables: %w", err)
	}

	fmt.Println("✅ Result tables ready (price_changes, rs_daily)")
	return nil
}
