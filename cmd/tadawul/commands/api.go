package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/youssefm/tadawul-rs/internal/api"
	"github.com/youssefm/tadawul-rs/internal/api/handlers"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the ratings API server",
	Long: `Starts the REST API serving persisted ratings.

Endpoints:
  GET  /health                         - Health check
  GET  /api/ratings/top                - Strongest symbols for a date
  GET  /api/ratings/bottom             - Weakest symbols for a date
  GET  /api/ratings/stats              - Rating distribution for a date
  GET  /api/ratings/{symbol}/history   - Rating history for one symbol

Example:
  go run ./cmd/tadawul api
  go run ./cmd/tadawul api --port 8080`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Tadawul RS API Server ===")

	eng, err := initEngine()
	if err != nil {
		return err
	}
	defer eng.Close()

	// Override port if flag is set
	if apiPort != "" {
		eng.cfg.Server.Port = apiPort
	}

	ratingsHandler := handlers.NewRatingsHandler(eng.results, eng.log)
	router := api.NewRouter(ratingsHandler, eng.cfg, eng.log)
	server := api.New(eng.cfg, eng.log, router)

	go func() {
		if err := server.Start(); err != nil {
			eng.log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("\n✅ Server running on http://localhost:%s\n", eng.cfg.Server.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	eng.log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	eng.log.Info("Server stopped")
	return nil
}
