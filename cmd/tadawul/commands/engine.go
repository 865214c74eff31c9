package commands

import (
	"fmt"
	"time"

	"github.com/youssefm/tadawul-rs/internal/contracts"
	"github.com/youssefm/tadawul-rs/internal/prices"
	"github.com/youssefm/tadawul-rs/internal/results"
	"github.com/youssefm/tadawul-rs/internal/rs"
	"github.com/youssefm/tadawul-rs/pkg/config"
	"github.com/youssefm/tadawul-rs/pkg/database"
	"github.com/youssefm/tadawul-rs/pkg/logger"
)

const timePrecision = 100 * time.Millisecond

// engine bundles the wired-up rating pipeline for CLI commands
type engine struct {
	cfg     *config.Config
	log     *logger.Logger
	db      *database.DB
	results *results.Repository
	driver  *rs.Driver
}

// initEngine loads config and connects every layer of the pipeline
func initEngine() (*engine, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	priceRepo := prices.NewRepository(db.Pool)
	resultRepo := results.NewRepository(db.Pool, cfg.Engine.ChunkSize)

	orch := rs.NewOrchestrator(priceRepo, cfg.Engine, log)
	driver := rs.NewDriver(priceRepo, resultRepo, orch, cfg.Engine, log)

	return &engine{
		cfg:     cfg,
		log:     log,
		db:      db,
		results: resultRepo,
		driver:  driver,
	}, nil
}

// Close releases the database pool
func (e *engine) Close() {
	e.db.Close()
}

func printSummary(summary *contracts.RunSummary) {
	if summary == nil {
		return
	}
	fmt.Println()
	fmt.Println("=== Run Summary ===")
	fmt.Printf("  Dates processed : %d\n", summary.DatesProcessed)
	fmt.Printf("  Dates skipped   : %d\n", summary.DatesSkipped)
	fmt.Printf("  Records written : %d\n", summary.RecordsWritten)
	fmt.Printf("  Elapsed         : %s\n", summary.Elapsed.Round(timePrecision))
}
