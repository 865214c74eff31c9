package jobs

import (
	"context"

	"github.com/youssefm/tadawul-rs/internal/rs"
	"github.com/youssefm/tadawul-rs/pkg/config"
	"github.com/youssefm/tadawul-rs/pkg/logger"
)

// DailyRefreshJob recomputes ratings over the recent trading window
// after the market close, picking up the day's new prices
type DailyRefreshJob struct {
	driver   *rs.Driver
	days     int
	schedule string
	logger   *logger.Logger
}

// NewDailyRefreshJob creates a new daily refresh job
func NewDailyRefreshJob(driver *rs.Driver, cfg *config.Config, log *logger.Logger) *DailyRefreshJob {
	return &DailyRefreshJob{
		driver:   driver,
		days:     cfg.Engine.RecentDays,
		schedule: cfg.Scheduler.DailyRefreshSpec,
		logger:   log,
	}
}

// Name returns the job name
func (j *DailyRefreshJob) Name() string {
	return "daily_rs_refresh"
}

// Schedule returns the cron schedule from configuration
func (j *DailyRefreshJob) Schedule() string {
	return j.schedule
}

// Run recomputes the recent window unconditionally; corrections to
// already-published prices land in the recomputed ratings
func (j *DailyRefreshJob) Run(ctx context.Context) error {
	j.logger.WithField("days", j.days).Info("Starting daily RS refresh")

	summary, err := j.driver.RunRecent(ctx, j.days)
	if err != nil {
		return err
	}

	j.logger.WithFields(map[string]interface{}{
		"dates_processed": summary.DatesProcessed,
		"records_written": summary.RecordsWritten,
		"elapsed":         summary.Elapsed,
	}).Info("Daily RS refresh completed")

	return nil
}
