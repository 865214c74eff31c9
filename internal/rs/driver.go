package rs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/youssefm/tadawul-rs/internal/contracts"
	"github.com/youssefm/tadawul-rs/pkg/config"
	"github.com/youssefm/tadawul-rs/pkg/logger"
)

// Driver iterates the orchestrator over trading dates, in ascending
// order, and persists each cohort. One date is fully finished before
// the next begins; the upsert key makes interrupted runs resumable.
type Driver struct {
	source contracts.PriceSource
	sink   contracts.ResultSink
	orch   *Orchestrator
	cfg    config.EngineConfig
	logger *logger.Logger
}

// NewDriver creates a new batch driver
func NewDriver(source contracts.PriceSource, sink contracts.ResultSink, orch *Orchestrator, cfg config.EngineConfig, log *logger.Logger) *Driver {
	return &Driver{
		source: source,
		sink:   sink,
		orch:   orch,
		cfg:    cfg,
		logger: log.WithField("module", "driver"),
	}
}

// RunDate recomputes a single trading date (incremental mode). No
// resume guard: an explicit date is always recomputed.
func (d *Driver) RunDate(ctx context.Context, date time.Time) (*contracts.RunSummary, error) {
	return d.run(ctx, []time.Time{date}, false)
}

// RunRange computes every trading date in [from, to] (historical
// backfill mode). Zero from/to default to the bounds of the price
// store. Dates that already hold more than the resume threshold of
// rating rows are skipped.
func (d *Driver) RunRange(ctx context.Context, from, to time.Time) (*contracts.RunSummary, error) {
	var err error

	if from.IsZero() {
		if from, err = d.source.EarliestDate(ctx); err != nil {
			return nil, fmt.Errorf("resolve range start: %w", err)
		}
	}
	if to.IsZero() {
		if to, err = d.source.LatestDate(ctx); err != nil {
			return nil, fmt.Errorf("resolve range end: %w", err)
		}
	}

	dates, err := d.source.TradingDates(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("list trading dates: %w", err)
	}

	d.logger.WithFields(map[string]interface{}{
		"from":  from.Format("2006-01-02"),
		"to":    to.Format("2006-01-02"),
		"dates": len(dates),
	}).Info("Starting historical RS run")

	return d.run(ctx, dates, true)
}

// RunRecent computes the last N calendar days counted back from the
// most recent price date (fast incremental refresh). Always
// recomputes: no resume guard inside the window.
func (d *Driver) RunRecent(ctx context.Context, days int) (*contracts.RunSummary, error) {
	if days <= 0 {
		days = d.cfg.RecentDays
	}

	last, err := d.source.LatestDate(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve latest price date: %w", err)
	}

	start := last.AddDate(0, 0, -days)

	dates, err := d.source.TradingDates(ctx, start, last)
	if err != nil {
		return nil, fmt.Errorf("list trading dates: %w", err)
	}

	d.logger.WithFields(map[string]interface{}{
		"from":  start.Format("2006-01-02"),
		"to":    last.Format("2006-01-02"),
		"dates": len(dates),
	}).Info("Starting recent-window RS run")

	return d.run(ctx, dates, false)
}

// run processes the dates in order. Per-date failures are logged and
// skipped; only cancellation stops the loop, and committed dates stay
// committed.
func (d *Driver) run(ctx context.Context, dates []time.Time, resume bool) (*contracts.RunSummary, error) {
	summary := &contracts.RunSummary{}
	start := time.Now()
	total := len(dates)

	for i, date := range dates {
		// Interruption is honored between dates, never mid-date
		if err := ctx.Err(); err != nil {
			summary.Elapsed = time.Since(start)
			return summary, err
		}

		if resume && d.alreadyComputed(ctx, date) {
			d.logger.WithField("date", date.Format("2006-01-02")).Info("Date already computed, skipping")
			summary.DatesSkipped++
			continue
		}

		records, err := d.orch.ComputeForDate(ctx, date)
		if err != nil {
			if errors.Is(err, contracts.ErrNoPricesForDate) {
				d.logger.WithField("date", date.Format("2006-01-02")).Warn("No prices for date, skipping")
			} else {
				d.logger.WithError(err).WithField("date", date.Format("2006-01-02")).Error("Date computation failed, skipping")
			}
			continue
		}

		if _, err := d.sink.UpsertPriceChanges(ctx, records); err != nil {
			d.logger.WithError(err).WithField("date", date.Format("2006-01-02")).Error("Audit upsert failed, skipping date")
			continue
		}

		written, err := d.sink.UpsertRatings(ctx, records)
		if err != nil {
			d.logger.WithError(err).WithField("date", date.Format("2006-01-02")).Error("Rating upsert failed, skipping date")
			continue
		}

		summary.DatesProcessed++
		summary.RecordsWritten += written

		d.logProgress(i, total, start)
	}

	summary.Elapsed = time.Since(start)

	d.logger.WithFields(map[string]interface{}{
		"dates_processed": summary.DatesProcessed,
		"dates_skipped":   summary.DatesSkipped,
		"records_written": summary.RecordsWritten,
		"elapsed":         summary.Elapsed.Round(time.Second).String(),
	}).Info("RS run finished")

	return summary, nil
}

// alreadyComputed is the resume guard: a date counts as done once it
// holds more than the threshold of persisted rating rows.
func (d *Driver) alreadyComputed(ctx context.Context, date time.Time) bool {
	count, err := d.sink.CountForDate(ctx, date)
	if err != nil {
		d.logger.WithError(err).WithField("date", date.Format("2006-01-02")).Warn("Resume check failed, recomputing date")
		return false
	}
	return count > d.cfg.ResumeThreshold
}

// logProgress reports position, elapsed time and the extrapolated
// remainder after each processed date.
func (d *Driver) logProgress(i, total int, start time.Time) {
	done := i + 1
	elapsed := time.Since(start)
	remaining := time.Duration(0)
	if done > 0 {
		remaining = elapsed / time.Duration(done) * time.Duration(total-done)
	}

	d.logger.Infof("Progress %d/%d (%.1f%%) | elapsed %s | remaining ~%s",
		done, total,
		float64(done)/float64(total)*100,
		elapsed.Round(time.Second),
		remaining.Round(time.Second),
	)
}
