package rs

import (
	"context"
	"fmt"
	"time"

	"github.com/youssefm/tadawul-rs/internal/contracts"
	"github.com/youssefm/tadawul-rs/pkg/config"
	"github.com/youssefm/tadawul-rs/pkg/logger"
)

// Orchestrator computes the full RS cohort for one trading date:
// per-symbol period returns and raw scores first, then one
// cross-sectional ranking pass per column over the whole cohort.
type Orchestrator struct {
	source     contracts.PriceSource
	minHistory int
	logger     *logger.Logger
}

// NewOrchestrator creates a new orchestrator
func NewOrchestrator(source contracts.PriceSource, cfg config.EngineConfig, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		source:     source,
		minHistory: cfg.MinHistoryPoints,
		logger:     log.WithField("module", "rs"),
	}
}

// ComputeForDate produces exactly one RankRecord per symbol that has a
// price on the date. Symbols that cannot resolve a raw score (new
// listings, bad data, per-symbol failures) still appear in the output
// with null metric fields so downstream consumers see "data pending"
// rather than a silent omission.
func (o *Orchestrator) ComputeForDate(ctx context.Context, date time.Time) ([]contracts.RankRecord, error) {
	symbols, err := o.source.SymbolsOn(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("fetch symbols for %s: %w", date.Format("2006-01-02"), err)
	}

	if len(symbols) == 0 {
		return nil, fmt.Errorf("%w: %s", contracts.ErrNoPricesForDate, date.Format("2006-01-02"))
	}

	o.logger.WithFields(map[string]interface{}{
		"date":    date.Format("2006-01-02"),
		"symbols": len(symbols),
	}).Debug("Computing RS cohort")

	records := make([]contracts.RankRecord, 0, len(symbols))
	resolved := 0
	for _, symbol := range symbols {
		rec := o.computeSymbol(ctx, symbol, date)
		if rec.RSRaw != nil {
			resolved++
		}
		records = append(records, rec)
	}

	o.rankCohort(records)

	o.logger.WithFields(map[string]interface{}{
		"date":     date.Format("2006-01-02"),
		"symbols":  len(symbols),
		"resolved": resolved,
	}).Info("RS cohort computed")

	return records, nil
}

// computeSymbol assembles the pre-ranking record for one symbol. It
// never fails the date: any error or panic degrades to a record with
// null metric fields.
func (o *Orchestrator) computeSymbol(ctx context.Context, symbol string, date time.Time) (rec contracts.RankRecord) {
	rec = contracts.RankRecord{Symbol: symbol, Date: date}

	defer func() {
		if r := recover(); r != nil {
			o.logger.WithFields(map[string]interface{}{
				"symbol": symbol,
				"date":   date.Format("2006-01-02"),
				"panic":  r,
			}).Error("Symbol computation panicked, emitting null record")
			rec = contracts.RankRecord{Symbol: symbol, Date: date}
		}
	}()

	history, err := o.source.HistoryThrough(ctx, symbol, date)
	if err != nil {
		o.logger.WithError(err).WithField("symbol", symbol).Warn("Failed to load price history, skipping symbol")
		return rec
	}

	if len(history) == 0 {
		return rec
	}

	// The most recent row carries the display metadata for the date
	current := history[len(history)-1]
	rec.CompanyName = current.CompanyName
	rec.IndustryGroup = current.IndustryGroup
	if sameDay(current.Date, date) {
		closePrice := current.Close
		rec.Close = &closePrice
	}

	// New-listing guard: too little history to bother computing
	if len(history) < o.minHistory {
		return rec
	}

	returns := ComputeReturns(history, date)
	rec.Change3M = returns.M3
	rec.Change6M = returns.M6
	rec.Change9M = returns.M9
	rec.Change12M = returns.M12
	rec.RSRaw = CompositeRaw(returns)

	return rec
}

// rankCohort runs the cross-sectional ranker once per ranked column
// and merges the results back into the records. This is the
// synchronization barrier: it needs every symbol's values first.
func (o *Orchestrator) rankCohort(records []contracts.RankRecord) {
	columns := []struct {
		value func(*contracts.RankRecord) *float64
		rank  func(*contracts.RankRecord) **int
	}{
		{func(r *contracts.RankRecord) *float64 { return r.Change3M }, func(r *contracts.RankRecord) **int { return &r.Rank3M }},
		{func(r *contracts.RankRecord) *float64 { return r.Change6M }, func(r *contracts.RankRecord) **int { return &r.Rank6M }},
		{func(r *contracts.RankRecord) *float64 { return r.Change9M }, func(r *contracts.RankRecord) **int { return &r.Rank9M }},
		{func(r *contracts.RankRecord) *float64 { return r.Change12M }, func(r *contracts.RankRecord) **int { return &r.Rank12M }},
		{func(r *contracts.RankRecord) *float64 { return r.RSRaw }, func(r *contracts.RankRecord) **int { return &r.RSRating }},
	}

	for _, col := range columns {
		values := make(map[string]*float64, len(records))
		for i := range records {
			values[records[i].Symbol] = col.value(&records[i])
		}

		ranks := RankCohort(values)
		for i := range records {
			*col.rank(&records[i]) = ranks[records[i].Symbol]
		}
	}
}
