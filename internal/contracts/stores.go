package contracts

import (
	"context"
	"errors"
	"time"
)

// ErrNoPricesForDate is returned by the orchestrator when the price
// store has no rows at all for the requested trading date.
var ErrNoPricesForDate = errors.New("no prices for date")

// PriceSource is the read-only view of the price store the engine
// depends on.
type PriceSource interface {
	// SymbolsOn returns every symbol with a price row on the date.
	SymbolsOn(ctx context.Context, date time.Time) ([]string, error)

	// HistoryThrough returns the full price history of one symbol up
	// to and including the date, ordered by date ascending.
	HistoryThrough(ctx context.Context, symbol string, date time.Time) ([]PricePoint, error)

	// TradingDates returns the distinct trading dates in [from, to],
	// ascending.
	TradingDates(ctx context.Context, from, to time.Time) ([]time.Time, error)

	// EarliestDate and LatestDate bound the available history.
	EarliestDate(ctx context.Context) (time.Time, error)
	LatestDate(ctx context.Context) (time.Time, error)
}

// ResultSink persists finished rating rows. Upserts are keyed by
// (symbol, date) so recomputation overwrites in place.
type ResultSink interface {
	// UpsertPriceChanges writes the audit table rows.
	UpsertPriceChanges(ctx context.Context, records []RankRecord) (int, error)

	// UpsertRatings writes the rating table rows, preserving the
	// original created_at on conflict.
	UpsertRatings(ctx context.Context, records []RankRecord) (int, error)

	// CountForDate returns how many rating rows exist for the date.
	// The batch driver uses it as its resume guard.
	CountForDate(ctx context.Context, date time.Time) (int, error)
}
