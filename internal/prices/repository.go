package prices

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/youssefm/tadawul-rs/internal/contracts"
)

// Repository implements contracts.PriceSource over the prices table.
// Read-only: the scraper that fills the table lives outside this
// engine.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new price repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// SymbolsOn returns every symbol with a price row on the date
func (r *Repository) SymbolsOn(ctx context.Context, date time.Time) ([]string, error) {
	query := `
		SELECT DISTINCT symbol
		FROM prices
		WHERE date = $1
		ORDER BY symbol
	`

	rows, err := r.pool.Query(ctx, query, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		symbols = append(symbols, s)
	}
	return symbols, rows.Err()
}

// HistoryThrough returns the full price history of a symbol up to and
// including the date, oldest first
func (r *Repository) HistoryThrough(ctx context.Context, symbol string, date time.Time) ([]contracts.PricePoint, error) {
	query := `
		SELECT symbol, date, close, COALESCE(company_name, ''), COALESCE(industry_group, '')
		FROM prices
		WHERE symbol = $1 AND date <= $2
		ORDER BY date ASC
	`

	rows, err := r.pool.Query(ctx, query, symbol, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []contracts.PricePoint
	for rows.Next() {
		var p contracts.PricePoint
		if err := rows.Scan(&p.Symbol, &p.Date, &p.Close, &p.CompanyName, &p.IndustryGroup); err != nil {
			return nil, err
		}
		history = append(history, p)
	}
	return history, rows.Err()
}

// TradingDates returns the distinct trading dates within [from, to]
func (r *Repository) TradingDates(ctx context.Context, from, to time.Time) ([]time.Time, error) {
	query := `
		SELECT DISTINCT date
		FROM prices
		WHERE date >= $1 AND date <= $2
		ORDER BY date
	`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

// EarliestDate returns the oldest date in the price store
func (r *Repository) EarliestDate(ctx context.Context) (time.Time, error) {
	var d time.Time
	err := r.pool.QueryRow(ctx, `SELECT MIN(date) FROM prices`).Scan(&d)
	return d, err
}

// LatestDate returns the most recent date in the price store
func (r *Repository) LatestDate(ctx context.Context) (time.Time, error) {
	var d time.Time
	err := r.pool.QueryRow(ctx, `SELECT MAX(date) FROM prices`).Scan(&d)
	return d, err
}
