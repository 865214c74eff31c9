package results

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/youssefm/tadawul-rs/internal/contracts"
)

// Repository implements contracts.ResultSink over the two result
// tables: price_changes (audit) and rs_daily (rating feed). Writes are
// chunked so one failed transaction never rolls back earlier chunks;
// the (symbol, date) upsert key keeps partial progress idempotent.
type Repository struct {
	pool      *pgxpool.Pool
	chunkSize int
}

// NewRepository creates a new result repository
func NewRepository(pool *pgxpool.Pool, chunkSize int) *Repository {
	if chunkSize <= 0 {
		chunkSize = 5000
	}
	return &Repository{pool: pool, chunkSize: chunkSize}
}

// EnsureTables creates the result tables and their indexes if they do
// not exist. Fixed DDL; schema design is owned elsewhere.
func (r *Repository) EnsureTables(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS price_changes (
			id SERIAL PRIMARY KEY,
			symbol VARCHAR(20),
			date DATE,
			close DECIMAL(12, 4),
			change_3m DECIMAL(10, 6),
			change_6m DECIMAL(10, 6),
			change_9m DECIMAL(10, 6),
			change_12m DECIMAL(10, 6),
			rs_raw DECIMAL(10, 6),
			rs_rating INTEGER,
			rank_3m INTEGER,
			rank_6m INTEGER,
			rank_9m INTEGER,
			rank_12m INTEGER,
			company_name VARCHAR(255),
			industry_group VARCHAR(255),
			UNIQUE(symbol, date)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_price_changes_symbol_date ON price_changes(symbol, date)`,
		`CREATE INDEX IF NOT EXISTS idx_price_changes_date ON price_changes(date)`,
		`CREATE INDEX IF NOT EXISTS idx_price_changes_rs_rating ON price_changes(rs_rating DESC)`,
		`CREATE TABLE IF NOT EXISTS rs_daily (
			id SERIAL PRIMARY KEY,
			symbol VARCHAR(20),
			date DATE,
			rs_rating INTEGER,
			rs_raw DECIMAL(10, 6),
			change_3m DECIMAL(10, 6),
			change_6m DECIMAL(10, 6),
			change_9m DECIMAL(10, 6),
			change_12m DECIMAL(10, 6),
			rank_3m INTEGER,
			rank_6m INTEGER,
			rank_9m INTEGER,
			rank_12m INTEGER,
			company_name VARCHAR(255),
			industry_group VARCHAR(255),
			created_at TIMESTAMPTZ DEFAULT NOW(),
			UNIQUE(symbol, date)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_rs_daily_symbol_date ON rs_daily(symbol, date)`,
		`CREATE INDEX IF NOT EXISTS idx_rs_daily_date ON rs_daily(date)`,
		`CREATE INDEX IF NOT EXISTS idx_rs_daily_rating ON rs_daily(rs_rating DESC)`,
	}

	for _, stmt := range stmts {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure result tables: %w", err)
		}
	}
	return nil
}

// UpsertPriceChanges writes the audit rows
func (r *Repository) UpsertPriceChanges(ctx context.Context, records []contracts.RankRecord) (int, error) {
	query := `
		INSERT INTO price_changes
		(symbol, date, close, change_3m, change_6m, change_9m, change_12m,
		 rs_raw, rs_rating, rank_3m, rank_6m, rank_9m, rank_12m,
		 company_name, industry_group)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (symbol, date)
		DO UPDATE SET
			close = EXCLUDED.close,
			change_3m = EXCLUDED.change_3m,
			change_6m = EXCLUDED.change_6m,
			change_9m = EXCLUDED.change_9m,
			change_12m = EXCLUDED.change_12m,
			rs_raw = EXCLUDED.rs_raw,
			rs_rating = EXCLUDED.rs_rating,
			rank_3m = EXCLUDED.rank_3m,
			rank_6m = EXCLUDED.rank_6m,
			rank_9m = EXCLUDED.rank_9m,
			rank_12m = EXCLUDED.rank_12m,
			company_name = EXCLUDED.company_name,
			industry_group = EXCLUDED.industry_group
	`

	return r.upsertChunked(ctx, records, func(batch *pgx.Batch, rec contracts.RankRecord) {
		batch.Queue(query,
			rec.Symbol, rec.Date, nullFloat(rec.Close),
			nullFloat(rec.Change3M), nullFloat(rec.Change6M), nullFloat(rec.Change9M), nullFloat(rec.Change12M),
			nullFloat(rec.RSRaw), nullInt(rec.RSRating),
			nullInt(rec.Rank3M), nullInt(rec.Rank6M), nullInt(rec.Rank9M), nullInt(rec.Rank12M),
			rec.CompanyName, rec.IndustryGroup,
		)
	})
}

// UpsertRatings writes the rating rows. created_at is set on first
// insert and deliberately left out of the conflict update.
func (r *Repository) UpsertRatings(ctx context.Context, records []contracts.RankRecord) (int, error) {
	query := `
		INSERT INTO rs_daily
		(symbol, date, rs_rating, rs_raw, change_3m, change_6m, change_9m, change_12m,
		 rank_3m, rank_6m, rank_9m, rank_12m, company_name, industry_group)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (symbol, date)
		DO UPDATE SET
			rs_rating = EXCLUDED.rs_rating,
			rs_raw = EXCLUDED.rs_raw,
			change_3m = EXCLUDED.change_3m,
			change_6m = EXCLUDED.change_6m,
			change_9m = EXCLUDED.change_9m,
			change_12m = EXCLUDED.change_12m,
			rank_3m = EXCLUDED.rank_3m,
			rank_6m = EXCLUDED.rank_6m,
			rank_9m = EXCLUDED.rank_9m,
			rank_12m = EXCLUDED.rank_12m,
			company_name = EXCLUDED.company_name,
			industry_group = EXCLUDED.industry_group
	`

	return r.upsertChunked(ctx, records, func(batch *pgx.Batch, rec contracts.RankRecord) {
		batch.Queue(query,
			rec.Symbol, rec.Date, nullInt(rec.RSRating), nullFloat(rec.RSRaw),
			nullFloat(rec.Change3M), nullFloat(rec.Change6M), nullFloat(rec.Change9M), nullFloat(rec.Change12M),
			nullInt(rec.Rank3M), nullInt(rec.Rank6M), nullInt(rec.Rank9M), nullInt(rec.Rank12M),
			rec.CompanyName, rec.IndustryGroup,
		)
	})
}

// CountForDate returns how many rating rows exist for a date
func (r *Repository) CountForDate(ctx context.Context, date time.Time) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM rs_daily WHERE date = $1`, date).Scan(&count)
	return count, err
}

// upsertChunked splits the records into fixed-size chunks, one
// transaction each. A failing chunk aborts the call but leaves prior
// chunks committed (at-least-once across chunks; the upsert key makes
// replays safe).
func (r *Repository) upsertChunked(ctx context.Context, records []contracts.RankRecord, queue func(*pgx.Batch, contracts.RankRecord)) (int, error) {
	written := 0

	for start := 0; start < len(records); start += r.chunkSize {
		end := start + r.chunkSize
		if end > len(records) {
			end = len(records)
		}

		if err := r.writeChunk(ctx, records[start:end], queue); err != nil {
			return written, fmt.Errorf("upsert chunk at offset %d: %w", start, err)
		}
		written += end - start
	}

	return written, nil
}

func (r *Repository) writeChunk(ctx context.Context, chunk []contracts.RankRecord, queue func(*pgx.Batch, contracts.RankRecord)) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, rec := range chunk {
		queue(batch, rec)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// nullFloat converts an optional float to its SQL value. Absent and
// NaN both become NULL, never zero.
func nullFloat(p *float64) interface{} {
	if p == nil || math.IsNaN(*p) {
		return nil
	}
	return *p
}

func nullInt(p *int) interface{} {
	if p == nil {
		return nil
	}
	return *p
}
