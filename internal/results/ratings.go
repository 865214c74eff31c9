package results

import (
	"context"
	"time"
)

// Rating is one persisted rs_daily row, read back for the verify
// command and the ratings API.
type Rating struct {
	Symbol        string     `json:"symbol"`
	Date          time.Time  `json:"date"`
	RSRating      *int       `json:"rs_rating"`
	RSRaw         *float64   `json:"rs_raw"`
	Change3M      *float64   `json:"change_3m"`
	Change6M      *float64   `json:"change_6m"`
	Change9M      *float64   `json:"change_9m"`
	Change12M     *float64   `json:"change_12m"`
	Rank3M        *int       `json:"rank_3m"`
	Rank6M        *int       `json:"rank_6m"`
	Rank9M        *int       `json:"rank_9m"`
	Rank12M       *int       `json:"rank_12m"`
	CompanyName   string     `json:"company_name"`
	IndustryGroup string     `json:"industry_group"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
}

const ratingColumns = `
	symbol, date, rs_rating, rs_raw,
	change_3m, change_6m, change_9m, change_12m,
	rank_3m, rank_6m, rank_9m, rank_12m,
	COALESCE(company_name, ''), COALESCE(industry_group, ''), created_at
`

// TopRatings returns the strongest symbols for a date, best first.
// Rows without a rating sort last.
func (r *Repository) TopRatings(ctx context.Context, date time.Time, limit int) ([]Rating, error) {
	query := `
		SELECT ` + ratingColumns + `
		FROM rs_daily
		WHERE date = $1
		ORDER BY rs_rating DESC NULLS LAST, symbol
		LIMIT $2
	`
	return r.queryRatings(ctx, query, date, limit)
}

// BottomRatings returns the weakest rated symbols for a date
func (r *Repository) BottomRatings(ctx context.Context, date time.Time, limit int) ([]Rating, error) {
	query := `
		SELECT ` + ratingColumns + `
		FROM rs_daily
		WHERE date = $1 AND rs_rating IS NOT NULL
		ORDER BY rs_rating ASC, symbol
		LIMIT $2
	`
	return r.queryRatings(ctx, query, date, limit)
}

// SymbolHistory returns the most recent ratings of one symbol, newest
// first
func (r *Repository) SymbolHistory(ctx context.Context, symbol string, limit int) ([]Rating, error) {
	query := `
		SELECT ` + ratingColumns + `
		FROM rs_daily
		WHERE symbol = $1
		ORDER BY date DESC
		LIMIT $2
	`
	return r.queryRatings(ctx, query, symbol, limit)
}

// LatestRatingDate returns the most recent date present in rs_daily
func (r *Repository) LatestRatingDate(ctx context.Context) (time.Time, error) {
	var d time.Time
	err := r.pool.QueryRow(ctx, `SELECT MAX(date) FROM rs_daily`).Scan(&d)
	return d, err
}

// RatingStats summarizes one date's rating distribution
type RatingStats struct {
	Date          time.Time `json:"date"`
	Total         int       `json:"total"`
	AvgRating     *float64  `json:"avg_rating"`
	MinRating     *int      `json:"min_rating"`
	MaxRating     *int      `json:"max_rating"`
	Rating80Plus  int       `json:"rating_80_plus"`
	Rating20Below int       `json:"rating_20_below"`
}

// StatsForDate returns summary statistics over one date's cohort
func (r *Repository) StatsForDate(ctx context.Context, date time.Time) (*RatingStats, error) {
	query := `
		SELECT
			COUNT(*) AS total,
			AVG(rs_rating) AS avg_rating,
			MIN(rs_rating) AS min_rating,
			MAX(rs_rating) AS max_rating,
			COUNT(CASE WHEN rs_rating >= 80 THEN 1 END) AS rating_80_plus,
			COUNT(CASE WHEN rs_rating <= 20 THEN 1 END) AS rating_20_below
		FROM rs_daily
		WHERE date = $1
	`

	stats := &RatingStats{Date: date}
	err := r.pool.QueryRow(ctx, query, date).Scan(
		&stats.Total, &stats.AvgRating, &stats.MinRating, &stats.MaxRating,
		&stats.Rating80Plus, &stats.Rating20Below,
	)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *Repository) queryRatings(ctx context.Context, query string, args ...interface{}) ([]Rating, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ratings []Rating
	for rows.Next() {
		var rt Rating
		if err := rows.Scan(
			&rt.Symbol, &rt.Date, &rt.RSRating, &rt.RSRaw,
			&rt.Change3M, &rt.Change6M, &rt.Change9M, &rt.Change12M,
			&rt.Rank3M, &rt.Rank6M, &rt.Rank9M, &rt.Rank12M,
			&rt.CompanyName, &rt.IndustryGroup, &rt.CreatedAt,
		); err != nil {
			return nil, err
		}
		ratings = append(ratings, rt)
	}
	return ratings, rows.Err()
}
