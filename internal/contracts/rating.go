package contracts

import "time"

// Horizons lists the lookback windows, in calendar months, that feed
// the composite RS score.
var Horizons = [4]int{3, 6, 9, 12}

// PricePoint is one row of the external price store. The store owns
// these rows; the engine never writes them.
type PricePoint struct {
	Symbol        string
	Date          time.Time
	Close         float64
	CompanyName   string
	IndustryGroup string
}

// PeriodReturns holds the four horizon returns for one symbol on one
// date. A nil entry means absent: insufficient history or an invalid
// anchor price. Absent is never collapsed to zero.
type PeriodReturns struct {
	M3  *float64
	M6  *float64
	M9  *float64
	M12 *float64
}

// Resolved reports whether every horizon produced a value. The
// composite score is defined only in that case.
func (p PeriodReturns) Resolved() bool {
	return p.M3 != nil && p.M6 != nil && p.M9 != nil && p.M12 != nil
}

// RankRecord is the finished output row for one (symbol, date).
// Pointer fields are nil when the underlying metric is absent and are
// persisted as SQL NULL.
type RankRecord struct {
	Symbol        string
	Date          time.Time
	Close         *float64
	Change3M      *float64
	Change6M      *float64
	Change9M      *float64
	Change12M     *float64
	RSRaw         *float64
	RSRating      *int
	Rank3M        *int
	Rank6M        *int
	Rank9M        *int
	Rank12M       *int
	CompanyName   string
	IndustryGroup string
}

// RunSummary reports the outcome of one batch run.
type RunSummary struct {
	DatesProcessed int
	DatesSkipped   int
	RecordsWritten int
	Elapsed        time.Duration
}
