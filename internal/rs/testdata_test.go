package rs

import (
	"context"
	"sort"
	"time"

	"github.com/youssefm/tadawul-rs/internal/contracts"
)

// fakeSource is an in-memory contracts.PriceSource for engine tests.
type fakeSource struct {
	prices map[string][]contracts.PricePoint
}

func newFakeSource() *fakeSource {
	return &fakeSource{prices: make(map[string][]contracts.PricePoint)}
}

func (f *fakeSource) add(symbol string, points []contracts.PricePoint) {
	f.prices[symbol] = append(f.prices[symbol], points...)
	sort.Slice(f.prices[symbol], func(i, j int) bool {
		return f.prices[symbol][i].Date.Before(f.prices[symbol][j].Date)
	})
}

func (f *fakeSource) SymbolsOn(_ context.Context, date time.Time) ([]string, error) {
	var symbols []string
	for symbol, history := range f.prices {
		for _, p := range history {
			if sameDay(p.Date, date) {
				symbols = append(symbols, symbol)
				break
			}
		}
	}
	sort.Strings(symbols)
	return symbols, nil
}

func (f *fakeSource) HistoryThrough(_ context.Context, symbol string, date time.Time) ([]contracts.PricePoint, error) {
	var history []contracts.PricePoint
	for _, p := range f.prices[symbol] {
		if p.Date.After(date) && !sameDay(p.Date, date) {
			break
		}
		history = append(history, p)
	}
	return history, nil
}

func (f *fakeSource) TradingDates(_ context.Context, from, to time.Time) ([]time.Time, error) {
	seen := make(map[string]time.Time)
	for _, history := range f.prices {
		for _, p := range history {
			if p.Date.Before(from) || p.Date.After(to) {
				continue
			}
			seen[p.Date.Format("2006-01-02")] = p.Date
		}
	}

	dates := make([]time.Time, 0, len(seen))
	for _, d := range seen {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}

func (f *fakeSource) EarliestDate(_ context.Context) (time.Time, error) {
	return f.boundDate(true), nil
}

func (f *fakeSource) LatestDate(_ context.Context) (time.Time, error) {
	return f.boundDate(false), nil
}

func (f *fakeSource) boundDate(earliest bool) time.Time {
	var bound time.Time
	for _, history := range f.prices {
		for _, p := range history {
			if bound.IsZero() ||
				(earliest && p.Date.Before(bound)) ||
				(!earliest && p.Date.After(bound)) {
				bound = p.Date
			}
		}
	}
	return bound
}

// dailyHistory generates one price point per calendar day.
func dailyHistory(symbol string, start time.Time, days int, price func(i int) float64) []contracts.PricePoint {
	points := make([]contracts.PricePoint, 0, days)
	for i := 0; i < days; i++ {
		points = append(points, contracts.PricePoint{
			Symbol:        symbol,
			Date:          start.AddDate(0, 0, i),
			Close:         price(i),
			CompanyName:   symbol + " CO",
			IndustryGroup: "Materials",
		})
	}
	return points
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func fptr(v float64) *float64 { return &v }
