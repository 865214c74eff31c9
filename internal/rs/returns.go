package rs

import (
	"time"

	"github.com/youssefm/tadawul-rs/internal/contracts"
)

// ComputeReturn computes the fractional price change of one symbol
// over a calendar-month horizon ending at asOf.
//
// The anchor is the latest price on or before asOf minus the horizon;
// trading gaps are tolerated, never interpolated. Returns nil when the
// symbol has no price exactly at asOf, when no anchor exists
// (insufficient history) or when the anchor close is non-positive.
func ComputeReturn(history []contracts.PricePoint, asOf time.Time, months int) *float64 {
	current, ok := closeAt(history, asOf)
	if !ok {
		return nil
	}

	target := monthsBefore(asOf, months)

	anchor, ok := latestCloseOnOrBefore(history, target)
	if !ok {
		return nil
	}

	// Guard against corrupt or zero prices
	if anchor <= 0 {
		return nil
	}

	v := Round6((current - anchor) / anchor)
	return &v
}

// ComputeReturns computes all four horizon returns for one symbol.
func ComputeReturns(history []contracts.PricePoint, asOf time.Time) contracts.PeriodReturns {
	return contracts.PeriodReturns{
		M3:  ComputeReturn(history, asOf, 3),
		M6:  ComputeReturn(history, asOf, 6),
		M9:  ComputeReturn(history, asOf, 9),
		M12: ComputeReturn(history, asOf, 12),
	}
}

// monthsBefore subtracts calendar months, preserving the day of month
// where possible and clamping to the end of the target month
// otherwise. 2024-03-31 minus one month is 2024-02-29, never a
// normalized 2024-03-02.
func monthsBefore(d time.Time, months int) time.Time {
	year, month, day := d.Date()

	total := year*12 + int(month) - 1 - months
	targetYear := total / 12
	targetMonth := time.Month(total%12 + 1)

	if last := daysInMonth(targetYear, targetMonth); day > last {
		day = last
	}

	return time.Date(targetYear, targetMonth, day, 0, 0, 0, 0, d.Location())
}

// daysInMonth returns the number of days in the month. Day zero of the
// following month normalizes back to the last day of this one.
func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// closeAt finds the close exactly at the given date. History is
// ordered ascending, so scan from the end where asOf lives.
func closeAt(history []contracts.PricePoint, date time.Time) (float64, bool) {
	for i := len(history) - 1; i >= 0; i-- {
		if sameDay(history[i].Date, date) {
			return history[i].Close, true
		}
		if history[i].Date.Before(date) {
			break
		}
	}
	return 0, false
}

// latestCloseOnOrBefore finds the most recent close with date <= target.
func latestCloseOnOrBefore(history []contracts.PricePoint, target time.Time) (float64, bool) {
	for i := len(history) - 1; i >= 0; i-- {
		d := history[i].Date
		if sameDay(d, target) || d.Before(target) {
			return history[i].Close, true
		}
	}
	return 0, false
}

// sameDay compares calendar days, ignoring clock time and zone
// differences between store timestamps.
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
