package rs

import (
	"math"
	"sort"
)

// RankCohort converts each value into a cross-sectional percentile
// rank in [1, 99] over all symbols sharing one trading date.
//
// Percentiles use the average-rank convention: tied values receive the
// mean of the ranks they would occupy, so equal inputs always get
// equal output ranks. Entries are sorted by value then symbol, which
// makes the result independent of map iteration order.
//
// Absent (nil) inputs stay absent in the output; they are never
// defaulted to zero and never dropped from the result set.
func RankCohort(values map[string]*float64) map[string]*int {
	ranks := make(map[string]*int, len(values))

	type entry struct {
		symbol string
		value  float64
	}

	cohort := make([]entry, 0, len(values))
	for symbol, v := range values {
		if v == nil {
			ranks[symbol] = nil
			continue
		}
		cohort = append(cohort, entry{symbol: symbol, value: *v})
	}

	if len(cohort) == 0 {
		return ranks
	}

	sort.Slice(cohort, func(i, j int) bool {
		if cohort[i].value != cohort[j].value {
			return cohort[i].value < cohort[j].value
		}
		return cohort[i].symbol < cohort[j].symbol
	})

	n := float64(len(cohort))

	for i := 0; i < len(cohort); {
		// Extend over the run of ties starting at i
		j := i
		for j+1 < len(cohort) && cohort[j+1].value == cohort[i].value {
			j++
		}

		// Positions i..j hold ranks i+1..j+1; ties share the mean
		avgRank := float64(i+j+2) / 2
		rank := clampRank(math.Round(avgRank / n * 100))

		for k := i; k <= j; k++ {
			r := rank
			ranks[cohort[k].symbol] = &r
		}

		i = j + 1
	}

	return ranks
}

func clampRank(x float64) int {
	if x < 1 {
		return 1
	}
	if x > 99 {
		return 99
	}
	return int(x)
}
