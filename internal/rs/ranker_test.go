package rs

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankCohort(t *testing.T) {
	t.Run("distinct values rank monotonically", func(t *testing.T) {
		values := map[string]*float64{
			"1010": fptr(0.50),
			"2020": fptr(0.10),
			"3030": fptr(-0.20),
			"4040": fptr(0.30),
		}

		ranks := RankCohort(values)
		require.Len(t, ranks, 4)

		// 3030 < 2020 < 4040 < 1010
		assert.Less(t, *ranks["3030"], *ranks["2020"])
		assert.Less(t, *ranks["2020"], *ranks["4040"])
		assert.Less(t, *ranks["4040"], *ranks["1010"])

		// Top of the cohort clips at 99
		assert.Equal(t, 99, *ranks["1010"])
	})

	t.Run("ranks stay within 1 and 99", func(t *testing.T) {
		// A cohort large enough that the raw percentile of the lowest
		// value rounds below one
		values := make(map[string]*float64, 300)
		for i := 0; i < 300; i++ {
			values[fmt.Sprintf("%04d", i)] = fptr(float64(i))
		}

		ranks := RankCohort(values)
		for symbol, rank := range ranks {
			require.NotNil(t, rank, symbol)
			assert.GreaterOrEqual(t, *rank, 1, symbol)
			assert.LessOrEqual(t, *rank, 99, symbol)
		}

		assert.Equal(t, 1, *ranks["0000"])
		assert.Equal(t, 99, *ranks["0299"])
	})

	t.Run("ties receive the mean of their occupied ranks", func(t *testing.T) {
		values := map[string]*float64{
			"1010": fptr(0.10),
			"2020": fptr(0.10),
			"3030": fptr(0.50),
			"4040": fptr(-0.10),
		}

		ranks := RankCohort(values)

		// Equal inputs, equal outputs
		assert.Equal(t, *ranks["1010"], *ranks["2020"])

		// The tied pair occupies ranks 2 and 3: mean 2.5 of 4 -> 63
		assert.Equal(t, 63, *ranks["1010"])
		assert.Equal(t, 25, *ranks["4040"])
		assert.Equal(t, 99, *ranks["3030"])
	})

	t.Run("all equal values share one rank", func(t *testing.T) {
		values := map[string]*float64{
			"1010": fptr(0.2),
			"2020": fptr(0.2),
			"3030": fptr(0.2),
		}

		ranks := RankCohort(values)

		// Mean of ranks 1..3 is 2 of 3 -> 67
		for symbol := range values {
			assert.Equal(t, 67, *ranks[symbol], symbol)
		}
	})

	t.Run("absent values stay absent but present", func(t *testing.T) {
		values := map[string]*float64{
			"1010": fptr(0.3),
			"2020": nil,
			"3030": fptr(0.1),
		}

		ranks := RankCohort(values)
		require.Len(t, ranks, 3)

		rank, ok := ranks["2020"]
		assert.True(t, ok, "absent symbol must still appear in the result")
		assert.Nil(t, rank)

		// Absent values do not shrink the cohort of ranked ones
		assert.Equal(t, 50, *ranks["3030"])
		assert.Equal(t, 99, *ranks["1010"])
	})

	t.Run("empty and all-absent cohorts", func(t *testing.T) {
		assert.Empty(t, RankCohort(map[string]*float64{}))

		ranks := RankCohort(map[string]*float64{"1010": nil})
		require.Len(t, ranks, 1)
		assert.Nil(t, ranks["1010"])
	})

	t.Run("deterministic across runs", func(t *testing.T) {
		values := map[string]*float64{
			"1010": fptr(0.10),
			"2020": fptr(0.10),
			"3030": fptr(0.10),
			"4040": fptr(0.25),
			"5050": fptr(-0.40),
			"6060": nil,
		}

		first := RankCohort(values)
		for i := 0; i < 50; i++ {
			again := RankCohort(values)
			for symbol := range values {
				if first[symbol] == nil {
					assert.Nil(t, again[symbol], symbol)
					continue
				}
				assert.Equal(t, *first[symbol], *again[symbol], symbol)
			}
		}
	})

	t.Run("single value clips to 99", func(t *testing.T) {
		ranks := RankCohort(map[string]*float64{"1010": fptr(0.0)})
		assert.Equal(t, 99, *ranks["1010"])
	})
}
