package rs

import (
	"math"

	"github.com/youssefm/tadawul-rs/internal/contracts"
)

// Horizon weights for the composite raw score. Fixed: changing them
// would make historical rows incomparable with new ones.
const (
	Weight3M  = 0.40
	Weight6M  = 0.20
	Weight9M  = 0.20
	Weight12M = 0.20
)

// CompositeRaw combines the four horizon returns into one weighted raw
// score. Strict: if any horizon is absent the composite is absent. No
// partial averaging.
func CompositeRaw(r contracts.PeriodReturns) *float64 {
	if !r.Resolved() {
		return nil
	}

	v := Round6(*r.M3*Weight3M + *r.M6*Weight6M + *r.M9*Weight9M + *r.M12*Weight12M)
	return &v
}

// Round6 rounds to six decimal places, the precision stored in the
// result tables. Keeps recomputed rows byte-identical to stored ones.
func Round6(x float64) float64 {
	return math.Round(x*1e6) / 1e6
}
