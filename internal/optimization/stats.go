package optimization

import (
	"github.com/rgehrsitz/rothsim/internal/domain"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// scoreStats summarizes the spread of candidate scores
func scoreStats(scores []decimal.Decimal) domain.ScoreStats {
	if len(scores) == 0 {
		return domain.ScoreStats{}
	}
	xs := make([]float64, len(scores))
	for i, s := range scores {
		xs[i] = s.InexactFloat64()
	}

	out := domain.ScoreStats{
		Count: len(xs),
		Min:   floats.Min(xs),
		Max:   floats.Max(xs),
		Mean:  stat.Mean(xs, nil),
	}
	if len(xs) > 1 {
		out.StdDev = stat.StdDev(xs, nil)
	}
	out.Spread = out.Max - out.Min
	return out
}
