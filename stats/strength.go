package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// SeasonalStrength measures how much of the variation of seasonal+remainder
// is explained by the seasonal component:
//
//	max(0, 1 - Var(remainder) / Var(seasonal + remainder))
//
// Values close to 1 indicate strong seasonality. Positions where either input
// is NaN are skipped. It returns NaN when the lengths differ or fewer than
// two positions remain.
func SeasonalStrength(seasonal, remainder []float64) float64 {
	return strength(seasonal, remainder)
}

// TrendStrength is SeasonalStrength applied to the trend component.
func TrendStrength(trend, remainder []float64) float64 {
	return strength(trend, remainder)
}

func strength(component, remainder []float64) float64 {
	if len(component) != len(remainder) {
		return math.NaN()
	}

	rem := make([]float64, 0, len(remainder))
	sum := make([]float64, 0, len(remainder))
	for i, r := range remainder {
		c := component[i]
		if math.IsNaN(c) || math.IsNaN(r) {
			continue
		}
		rem = append(rem, r)
		sum = append(sum, c+r)
	}
	if len(rem) < 2 {
		return math.NaN()
	}

	total := stat.Variance(sum, nil)
	if total == 0 {
		return 0
	}
	return math.Max(0, 1-stat.Variance(rem, nil)/total)
}
