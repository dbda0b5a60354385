// Package stats provides diagnostics for the components of a decomposition.
//
// All functions take plain slices and skip NaN values, so they can be applied
// directly to a remainder column.
//
// # Autocorrelation Functions
//
// Look for structure left in the remainder:
//
//	acf := stats.ACF(remainder, 48)
//	pacf := stats.PACF(remainder, 48)
//
//	result := stats.ACFWithConfidence(remainder, 48)
//	significant := stats.SignificantLags(result.Values, result.ConfBounds)
//
// # Residual Tests
//
// A well separated remainder should be close to white noise:
//
//	lb := stats.LjungBox(remainder, 24, 0)
//	if lb.PValue > 0.05 {
//	    // No significant autocorrelation left
//	}
//
//	bp := stats.BoxPierce(remainder, 24, 0)
//	dw := stats.DurbinWatson(remainder)
//
// # Component Strength
//
// Measure how much each component stands out from the remainder
// (Wang, Smith and Hyndman 2006):
//
//	fs := stats.SeasonalStrength(seasonal, remainder)
//	ft := stats.TrendStrength(trend, remainder)
package stats
