// Package mstl implements MSTL, a decomposition of a time series into a
// trend, one seasonal component per period and a remainder.
//
// Each period is extracted in turn with STL on a series from which the other
// seasonal components have already been removed. A series whose first period
// is 1 or less has no seasonality and only gets a SuperSmoother trend.
//
// # Usage
//
//	d, err := mstl.New(mstl.WithSeasonalWindows(11, 15))
//	if err != nil {
//	    return err
//	}
//	table, err := d.Decompose(values, 24, 168)
//	if err != nil {
//	    return err
//	}
//	daily, _ := table.Seasonal(24)
//	weekly, _ := table.Seasonal(168)
//
// The resulting table has the columns data, trend, seasonal24, seasonal168
// and remainder. With a single period the seasonal column is named seasonal.
//
// # Missing values
//
// NaN values are rejected with MissingDataError; no interpolation is done.
// The remainder is NaN wherever the input is NaN.
//
// # Fitters
//
// The seasonal and trend fitters can be replaced with WithSeasonalFitter and
// WithTrendFitter. Errors returned by a fitter are passed through unchanged.
package mstl
