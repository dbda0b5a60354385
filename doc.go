// Package gomstl provides Multiple Seasonal-Trend decomposition using Loess
// (MSTL) for time series with more than one seasonal cycle.
//
// MSTL extends STL by extracting the seasonal components one period at a
// time, shortest first, and refining them over one or more outer passes.
// Each seasonal fit returns a trend; the trend kept is the one from the
// last fit. A series without seasonality is only smoothed.
//
// # Quick Start
//
// Decompose hourly data with daily and weekly cycles:
//
//	table, err := mstl.Decompose(values, []int{24, 168})
//	trend := table.Trend()
//	daily, _ := table.Seasonal(24)
//	remainder := table.Remainder()
//
// Tune the decomposer with options:
//
//	d, _ := mstl.New(
//		mstl.WithSeasonalWindows(11, 15),
//		mstl.WithIterations(2),
//		mstl.WithSTLParams(stl.Params{Robust: true}),
//	)
//	table, err := d.DecomposeSeries(series, 24, 168)
//
// # Packages
//
// The library is organized into the following packages:
//
//   - mstl: The decomposer, its options and the result table
//   - stl: Seasonal-Trend decomposition by Loess for a single period
//   - supersmoother: Friedman's variable span smoother for trend-only series
//   - stats: Autocorrelation, portmanteau tests and component strength
//   - snapshot: Compressed binary encoding of result tables
//   - timeseries: Time series data structures and CSV loading
//
// The mstl command in cmd/mstl decomposes CSV files from the command line.
//
// # References
//
//   - Bandara, K., Hyndman, R.J., & Bergmeir, C. (2021). MSTL: A Seasonal-Trend
//     Decomposition Algorithm for Time Series with Multiple Seasonal Patterns
//   - Cleveland, R.B., Cleveland, W.S., McRae, J.E., & Terpenning, I. (1990).
//     STL: A Seasonal-Trend Decomposition Procedure Based on Loess
//   - Friedman, J.H. (1984). A Variable Span Smoother
package gomstl
