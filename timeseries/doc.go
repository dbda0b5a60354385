// Package timeseries provides time series data structures and utilities.
//
// A Series is indexed by position. Timestamps are optional and only carried
// along so results can be written back with their dates.
//
// # Creating a Series
//
// Create a time series from a slice:
//
//	values := []float64{100, 102, 105, 103, 108, 110}
//	series := timeseries.New(values)
//
// # Loading from CSV
//
// Load time series data from CSV files:
//
//	// Load a specific column
//	series, err := timeseries.LoadCSVColumn("data.csv", "value")
//
// Missing cells (empty, NA, NaN, null) are loaded as NaN at their position:
//
//	if series.HasMissing() {
//	    count, first := timeseries.CountMissing(series.Values)
//	    mask := series.MissingMask()
//	}
//
// # Slicing
//
// Work with subsets of the data:
//
//	subset := series.Slice(10, 50)
//	recent := series.Tail(24 * 7)
//	copy := series.Copy()
//
// # CSV Options
//
// Customize CSV loading:
//
//	opts := &timeseries.CSVOptions{
//	    DateColumn:  "date",
//	    ValueColumn: "value",
//	    IDColumn:    "unique_id",
//	    IDFilter:    "H1",
//	    DateFormat:  "2006-01-02 15:04:05",
//	    HasHeader:   true,
//	}
//	series, err := timeseries.LoadCSVFromReader(reader, opts)
package timeseries
