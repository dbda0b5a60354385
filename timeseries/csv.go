package timeseries

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

// ErrNoData is returned when a CSV source yields no rows for the value column.
var ErrNoData = errors.New("no valid data found in CSV")

// CSVOptions holds options for CSV loading.
type CSVOptions struct {
	DateColumn  string // Column name for dates (optional)
	ValueColumn string // Column name for values (default: "y")
	IDColumn    string // Column name for series ID (optional, for filtering)
	IDFilter    string // Value to filter by ID column
	DateFormat  string // Date format (default: "2006-01-02")
	HasHeader   bool   // Whether CSV has header row (default: true)
	Delimiter   rune   // Field delimiter (default: ',')
	SkipRows    int    // Number of rows to skip at start
}

// DefaultCSVOptions returns default options for CSV loading.
func DefaultCSVOptions() *CSVOptions {
	return &CSVOptions{
		ValueColumn: "y",
		DateFormat:  "2006-01-02",
		HasHeader:   true,
		Delimiter:   ',',
	}
}

// dateLayouts are tried in order after the configured format.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
	"02-Jan-2006",
}

// missingMarkers are cell values read as a missing observation.
var missingMarkers = map[string]bool{
	"":     true,
	"NA":   true,
	"NaN":  true,
	"nan":  true,
	"null": true,
}

// LoadCSV loads a time series from a CSV file.
func LoadCSV(filename string, opts *CSVOptions) (*Series, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	series, err := LoadCSVFromReader(file, opts)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", filename, err)
	}
	return series, nil
}

// LoadCSVFromReader loads a time series from an io.Reader.
//
// Missing markers (empty, NA, NaN, null) are kept as NaN at their position so
// the caller decides how to treat them. Timestamps are attached only when
// every kept row has a parseable date.
func LoadCSVFromReader(r io.Reader, opts *CSVOptions) (*Series, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}

	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	for i := 0; i < opts.SkipRows; i++ {
		if _, err := reader.Read(); err != nil {
			return nil, fmt.Errorf("skip row %d: %w", i, err)
		}
	}

	cols := columnIndex{value: 1, date: 0, id: -1}
	if opts.HasHeader {
		header, err := reader.Read()
		if err != nil {
			return nil, fmt.Errorf("read header: %w", err)
		}
		cols = resolveColumns(header, opts)
		if cols.value < 0 {
			return nil, fmt.Errorf("value column %q not found", opts.ValueColumn)
		}
	}

	var values []float64
	var timestamps []time.Time
	datesOK := cols.date >= 0

	for line := 1; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		if opts.IDFilter != "" && cols.id >= 0 && cols.id < len(record) {
			if clean(record[cols.id]) != opts.IDFilter {
				continue
			}
		}

		// A short row keeps its position as a missing value
		val := math.NaN()
		if cols.value < len(record) {
			raw := clean(record[cols.value])
			if !missingMarkers[raw] {
				val, err = strconv.ParseFloat(raw, 64)
				if err != nil {
					return nil, fmt.Errorf("line %d: parse value %q: %w", line, raw, err)
				}
			}
		}
		values = append(values, val)

		if !datesOK {
			continue
		}
		if cols.date >= len(record) {
			datesOK = false
			continue
		}
		ts, ok := parseDate(clean(record[cols.date]), opts.DateFormat)
		if !ok {
			datesOK = false
			continue
		}
		timestamps = append(timestamps, ts)
	}

	if len(values) == 0 {
		return nil, ErrNoData
	}

	series := &Series{Values: values, Name: opts.ValueColumn}
	if datesOK && len(timestamps) == len(values) {
		series.Timestamps = timestamps
	}
	return series, nil
}

// LoadCSVColumn loads a specific column from a CSV file as a series.
func LoadCSVColumn(filename string, column string) (*Series, error) {
	opts := DefaultCSVOptions()
	opts.ValueColumn = column
	return LoadCSV(filename, opts)
}

type columnIndex struct {
	value, date, id int
}

func resolveColumns(header []string, opts *CSVOptions) columnIndex {
	cols := columnIndex{value: -1, date: -1, id: -1}

	for i, h := range header {
		h = clean(h)
		switch {
		case h == opts.ValueColumn || (opts.ValueColumn == "" && (h == "y" || h == "value")):
			cols.value = i
		case opts.DateColumn != "" && h == opts.DateColumn:
			cols.date = i
		case opts.DateColumn == "" && cols.date == -1 && (h == "ds" || h == "date" || h == "timestamp"):
			cols.date = i
		case opts.IDColumn != "" && h == opts.IDColumn:
			cols.id = i
		case opts.IDColumn == "" && cols.id == -1 && (h == "unique_id" || h == "id"):
			cols.id = i
		}
	}

	if cols.value == -1 && opts.ValueColumn == "" {
		cols.value = len(header) - 1
	}
	return cols
}

func parseDate(s, layout string) (time.Time, bool) {
	if layout != "" {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	for _, l := range dateLayouts {
		if ts, err := time.Parse(l, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func clean(s string) string {
	return strings.TrimSpace(strings.Trim(s, "\""))
}
