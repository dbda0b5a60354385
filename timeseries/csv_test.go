package timeseries

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadCSVFromReader(t *testing.T) {
	csvData := `ds,y
2020-01-01,100
2020-01-02,101
2020-01-03,102
2020-01-04,103
2020-01-05,104`

	series, err := LoadCSVFromReader(strings.NewReader(csvData), DefaultCSVOptions())
	if err != nil {
		t.Fatalf("Failed to load CSV: %v", err)
	}

	if series.Len() != 5 {
		t.Errorf("Expected 5 observations, got %d", series.Len())
	}

	expected := []float64{100, 101, 102, 103, 104}
	for i, v := range expected {
		if series.Values[i] != v {
			t.Errorf("Value at index %d: expected %f, got %f", i, v, series.Values[i])
		}
	}

	if !series.HasTimestamps() {
		t.Fatal("Expected timestamps to be parsed")
	}
	if series.Timestamps[2].Day() != 3 {
		t.Errorf("Expected third timestamp on day 3, got %v", series.Timestamps[2])
	}
}

func TestLoadCSVWithFilter(t *testing.T) {
	csvData := `unique_id,ds,y
A,2020-01-01,100
B,2020-01-01,200
A,2020-01-02,101
B,2020-01-02,201
A,2020-01-03,102`

	opts := DefaultCSVOptions()
	opts.IDColumn = "unique_id"
	opts.IDFilter = "A"

	series, err := LoadCSVFromReader(strings.NewReader(csvData), opts)
	if err != nil {
		t.Fatalf("Failed to load CSV: %v", err)
	}

	expected := []float64{100, 101, 102}
	if series.Len() != len(expected) {
		t.Fatalf("Expected 3 observations for 'A', got %d", series.Len())
	}
	for i, v := range expected {
		if series.Values[i] != v {
			t.Errorf("Value at index %d: expected %f, got %f", i, v, series.Values[i])
		}
	}
}

func TestLoadCSVKeepsMissingValues(t *testing.T) {
	csvData := `ds,y
2020-01-01,100
2020-01-02,NA
2020-01-03,102
2020-01-04,NaN
2020-01-05,`

	series, err := LoadCSVFromReader(strings.NewReader(csvData), DefaultCSVOptions())
	if err != nil {
		t.Fatalf("Failed to load CSV: %v", err)
	}

	// Missing markers stay in place so positions are preserved
	if series.Len() != 5 {
		t.Fatalf("Expected 5 observations, got %d", series.Len())
	}
	for _, i := range []int{1, 3, 4} {
		if !math.IsNaN(series.Values[i]) {
			t.Errorf("Expected NaN at index %d, got %f", i, series.Values[i])
		}
	}
	if count, first := CountMissing(series.Values); count != 3 || first != 1 {
		t.Errorf("Expected 3 missing starting at 1, got %d at %d", count, first)
	}

	// A row cut short before the value column is missing, not dropped
	shortRow := `ds,y,extra
2024-01-01,1,a
2024-01-02
2024-01-03,3,c`

	series, err = LoadCSVFromReader(strings.NewReader(shortRow), DefaultCSVOptions())
	if err != nil {
		t.Fatalf("Failed to load CSV: %v", err)
	}
	if series.Len() != 3 {
		t.Fatalf("Expected 3 observations, got %d", series.Len())
	}
	if series.Values[0] != 1 || !math.IsNaN(series.Values[1]) || series.Values[2] != 3 {
		t.Errorf("Expected [1 NaN 3], got %v", series.Values)
	}
	if !series.HasTimestamps() || series.Timestamps[1].Day() != 2 {
		t.Errorf("Expected the short row to keep its timestamp, got %v", series.Timestamps)
	}
}

func TestLoadCSVInvalidValue(t *testing.T) {
	csvData := `ds,y
2020-01-01,100
2020-01-02,abc`

	if _, err := LoadCSVFromReader(strings.NewReader(csvData), DefaultCSVOptions()); err == nil {
		t.Fatal("Expected parse error for non-numeric value")
	}
}

func TestLoadCSVMultipleColumns(t *testing.T) {
	csvData := `ds,Beer,Cement,Gas
2020-01-01,100,200,50
2020-01-02,110,210,55
2020-01-03,120,220,60`

	opts := DefaultCSVOptions()
	opts.ValueColumn = "Cement"

	series, err := LoadCSVFromReader(strings.NewReader(csvData), opts)
	if err != nil {
		t.Fatalf("Failed to load CSV: %v", err)
	}

	expected := []float64{200, 210, 220}
	for i, v := range expected {
		if series.Values[i] != v {
			t.Errorf("Value at index %d: expected %f, got %f", i, v, series.Values[i])
		}
	}

	opts.ValueColumn = "Wool"
	if _, err := LoadCSVFromReader(strings.NewReader(csvData), opts); err == nil {
		t.Error("Expected error for unknown value column")
	}
}

func TestLoadCSVQuotedFields(t *testing.T) {
	csvData := `"unique_id","ds","y"
"Australia","2020-01-01","1000000"
"Australia","2020-01-02","1000100"
"Australia","2020-01-03","1000200"`

	series, err := LoadCSVFromReader(strings.NewReader(csvData), DefaultCSVOptions())
	if err != nil {
		t.Fatalf("Failed to load CSV: %v", err)
	}

	if series.Len() != 3 {
		t.Errorf("Expected 3 observations, got %d", series.Len())
	}
}

func TestLoadCSVDateFormats(t *testing.T) {
	testCases := []struct {
		name       string
		csvData    string
		timestamps bool
	}{
		{"ISO format", "ds,y\n2020-01-01,100\n2020-01-02,101", true},
		{"Datetime", "ds,y\n2020-01-01 00:00:00,100\n2020-01-01 01:00:00,101", true},
		{"Unparseable", "ds,y\nweek one,100\nweek two,101", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			series, err := LoadCSVFromReader(strings.NewReader(tc.csvData), DefaultCSVOptions())
			if err != nil {
				t.Fatalf("Failed to load CSV: %v", err)
			}

			if series.Len() != 2 {
				t.Errorf("Expected 2 observations, got %d", series.Len())
			}
			if series.HasTimestamps() != tc.timestamps {
				t.Errorf("Expected timestamps=%v", tc.timestamps)
			}
		})
	}
}

func TestLoadCSVEmpty(t *testing.T) {
	_, err := LoadCSVFromReader(strings.NewReader("ds,y\n"), DefaultCSVOptions())
	if !errors.Is(err, ErrNoData) {
		t.Errorf("Expected ErrNoData, got %v", err)
	}
}

func TestLoadCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "series.csv")
	if err := os.WriteFile(path, []byte("ds,load\n2020-01-01,1.5\n2020-01-02,2.5\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	series, err := LoadCSVColumn(path, "load")
	if err != nil {
		t.Fatalf("Failed to load CSV: %v", err)
	}
	if series.Len() != 2 || series.Values[1] != 2.5 {
		t.Errorf("Unexpected values %v", series.Values)
	}

	if _, err := LoadCSVColumn(filepath.Join(t.TempDir(), "missing.csv"), "y"); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestDefaultCSVOptions(t *testing.T) {
	opts := DefaultCSVOptions()

	if opts.ValueColumn != "y" {
		t.Errorf("Expected default value column 'y', got '%s'", opts.ValueColumn)
	}

	if opts.DateFormat != "2006-01-02" {
		t.Errorf("Expected default date format '2006-01-02', got '%s'", opts.DateFormat)
	}

	if !opts.HasHeader {
		t.Error("Expected HasHeader to be true by default")
	}

	if opts.Delimiter != ',' {
		t.Errorf("Expected default delimiter ',', got '%c'", opts.Delimiter)
	}
}
