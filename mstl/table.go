package mstl

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"time"

	"gonum.org/v1/gonum/floats"
)

// Fixed column names of a decomposition table.
const (
	ColumnData      = "data"
	ColumnTrend     = "trend"
	ColumnSeasonal  = "seasonal"
	ColumnRemainder = "remainder"
)

// ErrColumnLength is returned by NewTable when columns differ in length.
var ErrColumnLength = errors.New("mstl: columns must have equal length")

// Column is a named sequence of values.
type Column struct {
	Name   string
	Values []float64
}

// Table holds the result of a decomposition: data, trend, one seasonal
// column per period and remainder, in that order. Slices returned by its
// accessors are shared with the table.
type Table struct {
	columns []Column
	byName  map[string]int
	periods []int
}

// NewTable builds a table from columns of equal length. It is used to
// rebuild tables that were serialized.
func NewTable(periods []int, cols ...Column) (*Table, error) {
	for _, c := range cols {
		if len(c.Values) != len(cols[0].Values) {
			return nil, fmt.Errorf("%w: %q has %d values, %q has %d",
				ErrColumnLength, c.Name, len(c.Values), cols[0].Name, len(cols[0].Values))
		}
	}
	return newTable(slices.Clone(periods), slices.Clone(cols)), nil
}

func newTable(periods []int, cols []Column) *Table {
	t := &Table{columns: cols, byName: make(map[string]int, len(cols)), periods: periods}
	for i, c := range cols {
		if _, ok := t.byName[c.Name]; !ok {
			t.byName[c.Name] = i
		}
	}
	return t
}

// seasonalName names the seasonal column of periods[i].
func seasonalName(periods []int, i int) string {
	if len(periods) == 1 {
		return ColumnSeasonal
	}
	return ColumnSeasonal + strconv.Itoa(periods[i])
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if len(t.columns) == 0 {
		return 0
	}
	return len(t.columns[0].Values)
}

// Names returns the column names in order.
func (t *Table) Names() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// Columns returns the columns in order.
func (t *Table) Columns() []Column {
	return slices.Clone(t.columns)
}

// Column returns the values of the named column.
func (t *Table) Column(name string) ([]float64, bool) {
	i, ok := t.byName[name]
	if !ok {
		return nil, false
	}
	return t.columns[i].Values, true
}

// Periods returns the periods the seasonal columns were extracted for. It is
// empty for a trend-only decomposition.
func (t *Table) Periods() []int {
	return slices.Clone(t.periods)
}

// Data returns the input series.
func (t *Table) Data() []float64 {
	v, _ := t.Column(ColumnData)
	return v
}

// Trend returns the trend component.
func (t *Table) Trend() []float64 {
	v, _ := t.Column(ColumnTrend)
	return v
}

// Remainder returns the remainder, NaN wherever the input was missing.
func (t *Table) Remainder() []float64 {
	v, _ := t.Column(ColumnRemainder)
	return v
}

// Seasonal returns the seasonal component of period.
func (t *Table) Seasonal(period int) ([]float64, bool) {
	i := slices.Index(t.periods, period)
	if i < 0 {
		return nil, false
	}
	return t.Column(seasonalName(t.periods, i))
}

// SeasonalNames returns the names of the seasonal columns in period order.
func (t *Table) SeasonalNames() []string {
	names := make([]string, len(t.periods))
	for i := range t.periods {
		names[i] = seasonalName(t.periods, i)
	}
	return names
}

// Reconstruct returns trend + seasonals + remainder for every row. Columns
// the table does not hold are left out of the sum, and a table without a
// trend reconstructs to nil.
func (t *Table) Reconstruct() []float64 {
	out := slices.Clone(t.Trend())
	if out == nil {
		return nil
	}

	parts := map[string]bool{ColumnRemainder: true}
	for _, name := range t.SeasonalNames() {
		parts[name] = true
	}
	// Walk by position so that repeated periods are each counted once
	for _, c := range t.columns {
		if parts[c.Name] {
			floats.Add(out, c.Values)
		}
	}
	return out
}

// WriteCSV writes the table as CSV. When index is not nil a leading ds
// column holds its timestamps in RFC 3339 format.
func (t *Table) WriteCSV(w io.Writer, index []time.Time) error {
	if index != nil && len(index) != t.Len() {
		return fmt.Errorf("mstl: index has %d timestamps for %d rows", len(index), t.Len())
	}

	cw := csv.NewWriter(w)
	header := t.Names()
	if index != nil {
		header = append([]string{"ds"}, header...)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	record := make([]string, len(header))
	for row := 0; row < t.Len(); row++ {
		j := 0
		if index != nil {
			record[0] = index[row].Format(time.RFC3339)
			j = 1
		}
		for _, c := range t.columns {
			record[j] = strconv.FormatFloat(c.Values[row], 'g', -1, 64)
			j++
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
