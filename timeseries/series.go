package timeseries

import (
	"errors"
	"math"
	"time"
)

// Series represents a time series indexed by position, with optional timestamps.
type Series struct {
	Timestamps []time.Time // Optional, same length as Values when set
	Values     []float64   // Observations, NaN marks a missing value
	Name       string
}

// New creates a new position-indexed time series from values.
func New(values []float64) *Series {
	return &Series{Values: values}
}

// NewWithTimestamps creates a time series with explicit timestamps.
func NewWithTimestamps(timestamps []time.Time, values []float64) (*Series, error) {
	if len(timestamps) != len(values) {
		return nil, errors.New("timestamps and values must have the same length")
	}
	return &Series{
		Timestamps: timestamps,
		Values:     values,
	}, nil
}

// Len returns the length of the series.
func (s *Series) Len() int {
	return len(s.Values)
}

// HasTimestamps reports whether every value carries a timestamp.
func (s *Series) HasTimestamps() bool {
	return len(s.Values) > 0 && len(s.Timestamps) == len(s.Values)
}

// HasMissing reports whether any value is NaN.
func (s *Series) HasMissing() bool {
	for _, v := range s.Values {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}

// MissingMask returns a slice marking the NaN positions of the series.
func (s *Series) MissingMask() []bool {
	return MissingMask(s.Values)
}

// MissingMask marks the NaN positions of values.
func MissingMask(values []float64) []bool {
	mask := make([]bool, len(values))
	for i, v := range values {
		mask[i] = math.IsNaN(v)
	}
	return mask
}

// CountMissing returns the number of NaN values and the index of the first
// one, or -1 when there is none.
func CountMissing(values []float64) (count, first int) {
	first = -1
	for i, v := range values {
		if !math.IsNaN(v) {
			continue
		}
		if first < 0 {
			first = i
		}
		count++
	}
	return count, first
}

// Slice returns a slice of the series from start to end (exclusive).
func (s *Series) Slice(start, end int) *Series {
	if start < 0 {
		start = 0
	}
	if end > len(s.Values) {
		end = len(s.Values)
	}
	if start >= end {
		return &Series{Values: []float64{}, Name: s.Name}
	}

	values := make([]float64, end-start)
	copy(values, s.Values[start:end])

	var timestamps []time.Time
	if s.HasTimestamps() {
		timestamps = make([]time.Time, len(values))
		copy(timestamps, s.Timestamps[start:end])
	}

	return &Series{
		Timestamps: timestamps,
		Values:     values,
		Name:       s.Name,
	}
}

// Tail returns the last n observations, or a copy of the whole series when
// it is shorter than n.
func (s *Series) Tail(n int) *Series {
	if n <= 0 || n >= s.Len() {
		return s.Copy()
	}
	return s.Slice(s.Len()-n, s.Len())
}

// Copy creates a deep copy of the series.
func (s *Series) Copy() *Series {
	values := make([]float64, len(s.Values))
	copy(values, s.Values)

	var timestamps []time.Time
	if s.Timestamps != nil {
		timestamps = make([]time.Time, len(s.Timestamps))
		copy(timestamps, s.Timestamps)
	}

	return &Series{
		Timestamps: timestamps,
		Values:     values,
		Name:       s.Name,
	}
}
