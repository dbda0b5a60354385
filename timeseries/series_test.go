package timeseries

import (
	"math"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	s := New(values)

	if s.Len() != 5 {
		t.Errorf("Expected length 5, got %d", s.Len())
	}

	for i, v := range s.Values {
		if v != values[i] {
			t.Errorf("Expected value %f at index %d, got %f", values[i], i, v)
		}
	}

	if s.HasTimestamps() {
		t.Error("New should create a position-indexed series")
	}
}

func TestNewWithTimestamps(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ts := []time.Time{base, base.Add(time.Hour)}

	s, err := NewWithTimestamps(ts, []float64{1, 2})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !s.HasTimestamps() {
		t.Error("Expected timestamps to be attached")
	}

	if _, err := NewWithTimestamps(ts, []float64{1}); err == nil {
		t.Error("Expected error for mismatched lengths")
	}
}

func TestMissing(t *testing.T) {
	tests := []struct {
		name      string
		values    []float64
		hasNaN    bool
		count     int
		first     int
		maskTrues []int
	}{
		{"none", []float64{1, 2, 3}, false, 0, -1, nil},
		{"single", []float64{1, math.NaN(), 3}, true, 1, 1, []int{1}},
		{"several", []float64{math.NaN(), 2, math.NaN(), math.NaN()}, true, 3, 0, []int{0, 2, 3}},
		{"empty", []float64{}, false, 0, -1, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.values)
			if s.HasMissing() != tt.hasNaN {
				t.Errorf("HasMissing: expected %v", tt.hasNaN)
			}

			count, first := CountMissing(tt.values)
			if count != tt.count || first != tt.first {
				t.Errorf("CountMissing: expected (%d, %d), got (%d, %d)", tt.count, tt.first, count, first)
			}

			mask := s.MissingMask()
			if len(mask) != len(tt.values) {
				t.Fatalf("Expected mask length %d, got %d", len(tt.values), len(mask))
			}
			trues := 0
			for _, i := range tt.maskTrues {
				if !mask[i] {
					t.Errorf("Expected mask[%d] to be set", i)
				}
			}
			for _, m := range mask {
				if m {
					trues++
				}
			}
			if trues != len(tt.maskTrues) {
				t.Errorf("Expected %d masked positions, got %d", len(tt.maskTrues), trues)
			}
		})
	}
}

func TestSlice(t *testing.T) {
	s := New([]float64{1, 2, 3, 4, 5})
	sliced := s.Slice(1, 4)

	expected := []float64{2, 3, 4}
	if len(sliced.Values) != len(expected) {
		t.Errorf("Expected length %d, got %d", len(expected), len(sliced.Values))
	}

	for i, v := range sliced.Values {
		if math.Abs(v-expected[i]) > 1e-10 {
			t.Errorf("Expected %f at index %d, got %f", expected[i], i, v)
		}
	}

	if empty := s.Slice(4, 2); empty.Len() != 0 {
		t.Errorf("Expected empty slice, got %d values", empty.Len())
	}
}

func TestSliceKeepsTimestamps(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ts := make([]time.Time, 4)
	for i := range ts {
		ts[i] = base.AddDate(0, 0, i)
	}
	s, _ := NewWithTimestamps(ts, []float64{1, 2, 3, 4})

	sliced := s.Slice(2, 4)
	if !sliced.HasTimestamps() {
		t.Fatal("Expected timestamps on slice")
	}
	if !sliced.Timestamps[0].Equal(ts[2]) {
		t.Errorf("Expected first timestamp %v, got %v", ts[2], sliced.Timestamps[0])
	}
}

func TestTail(t *testing.T) {
	s := New([]float64{1, 2, 3, 4, 5})

	tail := s.Tail(2)
	if tail.Len() != 2 || tail.Values[0] != 4 {
		t.Errorf("Expected [4 5], got %v", tail.Values)
	}

	all := s.Tail(0)
	if all.Len() != 5 {
		t.Errorf("Expected full copy, got %d values", all.Len())
	}
}

func TestCopy(t *testing.T) {
	s := New([]float64{1, 2, 3})
	copied := s.Copy()

	// Modify original
	s.Values[0] = 100

	// Copy should be unchanged
	if copied.Values[0] != 1 {
		t.Errorf("Copy was modified when original changed")
	}
}
