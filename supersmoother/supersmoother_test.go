package supersmoother

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func index(n int) []float64 {
	t := make([]float64, n)
	for i := range t {
		t[i] = float64(i + 1)
	}
	return t
}

func TestSmootherReproducesLine(t *testing.T) {
	x := index(50)
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = 2*v + 1
	}

	pred, err := New().FitPredict(x, y)
	require.NoError(t, err)
	require.Len(t, pred, len(y))
	for i := range y {
		assert.InDelta(t, y[i], pred[i], 1e-6, "index %d", i)
	}
}

func TestSmootherConstant(t *testing.T) {
	x := index(20)
	y := make([]float64, len(x))
	for i := range y {
		y[i] = 4.2
	}

	pred, err := New().FitPredict(x, y)
	require.NoError(t, err)
	for _, v := range pred {
		assert.InDelta(t, 4.2, v, 1e-9)
	}
}

func TestSmootherReducesNoise(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	x := index(200)
	truth := make([]float64, len(x))
	y := make([]float64, len(x))
	for i, v := range x {
		truth[i] = math.Sin(v / 20)
		y[i] = truth[i] + 0.3*rng.NormFloat64()
	}

	pred, err := New().FitPredict(x, y)
	require.NoError(t, err)

	var rawErr, smoothErr float64
	for i := range y {
		rawErr += (y[i] - truth[i]) * (y[i] - truth[i])
		smoothErr += (pred[i] - truth[i]) * (pred[i] - truth[i])
	}
	assert.Less(t, smoothErr, rawErr/2)
}

func TestSmootherBassEnhancement(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	x := index(100)
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = 0.05*v + rng.NormFloat64()
	}

	s := New()
	s.Alpha = 8
	pred, err := s.FitPredict(x, y)
	require.NoError(t, err)
	require.Len(t, pred, len(y))
	for _, v := range pred {
		assert.False(t, math.IsNaN(v))
	}
}

func TestSmootherUnsortedInput(t *testing.T) {
	x := []float64{5, 1, 4, 2, 3, 7, 6}
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = 3 - v
	}

	s := New()
	require.NoError(t, s.Fit(x, y))

	pred, err := s.Predict([]float64{1, 2, 3, 4})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{2, 1, 0, -1}, pred, 1e-6)
}

func TestPredictInterpolates(t *testing.T) {
	x := index(10)
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = 2*v + 1
	}

	s := New()
	require.NoError(t, s.Fit(x, y))

	pred, err := s.Predict([]float64{2.5, 0, 20})
	require.NoError(t, err)
	assert.InDelta(t, 6.0, pred[0], 1e-6)
	assert.InDelta(t, 3.0, pred[1], 1e-6)
	assert.InDelta(t, 21.0, pred[2], 1e-6)
}

func TestSmootherErrors(t *testing.T) {
	_, err := New().Predict([]float64{1})
	require.ErrorIs(t, err, ErrNotFitted)

	err = New().Fit([]float64{1, 2, 3}, []float64{1, 2})
	require.ErrorIs(t, err, ErrLengthMismatch)

	err = New().Fit([]float64{1, 2}, []float64{1, 2})
	require.ErrorIs(t, err, ErrTooFewPoints)

	s := New()
	s.Alpha = 11
	err = s.Fit(index(5), index(5))
	require.ErrorIs(t, err, ErrInvalidAlpha)
}

func TestRunningLineWindow(t *testing.T) {
	x := index(10)
	y := []float64{0, 0, 0, 0, 10, 0, 0, 0, 0, 0}

	smooth, cv := runningLine(x, y, 0.3)
	require.Len(t, smooth, 10)
	require.Len(t, cv, 10)

	// A three point window around the spike averages it in
	assert.InDelta(t, 10.0/3, smooth[4], 1e-9)
	assert.InDelta(t, 0.0, smooth[0], 1e-9)
	assert.InDelta(t, 10.0, cv[4], 1e-9)
}
