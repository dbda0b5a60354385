package mstl

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/sartorproj/gomstl/internal/options"
	"github.com/sartorproj/gomstl/stl"
)

// ErrInvalidOption is returned by New when an option cannot be applied.
var ErrInvalidOption = errors.New("mstl: invalid option")

// Option configures a Decomposer.
type Option = options.Option[*Decomposer]

// Recorder observes decomposition runs. internal/metrics provides a
// Prometheus implementation.
type Recorder interface {
	ObserveDecomposition(branch string, n, periods int, d time.Duration)
	RecordFailure(reason string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveDecomposition(string, int, int, time.Duration) {}
func (nopRecorder) RecordFailure(string)                                 {}

// DefaultWindows returns the seasonal windows used when none are configured:
// 7+4k for k = 1..6.
func DefaultWindows() []int {
	w := make([]int, 6)
	for k := 1; k <= len(w); k++ {
		w[k-1] = 7 + 4*k
	}
	return w
}

// WithSeasonalWindows sets the seasonal smoother length for each period. A
// single value applies to every period. Extra values are ignored and a short
// list repeats its last value.
func WithSeasonalWindows(windows ...int) Option {
	return options.NoError(func(d *Decomposer) {
		d.windows = append([]int(nil), windows...)
	})
}

// WithBoxCox requests a Box-Cox transform. Transforms are not implemented, so
// any decomposition with this option fails with UnsupportedTransformError.
func WithBoxCox(lambda float64) Option {
	return options.NoError(func(d *Decomposer) {
		d.lambda = &lambda
	})
}

// WithIterations sets the number of outer passes over all periods. Values
// below 1 mean a single pass.
func WithIterations(n int) Option {
	return options.NoError(func(d *Decomposer) {
		d.iterations = max(n, 1)
	})
}

// WithSeasonalFitter replaces the STL fitter used for each period.
func WithSeasonalFitter(f SeasonalFitter) Option {
	return options.New(func(d *Decomposer) error {
		if f == nil {
			return fmt.Errorf("%w: seasonal fitter is nil", ErrInvalidOption)
		}
		d.seasonal = f
		return nil
	})
}

// WithTrendFitter replaces the smoother used when there is no seasonality.
// A nil fitter makes that branch fail with MissingDependencyError.
func WithTrendFitter(f TrendFitter) Option {
	return options.NoError(func(d *Decomposer) {
		d.trend = f
	})
}

// WithSTLParams sets the STL parameters of the default seasonal fitter.
// Period and Seasonal are overridden per call.
func WithSTLParams(p stl.Params) Option {
	return options.NoError(func(d *Decomposer) {
		d.seasonal = STLFitter{Params: p}
	})
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return options.NoError(func(d *Decomposer) {
		d.logger = l
	})
}

// WithRecorder sets the run recorder. A nil recorder disables recording.
func WithRecorder(r Recorder) Option {
	return options.NoError(func(d *Decomposer) {
		if r == nil {
			r = nopRecorder{}
		}
		d.recorder = r
	})
}
