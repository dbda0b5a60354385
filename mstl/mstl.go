package mstl

import (
	"errors"
	"math"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"

	"github.com/sartorproj/gomstl/internal/options"
	"github.com/sartorproj/gomstl/timeseries"
)

// Decomposer splits series into trend, seasonal and remainder components.
// It is immutable once built and safe for concurrent use as long as its
// fitters are.
type Decomposer struct {
	windows    []int
	lambda     *float64
	iterations int
	seasonal   SeasonalFitter
	trend      TrendFitter
	logger     zerolog.Logger
	recorder   Recorder
}

// New builds a Decomposer using STL for seasonal extraction and a
// SuperSmoother for series without seasonality.
func New(opts ...Option) (*Decomposer, error) {
	d := &Decomposer{
		iterations: 1,
		seasonal:   STLFitter{},
		trend:      SmootherFitter{},
		logger:     zerolog.Nop(),
		recorder:   nopRecorder{},
	}
	if err := options.Apply(d, opts...); err != nil {
		return nil, err
	}
	return d, nil
}

// Decompose is a shorthand for New(opts...) followed by Decompose.
func Decompose(series []float64, periods []int, opts ...Option) (*Table, error) {
	d, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return d.Decompose(series, periods...)
}

// Decompose splits series for the given periods, processed in order.
//
// When the first period is above 1 every period is extracted with the
// seasonal fitter, once per outer iteration, and the trend is the one
// returned by the last call. Otherwise the series is only smoothed by the
// trend fitter and the remaining periods are ignored.
//
// Runtime grows with len(series) × len(periods) × iterations × the cost of
// one seasonal fit. The series is not modified.
func (d *Decomposer) Decompose(series []float64, periods ...int) (*Table, error) {
	start := time.Now()

	if err := d.validate(series, periods); err != nil {
		d.recorder.RecordFailure(failureReason(err))
		return nil, err
	}

	strat := d.strategyFor(periods)
	comp, err := strat.run(series, periods)
	if err != nil {
		d.recorder.RecordFailure(failureReason(err))
		return nil, err
	}

	table := assemble(series, timeseries.MissingMask(series), comp)
	d.recorder.ObserveDecomposition(strat.name(), len(series), len(comp.periods), time.Since(start))
	d.logger.Debug().
		Str("branch", strat.name()).
		Int("n", len(series)).
		Ints("periods", comp.periods).
		Dur("elapsed", time.Since(start)).
		Msg("decomposition finished")
	return table, nil
}

// DecomposeMatrix decomposes the first column of m. Other columns are
// ignored.
func (d *Decomposer) DecomposeMatrix(m mat.Matrix, periods ...int) (*Table, error) {
	return d.Decompose(mat.Col(nil, 0, m), periods...)
}

// DecomposeSeries decomposes the values of s.
func (d *Decomposer) DecomposeSeries(s *timeseries.Series, periods ...int) (*Table, error) {
	return d.Decompose(s.Values, periods...)
}

func (d *Decomposer) validate(series []float64, periods []int) error {
	if d.lambda != nil {
		return &UnsupportedTransformError{Lambda: *d.lambda}
	}
	if count, first := timeseries.CountMissing(series); count > 0 {
		return &MissingDataError{Count: count, First: first}
	}
	if len(periods) == 0 {
		return ErrNoPeriods
	}
	return nil
}

func (d *Decomposer) strategyFor(periods []int) strategy {
	if periods[0] > 1 {
		return &seasonalStrategy{
			fitter:     d.seasonal,
			windows:    resolveWindows(d.windows, len(periods)),
			iterations: d.iterations,
			logger:     d.logger,
		}
	}
	return &trendOnlyStrategy{fitter: d.trend, logger: d.logger}
}

// assemble builds the output table. Positions set in mask are NaN in the
// remainder whatever the fitters produced there.
func assemble(series []float64, mask []bool, comp *components) *Table {
	n := len(series)
	remainder := make([]float64, n)
	for i := range remainder {
		deseas := comp.deseasonalized[i]
		if mask[i] {
			deseas = math.NaN()
		}
		remainder[i] = deseas - comp.trend[i]
	}

	data := make([]float64, n)
	copy(data, series)

	cols := make([]Column, 0, len(comp.seasonals)+3)
	cols = append(cols, Column{Name: ColumnData, Values: data}, Column{Name: ColumnTrend, Values: comp.trend})
	for i, s := range comp.seasonals {
		cols = append(cols, Column{Name: seasonalName(comp.periods, i), Values: s})
	}
	cols = append(cols, Column{Name: ColumnRemainder, Values: remainder})

	return newTable(comp.periods, cols)
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrUnsupportedTransform):
		return "unsupported_transform"
	case errors.Is(err, ErrMissingData):
		return "missing_data"
	case errors.Is(err, ErrNoPeriods):
		return "no_periods"
	case errors.Is(err, ErrMissingDependency):
		return "missing_dependency"
	case errors.Is(err, ErrBadFit):
		return "bad_fit"
	default:
		return "fitter"
	}
}
