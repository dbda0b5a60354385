package mstl

import (
	"errors"
	"fmt"
	"slices"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"
)

// ErrBadFit is returned when a fitter returns components of the wrong length.
var ErrBadFit = errors.New("mstl: fitter returned a component of the wrong length")

const (
	branchSeasonal  = "seasonal"
	branchTrendOnly = "trend_only"
)

// components is what a strategy hands to the assembler.
type components struct {
	deseasonalized []float64
	trend          []float64
	seasonals      [][]float64
	periods        []int
}

// strategy is one way of splitting a validated series into components.
type strategy interface {
	name() string
	run(series []float64, periods []int) (*components, error)
}

// seasonalStrategy extracts every period in turn with a SeasonalFitter.
type seasonalStrategy struct {
	fitter     SeasonalFitter
	windows    []int
	iterations int
	logger     zerolog.Logger
}

func (s *seasonalStrategy) name() string { return branchSeasonal }

func (s *seasonalStrategy) run(series []float64, periods []int) (*components, error) {
	n := len(series)
	deseas := slices.Clone(series)
	seasonals := make([][]float64, len(periods))
	for i := range seasonals {
		seasonals[i] = make([]float64, n)
	}

	var trend []float64
	for iter := 0; iter < s.iterations; iter++ {
		for i, period := range periods {
			floats.Add(deseas, seasonals[i])

			fit, err := s.fitter.FitSeasonal(deseas, period, s.windows[i])
			if err != nil {
				return nil, err
			}
			if len(fit.Seasonal) != n || len(fit.Trend) != n {
				return nil, fmt.Errorf("%w: period %d: seasonal %d, trend %d, want %d",
					ErrBadFit, period, len(fit.Seasonal), len(fit.Trend), n)
			}

			copy(seasonals[i], fit.Seasonal)
			floats.Sub(deseas, seasonals[i])
			// Only the trend of the latest call survives.
			trend = slices.Clone(fit.Trend)

			s.logger.Debug().
				Int("iteration", iter+1).
				Int("period", period).
				Int("window", s.windows[i]).
				Msg("seasonal component fitted")
		}
	}

	return &components{
		deseasonalized: deseas,
		trend:          trend,
		seasonals:      seasonals,
		periods:        slices.Clone(periods),
	}, nil
}

// trendOnlyStrategy smooths the series when there is no seasonal cycle.
type trendOnlyStrategy struct {
	fitter TrendFitter
	logger zerolog.Logger
}

func (s *trendOnlyStrategy) name() string { return branchTrendOnly }

func (s *trendOnlyStrategy) run(series []float64, _ []int) (*components, error) {
	if s.fitter == nil {
		err := &MissingDependencyError{Capability: "trend smoother", Err: ErrNoTrendFitter}
		s.logger.Error().Err(err).Msg("trend smoother required for a series without seasonality")
		return nil, err
	}

	trend, err := s.fitter.FitTrend(series)
	if err != nil {
		return nil, err
	}
	if len(trend) != len(series) {
		return nil, fmt.Errorf("%w: trend %d, want %d", ErrBadFit, len(trend), len(series))
	}
	s.logger.Debug().Int("n", len(series)).Msg("trend smoothed")

	return &components{
		deseasonalized: slices.Clone(series),
		trend:          slices.Clone(trend),
	}, nil
}

// resolveWindows returns one seasonal window per period.
func resolveWindows(windows []int, count int) []int {
	if len(windows) == 0 {
		windows = DefaultWindows()
	}
	out := make([]int, count)
	for i := range out {
		out[i] = windows[min(i, len(windows)-1)]
	}
	return out
}
