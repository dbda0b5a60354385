package mstl

import (
	"github.com/sartorproj/gomstl/stl"
	"github.com/sartorproj/gomstl/supersmoother"
)

// SeasonalFit is the outcome of one seasonal extraction.
type SeasonalFit struct {
	Seasonal []float64
	Trend    []float64
}

// SeasonalFitter extracts the seasonal component of a single period.
type SeasonalFitter interface {
	FitSeasonal(series []float64, period, window int) (*SeasonalFit, error)
}

// TrendFitter estimates a trend for a series without seasonality.
type TrendFitter interface {
	FitTrend(series []float64) ([]float64, error)
}

// STLFitter fits each period with an STL decomposition. Params supplies the
// smoother settings; Period and Seasonal are set on every call.
type STLFitter struct {
	Params stl.Params
}

// FitSeasonal runs STL on series. Errors from stl are returned as is.
func (f STLFitter) FitSeasonal(series []float64, period, window int) (*SeasonalFit, error) {
	p := f.Params
	p.Period = period
	p.Seasonal = window

	res, err := stl.Decompose(series, p)
	if err != nil {
		return nil, err
	}
	return &SeasonalFit{Seasonal: res.Seasonal, Trend: res.Trend}, nil
}

// SmootherFitter fits a SuperSmoother against the positions 1..n and
// predicts at the same positions.
type SmootherFitter struct {
	Alpha float64 // Bass enhancement, 0 disables it
}

// FitTrend smooths series over its index.
func (f SmootherFitter) FitTrend(series []float64) ([]float64, error) {
	t := make([]float64, len(series))
	for i := range t {
		t[i] = float64(i + 1)
	}

	s := supersmoother.New()
	s.Alpha = f.Alpha
	return s.FitPredict(t, series)
}
