// Package stl implements Seasonal-Trend decomposition using Loess.
package stl

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	// ErrPeriodTooSmall is returned when the seasonal period is below 2.
	ErrPeriodTooSmall = errors.New("stl: period must be at least 2")
	// ErrSeriesTooShort is returned when the series holds fewer than two full periods.
	ErrSeriesTooShort = errors.New("stl: series must contain at least two full periods")
	// ErrInvalidWindow is returned for even, too small, or too narrow smoothing windows.
	ErrInvalidWindow = errors.New("stl: invalid smoothing window")
	// ErrInvalidDegree is returned for an unknown loess degree.
	ErrInvalidDegree = errors.New("stl: invalid loess degree")
)

// Degree is the degree of the local polynomial fitted by a loess smoother.
type Degree int

const (
	// Linear fits local lines. It is the zero value.
	Linear Degree = iota
	// Constant fits local weighted means.
	Constant
)

func (d Degree) poly() int {
	if d == Constant {
		return 0
	}
	return 1
}

// String returns the degree name.
func (d Degree) String() string {
	switch d {
	case Linear:
		return "linear"
	case Constant:
		return "constant"
	default:
		return fmt.Sprintf("Degree(%d)", int(d))
	}
}

// Params configures an STL decomposition. Zero-valued fields take defaults.
type Params struct {
	Period int // Seasonal period in samples (>= 2)

	Seasonal int // Seasonal smoother length, odd >= 3 (default: 7)
	Trend    int // Trend smoother length, odd > Period (default: derived)
	LowPass  int // Low-pass filter length, odd > Period (default: smallest odd > Period)

	SeasonalDeg Degree
	TrendDeg    Degree
	LowPassDeg  Degree

	SeasonalJump int // Evaluate the seasonal smoother every n points (default: 1)
	TrendJump    int
	LowPassJump  int

	Robust    bool // Downweight outliers with bisquare robustness weights
	InnerIter int  // Inner loop passes (default: 5, or 2 when Robust)
	OuterIter int  // Robustness passes (default: 0, or 15 when Robust)
}

// DefaultParams returns the parameters used for the given period when nothing
// else is configured.
func DefaultParams(period int) Params {
	return Params{Period: period}.resolve()
}

// resolve fills unset fields with their defaults.
func (p Params) resolve() Params {
	if p.Seasonal == 0 {
		p.Seasonal = 7
	}
	if p.Trend == 0 && p.Seasonal > 1 {
		p.Trend = nextOdd(int(math.Ceil(1.5 * float64(p.Period) / (1 - 1.5/float64(p.Seasonal)))))
	}
	if p.LowPass == 0 {
		p.LowPass = nextOdd(p.Period + 1)
	}
	p.SeasonalJump = max(p.SeasonalJump, 1)
	p.TrendJump = max(p.TrendJump, 1)
	p.LowPassJump = max(p.LowPassJump, 1)
	if p.InnerIter <= 0 {
		p.InnerIter = 5
		if p.Robust {
			p.InnerIter = 2
		}
	}
	if p.OuterIter <= 0 && p.Robust {
		p.OuterIter = 15
	}
	if !p.Robust {
		p.OuterIter = 0
	}
	return p
}

// validate checks resolved parameters against a series of length n.
func (p Params) validate(n int) error {
	if p.Period < 2 {
		return fmt.Errorf("%w: got %d", ErrPeriodTooSmall, p.Period)
	}
	if n < 2*p.Period {
		return fmt.Errorf("%w: %d observations for period %d", ErrSeriesTooShort, n, p.Period)
	}
	if p.Seasonal < 3 || p.Seasonal%2 == 0 {
		return fmt.Errorf("%w: seasonal must be odd and >= 3, got %d", ErrInvalidWindow, p.Seasonal)
	}
	if p.Trend < 3 || p.Trend%2 == 0 || p.Trend <= p.Period {
		return fmt.Errorf("%w: trend must be odd and > period %d, got %d", ErrInvalidWindow, p.Period, p.Trend)
	}
	if p.LowPass < 3 || p.LowPass%2 == 0 || p.LowPass <= p.Period {
		return fmt.Errorf("%w: low pass must be odd and > period %d, got %d", ErrInvalidWindow, p.Period, p.LowPass)
	}
	for _, d := range []Degree{p.SeasonalDeg, p.TrendDeg, p.LowPassDeg} {
		if d != Linear && d != Constant {
			return fmt.Errorf("%w: %s", ErrInvalidDegree, d)
		}
	}
	return nil
}

// Result holds the components of an STL decomposition.
type Result struct {
	Seasonal  []float64
	Trend     []float64
	Remainder []float64
	Weights   []float64 // Robustness weights of the last pass (all 1 unless Robust)
	Params    Params    // Parameters after defaults were applied
}

// Decompose splits y into seasonal, trend and remainder components so that
// y[i] == Seasonal[i] + Trend[i] + Remainder[i].
//
// The series must not contain NaN values.
func Decompose(y []float64, params Params) (*Result, error) {
	p := params.resolve()
	n := len(y)
	if err := p.validate(n); err != nil {
		return nil, err
	}

	d := newDecomposition(y, p)

	// Outer loop: each pass reweights the inner loop by the residual size
	for k := 0; ; k++ {
		d.inner()
		if k >= p.OuterIter {
			break
		}
		d.updateWeights()
	}

	weights := make([]float64, n)
	if d.rw != nil {
		copy(weights, d.rw)
	} else {
		for i := range weights {
			weights[i] = 1
		}
	}

	remainder := make([]float64, n)
	for i := 0; i < n; i++ {
		remainder[i] = y[i] - d.season[i] - d.trend[i]
	}

	return &Result{
		Seasonal:  d.season,
		Trend:     d.trend,
		Remainder: remainder,
		Weights:   weights,
		Params:    p,
	}, nil
}

// decomposition carries the state and scratch buffers of one STL fit.
type decomposition struct {
	p Params
	n int
	y []float64

	season []float64
	trend  []float64
	rw     []float64 // nil until the first robustness pass

	cycle []float64 // cycle-subseries smooth, extended one period at each end
	work1 []float64
	work2 []float64
	work3 []float64

	sub    []float64
	subOut []float64
	subRW  []float64
	subW   []float64
}

func newDecomposition(y []float64, p Params) *decomposition {
	n := len(y)
	ext := n + 2*p.Period
	maxSub := (n-1)/p.Period + 1

	return &decomposition{
		p:      p,
		n:      n,
		y:      y,
		season: make([]float64, n),
		trend:  make([]float64, n),
		cycle:  make([]float64, ext),
		work1:  make([]float64, ext),
		work2:  make([]float64, ext),
		work3:  make([]float64, ext),
		sub:    make([]float64, maxSub),
		subOut: make([]float64, maxSub+2),
		subRW:  make([]float64, maxSub),
		subW:   make([]float64, maxSub),
	}
}

// inner runs the inner loop passes, refining season and trend.
func (d *decomposition) inner() {
	n, np := d.n, d.p.Period

	for pass := 0; pass < d.p.InnerIter; pass++ {
		// Step 1: Detrend
		for i := 0; i < n; i++ {
			d.work1[i] = d.y[i] - d.trend[i]
		}

		// Step 2: Smooth each cycle-subseries
		d.smoothCycles(d.work1[:n])

		// Step 3: Low-pass filter the cycle smooth
		movingAverage(d.cycle, np, d.work3)
		movingAverage(d.work3[:n+np+1], np, d.work1)
		movingAverage(d.work1[:n+2], 3, d.work3)
		ess(d.work3[:n], n, d.p.LowPass, d.p.LowPassDeg.poly(), d.p.LowPassJump, nil, d.work1[:n], d.work2)

		// Step 4: Seasonal is the detrended cycle smooth
		for i := 0; i < n; i++ {
			d.season[i] = d.cycle[np+i] - d.work1[i]
		}

		// Step 5: Deseasonalize and smooth the trend
		for i := 0; i < n; i++ {
			d.work1[i] = d.y[i] - d.season[i]
		}
		ess(d.work1[:n], n, d.p.Trend, d.p.TrendDeg.poly(), d.p.TrendJump, d.rw, d.trend, d.work2)
	}
}

// smoothCycles smooths every cycle-subseries of x and extrapolates each one
// by a single point at both ends, filling d.cycle.
func (d *decomposition) smoothCycles(x []float64) {
	n, np := d.n, d.p.Period
	ns := d.p.Seasonal
	deg := d.p.SeasonalDeg.poly()

	for j := 1; j <= np; j++ {
		k := (n-j)/np + 1
		for i := 1; i <= k; i++ {
			d.sub[i-1] = x[(i-1)*np+j-1]
		}

		var rw []float64
		if d.rw != nil {
			for i := 1; i <= k; i++ {
				d.subRW[i-1] = d.rw[(i-1)*np+j-1]
			}
			rw = d.subRW[:k]
		}

		sub := d.sub[:k]
		ess(sub, k, ns, deg, d.p.SeasonalJump, rw, d.subOut[1:k+1], d.subW)

		v, ok := est(sub, k, ns, deg, 0, 1, min(ns, k), d.subW, rw)
		if !ok {
			v = d.subOut[1]
		}
		d.subOut[0] = v

		v, ok = est(sub, k, ns, deg, float64(k+1), max(1, k-ns+1), k, d.subW, rw)
		if !ok {
			v = d.subOut[k]
		}
		d.subOut[k+1] = v

		for m := 1; m <= k+2; m++ {
			d.cycle[(m-1)*np+j-1] = d.subOut[m-1]
		}
	}
}

// updateWeights computes bisquare robustness weights from the current fit.
func (d *decomposition) updateWeights() {
	if d.rw == nil {
		d.rw = make([]float64, d.n)
	}

	residuals := make([]float64, d.n)
	for i := range residuals {
		residuals[i] = math.Abs(d.y[i] - d.season[i] - d.trend[i])
	}

	h := 6 * median(residuals)
	c9 := 0.999 * h
	c1 := 0.001 * h

	for i, r := range residuals {
		switch {
		case r <= c1:
			d.rw[i] = 1
		case r <= c9:
			u := r / h
			u = 1 - u*u
			d.rw[i] = u * u
		default:
			d.rw[i] = 0
		}
	}
}

// median calculates the median of a slice without modifying it.
func median(data []float64) float64 {
	n := len(data)
	if n == 0 {
		return 0
	}

	sorted := make([]float64, n)
	copy(sorted, data)
	sort.Float64s(sorted)

	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

func nextOdd(v int) int {
	if v%2 == 0 {
		return v + 1
	}
	return v
}
