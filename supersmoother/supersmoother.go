// Package supersmoother implements Friedman's variable-span SuperSmoother.
package supersmoother

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// Standard spans, as fractions of the number of observations.
const (
	Tweeter  = 0.05
	Midrange = 0.2
	Woofer   = 0.5
)

var (
	// ErrLengthMismatch is returned when t and y differ in length.
	ErrLengthMismatch = errors.New("supersmoother: t and y must have the same length")
	// ErrTooFewPoints is returned when fewer than three observations are supplied.
	ErrTooFewPoints = errors.New("supersmoother: at least 3 observations are required")
	// ErrNotFitted is returned by Predict before a successful Fit.
	ErrNotFitted = errors.New("supersmoother: model is not fitted")
	// ErrInvalidAlpha is returned for a bass enhancement outside (0, 10].
	ErrInvalidAlpha = errors.New("supersmoother: alpha must be in (0, 10]")
)

// Smoother is a SuperSmoother. The zero value is not usable; call New.
type Smoother struct {
	PrimarySpans []float64 // Candidate spans in increasing order
	MiddleSpan   float64   // Span used to smooth residuals and chosen spans
	FinalSpan    float64   // Span of the final pass
	Alpha        float64   // Bass enhancement in (0, 10], 0 disables it

	x      []float64
	fitted []float64
}

// New creates a SuperSmoother with Friedman's default spans.
func New() *Smoother {
	return &Smoother{
		PrimarySpans: []float64{Tweeter, Midrange, Woofer},
		MiddleSpan:   Midrange,
		FinalSpan:    Tweeter,
	}
}

// Fit fits the smoother to the observations (t[i], y[i]). The abscissae do
// not need to be sorted.
func (s *Smoother) Fit(t, y []float64) error {
	if len(t) != len(y) {
		return fmt.Errorf("%w: %d and %d", ErrLengthMismatch, len(t), len(y))
	}
	n := len(t)
	if n < 3 {
		return fmt.Errorf("%w: got %d", ErrTooFewPoints, n)
	}
	if s.Alpha < 0 || s.Alpha > 10 {
		return fmt.Errorf("%w: got %g", ErrInvalidAlpha, s.Alpha)
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return t[order[a]] < t[order[b]] })

	x := make([]float64, n)
	ys := make([]float64, n)
	for i, k := range order {
		x[i] = t[k]
		ys[i] = y[k]
	}

	spans := s.PrimarySpans
	smooths := make([][]float64, len(spans))
	residuals := make([][]float64, len(spans))

	// Step 1: Primary smooths and their smoothed cross-validation residuals
	for k, span := range spans {
		smooth, cv := runningLine(x, ys, span)
		for i := range cv {
			cv[i] = math.Abs(cv[i])
		}
		smooths[k] = smooth
		residuals[k], _ = runningLine(x, cv, s.MiddleSpan)
	}

	// Step 2: Best span at every point
	best := make([]float64, n)
	for i := 0; i < n; i++ {
		bk := 0
		for k := 1; k < len(spans); k++ {
			if residuals[k][i] < residuals[bk][i] {
				bk = k
			}
		}
		best[i] = spans[bk]

		if s.Alpha > 0 {
			last := len(spans) - 1
			if residuals[last][i] > 0 {
				ratio := math.Max(residuals[bk][i]/residuals[last][i], 1e-7)
				best[i] += (spans[last] - best[i]) * math.Pow(ratio, 10-s.Alpha)
			}
		}
	}

	// Step 3: Smooth the chosen spans and blend neighbouring primary smooths
	smoothSpans, _ := runningLine(x, best, s.MiddleSpan)
	blended := make([]float64, n)
	for i := 0; i < n; i++ {
		blended[i] = blend(spans, smooths, smoothSpans[i], i)
	}

	// Step 4: Final pass
	s.fitted, _ = runningLine(x, blended, s.FinalSpan)
	s.x = x

	return nil
}

// Predict evaluates the fitted smoother at t by linear interpolation between
// fitted points. Values outside the fitted range take the nearest end value.
func (s *Smoother) Predict(t []float64) ([]float64, error) {
	if s.fitted == nil {
		return nil, ErrNotFitted
	}

	out := make([]float64, len(t))
	n := len(s.x)
	for i, v := range t {
		j := sort.SearchFloat64s(s.x, v)
		switch {
		case j == 0:
			out[i] = s.fitted[0]
		case j == n:
			out[i] = s.fitted[n-1]
		case s.x[j] == v:
			out[i] = s.fitted[j]
		default:
			x0, x1 := s.x[j-1], s.x[j]
			f := (v - x0) / (x1 - x0)
			out[i] = s.fitted[j-1] + f*(s.fitted[j]-s.fitted[j-1])
		}
	}
	return out, nil
}

// FitPredict fits y against t and evaluates the smoother at the same t.
func (s *Smoother) FitPredict(t, y []float64) ([]float64, error) {
	if err := s.Fit(t, y); err != nil {
		return nil, err
	}
	return s.Predict(t)
}

// blend interpolates between the two primary smooths whose spans bracket span.
func blend(spans []float64, smooths [][]float64, span float64, i int) float64 {
	last := len(spans) - 1
	if span <= spans[0] {
		return smooths[0][i]
	}
	if span >= spans[last] {
		return smooths[last][i]
	}
	for k := 0; k < last; k++ {
		if span <= spans[k+1] {
			f := (span - spans[k]) / (spans[k+1] - spans[k])
			return (1-f)*smooths[k][i] + f*smooths[k+1][i]
		}
	}
	return smooths[last][i]
}

// runningLine fits a local least-squares line over a window of span*n
// neighbouring points (at least 3) centred on each observation. It returns
// the fitted values and the leave-one-out residuals. x must be sorted.
func runningLine(x, y []float64, span float64) (smooth, cv []float64) {
	n := len(x)
	k := int(math.Floor(span * float64(n)))
	k = min(max(k, 3), n)
	half := k / 2

	smooth = make([]float64, n)
	cv = make([]float64, n)

	var sx, sy, sxx, sxy float64
	add := func(j int, sign float64) {
		sx += sign * x[j]
		sy += sign * y[j]
		sxx += sign * x[j] * x[j]
		sxy += sign * x[j] * y[j]
	}

	lo, hi := 0, -1
	for i := 0; i < n; i++ {
		wantLo := min(max(i-half, 0), n-k)
		wantHi := wantLo + k - 1
		for hi < wantHi {
			hi++
			add(hi, 1)
		}
		for lo < wantLo {
			add(lo, -1)
			lo++
		}

		m := float64(k)
		xbar := sx / m
		ybar := sy / m
		vx := sxx - m*xbar*xbar
		cxy := sxy - m*xbar*ybar

		dx := x[i] - xbar
		leverage := 1 / m
		fit := ybar
		if vx > 1e-12*math.Max(1, sxx) {
			fit += cxy / vx * dx
			leverage += dx * dx / vx
		}

		smooth[i] = fit
		if leverage < 1 {
			cv[i] = (y[i] - fit) / (1 - leverage)
		}
	}
	return smooth, cv
}
