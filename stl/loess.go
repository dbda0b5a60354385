package stl

import "math"

// est computes the loess estimate at abscissa xs from the points
// nleft..nright of y. Positions are 1-based, matching the abscissae used by
// the smoother (point i sits at x = i). w is scratch space of at least
// nright elements. When rw is non-nil the tricube weights are multiplied by
// the robustness weights.
//
// It reports false when every neighbourhood weight is zero.
func est(y []float64, n, length, deg int, xs float64, nleft, nright int, w, rw []float64) (float64, bool) {
	span := float64(n - 1)
	h := math.Max(xs-float64(nleft), float64(nright)-xs)
	if length > n {
		h += float64((length - n) / 2)
	}
	h9 := 0.999 * h
	h1 := 0.001 * h

	// Tricube neighbourhood weights
	total := 0.0
	for j := nleft; j <= nright; j++ {
		w[j-1] = 0
		r := math.Abs(float64(j) - xs)
		if r > h9 {
			continue
		}
		if r <= h1 {
			w[j-1] = 1
		} else {
			q := r / h
			q = 1 - q*q*q
			w[j-1] = q * q * q
		}
		if rw != nil {
			w[j-1] *= rw[j-1]
		}
		total += w[j-1]
	}
	if total <= 0 {
		return 0, false
	}
	for j := nleft; j <= nright; j++ {
		w[j-1] /= total
	}

	// Local line: fold the slope into the weights
	if h > 0 && deg > 0 {
		mean := 0.0
		for j := nleft; j <= nright; j++ {
			mean += w[j-1] * float64(j)
		}
		b := xs - mean
		c := 0.0
		for j := nleft; j <= nright; j++ {
			d := float64(j) - mean
			c += w[j-1] * d * d
		}
		if math.Sqrt(c) > 0.001*span {
			b /= c
			for j := nleft; j <= nright; j++ {
				w[j-1] *= b*(float64(j)-mean) + 1
			}
		}
	}

	ys := 0.0
	for j := nleft; j <= nright; j++ {
		ys += w[j-1] * y[j-1]
	}
	return ys, true
}

// ess smooths y with a loess window of the given length, writing the fitted
// values into ys. With jump > 1 the fit is evaluated every jump points and
// linearly interpolated in between.
func ess(y []float64, n, length, deg, jump int, rw, ys, w []float64) {
	if n < 2 {
		ys[0] = y[0]
		return
	}

	var nleft, nright int
	fit := func(i int) {
		v, ok := est(y, n, length, deg, float64(i), nleft, nright, w, rw)
		if !ok {
			v = y[i-1]
		}
		ys[i-1] = v
	}

	step := min(jump, n-1)
	switch {
	case length >= n:
		nleft, nright = 1, n
		for i := 1; i <= n; i += step {
			fit(i)
		}
	case step == 1:
		half := (length + 1) / 2
		nleft, nright = 1, length
		for i := 1; i <= n; i++ {
			if i > half && nright != n {
				nleft++
				nright++
			}
			fit(i)
		}
	default:
		half := (length + 1) / 2
		for i := 1; i <= n; i += step {
			switch {
			case i < half:
				nleft, nright = 1, length
			case i >= n-half+1:
				nleft, nright = n-length+1, n
			default:
				nleft, nright = i-half+1, length+i-half
			}
			fit(i)
		}
	}

	if step == 1 {
		return
	}

	for i := 1; i <= n-step; i += step {
		delta := (ys[i+step-1] - ys[i-1]) / float64(step)
		for j := i + 1; j < i+step; j++ {
			ys[j-1] = ys[i-1] + delta*float64(j-i)
		}
	}

	k := ((n-1)/step)*step + 1
	if k == n {
		return
	}
	fit(n)
	if k != n-1 {
		delta := (ys[n-1] - ys[k-1]) / float64(n-k)
		for j := k + 1; j < n; j++ {
			ys[j-1] = ys[k-1] + delta*float64(j-k)
		}
	}
}

// movingAverage writes the running mean of x over windows of the given
// length into out, which must hold len(x)-length+1 values.
func movingAverage(x []float64, length int, out []float64) {
	count := len(x) - length + 1
	sum := 0.0
	for i := 0; i < length; i++ {
		sum += x[i]
	}
	flen := float64(length)
	out[0] = sum / flen
	for j := 1; j < count; j++ {
		sum += x[j+length-1] - x[j-1]
		out[j] = sum / flen
	}
}
