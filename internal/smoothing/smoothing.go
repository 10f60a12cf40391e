// Package smoothing provides the trend filters used by the plots.
package smoothing

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ErrWindow is returned for a filter window that does not fit the data.
var ErrWindow = errors.New("invalid filter window")

// RollingMean returns the mean of each full window of x. With centered the
// window is aligned on its middle sample, otherwise it ends at the sample.
// Positions without a full window, or whose window holds a NaN, are NaN.
func RollingMean(x []float64, window int, centered bool) []float64 {
	out := make([]float64, len(x))
	for i := range out {
		out[i] = math.NaN()
	}
	if window <= 0 || window > len(x) {
		return out
	}

	offset := 0
	if centered {
		offset = window / 2
	}
	for end := window - 1; end < len(x); end++ {
		w := x[end-window+1 : end+1]
		if floats.HasNaN(w) {
			continue
		}
		out[end-offset] = floats.Sum(w) / float64(window)
	}
	return out
}

// SavitzkyGolay smooths x with a least-squares polynomial of the given order
// fitted over a sliding window of odd length. The first and last half-windows
// are taken from the polynomial fitted to the first and last full window.
func SavitzkyGolay(x []float64, window, order int) ([]float64, error) {
	switch {
	case window%2 == 0 || window < 1:
		return nil, fmt.Errorf("%w: length %d must be odd and positive", ErrWindow, window)
	case order >= window:
		return nil, fmt.Errorf("%w: polynomial order %d must be less than window %d", ErrWindow, order, window)
	case order < 0:
		return nil, fmt.Errorf("%w: negative polynomial order %d", ErrWindow, order)
	case window > len(x):
		return nil, fmt.Errorf("%w: length %d exceeds %d samples", ErrWindow, window, len(x))
	}

	fit, err := projection(window, order)
	if err != nil {
		return nil, err
	}

	half := window / 2
	out := make([]float64, len(x))
	for i := half; i < len(x)-half; i++ {
		out[i] = mat.Dot(fit.RowView(0), mat.NewVecDense(window, x[i-half:i+half+1]))
	}

	head := polyCoeffs(fit, x[:window])
	tail := polyCoeffs(fit, x[len(x)-window:])
	for k := 0; k < half; k++ {
		out[k] = evalPoly(head, float64(k-half)/float64(half))
		j := len(x) - half + k
		out[j] = evalPoly(tail, float64(k+1)/float64(half))
	}
	return out, nil
}

// TrendWindow is the Savitzky–Golay window used for short frost series:
// roughly two thirds of the samples, forced odd and capped at 21.
func TrendWindow(n int) int {
	return min(21, n/3*2+1)
}

// projection returns the (order+1) x window matrix mapping a window of samples
// to the coefficients of its least-squares polynomial in t = (k-half)/half.
// Row 0 is the smoothing kernel: the fitted value at the window centre.
func projection(window, order int) (*mat.Dense, error) {
	half := window / 2
	scale := float64(max(half, 1))

	vander := mat.NewDense(window, order+1, nil)
	for k := range window {
		t := float64(k-half) / scale
		for j := 0; j <= order; j++ {
			vander.Set(k, j, math.Pow(t, float64(j)))
		}
	}

	var qr mat.QR
	qr.Factorize(vander)

	fit := mat.NewDense(order+1, window, nil)
	if err := qr.SolveTo(fit, false, identity(window)); err != nil {
		return nil, fmt.Errorf("fit polynomial: %w", err)
	}
	return fit, nil
}

func identity(n int) *mat.DiagDense {
	ones := make([]float64, n)
	for i := range ones {
		ones[i] = 1
	}
	return mat.NewDiagDense(n, ones)
}

func polyCoeffs(fit *mat.Dense, samples []float64) []float64 {
	var c mat.VecDense
	c.MulVec(fit, mat.NewVecDense(len(samples), samples))
	return c.RawVector().Data
}

func evalPoly(c []float64, t float64) float64 {
	v := 0.0
	for j := len(c) - 1; j >= 0; j-- {
		v = v*t + c[j]
	}
	return v
}
