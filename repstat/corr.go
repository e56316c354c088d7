package repstat

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

func cmplxMulConj(dst, b []complex128) {
	if len(dst) != len(b) {
		panic(fmt.Sprintf("complex conjugate multiplication of slices: Both slices should have the same len %d, %d", len(dst), len(b)))
	}
	for i, v := range b {
		dst[i] *= cmplx.Conj(v)
	}
}

//centered returns a copy of d with its mean subtracted.
func centered(d []float64) []float64 {
	ret := make([]float64, len(d))
	floats.AddConst(-stat.Mean(d, nil), floats.ScaleTo(ret, 1, d))
	return ret
}

//CrossCorr returns the normalized cross-correlation of a and b for lags 0 to len(a)-1:
//sum_t a'(t+k) b'(t) / sqrt(sum_t a'(t)^2 sum_t b'(t)^2), where a' and b' are a and b
//minus their means. The sums are obtained through FFTs, with the data zero-padded to
//twice their length, so there is no wrap-around.
func CrossCorr(a, b []float64) ([]float64, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("cross-correlation of series of lengths %d and %d", len(a), len(b))
	}
	if len(a) < 2 {
		return nil, fmt.Errorf("correlating %d points: %w", len(a), ErrShortSeries)
	}
	ac := centered(a)
	bc := centered(b)
	norm := math.Sqrt(floats.Dot(ac, ac) * floats.Dot(bc, bc))
	if norm == 0 {
		return nil, ErrZeroVariance
	}
	n := len(a)
	apad := make([]complex128, 2*n)
	bpad := make([]complex128, 2*n)
	for i := range ac {
		apad[i] = complex(ac[i], 0)
		bpad[i] = complex(bc[i], 0)
	}
	f := fourier.NewCmplxFFT(len(apad))
	f.Coefficients(apad, apad)
	f.Coefficients(bpad, bpad)
	cmplxMulConj(apad, bpad)
	f.Sequence(apad, apad) //not normalized, scaled by len(apad)
	ret := make([]float64, n)
	for i := range ret {
		ret[i] = real(apad[i]) / float64(len(apad)) / norm
	}
	return ret, nil
}

//AutoCorr returns the normalized autocorrelation function of data, for lags 0 to
//len(data)-1. The value at lag 0 is 1.
func AutoCorr(data []float64) ([]float64, error) {
	return CrossCorr(data, data)
}

//CorrTime returns the integrated autocorrelation time of data, in steps:
//1 + 2 sum_k acf(k), where the sum stops at the first non-positive value of
//the autocorrelation function.
func CorrTime(data []float64) (float64, error) {
	acf, err := AutoCorr(data)
	if err != nil {
		return 0, err
	}
	tau := 1.0
	for _, v := range acf[1:] {
		if v <= 0 {
			break
		}
		tau += 2 * v
	}
	return tau, nil
}
