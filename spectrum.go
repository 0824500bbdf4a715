package simrc

import (
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// SingleSidedSpectrum returns the single-sided amplitude spectrum of a real
// sequence: DFT magnitudes scaled by 2/N and truncated to the first N/2
// bins, discarding the mirrored negative-frequency half.
func SingleSidedSpectrum(seq []float64) []float64 {
	n := len(seq)
	fft := fourier.NewFFT(n)
	coeff := fft.Coefficients(nil, seq)

	mags := make([]float64, n/2)
	scale := 2 / float64(n)
	for i := range mags {
		mags[i] = scale * cmplx.Abs(coeff[i])
	}
	return mags
}
