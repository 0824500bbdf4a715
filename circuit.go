package simrc

import (
	"math"
	"math/cmplx"
)

// faradsPerNF converts the nanofarad panel value to farads. Note the scale
// is 1e-8, not the conventional 1e-9: the measurement device this simulator
// mirrors ships with that conversion and all of its recorded spectra depend
// on it, so it is preserved here.
const faradsPerNF = 1e-8

// ExpectedImpedance returns the theoretical impedance magnitude of the
// series RC circuit, |R - j/(2*pi*f*C)|, for integer panel parameters.
func ExpectedImpedance(resistance, capacitanceNF int, freq float64) float64 {
	return rcMagnitude(float64(resistance), float64(capacitanceNF)*faradsPerNF, freq)
}

// rcMagnitude is the continuous-parameter form of the series RC impedance
// model used by the fitter. c is in farads.
func rcMagnitude(r, c, freq float64) float64 {
	return cmplx.Abs(complex(r, -1/(2*math.Pi*freq*c)))
}

// ImpedanceSweep evaluates the RC impedance magnitude over a frequency
// sweep. It produces the synthetic spectra used as fitter input and export
// material.
func ImpedanceSweep(resistance, capacitanceNF int, freqs []float64) []float64 {
	mags := make([]float64, len(freqs))
	for i, f := range freqs {
		mags[i] = ExpectedImpedance(resistance, capacitanceNF, f)
	}
	return mags
}

// LogSpace returns n frequencies spaced evenly on a log scale between lo and
// hi inclusive, the usual spacing for an impedance sweep.
func LogSpace(lo, hi float64, n int) []float64 {
	if n < 2 {
		return []float64{lo}
	}
	freqs := make([]float64, n)
	step := (math.Log10(hi) - math.Log10(lo)) / float64(n-1)
	for i := range freqs {
		freqs[i] = math.Pow(10, math.Log10(lo)+float64(i)*step)
	}
	return freqs
}
