package simrc

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

const (
	// Amplitude of the input voltage wave in volts, half the 3.3 V supply
	// rail of the simulated device. Fixed, not user-configurable.
	Amplitude = 3.3 / 2

	// SamplesPerCycle is the fixed oversampling factor: the sampling rate is
	// the drive frequency times this constant, so every cycle is resolved by
	// ~100 points and the DFT cleanly picks up the fundamental.
	SamplesPerCycle = 100
)

// Parameter bounds. Out-of-range values are rejected by Validate before any
// arithmetic runs.
const (
	MinFrequency     = 1
	MaxFrequency     = 10000
	MinCycles        = 1
	MaxCycles        = 10
	MinResistance    = 1
	MaxResistance    = 10000
	MinCapacitanceNF = 1
	MaxCapacitanceNF = 1000
)

var (
	// ErrInvalidParams reports a simulation parameter outside its documented
	// bounds.
	ErrInvalidParams = errors.New("simrc: parameter out of range")

	// ErrDegenerateSpectrum reports a zero peak current amplitude, which
	// leaves the calculated impedance undefined.
	ErrDegenerateSpectrum = errors.New("simrc: degenerate spectrum, zero peak current amplitude")
)

// Params holds the four user-adjustable inputs of the RC circuit simulation.
type Params struct {
	Frequency     int `json:"frequency"`      // drive frequency, Hz
	Cycles        int `json:"cycles"`         // number of wave oscillations
	Resistance    int `json:"resistance"`     // Ohms
	CapacitanceNF int `json:"capacitance_nf"` // nanofarads
}

// Validate checks every field against its bounds and fails fast on the first
// violation.
func (p Params) Validate() error {
	switch {
	case p.Frequency < MinFrequency || p.Frequency > MaxFrequency:
		return fmt.Errorf("%w: frequency %d Hz not in [%d,%d]", ErrInvalidParams, p.Frequency, MinFrequency, MaxFrequency)
	case p.Cycles < MinCycles || p.Cycles > MaxCycles:
		return fmt.Errorf("%w: cycle count %d not in [%d,%d]", ErrInvalidParams, p.Cycles, MinCycles, MaxCycles)
	case p.Resistance < MinResistance || p.Resistance > MaxResistance:
		return fmt.Errorf("%w: resistance %d Ohm not in [%d,%d]", ErrInvalidParams, p.Resistance, MinResistance, MaxResistance)
	case p.CapacitanceNF < MinCapacitanceNF || p.CapacitanceNF > MaxCapacitanceNF:
		return fmt.Errorf("%w: capacitance %d nF not in [%d,%d]", ErrInvalidParams, p.CapacitanceNF, MinCapacitanceNF, MaxCapacitanceNF)
	}
	return nil
}

// Output bundles everything derived from one parameter set: the voltage and
// current waveforms over the simulated window, their single-sided amplitude
// spectra, and the expected vs. calculated impedance magnitudes.
type Output struct {
	Time    []float64 `json:"time"`    // seconds, strictly increasing
	Voltage []float64 `json:"voltage"` // input voltage wave, volts
	Current []float64 `json:"current"` // output current wave, amps

	VoltageSpectrum []float64 `json:"voltage_spectrum"`
	CurrentSpectrum []float64 `json:"current_spectrum"`

	PeakVoltage float64 `json:"peak_voltage"`
	PeakCurrent float64 `json:"peak_current"`

	ExpectedImpedance   float64 `json:"expected_impedance"`
	CalculatedImpedance float64 `json:"calculated_impedance"`
}

// Simulate runs one full RC simulation. It is a pure function of its input:
// identical parameters always produce identical output, and nothing is
// retained between calls.
func Simulate(p Params) (*Output, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	z := ExpectedImpedance(p.Resistance, p.CapacitanceNF, float64(p.Frequency))

	duration := float64(p.Cycles) / float64(p.Frequency)
	sampleRate := float64(p.Frequency * SamplesPerCycle)
	// Truncation, not rounding. duration*sampleRate lands just below an
	// integer for some cycle/frequency pairs and the recorded outputs were
	// produced with the truncated count.
	n := int(duration * sampleRate)

	t := floats.Span(make([]float64, n), 0, duration)
	voltage := make([]float64, n)
	current := make([]float64, n)
	omega := 2 * math.Pi * float64(p.Frequency)
	for i, ti := range t {
		voltage[i] = Amplitude * math.Sin(omega*ti)
		// Linear response model: the circuit is treated as a pure resistor
		// of magnitude z with a sign inversion. The calculated impedance
		// below is defined relative to this model, so it must not be
		// replaced by a transient solution.
		current[i] = -voltage[i] / z
	}

	vSpec := SingleSidedSpectrum(voltage)
	iSpec := SingleSidedSpectrum(current)

	vPeak := floats.Max(vSpec)
	iPeak := floats.Max(iSpec)
	if iPeak == 0 {
		return nil, ErrDegenerateSpectrum
	}

	return &Output{
		Time:                t,
		Voltage:             voltage,
		Current:             current,
		VoltageSpectrum:     vSpec,
		CurrentSpectrum:     iSpec,
		PeakVoltage:         vPeak,
		PeakCurrent:         iPeak,
		ExpectedImpedance:   z,
		CalculatedImpedance: vPeak / iPeak,
	}, nil
}
