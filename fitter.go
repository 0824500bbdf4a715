package simrc

import (
	"fmt"
	"log"
	"math"

	"github.com/maorshutman/lm"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
)

// Fit methods.
const (
	NelderMead         = "nelder-mead"
	LevenbergMarquardt = "lm"
	Newton             = "newton"
)

// FitResult holds the outcome of a parameter fit.
type FitResult struct {
	Resistance  float64 // Ohms
	Capacitance float64 // farads
	Residual    float64 // mean squared relative error at the solution
	Method      string
	Solved      bool
	Iters       int
	FuncEval    int
}

// Fitter recovers the R and C of a series RC circuit from impedance
// magnitudes observed over a frequency sweep. The fit runs in log10
// parameter space so that resistance (Ohms to kiloohms) and capacitance
// (tens of nanofarads) are conditioned equally and stay positive.
type Fitter struct {
	Freqs    []float64
	Observed []float64 // impedance magnitudes, same length as Freqs
	Init     []float64 // [R, C] starting point; derived from the data when empty
	Method   string    // NelderMead (default), LevenbergMarquardt or Newton
}

// NewFitter creates a fitter over the given sweep.
func NewFitter(freqs, observed []float64) *Fitter {
	return &Fitter{Freqs: freqs, Observed: observed, Method: NelderMead}
}

// Fit runs the configured optimization method.
func (f *Fitter) Fit() (FitResult, error) {
	if len(f.Freqs) == 0 || len(f.Freqs) != len(f.Observed) {
		return FitResult{}, fmt.Errorf("simrc: fit needs matching frequency and magnitude data, got %d/%d points", len(f.Freqs), len(f.Observed))
	}
	for i, m := range f.Observed {
		if m <= 0 || math.IsNaN(m) || math.IsInf(m, 0) {
			return FitResult{}, fmt.Errorf("simrc: observed magnitude %v at index %d is not a positive finite number", m, i)
		}
	}

	x0 := f.initPoint()

	switch f.Method {
	case LevenbergMarquardt:
		return f.lmFit(x0)
	case Newton:
		return f.newtonFit(x0)
	case NelderMead, "":
		return f.nmFit(x0)
	default:
		log.Printf("unknown fit method %q, using Nelder-Mead", f.Method)
		return f.nmFit(x0)
	}
}

// initPoint returns the starting point in log10 space. At the top of the
// sweep the reactance is smallest, so the observed magnitude there seeds R;
// at the bottom the reactance dominates, seeding C from 1/(2*pi*f*|Z|).
func (f *Fitter) initPoint() []float64 {
	if len(f.Init) == 2 && f.Init[0] > 0 && f.Init[1] > 0 {
		return []float64{math.Log10(f.Init[0]), math.Log10(f.Init[1])}
	}
	last := len(f.Freqs) - 1
	r0 := f.Observed[last]
	c0 := 1 / (2 * math.Pi * f.Freqs[0] * f.Observed[0])
	return []float64{math.Log10(r0), math.Log10(c0)}
}

// residual is the mean squared relative error of the model against the
// observed sweep, with parameters given as [log10 R, log10 C].
func (f *Fitter) residual(x []float64) float64 {
	r := math.Pow(10, x[0])
	c := math.Pow(10, x[1])
	sum := 0.0
	for i, freq := range f.Freqs {
		d := (rcMagnitude(r, c, freq) - f.Observed[i]) / f.Observed[i]
		sum += d * d
	}
	return sum / float64(len(f.Freqs))
}

func (f *Fitter) nmFit(x0 []float64) (FitResult, error) {
	problem := optimize.Problem{Func: f.residual}

	res, err := optimize.Minimize(problem, x0, nil, &optimize.NelderMead{})
	if err != nil {
		return FitResult{}, fmt.Errorf("nelder-mead fit: %w", err)
	}
	return f.result(NelderMead, res.X, res.F, res.MajorIterations, res.FuncEvaluations), nil
}

func (f *Fitter) newtonFit(x0 []float64) (FitResult, error) {
	grad := func(dst, x []float64) {
		fd.Gradient(dst, f.residual, x, nil)
	}
	hess := func(dst *mat.SymDense, x []float64) {
		fd.Hessian(dst, f.residual, x, nil)
	}
	problem := optimize.Problem{
		Func: f.residual,
		Grad: grad,
		Hess: hess,
	}

	res, err := optimize.Minimize(problem, x0, nil, &optimize.Newton{})
	if err != nil {
		return FitResult{}, fmt.Errorf("newton fit: %w", err)
	}
	return f.result(Newton, res.X, res.F, res.MajorIterations, res.FuncEvaluations), nil
}

func (f *Fitter) lmFit(x0 []float64) (result FitResult, err error) {
	fnc := func(dst, x []float64) {
		r := math.Pow(10, x[0])
		c := math.Pow(10, x[1])
		for i, freq := range f.Freqs {
			dst[i] = (rcMagnitude(r, c, freq) - f.Observed[i]) / f.Observed[i]
		}
	}
	jac := lm.NumJac{Func: fnc}

	problem := lm.LMProblem{
		Dim:        len(x0),
		Size:       len(f.Freqs),
		Func:       fnc,
		Jac:        jac.Jac,
		InitParams: x0,
		Tau:        1e-6,
		Eps1:       1e-8,
		Eps2:       1e-8,
	}

	// lm panics on singular normal equations instead of returning an error.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("levenberg-marquardt fit: %v", r)
		}
	}()

	res, lmErr := lm.LM(problem, &lm.Settings{Iterations: 1000, ObjectiveTol: 1e-16})
	if lmErr != nil {
		return FitResult{}, fmt.Errorf("levenberg-marquardt fit: %w", lmErr)
	}
	return f.result(LevenbergMarquardt, res.X, f.residual(res.X), 0, 0), nil
}

func (f *Fitter) result(method string, x []float64, residual float64, iters, evals int) FitResult {
	return FitResult{
		Resistance:  math.Pow(10, x[0]),
		Capacitance: math.Pow(10, x[1]),
		Residual:    residual,
		Method:      method,
		Solved:      !math.IsNaN(residual) && !math.IsInf(residual, 0),
		Iters:       iters,
		FuncEval:    evals,
	}
}
