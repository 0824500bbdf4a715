package processing

import (
	"log"
	"time"

	"github.com/nazeern/simrc"
	"github.com/nazeern/simrc/pkg/config"
	"github.com/nazeern/simrc/pkg/models"
)

// Processor validates incoming requests and runs the simulation.
type Processor struct{}

// New creates a new simulation processor.
func New() *Processor {
	return &Processor{}
}

// Process runs one simulation for the given request. Validation failures and
// degenerate spectra come back as errors; there is no partial output.
func (p *Processor) Process(req models.SimulationRequest, cfg *config.Config) (*simrc.Output, error) {
	params := req.Params()
	if err := params.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	out, err := simrc.Simulate(params)
	if err != nil {
		return nil, err
	}

	if cfg == nil || !cfg.Quiet {
		log.Printf("simulated f=%d Hz cycles=%d R=%d Ohm C=%d nF: %d samples, Z=%.6g (calc %.6g) in %v",
			params.Frequency, params.Cycles, params.Resistance, params.CapacitanceNF,
			len(out.Time), out.ExpectedImpedance, out.CalculatedImpedance, time.Since(start))
	}
	return out, nil
}

// ProcessorFunc adapts Process to the signature the worker pool and the
// handlers consume.
func (p *Processor) ProcessorFunc() func(models.SimulationRequest, *config.Config) (*simrc.Output, error) {
	return func(req models.SimulationRequest, cfg *config.Config) (*simrc.Output, error) {
		return p.Process(req, cfg)
	}
}
