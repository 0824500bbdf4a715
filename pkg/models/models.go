package models

import (
	"time"

	"github.com/nazeern/simrc"
)

// SimulationRequest is the JSON body accepted by the /simulate endpoints.
type SimulationRequest struct {
	Frequency     int `json:"frequency"`
	Cycles        int `json:"cycles"`
	Resistance    int `json:"resistance"`
	CapacitanceNF int `json:"capacitance_nf"`
}

// Params converts the request to the simulator's parameter type.
func (r SimulationRequest) Params() simrc.Params {
	return simrc.Params{
		Frequency:     r.Frequency,
		Cycles:        r.Cycles,
		Resistance:    r.Resistance,
		CapacitanceNF: r.CapacitanceNF,
	}
}

// SimulationResponse is the synchronous reply of /simulate: the full output
// bundle plus bookkeeping.
type SimulationResponse struct {
	RequestID string            `json:"request_id"`
	Request   SimulationRequest `json:"request"`

	Time    []float64 `json:"time"`
	Voltage []float64 `json:"voltage"`
	Current []float64 `json:"current"`

	VoltageSpectrum []float64 `json:"voltage_spectrum"`
	CurrentSpectrum []float64 `json:"current_spectrum"`

	ExpectedImpedance   float64 `json:"expected_impedance"`
	CalculatedImpedance float64 `json:"calculated_impedance"`

	ElapsedMS float64 `json:"elapsed_ms"`
}

// BatchItem is a single parameter set within a batch, tagged with its
// position so results can be reordered on the receiving side.
type BatchItem struct {
	Request   SimulationRequest `json:"request"`
	Iteration int               `json:"iteration"`
}

// SimulationBatch is a batch of parameter sets submitted together.
type SimulationBatch struct {
	BatchID   string      `json:"batch_id"`
	Timestamp time.Time   `json:"timestamp"`
	Items     []BatchItem `json:"items"`
}

// WorkItem is one simulation task queued on the worker pool.
type WorkItem struct {
	ID        int
	RequestID string
	BatchID   string
	Iteration int
	Request   SimulationRequest
	StartTime time.Time
}

// WorkResult carries one finished simulation back from the pool.
type WorkResult struct {
	ID             int
	RequestID      string
	BatchID        string
	Iteration      int
	Output         *simrc.Output
	Err            error
	ProcessingTime time.Duration
	Success        bool
	Request        SimulationRequest
}

// WebhookItem is a result queued for delivery to the plotting endpoint.
type WebhookItem struct {
	RequestID string
	Request   SimulationRequest
	Output    *simrc.Output
}

// ElementImpedance is the per-element impedance breakdown at the drive
// frequency included in webhook payloads.
type ElementImpedance struct {
	Name string  `json:"name"`
	Real float64 `json:"real"`
	Imag float64 `json:"imag"`
}

// WebhookResponse is the webhook payload structure.
type WebhookResponse struct {
	ID   string `json:"id"`
	Time string `json:"time"`

	Request SimulationRequest `json:"request"`

	ExpectedImpedance   float64 `json:"expected_impedance"`
	CalculatedImpedance float64 `json:"calculated_impedance"`

	TimePoints      []float64 `json:"time_points"`
	Voltage         []float64 `json:"voltage"`
	Current         []float64 `json:"current"`
	VoltageSpectrum []float64 `json:"voltage_spectrum"`
	CurrentSpectrum []float64 `json:"current_spectrum"`

	Elements []ElementImpedance `json:"elements"`
}

// ItemTiming tracks performance metrics for one batch item.
type ItemTiming struct {
	Iteration      int           `json:"iteration"`
	ProcessingTime time.Duration `json:"processing_time_ms"`
	SampleCount    int           `json:"sample_count"`
	Success        bool          `json:"success"`
}
