package webhook

import (
	"math"

	"github.com/nazeern/simrc/pkg/models"
)

// nF-to-farad scale of the simulated instrument (see the root package).
const faradsPerNF = 1e-8

// ElementBreakdown returns the complex impedance of each element of the
// series RC circuit at the drive frequency, for display alongside the
// combined magnitude.
func ElementBreakdown(req models.SimulationRequest) []models.ElementImpedance {
	c := float64(req.CapacitanceNF) * faradsPerNF
	reactance := 0.0
	if req.Frequency > 0 && c > 0 {
		reactance = -1 / (2 * math.Pi * float64(req.Frequency) * c)
	}

	return []models.ElementImpedance{
		{Name: "R1", Real: float64(req.Resistance), Imag: 0},
		{Name: "C1", Real: 0, Imag: sanitizeFloat(reactance)},
	}
}
