package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/nazeern/simrc"
	"github.com/nazeern/simrc/internal/utils"
	"github.com/nazeern/simrc/pkg/config"
	"github.com/nazeern/simrc/pkg/models"
)

// ProcessorFunc defines the signature for running one simulation.
type ProcessorFunc func(req models.SimulationRequest, cfg *config.Config) (*simrc.Output, error)

// SimulateHandler answers single simulation requests synchronously. The
// transform is fast enough that there is nothing to gain from a 202 +
// callback round trip for one parameter set.
type SimulateHandler struct {
	config    *config.Config
	processor ProcessorFunc
}

// NewSimulateHandler creates a handler for /simulate.
func NewSimulateHandler(cfg *config.Config, processor ProcessorFunc) *SimulateHandler {
	return &SimulateHandler{
		config:    cfg,
		processor: processor,
	}
}

// ServeHTTP implements the http.Handler interface.
func (h *SimulateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	setupCORS(w)

	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	if r.Method != "POST" {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.SimulationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}

	requestID := utils.GenerateID()
	start := time.Now()

	out, err := h.processor(req, h.config)
	if err != nil {
		switch {
		case errors.Is(err, simrc.ErrInvalidParams):
			writeError(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, simrc.ErrDegenerateSpectrum):
			writeError(w, err.Error(), http.StatusUnprocessableEntity)
		default:
			writeError(w, "Simulation failed", http.StatusInternalServerError)
		}
		return
	}

	if h.config == nil || !h.config.Quiet {
		log.Printf("HTTP request - ID: %s, f=%d Hz, %d samples", requestID, req.Frequency, len(out.Time))
	}

	resp := models.SimulationResponse{
		RequestID:           requestID,
		Request:             req,
		Time:                out.Time,
		Voltage:             out.Voltage,
		Current:             out.Current,
		VoltageSpectrum:     out.VoltageSpectrum,
		CurrentSpectrum:     out.CurrentSpectrum,
		ExpectedImpedance:   out.ExpectedImpedance,
		CalculatedImpedance: out.CalculatedImpedance,
		ElapsedMS:           float64(time.Since(start).Nanoseconds()) / 1e6,
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// setupCORS sets up CORS headers. The browser dashboard posts directly from
// the page, so cross-origin must be open.
func setupCORS(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, message string, statusCode int) {
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
