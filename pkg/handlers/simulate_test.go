package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nazeern/simrc/internal/processing"
	"github.com/nazeern/simrc/pkg/config"
	"github.com/nazeern/simrc/pkg/models"
)

func newTestHandler() *SimulateHandler {
	cfg := config.DefaultConfig()
	cfg.Quiet = true
	return NewSimulateHandler(cfg, processing.New().ProcessorFunc())
}

func TestSimulateHandler(t *testing.T) {
	h := newTestHandler()

	body, _ := json.Marshal(models.SimulationRequest{
		Frequency:     100,
		Cycles:        2,
		Resistance:    50,
		CapacitanceNF: 100,
	})
	req := httptest.NewRequest("POST", "/simulate", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var resp models.SimulationResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.RequestID == "" {
		t.Error("response has no request ID")
	}
	if len(resp.Time) != 200 {
		t.Errorf("sample count = %d, want 200", len(resp.Time))
	}
	if resp.ExpectedImpedance <= 0 || resp.CalculatedImpedance <= 0 {
		t.Errorf("impedances = %g/%g, want > 0", resp.ExpectedImpedance, resp.CalculatedImpedance)
	}
}

func TestSimulateHandlerErrors(t *testing.T) {
	h := newTestHandler()

	cases := []struct {
		name   string
		method string
		body   string
		status int
	}{
		{"wrong method", "GET", "", http.StatusMethodNotAllowed},
		{"malformed json", "POST", `{"frequency":`, http.StatusBadRequest},
		{"params out of range", "POST", `{"frequency":0,"cycles":1,"resistance":1,"capacitance_nf":1}`, http.StatusBadRequest},
		{"frequency too high", "POST", `{"frequency":20000,"cycles":1,"resistance":1,"capacitance_nf":1}`, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, "/simulate", strings.NewReader(tc.body))
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			if w.Code != tc.status {
				t.Fatalf("status = %d, want %d; body: %s", w.Code, tc.status, w.Body.String())
			}
			var errResp map[string]string
			if err := json.NewDecoder(w.Body).Decode(&errResp); err != nil {
				t.Fatalf("error body is not JSON: %v", err)
			}
			if errResp["error"] == "" {
				t.Error("error body has no message")
			}
		})
	}
}

func TestSimulateHandlerCORSPreflight(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest("OPTIONS", "/simulate", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q, want *", got)
	}
}
