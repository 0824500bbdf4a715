package webhook

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nazeern/simrc"
	"github.com/nazeern/simrc/pkg/config"
	"github.com/nazeern/simrc/pkg/models"
)

func quietConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Quiet = true
	return cfg
}

func testItem(t *testing.T) models.WebhookItem {
	t.Helper()
	req := models.SimulationRequest{Frequency: 100, Cycles: 2, Resistance: 50, CapacitanceNF: 100}
	out, err := simrc.Simulate(req.Params())
	if err != nil {
		t.Fatal(err)
	}
	return models.WebhookItem{RequestID: "req_42", Request: req, Output: out}
}

func TestClientSend(t *testing.T) {
	var received models.WebhookResponse
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decoding payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, quietConfig())
	item := testItem(t)
	if err := client.Send(item); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if received.ID != "req_42" {
		t.Errorf("payload ID = %q, want req_42", received.ID)
	}
	if len(received.TimePoints) != 200 || len(received.VoltageSpectrum) != 100 {
		t.Errorf("payload series lengths = %d/%d, want 200/100",
			len(received.TimePoints), len(received.VoltageSpectrum))
	}
	if len(received.Elements) != 2 {
		t.Fatalf("payload has %d elements, want 2", len(received.Elements))
	}
	if received.Elements[0].Name != "R1" || received.Elements[1].Name != "C1" {
		t.Errorf("element names = %q, %q; want R1, C1", received.Elements[0].Name, received.Elements[1].Name)
	}
}

func TestClientSendServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, quietConfig())
	if err := client.Send(testItem(t)); err == nil {
		t.Fatal("Send() = nil error on 500 response, want error")
	}
}

func TestClientSendNoOutput(t *testing.T) {
	client := NewClient("http://localhost:0", quietConfig())
	if err := client.Send(models.WebhookItem{RequestID: "empty"}); err == nil {
		t.Fatal("Send() = nil error for item without output, want error")
	}
}

func TestElementBreakdown(t *testing.T) {
	req := models.SimulationRequest{Frequency: 100, Cycles: 1, Resistance: 220, CapacitanceNF: 47}
	elems := ElementBreakdown(req)

	if len(elems) != 2 {
		t.Fatalf("got %d elements, want 2", len(elems))
	}
	if elems[0].Real != 220 || elems[0].Imag != 0 {
		t.Errorf("R1 = %g%+gi, want 220+0i", elems[0].Real, elems[0].Imag)
	}

	wantReactance := -1 / (2 * math.Pi * 100 * 47e-8)
	if elems[1].Real != 0 || math.Abs(elems[1].Imag-wantReactance) > 1e-9 {
		t.Errorf("C1 = %g%+gi, want 0%+gi", elems[1].Real, elems[1].Imag, wantReactance)
	}
}

func TestElementBreakdownZeroInputs(t *testing.T) {
	elems := ElementBreakdown(models.SimulationRequest{})
	for _, e := range elems {
		if math.IsNaN(e.Real) || math.IsInf(e.Real, 0) || math.IsNaN(e.Imag) || math.IsInf(e.Imag, 0) {
			t.Fatalf("element %s is not finite: %g%+gi", e.Name, e.Real, e.Imag)
		}
	}
}
