package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/nazeern/simrc"
	"github.com/nazeern/simrc/pkg/config"
	"github.com/nazeern/simrc/pkg/models"
	"github.com/nazeern/simrc/pkg/worker"
)

func newBatchHandler(t *testing.T, sendWebhook func(models.WebhookItem)) *BatchHandler {
	t.Helper()

	// The timing CSV is written to the working directory.
	orig, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(orig) })

	cfg := config.DefaultConfig()
	cfg.Quiet = true

	pool := worker.New(worker.Options{
		Workers: 2,
		Config:  cfg,
		Processor: func(req models.SimulationRequest, _ *config.Config) (*simrc.Output, error) {
			return simrc.Simulate(req.Params())
		},
		SendWebhook: sendWebhook,
	})
	t.Cleanup(pool.Shutdown)

	return NewBatchHandler(cfg, pool)
}

func TestBatchHandlerAccepted(t *testing.T) {
	hooks := make(chan models.WebhookItem, 8)
	h := newBatchHandler(t, func(item models.WebhookItem) { hooks <- item })

	batch := models.SimulationBatch{
		BatchID:   "batch_01",
		Timestamp: time.Now(),
		Items: []models.BatchItem{
			{Iteration: 0, Request: models.SimulationRequest{Frequency: 100, Cycles: 1, Resistance: 50, CapacitanceNF: 100}},
			{Iteration: 1, Request: models.SimulationRequest{Frequency: 200, Cycles: 1, Resistance: 50, CapacitanceNF: 100}},
			{Iteration: 2, Request: models.SimulationRequest{Frequency: 300, Cycles: 1, Resistance: 50, CapacitanceNF: 100}},
		},
	}
	body, _ := json.Marshal(batch)

	req := httptest.NewRequest("POST", "/simulate/batch", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusAccepted, w.Body.String())
	}

	var resp map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp["success"] != true || resp["batch_id"] != "batch_01" {
		t.Errorf("response = %v, want success for batch_01", resp)
	}

	// Every item should eventually come through the webhook path.
	for i := 0; i < len(batch.Items); i++ {
		select {
		case item := <-hooks:
			if item.Output == nil {
				t.Fatal("webhook item has no output")
			}
			if !strings.Contains(item.RequestID, "_iter_") {
				t.Errorf("webhook request ID %q has no iteration suffix", item.RequestID)
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out after %d of %d webhook deliveries", i, len(batch.Items))
		}
	}
}

func TestBatchHandlerErrors(t *testing.T) {
	h := newBatchHandler(t, nil)

	cases := []struct {
		name   string
		method string
		body   string
		status int
	}{
		{"wrong method", "GET", "", http.StatusMethodNotAllowed},
		{"malformed json", "POST", `{"items":`, http.StatusBadRequest},
		{"empty batch", "POST", `{"batch_id":"b","items":[]}`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, "/simulate/batch", strings.NewReader(tc.body))
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			if w.Code != tc.status {
				t.Fatalf("status = %d, want %d", w.Code, tc.status)
			}
		})
	}
}
