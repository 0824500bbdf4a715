package worker

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/nazeern/simrc"
	"github.com/nazeern/simrc/pkg/config"
	"github.com/nazeern/simrc/pkg/models"
)

func simulateProcessor(req models.SimulationRequest, _ *config.Config) (*simrc.Output, error) {
	return simrc.Simulate(req.Params())
}

func waitForResult(t *testing.T, pool *Pool) models.WorkResult {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		if result, ok := pool.GetResult(); ok {
			return result
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for result")
		case <-time.After(time.Millisecond):
		}
	}
}

func TestPoolProcessesJob(t *testing.T) {
	pool := New(Options{Workers: 2, Processor: simulateProcessor})
	defer pool.Shutdown()

	pool.SubmitJob(models.WorkItem{
		ID:        1,
		RequestID: "test_001",
		Request:   models.SimulationRequest{Frequency: 100, Cycles: 2, Resistance: 50, CapacitanceNF: 100},
		StartTime: time.Now(),
	})

	result := waitForResult(t, pool)
	if !result.Success {
		t.Fatalf("result failed: %v", result.Err)
	}
	if result.RequestID != "test_001" {
		t.Errorf("request ID = %q, want test_001", result.RequestID)
	}
	if result.Output == nil || len(result.Output.Time) != 200 {
		t.Errorf("unexpected output: %+v", result.Output)
	}
	if result.ProcessingTime <= 0 {
		t.Errorf("processing time = %v, want > 0", result.ProcessingTime)
	}
}

func TestPoolReportsFailure(t *testing.T) {
	pool := New(Options{Workers: 1, Processor: simulateProcessor})
	defer pool.Shutdown()

	pool.SubmitJob(models.WorkItem{
		ID:        1,
		RequestID: "test_bad",
		Request:   models.SimulationRequest{Frequency: 0, Cycles: 1, Resistance: 1, CapacitanceNF: 1},
	})

	result := waitForResult(t, pool)
	if result.Success {
		t.Fatal("result succeeded, want failure")
	}
	if result.Err == nil {
		t.Fatal("result has no error")
	}
}

func TestPoolProcessesManyJobs(t *testing.T) {
	pool := New(Options{Workers: 3, Processor: simulateProcessor})
	defer pool.Shutdown()

	const jobs = 20
	for i := 0; i < jobs; i++ {
		pool.SubmitJob(models.WorkItem{
			ID:        i,
			Iteration: i,
			Request:   models.SimulationRequest{Frequency: 100 + i, Cycles: 1, Resistance: 100, CapacitanceNF: 10},
		})
	}

	seen := make(map[int]bool)
	for i := 0; i < jobs; i++ {
		result := waitForResult(t, pool)
		if !result.Success {
			t.Fatalf("job %d failed: %v", result.ID, result.Err)
		}
		if seen[result.ID] {
			t.Fatalf("job %d delivered twice", result.ID)
		}
		seen[result.ID] = true
	}
}

func TestPoolWebhookDelivery(t *testing.T) {
	var delivered atomic.Int32
	done := make(chan struct{})

	pool := New(Options{
		Workers:   1,
		Processor: simulateProcessor,
		SendWebhook: func(item models.WebhookItem) {
			if item.RequestID == "hook_001" {
				delivered.Add(1)
				close(done)
			}
		},
	})
	defer pool.Shutdown()

	out, err := simrc.Simulate(simrc.Params{Frequency: 1, Cycles: 1, Resistance: 1, CapacitanceNF: 1})
	if err != nil {
		t.Fatal(err)
	}
	pool.QueueWebhook(models.WebhookItem{RequestID: "hook_001", Output: out})

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for webhook delivery")
	}
	if delivered.Load() != 1 {
		t.Fatalf("delivered = %d, want 1", delivered.Load())
	}
}
