package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/nazeern/simrc/internal/utils"
	"github.com/nazeern/simrc/pkg/config"
	"github.com/nazeern/simrc/pkg/models"
	"github.com/nazeern/simrc/pkg/worker"
)

// BatchHandler accepts a batch of parameter sets, runs them on the worker
// pool and delivers each result by webhook. The HTTP reply is an immediate
// 202 so the caller never waits on the slowest item.
type BatchHandler struct {
	config     *config.Config
	workerPool *worker.Pool
}

// NewBatchHandler creates a handler for /simulate/batch.
func NewBatchHandler(cfg *config.Config, pool *worker.Pool) *BatchHandler {
	return &BatchHandler{
		config:     cfg,
		workerPool: pool,
	}
}

// ServeHTTP implements the http.Handler interface.
func (h *BatchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	setupCORS(w)

	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	if r.Method != "POST" {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var batch models.SimulationBatch
	if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
		writeError(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}

	if len(batch.Items) == 0 {
		writeError(w, "No items provided in batch", http.StatusBadRequest)
		return
	}

	log.Printf("batch processing started - ID: %s, items: %d", batch.BatchID, len(batch.Items))

	go h.processBatchAsync(batch)

	response := map[string]interface{}{
		"success":  true,
		"batch_id": batch.BatchID,
		"items":    len(batch.Items),
		"message":  "Batch processing started",
	}

	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(response)
}

// processBatchAsync submits every item to the pool, collects the results and
// records batch timing.
func (h *BatchHandler) processBatchAsync(batch models.SimulationBatch) {
	batchStart := time.Now()
	timings := make([]models.ItemTiming, len(batch.Items))

	for _, item := range batch.Items {
		h.workerPool.SubmitJob(models.WorkItem{
			ID:        item.Iteration,
			RequestID: utils.GenerateID(),
			BatchID:   batch.BatchID,
			Iteration: item.Iteration,
			Request:   item.Request,
			StartTime: time.Now(),
		})
	}

	received := 0
	for received < len(batch.Items) {
		result, ok := h.workerPool.GetResult()
		if !ok {
			// No results available yet, small delay to prevent busy waiting.
			time.Sleep(time.Millisecond)
			continue
		}
		h.handleResult(result, timings)
		received++
	}

	totalTime := time.Since(batchStart)
	saveBatchTiming(batch.BatchID, totalTime, timings, h.concurrency())

	log.Printf("batch processing completed - ID: %s, total time: %v", batch.BatchID, totalTime)
}

func (h *BatchHandler) handleResult(result models.WorkResult, timings []models.ItemTiming) {
	sampleCount := 0
	if result.Output != nil {
		sampleCount = len(result.Output.Time)
	}

	if result.Iteration >= 0 && result.Iteration < len(timings) {
		timings[result.Iteration] = models.ItemTiming{
			Iteration:      result.Iteration,
			ProcessingTime: result.ProcessingTime,
			SampleCount:    sampleCount,
			Success:        result.Success,
		}
	}

	if !result.Success {
		log.Printf("batch item %d failed: %v", result.Iteration, result.Err)
		return
	}

	h.workerPool.QueueWebhook(models.WebhookItem{
		RequestID: fmt.Sprintf("%s_iter_%03d", result.RequestID, result.Iteration),
		Request:   result.Request,
		Output:    result.Output,
	})

	if h.config == nil || !h.config.Quiet {
		log.Printf("processed batch item %d (%d samples)", result.Iteration, sampleCount)
	}
}

func (h *BatchHandler) concurrency() int {
	if h.config != nil && h.config.Threads > 0 {
		return int(h.config.Threads)
	}
	return 5
}
