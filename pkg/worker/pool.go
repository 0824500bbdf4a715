package worker

import (
	"log"
	"sync"
	"time"

	"github.com/nazeern/simrc"
	"github.com/nazeern/simrc/pkg/config"
	"github.com/nazeern/simrc/pkg/models"
)

// ProcessorFunc defines the signature for running one simulation.
type ProcessorFunc func(req models.SimulationRequest, cfg *config.Config) (*simrc.Output, error)

// Pool runs simulations concurrently. Each job is independent (the simulator
// is a pure function), so workers share nothing beyond the channels.
type Pool struct {
	jobs         chan models.WorkItem
	results      chan models.WorkResult
	webhookQueue chan models.WebhookItem
	workers      int
	shutdown     chan struct{}
	wg           sync.WaitGroup
	processor    ProcessorFunc
	cfg          *config.Config
	sendWebhook  func(models.WebhookItem)
}

// Options holds configuration for creating a new worker pool.
type Options struct {
	Workers   int
	Processor ProcessorFunc
	Config    *config.Config

	// SendWebhook delivers queued webhook items. Left nil, deliveries are
	// logged and dropped.
	SendWebhook func(models.WebhookItem)
}

// New creates a worker pool and starts its workers.
func New(opts Options) *Pool {
	if opts.Workers <= 0 {
		opts.Workers = 5
	}
	if opts.Config == nil {
		opts.Config = config.DefaultConfig()
	}

	// Buffers sized so queueing stays non-blocking while workers are busy;
	// webhooks get extra room since delivery is the slower operation.
	pool := &Pool{
		jobs:         make(chan models.WorkItem, opts.Workers*2),
		results:      make(chan models.WorkResult, opts.Workers*2),
		webhookQueue: make(chan models.WebhookItem, opts.Workers*4),
		workers:      opts.Workers,
		shutdown:     make(chan struct{}),
		processor:    opts.Processor,
		cfg:          opts.Config,
		sendWebhook:  opts.SendWebhook,
	}

	pool.start()
	return pool
}

func (p *Pool) start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}

	p.wg.Add(1)
	go p.webhookProcessor()

	log.Printf("worker pool started with %d workers", p.workers)
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case job := <-p.jobs:
			p.results <- p.processJob(job)

		case <-p.shutdown:
			return
		}
	}
}

func (p *Pool) processJob(job models.WorkItem) models.WorkResult {
	start := time.Now()
	out, err := p.processor(job.Request, p.cfg)

	return models.WorkResult{
		ID:             job.ID,
		RequestID:      job.RequestID,
		BatchID:        job.BatchID,
		Iteration:      job.Iteration,
		Output:         out,
		Err:            err,
		ProcessingTime: time.Since(start),
		Success:        err == nil,
		Request:        job.Request,
	}
}

// webhookProcessor drains the webhook queue without blocking workers.
func (p *Pool) webhookProcessor() {
	defer p.wg.Done()

	for {
		select {
		case item := <-p.webhookQueue:
			if p.sendWebhook != nil {
				go p.sendWebhook(item)
			} else {
				log.Printf("no webhook sender configured, dropping result %s", item.RequestID)
			}

		case <-p.shutdown:
			return
		}
	}
}

// SubmitJob submits a job to the worker pool, blocking once the buffer is
// full.
func (p *Pool) SubmitJob(job models.WorkItem) {
	select {
	case p.jobs <- job:
	default:
		log.Printf("worker pool jobs channel full, job %s may be delayed", job.RequestID)
		p.jobs <- job
	}
}

// GetResult retrieves a result from the worker pool (non-blocking).
func (p *Pool) GetResult() (models.WorkResult, bool) {
	select {
	case result := <-p.results:
		return result, true
	default:
		return models.WorkResult{}, false
	}
}

// QueueWebhook queues a webhook for async delivery. Results are recomputable
// from their parameters, so a full queue drops rather than blocks.
func (p *Pool) QueueWebhook(item models.WebhookItem) {
	select {
	case p.webhookQueue <- item:
	default:
		log.Printf("webhook queue full, dropping result %s", item.RequestID)
	}
}

// Shutdown stops all workers and waits for them to exit.
func (p *Pool) Shutdown() {
	log.Printf("shutting down worker pool...")
	close(p.shutdown)
	p.wg.Wait()
	log.Printf("worker pool shutdown complete")
}
