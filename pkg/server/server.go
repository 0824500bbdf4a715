package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/nazeern/simrc/pkg/config"
	"github.com/nazeern/simrc/pkg/handlers"
	"github.com/nazeern/simrc/pkg/models"
	"github.com/nazeern/simrc/pkg/profiling"
	"github.com/nazeern/simrc/pkg/webhook"
	"github.com/nazeern/simrc/pkg/worker"
)

// Server is the HTTP front of the simulator with all its dependencies.
type Server struct {
	config        *config.Config
	serverConfig  *config.ServerConfig
	workerPool    *worker.Pool
	webhookClient *webhook.Client
	httpServer    *http.Server
	profiler      *profiling.Profiler
	middleware    *profiling.Middleware
}

// Options holds configuration for creating a new server.
type Options struct {
	Config       *config.Config
	ServerConfig *config.ServerConfig
	Processor    handlers.ProcessorFunc
}

// New creates a server instance.
func New(opts Options) *Server {
	if opts.Config == nil {
		opts.Config = config.DefaultConfig()
	}
	if opts.ServerConfig == nil {
		opts.ServerConfig = config.DefaultServerConfig()
	}

	webhookClient := webhook.NewClient(opts.ServerConfig.WebhookURL, opts.Config)

	workerPool := worker.New(worker.Options{
		Workers:   opts.ServerConfig.WorkerCount,
		Processor: worker.ProcessorFunc(opts.Processor),
		Config:    opts.Config,
		SendWebhook: func(item models.WebhookItem) {
			if err := webhookClient.Send(item); err != nil {
				log.Printf("webhook delivery failed for %s: %v", item.RequestID, err)
			}
		},
	})

	s := &Server{
		config:        opts.Config,
		serverConfig:  opts.ServerConfig,
		workerPool:    workerPool,
		webhookClient: webhookClient,
		profiler:      profiling.New(opts.ServerConfig),
		middleware:    profiling.NewMiddleware(opts.ServerConfig.EnableProfiling),
	}

	s.setupRoutes(opts.Processor)
	return s
}

// setupRoutes configures HTTP routes and handlers.
func (s *Server) setupRoutes(processor handlers.ProcessorFunc) {
	mux := http.NewServeMux()

	simHandler := handlers.NewSimulateHandler(s.config, processor)
	batchHandler := handlers.NewBatchHandler(s.config, s.workerPool)

	mux.Handle("/simulate", s.middleware.ProfiledHandler("simulate", simHandler))
	mux.Handle("/simulate/batch", s.middleware.ProfiledHandler("simulate-batch", batchHandler))
	mux.HandleFunc("/health", s.healthHandler)
	mux.HandleFunc("/debug/gc", s.gcHandler)
	mux.HandleFunc("/debug/memory", s.memoryHandler)

	s.httpServer = &http.Server{
		Addr:         ":" + s.serverConfig.Port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// healthHandler provides a simple health check endpoint.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"healthy","timestamp":"%s"}`, time.Now().Format(time.RFC3339))
}

// gcHandler triggers garbage collection and returns stats.
func (s *Server) gcHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	stats := profiling.ForceGC()

	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{
	"gc_runs": %d,
	"pause_total_ms": %.3f,
	"pause_recent_us": %.3f,
	"cpu_percent": %.2f,
	"last_gc": "%s",
	"timestamp": "%s"
}`,
		stats.NumGC,
		float64(stats.PauseTotal.Nanoseconds())/1e6,
		float64(stats.PauseRecent.Nanoseconds())/1e3,
		stats.GCCPUPercent,
		stats.LastGC.Format(time.RFC3339),
		time.Now().Format(time.RFC3339))
}

// memoryHandler logs current memory statistics.
func (s *Server) memoryHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	profiling.LogGCStats()

	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"message":"Memory stats logged to console","timestamp":"%s"}`,
		time.Now().Format(time.RFC3339))
}

// Start starts the HTTP server and blocks until it exits.
func (s *Server) Start() error {
	if err := s.profiler.Start(); err != nil {
		log.Printf("failed to start profiler: %v", err)
	}

	log.Println("starting HTTP server on port", s.serverConfig.Port)
	log.Println("endpoints available:")
	log.Printf("  - Single: http://localhost:%s/simulate", s.serverConfig.Port)
	log.Printf("  - Batch:  http://localhost:%s/simulate/batch", s.serverConfig.Port)
	log.Printf("  - Health: http://localhost:%s/health", s.serverConfig.Port)

	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server, the pool and the profiler.
func (s *Server) Shutdown() error {
	log.Println("shutting down server...")

	if err := s.profiler.Stop(); err != nil {
		log.Printf("profiler shutdown error: %v", err)
	}

	s.workerPool.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}

	log.Println("server shutdown complete")
	return nil
}
