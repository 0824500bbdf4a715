package profiling

import (
	"context"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof" // registers pprof handlers on DefaultServeMux
	"runtime"
	"time"

	"github.com/nazeern/simrc/pkg/config"
)

// Profiler runs the pprof server on its own port so profiling traffic never
// competes with simulation requests.
type Profiler struct {
	config *config.ServerConfig
	server *http.Server
}

// New creates a profiler instance.
func New(cfg *config.ServerConfig) *Profiler {
	return &Profiler{config: cfg}
}

// Start starts the profiling server when enabled.
func (p *Profiler) Start() error {
	if !p.config.EnableProfiling {
		log.Println("profiling disabled")
		return nil
	}

	runtime.SetBlockProfileRate(1)
	runtime.SetMutexProfileFraction(1)

	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", http.DefaultServeMux.ServeHTTP)
	mux.HandleFunc("/debug/info", p.infoHandler)

	p.server = &http.Server{
		Addr:    ":" + p.config.ProfilingPort,
		Handler: mux,
	}

	log.Printf("starting profiling server on port %s (index at /debug/pprof/)", p.config.ProfilingPort)

	go func() {
		if err := p.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("profiling server error: %v", err)
		}
	}()

	return nil
}

// Stop gracefully stops the profiling server.
func (p *Profiler) Stop() error {
	if p.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return p.server.Shutdown(ctx)
}

// infoHandler reports runtime statistics as JSON.
func (p *Profiler) infoHandler(w http.ResponseWriter, r *http.Request) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{
	"goroutines": %d,
	"heap_alloc_mb": %.2f,
	"heap_sys_mb": %.2f,
	"gc_runs": %d,
	"num_cpu": %d,
	"timestamp": %q
}`,
		runtime.NumGoroutine(),
		bToMb(m.HeapAlloc),
		bToMb(m.HeapSys),
		m.NumGC,
		runtime.NumCPU(),
		time.Now().Format(time.RFC3339))
}

func bToMb(b uint64) float64 {
	return float64(b) / 1024 / 1024
}
