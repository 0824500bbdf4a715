package profiling

import (
	"log"
	"net/http"
	"runtime"
	"strconv"
	"time"
)

// Middleware wraps HTTP handlers with per-request runtime metrics.
type Middleware struct {
	enableProfiling bool
}

// NewMiddleware creates a profiling middleware.
func NewMiddleware(enableProfiling bool) *Middleware {
	return &Middleware{enableProfiling: enableProfiling}
}

// ProfiledHandler wraps a handler. When profiling is disabled the wrapper is
// a passthrough.
func (m *Middleware) ProfiledHandler(name string, handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.enableProfiling {
			handler.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		var startMem runtime.MemStats
		runtime.ReadMemStats(&startMem)
		startGoroutines := runtime.NumGoroutine()

		w.Header().Set("X-Handler-Name", name)
		w.Header().Set("X-Start-Goroutines", strconv.Itoa(startGoroutines))

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		handler.ServeHTTP(wrapped, r)

		var endMem runtime.MemStats
		runtime.ReadMemStats(&endMem)

		log.Printf("handler %s: status=%d duration=%v mem=%+d bytes goroutines=%+d",
			name,
			wrapped.statusCode,
			time.Since(start),
			int64(endMem.Alloc)-int64(startMem.Alloc),
			runtime.NumGoroutine()-startGoroutines)
	})
}

// responseWriter captures the status code written by the wrapped handler.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
