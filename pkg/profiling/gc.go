package profiling

import (
	"log"
	"runtime"
	"time"
)

// GCStats provides garbage collection statistics.
type GCStats struct {
	NumGC        uint32
	PauseTotal   time.Duration
	PauseRecent  time.Duration
	LastGC       time.Time
	GCCPUPercent float64
}

// GetGCStats returns current garbage collection statistics.
func GetGCStats() GCStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	var recent time.Duration
	if m.NumGC > 0 {
		recent = time.Duration(m.PauseNs[(m.NumGC+255)%256])
	}

	return GCStats{
		NumGC:        m.NumGC,
		PauseTotal:   time.Duration(m.PauseTotalNs),
		PauseRecent:  recent,
		LastGC:       time.Unix(0, int64(m.LastGC)),
		GCCPUPercent: m.GCCPUFraction * 100,
	}
}

// LogGCStats logs garbage collection statistics.
func LogGCStats() {
	s := GetGCStats()
	log.Printf("GC: runs=%d pause_total=%v pause_recent=%v cpu=%.2f%%",
		s.NumGC, s.PauseTotal, s.PauseRecent, s.GCCPUPercent)
}

// ForceGC triggers a collection and returns the resulting stats.
func ForceGC() GCStats {
	runtime.GC()
	return GetGCStats()
}
