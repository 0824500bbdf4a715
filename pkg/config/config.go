package config

import (
	"strconv"
)

// ArrayFlags collects a repeatable float flag (used for -init R -init C).
type ArrayFlags []float64

func (a *ArrayFlags) String() string {
	return "ArrayFlags"
}

func (a *ArrayFlags) Set(value string) error {
	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return err
	}
	*a = append(*a, val)
	return nil
}

// Config holds all settings for the simulator CLI and server.
type Config struct {
	// Simulation parameters for one-shot runs and server defaults.
	Frequency     int
	Cycles        int
	Resistance    int
	CapacitanceNF int

	// Fit mode: read a (frequency, |Z|) file and recover R and C.
	FitFile   string
	FitMethod string
	FitInit   ArrayFlags

	// Plot output.
	ImgSave bool
	ImgPath string
	ImgDPI  uint
	ImgSize uint // inches

	// Spreadsheet output.
	XLSXPath string

	Threads         uint
	Quiet           bool
	HTTPServer      bool
	EnableProfiling bool
}

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	Port            string
	WorkerCount     int
	WebhookURL      string
	EnableProfiling bool
	ProfilingPort   string
}

// DefaultConfig returns a configuration with the panel defaults of the
// original instrument: 1 Hz, 1 cycle, 1 Ohm, 1 nF.
func DefaultConfig() *Config {
	return &Config{
		Frequency:     1,
		Cycles:        1,
		Resistance:    1,
		CapacitanceNF: 1,
		FitMethod:     "nelder-mead",
		ImgPath:       "simrc.svg",
		ImgDPI:        96,
		ImgSize:       4,
		Threads:       5,
	}
}

// DefaultServerConfig returns server configuration with sensible defaults.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:          "8080",
		WorkerCount:   5,
		WebhookURL:    "http://webplot:3001/webhook",
		ProfilingPort: "6060",
	}
}
