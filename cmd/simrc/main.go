package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/nazeern/simrc"
	"github.com/nazeern/simrc/internal/processing"
	"github.com/nazeern/simrc/pkg/config"
	"github.com/nazeern/simrc/pkg/export"
	"github.com/nazeern/simrc/pkg/plot"
	"github.com/nazeern/simrc/pkg/server"
)

func main() {
	cfg := parseFlags()

	switch {
	case cfg.HTTPServer:
		runServer(cfg)
	case cfg.FitFile != "":
		runFit(cfg)
	default:
		runOnce(cfg)
	}
}

// parseFlags parses command line flags over the panel defaults.
func parseFlags() *config.Config {
	cfg := config.DefaultConfig()

	flag.IntVar(&cfg.Frequency, "freq", cfg.Frequency, "Input wave frequency (Hz)")
	flag.IntVar(&cfg.Cycles, "cycles", cfg.Cycles, "Number of wave cycles")
	flag.IntVar(&cfg.Resistance, "r", cfg.Resistance, "Resistance (Ohms)")
	flag.IntVar(&cfg.CapacitanceNF, "nc", cfg.CapacitanceNF, "Capacitance (nF)")

	flag.StringVar(&cfg.FitFile, "fit", cfg.FitFile, "Fit R and C from a (frequency, |Z|) data file")
	flag.StringVar(&cfg.FitMethod, "method", cfg.FitMethod, "Fit method: nelder-mead, lm or newton")
	flag.Var(&cfg.FitInit, "init", "Fit init values, -init R -init C (farads)")

	flag.BoolVar(&cfg.ImgSave, "imgsave", cfg.ImgSave, "Save waveform and spectrum images")
	flag.StringVar(&cfg.ImgPath, "imgpath", cfg.ImgPath, "Path to generated waveform image")
	flag.UintVar(&cfg.ImgDPI, "dpi", cfg.ImgDPI, "Image DPI (PNG only)")
	flag.UintVar(&cfg.ImgSize, "imgsize", cfg.ImgSize, "Image size (inches)")

	flag.StringVar(&cfg.XLSXPath, "xlsx", cfg.XLSXPath, "Save results to an xlsx workbook")

	flag.UintVar(&cfg.Threads, "threads", cfg.Threads, "Number of worker threads (server mode)")
	flag.BoolVar(&cfg.Quiet, "q", cfg.Quiet, "Quiet mode")
	flag.BoolVar(&cfg.HTTPServer, "http", cfg.HTTPServer, "Start HTTP server on port 8080")
	flag.BoolVar(&cfg.EnableProfiling, "profile", cfg.EnableProfiling, "Enable pprof profiling")
	flag.Parse()

	return cfg
}

// runOnce performs a single simulation and writes the requested artifacts.
func runOnce(cfg *config.Config) {
	params := simrc.Params{
		Frequency:     cfg.Frequency,
		Cycles:        cfg.Cycles,
		Resistance:    cfg.Resistance,
		CapacitanceNF: cfg.CapacitanceNF,
	}

	out, err := simrc.Simulate(params)
	if err != nil {
		log.Fatal(err)
	}

	log.Printf("expected impedance:   %.6g Ohm", out.ExpectedImpedance)
	log.Printf("calculated impedance: %.6g Ohm", out.CalculatedImpedance)
	if !cfg.Quiet {
		log.Printf("%d samples over %.6g s, peak V=%.4g V, peak I=%.4g A",
			len(out.Time), out.Time[len(out.Time)-1], out.PeakVoltage, out.PeakCurrent)
	}

	if cfg.ImgSave {
		if err := plot.Waveforms(out, params, cfg.ImgPath, cfg.ImgSize, cfg.ImgDPI); err != nil {
			log.Fatal(err)
		}
		dftPath := suffixPath(cfg.ImgPath, "_dft")
		if err := plot.Spectra(out, params, dftPath, cfg.ImgSize, cfg.ImgDPI); err != nil {
			log.Fatal(err)
		}
		log.Printf("images saved to %s and %s", cfg.ImgPath, dftPath)
	}

	if cfg.XLSXPath != "" {
		if err := export.WriteXLSX(cfg.XLSXPath, params, out); err != nil {
			log.Fatal(err)
		}
		log.Printf("workbook saved to %s", cfg.XLSXPath)
	}
}

// runFit recovers R and C from a measured impedance sweep.
func runFit(cfg *config.Config) {
	freqs, mags, err := parseSweepFile(cfg.FitFile)
	if err != nil {
		log.Fatal(err)
	}

	fitter := simrc.NewFitter(freqs, mags)
	fitter.Method = cfg.FitMethod
	if len(cfg.FitInit) == 2 {
		fitter.Init = []float64(cfg.FitInit)
	}

	res, err := fitter.Fit()
	if err != nil {
		log.Fatal(err)
	}

	log.Printf("fit (%s) over %d points:", res.Method, len(freqs))
	log.Printf("  R = %.6g Ohm", res.Resistance)
	log.Printf("  C = %.6g F", res.Capacitance)
	log.Printf("  residual = %.6e", res.Residual)
}

// runServer starts the HTTP front with graceful shutdown.
func runServer(cfg *config.Config) {
	processor := processing.New()

	serverConfig := config.DefaultServerConfig()
	serverConfig.WorkerCount = int(cfg.Threads)
	serverConfig.EnableProfiling = cfg.EnableProfiling

	srv := server.New(server.Options{
		Config:       cfg,
		ServerConfig: serverConfig,
		Processor:    processor.ProcessorFunc(),
	})

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		log.Println("received shutdown signal...")
		if err := srv.Shutdown(); err != nil {
			log.Printf("error during shutdown: %v", err)
		}
		os.Exit(0)
	}()

	if err := srv.Start(); err != nil && err != http.ErrServerClosed {
		log.Fatal("failed to start server:", err)
	}
}

// parseSweepFile reads whitespace-separated (frequency, |Z|) lines.
func parseSweepFile(file string) (freqs, mags []float64, err error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 2 {
			return nil, nil, fmt.Errorf("%s:%d: expected frequency and magnitude", file, line)
		}
		freq, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("%s:%d: %w", file, line, err)
		}
		mag, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("%s:%d: %w", file, line, err)
		}
		freqs = append(freqs, freq)
		mags = append(mags, mag)
	}
	return freqs, mags, scanner.Err()
}

// suffixPath inserts a suffix before the file extension.
func suffixPath(path, suffix string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + suffix + ext
}
