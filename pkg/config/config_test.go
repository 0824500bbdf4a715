package config

import "testing"

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Frequency != 1 || cfg.Cycles != 1 || cfg.Resistance != 1 || cfg.CapacitanceNF != 1 {
		t.Errorf("simulation defaults = %d/%d/%d/%d, want 1/1/1/1",
			cfg.Frequency, cfg.Cycles, cfg.Resistance, cfg.CapacitanceNF)
	}
	if cfg.FitMethod != "nelder-mead" {
		t.Errorf("fit method = %q, want nelder-mead", cfg.FitMethod)
	}
	if cfg.Threads != 5 {
		t.Errorf("threads = %d, want 5", cfg.Threads)
	}
	if cfg.ImgDPI != 96 || cfg.ImgSize != 4 {
		t.Errorf("image defaults = %d DPI, %d in; want 96, 4", cfg.ImgDPI, cfg.ImgSize)
	}
}

func TestDefaultServerConfig(t *testing.T) {
	cfg := DefaultServerConfig()

	if cfg.Port != "8080" {
		t.Errorf("port = %q, want 8080", cfg.Port)
	}
	if cfg.WorkerCount != 5 {
		t.Errorf("worker count = %d, want 5", cfg.WorkerCount)
	}
	if cfg.WebhookURL == "" {
		t.Error("webhook URL is empty")
	}
}

func TestArrayFlags(t *testing.T) {
	var a ArrayFlags

	if err := a.Set("100"); err != nil {
		t.Fatalf("Set(100) error = %v", err)
	}
	if err := a.Set("4.7e-8"); err != nil {
		t.Fatalf("Set(4.7e-8) error = %v", err)
	}
	if len(a) != 2 || a[0] != 100 || a[1] != 4.7e-8 {
		t.Errorf("values = %v, want [100 4.7e-08]", a)
	}

	if err := a.Set("not-a-number"); err == nil {
		t.Error("Set(not-a-number) = nil error, want error")
	}
}
