package config

import (
	"image"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault_IsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg != Default() {
		t.Error("empty path should return defaults")
	}
}

func TestLoad_Overlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{"camera_id": 2, "active_fps": 30, "min_coverage": 0.05}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.CameraID != 2 || cfg.ActiveFPS != 30 || cfg.MinCoverage != 0.05 {
		t.Errorf("overlay not applied: %+v", cfg)
	}
	// Unmentioned fields keep their defaults.
	if cfg.IdleFPS != Default().IdleFPS {
		t.Errorf("idle fps = %d, want default %d", cfg.IdleFPS, Default().IdleFPS)
	}
	if !cfg.Feature.Equal(Default().Feature) {
		t.Errorf("feature params = %+v, want defaults", cfg.Feature)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{nope"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"idle_fps": 0}`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestROI(t *testing.T) {
	cfg := Default()
	if !cfg.ROI().Empty() {
		t.Error("roi should be disabled by default")
	}

	cfg.ROIX, cfg.ROIY = 40, 30
	cfg.ROIWidth, cfg.ROIHeight = 240, 180
	got := cfg.ROI()
	if got != image.Rect(40, 30, 280, 210) {
		t.Errorf("roi = %v, want (40,30)-(280,210)", got)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative coverage", func(c *Config) { c.MinCoverage = -0.1 }},
		{"confidence above one", func(c *Config) { c.MinConfidence = 1.5 }},
		{"zero confirm threshold", func(c *Config) { c.ConfirmThreshold = 0 }},
		{"zero idle threshold", func(c *Config) { c.IdleThreshold = 0 }},
		{"zero capture failures", func(c *Config) { c.MaxCaptureFailures = 0 }},
		{"zero working size", func(c *Config) { c.WorkWidth = 0 }},
		{"negative roi", func(c *Config) { c.ROIX = -10 }},
		{"bad feature params", func(c *Config) { c.Feature.Bins = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
