package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func validConfig() Config {
	cfg := Default()
	cfg.Paths.DataDir = "/tmp/sceneforge-test"
	cfg.KnowledgeGraph.BaseURL = "http://kg.local"
	cfg.ImageGeneration.BaseURL = "http://images.local"
	cfg.VideoGeneration.BaseURL = "http://video.local"
	cfg.Vision.BaseURL = "http://vision.local"
	return cfg
}

func TestDefaultLimits(t *testing.T) {
	cfg := Default()
	if cfg.Compositor.MaxStepRetries != 5 {
		t.Fatalf("default max_step_retries = %d, want 5", cfg.Compositor.MaxStepRetries)
	}
	if cfg.Compositor.MaxTotalIterations != 20 {
		t.Fatalf("default max_total_iterations = %d, want 20", cfg.Compositor.MaxTotalIterations)
	}
	if cfg.Compositor.AcceptanceThreshold != 0.7 {
		t.Fatalf("default acceptance_threshold = %g, want 0.7", cfg.Compositor.AcceptanceThreshold)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Pipeline.BatchConcurrency != 2 {
		t.Fatalf("batch_concurrency = %d, want default 2", cfg.Pipeline.BatchConcurrency)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[compositor]
max_step_retries = 3
max_total_iterations = 12

[video_generation]
fps = 30
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Compositor.MaxStepRetries != 3 {
		t.Fatalf("max_step_retries = %d, want 3", cfg.Compositor.MaxStepRetries)
	}
	if cfg.Compositor.MaxTotalIterations != 12 {
		t.Fatalf("max_total_iterations = %d, want 12", cfg.Compositor.MaxTotalIterations)
	}
	if cfg.VideoGeneration.FPS != 30 {
		t.Fatalf("fps = %d, want 30", cfg.VideoGeneration.FPS)
	}
	// Untouched sections keep their defaults.
	if cfg.Logging.Level != "info" {
		t.Fatalf("logging.level = %q, want info", cfg.Logging.Level)
	}
}

func TestValidateRequiresServiceURLs(t *testing.T) {
	cfg := validConfig()
	cfg.ImageGeneration.BaseURL = ""
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "image_generation.base_url") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRejectsBadLimits(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero retries", func(c *Config) { c.Compositor.MaxStepRetries = 0 }},
		{"global below per-step", func(c *Config) { c.Compositor.MaxTotalIterations = 2 }},
		{"threshold above one", func(c *Config) { c.Compositor.AcceptanceThreshold = 1.5 }},
		{"zero concurrency", func(c *Config) { c.Pipeline.BatchConcurrency = 0 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestWriteSampleRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := WriteSample(path); err != nil {
		t.Fatalf("WriteSample: %v", err)
	}
	if err := WriteSample(path); err == nil {
		t.Fatal("expected overwrite refusal")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "[compositor]") {
		t.Fatalf("sample config missing compositor section")
	}
}
