package main

import (
	"path/filepath"
	"strings"
	"testing"

	"sceneforge/internal/scene"
)

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	output, err := runCommand(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(output, target) {
		t.Errorf("output missing target path: %s", output)
	}

	if _, err := runCommand(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected second init without --overwrite to fail")
	}

	if _, err := runCommand(t, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestConfigShowPrintsEffectiveConfig(t *testing.T) {
	output, err := runCommand(t, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(output, "[compositor]") || !strings.Contains(output, "max_step_retries") {
		t.Errorf("config show output missing compositor section: %s", output)
	}
}

func TestStatusLabelTitleCases(t *testing.T) {
	tests := []struct {
		status string
		want   string
	}{
		{"pending", "Pending"},
		{"generating_video", "Generating Video"},
		{"extracting_frame", "Extracting Frame"},
	}
	for _, tt := range tests {
		if got := statusLabel(scene.Status(tt.status), false); got != tt.want {
			t.Errorf("statusLabel(%s) = %s, want %s", tt.status, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate(short) = %s", got)
	}
	if got := truncate("a much longer description", 10); got != "a much ..." {
		t.Errorf("truncate long = %q", got)
	}
}
