package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	path := filepath.Join(base, "config.toml")
	content := fmt.Sprintf(`[paths]
data_dir = %q
log_dir = %q
`, filepath.Join(base, "data"), filepath.Join(base, "logs"))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootShowsHelp(t *testing.T) {
	output, err := runCommand(t, "--config", writeTestConfig(t))
	if err != nil {
		t.Fatalf("root command: %v", err)
	}
	if !strings.Contains(output, "sceneforge") {
		t.Errorf("help output missing program name: %s", output)
	}
}

func TestAddAndStatusRoundTrip(t *testing.T) {
	configPath := writeTestConfig(t)

	output, err := runCommand(t,
		"--config", configPath,
		"add", "The detective crosses the rooftop",
		"--episode", "ep-1", "--number", "3",
		"--location", "rooftop",
		"--character", "Detective")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !strings.Contains(output, "Added scene") {
		t.Errorf("add output = %s", output)
	}

	output, err = runCommand(t, "--config", configPath, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(output, "1 total") {
		t.Errorf("status output missing counts: %s", output)
	}
	if !strings.Contains(output, "ep-1") {
		t.Errorf("status output missing scene row: %s", output)
	}
}

func TestStatusFilterRejectsUnknownStatus(t *testing.T) {
	_, err := runCommand(t, "--config", writeTestConfig(t), "status", "--status", "nonsense")
	if err == nil {
		t.Fatal("expected an error for an unknown status")
	}
}

func TestShowUnknownScene(t *testing.T) {
	_, err := runCommand(t, "--config", writeTestConfig(t), "show", "missing-id")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestResetStuckOnEmptyStore(t *testing.T) {
	output, err := runCommand(t, "--config", writeTestConfig(t), "reset-stuck")
	if err != nil {
		t.Fatalf("reset-stuck: %v", err)
	}
	if !strings.Contains(output, "Reset 0 scene(s)") {
		t.Errorf("reset output = %s", output)
	}
}
