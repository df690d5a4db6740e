package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// Logging contains log output configuration.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// KnowledgeGraph contains configuration for the knowledge-graph service used
// for shot planning lookups and composite verification queries.
type KnowledgeGraph struct {
	BaseURL        string `toml:"base_url"`
	APIKey         string `toml:"api_key"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	RetryAttempts  int    `toml:"retry_attempts"`
}

// ImageGeneration contains configuration for the image-generation service.
type ImageGeneration struct {
	BaseURL        string `toml:"base_url"`
	APIKey         string `toml:"api_key"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// VideoGeneration contains configuration for the video-generation and
// frame-extraction service.
type VideoGeneration struct {
	BaseURL        string `toml:"base_url"`
	APIKey         string `toml:"api_key"`
	Model          string `toml:"model"`
	FPS            int    `toml:"fps"`
	Resolution     string `toml:"resolution"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Vision contains configuration for the vision-language query service.
type Vision struct {
	BaseURL        string `toml:"base_url"`
	APIKey         string `toml:"api_key"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Compositor contains the iteration limits and acceptance gate for the
// composite engine.
type Compositor struct {
	MaxStepRetries      int     `toml:"max_step_retries"`
	MaxTotalIterations  int     `toml:"max_total_iterations"`
	AcceptanceThreshold float64 `toml:"acceptance_threshold"`
}

// Pipeline contains orchestrator-level settings.
type Pipeline struct {
	BatchConcurrency   int     `toml:"batch_concurrency"`
	FrameOffsetSeconds float64 `toml:"frame_offset_seconds"`
}

// Config is the root configuration object.
type Config struct {
	Paths           Paths           `toml:"paths"`
	Logging         Logging         `toml:"logging"`
	KnowledgeGraph  KnowledgeGraph  `toml:"knowledge_graph"`
	ImageGeneration ImageGeneration `toml:"image_generation"`
	VideoGeneration VideoGeneration `toml:"video_generation"`
	Vision          Vision          `toml:"vision"`
	Compositor      Compositor      `toml:"compositor"`
	Pipeline        Pipeline        `toml:"pipeline"`
}

// DefaultConfigPath returns the canonical location of the config file.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".config", "sceneforge", "config.toml"), nil
}

// Load reads configuration from path, falling back to the default path when
// path is empty. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	resolved := strings.TrimSpace(path)
	if resolved == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return nil, err
		}
		resolved = defaultPath
	}
	resolved = ExpandPath(resolved)

	cfg := Default()
	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg.normalize()
			return &cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", resolved, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", resolved, err)
	}
	cfg.normalize()
	return &cfg, nil
}

// WriteSample writes the embedded sample configuration to path, refusing to
// overwrite an existing file.
func WriteSample(path string) error {
	resolved := ExpandPath(strings.TrimSpace(path))
	if resolved == "" {
		return errors.New("config path required")
	}
	if _, err := os.Stat(resolved); err == nil {
		return fmt.Errorf("config file already exists at %s", resolved)
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("ensure config dir: %w", err)
	}
	return os.WriteFile(resolved, []byte(sampleConfig), 0o644)
}

// EnsureDirectories creates the configured data and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// ExpandPath resolves a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

func (c *Config) normalize() {
	c.Paths.DataDir = ExpandPath(c.Paths.DataDir)
	c.Paths.LogDir = ExpandPath(c.Paths.LogDir)
	if c.Compositor.MaxStepRetries <= 0 {
		c.Compositor.MaxStepRetries = defaultMaxStepRetries
	}
	if c.Compositor.MaxTotalIterations <= 0 {
		c.Compositor.MaxTotalIterations = defaultMaxTotalIterations
	}
	if c.Compositor.AcceptanceThreshold <= 0 {
		c.Compositor.AcceptanceThreshold = defaultAcceptanceThreshold
	}
	if c.Pipeline.BatchConcurrency <= 0 {
		c.Pipeline.BatchConcurrency = defaultBatchConcurrency
	}
	if c.Pipeline.FrameOffsetSeconds <= 0 {
		c.Pipeline.FrameOffsetSeconds = defaultFrameOffsetSeconds
	}
	if c.VideoGeneration.FPS <= 0 {
		c.VideoGeneration.FPS = defaultVideoFPS
	}
	if c.VideoGeneration.Resolution == "" {
		c.VideoGeneration.Resolution = defaultVideoResolution
	}
}
