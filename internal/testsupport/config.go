package testsupport

import (
	"path/filepath"
	"testing"

	"sceneforge/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// Service base URLs point at unroutable localhost endpoints so an unstubbed
// client fails fast instead of reaching the network.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.KnowledgeGraph.BaseURL = "http://127.0.0.1:0"
	cfg.ImageGeneration.BaseURL = "http://127.0.0.1:0"
	cfg.VideoGeneration.BaseURL = "http://127.0.0.1:0"
	cfg.Vision.BaseURL = "http://127.0.0.1:0"

	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// WithKnowledgeGraphURL points the knowledge-graph client at the given URL,
// usually an httptest server.
func WithKnowledgeGraphURL(url string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.KnowledgeGraph.BaseURL = url
	}
}

// WithBatchConcurrency overrides the batch parallelism limit.
func WithBatchConcurrency(limit int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Pipeline.BatchConcurrency = limit
	}
}
