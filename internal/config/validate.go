package config

import (
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable for generation runs.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateServices(); err != nil {
		return err
	}
	if err := c.validateCompositor(); err != nil {
		return err
	}
	return c.validatePipeline()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return fmt.Errorf("paths.data_dir is required")
	}
	return nil
}

func (c *Config) validateServices() error {
	required := []struct {
		name  string
		value string
	}{
		{"knowledge_graph.base_url", c.KnowledgeGraph.BaseURL},
		{"image_generation.base_url", c.ImageGeneration.BaseURL},
		{"video_generation.base_url", c.VideoGeneration.BaseURL},
		{"vision.base_url", c.Vision.BaseURL},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			defaultPath, err := DefaultConfigPath()
			if err != nil {
				defaultPath = "~/.config/sceneforge/config.toml"
			}
			return fmt.Errorf("%s is required. Edit %s (create with 'sceneforge config init')", field.name, defaultPath)
		}
	}
	return nil
}

func (c *Config) validateCompositor() error {
	if c.Compositor.MaxStepRetries < 1 {
		return fmt.Errorf("compositor.max_step_retries must be at least 1 (got %d)", c.Compositor.MaxStepRetries)
	}
	if c.Compositor.MaxTotalIterations < c.Compositor.MaxStepRetries {
		return fmt.Errorf("compositor.max_total_iterations (%d) must not be below max_step_retries (%d)",
			c.Compositor.MaxTotalIterations, c.Compositor.MaxStepRetries)
	}
	if c.Compositor.AcceptanceThreshold <= 0 || c.Compositor.AcceptanceThreshold > 1 {
		return fmt.Errorf("compositor.acceptance_threshold must be in (0, 1] (got %g)", c.Compositor.AcceptanceThreshold)
	}
	return nil
}

func (c *Config) validatePipeline() error {
	if c.Pipeline.BatchConcurrency < 1 {
		return fmt.Errorf("pipeline.batch_concurrency must be at least 1 (got %d)", c.Pipeline.BatchConcurrency)
	}
	if c.Pipeline.FrameOffsetSeconds <= 0 {
		return fmt.Errorf("pipeline.frame_offset_seconds must be positive (got %g)", c.Pipeline.FrameOffsetSeconds)
	}
	return nil
}
