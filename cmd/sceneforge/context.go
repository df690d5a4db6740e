package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"sceneforge/internal/compositor"
	"sceneforge/internal/config"
	"sceneforge/internal/logging"
	"sceneforge/internal/pipeline"
	"sceneforge/internal/scene"
	"sceneforge/internal/services/imagegen"
	"sceneforge/internal/services/knowledge"
	"sceneforge/internal/services/videogen"
	"sceneforge/internal/services/vision"
	"sceneforge/internal/shotplan"
	"sceneforge/internal/synthesis"
	"sceneforge/internal/verify"
)

// commandContext lazily builds the pieces commands share: config, logger,
// store, and the fully wired generator. Everything is resolved at most once
// per invocation.
type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

// withStore opens the scene store for the duration of fn.
func (c *commandContext) withStore(fn func(*config.Config, *scene.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := scene.Open(cfg)
	if err != nil {
		return fmt.Errorf("open scene store: %w", err)
	}
	defer store.Close()
	return fn(cfg, store)
}

// buildGenerator wires the full pipeline over live service clients.
func (c *commandContext) buildGenerator(cfg *config.Config, store *scene.Store) (*pipeline.Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}

	graph := knowledge.NewClient(knowledge.Config{
		BaseURL:        cfg.KnowledgeGraph.BaseURL,
		APIKey:         cfg.KnowledgeGraph.APIKey,
		TimeoutSeconds: cfg.KnowledgeGraph.TimeoutSeconds,
		RetryAttempts:  cfg.KnowledgeGraph.RetryAttempts,
	})
	images := imagegen.NewClient(imagegen.Config{
		BaseURL:        cfg.ImageGeneration.BaseURL,
		APIKey:         cfg.ImageGeneration.APIKey,
		Model:          cfg.ImageGeneration.Model,
		TimeoutSeconds: cfg.ImageGeneration.TimeoutSeconds,
	})
	videos := videogen.NewClient(videogen.Config{
		BaseURL:        cfg.VideoGeneration.BaseURL,
		APIKey:         cfg.VideoGeneration.APIKey,
		Model:          cfg.VideoGeneration.Model,
		FPS:            cfg.VideoGeneration.FPS,
		Resolution:     cfg.VideoGeneration.Resolution,
		TimeoutSeconds: cfg.VideoGeneration.TimeoutSeconds,
	})
	eyes := vision.NewClient(vision.Config{
		BaseURL:        cfg.Vision.BaseURL,
		APIKey:         cfg.Vision.APIKey,
		Model:          cfg.Vision.Model,
		TimeoutSeconds: cfg.Vision.TimeoutSeconds,
	})

	planner := shotplan.NewPlanner(graph, logger)
	verifier := verify.NewVerifier(graph, eyes, logger)
	engine := compositor.NewEngine(images, verifier, compositor.Limits{
		MaxStepRetries:     cfg.Compositor.MaxStepRetries,
		MaxTotalIterations: cfg.Compositor.MaxTotalIterations,
		AcceptThreshold:    cfg.Compositor.AcceptanceThreshold,
	}, logger)
	synthesizer := synthesis.NewSynthesizer(videos, cfg.Pipeline.FrameOffsetSeconds, logger)

	return pipeline.NewGenerator(store, planner, engine, synthesizer, logger), nil
}
