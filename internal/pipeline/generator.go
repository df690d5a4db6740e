package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"sceneforge/internal/compositor"
	"sceneforge/internal/logging"
	"sceneforge/internal/scene"
	"sceneforge/internal/services"
	"sceneforge/internal/shotplan"
	"sceneforge/internal/synthesis"
)

// SceneStore is the persistence surface the orchestrator needs.
type SceneStore interface {
	Fetch(ctx context.Context, id string) (*scene.Scene, error)
	UpdateStatus(ctx context.Context, id string, status scene.Status) error
	UpdateFields(ctx context.Context, id string, fields scene.Fields) error
}

// ShotPlanner produces a scene's composite build plan.
type ShotPlanner interface {
	Plan(ctx context.Context, sc *scene.Scene) (*shotplan.Decision, error)
}

// CompositeEngine executes a plan into a final composite image.
type CompositeEngine interface {
	Run(ctx context.Context, sc *scene.Scene, decision *shotplan.Decision) (*compositor.Outcome, error)
}

// VideoSynthesizer animates composites and samples continuity frames.
type VideoSynthesizer interface {
	Synthesize(ctx context.Context, compositeURL string, pacing shotplan.Pacing, description string) (*synthesis.Clip, error)
	ContinuityFrame(ctx context.Context, clip *synthesis.Clip) (string, error)
}

// Generator drives a scene through the full generation pipeline, persisting
// its status at each phase boundary.
type Generator struct {
	store       SceneStore
	planner     ShotPlanner
	engine      CompositeEngine
	synthesizer VideoSynthesizer
	logger      *slog.Logger
}

// NewGenerator wires the orchestrator over its collaborators.
func NewGenerator(store SceneStore, planner ShotPlanner, engine CompositeEngine, synthesizer VideoSynthesizer, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Generator{
		store:       store,
		planner:     planner,
		engine:      engine,
		synthesizer: synthesizer,
		logger:      logging.NewComponentLogger(logger, "pipeline"),
	}
}

// Generate runs one scene end to end: plan, composite, synthesize, sample the
// continuity frame. Status is persisted before each phase; persistence
// failures are logged and tolerated so a wobbly store never kills a healthy
// generation. A frame-extraction failure leaves the scene completed with no
// continuity frame, since the video itself is already good.
func (g *Generator) Generate(ctx context.Context, sceneID string) (*scene.Scene, error) {
	ctx = services.WithSceneID(ctx, sceneID)

	sc, err := g.store.Fetch(ctx, sceneID)
	if err != nil {
		return nil, g.fail(ctx, sceneID, fmt.Errorf("fetch scene %s: %w", sceneID, err))
	}
	if sc == nil {
		return nil, services.Wrap(services.ErrNotFound, services.PhaseNone, "generate", fmt.Sprintf("scene %s not found", sceneID), nil)
	}

	g.setStatus(ctx, sceneID, scene.StatusAnalyzing)
	decision, err := g.planner.Plan(ctx, sc)
	if err != nil {
		return nil, g.fail(ctx, sceneID, err)
	}

	g.setStatus(ctx, sceneID, scene.StatusCompositing)
	outcome, runErr := g.engine.Run(ctx, sc, decision)
	if outcome != nil && len(outcome.History) > 0 {
		g.persistHistory(ctx, sceneID, outcome.History)
	}
	if runErr != nil {
		return nil, g.fail(ctx, sceneID, runErr)
	}
	sc.CompositeURL = outcome.CompositeURL
	g.setFields(ctx, sceneID, scene.Fields{CompositeURL: &outcome.CompositeURL})

	g.setStatus(ctx, sceneID, scene.StatusGeneratingVideo)
	clip, err := g.synthesizer.Synthesize(ctx, outcome.CompositeURL, decision.Pacing, sc.Description)
	if err != nil {
		return nil, g.fail(ctx, sceneID, err)
	}
	sc.VideoURL = clip.VideoURL
	g.setFields(ctx, sceneID, scene.Fields{VideoURL: &clip.VideoURL})

	g.setStatus(ctx, sceneID, scene.StatusExtractingFrame)
	frameURL, err := g.synthesizer.ContinuityFrame(ctx, clip)
	if err != nil {
		g.logger.Warn("continuity frame extraction failed, completing without one",
			logging.Args(logging.String("scene_id", sceneID), logging.Error(err))...)
	} else {
		sc.LastFrameURL = frameURL
		g.setFields(ctx, sceneID, scene.Fields{LastFrameURL: &frameURL})
	}

	g.setStatus(ctx, sceneID, scene.StatusCompleted)
	sc.Status = scene.StatusCompleted
	g.logger.Info("scene generation completed",
		logging.Args(
			logging.String("scene_id", sceneID),
			logging.String("video_url", sc.VideoURL),
			logging.Bool("has_continuity_frame", sc.LastFrameURL != ""),
		)...)
	return sc, nil
}

// fail marks the scene failed, records the message, and returns the error
// tagged with the phase it arose in.
func (g *Generator) fail(ctx context.Context, sceneID string, cause error) error {
	phase := services.PhaseOf(cause)
	message := cause.Error()

	g.setStatus(ctx, sceneID, scene.StatusFailed)
	g.setFields(ctx, sceneID, scene.Fields{ErrorMessage: &message})

	g.logger.Error("scene generation failed",
		logging.Args(
			logging.String("scene_id", sceneID),
			logging.String("phase", string(phase)),
			logging.Error(cause),
		)...)
	return &GenerationError{SceneID: sceneID, Phase: phase, Err: cause}
}

func (g *Generator) setStatus(ctx context.Context, sceneID string, status scene.Status) {
	if err := g.store.UpdateStatus(ctx, sceneID, status); err != nil {
		g.logger.Warn("status update failed",
			logging.Args(
				logging.String("scene_id", sceneID),
				logging.String("status", string(status)),
				logging.Error(err),
			)...)
	}
}

func (g *Generator) setFields(ctx context.Context, sceneID string, fields scene.Fields) {
	if err := g.store.UpdateFields(ctx, sceneID, fields); err != nil {
		g.logger.Warn("field update failed",
			logging.Args(logging.String("scene_id", sceneID), logging.Error(err))...)
	}
}

func (g *Generator) persistHistory(ctx context.Context, sceneID string, history []compositor.Iteration) {
	encoded, err := json.Marshal(history)
	if err != nil {
		g.logger.Warn("iteration history marshal failed",
			logging.Args(logging.String("scene_id", sceneID), logging.Error(err))...)
		return
	}
	raw := string(encoded)
	g.setFields(ctx, sceneID, scene.Fields{IterationsJSON: &raw})
}
