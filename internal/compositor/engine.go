package compositor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"sceneforge/internal/logging"
	"sceneforge/internal/scene"
	"sceneforge/internal/services"
	"sceneforge/internal/services/imagegen"
	"sceneforge/internal/shotplan"
	"sceneforge/internal/verify"
)

// Default iteration bounds.
const (
	DefaultMaxStepRetries     = 5
	DefaultMaxTotalIterations = 20
	DefaultAcceptThreshold    = 0.7
)

// Limits bounds the engine's retry behavior. MaxTotalIterations is a global
// circuit breaker across all steps of one scene.
type Limits struct {
	MaxStepRetries     int
	MaxTotalIterations int
	AcceptThreshold    float64
}

// DefaultLimits returns the standard iteration bounds.
func DefaultLimits() Limits {
	return Limits{
		MaxStepRetries:     DefaultMaxStepRetries,
		MaxTotalIterations: DefaultMaxTotalIterations,
		AcceptThreshold:    DefaultAcceptThreshold,
	}
}

func (l Limits) normalized() Limits {
	if l.MaxStepRetries <= 0 {
		l.MaxStepRetries = DefaultMaxStepRetries
	}
	if l.MaxTotalIterations <= 0 {
		l.MaxTotalIterations = DefaultMaxTotalIterations
	}
	if l.AcceptThreshold <= 0 {
		l.AcceptThreshold = DefaultAcceptThreshold
	}
	return l
}

// ImageGenerator produces candidate images.
type ImageGenerator interface {
	Generate(ctx context.Context, req imagegen.Request) (string, error)
}

// StepVerifier checks one composite attempt against a step's requirements.
type StepVerifier interface {
	Verify(ctx context.Context, imageURL string, step shotplan.Step, sceneContext string) verify.Result
}

// Iteration records one composite attempt. The history is append-only: every
// attempt is recorded whether or not it was accepted.
type Iteration struct {
	Number         int           `json:"number"`
	StepIndex      int           `json:"step_index"`
	StepType       string        `json:"step_type"`
	InputImageURL  string        `json:"input_image_url,omitempty"`
	OutputImageURL string        `json:"output_image_url"`
	Result         verify.Result `json:"result"`
	Timestamp      time.Time     `json:"timestamp"`
}

// Outcome is a successful composite run: the final image plus the complete
// attempt history.
type Outcome struct {
	CompositeURL string
	History      []Iteration
}

// Engine builds a scene's composite by executing plan steps in order, each
// inside a bounded verify-retry loop.
type Engine struct {
	generator ImageGenerator
	verifier  StepVerifier
	limits    Limits
	logger    *slog.Logger
	now       func() time.Time
}

// NewEngine constructs a composite engine.
func NewEngine(generator ImageGenerator, verifier StepVerifier, limits Limits, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Engine{
		generator: generator,
		verifier:  verifier,
		limits:    limits.normalized(),
		logger:    logging.NewComponentLogger(logger, "compositor"),
		now:       time.Now,
	}
}

// Run executes the plan's steps in order. Each step may be retried up to the
// per-step limit, with a rejected candidate fed back as the edit base so the
// backend corrects it instead of starting over. The total iteration count
// across all steps is capped independently. The returned history includes
// every attempt, even on failure paths.
func (e *Engine) Run(ctx context.Context, sc *scene.Scene, decision *shotplan.Decision) (*Outcome, error) {
	if decision == nil || len(decision.Steps) == 0 {
		return nil, services.Wrap(services.ErrValidation, services.PhaseCompositing, "composite", "no steps to composite", nil)
	}

	var history []Iteration
	composite := ""
	totalIterations := 0

	for _, step := range decision.Steps {
		accepted := false
		editBase := composite
		var lastResult verify.Result

		for attempt := 1; attempt <= e.limits.MaxStepRetries; attempt++ {
			if totalIterations >= e.limits.MaxTotalIterations {
				err := &GenerationError{
					SceneID:    sc.ID,
					StepIndex:  step.Index,
					StepType:   step.Type,
					Iterations: totalIterations,
					LastResult: lastResult,
					Breaker:    true,
				}
				return &Outcome{History: history}, services.Wrap(services.ErrComposite, services.PhaseCompositing, "composite",
					fmt.Sprintf("scene %s hit the global iteration cap of %d", sc.ID, e.limits.MaxTotalIterations), err)
			}
			totalIterations++

			outputURL, err := e.generator.Generate(ctx, imagegen.Request{
				Prompt:     step.Prompt,
				References: referenceURLs(step),
				EditBase:   editBase,
			})
			if err != nil {
				return &Outcome{History: history}, services.Wrap(services.ErrComposite, services.PhaseCompositing, "composite",
					fmt.Sprintf("generate step %d (%s)", step.Index, step.Type), err)
			}

			result := e.verifier.Verify(ctx, outputURL, step, sc.Description)
			lastResult = result
			history = append(history, Iteration{
				Number:         totalIterations,
				StepIndex:      step.Index,
				StepType:       string(step.Type),
				InputImageURL:  editBase,
				OutputImageURL: outputURL,
				Result:         result,
				Timestamp:      e.now().UTC(),
			})

			if result.OverallPass && result.CombinedScore >= e.limits.AcceptThreshold {
				composite = outputURL
				accepted = true
				e.logger.Info("composite step accepted",
					logging.Args(
						logging.String("scene_id", sc.ID),
						logging.Int("step", step.Index),
						logging.Int("attempt", attempt),
						logging.Float64("score", result.CombinedScore),
					)...)
				break
			}

			// Feed the rejected candidate back so the next attempt edits
			// it rather than regenerating from the prior composite.
			editBase = outputURL
			e.logger.Warn("composite step rejected, retrying",
				logging.Args(
					logging.String("scene_id", sc.ID),
					logging.Int("step", step.Index),
					logging.Int("attempt", attempt),
					logging.Float64("score", result.CombinedScore),
					logging.String("feedback", result.Knowledge.Feedback),
				)...)
		}

		if !accepted {
			err := &GenerationError{
				SceneID:    sc.ID,
				StepIndex:  step.Index,
				StepType:   step.Type,
				Iterations: totalIterations,
				LastResult: lastResult,
			}
			return &Outcome{History: history}, services.Wrap(services.ErrComposite, services.PhaseCompositing, "composite",
				fmt.Sprintf("step %d (%s %s) exhausted %d attempts", step.Index, step.Type, step.Subject, e.limits.MaxStepRetries), err)
		}
	}

	return &Outcome{CompositeURL: composite, History: history}, nil
}

func referenceURLs(step shotplan.Step) []string {
	urls := make([]string, 0, len(step.References))
	for _, ref := range step.References {
		urls = append(urls, ref.URL)
	}
	return urls
}
