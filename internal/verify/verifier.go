package verify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"sceneforge/internal/logging"
	"sceneforge/internal/services/knowledge"
	"sceneforge/internal/shotplan"
)

// KnowledgeVerifier checks a composite against the knowledge graph's
// structured understanding of the scene.
type KnowledgeVerifier interface {
	VerifyComposite(ctx context.Context, req knowledge.VerifyRequest) (string, error)
}

// VisionAsker answers a free-text question about an image.
type VisionAsker interface {
	Ask(ctx context.Context, imageURL, question string) (string, error)
}

// Verifier runs the knowledge check and the vision check on every composite
// attempt and gates acceptance on both.
type Verifier struct {
	graph  KnowledgeVerifier
	vision VisionAsker
	logger *slog.Logger
}

// NewVerifier constructs a verifier over the supplied check backends.
func NewVerifier(graph KnowledgeVerifier, vision VisionAsker, logger *slog.Logger) *Verifier {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Verifier{graph: graph, vision: vision, logger: logging.NewComponentLogger(logger, "verify")}
}

// Verify runs both checks concurrently and combines them. Both checks always
// run to completion; a failing knowledge check never short-circuits the
// vision check. Backend outages degrade to a failing check rather than an
// error, so a flaky service shows up as a rejected attempt, not a crashed
// pipeline.
func (v *Verifier) Verify(ctx context.Context, imageURL string, step shotplan.Step, sceneContext string) Result {
	var (
		wg             sync.WaitGroup
		knowledgeCheck Check
		visionCheck    Check
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		knowledgeCheck = v.runKnowledgeCheck(ctx, imageURL, step, sceneContext)
	}()
	go func() {
		defer wg.Done()
		visionCheck = v.runVisionCheck(ctx, imageURL, step)
	}()
	wg.Wait()

	result := Result{
		Knowledge:     knowledgeCheck,
		Vision:        visionCheck,
		OverallPass:   knowledgeCheck.Passed && visionCheck.Passed,
		CombinedScore: (knowledgeCheck.Score + visionCheck.Score) / 2,
	}
	v.logger.Debug("composite verified",
		logging.Args(
			logging.Int("step", step.Index),
			logging.Bool("overall_pass", result.OverallPass),
			logging.Float64("combined_score", result.CombinedScore),
		)...)
	return result
}

func (v *Verifier) runKnowledgeCheck(ctx context.Context, imageURL string, step shotplan.Step, sceneContext string) Check {
	payload, err := v.graph.VerifyComposite(ctx, knowledge.VerifyRequest{
		ImageURL:     imageURL,
		Requirement:  step.Description,
		SceneContext: sceneContext,
	})
	if err != nil {
		v.logger.Warn("knowledge check unavailable, recording failing check",
			logging.Args(logging.Int("step", step.Index), logging.Error(err))...)
		return Check{
			Passed:   false,
			Score:    0,
			Feedback: fmt.Sprintf("knowledge check unavailable: %v", err),
		}
	}
	return parseVerification(payload)
}

func (v *Verifier) runVisionCheck(ctx context.Context, imageURL string, step shotplan.Step) Check {
	question := visionQuestion(step)
	answer, err := v.vision.Ask(ctx, imageURL, question)
	if err != nil {
		v.logger.Warn("vision check unavailable, recording failing check",
			logging.Args(logging.Int("step", step.Index), logging.Error(err))...)
		return Check{
			Passed:   false,
			Score:    0,
			Feedback: fmt.Sprintf("vision check unavailable: %v", err),
		}
	}
	return classifyAnswer(answer, step)
}

func visionQuestion(step shotplan.Step) string {
	switch step.Type {
	case shotplan.StepLocation:
		return fmt.Sprintf("Does this image clearly depict the location %q? Answer yes or no with a short reason.", step.Subject)
	case shotplan.StepCharacter:
		return fmt.Sprintf("Is the character %q present and correctly composited into this image? Answer yes or no with a short reason.", step.Subject)
	default:
		return fmt.Sprintf("Is the %s %q visible and correctly integrated in this image? Answer yes or no with a short reason.", step.Type, step.Subject)
	}
}
