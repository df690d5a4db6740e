package compositor

import (
	"fmt"

	"sceneforge/internal/shotplan"
	"sceneforge/internal/verify"
)

// GenerationError reports an exhausted composite step or a tripped global
// iteration breaker, carrying the last verification detail for diagnostics.
// Iterations is the total across all steps of the run, not just the
// offending step.
type GenerationError struct {
	SceneID    string
	StepIndex  int
	StepType   shotplan.StepType
	Iterations int
	LastResult verify.Result
	Breaker    bool
}

func (e *GenerationError) Error() string {
	if e.Breaker {
		return fmt.Sprintf("scene %s: global iteration cap reached at step %d (%s) after %d iterations",
			e.SceneID, e.StepIndex, e.StepType, e.Iterations)
	}
	return fmt.Sprintf("scene %s: step %d (%s) exhausted its retries at iteration %d (last score %.2f)",
		e.SceneID, e.StepIndex, e.StepType, e.Iterations, e.LastResult.CombinedScore)
}
