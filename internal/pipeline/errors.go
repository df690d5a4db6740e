package pipeline

import (
	"fmt"

	"sceneforge/internal/services"
)

// GenerationError wraps a scene failure with the phase it arose in.
type GenerationError struct {
	SceneID string
	Phase   services.Phase
	Err     error
}

func (e *GenerationError) Error() string {
	if e.Phase == services.PhaseNone {
		return fmt.Sprintf("scene %s: %v", e.SceneID, e.Err)
	}
	return fmt.Sprintf("scene %s failed during %s: %v", e.SceneID, e.Phase, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
