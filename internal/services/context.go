package services

import "context"

type contextKey string

const (
	sceneIDKey       contextKey = "scene_id"
	phaseKey         contextKey = "phase"
	correlationIDKey contextKey = "correlation_id"
)

// WithSceneID annotates context with the scene identifier being processed.
func WithSceneID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, sceneIDKey, id)
}

// SceneIDFromContext extracts the scene identifier if present.
func SceneIDFromContext(ctx context.Context) (string, bool) {
	if str, ok := ctx.Value(sceneIDKey).(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithPhase annotates context with the active pipeline phase.
func WithPhase(ctx context.Context, phase Phase) context.Context {
	if phase == PhaseNone {
		return ctx
	}
	return context.WithValue(ctx, phaseKey, phase)
}

// PhaseFromContext returns the active pipeline phase if present.
func PhaseFromContext(ctx context.Context) (Phase, bool) {
	if phase, ok := ctx.Value(phaseKey).(Phase); ok && phase != PhaseNone {
		return phase, true
	}
	return PhaseNone, false
}

// WithCorrelationID annotates context with a collaborator request identifier.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, correlationIDKey, id)
}

// CorrelationIDFromContext returns the collaborator request identifier if present.
func CorrelationIDFromContext(ctx context.Context) (string, bool) {
	if str, ok := ctx.Value(correlationIDKey).(string); ok && str != "" {
		return str, true
	}
	return "", false
}
