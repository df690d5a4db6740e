package pipeline

import (
	"context"
	"strings"
	"testing"

	"sceneforge/internal/logging"
	"sceneforge/internal/scene"
	"sceneforge/internal/synthesis"
	"sceneforge/internal/testsupport"
)

// TestGeneratePersistsThroughSQLiteStore runs the orchestrator against the
// real scene store instead of the in-memory fake.
func TestGeneratePersistsThroughSQLiteStore(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	sc := testsupport.NewScene(t, store, &scene.Scene{
		EpisodeID:   "ep-1",
		Number:      1,
		Description: "Mira surveys the plaza",
		Location:    "plaza",
		Characters:  []string{"Mira"},
	})

	gen := NewGenerator(store,
		&stubPlanner{decision: happyDecision()},
		&stubEngine{outcome: happyOutcome()},
		&stubSynthesizer{clip: &synthesis.Clip{VideoURL: "clip.mp4", DurationSeconds: 5}, frame: "frame.png"},
		logging.NewNop())

	result, err := gen.Generate(context.Background(), sc.ID)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if result.Status != scene.StatusCompleted {
		t.Errorf("returned status = %s, want completed", result.Status)
	}

	persisted, err := store.Fetch(context.Background(), sc.ID)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if persisted.Status != scene.StatusCompleted {
		t.Errorf("persisted status = %s, want completed", persisted.Status)
	}
	if persisted.CompositeURL != "composite.png" || persisted.VideoURL != "clip.mp4" || persisted.LastFrameURL != "frame.png" {
		t.Errorf("persisted results = %+v", persisted)
	}
	if !strings.Contains(persisted.IterationsJSON, "composite.png") {
		t.Errorf("iteration history not persisted: %q", persisted.IterationsJSON)
	}
}
