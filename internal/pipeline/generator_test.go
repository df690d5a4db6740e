package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"sceneforge/internal/compositor"
	"sceneforge/internal/logging"
	"sceneforge/internal/scene"
	"sceneforge/internal/services"
	"sceneforge/internal/shotplan"
	"sceneforge/internal/synthesis"
	"sceneforge/internal/verify"
)

type memoryStore struct {
	mu        sync.Mutex
	scenes    map[string]*scene.Scene
	statuses  map[string][]scene.Status
	fields    map[string][]scene.Fields
	statusErr error
	fieldsErr error
}

func newMemoryStore(scenes ...*scene.Scene) *memoryStore {
	store := &memoryStore{
		scenes:   make(map[string]*scene.Scene),
		statuses: make(map[string][]scene.Status),
		fields:   make(map[string][]scene.Fields),
	}
	for _, sc := range scenes {
		store.scenes[sc.ID] = sc
	}
	return store
}

func (m *memoryStore) Fetch(_ context.Context, id string) (*scene.Scene, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sc, ok := m.scenes[id]
	if !ok {
		return nil, nil
	}
	copied := *sc
	return &copied, nil
}

func (m *memoryStore) UpdateStatus(_ context.Context, id string, status scene.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.statusErr != nil {
		return m.statusErr
	}
	m.statuses[id] = append(m.statuses[id], status)
	return nil
}

func (m *memoryStore) UpdateFields(_ context.Context, id string, fields scene.Fields) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fieldsErr != nil {
		return m.fieldsErr
	}
	m.fields[id] = append(m.fields[id], fields)
	return nil
}

func (m *memoryStore) statusHistory(id string) []scene.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]scene.Status(nil), m.statuses[id]...)
}

func (m *memoryStore) lastErrorMessage(id string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.fields[id]) - 1; i >= 0; i-- {
		if m.fields[id][i].ErrorMessage != nil {
			return *m.fields[id][i].ErrorMessage
		}
	}
	return ""
}

type stubPlanner struct {
	decision *shotplan.Decision
	err      error
}

func (s *stubPlanner) Plan(context.Context, *scene.Scene) (*shotplan.Decision, error) {
	return s.decision, s.err
}

type stubEngine struct {
	outcome *compositor.Outcome
	err     error
}

func (s *stubEngine) Run(context.Context, *scene.Scene, *shotplan.Decision) (*compositor.Outcome, error) {
	return s.outcome, s.err
}

type stubSynthesizer struct {
	clip     *synthesis.Clip
	clipErr  error
	frame    string
	frameErr error
}

func (s *stubSynthesizer) Synthesize(context.Context, string, shotplan.Pacing, string) (*synthesis.Clip, error) {
	return s.clip, s.clipErr
}

func (s *stubSynthesizer) ContinuityFrame(context.Context, *synthesis.Clip) (string, error) {
	return s.frame, s.frameErr
}

func happyDecision() *shotplan.Decision {
	return &shotplan.Decision{
		Steps:  []shotplan.Step{{Type: shotplan.StepLocation, Subject: "plaza"}},
		Pacing: shotplan.Pacing{DurationSeconds: 5, MotionStrength: 0.5},
	}
}

func happyOutcome() *compositor.Outcome {
	return &compositor.Outcome{
		CompositeURL: "composite.png",
		History: []compositor.Iteration{{
			Number: 1, OutputImageURL: "composite.png",
			Result: verify.Result{OverallPass: true, CombinedScore: 0.9},
		}},
	}
}

func newHappyGenerator(store SceneStore) *Generator {
	return NewGenerator(store,
		&stubPlanner{decision: happyDecision()},
		&stubEngine{outcome: happyOutcome()},
		&stubSynthesizer{clip: &synthesis.Clip{VideoURL: "clip.mp4", DurationSeconds: 5}, frame: "frame.png"},
		logging.NewNop())
}

func TestGenerateHappyPathStatusOrder(t *testing.T) {
	store := newMemoryStore(&scene.Scene{ID: "s1", Description: "plaza at dusk"})
	gen := newHappyGenerator(store)

	sc, err := gen.Generate(context.Background(), "s1")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	want := []scene.Status{
		scene.StatusAnalyzing,
		scene.StatusCompositing,
		scene.StatusGeneratingVideo,
		scene.StatusExtractingFrame,
		scene.StatusCompleted,
	}
	got := store.statusHistory("s1")
	if len(got) != len(want) {
		t.Fatalf("status history = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("status history = %v, want %v", got, want)
		}
	}
	if sc.CompositeURL != "composite.png" || sc.VideoURL != "clip.mp4" || sc.LastFrameURL != "frame.png" {
		t.Errorf("scene results = %+v", sc)
	}
}

func TestGenerateFrameFailureStillCompletes(t *testing.T) {
	store := newMemoryStore(&scene.Scene{ID: "s1"})
	gen := NewGenerator(store,
		&stubPlanner{decision: happyDecision()},
		&stubEngine{outcome: happyOutcome()},
		&stubSynthesizer{
			clip:     &synthesis.Clip{VideoURL: "clip.mp4", DurationSeconds: 5},
			frameErr: errors.New("decode failure"),
		},
		logging.NewNop())

	sc, err := gen.Generate(context.Background(), "s1")
	if err != nil {
		t.Fatalf("frame failure must not fail the scene: %v", err)
	}
	if sc.Status != scene.StatusCompleted {
		t.Errorf("status = %s, want completed", sc.Status)
	}
	if sc.LastFrameURL != "" {
		t.Errorf("continuity frame = %q, want absent", sc.LastFrameURL)
	}
	if sc.VideoURL != "clip.mp4" {
		t.Errorf("video url = %q, want clip.mp4", sc.VideoURL)
	}
}

func TestGeneratePlanningFailure(t *testing.T) {
	store := newMemoryStore(&scene.Scene{ID: "s1"})
	planErr := services.Wrap(services.ErrPlanning, services.PhaseAnalyzing, "plan", "no steps", nil)
	gen := NewGenerator(store, &stubPlanner{err: planErr}, &stubEngine{}, &stubSynthesizer{}, logging.NewNop())

	_, err := gen.Generate(context.Background(), "s1")
	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError, got %v", err)
	}
	if genErr.Phase != services.PhaseAnalyzing {
		t.Errorf("phase = %s, want analyzing", genErr.Phase)
	}
	history := store.statusHistory("s1")
	if history[len(history)-1] != scene.StatusFailed {
		t.Errorf("final status = %s, want failed", history[len(history)-1])
	}
	if msg := store.lastErrorMessage("s1"); !strings.Contains(msg, "no steps") {
		t.Errorf("persisted error message = %q", msg)
	}
}

func TestGenerateCompositeFailurePersistsHistory(t *testing.T) {
	store := newMemoryStore(&scene.Scene{ID: "s1"})
	partial := &compositor.Outcome{History: []compositor.Iteration{{Number: 1, OutputImageURL: "bad.png"}}}
	runErr := services.Wrap(services.ErrComposite, services.PhaseCompositing, "composite", "step exhausted", nil)
	gen := NewGenerator(store,
		&stubPlanner{decision: happyDecision()},
		&stubEngine{outcome: partial, err: runErr},
		&stubSynthesizer{}, logging.NewNop())

	_, err := gen.Generate(context.Background(), "s1")
	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError, got %v", err)
	}
	if genErr.Phase != services.PhaseCompositing {
		t.Errorf("phase = %s, want compositing", genErr.Phase)
	}

	persisted := false
	for _, fields := range store.fields["s1"] {
		if fields.IterationsJSON != nil && strings.Contains(*fields.IterationsJSON, "bad.png") {
			persisted = true
		}
	}
	if !persisted {
		t.Error("iteration history from the failed run must be persisted")
	}
}

func TestGenerateVideoFailurePhase(t *testing.T) {
	store := newMemoryStore(&scene.Scene{ID: "s1"})
	synthErr := services.Wrap(services.ErrExternal, services.PhaseGeneratingVideo, "synthesize", "backend down", nil)
	gen := NewGenerator(store,
		&stubPlanner{decision: happyDecision()},
		&stubEngine{outcome: happyOutcome()},
		&stubSynthesizer{clipErr: synthErr}, logging.NewNop())

	_, err := gen.Generate(context.Background(), "s1")
	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError, got %v", err)
	}
	if genErr.Phase != services.PhaseGeneratingVideo {
		t.Errorf("phase = %s, want generating_video", genErr.Phase)
	}
}

func TestGenerateToleratesPersistenceFailures(t *testing.T) {
	store := newMemoryStore(&scene.Scene{ID: "s1"})
	store.statusErr = errors.New("disk full")
	store.fieldsErr = errors.New("disk full")
	gen := newHappyGenerator(store)

	sc, err := gen.Generate(context.Background(), "s1")
	if err != nil {
		t.Fatalf("persistence failures must not fail generation: %v", err)
	}
	if sc.Status != scene.StatusCompleted {
		t.Errorf("status = %s, want completed", sc.Status)
	}
}

func TestGenerateUnknownScene(t *testing.T) {
	gen := newHappyGenerator(newMemoryStore())

	_, err := gen.Generate(context.Background(), "missing")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}
