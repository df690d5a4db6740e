package verify

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"sceneforge/internal/logging"
	"sceneforge/internal/services/knowledge"
	"sceneforge/internal/shotplan"
)

type fakeGraphVerifier struct {
	payload string
	err     error
	calls   atomic.Int32
}

func (f *fakeGraphVerifier) VerifyComposite(context.Context, knowledge.VerifyRequest) (string, error) {
	f.calls.Add(1)
	return f.payload, f.err
}

type fakeVision struct {
	answer string
	err    error
	calls  atomic.Int32
}

func (f *fakeVision) Ask(context.Context, string, string) (string, error) {
	f.calls.Add(1)
	return f.answer, f.err
}

func characterStep() shotplan.Step {
	return shotplan.Step{Index: 1, Type: shotplan.StepCharacter, Subject: "Mira", Description: "place character Mira in the scene"}
}

func TestVerifyBothPass(t *testing.T) {
	graph := &fakeGraphVerifier{payload: `{"score": 0.9, "pass": true}`}
	vision := &fakeVision{answer: "Yes, the character is clearly present."}
	verifier := NewVerifier(graph, vision, logging.NewNop())

	result := verifier.Verify(context.Background(), "composite.png", characterStep(), "a plaza at dusk")
	if !result.OverallPass {
		t.Fatal("expected overall pass")
	}
	if result.CombinedScore != 0.9 {
		t.Errorf("combined score = %v, want 0.9", result.CombinedScore)
	}
	if !result.Accepted() {
		t.Error("expected result to clear the acceptance gate")
	}
}

func TestVerifySingleFailureBlocksAcceptance(t *testing.T) {
	graph := &fakeGraphVerifier{payload: `{"score": 0.9, "pass": true}`}
	vision := &fakeVision{answer: "No, the character is missing from the frame."}
	verifier := NewVerifier(graph, vision, logging.NewNop())

	result := verifier.Verify(context.Background(), "composite.png", characterStep(), "")
	if result.OverallPass {
		t.Fatal("one failing check must fail the whole verification")
	}
	if result.CombinedScore != 0.6 {
		t.Errorf("combined score = %v, want 0.6", result.CombinedScore)
	}
	if result.Accepted() {
		t.Error("result must not clear the acceptance gate")
	}
}

func TestVerifyHighScoreStillRequiresBothPasses(t *testing.T) {
	graph := &fakeGraphVerifier{payload: `{"score": 1.0, "pass": true}`}
	vision := &fakeVision{answer: "The lighting is wrong and the subject is absent."}
	verifier := NewVerifier(graph, vision, logging.NewNop())

	result := verifier.Verify(context.Background(), "composite.png", characterStep(), "")
	if result.Accepted() {
		t.Fatal("a failing vision check must block acceptance regardless of score")
	}
}

func TestVerifyVisionPassMustNameTheStep(t *testing.T) {
	graph := &fakeGraphVerifier{payload: `{"score": 0.9}`}
	vision := &fakeVision{answer: "Yes."}
	verifier := NewVerifier(graph, vision, logging.NewNop())

	result := verifier.Verify(context.Background(), "composite.png", characterStep(), "")
	if result.Vision.Passed {
		t.Fatal("an affirmative answer that never names the step must not pass")
	}
	if result.Vision.Score != 0.5 {
		t.Errorf("vision score = %v, want the ambiguous default 0.5", result.Vision.Score)
	}
	if result.OverallPass {
		t.Error("overall pass must require a step-anchored vision answer")
	}
}

func TestVerifyDegradesOnOutage(t *testing.T) {
	graph := &fakeGraphVerifier{err: errors.New("connection refused")}
	vision := &fakeVision{answer: "Yes, the character is present."}
	verifier := NewVerifier(graph, vision, logging.NewNop())

	result := verifier.Verify(context.Background(), "composite.png", characterStep(), "")
	if result.Knowledge.Passed {
		t.Error("an unavailable backend must record a failing check")
	}
	if result.Knowledge.Score != 0 {
		t.Errorf("degraded score = %v, want 0", result.Knowledge.Score)
	}
	if result.OverallPass {
		t.Error("outage must not let the attempt pass")
	}
}

func TestVerifyRunsBothChecksAlways(t *testing.T) {
	graph := &fakeGraphVerifier{err: errors.New("down")}
	vision := &fakeVision{err: errors.New("also down")}
	verifier := NewVerifier(graph, vision, logging.NewNop())

	verifier.Verify(context.Background(), "composite.png", characterStep(), "")
	if graph.calls.Load() != 1 {
		t.Errorf("knowledge check called %d times, want 1", graph.calls.Load())
	}
	if vision.calls.Load() != 1 {
		t.Errorf("vision check called %d times, want 1", vision.calls.Load())
	}
}
