package synthesis

import (
	"context"
	"errors"
	"math"
	"testing"

	"sceneforge/internal/logging"
	"sceneforge/internal/services"
	"sceneforge/internal/services/videogen"
	"sceneforge/internal/shotplan"
)

type fakeBackend struct {
	result      videogen.Result
	generateErr error

	frameURL   string
	frameErr   error
	frameVideo string
	frameTS    float64

	lastRequest videogen.Request
}

func (f *fakeBackend) Generate(_ context.Context, req videogen.Request) (videogen.Result, error) {
	f.lastRequest = req
	return f.result, f.generateErr
}

func (f *fakeBackend) ExtractFrame(_ context.Context, videoURL string, timestamp float64) (string, error) {
	f.frameVideo = videoURL
	f.frameTS = timestamp
	return f.frameURL, f.frameErr
}

func TestSynthesizeClampsDuration(t *testing.T) {
	backend := &fakeBackend{result: videogen.Result{VideoURL: "clip.mp4", DurationSeconds: 7}}
	synth := NewSynthesizer(backend, 0, logging.NewNop())

	clip, err := synth.Synthesize(context.Background(), "composite.png",
		shotplan.Pacing{DurationSeconds: 12, MotionStrength: 0.6}, "a chase")
	if err != nil {
		t.Fatalf("Synthesize returned error: %v", err)
	}
	if backend.lastRequest.DurationSeconds != shotplan.MaxClipSeconds {
		t.Errorf("requested duration = %v, want clamp to %v", backend.lastRequest.DurationSeconds, shotplan.MaxClipSeconds)
	}
	if clip.VideoURL != "clip.mp4" {
		t.Errorf("clip url = %s", clip.VideoURL)
	}
}

func TestSynthesizeBackendFailure(t *testing.T) {
	backend := &fakeBackend{generateErr: errors.New("service down")}
	synth := NewSynthesizer(backend, 0, logging.NewNop())

	_, err := synth.Synthesize(context.Background(), "composite.png", shotplan.Pacing{DurationSeconds: 5}, "")
	if !errors.Is(err, services.ErrExternal) {
		t.Fatalf("expected external error, got %v", err)
	}
	if phase := services.PhaseOf(err); phase != services.PhaseGeneratingVideo {
		t.Errorf("phase = %s, want generating_video", phase)
	}
}

func TestSynthesizeRequiresComposite(t *testing.T) {
	synth := NewSynthesizer(&fakeBackend{}, 0, logging.NewNop())

	_, err := synth.Synthesize(context.Background(), "", shotplan.Pacing{DurationSeconds: 5}, "")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestContinuityFrameSamplesBeforeClipEnd(t *testing.T) {
	backend := &fakeBackend{frameURL: "frame.png"}
	synth := NewSynthesizer(backend, 0.1, logging.NewNop())

	frame, err := synth.ContinuityFrame(context.Background(), &Clip{VideoURL: "clip.mp4", DurationSeconds: 6})
	if err != nil {
		t.Fatalf("ContinuityFrame returned error: %v", err)
	}
	if frame != "frame.png" {
		t.Errorf("frame = %s", frame)
	}
	if math.Abs(backend.frameTS-5.9) > 1e-9 {
		t.Errorf("timestamp = %v, want 5.9", backend.frameTS)
	}
}

func TestContinuityFrameFlooredAtZero(t *testing.T) {
	backend := &fakeBackend{frameURL: "frame.png"}
	synth := NewSynthesizer(backend, 0.5, logging.NewNop())

	_, err := synth.ContinuityFrame(context.Background(), &Clip{VideoURL: "clip.mp4", DurationSeconds: 0.2})
	if err != nil {
		t.Fatalf("ContinuityFrame returned error: %v", err)
	}
	if backend.frameTS != 0 {
		t.Errorf("timestamp = %v, want 0", backend.frameTS)
	}
}

func TestContinuityFrameFailureTagged(t *testing.T) {
	backend := &fakeBackend{frameErr: errors.New("decode failure")}
	synth := NewSynthesizer(backend, 0.1, logging.NewNop())

	_, err := synth.ContinuityFrame(context.Background(), &Clip{VideoURL: "clip.mp4", DurationSeconds: 6})
	if !errors.Is(err, services.ErrExternal) {
		t.Fatalf("expected external error, got %v", err)
	}
	if phase := services.PhaseOf(err); phase != services.PhaseExtractingFrame {
		t.Errorf("phase = %s, want extracting_frame", phase)
	}
}
