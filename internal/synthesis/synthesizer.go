package synthesis

import (
	"context"
	"fmt"
	"log/slog"

	"sceneforge/internal/logging"
	"sceneforge/internal/services"
	"sceneforge/internal/services/videogen"
	"sceneforge/internal/shotplan"
)

// DefaultFrameOffsetSeconds is how far before the clip's end the continuity
// frame is sampled. Extracting exactly at the end timestamp is rejected by
// some backends, so the sample point is pulled back slightly.
const DefaultFrameOffsetSeconds = 0.1

// VideoBackend generates clips and extracts frames.
type VideoBackend interface {
	Generate(ctx context.Context, req videogen.Request) (videogen.Result, error)
	ExtractFrame(ctx context.Context, videoURL string, timestamp float64) (string, error)
}

// Clip is a synthesized video segment.
type Clip struct {
	VideoURL        string
	DurationSeconds float64
	FPS             int
	Resolution      string
}

// Synthesizer turns a finished composite into a video clip and samples a
// continuity frame from its tail for the next scene to chain from.
type Synthesizer struct {
	backend     VideoBackend
	frameOffset float64
	logger      *slog.Logger
}

// NewSynthesizer constructs a synthesizer. A non-positive frameOffset falls
// back to the default.
func NewSynthesizer(backend VideoBackend, frameOffset float64, logger *slog.Logger) *Synthesizer {
	if logger == nil {
		logger = logging.NewNop()
	}
	if frameOffset <= 0 {
		frameOffset = DefaultFrameOffsetSeconds
	}
	return &Synthesizer{
		backend:     backend,
		frameOffset: frameOffset,
		logger:      logging.NewComponentLogger(logger, "synthesis"),
	}
}

// Synthesize animates the composite into a clip using the planned pacing.
// Pacing values outside the supported clip bounds are clamped rather than
// rejected.
func (s *Synthesizer) Synthesize(ctx context.Context, compositeURL string, pacing shotplan.Pacing, description string) (*Clip, error) {
	if compositeURL == "" {
		return nil, services.Wrap(services.ErrValidation, services.PhaseGeneratingVideo, "synthesize", "composite url required", nil)
	}

	duration := clamp(pacing.DurationSeconds, shotplan.MinClipSeconds, shotplan.MaxClipSeconds)
	result, err := s.backend.Generate(ctx, videogen.Request{
		ImageURL:        compositeURL,
		Prompt:          description,
		DurationSeconds: duration,
		MotionStrength:  pacing.MotionStrength,
	})
	if err != nil {
		return nil, services.Wrap(services.ErrExternal, services.PhaseGeneratingVideo, "synthesize", "generate video", err)
	}

	clip := &Clip{
		VideoURL:        result.VideoURL,
		DurationSeconds: result.DurationSeconds,
		FPS:             result.FPS,
		Resolution:      result.Resolution,
	}
	if clip.DurationSeconds <= 0 {
		clip.DurationSeconds = duration
	}
	s.logger.Info("clip synthesized",
		logging.Args(
			logging.String("video_url", clip.VideoURL),
			logging.Float64("duration", clip.DurationSeconds),
		)...)
	return clip, nil
}

// ContinuityFrame samples a frame near the clip's end. The timestamp is the
// clip duration minus the frame offset, floored at zero.
func (s *Synthesizer) ContinuityFrame(ctx context.Context, clip *Clip) (string, error) {
	if clip == nil || clip.VideoURL == "" {
		return "", services.Wrap(services.ErrValidation, services.PhaseExtractingFrame, "continuity frame", "clip required", nil)
	}

	timestamp := clip.DurationSeconds - s.frameOffset
	if timestamp < 0 {
		timestamp = 0
	}
	frameURL, err := s.backend.ExtractFrame(ctx, clip.VideoURL, timestamp)
	if err != nil {
		return "", services.Wrap(services.ErrExternal, services.PhaseExtractingFrame, "continuity frame",
			fmt.Sprintf("extract frame at %.2fs", timestamp), err)
	}
	return frameURL, nil
}

func clamp(value, low, high float64) float64 {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}
