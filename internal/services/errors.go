package services

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel markers used to classify collaborator and pipeline failures.
var (
	ErrPlanning      = errors.New("planning error")
	ErrComposite     = errors.New("composite generation error")
	ErrVerification  = errors.New("verification error")
	ErrExternal      = errors.New("external service error")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
)

// Phase identifies the pipeline phase an error originated in. Phases are set
// at the point of raise so the orchestrator never has to guess from message
// text for errors produced inside this module.
type Phase string

const (
	PhaseNone            Phase = ""
	PhaseAnalyzing       Phase = "analyzing"
	PhaseCompositing     Phase = "compositing"
	PhaseGeneratingVideo Phase = "generating_video"
	PhaseExtractingFrame Phase = "extracting_frame"
)

// Error is the structured failure type produced by pipeline components. It
// carries a sentinel marker for errors.Is classification and a first-class
// phase tag for status mapping.
type Error struct {
	Marker    error
	Phase     Phase
	Operation string
	Message   string
	Err       error
}

func (e *Error) Error() string {
	parts := make([]string, 0, 2)
	if e.Operation != "" {
		parts = append(parts, e.Operation)
	}
	if e.Message != "" {
		parts = append(parts, e.Message)
	}
	detail := strings.Join(parts, ": ")
	switch {
	case e.Err != nil && detail != "":
		return fmt.Sprintf("%s: %s: %v", markerText(e.Marker), detail, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", markerText(e.Marker), e.Err)
	case detail != "":
		return fmt.Sprintf("%s: %s", markerText(e.Marker), detail)
	default:
		return markerText(e.Marker)
	}
}

// Unwrap exposes both the sentinel marker and the underlying cause so callers
// can match either with errors.Is/As.
func (e *Error) Unwrap() []error {
	targets := make([]error, 0, 2)
	if e.Marker != nil {
		targets = append(targets, e.Marker)
	}
	if e.Err != nil {
		targets = append(targets, e.Err)
	}
	return targets
}

func markerText(marker error) string {
	if marker == nil {
		return "service failure"
	}
	return marker.Error()
}

// Wrap builds a structured error tagged with a sentinel marker and the phase
// it was raised in.
func Wrap(marker error, phase Phase, operation, message string, err error) error {
	if marker == nil {
		marker = ErrExternal
	}
	return &Error{
		Marker:    marker,
		Phase:     phase,
		Operation: strings.TrimSpace(operation),
		Message:   strings.TrimSpace(message),
		Err:       err,
	}
}

// PhaseOf resolves the pipeline phase responsible for an error. Structured
// errors report their own phase; anything else falls back to keyword
// inference over the message text. The fallback can misclassify an error
// whose message happens to contain an unrelated keyword, so it is only
// consulted for errors that never passed through this package.
func PhaseOf(err error) Phase {
	if err == nil {
		return PhaseNone
	}
	var structured *Error
	if errors.As(err, &structured) && structured.Phase != PhaseNone {
		return structured.Phase
	}
	return inferPhase(err.Error())
}

func inferPhase(message string) Phase {
	msg := strings.ToLower(message)
	switch {
	case strings.Contains(msg, "shot"), strings.Contains(msg, "analysis"), strings.Contains(msg, "plan"):
		return PhaseAnalyzing
	case strings.Contains(msg, "composite"), strings.Contains(msg, "verif"):
		return PhaseCompositing
	case strings.Contains(msg, "video"):
		return PhaseGeneratingVideo
	case strings.Contains(msg, "frame"):
		return PhaseExtractingFrame
	default:
		return PhaseNone
	}
}
