package scene

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a scene in the generation pipeline.
type Status string

const (
	StatusPending         Status = "pending"
	StatusAnalyzing       Status = "analyzing"
	StatusCompositing     Status = "compositing"
	StatusGeneratingVideo Status = "generating_video"
	StatusExtractingFrame Status = "extracting_frame"
	StatusCompleted       Status = "completed"
	StatusFailed          Status = "failed"
)

var allStatuses = []Status{
	StatusPending,
	StatusAnalyzing,
	StatusCompositing,
	StatusGeneratingVideo,
	StatusExtractingFrame,
	StatusCompleted,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

var processingStatuses = map[Status]struct{}{
	StatusAnalyzing:       {},
	StatusCompositing:     {},
	StatusGeneratingVideo: {},
	StatusExtractingFrame: {},
}

// Scene is the unit of work persisted in SQLite. The pipeline reads the
// identifying fields and writes the status and result fields; creation and
// deletion belong to the content-authoring side.
type Scene struct {
	ID           string
	EpisodeID    string
	ProjectID    string
	Number       int
	Description  string
	Location     string
	TimeOfDay    string
	CameraAngle  string
	Characters   []string
	Props        []string
	Dialogue     []string
	Status       Status
	CompositeURL string
	VideoURL     string
	LastFrameURL string
	// IterationsJSON holds the serialized composite iteration history. Kept
	// as raw JSON at this layer so the store stays free of pipeline types.
	IterationsJSON string
	ErrorMessage   string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// HealthSummary describes aggregated scene counts per key lifecycle states.
type HealthSummary struct {
	Total      int
	Pending    int
	Processing int
	Completed  int
	Failed     int
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// IsProcessing returns true when the status reflects an in-flight phase.
func (s *Scene) IsProcessing() bool {
	_, ok := processingStatuses[s.Status]
	return ok
}

// IsProcessingStatus reports whether a status reflects an in-flight phase.
func IsProcessingStatus(status Status) bool {
	_, ok := processingStatuses[status]
	return ok
}

// IsTerminal reports whether a status ends the pipeline for a scene.
func IsTerminal(status Status) bool {
	return status == StatusCompleted || status == StatusFailed
}

// SetFailed marks the scene as failed with the given error message.
func (s *Scene) SetFailed(message string) {
	s.Status = StatusFailed
	s.ErrorMessage = message
}
