package shotplan

import "strings"

// Hard pacing bounds enforced downstream by the video collaborator.
const (
	MinClipSeconds = 5.0
	MaxClipSeconds = 7.0
	minMotion      = 0.5
	maxMotion      = 0.8
)

// actionKeywords flag high-action content in a scene description.
var actionKeywords = []string{
	"fight", "chase", "run", "running", "explosion", "explode", "crash",
	"battle", "leap", "jump", "storm", "attack", "escape", "collapse",
}

func isHighAction(description string) bool {
	lowered := strings.ToLower(description)
	for _, keyword := range actionKeywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}

// derivePacing chooses clip parameters from the scene content. Busier scenes
// get longer clips and stronger motion, clamped to the hard video-duration
// ceiling.
func derivePacing(description string, characterCount int) Pacing {
	duration := MinClipSeconds
	if characterCount > 1 {
		duration += 0.5 * float64(characterCount-1)
	}

	motion := minMotion
	transition := "dissolve"
	if isHighAction(description) {
		motion = maxMotion
		transition = "cut"
		duration += 0.5
	}

	if duration > MaxClipSeconds {
		duration = MaxClipSeconds
	}
	return Pacing{
		DurationSeconds: duration,
		MotionStrength:  motion,
		Transition:      transition,
	}
}
