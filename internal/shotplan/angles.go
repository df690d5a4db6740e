package shotplan

import "strings"

// DefaultCharacterAngle is used when the scene's camera angle has no mapping.
const DefaultCharacterAngle = "front"

// characterAngleTable maps a scene-level camera angle to the character view
// requested from the reference imagery.
var characterAngleTable = map[string]string{
	"front":     "front",
	"dutch":     "three_quarter",
	"overhead":  "top",
	"low":       "front_low",
	"high":      "front_high",
	"close_up":  "front",
	"wide":      "full_body",
	"profile":   "side",
	"over_the_shoulder": "back",
}

// CharacterAngleFor resolves the character view for a scene camera angle.
func CharacterAngleFor(cameraAngle string) string {
	normalized := strings.ToLower(strings.TrimSpace(cameraAngle))
	normalized = strings.ReplaceAll(normalized, " ", "_")
	normalized = strings.ReplaceAll(normalized, "-", "_")
	if view, ok := characterAngleTable[normalized]; ok {
		return view
	}
	return DefaultCharacterAngle
}
