package shotplan

// StepType tags the kind of visual element a composite step adds.
type StepType string

const (
	StepLocation  StepType = "location"
	StepCharacter StepType = "character"
	StepProp      StepType = "prop"
	StepLighting  StepType = "lighting"
	StepEffect    StepType = "effect"
)

// stepOrder fixes the build order: backgrounds anchor subsequent composites
// geometrically, so locations always precede characters, which precede props.
var stepOrder = map[StepType]int{
	StepLocation:  0,
	StepCharacter: 1,
	StepProp:      2,
	StepLighting:  3,
	StepEffect:    4,
}

// MaxReferencesPerStep is the image-generation backend's hard reference limit.
const MaxReferencesPerStep = 3

// ReferenceImage points at an existing image used to condition generation.
// Purely descriptive; never mutated after planning.
type ReferenceImage struct {
	URL       string
	Type      string
	Weight    float64
	Character string
	Angle     string
}

// Step is one unit of visual construction. Immutable once planned.
type Step struct {
	Index       int
	Type        StepType
	Subject     string
	Description string
	References  []ReferenceImage
	Prompt      string
}

// Pacing carries the clip parameters derived from scene content.
type Pacing struct {
	DurationSeconds float64
	MotionStrength  float64
	Transition      string
}

// Decision is the planner's ephemeral output: the ordered build plan plus
// camera-angle choices and pacing. Consumed once per run, never persisted.
type Decision struct {
	Steps           []Step
	CharacterAngles map[string]string
	Pacing          Pacing
}
