package verify

// AcceptanceThreshold is the minimum combined score a composite step must
// reach alongside passing both checks.
const AcceptanceThreshold = 0.7

// Check is the outcome of a single verification channel.
type Check struct {
	Passed   bool
	Score    float64
	Feedback string
	Issues   []string
}

// Result combines both verification channels for one composite attempt. A
// step is accepted only when both channels pass and the combined score
// clears the acceptance threshold.
type Result struct {
	Knowledge     Check
	Vision        Check
	OverallPass   bool
	CombinedScore float64
}

// Accepted reports whether the result clears the acceptance gate.
func (r Result) Accepted() bool {
	return r.OverallPass && r.CombinedScore >= AcceptanceThreshold
}
