package verify

import (
	"strings"

	"sceneforge/internal/shotplan"
)

// Indicator scores assigned to free-text vision answers.
const (
	positiveIndicatorScore = 0.9
	negativeIndicatorScore = 0.3
)

var positiveIndicators = []string{"yes", "present", "correct", "visible", "matches", "clearly"}

var negativeIndicators = []string{"no", "not", "missing", "incorrect", "absent", "cannot", "wrong"}

// classifyAnswer turns a free-text yes/no style vision answer into a Check.
// A passing classification needs a positive indicator, no negative
// indicators, and the answer must actually talk about the step: it has to
// name the step type or the subject. A bare "yes" about nothing in
// particular fails closed. Indicators are matched on whole words so "no"
// never fires inside "know".
func classifyAnswer(answer string, step shotplan.Step) Check {
	words := tokenize(answer)

	negative := containsAny(words, negativeIndicators)
	positive := containsAny(words, positiveIndicators)

	check := Check{Score: defaultScore, Feedback: answer}
	switch {
	case negative:
		check.Score = negativeIndicatorScore
		check.Passed = false
		check.Issues = []string{step.Subject + " not confirmed in composite"}
	case positive && mentionsStep(words, step):
		check.Score = positiveIndicatorScore
		check.Passed = true
	default:
		check.Passed = false
	}
	return check
}

// mentionsStep reports whether the answer names the step's type or any token
// of its subject.
func mentionsStep(words map[string]bool, step shotplan.Step) bool {
	if words[string(step.Type)] {
		return true
	}
	for word := range tokenize(step.Subject) {
		if words[word] {
			return true
		}
	}
	return false
}

func tokenize(answer string) map[string]bool {
	words := make(map[string]bool)
	for _, field := range strings.FieldsFunc(strings.ToLower(answer), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	}) {
		words[field] = true
	}
	return words
}

func containsAny(words map[string]bool, indicators []string) bool {
	for _, indicator := range indicators {
		if words[indicator] {
			return true
		}
	}
	return false
}
