package verify

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// defaultScore is assumed when a response carries no recognizable score.
const defaultScore = 0.5

var scorePattern = regexp.MustCompile(`(?i)score\s*[:=]\s*([0-9]*\.?[0-9]+)`)

type scoredPayload struct {
	Score      *float64 `json:"score"`
	Rating     *float64 `json:"rating"`
	Confidence *float64 `json:"confidence"`
	Feedback   string   `json:"feedback"`
	Reason     string   `json:"reason"`
	Issues     []string `json:"issues"`
	Problems   []string `json:"problems"`
}

// parseVerification extracts a Check from an arbitrarily shaped verification
// payload. Structured JSON fields win; a textual "score: N" is the fallback;
// an unreadable payload scores the neutral default.
func parseVerification(payload string) Check {
	payload = strings.TrimSpace(payload)

	var parsed scoredPayload
	if err := json.Unmarshal([]byte(payload), &parsed); err == nil {
		return checkFromPayload(payload, parsed)
	}

	check := Check{Score: defaultScore, Feedback: payload}
	if match := scorePattern.FindStringSubmatch(payload); match != nil {
		if score, err := strconv.ParseFloat(match[1], 64); err == nil {
			check.Score = normalizeScore(score)
		}
	}
	check.Passed = check.Score >= AcceptanceThreshold
	return check
}

func checkFromPayload(raw string, parsed scoredPayload) Check {
	check := Check{Score: defaultScore}

	switch {
	case parsed.Score != nil:
		check.Score = normalizeScore(*parsed.Score)
	case parsed.Rating != nil:
		check.Score = normalizeScore(*parsed.Rating)
	case parsed.Confidence != nil:
		check.Score = normalizeScore(*parsed.Confidence)
	default:
		if match := scorePattern.FindStringSubmatch(raw); match != nil {
			if score, err := strconv.ParseFloat(match[1], 64); err == nil {
				check.Score = normalizeScore(score)
			}
		}
	}

	check.Feedback = parsed.Feedback
	if check.Feedback == "" {
		check.Feedback = parsed.Reason
	}
	check.Issues = parsed.Issues
	if len(check.Issues) == 0 {
		check.Issues = parsed.Problems
	}

	// Pass is derived, never taken from the payload: a response cannot
	// self-certify past a low score or an open issue list.
	check.Passed = check.Score >= AcceptanceThreshold && len(check.Issues) == 0
	return check
}

// normalizeScore maps percentage-style scores onto [0, 1] and clamps.
func normalizeScore(score float64) float64 {
	if score > 1 && score <= 100 {
		score /= 100
	}
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
