// Package followup decides whether an answer deserves a probing follow-up question.
package followup

import "strings"

const (
	// MaxFollowUps caps follow-ups per top-level question
	MaxFollowUps = 2

	minAnswerWords = 20
)

var vagueAnswers = map[string]struct{}{
	"i don't know": {},
	"not sure":     {},
	"maybe":        {},
	"i guess":      {},
	"um":           {},
	"uh":           {},
	"i think so":   {},
	"yes":          {},
	"no":           {},
	"ok":           {},
	"okay":         {},
}

// NeedsFollowUp reports whether answer is too short or too vague to be final.
// Once followUpCount reaches MaxFollowUps the answer is always final.
func NeedsFollowUp(answer string, followUpCount int) bool {
	if followUpCount >= MaxFollowUps {
		return false
	}

	if len(strings.Fields(answer)) < minAnswerWords {
		return true
	}

	_, vague := vagueAnswers[strings.ToLower(strings.TrimSpace(answer))]
	return vague
}
