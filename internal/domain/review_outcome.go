package domain

import (
	"fmt"
	"strings"
)

// ReviewOutcome is the learner's self-reported result of a review.
type ReviewOutcome string

// Possible review outcome values.
const (
	ReviewOutcomePass ReviewOutcome = "pass"
	ReviewOutcomeFail ReviewOutcome = "fail"
)

// ParseReviewOutcome converts user input such as "pass", "Fail" or "p" into
// a ReviewOutcome.
func ParseReviewOutcome(s string) (ReviewOutcome, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pass", "p":
		return ReviewOutcomePass, nil
	case "fail", "f":
		return ReviewOutcomeFail, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidReviewOutcome, s)
	}
}

// Valid reports whether o is one of the known outcomes.
func (o ReviewOutcome) Valid() bool {
	return o == ReviewOutcomePass || o == ReviewOutcomeFail
}

// Grade is the numeric grade fed into the difficulty formulas:
// 3 for a pass, 2 for a fail.
func (o ReviewOutcome) Grade() int {
	if o == ReviewOutcomeFail {
		return 2
	}
	return 3
}

// Label returns the display label.
func (o ReviewOutcome) Label() string {
	switch o {
	case ReviewOutcomePass:
		return "Pass"
	case ReviewOutcomeFail:
		return "Fail"
	default:
		return string(o)
	}
}
