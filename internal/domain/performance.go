package domain

import (
	"fmt"
	"math"
	"time"
)

// Bounds every scheduled performance record stays within.
const (
	MinDifficulty   = 1.0
	MaxDifficulty   = 10.0
	MinIntervalDays = 1
	MaxIntervalDays = 256
)

// Performance state names, as persisted and exposed over the API.
const (
	PerformanceStateNew      = "new"
	PerformanceStateReviewed = "reviewed"
)

// Performance is the scheduling state of a single card. It is a closed sum
// type: the only implementations are NewPerformance and ReviewedPerformance,
// so callers switch on the concrete type. A nil Performance means New.
type Performance interface {
	isPerformance()
}

// NewPerformance marks a card that has never been reviewed.
type NewPerformance struct{}

func (NewPerformance) isPerformance() {}

// ReviewedPerformance is the state a card is in after at least one review.
// Values are produced by the scheduler and never changed afterwards; a new
// review produces a new value.
type ReviewedPerformance struct {
	LastReviewedAt time.Time `json:"last_reviewed_at"`
	Stability      float64   `json:"stability"`
	Difficulty     float64   `json:"difficulty"`
	IntervalRaw    float64   `json:"interval_raw"`
	IntervalDays   int       `json:"interval_days"`
	DueDate        time.Time `json:"due_date"`
	ReviewCount    int       `json:"review_count"`
}

func (ReviewedPerformance) isPerformance() {}

// IsDue reports whether the card should be reviewed at now.
func (p ReviewedPerformance) IsDue(now time.Time) bool {
	return !p.DueDate.After(now)
}

// Validate checks the bounds the scheduler guarantees. Stores call it before
// writing; scheduler output always passes.
func (p ReviewedPerformance) Validate() error {
	switch {
	case p.LastReviewedAt.IsZero():
		return fmt.Errorf("%w: last reviewed time is zero", ErrInvalidPerformance)
	case math.IsNaN(p.Stability) || math.IsInf(p.Stability, 0) || p.Stability <= 0:
		return fmt.Errorf("%w: stability %v is not positive", ErrInvalidPerformance, p.Stability)
	case p.Difficulty < MinDifficulty || p.Difficulty > MaxDifficulty || math.IsNaN(p.Difficulty):
		return fmt.Errorf("%w: difficulty %v out of range", ErrInvalidPerformance, p.Difficulty)
	case p.IntervalDays < MinIntervalDays || p.IntervalDays > MaxIntervalDays:
		return fmt.Errorf("%w: interval %d days out of range", ErrInvalidPerformance, p.IntervalDays)
	case p.ReviewCount < 1:
		return fmt.Errorf("%w: review count %d", ErrInvalidPerformance, p.ReviewCount)
	case !p.DueDate.Equal(DueDate(p.LastReviewedAt, p.IntervalDays)):
		return fmt.Errorf("%w: due date does not match interval", ErrInvalidPerformance)
	}
	return nil
}

// DueDate returns the time a card reviewed at reviewedAt with an interval of
// days becomes due. Days are fixed 24 hour spans.
func DueDate(reviewedAt time.Time, days int) time.Time {
	return reviewedAt.Add(time.Duration(days) * 24 * time.Hour)
}

// PerformanceState returns "new" or "reviewed" for p.
func PerformanceState(p Performance) string {
	if _, ok := p.(ReviewedPerformance); ok {
		return PerformanceStateReviewed
	}
	return PerformanceStateNew
}

// IsDue reports whether a card in state p should be reviewed at now.
// New cards are always due.
func IsDue(p Performance, now time.Time) bool {
	if r, ok := p.(ReviewedPerformance); ok {
		return r.IsDue(now)
	}
	return true
}
