package srs

import (
	"errors"
	"time"

	"github.com/phrazzld/repeat/internal/domain"
)

// Common errors
var (
	ErrInvalidOutcome = errors.New("invalid review outcome")
)

// Anomaly describes prior state the scheduler tolerated but that points at a
// problem upstream, such as clock skew or corrupted storage.
type Anomaly string

// Known anomalies.
const (
	// AnomalyOutOfOrderReview means the review is timestamped before the
	// previous one; elapsed time was treated as zero.
	AnomalyOutOfOrderReview Anomaly = "out_of_order_review"

	// AnomalyCorruptState means the stored stability or difficulty could
	// not be used and the card was re-seeded as if it were new.
	AnomalyCorruptState Anomaly = "corrupt_state"
)

// Service defines the interface for scheduling operations
type Service interface {
	// CalculateNextReview computes the performance that follows a review
	CalculateNextReview(
		prior domain.Performance,
		outcome domain.ReviewOutcome,
		now time.Time,
	) (domain.ReviewedPerformance, error)

	// Anomalies lists the tolerated irregularities in prior relative to now
	Anomalies(prior domain.Performance, now time.Time) []Anomaly

	// Params returns the parameters the service schedules with
	Params() *Params
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new scheduling service with default parameters
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new scheduling service with custom parameters.
// A nil params uses the defaults.
func NewServiceWithParams(params *Params) Service {
	if params == nil {
		params = NewDefaultParams()
	}
	return &defaultService{
		params: params,
	}
}

// CalculateNextReview implements Service
func (s *defaultService) CalculateNextReview(
	prior domain.Performance,
	outcome domain.ReviewOutcome,
	now time.Time,
) (domain.ReviewedPerformance, error) {
	if !outcome.Valid() {
		return domain.ReviewedPerformance{}, ErrInvalidOutcome
	}

	return UpdatePerformance(s.params, prior, outcome, now), nil
}

// Anomalies implements Service
func (s *defaultService) Anomalies(prior domain.Performance, now time.Time) []Anomaly {
	p, ok := prior.(domain.ReviewedPerformance)
	if !ok {
		return nil
	}

	var anomalies []Anomaly
	if now.Before(p.LastReviewedAt) {
		anomalies = append(anomalies, AnomalyOutOfOrderReview)
	}
	if !usable(p) {
		anomalies = append(anomalies, AnomalyCorruptState)
	}
	return anomalies
}

// Params implements Service
func (s *defaultService) Params() *Params {
	return s.params
}
