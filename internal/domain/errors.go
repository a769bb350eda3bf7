package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// It is usually wrapped with a more specific error.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidReviewOutcome is returned when a review outcome is not pass or fail.
	ErrInvalidReviewOutcome = errors.New("invalid review outcome")

	// ErrInvalidCardContent is returned when card content is neither a
	// complete basic card nor a cloze with a hidden range.
	ErrInvalidCardContent = errors.New("invalid card content")

	// ErrInvalidPerformance is returned when a stored performance record
	// violates the scheduler's bounds.
	ErrInvalidPerformance = errors.New("invalid performance")

	// ErrUnauthorized is returned when an operation is not permitted.
	ErrUnauthorized = errors.New("unauthorized operation")
)
