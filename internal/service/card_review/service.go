package card_review

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/phrazzld/repeat/internal/domain"
)

// CardReviewService registers cards and schedules their reviews.
type CardReviewService interface {
	// RegisterCards stores cards for userID and returns how many were not
	// known before. Known cards keep their review history.
	//
	// Returns ErrCardNotOwned if any card belongs to another user.
	RegisterCards(ctx context.Context, userID uuid.UUID, cards []*domain.Card) (int, error)

	// GetNextCard returns the card userID should review now.
	//
	// Returns ErrNoCardsDue when nothing is due.
	GetNextCard(ctx context.Context, userID uuid.UUID) (*domain.Card, error)

	// GetNextCardAmong is GetNextCard restricted to cardIDs, e.g. the
	// cards of one deck. An empty cardIDs has nothing due.
	GetNextCardAmong(ctx context.Context, userID uuid.UUID, cardIDs []uuid.UUID) (*domain.Card, error)

	// SubmitAnswer records a review of cardID and returns the resulting
	// performance. Reading the prior state, scheduling and saving happen in
	// one transaction.
	//
	// Error Handling:
	//   - Returns ErrInvalidAnswer when the outcome is not pass or fail
	//   - Returns ErrCardNotFound when the card does not exist
	//   - Returns ErrCardNotOwned when the card belongs to another user
	//
	// Irregular prior state (a review dated before the last one, unusable
	// stored values) is logged at WARN and the review still succeeds.
	SubmitAnswer(
		ctx context.Context,
		userID, cardID uuid.UUID,
		outcome domain.ReviewOutcome,
	) (domain.ReviewedPerformance, error)

	// GetPerformance returns the scheduling state of cardID.
	GetPerformance(ctx context.Context, userID, cardID uuid.UUID) (domain.Performance, error)

	// DeleteCard removes cardID and its review history.
	DeleteCard(ctx context.Context, userID, cardID uuid.UUID) error

	// GetStats summarises the collection of userID at the current time.
	GetStats(ctx context.Context, userID uuid.UUID) (*domain.ReviewStats, error)
}

// Common error types for CardReviewService
var (
	// ErrNoCardsDue indicates that the user has no cards due for review.
	ErrNoCardsDue = errors.New("no cards due for review")

	// ErrCardNotFound indicates that the card does not exist.
	ErrCardNotFound = errors.New("card not found")

	// ErrCardNotOwned indicates that the user does not own the card.
	ErrCardNotOwned = errors.New("unauthorized access: card not owned by user")

	// ErrInvalidAnswer indicates an invalid answer was provided.
	ErrInvalidAnswer = errors.New("invalid answer")
)

// Operation names carried by ServiceError.
const (
	OpRegisterCards  = "register_cards"
	OpGetNextCard    = "get_next_card"
	OpSubmitAnswer   = "submit_answer"
	OpGetPerformance = "get_performance"
	OpDeleteCard     = "delete_card"
	OpGetStats       = "get_stats"
)

// ServiceError wraps an unexpected failure with the operation it happened
// in. Expected outcomes such as ErrNoCardsDue are returned bare.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "get_next_card", "submit_answer")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError returns a ServiceError for operation.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
