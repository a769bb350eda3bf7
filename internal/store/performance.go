package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/repeat/internal/domain"
)

// PerformanceStore persists the scheduling state of cards. A card without a
// stored record is new.
type PerformanceStore interface {
	// Get returns the performance of a card, domain.NewPerformance{} when
	// the card has never been reviewed. It does not check the card exists.
	Get(ctx context.Context, cardID uuid.UUID) (domain.Performance, error)

	// GetForUpdate is Get with a lock on the card held until the
	// surrounding transaction ends, so concurrent reviews of one card
	// serialize. Only meaningful on a store returned by WithTx.
	// Returns ErrCardNotFound if the card does not exist.
	GetForUpdate(ctx context.Context, cardID uuid.UUID) (domain.Performance, error)

	// Save stores perf as the latest state of cardID, replacing any prior
	// state. perf must pass domain validation.
	// Returns ErrCardNotFound if the card does not exist.
	Save(ctx context.Context, userID, cardID uuid.UUID, perf domain.ReviewedPerformance) error

	// Stats summarises userID's collection at now.
	Stats(ctx context.Context, userID uuid.UUID, now time.Time) (*domain.ReviewStats, error)

	// WithTx returns a PerformanceStore bound to tx.
	WithTx(tx *sql.Tx) PerformanceStore
}
