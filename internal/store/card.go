package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/repeat/internal/domain"
)

// CardStore defines the interface for card data persistence.
type CardStore interface {
	// Upsert registers cards. Cards whose ID is already stored keep their
	// creation time and scheduling state; only their source path and
	// update time change. Returns how many cards were newly inserted.
	// All cards must pass domain validation.
	//
	// Run it inside RunInTransaction when the batch must be atomic:
	//   err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
	//       n, err = cardStore.WithTx(tx).Upsert(ctx, cards)
	//       return err
	//   })
	Upsert(ctx context.Context, cards []*domain.Card) (int, error)

	// GetByID retrieves a card by its ID.
	// Returns ErrCardNotFound if the card does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// ListByUser returns every card owned by userID, oldest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Card, error)

	// Delete removes a card and, through ON DELETE CASCADE, its performance.
	// Returns ErrCardNotFound if the card does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// GetNextReviewCard returns the card userID should review next at now.
	// Reviewed cards that are due come first, earliest due date first;
	// cards never reviewed follow in registration order.
	// A non-nil within restricts the choice to those card IDs.
	// Returns ErrCardNotFound if nothing is due.
	GetNextReviewCard(
		ctx context.Context,
		userID uuid.UUID,
		now time.Time,
		within []uuid.UUID,
	) (*domain.Card, error)

	// WithTx returns a CardStore bound to tx.
	WithTx(tx *sql.Tx) CardStore
}
