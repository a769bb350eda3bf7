package card_review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/repeat/internal/domain"
	"github.com/phrazzld/repeat/internal/domain/srs"
	"github.com/phrazzld/repeat/internal/platform/logger"
	"github.com/phrazzld/repeat/internal/store"
)

// TxRunner runs fn inside a transaction, committing when it returns nil.
type TxRunner func(ctx context.Context, fn store.TxFn) error

// DBTxRunner runs transactions on db with store.RunInTransaction.
func DBTxRunner(db *sql.DB) TxRunner {
	return func(ctx context.Context, fn store.TxFn) error {
		return store.RunInTransaction(ctx, db, fn)
	}
}

// Option configures a card review service.
type Option func(*cardReviewServiceImpl)

// WithClock replaces time.Now as the source of review times.
func WithClock(now func() time.Time) Option {
	return func(s *cardReviewServiceImpl) {
		if now != nil {
			s.now = now
		}
	}
}

// Verify interface compliance at compile time
var _ CardReviewService = (*cardReviewServiceImpl)(nil)

type cardReviewServiceImpl struct {
	runTx      TxRunner
	cardStore  store.CardStore
	perfStore  store.PerformanceStore
	srsService srs.Service
	now        func() time.Time
	logger     *slog.Logger
}

// NewCardReviewService creates a CardReviewService over the given stores.
func NewCardReviewService(
	runTx TxRunner,
	cardStore store.CardStore,
	perfStore store.PerformanceStore,
	srsService srs.Service,
	logger *slog.Logger,
	opts ...Option,
) CardReviewService {
	if runTx == nil {
		panic("runTx cannot be nil")
	}
	if cardStore == nil {
		panic("cardStore cannot be nil")
	}
	if perfStore == nil {
		panic("perfStore cannot be nil")
	}
	if srsService == nil {
		panic("srsService cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &cardReviewServiceImpl{
		runTx:      runTx,
		cardStore:  cardStore,
		perfStore:  perfStore,
		srsService: srsService,
		now:        time.Now,
		logger:     logger.With(slog.String("component", "card_review_service")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *cardReviewServiceImpl) clock() time.Time {
	return s.now().UTC()
}

// RegisterCards implements CardReviewService.RegisterCards.
func (s *cardReviewServiceImpl) RegisterCards(
	ctx context.Context,
	userID uuid.UUID,
	cards []*domain.Card,
) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	for _, card := range cards {
		if card.UserID != userID {
			log.WarnContext(ctx, "refusing to register card of another user",
				slog.String("user_id", userID.String()),
				slog.String("card_id", card.ID.String()))
			return 0, ErrCardNotOwned
		}
	}
	if len(cards) == 0 {
		return 0, nil
	}

	var inserted int
	err := s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		inserted, err = s.cardStore.WithTx(tx).Upsert(ctx, cards)
		return err
	})
	if err != nil {
		log.ErrorContext(ctx, "failed to register cards",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return 0, NewServiceError(OpRegisterCards, "failed to store cards", err)
	}

	log.InfoContext(ctx, "cards registered",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(cards)),
		slog.Int("new", inserted))
	return inserted, nil
}

// GetNextCard implements CardReviewService.GetNextCard.
func (s *cardReviewServiceImpl) GetNextCard(ctx context.Context, userID uuid.UUID) (*domain.Card, error) {
	return s.nextCard(ctx, userID, nil)
}

// GetNextCardAmong implements CardReviewService.GetNextCardAmong.
func (s *cardReviewServiceImpl) GetNextCardAmong(
	ctx context.Context,
	userID uuid.UUID,
	cardIDs []uuid.UUID,
) (*domain.Card, error) {
	if cardIDs == nil {
		cardIDs = []uuid.UUID{}
	}
	return s.nextCard(ctx, userID, cardIDs)
}

func (s *cardReviewServiceImpl) nextCard(
	ctx context.Context,
	userID uuid.UUID,
	within []uuid.UUID,
) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := s.cardStore.GetNextReviewCard(ctx, userID, s.clock(), within)
	if err != nil {
		if errors.Is(err, store.ErrCardNotFound) {
			log.DebugContext(ctx, "no cards due for review", slog.String("user_id", userID.String()))
			return nil, ErrNoCardsDue
		}
		log.ErrorContext(ctx, "failed to get next review card",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, NewServiceError(OpGetNextCard, "failed to get next review card", err)
	}

	log.DebugContext(ctx, "next review card",
		slog.String("user_id", userID.String()),
		slog.String("card_id", card.ID.String()))
	return card, nil
}

// SubmitAnswer implements CardReviewService.SubmitAnswer.
func (s *cardReviewServiceImpl) SubmitAnswer(
	ctx context.Context,
	userID, cardID uuid.UUID,
	outcome domain.ReviewOutcome,
) (domain.ReviewedPerformance, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()))

	if !outcome.Valid() {
		log.WarnContext(ctx, "invalid review outcome", slog.String("outcome", string(outcome)))
		return domain.ReviewedPerformance{}, ErrInvalidAnswer
	}

	now := s.clock()
	var next domain.ReviewedPerformance
	err := s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		cards := s.cardStore.WithTx(tx)
		perfs := s.perfStore.WithTx(tx)

		if _, err := ownedCard(ctx, cards, userID, cardID); err != nil {
			return err
		}

		prior, err := perfs.GetForUpdate(ctx, cardID)
		if err != nil {
			if errors.Is(err, store.ErrCardNotFound) {
				return ErrCardNotFound
			}
			return fmt.Errorf("failed to get performance: %w", err)
		}

		for _, anomaly := range s.srsService.Anomalies(prior, now) {
			log.WarnContext(ctx, "irregular review state",
				slog.String("anomaly", string(anomaly)),
				slog.Time("reviewed_at", now))
		}

		next, err = s.srsService.CalculateNextReview(prior, outcome, now)
		if err != nil {
			return fmt.Errorf("failed to calculate next review: %w", err)
		}

		if err := perfs.Save(ctx, userID, cardID, next); err != nil {
			if errors.Is(err, store.ErrCardNotFound) {
				return ErrCardNotFound
			}
			return fmt.Errorf("failed to save performance: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrCardNotFound) || errors.Is(err, ErrCardNotOwned) {
			return domain.ReviewedPerformance{}, err
		}
		log.ErrorContext(ctx, "failed to submit answer", slog.String("error", err.Error()))
		return domain.ReviewedPerformance{}, NewServiceError(OpSubmitAnswer, "failed to record review", err)
	}

	log.InfoContext(ctx, "review recorded",
		slog.String("outcome", string(outcome)),
		slog.Float64("stability", next.Stability),
		slog.Float64("difficulty", next.Difficulty),
		slog.Int("interval_days", next.IntervalDays),
		slog.Time("due_date", next.DueDate))
	return next, nil
}

// GetPerformance implements CardReviewService.GetPerformance.
func (s *cardReviewServiceImpl) GetPerformance(
	ctx context.Context,
	userID, cardID uuid.UUID,
) (domain.Performance, error) {
	if _, err := ownedCard(ctx, s.cardStore, userID, cardID); err != nil {
		return nil, s.passThrough(ctx, OpGetPerformance, "failed to get card", err)
	}

	perf, err := s.perfStore.Get(ctx, cardID)
	if err != nil {
		return nil, s.passThrough(ctx, OpGetPerformance, "failed to get performance", err)
	}
	return perf, nil
}

// DeleteCard implements CardReviewService.DeleteCard.
func (s *cardReviewServiceImpl) DeleteCard(ctx context.Context, userID, cardID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := ownedCard(ctx, s.cardStore, userID, cardID); err != nil {
		return s.passThrough(ctx, OpDeleteCard, "failed to get card", err)
	}

	if err := s.cardStore.Delete(ctx, cardID); err != nil {
		if errors.Is(err, store.ErrCardNotFound) {
			return ErrCardNotFound
		}
		return s.passThrough(ctx, OpDeleteCard, "failed to delete card", err)
	}

	log.InfoContext(ctx, "card deleted",
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()))
	return nil
}

// GetStats implements CardReviewService.GetStats.
func (s *cardReviewServiceImpl) GetStats(ctx context.Context, userID uuid.UUID) (*domain.ReviewStats, error) {
	stats, err := s.perfStore.Stats(ctx, userID, s.clock())
	if err != nil {
		return nil, s.passThrough(ctx, OpGetStats, "failed to compute stats", err)
	}
	return stats, nil
}

// ownedCard loads cardID and checks that userID owns it.
func ownedCard(
	ctx context.Context,
	cards store.CardStore,
	userID, cardID uuid.UUID,
) (*domain.Card, error) {
	card, err := cards.GetByID(ctx, cardID)
	if err != nil {
		if errors.Is(err, store.ErrCardNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, fmt.Errorf("failed to get card: %w", err)
	}
	if card.UserID != userID {
		logger.FromContextOrDefault(ctx, slog.Default()).WarnContext(ctx, "user does not own card",
			slog.String("user_id", userID.String()),
			slog.String("card_id", cardID.String()))
		return nil, ErrCardNotOwned
	}
	return card, nil
}

// passThrough returns the service sentinels unchanged and wraps anything
// else in a logged ServiceError.
func (s *cardReviewServiceImpl) passThrough(ctx context.Context, op, message string, err error) error {
	if errors.Is(err, ErrCardNotFound) || errors.Is(err, ErrCardNotOwned) {
		return err
	}
	logger.FromContextOrDefault(ctx, s.logger).ErrorContext(ctx, message,
		slog.String("operation", op),
		slog.String("error", err.Error()))
	return NewServiceError(op, message, err)
}
