package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/repeat/internal/domain"
	"github.com/phrazzld/repeat/internal/platform/logger"
	"github.com/phrazzld/repeat/internal/store"
)

// PerformanceStore implements store.PerformanceStore on SQLite.
type PerformanceStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPerformanceStore creates a performance store over db. If logger is
// nil, slog.Default is used.
func NewPerformanceStore(db store.DBTX, logger *slog.Logger) *PerformanceStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PerformanceStore{
		db:     db,
		logger: logger.With(slog.String("component", "performance_store")),
	}
}

var _ store.PerformanceStore = (*PerformanceStore)(nil)

// WithTx implements store.PerformanceStore.WithTx.
func (s *PerformanceStore) WithTx(tx *sql.Tx) store.PerformanceStore {
	return &PerformanceStore{db: tx, logger: s.logger}
}

// Get implements store.PerformanceStore.Get.
func (s *PerformanceStore) Get(ctx context.Context, cardID uuid.UUID) (domain.Performance, error) {
	perf, found, err := s.load(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if !found {
		return domain.NewPerformance{}, nil
	}
	return perf, nil
}

// GetForUpdate implements store.PerformanceStore.GetForUpdate. SQLite
// serializes writers on the database, so no row lock is taken.
func (s *PerformanceStore) GetForUpdate(ctx context.Context, cardID uuid.UUID) (domain.Performance, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM cards WHERE id = ?`, cardID.String()).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrCardNotFound
	}
	if err != nil {
		return nil, MapError(err)
	}
	return s.Get(ctx, cardID)
}

func (s *PerformanceStore) load(
	ctx context.Context,
	cardID uuid.UUID,
) (domain.ReviewedPerformance, bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var (
		perf                    domain.ReviewedPerformance
		lastReviewedAt, dueDate string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT last_reviewed_at, stability, difficulty, interval_raw, interval_days, due_date, review_count
		FROM card_performance WHERE card_id = ?`, cardID.String()).
		Scan(&lastReviewedAt, &perf.Stability, &perf.Difficulty, &perf.IntervalRaw,
			&perf.IntervalDays, &dueDate, &perf.ReviewCount)
	if errors.Is(err, sql.ErrNoRows) {
		return perf, false, nil
	}
	if err != nil {
		log.ErrorContext(ctx, "failed to get performance",
			slog.String("card_id", cardID.String()),
			slog.String("error", err.Error()))
		return perf, false, MapError(err)
	}

	if perf.LastReviewedAt, err = parseTime(lastReviewedAt); err != nil {
		return perf, false, err
	}
	if perf.DueDate, err = parseTime(dueDate); err != nil {
		return perf, false, err
	}
	return perf, true, nil
}

// Save implements store.PerformanceStore.Save.
func (s *PerformanceStore) Save(
	ctx context.Context,
	userID, cardID uuid.UUID,
	perf domain.ReviewedPerformance,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := perf.Validate(); err != nil {
		log.WarnContext(ctx, "performance validation failed during save",
			slog.String("card_id", cardID.String()),
			slog.String("error", err.Error()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO card_performance (card_id, user_id, last_reviewed_at, stability, difficulty,
			interval_raw, interval_days, due_date, review_count, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (card_id) DO UPDATE SET
			last_reviewed_at = excluded.last_reviewed_at,
			stability        = excluded.stability,
			difficulty       = excluded.difficulty,
			interval_raw     = excluded.interval_raw,
			interval_days    = excluded.interval_days,
			due_date         = excluded.due_date,
			review_count     = excluded.review_count,
			updated_at       = excluded.updated_at`,
		cardID.String(), userID.String(), formatTime(perf.LastReviewedAt), perf.Stability,
		perf.Difficulty, perf.IntervalRaw, perf.IntervalDays, formatTime(perf.DueDate),
		perf.ReviewCount, formatTime(time.Now()))
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.WarnContext(ctx, "performance saved for unknown card",
				slog.String("card_id", cardID.String()))
			return store.ErrCardNotFound
		}
		log.ErrorContext(ctx, "failed to save performance",
			slog.String("card_id", cardID.String()),
			slog.String("error", err.Error()))
		return MapError(err)
	}

	log.DebugContext(ctx, "performance saved",
		slog.String("card_id", cardID.String()),
		slog.Int("interval_days", perf.IntervalDays),
		slog.Int("review_count", perf.ReviewCount))
	return nil
}

// Stats implements store.PerformanceStore.Stats.
func (s *PerformanceStore) Stats(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
) (*domain.ReviewStats, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	at := formatTime(now)
	var (
		stats   domain.ReviewStats
		nextDue sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(p.card_id),
			COALESCE(SUM(CASE WHEN p.due_date <= ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(p.review_count), 0),
			MIN(CASE WHEN p.due_date > ? THEN p.due_date END)
		FROM cards c
		LEFT JOIN card_performance p ON p.card_id = c.id
		WHERE c.user_id = ?`,
		at, at, userID.String()).
		Scan(&stats.TotalCards, &stats.ReviewedCards, &stats.DueCards, &stats.TotalReviews, &nextDue)
	if err != nil {
		log.ErrorContext(ctx, "failed to compute stats",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	stats.NewCards = stats.TotalCards - stats.ReviewedCards
	if nextDue.Valid {
		t, err := parseTime(nextDue.String)
		if err != nil {
			return nil, err
		}
		stats.NextDueAt = &t
	}
	return &stats, nil
}
