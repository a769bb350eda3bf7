package postgres

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

// PostgresPerformanceStore implements store.PerformanceStore on PostgreSQL.
type PostgresPerformanceStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresPerformanceStore creates a performance store over db.
// If logger is nil, slog.Default is used.
func NewPostgresPerformanceStore(db store.DBTX, logger *slog.Logger) *PostgresPerformanceStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresPerformanceStore{
		db:     db,
		logger: logger.With(slog.String("component", "performance_store")),
	}
}

var _ store.PerformanceStore = (*PostgresPerformanceStore)(nil)

const performanceColumns = `p.last_reviewed_at, p.stability, p.difficulty, p.interval_raw,
	p.interval_days, p.due_date, p.review_count`

// WithTx implements store.PerformanceStore.WithTx.
func (s *PostgresPerformanceStore) WithTx(tx *sql.Tx) store.PerformanceStore {
	return &PostgresPerformanceStore{db: tx, logger: s.logger}
}

// Get implements store.PerformanceStore.Get.
func (s *PostgresPerformanceStore) Get(ctx context.Context, cardID uuid.UUID) (domain.Performance, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	row := s.db.QueryRowContext(ctx,
		`SELECT `+performanceColumns+` FROM card_performance p WHERE p.card_id = $1`, cardID)

	var perf domain.ReviewedPerformance
	err := row.Scan(&perf.LastReviewedAt, &perf.Stability, &perf.Difficulty, &perf.IntervalRaw,
		&perf.IntervalDays, &perf.DueDate, &perf.ReviewCount)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NewPerformance{}, nil
	}
	if err != nil {
		log.ErrorContext(ctx, "failed to get performance",
			slog.String("card_id", cardID.String()),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return readPerformance(perf), nil
}

// GetForUpdate implements store.PerformanceStore.GetForUpdate. The card row
// is locked, so a card that has never been reviewed is serialized as well.
func (s *PostgresPerformanceStore) GetForUpdate(
	ctx context.Context,
	cardID uuid.UUID,
) (domain.Performance, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	row := s.db.QueryRowContext(ctx, `
		SELECT p.card_id IS NOT NULL, `+performanceColumns+`
		FROM cards c
		LEFT JOIN card_performance p ON p.card_id = c.id
		WHERE c.id = $1
		FOR UPDATE OF c`, cardID)

	var (
		reviewed       bool
		lastReviewedAt sql.NullTime
		stability      sql.NullFloat64
		difficulty     sql.NullFloat64
		intervalRaw    sql.NullFloat64
		intervalDays   sql.NullInt64
		dueDate        sql.NullTime
		reviewCount    sql.NullInt64
	)
	err := row.Scan(&reviewed, &lastReviewedAt, &stability, &difficulty, &intervalRaw,
		&intervalDays, &dueDate, &reviewCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrCardNotFound
	}
	if err != nil {
		log.ErrorContext(ctx, "failed to lock performance",
			slog.String("card_id", cardID.String()),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	if !reviewed {
		return domain.NewPerformance{}, nil
	}

	return readPerformance(domain.ReviewedPerformance{
		LastReviewedAt: lastReviewedAt.Time,
		Stability:      stability.Float64,
		Difficulty:     difficulty.Float64,
		IntervalRaw:    intervalRaw.Float64,
		IntervalDays:   int(intervalDays.Int64),
		DueDate:        dueDate.Time,
		ReviewCount:    int(reviewCount.Int64),
	}), nil
}

// Save implements store.PerformanceStore.Save.
func (s *PostgresPerformanceStore) Save(
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
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		ON CONFLICT (card_id) DO UPDATE SET
			last_reviewed_at = EXCLUDED.last_reviewed_at,
			stability        = EXCLUDED.stability,
			difficulty       = EXCLUDED.difficulty,
			interval_raw     = EXCLUDED.interval_raw,
			interval_days    = EXCLUDED.interval_days,
			due_date         = EXCLUDED.due_date,
			review_count     = EXCLUDED.review_count,
			updated_at       = NOW()`,
		cardID, userID, perf.LastReviewedAt.UTC(), perf.Stability, perf.Difficulty,
		perf.IntervalRaw, perf.IntervalDays, perf.DueDate.UTC(), perf.ReviewCount)
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
func (s *PostgresPerformanceStore) Stats(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
) (*domain.ReviewStats, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	row := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(p.card_id),
			COALESCE(SUM(CASE WHEN p.due_date <= $2 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(p.review_count), 0),
			MIN(CASE WHEN p.due_date > $2 THEN p.due_date END)
		FROM cards c
		LEFT JOIN card_performance p ON p.card_id = c.id
		WHERE c.user_id = $1`,
		userID, now.UTC())

	var (
		stats   domain.ReviewStats
		nextDue sql.NullTime
	)
	if err := row.Scan(&stats.TotalCards, &stats.ReviewedCards, &stats.DueCards,
		&stats.TotalReviews, &nextDue); err != nil {
		log.ErrorContext(ctx, "failed to compute stats",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	stats.NewCards = stats.TotalCards - stats.ReviewedCards
	if nextDue.Valid {
		t := nextDue.Time.UTC()
		stats.NextDueAt = &t
	}
	return &stats, nil
}

// readPerformance normalizes times to UTC. Out-of-range values are passed
// through; the scheduler reseeds them on the next review.
func readPerformance(perf domain.ReviewedPerformance) domain.Performance {
	perf.LastReviewedAt = perf.LastReviewedAt.UTC()
	perf.DueDate = perf.DueDate.UTC()
	return perf
}
