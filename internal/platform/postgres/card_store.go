package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/repeat/internal/domain"
	"github.com/phrazzld/repeat/internal/platform/logger"
	"github.com/phrazzld/repeat/internal/store"
)

// PostgresCardStore implements store.CardStore on PostgreSQL.
type PostgresCardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCardStore creates a card store over db, which may be a
// connection pool or a transaction. If logger is nil, slog.Default is used.
func NewPostgresCardStore(db store.DBTX, logger *slog.Logger) *PostgresCardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

var _ store.CardStore = (*PostgresCardStore)(nil)

const cardColumns = `c.id, c.user_id, c.source_path, c.content, c.created_at, c.updated_at`

// WithTx implements store.CardStore.WithTx.
func (s *PostgresCardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &PostgresCardStore{db: tx, logger: s.logger}
}

// Upsert implements store.CardStore.Upsert.
func (s *PostgresCardStore) Upsert(ctx context.Context, cards []*domain.Card) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	for _, card := range cards {
		if err := card.Validate(); err != nil {
			log.WarnContext(ctx, "card validation failed during upsert",
				slog.String("card_id", card.ID.String()),
				slog.String("error", err.Error()))
			return 0, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
		}
	}

	inserted := 0
	for _, card := range cards {
		content, err := json.Marshal(card.Content)
		if err != nil {
			return inserted, fmt.Errorf("failed to encode card content: %w", err)
		}

		result, err := s.db.ExecContext(ctx, `
			INSERT INTO cards (id, user_id, source_path, content, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO NOTHING`,
			card.ID, card.UserID, card.SourcePath, content, card.CreatedAt, card.UpdatedAt)
		if err != nil {
			log.ErrorContext(ctx, "failed to insert card",
				slog.String("card_id", card.ID.String()),
				slog.String("error", err.Error()))
			if IsForeignKeyViolation(err) {
				return inserted, fmt.Errorf("%w: user %s", store.ErrUserNotFound, card.UserID)
			}
			return inserted, MapError(err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return inserted, fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 1 {
			inserted++
			continue
		}

		if _, err := s.db.ExecContext(ctx,
			`UPDATE cards SET source_path = $2, updated_at = $3 WHERE id = $1`,
			card.ID, card.SourcePath, card.UpdatedAt); err != nil {
			log.ErrorContext(ctx, "failed to refresh existing card",
				slog.String("card_id", card.ID.String()),
				slog.String("error", err.Error()))
			return inserted, MapError(err)
		}
	}

	log.DebugContext(ctx, "cards upserted",
		slog.Int("count", len(cards)),
		slog.Int("inserted", inserted))
	return inserted, nil
}

// GetByID implements store.CardStore.GetByID.
func (s *PostgresCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	row := s.db.QueryRowContext(ctx,
		`SELECT `+cardColumns+` FROM cards c WHERE c.id = $1`, id)
	card, err := scanCard(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.DebugContext(ctx, "card not found", slog.String("card_id", id.String()))
			return nil, store.ErrCardNotFound
		}
		log.ErrorContext(ctx, "failed to get card",
			slog.String("card_id", id.String()),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	return card, nil
}

// ListByUser implements store.CardStore.ListByUser.
func (s *PostgresCardStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+cardColumns+` FROM cards c WHERE c.user_id = $1 ORDER BY c.created_at, c.id`, userID)
	if err != nil {
		log.ErrorContext(ctx, "failed to list cards",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var cards []*domain.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return cards, nil
}

// Delete implements store.CardStore.Delete.
func (s *PostgresCardStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM cards WHERE id = $1`, id)
	if err != nil {
		log.ErrorContext(ctx, "failed to delete card",
			slog.String("card_id", id.String()),
			slog.String("error", err.Error()))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrCardNotFound); err != nil {
		return err
	}

	log.InfoContext(ctx, "card deleted", slog.String("card_id", id.String()))
	return nil
}

// GetNextReviewCard implements store.CardStore.GetNextReviewCard.
func (s *PostgresCardStore) GetNextReviewCard(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
	within []uuid.UUID,
) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var ids any
	if within != nil {
		strs := make([]string, len(within))
		for i, id := range within {
			strs[i] = id.String()
		}
		ids = strs
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT `+cardColumns+`
		FROM cards c
		LEFT JOIN card_performance p ON p.card_id = c.id
		WHERE c.user_id = $1
		  AND (p.card_id IS NULL OR p.due_date <= $2)
		  AND ($3::uuid[] IS NULL OR c.id = ANY($3::uuid[]))
		ORDER BY (p.card_id IS NULL), p.due_date, c.created_at, c.id
		LIMIT 1`,
		userID, now.UTC(), ids)
	card, err := scanCard(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.DebugContext(ctx, "no card due", slog.String("user_id", userID.String()))
			return nil, store.ErrCardNotFound
		}
		log.ErrorContext(ctx, "failed to get next review card",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	return card, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (*domain.Card, error) {
	var (
		card    domain.Card
		content []byte
	)
	if err := row.Scan(&card.ID, &card.UserID, &card.SourcePath, &content,
		&card.CreatedAt, &card.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(content, &card.Content); err != nil {
		return nil, fmt.Errorf("failed to decode content of card %s: %w", card.ID, err)
	}
	card.CreatedAt = card.CreatedAt.UTC()
	card.UpdatedAt = card.UpdatedAt.UTC()
	return &card, nil
}
