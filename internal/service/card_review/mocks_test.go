package card_review_test

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/repeat/internal/domain"
	"github.com/phrazzld/repeat/internal/store"
	"github.com/stretchr/testify/mock"
)

// MockCardStore is a testify mock of store.CardStore. WithTx returns the
// mock itself.
type MockCardStore struct {
	mock.Mock
}

func (m *MockCardStore) Upsert(ctx context.Context, cards []*domain.Card) (int, error) {
	args := m.Called(ctx, cards)
	return args.Int(0), args.Error(1)
}

func (m *MockCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Card), args.Error(1)
}

func (m *MockCardStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Card, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Card), args.Error(1)
}

func (m *MockCardStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCardStore) GetNextReviewCard(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
	within []uuid.UUID,
) (*domain.Card, error) {
	args := m.Called(ctx, userID, now, within)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Card), args.Error(1)
}

func (m *MockCardStore) WithTx(*sql.Tx) store.CardStore { return m }

// MockPerformanceStore is a testify mock of store.PerformanceStore.
type MockPerformanceStore struct {
	mock.Mock
}

func (m *MockPerformanceStore) Get(ctx context.Context, cardID uuid.UUID) (domain.Performance, error) {
	args := m.Called(ctx, cardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Performance), args.Error(1)
}

func (m *MockPerformanceStore) GetForUpdate(ctx context.Context, cardID uuid.UUID) (domain.Performance, error) {
	args := m.Called(ctx, cardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Performance), args.Error(1)
}

func (m *MockPerformanceStore) Save(
	ctx context.Context,
	userID, cardID uuid.UUID,
	perf domain.ReviewedPerformance,
) error {
	return m.Called(ctx, userID, cardID, perf).Error(0)
}

func (m *MockPerformanceStore) Stats(ctx context.Context, userID uuid.UUID, now time.Time) (*domain.ReviewStats, error) {
	args := m.Called(ctx, userID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReviewStats), args.Error(1)
}

func (m *MockPerformanceStore) WithTx(*sql.Tx) store.PerformanceStore { return m }

// inlineTx runs fn without a transaction and counts invocations.
type inlineTx struct {
	calls int
}

func (r *inlineTx) run(ctx context.Context, fn store.TxFn) error {
	r.calls++
	return fn(ctx, nil)
}
