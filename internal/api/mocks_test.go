package api

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/repeat/internal/domain"
	"github.com/phrazzld/repeat/internal/service/auth"
	"github.com/phrazzld/repeat/internal/store"
	"github.com/stretchr/testify/mock"
)

type mockCardReviewService struct {
	mock.Mock
}

func (m *mockCardReviewService) RegisterCards(
	ctx context.Context,
	userID uuid.UUID,
	cards []*domain.Card,
) (int, error) {
	args := m.Called(ctx, userID, cards)
	return args.Int(0), args.Error(1)
}

func (m *mockCardReviewService) GetNextCard(ctx context.Context, userID uuid.UUID) (*domain.Card, error) {
	args := m.Called(ctx, userID)
	card, _ := args.Get(0).(*domain.Card)
	return card, args.Error(1)
}

func (m *mockCardReviewService) GetNextCardAmong(
	ctx context.Context,
	userID uuid.UUID,
	cardIDs []uuid.UUID,
) (*domain.Card, error) {
	args := m.Called(ctx, userID, cardIDs)
	card, _ := args.Get(0).(*domain.Card)
	return card, args.Error(1)
}

func (m *mockCardReviewService) SubmitAnswer(
	ctx context.Context,
	userID, cardID uuid.UUID,
	outcome domain.ReviewOutcome,
) (domain.ReviewedPerformance, error) {
	args := m.Called(ctx, userID, cardID, outcome)
	return args.Get(0).(domain.ReviewedPerformance), args.Error(1)
}

func (m *mockCardReviewService) GetPerformance(
	ctx context.Context,
	userID, cardID uuid.UUID,
) (domain.Performance, error) {
	args := m.Called(ctx, userID, cardID)
	perf, _ := args.Get(0).(domain.Performance)
	return perf, args.Error(1)
}

func (m *mockCardReviewService) DeleteCard(ctx context.Context, userID, cardID uuid.UUID) error {
	return m.Called(ctx, userID, cardID).Error(0)
}

func (m *mockCardReviewService) GetStats(ctx context.Context, userID uuid.UUID) (*domain.ReviewStats, error) {
	args := m.Called(ctx, userID)
	stats, _ := args.Get(0).(*domain.ReviewStats)
	return stats, args.Error(1)
}

type mockUserStore struct {
	mock.Mock
}

func (m *mockUserStore) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *mockUserStore) WithTx(*sql.Tx) store.UserStore { return m }

type stubJWTService struct {
	token string
	err   error
}

func (s stubJWTService) GenerateToken(context.Context, uuid.UUID) (string, error) {
	return s.token, s.err
}

func (s stubJWTService) ValidateToken(context.Context, string) (*auth.Claims, error) {
	return nil, s.err
}

type stubVerifier struct {
	err error
}

func (v stubVerifier) Compare(string, string) error { return v.err }
