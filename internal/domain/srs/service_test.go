package srs

import (
	"testing"
	"time"

	"github.com/phrazzld/repeat/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultService(t *testing.T) {
	t.Parallel()

	service := NewDefaultService()
	require.NotNil(t, service)
	assert.Equal(t, NewDefaultParams(), service.Params())
}

func TestNewServiceWithParams(t *testing.T) {
	t.Parallel()

	params := NewParams(ParamsConfig{MaxIntervalDays: 30})
	assert.Same(t, params, NewServiceWithParams(params).Params())
	assert.Equal(t, NewDefaultParams(), NewServiceWithParams(nil).Params())
}

func TestCalculateNextReview(t *testing.T) {
	t.Parallel()

	service := NewDefaultService()
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	first, err := service.CalculateNextReview(domain.NewPerformance{}, domain.ReviewOutcomePass, now)
	require.NoError(t, err)
	assert.Equal(t, 3, first.IntervalDays)
	assert.Equal(t, 1, first.ReviewCount)

	second, err := service.CalculateNextReview(first, domain.ReviewOutcomePass, first.DueDate)
	require.NoError(t, err)
	assert.Equal(t, 11, second.IntervalDays)
	assert.Equal(t, 2, second.ReviewCount)

	third, err := service.CalculateNextReview(second, domain.ReviewOutcomeFail, second.DueDate)
	require.NoError(t, err)
	assert.Less(t, third.IntervalDays, 40)
	assert.Greater(t, third.Difficulty, second.Difficulty, "a fail makes the card harder")
	assert.Equal(t, 3, third.ReviewCount)
}

func TestCalculateNextReviewInvalidOutcome(t *testing.T) {
	t.Parallel()

	service := NewDefaultService()

	_, err := service.CalculateNextReview(nil, domain.ReviewOutcome("good"), time.Now())
	assert.ErrorIs(t, err, ErrInvalidOutcome)
}

func TestCalculateNextReviewRespectsConfiguredMaximum(t *testing.T) {
	t.Parallel()

	service := NewServiceWithParams(NewParams(ParamsConfig{MaxIntervalDays: 7}))
	now := time.Now().UTC()
	prior := domain.ReviewedPerformance{
		LastReviewedAt: now.AddDate(0, 0, -30),
		Stability:      30,
		Difficulty:     2,
		IntervalDays:   30,
		ReviewCount:    5,
	}

	got, err := service.CalculateNextReview(prior, domain.ReviewOutcomePass, now)
	require.NoError(t, err)
	assert.Equal(t, 7, got.IntervalDays)
}

func TestAnomalies(t *testing.T) {
	t.Parallel()

	service := NewDefaultService()
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	testCases := []struct {
		name  string
		prior domain.Performance
		want  []Anomaly
	}{
		{name: "nil prior", prior: nil},
		{name: "new card", prior: domain.NewPerformance{}},
		{
			name:  "healthy state",
			prior: domain.ReviewedPerformance{LastReviewedAt: now.Add(-time.Hour), Stability: 2, Difficulty: 5},
		},
		{
			name:  "review before last review",
			prior: domain.ReviewedPerformance{LastReviewedAt: now.Add(time.Hour), Stability: 2, Difficulty: 5},
			want:  []Anomaly{AnomalyOutOfOrderReview},
		},
		{
			name:  "non-positive stability",
			prior: domain.ReviewedPerformance{LastReviewedAt: now.Add(-time.Hour), Stability: 0, Difficulty: 5},
			want:  []Anomaly{AnomalyCorruptState},
		},
		{
			name:  "both",
			prior: domain.ReviewedPerformance{LastReviewedAt: now.Add(time.Hour), Stability: -1, Difficulty: 5},
			want:  []Anomaly{AnomalyOutOfOrderReview, AnomalyCorruptState},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, service.Anomalies(tc.prior, now))
		})
	}
}
