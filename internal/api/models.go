package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/repeat/internal/domain"
	"github.com/phrazzld/repeat/internal/ingest"
)

// RegisterRequest is the payload of POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest is the payload of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse is returned by both authentication endpoints.
type AuthResponse struct {
	UserID      uuid.UUID `json:"user_id"`
	AccessToken string    `json:"token"`
	// ExpiresAt is the RFC 3339 expiry of AccessToken.
	ExpiresAt string `json:"expires_at,omitempty"`
}

// DocumentRequest is one markdown card file.
type DocumentRequest struct {
	Path    string `json:"path"    validate:"required,max=1024"`
	Content string `json:"content" validate:"required"`
}

// RegisterCardsRequest is the payload of POST /cards.
type RegisterCardsRequest struct {
	Documents []DocumentRequest `json:"documents" validate:"required,min=1,max=10000,dive"`
}

func (r RegisterCardsRequest) toDocuments() []ingest.Document {
	docs := make([]ingest.Document, len(r.Documents))
	for i, d := range r.Documents {
		docs[i] = ingest.Document{Path: d.Path, Content: d.Content}
	}
	return docs
}

// SkippedDocument names a document that did not yield a card.
type SkippedDocument struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// RegisterCardsResponse summarises a registration.
type RegisterCardsResponse struct {
	Cards      int               `json:"cards"`
	New        int               `json:"new"`
	Duplicates int               `json:"duplicates"`
	Skipped    []SkippedDocument `json:"skipped"`
}

// CardResponse is a card as shown to a reviewer.
type CardResponse struct {
	ID         uuid.UUID       `json:"id"`
	SourcePath string          `json:"source_path"`
	Kind       domain.CardKind `json:"kind"`
	Prompt     string          `json:"prompt"`
	Reveal     string          `json:"reveal"`
	CreatedAt  time.Time       `json:"created_at"`
}

func cardToResponse(card *domain.Card) CardResponse {
	return CardResponse{
		ID:         card.ID,
		SourcePath: card.SourcePath,
		Kind:       card.Content.Kind,
		Prompt:     card.Content.Prompt(),
		Reveal:     card.Content.Reveal(),
		CreatedAt:  card.CreatedAt,
	}
}

// SubmitAnswerRequest is the payload of POST /cards/{id}/answer.
type SubmitAnswerRequest struct {
	Outcome string `json:"outcome" validate:"required"`
}

// PerformanceResponse is the scheduling state of a card. Only State is set
// for a card that was never reviewed.
type PerformanceResponse struct {
	CardID         uuid.UUID  `json:"card_id"`
	State          string     `json:"state"`
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty"`
	Stability      float64    `json:"stability,omitempty"`
	Difficulty     float64    `json:"difficulty,omitempty"`
	IntervalRaw    float64    `json:"interval_raw,omitempty"`
	IntervalDays   int        `json:"interval_days,omitempty"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	ReviewCount    int        `json:"review_count"`
}

func performanceToResponse(cardID uuid.UUID, perf domain.Performance) PerformanceResponse {
	resp := PerformanceResponse{CardID: cardID, State: domain.PerformanceState(perf)}
	if r, ok := perf.(domain.ReviewedPerformance); ok {
		last, due := r.LastReviewedAt, r.DueDate
		resp.LastReviewedAt = &last
		resp.Stability = r.Stability
		resp.Difficulty = r.Difficulty
		resp.IntervalRaw = r.IntervalRaw
		resp.IntervalDays = r.IntervalDays
		resp.DueDate = &due
		resp.ReviewCount = r.ReviewCount
	}
	return resp
}

// StatsResponse summarises a user's collection.
type StatsResponse struct {
	domain.ReviewStats
	DueNow int `json:"due_now"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}
