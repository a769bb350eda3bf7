package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/phrazzld/repeat/internal/api/shared"
	"github.com/phrazzld/repeat/internal/domain"
	"github.com/phrazzld/repeat/internal/ingest"
	"github.com/phrazzld/repeat/internal/platform/logger"
	"github.com/phrazzld/repeat/internal/service/card_review"
)

// CardHandler handles card registration and review requests.
type CardHandler struct {
	cardReviewService card_review.CardReviewService
	logger            *slog.Logger
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(
	cardReviewService card_review.CardReviewService,
	logger *slog.Logger,
) *CardHandler {
	if cardReviewService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("cardReviewService cannot be nil for CardHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &CardHandler{
		cardReviewService: cardReviewService,
		logger:            logger.With(slog.String("component", "card_handler")),
	}
}

// RegisterCards handles POST /cards. Each document is parsed as one
// markdown card; documents that do not parse are reported, not rejected.
func (h *CardHandler) RegisterCards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req RegisterCardsRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		HandleValidationError(w, r, err)
		return
	}

	result := ingest.BuildCards(userID, req.toDocuments())

	inserted, err := h.cardReviewService.RegisterCards(r.Context(), userID, result.Cards)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to register cards")
		return
	}

	resp := RegisterCardsResponse{
		Cards:      len(result.Cards),
		New:        inserted,
		Duplicates: result.Duplicates,
		Skipped:    make([]SkippedDocument, 0, len(result.Skipped)),
	}
	for _, s := range result.Skipped {
		resp.Skipped = append(resp.Skipped, SkippedDocument{Path: s.Path, Error: s.Err.Error()})
	}

	log.Debug("registered cards",
		slog.String("user_id", userID.String()),
		slog.Int("cards", resp.Cards),
		slog.Int("new", resp.New),
		slog.Int("skipped", len(resp.Skipped)))
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// GetNextReviewCard handles GET /cards/next. It answers 204 when nothing
// is due.
func (h *CardHandler) GetNextReviewCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	card, err := h.cardReviewService.GetNextCard(r.Context(), userID)
	if errors.Is(err, card_review.ErrNoCardsDue) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get next review card")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// SubmitAnswer handles POST /cards/{id}/answer.
func (h *CardHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, cardID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req SubmitAnswerRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		HandleValidationError(w, r, err)
		return
	}

	outcome, err := domain.ParseReviewOutcome(req.Outcome)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	perf, err := h.cardReviewService.SubmitAnswer(r.Context(), userID, cardID, outcome)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to submit answer")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, performanceToResponse(cardID, perf))
}

// GetPerformance handles GET /cards/{id}/performance.
func (h *CardHandler) GetPerformance(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, cardID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	perf, err := h.cardReviewService.GetPerformance(r.Context(), userID, cardID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get performance")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, performanceToResponse(cardID, perf))
}

// DeleteCard handles DELETE /cards/{id}.
func (h *CardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, cardID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.cardReviewService.DeleteCard(r.Context(), userID, cardID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete card")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetStats handles GET /stats.
func (h *CardHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	stats, err := h.cardReviewService.GetStats(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get stats")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, StatsResponse{ReviewStats: *stats, DueNow: stats.DueNow()})
}
