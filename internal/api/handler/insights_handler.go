package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/blaisecz/puppy-tracker/internal/api/validation"
	"github.com/blaisecz/puppy-tracker/internal/langfuse"
	"github.com/blaisecz/puppy-tracker/internal/llm"
	"github.com/blaisecz/puppy-tracker/internal/service"
	"github.com/blaisecz/puppy-tracker/pkg/problem"
	"go.uber.org/zap"
)

// InsightsHandler handles the care digest endpoints.
type InsightsHandler struct {
	insightsService service.InsightsService
	langfuseClient  langfuse.Client
	logger          *zap.Logger
}

// NewInsightsHandler creates a new InsightsHandler.
func NewInsightsHandler(insightsService service.InsightsService, langfuseClient langfuse.Client, logger *zap.Logger) *InsightsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InsightsHandler{
		insightsService: insightsService,
		langfuseClient:  langfuseClient,
		logger:          logger,
	}
}

// GetInsights handles GET /v1/puppies/{puppyId}/insights
// @Summary Get an LLM-written care digest
// @Description Summarise the last week of potty, sleep and walk statistics with an LLM. Only aggregated numbers are sent.
// @Tags insights
// @Produce json
// @Param puppyId path string true "Puppy UUID" format(uuid)
// @Success 200 {object} domain.InsightsResponse "Care digest"
// @Failure 400 {object} problem.Problem "Invalid puppy ID"
// @Failure 404 {object} problem.Problem "Puppy not found"
// @Failure 500 {object} problem.Problem "Server error"
// @Failure 502 {object} problem.Problem "LLM request failed"
// @Failure 503 {object} problem.Problem "LLM service unavailable"
// @Router /puppies/{puppyId}/insights [get]
func (h *InsightsHandler) GetInsights(w http.ResponseWriter, r *http.Request) {
	puppyID, ok := puppyIDParam(w, r)
	if !ok {
		return
	}

	result, err := h.insightsService.Generate(r.Context(), puppyID)
	if err != nil {
		switch {
		case errors.Is(err, llm.ErrOpenAIUnavailable):
			problem.ServiceUnavailable("OpenAI service is not configured").Write(w)
		case errors.Is(err, llm.ErrOpenAIRequest), errors.Is(err, llm.ErrOpenAIResponse):
			problem.BadGateway("Failed to generate digest from LLM").Write(w)
		default:
			writeError(w, err, "Puppy not found", "Failed to generate digest")
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// FeedbackRequest is the request body for digest feedback.
// @Description Caregiver rating of a previous digest.
type FeedbackRequest struct {
	// Trace ID from the insights response
	TraceID string `json:"trace_id" validate:"required" example:"4bf92f3577b34da6a3ce929d0e0e4736"`
	// Rating score (1-5)
	Score int `json:"score" validate:"min=1,max=5" example:"4"`
	// Optional comment
	Comment string `json:"comment,omitempty" validate:"max=1000" example:"Spot on about the post-nap accidents."`
}

// PostFeedback handles POST /v1/puppies/{puppyId}/insights/feedback
// @Summary Rate a care digest
// @Tags insights
// @Accept json
// @Param puppyId path string true "Puppy UUID" format(uuid)
// @Param body body FeedbackRequest true "Feedback request"
// @Success 204 "Feedback accepted"
// @Failure 400 {object} problem.Problem "Invalid request"
// @Failure 422 {object} problem.Problem "Validation failed"
// @Router /puppies/{puppyId}/insights/feedback [post]
func (h *InsightsHandler) PostFeedback(w http.ResponseWriter, r *http.Request) {
	puppyID, ok := puppyIDParam(w, r)
	if !ok {
		return
	}

	var req FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.BadRequest("Invalid request body").Write(w)
		return
	}
	if fieldErrors := validation.Validate(&req); fieldErrors != nil {
		problem.ValidationError("Request body contains invalid fields", fieldErrors).Write(w)
		return
	}

	// Feedback is best effort; a failed score never fails the request.
	if err := h.langfuseClient.CreateScore(r.Context(), langfuse.ScoreInput{
		TraceID: req.TraceID,
		Name:    langfuse.DigestRatingScore,
		Value:   float64(req.Score),
		Comment: req.Comment,
	}); err != nil {
		h.logger.Warn("digest feedback not recorded",
			zap.String("puppy_id", puppyID.String()),
			zap.Error(err),
		)
	}

	w.WriteHeader(http.StatusNoContent)
}
