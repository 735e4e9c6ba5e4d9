package handler

import (
	"net/http"
	"strconv"

	"github.com/blaisecz/puppy-tracker/internal/service"
	"github.com/blaisecz/puppy-tracker/pkg/problem"
)

// CareHandler serves the derived views computed by the care engine.
type CareHandler struct {
	service service.CareService
}

func NewCareHandler(service service.CareService) *CareHandler {
	return &CareHandler{service: service}
}

// Status handles GET /v1/puppies/{puppyId}/status
// @Summary Current sleep, potty and walk status
// @Description Sleep state, potty prediction, combined state with card visibility, and the next walk suggestion, evaluated at request time.
// @Tags care
// @Produce json
// @Param puppyId path string true "Puppy UUID" format(uuid)
// @Success 200 {object} service.StatusView "Live status"
// @Failure 400 {object} problem.Problem "Invalid puppy ID"
// @Failure 404 {object} problem.Problem "Puppy not found"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /puppies/{puppyId}/status [get]
func (h *CareHandler) Status(w http.ResponseWriter, r *http.Request) {
	puppyID, ok := puppyIDParam(w, r)
	if !ok {
		return
	}

	view, err := h.service.Status(r.Context(), puppyID)
	if err != nil {
		writeError(w, err, "Puppy not found", "Failed to compute status")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Timeline handles GET /v1/puppies/{puppyId}/timeline
// @Summary Activity timeline of a day
// @Tags care
// @Produce json
// @Param puppyId path string true "Puppy UUID" format(uuid)
// @Param date query string false "Day in the puppy's timezone (YYYY-MM-DD), default today" example(2024-01-16)
// @Success 200 {object} service.TimelineView "Blocks, summary and bounds"
// @Failure 400 {object} problem.Problem "Invalid parameters"
// @Failure 404 {object} problem.Problem "Puppy not found"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /puppies/{puppyId}/timeline [get]
func (h *CareHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	puppyID, ok := puppyIDParam(w, r)
	if !ok {
		return
	}

	view, err := h.service.Timeline(r.Context(), puppyID, r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, err, "Puppy not found", "Failed to build timeline")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Walks handles GET /v1/puppies/{puppyId}/walks
// @Summary Walk plan of a day
// @Tags care
// @Produce json
// @Param puppyId path string true "Puppy UUID" format(uuid)
// @Param date query string false "Day in the puppy's timezone (YYYY-MM-DD), default today" example(2024-01-16)
// @Success 200 {object} service.WalksView "Next and remaining walks"
// @Failure 400 {object} problem.Problem "Invalid parameters"
// @Failure 404 {object} problem.Problem "Puppy not found"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /puppies/{puppyId}/walks [get]
func (h *CareHandler) Walks(w http.ResponseWriter, r *http.Request) {
	puppyID, ok := puppyIDParam(w, r)
	if !ok {
		return
	}

	view, err := h.service.Walks(r.Context(), puppyID, r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, err, "Puppy not found", "Failed to plan walks")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Stats handles GET /v1/puppies/{puppyId}/stats
// @Summary Potty gap, streak and trigger statistics
// @Tags care
// @Produce json
// @Param puppyId path string true "Puppy UUID" format(uuid)
// @Param window_days query integer false "Number of days to analyze" default(14) minimum(1) maximum(90)
// @Success 200 {object} service.StatsView "Statistics"
// @Failure 400 {object} problem.Problem "Invalid parameters"
// @Failure 404 {object} problem.Problem "Puppy not found"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /puppies/{puppyId}/stats [get]
func (h *CareHandler) Stats(w http.ResponseWriter, r *http.Request) {
	puppyID, ok := puppyIDParam(w, r)
	if !ok {
		return
	}

	windowDays := parseIntParam(r, "window_days", service.DefaultStatsWindowDays)
	if windowDays < 1 || windowDays > service.MaxStatsWindowDays {
		problem.BadRequest("window_days must be between 1 and " + strconv.Itoa(service.MaxStatsWindowDays)).Write(w)
		return
	}

	view, err := h.service.Stats(r.Context(), puppyID, windowDays)
	if err != nil {
		writeError(w, err, "Puppy not found", "Failed to compute statistics")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultValue int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return -1
	}
	return parsed
}
