package handler

import (
	"encoding/json"
	"net/http"

	"github.com/blaisecz/puppy-tracker/internal/api/validation"
	"github.com/blaisecz/puppy-tracker/internal/domain"
	"github.com/blaisecz/puppy-tracker/internal/service"
	"github.com/blaisecz/puppy-tracker/pkg/problem"
)

type PuppyHandler struct {
	service service.PuppyService
}

func NewPuppyHandler(service service.PuppyService) *PuppyHandler {
	return &PuppyHandler{service: service}
}

// Create handles POST /v1/puppies
// @Summary Create a puppy profile
// @Description Create a profile with its timezone, arrival date, prediction settings and walk schedule.
// @Tags puppies
// @Accept json
// @Produce json
// @Param request body domain.CreatePuppyRequest true "Puppy profile"
// @Success 201 {object} domain.PuppyResponse "Profile created"
// @Failure 400 {object} problem.Problem "Invalid request body"
// @Failure 422 {object} problem.Problem "Validation failed"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /puppies [post]
func (h *PuppyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreatePuppyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.BadRequest("Invalid JSON body").Write(w)
		return
	}

	if fieldErrors := validation.Validate(&req); fieldErrors != nil {
		problem.ValidationError("Request body contains invalid fields", fieldErrors).Write(w)
		return
	}

	puppy, err := h.service.Create(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Puppy not found", "Failed to create puppy")
		return
	}

	writeJSON(w, http.StatusCreated, puppy)
}

// GetByID handles GET /v1/puppies/{puppyId}
// @Summary Get a puppy profile
// @Tags puppies
// @Produce json
// @Param puppyId path string true "Puppy UUID" format(uuid)
// @Success 200 {object} domain.PuppyResponse "Profile"
// @Failure 400 {object} problem.Problem "Invalid puppy ID"
// @Failure 404 {object} problem.Problem "Puppy not found"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /puppies/{puppyId} [get]
func (h *PuppyHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := puppyIDParam(w, r)
	if !ok {
		return
	}

	puppy, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err, "Puppy not found", "Failed to get puppy")
		return
	}

	writeJSON(w, http.StatusOK, puppy)
}

// UpdateWalkSchedule handles PUT /v1/puppies/{puppyId}/walk-schedule
// @Summary Replace the walk schedule
// @Tags puppies
// @Accept json
// @Produce json
// @Param puppyId path string true "Puppy UUID" format(uuid)
// @Param request body domain.WalkSchedule true "Walk schedule"
// @Success 200 {object} domain.PuppyResponse "Updated profile"
// @Failure 400 {object} problem.Problem "Invalid request"
// @Failure 404 {object} problem.Problem "Puppy not found"
// @Failure 422 {object} problem.Problem "Validation failed"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /puppies/{puppyId}/walk-schedule [put]
func (h *PuppyHandler) UpdateWalkSchedule(w http.ResponseWriter, r *http.Request) {
	id, ok := puppyIDParam(w, r)
	if !ok {
		return
	}

	var schedule domain.WalkSchedule
	if err := json.NewDecoder(r.Body).Decode(&schedule); err != nil {
		problem.BadRequest("Invalid JSON body").Write(w)
		return
	}
	if fieldErrors := validation.Validate(&schedule); fieldErrors != nil {
		problem.ValidationError("Walk schedule contains invalid fields", fieldErrors).Write(w)
		return
	}

	puppy, err := h.service.UpdateWalkSchedule(r.Context(), id, schedule)
	if err != nil {
		writeError(w, err, "Puppy not found", "Failed to update walk schedule")
		return
	}

	writeJSON(w, http.StatusOK, puppy)
}

// DismissAssumedSleep handles POST /v1/puppies/{puppyId}/assumed-sleep/dismiss
// @Summary Dismiss the assumed overnight sleep prompt for today
// @Tags puppies
// @Produce json
// @Param puppyId path string true "Puppy UUID" format(uuid)
// @Success 200 {object} domain.PuppyResponse "Updated profile"
// @Failure 400 {object} problem.Problem "Invalid puppy ID"
// @Failure 404 {object} problem.Problem "Puppy not found"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /puppies/{puppyId}/assumed-sleep/dismiss [post]
func (h *PuppyHandler) DismissAssumedSleep(w http.ResponseWriter, r *http.Request) {
	id, ok := puppyIDParam(w, r)
	if !ok {
		return
	}

	puppy, err := h.service.DismissAssumedSleep(r.Context(), id)
	if err != nil {
		writeError(w, err, "Puppy not found", "Failed to dismiss prompt")
		return
	}

	writeJSON(w, http.StatusOK, puppy)
}
