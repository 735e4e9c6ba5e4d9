package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/blaisecz/puppy-tracker/internal/api/validation"
	"github.com/blaisecz/puppy-tracker/internal/domain"
	"github.com/blaisecz/puppy-tracker/internal/service"
	"github.com/blaisecz/puppy-tracker/pkg/pagination"
	"github.com/blaisecz/puppy-tracker/pkg/problem"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type EventHandler struct {
	service service.EventService
}

func NewEventHandler(service service.EventService) *EventHandler {
	return &EventHandler{service: service}
}

// Create handles POST /v1/puppies/{puppyId}/events
// @Summary Log a care event
// @Description Log a potty, sleep, wake, meal, walk or other event. Use client_request_id for safe retries: a duplicate returns the stored event with 200. An open coverage gap (no end_time) is rejected with 409 while another is open.
// @Tags events
// @Accept json
// @Produce json
// @Param puppyId path string true "Puppy UUID" format(uuid)
// @Param request body domain.CreateEventRequest true "Event data"
// @Success 201 {object} domain.Event "Event logged"
// @Success 200 {object} domain.Event "Existing event returned (idempotent duplicate)"
// @Failure 400 {object} problem.Problem "Invalid request body or parameters"
// @Failure 404 {object} problem.Problem "Puppy not found"
// @Failure 409 {object} problem.Problem "A coverage gap is already open"
// @Failure 422 {object} problem.Problem "Validation failed"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /puppies/{puppyId}/events [post]
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	puppyID, ok := puppyIDParam(w, r)
	if !ok {
		return
	}

	var req domain.CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.BadRequest("Invalid JSON body").Write(w)
		return
	}

	if fieldErrors := validation.Validate(&req); fieldErrors != nil {
		problem.ValidationError("Request body contains invalid fields", fieldErrors).Write(w)
		return
	}

	event, isExisting, err := h.service.Create(r.Context(), puppyID, &req)
	if err != nil {
		writeError(w, err, "Puppy not found", "Failed to log event")
		return
	}

	status := http.StatusCreated
	if isExisting {
		status = http.StatusOK
	}
	writeJSON(w, status, event)
}

// List handles GET /v1/puppies/{puppyId}/events
// @Summary List care events
// @Description Fetch paginated event history, newest first.
// @Tags events
// @Produce json
// @Param puppyId path string true "Puppy UUID" format(uuid)
// @Param from query string false "Start of range (RFC3339)" format(date-time)
// @Param to query string false "End of range (RFC3339)" format(date-time)
// @Param type query string false "Comma-separated event types" example(pee,poop)
// @Param limit query integer false "Results per page" default(50) minimum(1) maximum(200)
// @Param cursor query string false "Cursor from previous response's next_cursor"
// @Success 200 {object} domain.EventListResponse "Events with pagination"
// @Failure 400 {object} problem.Problem "Invalid puppy ID"
// @Failure 404 {object} problem.Problem "Puppy not found"
// @Failure 422 {object} problem.Problem "Invalid query parameters"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /puppies/{puppyId}/events [get]
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	puppyID, ok := puppyIDParam(w, r)
	if !ok {
		return
	}

	filter, fieldErrors := parseListFilter(r)
	if fieldErrors != nil {
		problem.ValidationError("Invalid query parameters", fieldErrors).Write(w)
		return
	}

	response, err := h.service.List(r.Context(), puppyID, filter)
	if err != nil {
		writeError(w, err, "Puppy not found", "Failed to list events")
		return
	}

	writeJSON(w, http.StatusOK, response)
}

// Delete handles DELETE /v1/puppies/{puppyId}/events/{eventId}
// @Summary Delete a care event
// @Tags events
// @Param puppyId path string true "Puppy UUID" format(uuid)
// @Param eventId path string true "Event UUID" format(uuid)
// @Success 204 "Event deleted"
// @Failure 400 {object} problem.Problem "Invalid ID"
// @Failure 404 {object} problem.Problem "Event not found"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /puppies/{puppyId}/events/{eventId} [delete]
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	puppyID, ok := puppyIDParam(w, r)
	if !ok {
		return
	}
	eventID, err := uuid.Parse(chi.URLParam(r, "eventId"))
	if err != nil {
		problem.BadRequest("Invalid event ID format").Write(w)
		return
	}

	if err := h.service.Delete(r.Context(), puppyID, eventID); err != nil {
		writeError(w, err, "Event not found", "Failed to delete event")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// EndCoverageGap handles POST /v1/puppies/{puppyId}/coverage-gaps/end
// @Summary Close the open coverage gap
// @Tags events
// @Accept json
// @Produce json
// @Param puppyId path string true "Puppy UUID" format(uuid)
// @Param request body domain.EndCoverageGapRequest true "End time"
// @Success 200 {object} domain.Event "Closed gap"
// @Failure 400 {object} problem.Problem "Invalid request"
// @Failure 404 {object} problem.Problem "Puppy not found"
// @Failure 409 {object} problem.Problem "No open coverage gap"
// @Failure 422 {object} problem.Problem "Validation failed"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /puppies/{puppyId}/coverage-gaps/end [post]
func (h *EventHandler) EndCoverageGap(w http.ResponseWriter, r *http.Request) {
	puppyID, ok := puppyIDParam(w, r)
	if !ok {
		return
	}

	var req domain.EndCoverageGapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.BadRequest("Invalid JSON body").Write(w)
		return
	}
	if fieldErrors := validation.Validate(&req); fieldErrors != nil {
		problem.ValidationError("Request body contains invalid fields", fieldErrors).Write(w)
		return
	}

	gap, err := h.service.EndCoverageGap(r.Context(), puppyID, &req)
	if err != nil {
		writeError(w, err, "Puppy not found", "Failed to end coverage gap")
		return
	}

	writeJSON(w, http.StatusOK, gap)
}

func parseListFilter(r *http.Request) (domain.EventFilter, []problem.FieldError) {
	var filter domain.EventFilter
	var fieldErrors []problem.FieldError
	q := r.URL.Query()

	if fromStr := q.Get("from"); fromStr != "" {
		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			fieldErrors = append(fieldErrors, problem.FieldError{Field: "from", Message: "must be a valid RFC3339 timestamp"})
		} else {
			filter.From = &from
		}
	}

	if toStr := q.Get("to"); toStr != "" {
		to, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			fieldErrors = append(fieldErrors, problem.FieldError{Field: "to", Message: "must be a valid RFC3339 timestamp"})
		} else {
			filter.To = &to
		}
	}

	if typeStr := q.Get("type"); typeStr != "" {
		for _, raw := range strings.Split(typeStr, ",") {
			t := domain.EventType(strings.TrimSpace(raw))
			if !isKnownType(t) {
				fieldErrors = append(fieldErrors, problem.FieldError{Field: "type", Message: "unknown event type " + string(t)})
				continue
			}
			filter.Types = append(filter.Types, t)
		}
	}

	if limitStr := q.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 || limit > pagination.MaxLimit {
			fieldErrors = append(fieldErrors, problem.FieldError{
				Field:   "limit",
				Message: "must be an integer between 1 and " + strconv.Itoa(pagination.MaxLimit),
			})
		} else {
			filter.Limit = limit
		}
	}

	if cursor := q.Get("cursor"); cursor != "" {
		if _, err := pagination.DecodeCursor(cursor); err != nil {
			fieldErrors = append(fieldErrors, problem.FieldError{Field: "cursor", Message: "is not a valid cursor"})
		} else {
			filter.Cursor = cursor
		}
	}

	if len(fieldErrors) > 0 {
		return filter, fieldErrors
	}
	return filter, nil
}

func isKnownType(t domain.EventType) bool {
	for _, known := range domain.AllEventTypes {
		if t == known {
			return true
		}
	}
	return false
}
