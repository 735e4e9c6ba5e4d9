package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/blaisecz/puppy-tracker/internal/domain"
	"github.com/blaisecz/puppy-tracker/pkg/problem"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// writeError maps service errors onto problem responses. notFound is the
// detail used for domain.ErrNotFound; fallback for anything unrecognised.
func writeError(w http.ResponseWriter, err error, notFound, fallback string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		problem.NotFound(notFound).Write(w)
	case errors.Is(err, domain.ErrInvalidInput):
		problem.BadRequest(detailOf(err)).Write(w)
	case errors.Is(err, domain.ErrActiveCoverageGap):
		problem.Conflict("A coverage gap is already open").Write(w)
	case errors.Is(err, domain.ErrNoActiveCoverageGap):
		problem.Conflict("There is no open coverage gap").Write(w)
	case errors.Is(err, domain.ErrDuplicateRequest):
		problem.Conflict("Duplicate client_request_id").Write(w)
	default:
		problem.InternalError(fallback).Write(w)
	}
}

// detailOf strips the sentinel prefix from a wrapped ErrInvalidInput.
func detailOf(err error) string {
	msg := err.Error()
	if rest, ok := strings.CutPrefix(msg, domain.ErrInvalidInput.Error()+": "); ok {
		return rest
	}
	return msg
}

func puppyIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "puppyId"))
	if err != nil {
		problem.BadRequest("Invalid puppy ID format").Write(w)
		return uuid.Nil, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
