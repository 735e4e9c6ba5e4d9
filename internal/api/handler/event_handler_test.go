package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/blaisecz/puppy-tracker/internal/domain"
	"github.com/blaisecz/puppy-tracker/pkg/pagination"
	"github.com/blaisecz/puppy-tracker/pkg/problem"
	"github.com/google/uuid"
)

func TestEventHandler_Create(t *testing.T) {
	puppyID := uuid.New()

	tests := []struct {
		name           string
		puppyID        string
		body           string
		mockService    *MockEventService
		wantStatusCode int
	}{
		{
			name:           "outdoor pee",
			puppyID:        puppyID.String(),
			body:           `{"time": "2024-01-16T08:00:00Z", "type": "pee", "location": "outdoor"}`,
			mockService:    &MockEventService{},
			wantStatusCode: http.StatusCreated,
		},
		{
			name:           "closed coverage gap",
			puppyID:        puppyID.String(),
			body:           `{"time": "2024-01-16T08:00:00Z", "type": "coverage_gap", "end_time": "2024-01-16T17:00:00Z"}`,
			mockService:    &MockEventService{},
			wantStatusCode: http.StatusCreated,
		},
		{
			name:           "invalid puppy ID",
			puppyID:        "not-a-uuid",
			body:           `{"time": "2024-01-16T08:00:00Z", "type": "pee"}`,
			mockService:    &MockEventService{},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "invalid JSON",
			puppyID:        puppyID.String(),
			body:           `{"time": `,
			mockService:    &MockEventService{},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "unknown event type",
			puppyID:        puppyID.String(),
			body:           `{"time": "2024-01-16T08:00:00Z", "type": "bark"}`,
			mockService:    &MockEventService{},
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{
			name:           "unknown location",
			puppyID:        puppyID.String(),
			body:           `{"time": "2024-01-16T08:00:00Z", "type": "pee", "location": "balcony"}`,
			mockService:    &MockEventService{},
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{
			name:           "end before start",
			puppyID:        puppyID.String(),
			body:           `{"time": "2024-01-16T08:00:00Z", "type": "coverage_gap", "end_time": "2024-01-16T07:00:00Z"}`,
			mockService:    &MockEventService{},
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{
			name:    "puppy not found",
			puppyID: uuid.New().String(),
			body:    `{"time": "2024-01-16T08:00:00Z", "type": "meal"}`,
			mockService: &MockEventService{
				createFunc: func(ctx context.Context, pid uuid.UUID, req *domain.CreateEventRequest) (*domain.Event, bool, error) {
					return nil, false, domain.ErrNotFound
				},
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			name:    "second open coverage gap",
			puppyID: puppyID.String(),
			body:    `{"time": "2024-01-16T08:00:00Z", "type": "coverage_gap"}`,
			mockService: &MockEventService{
				createFunc: func(ctx context.Context, pid uuid.UUID, req *domain.CreateEventRequest) (*domain.Event, bool, error) {
					return nil, false, domain.ErrActiveCoverageGap
				},
			},
			wantStatusCode: http.StatusConflict,
		},
		{
			name:    "rejected by service",
			puppyID: puppyID.String(),
			body:    `{"time": "2024-01-16T08:00:00Z", "type": "pee", "end_time": "2024-01-16T09:00:00Z"}`,
			mockService: &MockEventService{
				createFunc: func(ctx context.Context, pid uuid.UUID, req *domain.CreateEventRequest) (*domain.Event, bool, error) {
					return nil, false, domain.ErrInvalidInput
				},
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:    "idempotent request returns 200",
			puppyID: puppyID.String(),
			body:    `{"time": "2024-01-16T08:00:00Z", "type": "pee", "location": "outdoor", "client_request_id": "req-123"}`,
			mockService: &MockEventService{
				createFunc: func(ctx context.Context, pid uuid.UUID, req *domain.CreateEventRequest) (*domain.Event, bool, error) {
					return &domain.Event{
						ID:              uuid.New(),
						PuppyID:         pid,
						Time:            req.Time,
						Type:            req.Type,
						ClientRequestID: req.ClientRequestID,
					}, true, nil
				},
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:    "storage failure",
			puppyID: puppyID.String(),
			body:    `{"time": "2024-01-16T08:00:00Z", "type": "wake"}`,
			mockService: &MockEventService{
				createFunc: func(ctx context.Context, pid uuid.UUID, req *domain.CreateEventRequest) (*domain.Event, bool, error) {
					return nil, false, context.DeadlineExceeded
				},
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewEventHandler(tt.mockService)

			req := httptest.NewRequest(http.MethodPost, "/v1/puppies/"+tt.puppyID+"/events", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			req = withURLParams(req, map[string]string{"puppyId": tt.puppyID})
			rec := httptest.NewRecorder()

			handler.Create(rec, req)

			if rec.Code != tt.wantStatusCode {
				t.Errorf("Create() status = %d, want %d, body: %s", rec.Code, tt.wantStatusCode, rec.Body.String())
			}
		})
	}
}

func TestEventHandler_Create_ProblemBody(t *testing.T) {
	puppyID := uuid.New().String()
	handler := NewEventHandler(&MockEventService{})

	req := httptest.NewRequest(http.MethodPost, "/v1/puppies/"+puppyID+"/events",
		bytes.NewBufferString(`{"time": "2024-01-16T08:00:00Z", "type": "bark"}`))
	req = withURLParams(req, map[string]string{"puppyId": puppyID})
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if ct := rec.Header().Get("Content-Type"); ct != problem.ContentType {
		t.Fatalf("Content-Type = %q, want %q", ct, problem.ContentType)
	}
	var body problem.Problem
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Errors) != 1 || body.Errors[0].Field != "type" {
		t.Errorf("errors = %+v, want one error on type", body.Errors)
	}
}

func TestEventHandler_List(t *testing.T) {
	puppyID := uuid.New()
	validCursor := (&pagination.Cursor{ID: uuid.New(), Time: time.Date(2024, 1, 16, 8, 0, 0, 0, time.UTC)}).Encode()

	tests := []struct {
		name           string
		queryParams    string
		mockService    *MockEventService
		wantStatusCode int
		checkFilter    func(t *testing.T, f domain.EventFilter)
	}{
		{
			name:           "no filters",
			mockService:    &MockEventService{},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "range and types",
			queryParams:    "?from=2024-01-15T00:00:00Z&to=2024-01-16T00:00:00Z&type=pee,poop&limit=10",
			wantStatusCode: http.StatusOK,
			checkFilter: func(t *testing.T, f domain.EventFilter) {
				if f.From == nil || f.To == nil {
					t.Fatalf("range not parsed: %+v", f)
				}
				if len(f.Types) != 2 || f.Types[0] != domain.EventPee || f.Types[1] != domain.EventPoop {
					t.Errorf("Types = %v", f.Types)
				}
				if f.Limit != 10 {
					t.Errorf("Limit = %d, want 10", f.Limit)
				}
			},
		},
		{
			name:           "valid cursor",
			queryParams:    "?cursor=" + validCursor,
			wantStatusCode: http.StatusOK,
			checkFilter: func(t *testing.T, f domain.EventFilter) {
				if f.Cursor != validCursor {
					t.Errorf("Cursor = %q", f.Cursor)
				}
			},
		},
		{
			name:           "invalid from",
			queryParams:    "?from=yesterday",
			mockService:    &MockEventService{},
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{
			name:           "unknown type",
			queryParams:    "?type=pee,bark",
			mockService:    &MockEventService{},
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{
			name:           "limit too large",
			queryParams:    "?limit=500",
			mockService:    &MockEventService{},
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{
			name:           "garbage cursor",
			queryParams:    "?cursor=not-base64!",
			mockService:    &MockEventService{},
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{
			name: "puppy not found",
			mockService: &MockEventService{
				listFunc: func(ctx context.Context, pid uuid.UUID, filter domain.EventFilter) (*domain.EventListResponse, error) {
					return nil, domain.ErrNotFound
				},
			},
			wantStatusCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := tt.mockService
			if mock == nil {
				mock = &MockEventService{}
			}
			var got domain.EventFilter
			if mock.listFunc == nil {
				mock.listFunc = func(ctx context.Context, pid uuid.UUID, filter domain.EventFilter) (*domain.EventListResponse, error) {
					got = filter
					return &domain.EventListResponse{Data: []domain.Event{}}, nil
				}
			}
			handler := NewEventHandler(mock)

			req := httptest.NewRequest(http.MethodGet, "/v1/puppies/"+puppyID.String()+"/events"+tt.queryParams, nil)
			req = withURLParams(req, map[string]string{"puppyId": puppyID.String()})
			rec := httptest.NewRecorder()

			handler.List(rec, req)

			if rec.Code != tt.wantStatusCode {
				t.Fatalf("List() status = %d, want %d, body: %s", rec.Code, tt.wantStatusCode, rec.Body.String())
			}
			if tt.checkFilter != nil {
				tt.checkFilter(t, got)
			}
		})
	}
}

func TestEventHandler_Delete(t *testing.T) {
	puppyID := uuid.New().String()

	tests := []struct {
		name           string
		eventID        string
		err            error
		wantStatusCode int
	}{
		{name: "deleted", eventID: uuid.New().String(), wantStatusCode: http.StatusNoContent},
		{name: "invalid event ID", eventID: "nope", wantStatusCode: http.StatusBadRequest},
		{name: "not found", eventID: uuid.New().String(), err: domain.ErrNotFound, wantStatusCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewEventHandler(&MockEventService{
				deleteFunc: func(ctx context.Context, pid, eid uuid.UUID) error { return tt.err },
			})

			req := httptest.NewRequest(http.MethodDelete, "/v1/puppies/"+puppyID+"/events/"+tt.eventID, nil)
			req = withURLParams(req, map[string]string{"puppyId": puppyID, "eventId": tt.eventID})
			rec := httptest.NewRecorder()

			handler.Delete(rec, req)

			if rec.Code != tt.wantStatusCode {
				t.Errorf("Delete() status = %d, want %d", rec.Code, tt.wantStatusCode)
			}
		})
	}
}

func TestEventHandler_EndCoverageGap(t *testing.T) {
	puppyID := uuid.New().String()

	tests := []struct {
		name           string
		body           string
		err            error
		wantStatusCode int
	}{
		{name: "closed", body: `{"end_time": "2024-01-16T17:00:00Z"}`, wantStatusCode: http.StatusOK},
		{name: "missing end time", body: `{}`, wantStatusCode: http.StatusUnprocessableEntity},
		{name: "nothing open", body: `{"end_time": "2024-01-16T17:00:00Z"}`, err: domain.ErrNoActiveCoverageGap, wantStatusCode: http.StatusConflict},
		{name: "end before start", body: `{"end_time": "2024-01-16T07:00:00Z"}`, err: domain.ErrInvalidInput, wantStatusCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewEventHandler(&MockEventService{
				endGapFunc: func(ctx context.Context, pid uuid.UUID, req *domain.EndCoverageGapRequest) (*domain.Event, error) {
					if tt.err != nil {
						return nil, tt.err
					}
					end := req.EndTime
					return &domain.Event{ID: uuid.New(), PuppyID: pid, Type: domain.EventCoverageGap, EndTime: &end}, nil
				},
			})

			req := httptest.NewRequest(http.MethodPost, "/v1/puppies/"+puppyID+"/coverage-gaps/end", bytes.NewBufferString(tt.body))
			req = withURLParams(req, map[string]string{"puppyId": puppyID})
			rec := httptest.NewRecorder()

			handler.EndCoverageGap(rec, req)

			if rec.Code != tt.wantStatusCode {
				t.Errorf("EndCoverageGap() status = %d, want %d, body: %s", rec.Code, tt.wantStatusCode, rec.Body.String())
			}
		})
	}
}
