package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/blaisecz/puppy-tracker/internal/domain"
	"github.com/google/uuid"
)

func TestPuppyHandler_Create(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		mockService    *MockPuppyService
		wantStatusCode int
	}{
		{
			name:           "valid puppy",
			body:           `{"name": "Biscuit", "timezone": "Europe/Amsterdam", "home_date": "2024-01-10T00:00:00Z"}`,
			mockService:    &MockPuppyService{},
			wantStatusCode: http.StatusCreated,
		},
		{
			name:           "with walk schedule",
			body:           `{"name": "Biscuit", "timezone": "UTC", "home_date": "2024-01-10T00:00:00Z", "walk_schedule": {"mode": "strict", "day_start_hour": 7, "day_end_hour": 21, "slots": [{"label": "Morning", "target_time": {"hour": 7, "minute": 30}}]}}`,
			mockService:    &MockPuppyService{},
			wantStatusCode: http.StatusCreated,
		},
		{
			name:           "invalid JSON",
			body:           `{"name":`,
			mockService:    &MockPuppyService{},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "missing name",
			body:           `{"timezone": "UTC", "home_date": "2024-01-10T00:00:00Z"}`,
			mockService:    &MockPuppyService{},
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{
			name:           "unknown timezone",
			body:           `{"name": "Biscuit", "timezone": "Mars/Olympus", "home_date": "2024-01-10T00:00:00Z"}`,
			mockService:    &MockPuppyService{},
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{
			name: "schedule rejected by service",
			body: `{"name": "Biscuit", "timezone": "UTC", "home_date": "2024-01-10T00:00:00Z"}`,
			mockService: &MockPuppyService{
				createFunc: func(ctx context.Context, req *domain.CreatePuppyRequest) (*domain.PuppyResponse, error) {
					return nil, domain.ErrInvalidInput
				},
			},
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewPuppyHandler(tt.mockService)

			req := httptest.NewRequest(http.MethodPost, "/v1/puppies", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			handler.Create(rec, req)

			if rec.Code != tt.wantStatusCode {
				t.Errorf("Create() status = %d, want %d, body: %s", rec.Code, tt.wantStatusCode, rec.Body.String())
			}
		})
	}
}

func TestPuppyHandler_GetByID(t *testing.T) {
	puppyID := uuid.New()

	tests := []struct {
		name           string
		puppyID        string
		mockService    *MockPuppyService
		wantStatusCode int
	}{
		{
			name:           "found",
			puppyID:        puppyID.String(),
			mockService:    &MockPuppyService{},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "invalid ID",
			puppyID:        "biscuit",
			mockService:    &MockPuppyService{},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:    "not found",
			puppyID: uuid.New().String(),
			mockService: &MockPuppyService{
				getFunc: func(ctx context.Context, id uuid.UUID) (*domain.PuppyResponse, error) {
					return nil, domain.ErrNotFound
				},
			},
			wantStatusCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewPuppyHandler(tt.mockService)

			req := httptest.NewRequest(http.MethodGet, "/v1/puppies/"+tt.puppyID, nil)
			req = withURLParams(req, map[string]string{"puppyId": tt.puppyID})
			rec := httptest.NewRecorder()

			handler.GetByID(rec, req)

			if rec.Code != tt.wantStatusCode {
				t.Errorf("GetByID() status = %d, want %d", rec.Code, tt.wantStatusCode)
			}
		})
	}
}

func TestPuppyHandler_UpdateWalkSchedule(t *testing.T) {
	puppyID := uuid.New().String()

	tests := []struct {
		name           string
		body           string
		wantStatusCode int
	}{
		{
			name:           "flexible schedule",
			body:           `{"mode": "flexible", "interval_minutes": 150, "walks_per_day": 4, "day_start_hour": 6, "day_end_hour": 22}`,
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "unknown mode",
			body:           `{"mode": "random", "day_start_hour": 6, "day_end_hour": 22}`,
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{
			name:           "interval too short",
			body:           `{"mode": "flexible", "interval_minutes": 5, "day_start_hour": 6, "day_end_hour": 22}`,
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{
			name:           "slot without label",
			body:           `{"mode": "strict", "day_start_hour": 6, "day_end_hour": 22, "slots": [{"target_time": {"hour": 8, "minute": 0}}]}`,
			wantStatusCode: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got domain.WalkSchedule
			handler := NewPuppyHandler(&MockPuppyService{
				updateFunc: func(ctx context.Context, id uuid.UUID, schedule domain.WalkSchedule) (*domain.PuppyResponse, error) {
					got = schedule
					return &domain.PuppyResponse{Puppy: domain.Puppy{ID: id, Walks: schedule}}, nil
				},
			})

			req := httptest.NewRequest(http.MethodPut, "/v1/puppies/"+puppyID+"/walk-schedule", bytes.NewBufferString(tt.body))
			req = withURLParams(req, map[string]string{"puppyId": puppyID})
			rec := httptest.NewRecorder()

			handler.UpdateWalkSchedule(rec, req)

			if rec.Code != tt.wantStatusCode {
				t.Fatalf("UpdateWalkSchedule() status = %d, want %d, body: %s", rec.Code, tt.wantStatusCode, rec.Body.String())
			}
			if rec.Code == http.StatusOK && got.Mode != domain.WalkModeFlexible {
				t.Errorf("schedule mode = %q, want flexible", got.Mode)
			}
		})
	}
}

func TestPuppyHandler_DismissAssumedSleep(t *testing.T) {
	puppyID := uuid.New().String()
	handler := NewPuppyHandler(&MockPuppyService{})

	req := httptest.NewRequest(http.MethodPost, "/v1/puppies/"+puppyID+"/assumed-sleep/dismiss", nil)
	req = withURLParams(req, map[string]string{"puppyId": puppyID})
	rec := httptest.NewRecorder()

	handler.DismissAssumedSleep(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("DismissAssumedSleep() status = %d, want 200", rec.Code)
	}
	var resp domain.PuppyResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.AssumedSleepDismissedAt == nil {
		t.Error("expected assumed_sleep_dismissed_at to be set")
	}
}
