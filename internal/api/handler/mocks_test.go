package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/blaisecz/puppy-tracker/internal/domain"
	"github.com/blaisecz/puppy-tracker/internal/langfuse"
	"github.com/blaisecz/puppy-tracker/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// MockPuppyService is a mock implementation of PuppyService
type MockPuppyService struct {
	createFunc  func(ctx context.Context, req *domain.CreatePuppyRequest) (*domain.PuppyResponse, error)
	getFunc     func(ctx context.Context, id uuid.UUID) (*domain.PuppyResponse, error)
	updateFunc  func(ctx context.Context, id uuid.UUID, schedule domain.WalkSchedule) (*domain.PuppyResponse, error)
	dismissFunc func(ctx context.Context, id uuid.UUID) (*domain.PuppyResponse, error)
}

func (m *MockPuppyService) Create(ctx context.Context, req *domain.CreatePuppyRequest) (*domain.PuppyResponse, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, req)
	}
	return &domain.PuppyResponse{Puppy: domain.Puppy{ID: uuid.New(), Name: req.Name, Timezone: req.Timezone}, DaysHome: 1}, nil
}

func (m *MockPuppyService) GetByID(ctx context.Context, id uuid.UUID) (*domain.PuppyResponse, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return &domain.PuppyResponse{Puppy: domain.Puppy{ID: id, Name: "Biscuit"}}, nil
}

func (m *MockPuppyService) UpdateWalkSchedule(ctx context.Context, id uuid.UUID, schedule domain.WalkSchedule) (*domain.PuppyResponse, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, schedule)
	}
	return &domain.PuppyResponse{Puppy: domain.Puppy{ID: id, Walks: schedule}}, nil
}

func (m *MockPuppyService) DismissAssumedSleep(ctx context.Context, id uuid.UUID) (*domain.PuppyResponse, error) {
	if m.dismissFunc != nil {
		return m.dismissFunc(ctx, id)
	}
	now := time.Now()
	return &domain.PuppyResponse{Puppy: domain.Puppy{ID: id, AssumedSleepDismissedAt: &now}}, nil
}

// MockEventService is a mock implementation of EventService
type MockEventService struct {
	createFunc func(ctx context.Context, puppyID uuid.UUID, req *domain.CreateEventRequest) (*domain.Event, bool, error)
	listFunc   func(ctx context.Context, puppyID uuid.UUID, filter domain.EventFilter) (*domain.EventListResponse, error)
	deleteFunc func(ctx context.Context, puppyID, eventID uuid.UUID) error
	endGapFunc func(ctx context.Context, puppyID uuid.UUID, req *domain.EndCoverageGapRequest) (*domain.Event, error)
}

func (m *MockEventService) Create(ctx context.Context, puppyID uuid.UUID, req *domain.CreateEventRequest) (*domain.Event, bool, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, puppyID, req)
	}
	return &domain.Event{ID: uuid.New(), PuppyID: puppyID, Time: req.Time, Type: req.Type, Location: req.Location}, false, nil
}

func (m *MockEventService) List(ctx context.Context, puppyID uuid.UUID, filter domain.EventFilter) (*domain.EventListResponse, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, puppyID, filter)
	}
	return &domain.EventListResponse{Data: []domain.Event{}}, nil
}

func (m *MockEventService) Delete(ctx context.Context, puppyID, eventID uuid.UUID) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, puppyID, eventID)
	}
	return nil
}

func (m *MockEventService) EndCoverageGap(ctx context.Context, puppyID uuid.UUID, req *domain.EndCoverageGapRequest) (*domain.Event, error) {
	if m.endGapFunc != nil {
		return m.endGapFunc(ctx, puppyID, req)
	}
	end := req.EndTime
	return &domain.Event{ID: uuid.New(), PuppyID: puppyID, Type: domain.EventCoverageGap, EndTime: &end}, nil
}

// MockCareService is a mock implementation of CareService
type MockCareService struct {
	statusFunc   func(ctx context.Context, puppyID uuid.UUID) (*service.StatusView, error)
	timelineFunc func(ctx context.Context, puppyID uuid.UUID, date string) (*service.TimelineView, error)
	walksFunc    func(ctx context.Context, puppyID uuid.UUID, date string) (*service.WalksView, error)
	statsFunc    func(ctx context.Context, puppyID uuid.UUID, windowDays int) (*service.StatsView, error)
}

func (m *MockCareService) Status(ctx context.Context, puppyID uuid.UUID) (*service.StatusView, error) {
	if m.statusFunc != nil {
		return m.statusFunc(ctx, puppyID)
	}
	return &service.StatusView{PuppyID: puppyID}, nil
}

func (m *MockCareService) Timeline(ctx context.Context, puppyID uuid.UUID, date string) (*service.TimelineView, error) {
	if m.timelineFunc != nil {
		return m.timelineFunc(ctx, puppyID, date)
	}
	return &service.TimelineView{Date: date}, nil
}

func (m *MockCareService) Walks(ctx context.Context, puppyID uuid.UUID, date string) (*service.WalksView, error) {
	if m.walksFunc != nil {
		return m.walksFunc(ctx, puppyID, date)
	}
	return &service.WalksView{Date: date, Mode: domain.WalkModeFlexible}, nil
}

func (m *MockCareService) Stats(ctx context.Context, puppyID uuid.UUID, windowDays int) (*service.StatsView, error) {
	if m.statsFunc != nil {
		return m.statsFunc(ctx, puppyID, windowDays)
	}
	return &service.StatsView{WindowDays: windowDays}, nil
}

// MockInsightsService is a mock implementation of InsightsService
type MockInsightsService struct {
	generateFunc func(ctx context.Context, puppyID uuid.UUID) (*domain.InsightsResponse, error)
}

func (m *MockInsightsService) Generate(ctx context.Context, puppyID uuid.UUID) (*domain.InsightsResponse, error) {
	if m.generateFunc != nil {
		return m.generateFunc(ctx, puppyID)
	}
	return &domain.InsightsResponse{}, nil
}

// MockLangfuseClient records scores.
type MockLangfuseClient struct {
	scores []langfuse.ScoreInput
	err    error
}

func (m *MockLangfuseClient) IsEnabled() bool { return true }

func (m *MockLangfuseClient) CreateScore(ctx context.Context, in langfuse.ScoreInput) error {
	m.scores = append(m.scores, in)
	return m.err
}

// withURLParams attaches chi URL params to a request.
func withURLParams(req *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}
