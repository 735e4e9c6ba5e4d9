package service

import (
	"context"
	"sort"
	"time"

	"github.com/blaisecz/puppy-tracker/internal/domain"
	"github.com/blaisecz/puppy-tracker/pkg/pagination"
	"github.com/google/uuid"
)

// MockEventRepository is an in-memory EventRepository.
type MockEventRepository struct {
	events map[uuid.UUID]*domain.Event
	err    error
	// onCreate runs before an insert, letting a test land a concurrent write.
	onCreate func()
}

func NewMockEventRepository() *MockEventRepository {
	return &MockEventRepository{events: make(map[uuid.UUID]*domain.Event)}
}

func (m *MockEventRepository) add(events ...domain.Event) {
	for i := range events {
		e := events[i]
		if e.ID == uuid.Nil {
			e.ID = uuid.New()
		}
		m.events[e.ID] = &e
	}
}

func (m *MockEventRepository) Create(ctx context.Context, event *domain.Event) error {
	if m.err != nil {
		return m.err
	}
	if m.onCreate != nil {
		m.onCreate()
	}
	if event.ClientRequestID != nil {
		if existing, _ := m.GetByClientRequestID(ctx, event.PuppyID, *event.ClientRequestID); existing != nil {
			return domain.ErrDuplicateRequest
		}
	}
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	event.CreatedAt = time.Now()
	stored := *event
	m.events[event.ID] = &stored
	return nil
}

func (m *MockEventRepository) CreateOpenCoverageGap(ctx context.Context, gap *domain.Event) error {
	active, err := m.ActiveCoverageGap(ctx, gap.PuppyID)
	if err != nil {
		return err
	}
	if active != nil {
		return domain.ErrActiveCoverageGap
	}
	return m.Create(ctx, gap)
}

func (m *MockEventRepository) GetByID(ctx context.Context, puppyID, id uuid.UUID) (*domain.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	e, ok := m.events[id]
	if !ok || e.PuppyID != puppyID {
		return nil, domain.ErrNotFound
	}
	out := *e
	return &out, nil
}

func (m *MockEventRepository) GetByClientRequestID(ctx context.Context, puppyID uuid.UUID, clientRequestID string) (*domain.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, e := range m.events {
		if e.PuppyID == puppyID && e.ClientRequestID != nil && *e.ClientRequestID == clientRequestID {
			out := *e
			return &out, nil
		}
	}
	return nil, nil
}

func (m *MockEventRepository) sorted(puppyID uuid.UUID, keep func(domain.Event) bool) []domain.Event {
	var out []domain.Event
	for _, e := range m.events {
		if e.PuppyID == puppyID && keep(*e) {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out
}

func (m *MockEventRepository) ListRange(ctx context.Context, puppyID uuid.UUID, from, to time.Time) ([]domain.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.sorted(puppyID, func(e domain.Event) bool {
		return !e.Time.Before(from) && e.Time.Before(to)
	}), nil
}

func (m *MockEventRepository) ListCoverageGaps(ctx context.Context, puppyID uuid.UUID, from, to time.Time) ([]domain.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.sorted(puppyID, func(e domain.Event) bool {
		return e.Type == domain.EventCoverageGap && !e.Time.After(to) && (e.EndTime == nil || !e.EndTime.Before(from))
	}), nil
}

func (m *MockEventRepository) List(ctx context.Context, puppyID uuid.UUID, filter domain.EventFilter) ([]domain.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	cursor, _ := pagination.DecodeCursor(filter.Cursor)
	events := m.sorted(puppyID, func(e domain.Event) bool {
		if filter.From != nil && e.Time.Before(*filter.From) {
			return false
		}
		if filter.To != nil && e.Time.After(*filter.To) {
			return false
		}
		if len(filter.Types) > 0 {
			match := false
			for _, t := range filter.Types {
				match = match || t == e.Type
			}
			if !match {
				return false
			}
		}
		if cursor != nil && !e.Time.Before(cursor.Time) {
			return false
		}
		return true
	})
	// Newest first.
	for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
		events[i], events[j] = events[j], events[i]
	}
	limit := pagination.NormalizeLimit(filter.Limit)
	if len(events) > limit+1 {
		events = events[:limit+1]
	}
	return events, nil
}

func (m *MockEventRepository) ActiveCoverageGap(ctx context.Context, puppyID uuid.UUID) (*domain.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, e := range m.events {
		if e.PuppyID == puppyID && e.Type == domain.EventCoverageGap && e.EndTime == nil {
			out := *e
			return &out, nil
		}
	}
	return nil, nil
}

func (m *MockEventRepository) Update(ctx context.Context, event *domain.Event) error {
	if m.err != nil {
		return m.err
	}
	stored := *event
	m.events[event.ID] = &stored
	return nil
}

func (m *MockEventRepository) Delete(ctx context.Context, puppyID, id uuid.UUID) error {
	if m.err != nil {
		return m.err
	}
	e, ok := m.events[id]
	if !ok || e.PuppyID != puppyID {
		return domain.ErrNotFound
	}
	delete(m.events, id)
	return nil
}

// MockPuppyRepository is an in-memory PuppyRepository.
type MockPuppyRepository struct {
	puppies map[uuid.UUID]*domain.Puppy
	err     error
}

func NewMockPuppyRepository() *MockPuppyRepository {
	return &MockPuppyRepository{puppies: make(map[uuid.UUID]*domain.Puppy)}
}

func (m *MockPuppyRepository) Create(ctx context.Context, puppy *domain.Puppy) error {
	if m.err != nil {
		return m.err
	}
	if puppy.ID == uuid.Nil {
		puppy.ID = uuid.New()
	}
	stored := *puppy
	m.puppies[puppy.ID] = &stored
	return nil
}

func (m *MockPuppyRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Puppy, error) {
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.puppies[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *p
	return &out, nil
}

func (m *MockPuppyRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.puppies[id]
	return ok, nil
}

func (m *MockPuppyRepository) Update(ctx context.Context, puppy *domain.Puppy) error {
	if m.err != nil {
		return m.err
	}
	stored := *puppy
	m.puppies[puppy.ID] = &stored
	return nil
}

// MockDigestLLM returns a canned digest or error and records its input.
type MockDigestLLM struct {
	output *domain.DigestOutput
	err    error
	got    *domain.DigestContext
}

func (m *MockDigestLLM) GenerateDigest(ctx context.Context, digestCtx *domain.DigestContext) (*domain.DigestOutput, error) {
	m.got = digestCtx
	if m.err != nil {
		return nil, m.err
	}
	return m.output, nil
}

// fixedClock pins the service clock.
func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

// newTestPuppy stores a UTC puppy that came home two days before now.
func newTestPuppy(repo *MockPuppyRepository, now time.Time) *domain.Puppy {
	p := &domain.Puppy{
		ID:         uuid.New(),
		Name:       "Biscuit",
		Timezone:   "UTC",
		HomeDate:   now.AddDate(0, 0, -2),
		Prediction: domain.DefaultPredictionConfig(),
		Walks:      domain.DefaultWalkSchedule(),
	}
	repo.puppies[p.ID] = p
	return p
}

func event(puppyID uuid.UUID, t domain.EventType, when time.Time) domain.Event {
	return domain.Event{ID: uuid.New(), PuppyID: puppyID, Type: t, Time: when}
}

func pottyEvent(puppyID uuid.UUID, t domain.EventType, when time.Time, loc domain.Location) domain.Event {
	e := event(puppyID, t, when)
	e.Location = domain.LocationPtr(loc)
	return e
}
