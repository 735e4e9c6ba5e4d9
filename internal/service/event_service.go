package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/blaisecz/puppy-tracker/internal/domain"
	"github.com/blaisecz/puppy-tracker/internal/repository"
	"github.com/blaisecz/puppy-tracker/pkg/pagination"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EventService interface {
	// Create logs an event. The bool is true when an earlier event with the
	// same client_request_id was returned instead.
	Create(ctx context.Context, puppyID uuid.UUID, req *domain.CreateEventRequest) (*domain.Event, bool, error)
	List(ctx context.Context, puppyID uuid.UUID, filter domain.EventFilter) (*domain.EventListResponse, error)
	Delete(ctx context.Context, puppyID, eventID uuid.UUID) error
	// EndCoverageGap closes the puppy's open coverage gap.
	EndCoverageGap(ctx context.Context, puppyID uuid.UUID, req *domain.EndCoverageGapRequest) (*domain.Event, error)
}

type eventService struct {
	repo      repository.EventRepository
	puppyRepo repository.PuppyRepository
	logger    *zap.Logger
}

func NewEventService(repo repository.EventRepository, puppyRepo repository.PuppyRepository, logger *zap.Logger) EventService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &eventService{
		repo:      repo,
		puppyRepo: puppyRepo,
		logger:    logger,
	}
}

func (s *eventService) Create(ctx context.Context, puppyID uuid.UUID, req *domain.CreateEventRequest) (*domain.Event, bool, error) {
	if err := s.ensurePuppy(ctx, puppyID); err != nil {
		return nil, false, err
	}

	if req.ClientRequestID != nil && *req.ClientRequestID != "" {
		existing, err := s.repo.GetByClientRequestID(ctx, puppyID, *req.ClientRequestID)
		if err != nil {
			return nil, false, err
		}
		if existing != nil {
			return existing, true, nil
		}
	}

	if req.EndTime != nil && req.Type != domain.EventCoverageGap {
		return nil, false, fmt.Errorf("%w: end_time is only valid for coverage gaps", domain.ErrInvalidInput)
	}
	if req.ParentWalkID != nil {
		parent, err := s.repo.GetByID(ctx, puppyID, *req.ParentWalkID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, false, fmt.Errorf("%w: parent walk does not exist", domain.ErrInvalidInput)
			}
			return nil, false, err
		}
		if parent.Type != domain.EventWalk {
			return nil, false, fmt.Errorf("%w: parent event is not a walk", domain.ErrInvalidInput)
		}
	}

	event := &domain.Event{
		PuppyID:         puppyID,
		Time:            req.Time.UTC(),
		Type:            req.Type,
		Location:        req.Location,
		DurationMinutes: req.DurationMinutes,
		WeightKg:        req.WeightKg,
		ParentWalkID:    req.ParentWalkID,
		Note:            req.Note,
		ClientRequestID: req.ClientRequestID,
	}
	if req.EndTime != nil {
		end := req.EndTime.UTC()
		event.EndTime = &end
	}

	var err error
	if event.Type == domain.EventCoverageGap && event.EndTime == nil {
		err = s.repo.CreateOpenCoverageGap(ctx, event)
	} else {
		err = s.repo.Create(ctx, event)
	}
	if err != nil {
		// A concurrent request with the same client_request_id won the insert.
		if errors.Is(err, domain.ErrDuplicateRequest) && req.ClientRequestID != nil {
			existing, lookupErr := s.repo.GetByClientRequestID(ctx, puppyID, *req.ClientRequestID)
			if lookupErr == nil && existing != nil {
				return existing, true, nil
			}
		}
		return nil, false, err
	}

	s.logger.Debug("event logged",
		zap.String("puppy_id", puppyID.String()),
		zap.String("event_id", event.ID.String()),
		zap.String("type", string(event.Type)),
	)
	return event, false, nil
}

func (s *eventService) List(ctx context.Context, puppyID uuid.UUID, filter domain.EventFilter) (*domain.EventListResponse, error) {
	if err := s.ensurePuppy(ctx, puppyID); err != nil {
		return nil, err
	}

	events, err := s.repo.List(ctx, puppyID, filter)
	if err != nil {
		return nil, err
	}

	limit := pagination.NormalizeLimit(filter.Limit)
	hasMore := len(events) > limit
	if hasMore {
		events = events[:limit]
	}
	if events == nil {
		events = []domain.Event{}
	}

	response := &domain.EventListResponse{
		Data: events,
		Pagination: domain.PaginationResponse{
			HasMore: hasMore,
		},
	}

	if hasMore && len(events) > 0 {
		last := events[len(events)-1]
		cursor := &pagination.Cursor{ID: last.ID, Time: last.Time}
		response.Pagination.NextCursor = cursor.Encode()
	}

	return response, nil
}

func (s *eventService) Delete(ctx context.Context, puppyID, eventID uuid.UUID) error {
	if err := s.repo.Delete(ctx, puppyID, eventID); err != nil {
		return err
	}
	s.logger.Debug("event deleted",
		zap.String("puppy_id", puppyID.String()),
		zap.String("event_id", eventID.String()),
	)
	return nil
}

func (s *eventService) EndCoverageGap(ctx context.Context, puppyID uuid.UUID, req *domain.EndCoverageGapRequest) (*domain.Event, error) {
	if err := s.ensurePuppy(ctx, puppyID); err != nil {
		return nil, err
	}

	gap, err := s.repo.ActiveCoverageGap(ctx, puppyID)
	if err != nil {
		return nil, err
	}
	if gap == nil {
		return nil, domain.ErrNoActiveCoverageGap
	}

	end := req.EndTime.UTC()
	if end.Before(gap.Time) {
		return nil, fmt.Errorf("%w: end_time is before the gap started", domain.ErrInvalidInput)
	}
	gap.EndTime = &end
	if err := s.repo.Update(ctx, gap); err != nil {
		return nil, err
	}
	return gap, nil
}

func (s *eventService) ensurePuppy(ctx context.Context, puppyID uuid.UUID) error {
	exists, err := s.puppyRepo.Exists(ctx, puppyID)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrNotFound
	}
	return nil
}
