package service

import (
	"context"
	"fmt"

	"github.com/blaisecz/puppy-tracker/internal/domain"
	"github.com/blaisecz/puppy-tracker/internal/repository"
	"github.com/google/uuid"
)

type PuppyService interface {
	Create(ctx context.Context, req *domain.CreatePuppyRequest) (*domain.PuppyResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.PuppyResponse, error)
	UpdateWalkSchedule(ctx context.Context, id uuid.UUID, schedule domain.WalkSchedule) (*domain.PuppyResponse, error)
	// DismissAssumedSleep records that the caregiver dismissed today's assumed-sleep prompt.
	DismissAssumedSleep(ctx context.Context, id uuid.UUID) (*domain.PuppyResponse, error)
}

type puppyService struct {
	repo              repository.PuppyRepository
	defaultPrediction domain.PredictionConfig
	clock             Clock
}

// NewPuppyService creates a PuppyService. defaults fills prediction settings a request leaves out.
func NewPuppyService(repo repository.PuppyRepository, defaults domain.PredictionConfig, clock Clock) PuppyService {
	if clock == nil {
		clock = SystemClock
	}
	return &puppyService{
		repo:              repo,
		defaultPrediction: defaults.WithDefaults(),
		clock:             clock,
	}
}

func (s *puppyService) Create(ctx context.Context, req *domain.CreatePuppyRequest) (*domain.PuppyResponse, error) {
	puppy := &domain.Puppy{
		Name:       req.Name,
		Timezone:   req.Timezone,
		HomeDate:   req.HomeDate,
		Prediction: s.defaultPrediction,
		Walks:      domain.DefaultWalkSchedule(),
	}
	if req.Prediction != nil {
		p := *req.Prediction
		if p.DefaultGapMinutes <= 0 {
			p.DefaultGapMinutes = s.defaultPrediction.DefaultGapMinutes
		}
		if p.PostMealMultiplier <= 0 {
			p.PostMealMultiplier = s.defaultPrediction.PostMealMultiplier
		}
		if p.PostSleepMultiplier <= 0 {
			p.PostSleepMultiplier = s.defaultPrediction.PostSleepMultiplier
		}
		puppy.Prediction = p
	}
	if req.Walks != nil {
		if err := ValidateSchedule(*req.Walks); err != nil {
			return nil, err
		}
		puppy.Walks = *req.Walks
	}

	if err := s.repo.Create(ctx, puppy); err != nil {
		return nil, err
	}

	resp := puppy.ToResponse(s.clock())
	return &resp, nil
}

func (s *puppyService) GetByID(ctx context.Context, id uuid.UUID) (*domain.PuppyResponse, error) {
	puppy, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := puppy.ToResponse(s.clock())
	return &resp, nil
}

func (s *puppyService) UpdateWalkSchedule(ctx context.Context, id uuid.UUID, schedule domain.WalkSchedule) (*domain.PuppyResponse, error) {
	if err := ValidateSchedule(schedule); err != nil {
		return nil, err
	}

	puppy, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	puppy.Walks = schedule
	if err := s.repo.Update(ctx, puppy); err != nil {
		return nil, err
	}

	resp := puppy.ToResponse(s.clock())
	return &resp, nil
}

func (s *puppyService) DismissAssumedSleep(ctx context.Context, id uuid.UUID) (*domain.PuppyResponse, error) {
	puppy, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.clock()
	puppy.AssumedSleepDismissedAt = &now
	if err := s.repo.Update(ctx, puppy); err != nil {
		return nil, err
	}

	resp := puppy.ToResponse(now)
	return &resp, nil
}

// ValidateSchedule checks what struct tags cannot express.
func ValidateSchedule(s domain.WalkSchedule) error {
	if s.DayEndHour <= s.DayStartHour {
		return fmt.Errorf("%w: day_end_hour must be after day_start_hour", domain.ErrInvalidInput)
	}
	if s.Mode == domain.WalkModeStrict && len(s.Slots) == 0 {
		return fmt.Errorf("%w: strict schedules need at least one slot", domain.ErrInvalidInput)
	}
	return nil
}
