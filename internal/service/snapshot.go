package service

import (
	"context"
	"time"

	"github.com/blaisecz/puppy-tracker/internal/calc"
	"github.com/blaisecz/puppy-tracker/internal/domain"
	"github.com/blaisecz/puppy-tracker/internal/repository"
	"github.com/google/uuid"
)

// Clock returns the current instant. Services take one so tests can pin time.
type Clock func() time.Time

// SystemClock is the wall clock.
func SystemClock() time.Time {
	return time.Now()
}

// snapshot is an immutable view of one puppy's history handed to the engine.
type snapshot struct {
	puppy *domain.Puppy
	// now is expressed in the puppy's timezone so local-day arithmetic works.
	now    time.Time
	events []domain.Event
	gaps   []domain.Event
}

// snapshotLoader reads profiles and events and turns them into snapshots.
type snapshotLoader struct {
	puppyRepo repository.PuppyRepository
	eventRepo repository.EventRepository
	clock     Clock
}

func newSnapshotLoader(puppyRepo repository.PuppyRepository, eventRepo repository.EventRepository, clock Clock) snapshotLoader {
	if clock == nil {
		clock = SystemClock
	}
	return snapshotLoader{puppyRepo: puppyRepo, eventRepo: eventRepo, clock: clock}
}

// localNow loads the profile and returns the current instant in its timezone.
func (l snapshotLoader) localNow(ctx context.Context, puppyID uuid.UUID) (*domain.Puppy, time.Time, error) {
	puppy, err := l.puppyRepo.GetByID(ctx, puppyID)
	if err != nil {
		return nil, time.Time{}, err
	}
	return puppy, l.clock().In(puppy.Location()), nil
}

// load returns the events in [from, to) plus every coverage gap overlapping it.
func (l snapshotLoader) load(ctx context.Context, puppy *domain.Puppy, now, from, to time.Time) (*snapshot, error) {
	events, err := l.eventRepo.ListRange(ctx, puppy.ID, from, to)
	if err != nil {
		return nil, err
	}
	gaps, err := l.eventRepo.ListCoverageGaps(ctx, puppy.ID, from, to)
	if err != nil {
		return nil, err
	}
	_, rest := calc.ExtractCoverageGaps(events)

	loc := puppy.Location()
	return &snapshot{
		puppy:  puppy,
		now:    now,
		events: domain.InLocation(rest, loc),
		gaps:   domain.InLocation(gaps, loc),
	}, nil
}

// loadDays loads the last days calendar days ending today, in the puppy's timezone.
func (l snapshotLoader) loadDays(ctx context.Context, puppyID uuid.UUID, days int) (*snapshot, error) {
	puppy, now, err := l.localNow(ctx, puppyID)
	if err != nil {
		return nil, err
	}
	today := startOfDay(now)
	return l.load(ctx, puppy, now, today.AddDate(0, 0, -(days-1)), today.AddDate(0, 0, 1))
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
