package calc

import (
	"time"

	"github.com/blaisecz/puppy-tracker/internal/domain"
	"github.com/google/uuid"
)

// day is the calendar day most tests run on.
var day = time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC)

// at returns hh:mm on the test day; negative dayOffset moves backwards.
func at(dayOffset, hour, minute int) time.Time {
	return day.AddDate(0, 0, dayOffset).Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func ev(t domain.EventType, when time.Time) domain.Event {
	return domain.Event{ID: uuid.New(), Type: t, Time: when}
}

func potty(t domain.EventType, when time.Time, loc domain.Location) domain.Event {
	e := ev(t, when)
	e.Location = domain.LocationPtr(loc)
	return e
}

func pee(when time.Time, loc domain.Location) domain.Event {
	return potty(domain.EventPee, when, loc)
}

func walk(when time.Time, minutes int) domain.Event {
	e := ev(domain.EventWalk, when)
	if minutes > 0 {
		e.DurationMinutes = &minutes
	}
	return e
}

func gap(start time.Time, end *time.Time) domain.Event {
	e := ev(domain.EventCoverageGap, start)
	e.EndTime = end
	return e
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func reversed(events []domain.Event) []domain.Event {
	out := make([]domain.Event, len(events))
	for i, e := range events {
		out[len(events)-1-i] = e
	}
	return out
}

func minutesDur(m int) time.Duration {
	return time.Duration(m) * time.Minute
}
