package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// EventType is the categorical tag of a care event.
// @Description Kind of care event.
type EventType string

const (
	EventPee         EventType = "pee"
	EventPoop        EventType = "poop"
	EventSleep       EventType = "sleep"
	EventWake        EventType = "wake"
	EventMeal        EventType = "meal"
	EventDrink       EventType = "drink"
	EventWalk        EventType = "walk"
	EventGarden      EventType = "garden"
	EventTraining    EventType = "training"
	EventSocial      EventType = "social"
	EventWeight      EventType = "weight"
	EventMedication  EventType = "medication"
	EventMilestone   EventType = "milestone"
	EventCoverageGap EventType = "coverage_gap"
)

// AllEventTypes lists every known event type in display order.
var AllEventTypes = []EventType{
	EventPee, EventPoop, EventSleep, EventWake, EventMeal, EventDrink, EventWalk, EventGarden,
	EventTraining, EventSocial, EventWeight, EventMedication, EventMilestone, EventCoverageGap,
}

// IsElimination reports whether the event type is a potty event.
func (t EventType) IsElimination() bool {
	return t == EventPee || t == EventPoop
}

// IsSleepBoundary reports whether the event type opens or closes a sleep session.
func (t EventType) IsSleepBoundary() bool {
	return t == EventSleep || t == EventWake
}

// IsActivity reports whether the event counts as evidence of being awake late in the evening.
func (t EventType) IsActivity() bool {
	switch t {
	case EventPee, EventPoop, EventMeal, EventWalk, EventGarden:
		return true
	}
	return false
}

// Location is where an event happened.
// @Description Event location.
type Location string

const (
	LocationOutdoor Location = "outdoor"
	LocationIndoor  Location = "indoor"
)

// Event is one immutable, timestamped care record.
type Event struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PuppyID         uuid.UUID  `gorm:"type:uuid;not null;index:idx_events_puppy_time;uniqueIndex:idx_puppy_client_request,priority:1,where:client_request_id IS NOT NULL" json:"puppy_id"`
	Time            time.Time  `gorm:"not null;index:idx_events_puppy_time,sort:desc" json:"time"`
	Type            EventType  `gorm:"type:varchar(20);not null" json:"type"`
	Location        *Location  `gorm:"type:varchar(10)" json:"location,omitempty"`
	DurationMinutes *int       `json:"duration_minutes,omitempty"`
	WeightKg        *float64   `json:"weight_kg,omitempty"`
	ParentWalkID    *uuid.UUID `gorm:"type:uuid" json:"parent_walk_id,omitempty"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	Note            string     `gorm:"type:text" json:"note,omitempty"`
	ClientRequestID *string    `gorm:"type:varchar(255);uniqueIndex:idx_puppy_client_request,priority:2" json:"client_request_id,omitempty"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`

	Puppy Puppy `gorm:"foreignKey:PuppyID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Event) TableName() string {
	return "events"
}

// IsOutdoor reports whether the event has a known outdoor location.
func (e Event) IsOutdoor() bool {
	return e.Location != nil && *e.Location == LocationOutdoor
}

// IsIndoor reports whether the event has a known indoor location.
func (e Event) IsIndoor() bool {
	return e.Location != nil && *e.Location == LocationIndoor
}

// HasLocation reports whether the location was recorded.
func (e Event) HasLocation() bool {
	return e.Location != nil
}

// SortedByTime returns a chronologically sorted copy of events. The input is left untouched.
func SortedByTime(events []Event) []Event {
	sorted := make([]Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time.Before(sorted[j].Time)
	})
	return sorted
}

// FilterByType returns the events whose type satisfies keep, preserving order.
func FilterByType(events []Event, keep func(EventType) bool) []Event {
	var out []Event
	for _, e := range events {
		if keep(e.Type) {
			out = append(out, e)
		}
	}
	return out
}

// Eliminations returns the pee and poop events, sorted chronologically.
func Eliminations(events []Event) []Event {
	return SortedByTime(FilterByType(events, EventType.IsElimination))
}

// InLocation returns copies of events with Time and EndTime expressed in loc,
// so wall-clock hours and calendar days read as the puppy sees them.
func InLocation(events []Event, loc *time.Location) []Event {
	if events == nil {
		return nil
	}
	out := make([]Event, len(events))
	for i, e := range events {
		e.Time = e.Time.In(loc)
		if e.EndTime != nil {
			end := e.EndTime.In(loc)
			e.EndTime = &end
		}
		out[i] = e
	}
	return out
}

// LocationPtr is a small helper for building events in code.
func LocationPtr(l Location) *Location {
	return &l
}

// CreateEventRequest is the request body for logging an event.
// @Description Request payload for logging a care event.
type CreateEventRequest struct {
	// Event time in RFC3339 format
	Time time.Time `json:"time" validate:"required" example:"2024-01-16T08:00:00Z"`
	// Event type
	Type EventType `json:"type" validate:"required,event_type" example:"pee"`
	// Optional location (required for potty events)
	Location *Location `json:"location,omitempty" validate:"omitempty,oneof=outdoor indoor" example:"outdoor"`
	// Optional duration in minutes (walks, sleep, training)
	DurationMinutes *int `json:"duration_minutes,omitempty" validate:"omitempty,min=0,max=1440" example:"30"`
	// Optional weight in kilograms
	WeightKg *float64 `json:"weight_kg,omitempty" validate:"omitempty,gt=0,lt=150" example:"4.2"`
	// Optional parent walk for potty events logged during a walk
	ParentWalkID *uuid.UUID `json:"parent_walk_id,omitempty"`
	// Optional end time for coverage gaps
	EndTime *time.Time `json:"end_time,omitempty" validate:"omitempty,gtfield=Time"`
	// Free-form note
	Note string `json:"note,omitempty" validate:"max=2000"`
	// Optional client-generated ID for idempotent requests
	ClientRequestID *string `json:"client_request_id,omitempty" validate:"omitempty,max=255" example:"client-uuid-12345"`
}

// EventFilter contains filter parameters for listing events.
type EventFilter struct {
	From   *time.Time
	To     *time.Time
	Types  []EventType
	Limit  int
	Cursor string
}

// EventListResponse is the response body for listing events.
// @Description Paginated list of care events.
type EventListResponse struct {
	Data       []Event            `json:"data"`
	Pagination PaginationResponse `json:"pagination"`
}

// PaginationResponse contains pagination metadata.
// @Description Cursor-based pagination info.
type PaginationResponse struct {
	// Cursor for fetching the next page (empty if no more pages)
	NextCursor string `json:"next_cursor,omitempty"`
	// True if more results are available
	HasMore bool `json:"has_more" example:"true"`
}

// EndCoverageGapRequest closes the currently open coverage gap.
type EndCoverageGapRequest struct {
	EndTime time.Time `json:"end_time" validate:"required" example:"2024-01-16T17:00:00Z"`
}
