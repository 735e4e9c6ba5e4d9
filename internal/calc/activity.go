package calc

import (
	"sort"
	"time"

	"github.com/blaisecz/puppy-tracker/internal/domain"
	"github.com/google/uuid"
)

const (
	DefaultDayStartHour = 6
	DefaultDayEndHour   = 22

	defaultWalkMinutes = 30
)

// BlockType tags an ActivityBlock.
type BlockType string

const (
	BlockSleep BlockType = "sleep"
	BlockWalk  BlockType = "walk"
	BlockPotty BlockType = "potty"
	BlockMeal  BlockType = "meal"
	BlockAwake BlockType = "awake"
)

// ActivityBlock is one segment of a day timeline. Point events have Start == End.
type ActivityBlock struct {
	ID       string      `json:"id"`
	Type     BlockType   `json:"type"`
	Outdoor  bool        `json:"outdoor,omitempty"`
	Start    time.Time   `json:"start"`
	End      time.Time   `json:"end"`
	EventIDs []uuid.UUID `json:"event_ids"`
	Ongoing  bool        `json:"is_ongoing"`
}

// Minutes returns the block length.
func (b ActivityBlock) Minutes() int {
	return minutesBetween(b.Start, b.End)
}

// ActivitySummary aggregates a day's blocks.
type ActivitySummary struct {
	TotalSleepMinutes int `json:"total_sleep_minutes"`
	WalkCount         int `json:"walk_count"`
	WalkMinutes       int `json:"walk_minutes"`
	OutdoorPottyCount int `json:"outdoor_potty_count"`
	IndoorPottyCount  int `json:"indoor_potty_count"`
	MealCount         int `json:"meal_count"`
}

// TimelineBounds is the hour range a timeline should render.
type TimelineBounds struct {
	StartHour int `json:"start_hour"`
	EndHour   int `json:"end_hour"`
}

// dayBounds returns the default 06:00-22:00 window of date, extended to now on today.
func dayBounds(date, now time.Time) (time.Time, time.Time) {
	start := atHour(date, DefaultDayStartHour, 0)
	end := atHour(date, DefaultDayEndHour, 0)
	if sameDay(now, date) && now.After(end) {
		end = now
	}
	return start, end
}

// GenerateBlocks builds the timeline for date. previousDayEvents supplies the
// sleep start of a session that crosses midnight.
func GenerateBlocks(events []domain.Event, date time.Time, previousDayEvents []domain.Event, now time.Time) []ActivityBlock {
	date = date.In(now.Location())
	dayStart, dayEnd := dayBounds(date, now)
	isToday := sameDay(now, date)

	var blocks []ActivityBlock

	all := make([]domain.Event, 0, len(previousDayEvents)+len(events))
	all = append(all, previousDayEvents...)
	all = append(all, events...)
	sessionEnd := dayEnd
	if isToday {
		sessionEnd = now
	}
	for _, s := range SleepSessions(all, sessionEnd) {
		if !s.Start.Before(dayEnd) || !s.End.After(dayStart) {
			continue
		}
		ids := []uuid.UUID{s.StartEventID}
		if s.EndEventID != uuid.Nil {
			ids = append(ids, s.EndEventID)
		}
		blocks = append(blocks, ActivityBlock{
			ID:       "sleep-" + s.StartEventID.String(),
			Type:     BlockSleep,
			Start:    maxTime(s.Start, dayStart),
			End:      minTime(s.End, dayEnd),
			EventIDs: ids,
			Ongoing:  s.Ongoing,
		})
	}

	for _, e := range domain.SortedByTime(events) {
		if !sameDay(e.Time, date) {
			continue
		}
		switch {
		case e.Type == domain.EventWalk:
			minutes := defaultWalkMinutes
			if e.DurationMinutes != nil && *e.DurationMinutes > 0 {
				minutes = *e.DurationMinutes
			}
			end := e.Time.Add(time.Duration(minutes) * time.Minute)
			blocks = append(blocks, ActivityBlock{
				ID:       "walk-" + e.ID.String(),
				Type:     BlockWalk,
				Outdoor:  true,
				Start:    e.Time,
				End:      end,
				EventIDs: []uuid.UUID{e.ID},
				Ongoing:  isToday && !e.Time.After(now) && end.After(now),
			})
		case e.Type.IsElimination():
			blocks = append(blocks, pointBlock("potty-", BlockPotty, e, e.IsOutdoor()))
		case e.Type == domain.EventMeal || e.Type == domain.EventDrink:
			blocks = append(blocks, pointBlock("meal-", BlockMeal, e, false))
		}
	}

	sort.SliceStable(blocks, func(i, j int) bool {
		return blocks[i].Start.Before(blocks[j].Start)
	})
	return blocks
}

func pointBlock(prefix string, t BlockType, e domain.Event, outdoor bool) ActivityBlock {
	return ActivityBlock{
		ID:       prefix + e.ID.String(),
		Type:     t,
		Outdoor:  outdoor,
		Start:    e.Time,
		End:      e.Time,
		EventIDs: []uuid.UUID{e.ID},
	}
}

// GenerateSummary totals a day's blocks.
func GenerateSummary(blocks []ActivityBlock) ActivitySummary {
	var s ActivitySummary
	for _, b := range blocks {
		switch b.Type {
		case BlockSleep:
			if m := b.Minutes(); m > 0 {
				s.TotalSleepMinutes += m
			}
		case BlockWalk:
			s.WalkCount++
			s.WalkMinutes += b.Minutes()
		case BlockPotty:
			if b.Outdoor {
				s.OutdoorPottyCount++
			} else {
				s.IndoorPottyCount++
			}
		case BlockMeal:
			s.MealCount++
		}
	}
	return s
}

// CalculateTimelineBounds widens the default window by an hour around any
// block that starts before 06:00 or ends after 22:00, capped to [0,23].
func CalculateTimelineBounds(blocks []ActivityBlock) TimelineBounds {
	bounds := TimelineBounds{StartHour: DefaultDayStartHour, EndHour: DefaultDayEndHour}
	for _, b := range blocks {
		if h := b.Start.Hour(); h < DefaultDayStartHour && h-1 < bounds.StartHour {
			bounds.StartHour = h - 1
		}
		if b.End.After(atHour(b.Start, DefaultDayEndHour, 0)) {
			endHour := 23
			if sameDay(b.End, b.Start) {
				endHour = b.End.Hour() + 1
			}
			if endHour > bounds.EndHour {
				bounds.EndHour = endHour
			}
		}
	}
	if bounds.StartHour < 0 {
		bounds.StartHour = 0
	}
	if bounds.EndHour > 23 {
		bounds.EndHour = 23
	}
	return bounds
}
