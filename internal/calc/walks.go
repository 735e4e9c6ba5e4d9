package calc

import (
	"fmt"
	"time"

	"github.com/blaisecz/puppy-tracker/internal/domain"
)

const genericWalkLabel = "Walk"

// WalkSuggestion is the next planned walk.
type WalkSuggestion struct {
	SuggestedTime        time.Time `json:"suggested_time"`
	Label                string    `json:"label"`
	IsOverdue            bool      `json:"is_overdue"`
	MinutesSinceLastWalk *int      `json:"minutes_since_last_walk,omitempty"`
	// MinutesUntilSuggested is negative when the walk is overdue.
	MinutesUntilSuggested int  `json:"minutes_until_suggested"`
	WalksCompletedToday   int  `json:"walks_completed_today"`
	TargetWalksPerDay     int  `json:"target_walks_per_day"`
	SlotIndex             *int `json:"slot_index,omitempty"`
}

// walksOn returns the walk events on date's calendar day, oldest first.
func walksOn(events []domain.Event, date time.Time) []domain.Event {
	var walks []domain.Event
	for _, e := range domain.SortedByTime(events) {
		if e.Type == domain.EventWalk && sameDay(e.Time, date) {
			walks = append(walks, e)
		}
	}
	return walks
}

// CalculateNextSuggestion dispatches on the schedule mode. It returns nil
// when no further walk is planned for date.
func CalculateNextSuggestion(events []domain.Event, schedule domain.WalkSchedule, date, now time.Time) *WalkSuggestion {
	date = date.In(now.Location())
	if schedule.Mode == domain.WalkModeStrict {
		return nextStrict(events, schedule, date, now)
	}
	return nextFlexible(events, schedule, date, now)
}

// CalculateRemainingSuggestions lists every walk still planned for date.
func CalculateRemainingSuggestions(events []domain.Event, schedule domain.WalkSchedule, date, now time.Time) []WalkSuggestion {
	date = date.In(now.Location())
	if schedule.Mode == domain.WalkModeStrict {
		return remainingStrict(events, schedule, date, now)
	}
	return remainingFlexible(events, schedule, date, now)
}

func nextFlexible(events []domain.Event, schedule domain.WalkSchedule, date, now time.Time) *WalkSuggestion {
	walks := walksOn(events, date)
	completed := len(walks)
	target := schedule.TargetWalks()
	dayEnd := atHour(date, schedule.DayEndHour, 0)

	if target > 0 && completed >= target {
		return nil
	}
	if !now.Before(dayEnd) {
		return nil
	}

	var suggested time.Time
	var label string
	var slot *int

	if completed > 0 {
		last := walks[completed-1]
		suggested = last.Time.Add(schedule.Interval(completed))
		label, slot = flexibleLabel(schedule, completed, suggested)
	} else {
		suggested = firstWalkTime(schedule, date, now)
		label, slot = flexibleLabel(schedule, 0, suggested)
	}

	if suggested.After(dayEnd) {
		suggested = dayEnd
	}

	return buildSuggestion(suggested, label, slot, walks, target, now)
}

// firstWalkTime is the first slot time if still ahead, now if it has
// passed, or the day start clamped to now when no slot has a time.
func firstWalkTime(schedule domain.WalkSchedule, date, now time.Time) time.Time {
	if len(schedule.Slots) > 0 && schedule.Slots[0].TargetTime != nil {
		first := schedule.Slots[0].TargetTime.On(date)
		if first.After(now) {
			return first
		}
		return now
	}
	return maxTime(atHour(date, schedule.DayStartHour, 0), now)
}

// flexibleLabel names the suggestion after the next unused slot, else the
// slot whose time is closest to suggested, else a generic label.
func flexibleLabel(schedule domain.WalkSchedule, completed int, suggested time.Time) (string, *int) {
	if completed < len(schedule.Slots) {
		idx := completed
		return schedule.Slots[idx].Label, &idx
	}

	best := -1
	var bestDiff time.Duration
	for i, s := range schedule.Slots {
		if s.TargetTime == nil {
			continue
		}
		diff := s.TargetTime.On(suggested).Sub(suggested)
		if diff < 0 {
			diff = -diff
		}
		if best < 0 || diff < bestDiff {
			best, bestDiff = i, diff
		}
	}
	if best >= 0 {
		return schedule.Slots[best].Label, &best
	}
	return fmt.Sprintf("%s %d", genericWalkLabel, completed+1), nil
}

func remainingFlexible(events []domain.Event, schedule domain.WalkSchedule, date, now time.Time) []WalkSuggestion {
	walks := walksOn(events, date)
	simulated := make([]domain.Event, len(events))
	copy(simulated, events)
	clock := now

	var out []WalkSuggestion
	for i := 0; i < schedule.TargetWalks(); i++ {
		next := nextFlexible(simulated, schedule, date, clock)
		if next == nil {
			break
		}
		out = append(out, rebase(*next, walks, now))

		simulated = append(simulated, domain.Event{Type: domain.EventWalk, Time: next.SuggestedTime})
		clock = next.SuggestedTime.Add(time.Minute)
	}
	return out
}

func nextStrict(events []domain.Event, schedule domain.WalkSchedule, date, now time.Time) *WalkSuggestion {
	walks := walksOn(events, date)
	completed := len(walks)
	if completed >= len(schedule.Slots) {
		return nil
	}
	idx := completed
	return buildSuggestion(strictSlotTime(schedule, idx, date), schedule.Slots[idx].Label, &idx, walks, len(schedule.Slots), now)
}

func remainingStrict(events []domain.Event, schedule domain.WalkSchedule, date, now time.Time) []WalkSuggestion {
	walks := walksOn(events, date)
	var out []WalkSuggestion
	for idx := len(walks); idx < len(schedule.Slots); idx++ {
		i := idx
		s := buildSuggestion(strictSlotTime(schedule, i, date), schedule.Slots[i].Label, &i, walks, len(schedule.Slots), now)
		out = append(out, *s)
	}
	return out
}

// strictSlotTime falls back to the day start for slots without a fixed time.
func strictSlotTime(schedule domain.WalkSchedule, idx int, date time.Time) time.Time {
	if t := schedule.Slots[idx].TargetTime; t != nil {
		return t.On(date)
	}
	return atHour(date, schedule.DayStartHour, 0)
}

func buildSuggestion(suggested time.Time, label string, slot *int, walks []domain.Event, target int, now time.Time) *WalkSuggestion {
	s := &WalkSuggestion{
		SuggestedTime:       suggested,
		Label:               label,
		WalksCompletedToday: len(walks),
		TargetWalksPerDay:   target,
		SlotIndex:           slot,
	}
	rebased := rebase(*s, walks, now)
	return &rebased
}

// rebase recomputes the fields that depend on the real walks and clock.
func rebase(s WalkSuggestion, walks []domain.Event, now time.Time) WalkSuggestion {
	s.WalksCompletedToday = len(walks)
	s.MinutesSinceLastWalk = nil
	if len(walks) > 0 {
		since := minutesBetween(walks[len(walks)-1].Time, now)
		s.MinutesSinceLastWalk = &since
	}
	s.IsOverdue = s.SuggestedTime.Before(now)
	s.MinutesUntilSuggested = minutesBetween(now, s.SuggestedTime)
	return s
}
