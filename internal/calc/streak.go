package calc

import (
	"github.com/blaisecz/puppy-tracker/internal/domain"
)

// StreakInfo pairs the current and best outdoor streaks.
type StreakInfo struct {
	Current int `json:"current"`
	Best    int `json:"best"`
}

// streakEvents returns eliminations outside coverage gaps, oldest first.
// Events without a location neither extend nor break a streak.
func streakEvents(events, coverageGaps []domain.Event) []domain.Event {
	return FilterEventsOutsideGaps(domain.Eliminations(events), coverageGaps)
}

// CalculateCurrentStreak counts outdoor eliminations back from the most recent one until an indoor one.
func CalculateCurrentStreak(events, coverageGaps []domain.Event) int {
	eliminations := streakEvents(events, coverageGaps)
	streak := 0
	for i := len(eliminations) - 1; i >= 0; i-- {
		e := eliminations[i]
		if e.IsIndoor() {
			break
		}
		if e.IsOutdoor() {
			streak++
		}
	}
	return streak
}

// CalculateBestStreak is the longest run of outdoor eliminations.
func CalculateBestStreak(events, coverageGaps []domain.Event) int {
	best, run := 0, 0
	for _, e := range streakEvents(events, coverageGaps) {
		switch {
		case e.IsIndoor():
			run = 0
		case e.IsOutdoor():
			run++
			if run > best {
				best = run
			}
		}
	}
	return best
}

// CalculateStreaks returns both streaks.
func CalculateStreaks(events, coverageGaps []domain.Event) StreakInfo {
	return StreakInfo{
		Current: CalculateCurrentStreak(events, coverageGaps),
		Best:    CalculateBestStreak(events, coverageGaps),
	}
}
