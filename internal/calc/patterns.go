package calc

import (
	"time"

	"github.com/blaisecz/puppy-tracker/internal/domain"
)

const (
	defaultPatternWindow = 30 * time.Minute
	walkPatternWindow    = 60 * time.Minute
)

// TriggerCategory groups events that tend to precede a potty.
type TriggerCategory string

const (
	CategoryWake     TriggerCategory = "wake"
	CategoryMeal     TriggerCategory = "meal"
	CategoryWalk     TriggerCategory = "walk"
	CategoryDrink    TriggerCategory = "drink"
	CategoryActivity TriggerCategory = "training_social"
)

// PatternCategories is the analysis order.
var PatternCategories = []TriggerCategory{CategoryWake, CategoryMeal, CategoryWalk, CategoryDrink, CategoryActivity}

func (c TriggerCategory) matches(t domain.EventType) bool {
	switch c {
	case CategoryWake:
		return t == domain.EventWake
	case CategoryMeal:
		return t == domain.EventMeal
	case CategoryWalk:
		return t == domain.EventWalk
	case CategoryDrink:
		return t == domain.EventDrink
	case CategoryActivity:
		return t == domain.EventTraining || t == domain.EventSocial
	}
	return false
}

func (c TriggerCategory) window() time.Duration {
	if c == CategoryWalk {
		return walkPatternWindow
	}
	return defaultPatternWindow
}

// PatternStat is the trigger-to-outcome tally of one category.
type PatternStat struct {
	Category     TriggerCategory `json:"category"`
	TriggerCount int             `json:"trigger_count"`
	OutdoorCount int             `json:"outdoor_count"`
	IndoorCount  int             `json:"indoor_count"`
	// SuccessRate is the outdoor share of matched outcomes in percent, 0 with no outcomes.
	SuccessRate int `json:"success_rate"`
}

// AnalyzePatterns tallies, per trigger category, where the first located
// elimination after each trigger happened. Events inside coverage gaps are ignored.
func AnalyzePatterns(events, coverageGaps []domain.Event) []PatternStat {
	sorted := FilterEventsOutsideGaps(domain.SortedByTime(events), coverageGaps)
	var located []domain.Event
	for _, e := range sorted {
		if e.Type.IsElimination() && e.HasLocation() {
			located = append(located, e)
		}
	}

	stats := make([]PatternStat, 0, len(PatternCategories))
	for _, c := range PatternCategories {
		stat := PatternStat{Category: c}
		for _, trigger := range sorted {
			if !c.matches(trigger.Type) {
				continue
			}
			stat.TriggerCount++
			if outcome := firstAfter(located, trigger.Time, c.window()); outcome != nil {
				if outcome.IsOutdoor() {
					stat.OutdoorCount++
				} else {
					stat.IndoorCount++
				}
			}
		}
		if total := stat.OutdoorCount + stat.IndoorCount; total > 0 {
			stat.SuccessRate = stat.OutdoorCount * 100 / total
		}
		stats = append(stats, stat)
	}
	return stats
}

// firstAfter returns the first event strictly after t and within window of it.
func firstAfter(sorted []domain.Event, t time.Time, window time.Duration) *domain.Event {
	limit := t.Add(window)
	for i := range sorted {
		if !sorted[i].Time.After(t) {
			continue
		}
		if sorted[i].Time.After(limit) {
			return nil
		}
		return &sorted[i]
	}
	return nil
}
