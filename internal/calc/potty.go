package calc

import (
	"time"

	"github.com/blaisecz/puppy-tracker/internal/domain"
)

// Urgency thresholds in minutes. These are fixed behaviour, not configuration.
const (
	JustWentMinutes      = 15
	AccidentMinutes      = 15
	SoonThresholdMinutes = 10
	AttentionThreshold   = 20

	mealTriggerWindowMinutes  = 30
	sleepTriggerWindowMinutes = 20
)

// UrgencyLevel tags the potty urgency variant.
type UrgencyLevel string

const (
	UrgencyUnknown      UrgencyLevel = "unknown"
	UrgencyJustWent     UrgencyLevel = "just_went"
	UrgencyNormal       UrgencyLevel = "normal"
	UrgencyAttention    UrgencyLevel = "attention"
	UrgencySoon         UrgencyLevel = "soon"
	UrgencyOverdue      UrgencyLevel = "overdue"
	UrgencyPostAccident UrgencyLevel = "post_accident"
)

// Urgency is the classified potty urgency. Minutes carries the remaining
// minutes for normal/attention/soon and the overdue minutes for overdue.
type Urgency struct {
	Level   UrgencyLevel `json:"level"`
	Minutes int          `json:"minutes"`
}

// IsUrgent reports whether the urgency warrants interrupting sleep messaging.
func (u Urgency) IsUrgent() bool {
	switch u.Level {
	case UrgencySoon, UrgencyOverdue, UrgencyPostAccident:
		return true
	}
	return false
}

// MinutesOverdue returns the overdue minutes, or 0 for any other level.
func (u Urgency) MinutesOverdue() int {
	if u.Level == UrgencyOverdue {
		return u.Minutes
	}
	return 0
}

// TriggerKind tags the active trigger variant.
type TriggerKind string

const (
	TriggerNone      TriggerKind = "none"
	TriggerPostMeal  TriggerKind = "post_meal"
	TriggerPostSleep TriggerKind = "post_sleep"
)

// Trigger is a recent event that shortens the expected gap.
type Trigger struct {
	Kind       TriggerKind `json:"kind"`
	MinutesAgo int         `json:"minutes_ago"`
}

// Multiplier returns the gap multiplier the trigger applies under cfg.
func (t Trigger) Multiplier(cfg domain.PredictionConfig) float64 {
	switch t.Kind {
	case TriggerPostMeal:
		return cfg.PostMealMultiplier
	case TriggerPostSleep:
		return cfg.PostSleepMultiplier
	}
	return 1.0
}

// PottyPrediction is the output of CalculatePrediction.
type PottyPrediction struct {
	Urgency            Urgency    `json:"urgency"`
	Trigger            Trigger    `json:"trigger"`
	ExpectedGapMinutes int        `json:"expected_gap_minutes"`
	MinutesSinceLast   int        `json:"minutes_since_last"`
	LastWasIndoor      bool       `json:"last_was_indoor"`
	LastEventTime      *time.Time `json:"last_event_time,omitempty"`
	ExpectedNextTime   *time.Time `json:"expected_next_time,omitempty"`
}

// CalculatePrediction derives potty urgency from elimination history and triggers.
func CalculatePrediction(events []domain.Event, cfg domain.PredictionConfig, now time.Time) PottyPrediction {
	cfg = cfg.WithDefaults()
	noTrigger := Trigger{Kind: TriggerNone}

	eliminations := domain.Eliminations(events)
	var last *domain.Event
	for i := len(eliminations) - 1; i >= 0; i-- {
		if !eliminations[i].Time.After(now) {
			last = &eliminations[i]
			break
		}
	}

	if last == nil {
		return PottyPrediction{
			Urgency:            Urgency{Level: UrgencyUnknown},
			Trigger:            noTrigger,
			ExpectedGapMinutes: cfg.DefaultGapMinutes,
		}
	}

	minutesSince := minutesBetween(last.Time, now)
	lastTime := last.Time

	// A fresh accident reads as "go outside now", not a countdown.
	if last.IsIndoor() && minutesSince < AccidentMinutes {
		next := lastTime.Add(time.Duration(cfg.DefaultGapMinutes) * time.Minute)
		return PottyPrediction{
			Urgency:            Urgency{Level: UrgencyPostAccident},
			Trigger:            noTrigger,
			ExpectedGapMinutes: cfg.DefaultGapMinutes,
			MinutesSinceLast:   minutesSince,
			LastWasIndoor:      true,
			LastEventTime:      &lastTime,
			ExpectedNextTime:   &next,
		}
	}

	trigger := detectTrigger(events, *last, now)
	expectedGap := int(float64(cfg.DefaultGapMinutes) * trigger.Multiplier(cfg))
	next := lastTime.Add(time.Duration(expectedGap) * time.Minute)

	return PottyPrediction{
		Urgency:            classifyUrgency(*last, minutesSince, expectedGap),
		Trigger:            trigger,
		ExpectedGapMinutes: expectedGap,
		MinutesSinceLast:   minutesSince,
		LastWasIndoor:      last.IsIndoor(),
		LastEventTime:      &lastTime,
		ExpectedNextTime:   &next,
	}
}

// detectTrigger looks for a meal, then a significant wake, after the last elimination.
func detectTrigger(events []domain.Event, lastElimination domain.Event, now time.Time) Trigger {
	sorted := domain.SortedByTime(events)
	for i := len(sorted) - 1; i >= 0; i-- {
		e := sorted[i]
		if e.Type != domain.EventMeal || e.Time.After(now) || !e.Time.After(lastElimination.Time) {
			continue
		}
		ago := minutesBetween(e.Time, now)
		if ago <= mealTriggerWindowMinutes {
			return Trigger{Kind: TriggerPostMeal, MinutesAgo: ago}
		}
		break
	}

	if session, ok := significantWake(events, sleepTriggerWindowMinutes, now); ok && session.End.After(lastElimination.Time) {
		return Trigger{Kind: TriggerPostSleep, MinutesAgo: minutesBetween(session.End, now)}
	}
	return Trigger{Kind: TriggerNone}
}

// classifyUrgency applies the fixed thresholds. Overdue is tested before
// soon so soon never carries a non-positive remainder.
func classifyUrgency(last domain.Event, minutesSince, expectedGap int) Urgency {
	if last.IsOutdoor() && minutesSince < JustWentMinutes {
		return Urgency{Level: UrgencyJustWent}
	}

	remaining := expectedGap - minutesSince
	switch {
	case remaining <= 0:
		return Urgency{Level: UrgencyOverdue, Minutes: -remaining}
	case remaining < SoonThresholdMinutes:
		return Urgency{Level: UrgencySoon, Minutes: remaining}
	case remaining < AttentionThreshold:
		return Urgency{Level: UrgencyAttention, Minutes: remaining}
	default:
		return Urgency{Level: UrgencyNormal, Minutes: remaining}
	}
}
