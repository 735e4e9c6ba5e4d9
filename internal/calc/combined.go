package calc

import (
	"time"

	"github.com/blaisecz/puppy-tracker/internal/domain"
)

const (
	// WakePromptValidity is how long a captured wake-time potty state stays actionable.
	WakePromptValidity = 10 * time.Minute

	morningWindowStartHour   = 5
	morningWindowEndHour     = 11
	minAwakeForAssumedSleep  = 6 * 60
	sleepLookbackHour        = 21
	bedtimeSearchStartHour   = 20
	lateActivityHour         = 23
	defaultAssumedBedtimeHr  = 23
	bedtimeAfterActivityMins = 20
)

// CombinedKind tags the combined sleep/potty display state.
type CombinedKind string

const (
	CombinedUnknown               CombinedKind = "unknown"
	CombinedAwake                 CombinedKind = "awake"
	CombinedSleepingPottyOkay     CombinedKind = "sleeping_potty_okay"
	CombinedSleepingPottyUrgent   CombinedKind = "sleeping_potty_urgent"
	CombinedJustWokeNeedsPotty    CombinedKind = "just_woke_needs_potty"
	CombinedAssumedOvernightSleep CombinedKind = "assumed_overnight_sleep"
)

// WakeTimePottyState is the potty reading captured at the instant of waking.
type WakeTimePottyState struct {
	WokeAt  time.Time `json:"woke_at"`
	Urgency Urgency   `json:"urgency"`
}

// CaptureWakeTimePottyState returns a state for wokeAt when the prediction
// at that instant was urgent, or nil otherwise.
func CaptureWakeTimePottyState(wokeAt time.Time, prediction PottyPrediction) *WakeTimePottyState {
	if !prediction.Urgency.IsUrgent() {
		return nil
	}
	return &WakeTimePottyState{WokeAt: wokeAt, Urgency: prediction.Urgency}
}

// WasOverdue reports whether potty was overdue when the state was captured.
func (w WakeTimePottyState) WasOverdue() bool {
	return w.Urgency.Level == UrgencyOverdue
}

// ExpiresAt is the end of the validity window.
func (w WakeTimePottyState) ExpiresAt() time.Time {
	return w.WokeAt.Add(WakePromptValidity)
}

// IsExpired reports whether now is past the validity window.
func (w WakeTimePottyState) IsExpired(now time.Time) bool {
	return !now.Before(w.ExpiresAt())
}

// IsValid reports whether the state is unexpired and no potty has been logged since waking.
func (w WakeTimePottyState) IsValid(events []domain.Event, now time.Time) bool {
	if w.IsExpired(now) {
		return false
	}
	for _, e := range events {
		if e.Type.IsElimination() && !e.Time.Before(w.WokeAt) {
			return false
		}
	}
	return true
}

// AssumedOvernightSleep replaces a misleading "awake all night" reading.
type AssumedOvernightSleep struct {
	SuggestedBedtime time.Time  `json:"suggested_bedtime"`
	MinutesSleeping  int        `json:"minutes_sleeping"`
	LastEventTime    *time.Time `json:"last_event_time,omitempty"`
}

// CombinedState is the single prioritized display state. Exactly the fields
// belonging to Kind are populated.
type CombinedState struct {
	Kind CombinedKind `json:"kind"`

	// awake, sleeping_*
	Since          time.Time `json:"since,omitempty"`
	ElapsedMinutes int       `json:"elapsed_minutes,omitempty"`

	// sleeping_potty_urgent
	Urgency        *Urgency `json:"urgency,omitempty"`
	OverdueMinutes int      `json:"overdue_minutes,omitempty"`

	// just_woke_needs_potty
	WakeState *WakeTimePottyState `json:"wake_state,omitempty"`

	// assumed_overnight_sleep
	Assumed *AssumedOvernightSleep `json:"assumed,omitempty"`
}

// CardVisibility says which status cards a presentation layer shows. At most one flag is set.
type CardVisibility struct {
	CombinedUrgentCard bool `json:"combined_urgent_card"`
	PostWakePrompt     bool `json:"post_wake_prompt"`
	AssumedSleepCard   bool `json:"assumed_sleep_card"`
	SeparateCards      bool `json:"separate_cards"`
}

// Visibility maps the state to its card flags.
func (c CombinedState) Visibility() CardVisibility {
	switch c.Kind {
	case CombinedSleepingPottyUrgent:
		return CardVisibility{CombinedUrgentCard: true}
	case CombinedJustWokeNeedsPotty:
		return CardVisibility{PostWakePrompt: true}
	case CombinedAssumedOvernightSleep:
		return CardVisibility{AssumedSleepCard: true}
	default:
		return CardVisibility{SeparateCards: true}
	}
}

// CalculateCombinedState resolves the display state. The order of the
// branches is the priority: post-wake prompt, sleeping, awake, unknown.
func CalculateCombinedState(
	sleep SleepState,
	potty PottyPrediction,
	wakeState *WakeTimePottyState,
	recentEvents []domain.Event,
	dismissedAssumedSleep *time.Time,
	now time.Time,
) CombinedState {
	switch {
	case wakeState != nil && wakeState.WasOverdue() && !wakeState.IsExpired(now) && sleep.IsAwake():
		ws := *wakeState
		return CombinedState{Kind: CombinedJustWokeNeedsPotty, Since: ws.WokeAt, WakeState: &ws}

	case sleep.IsSleeping():
		if potty.Urgency.IsUrgent() {
			u := potty.Urgency
			return CombinedState{
				Kind:           CombinedSleepingPottyUrgent,
				Since:          sleep.Since,
				ElapsedMinutes: sleep.ElapsedMinutes,
				Urgency:        &u,
				OverdueMinutes: u.MinutesOverdue(),
			}
		}
		return CombinedState{Kind: CombinedSleepingPottyOkay, Since: sleep.Since, ElapsedMinutes: sleep.ElapsedMinutes}

	case sleep.IsAwake():
		if assumed := CheckForAssumedOvernightSleep(sleep, recentEvents, dismissedAssumedSleep, now); assumed != nil {
			return CombinedState{Kind: CombinedAssumedOvernightSleep, Assumed: assumed}
		}
		return CombinedState{Kind: CombinedAwake, Since: sleep.Since, ElapsedMinutes: sleep.ElapsedMinutes}

	default:
		if assumed := CheckForAssumedOvernightSleepFromEvents(recentEvents, dismissedAssumedSleep, now); assumed != nil {
			return CombinedState{Kind: CombinedAssumedOvernightSleep, Assumed: assumed}
		}
		return CombinedState{Kind: CombinedUnknown}
	}
}

// CheckForAssumedOvernightSleep fires when the puppy reads as awake for six
// hours or more during the morning window and no sleep was logged overnight.
func CheckForAssumedOvernightSleep(sleep SleepState, events []domain.Event, dismissed *time.Time, now time.Time) *AssumedOvernightSleep {
	if !sleep.IsAwake() || sleep.ElapsedMinutes < minAwakeForAssumedSleep {
		return nil
	}
	return assumedOvernightSleep(events, dismissed, now)
}

// CheckForAssumedOvernightSleepFromEvents is the variant used when no sleep
// state is known, so there is no awake duration to check.
func CheckForAssumedOvernightSleepFromEvents(events []domain.Event, dismissed *time.Time, now time.Time) *AssumedOvernightSleep {
	return assumedOvernightSleep(events, dismissed, now)
}

func assumedOvernightSleep(events []domain.Event, dismissed *time.Time, now time.Time) *AssumedOvernightSleep {
	if h := now.Hour(); h < morningWindowStartHour || h >= morningWindowEndHour {
		return nil
	}
	if dismissed != nil && sameDay(*dismissed, now) {
		return nil
	}

	yesterday := startOfDay(now).AddDate(0, 0, -1)
	lookback := atHour(yesterday, sleepLookbackHour, 0)
	for _, e := range events {
		if e.Type == domain.EventSleep && !e.Time.Before(lookback) && !e.Time.After(now) {
			return nil
		}
	}

	bedtime := suggestedBedtime(events, yesterday)
	result := &AssumedOvernightSleep{
		SuggestedBedtime: bedtime,
		MinutesSleeping:  minutesBetween(bedtime, now),
	}
	if last := latestEventBefore(events, now); last != nil {
		t := last.Time
		result.LastEventTime = &t
	}
	return result
}

// suggestedBedtime guesses bedtime from the latest evening activity on yesterday.
func suggestedBedtime(events []domain.Event, yesterday time.Time) time.Time {
	from := atHour(yesterday, bedtimeSearchStartHour, 0)
	to := startOfDay(yesterday).AddDate(0, 0, 1)

	var latest *domain.Event
	for i := range events {
		e := events[i]
		if !e.Type.IsActivity() || e.Time.Before(from) || !e.Time.Before(to) {
			continue
		}
		if latest == nil || e.Time.After(latest.Time) {
			latest = &events[i]
		}
	}

	if latest == nil {
		return atHour(yesterday, defaultAssumedBedtimeHr, 0)
	}
	if latest.Time.In(yesterday.Location()).Hour() >= lateActivityHour {
		return atHour(yesterday, 23, 59)
	}
	return latest.Time.Add(bedtimeAfterActivityMins * time.Minute)
}

func latestEventBefore(events []domain.Event, now time.Time) *domain.Event {
	var latest *domain.Event
	for i := range events {
		if !events[i].Time.Before(now) {
			continue
		}
		if latest == nil || events[i].Time.After(latest.Time) {
			latest = &events[i]
		}
	}
	return latest
}
