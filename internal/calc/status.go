package calc

import (
	"time"

	"github.com/blaisecz/puppy-tracker/internal/domain"
)

// LiveStatus bundles everything the "right now" view needs.
type LiveStatus struct {
	Sleep      SleepState          `json:"sleep"`
	Potty      PottyPrediction     `json:"potty"`
	WakeState  *WakeTimePottyState `json:"wake_state,omitempty"`
	Combined   CombinedState       `json:"combined"`
	Visibility CardVisibility      `json:"visibility"`
}

// DeriveWakeTimePottyState re-creates the state a caller would have captured
// at the latest wake: the prediction as of the wake instant, kept only while
// it is still valid at now.
func DeriveWakeTimePottyState(events []domain.Event, cfg domain.PredictionConfig, now time.Time) *WakeTimePottyState {
	sorted := domain.SortedByTime(events)
	var wake *domain.Event
	for i := len(sorted) - 1; i >= 0; i-- {
		if sorted[i].Type == domain.EventWake && !sorted[i].Time.After(now) {
			wake = &sorted[i]
			break
		}
	}
	if wake == nil {
		return nil
	}

	var before []domain.Event
	for _, e := range sorted {
		if e.Time.Before(wake.Time) {
			before = append(before, e)
		}
	}
	state := CaptureWakeTimePottyState(wake.Time, CalculatePrediction(before, cfg, wake.Time))
	if state == nil || !state.IsValid(events, now) {
		return nil
	}
	return state
}

// EvaluateStatus runs the sleep resolver, potty engine and combined resolver over one snapshot.
func EvaluateStatus(events []domain.Event, cfg domain.PredictionConfig, dismissedAssumedSleep *time.Time, now time.Time) LiveStatus {
	sleep := CurrentSleepState(events, now)
	potty := CalculatePrediction(events, cfg, now)
	wake := DeriveWakeTimePottyState(events, cfg, now)
	combined := CalculateCombinedState(sleep, potty, wake, events, dismissedAssumedSleep, now)

	return LiveStatus{
		Sleep:      sleep,
		Potty:      potty,
		WakeState:  wake,
		Combined:   combined,
		Visibility: combined.Visibility(),
	}
}
