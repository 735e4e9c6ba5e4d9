package calc

import (
	"math"
	"time"

	"github.com/blaisecz/puppy-tracker/internal/domain"
	"github.com/google/uuid"
)

const (
	// NapThresholdMinutes is the shortest sleep that counts as a real nap.
	NapThresholdMinutes = 15

	// FallbackNapMinutes is used until enough naps are recorded.
	FallbackNapMinutes = 60
	minNapSamples      = 3
	napSampleWindow    = 10
	// maxNapMinutes excludes overnight sleep from the nap average.
	maxNapMinutes     = 240
	napClampLowerMins = 15
	napClampUpperMins = 120
)

// SleepStateKind tags the SleepState variant.
type SleepStateKind string

const (
	SleepStateUnknown  SleepStateKind = "unknown"
	SleepStateSleeping SleepStateKind = "sleeping"
	SleepStateAwake    SleepStateKind = "awake"
)

// SleepState is the current sleeping/awake reading. Since and ElapsedMinutes
// are zero for SleepStateUnknown.
type SleepState struct {
	Kind           SleepStateKind `json:"kind"`
	Since          time.Time      `json:"since,omitempty"`
	ElapsedMinutes int            `json:"elapsed_minutes"`
}

func (s SleepState) IsSleeping() bool { return s.Kind == SleepStateSleeping }
func (s SleepState) IsAwake() bool    { return s.Kind == SleepStateAwake }

// SleepSession is one paired sleep/wake interval.
type SleepSession struct {
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	Ongoing      bool      `json:"ongoing"`
	StartEventID uuid.UUID `json:"start_event_id"`
	EndEventID   uuid.UUID `json:"end_event_id,omitempty"`
}

// Minutes returns the session length, never negative.
func (s SleepSession) Minutes() int {
	m := minutesBetween(s.Start, s.End)
	if m < 0 {
		return 0
	}
	return m
}

// CurrentSleepState inspects the latest sleep or wake event.
func CurrentSleepState(events []domain.Event, now time.Time) SleepState {
	boundaries := domain.SortedByTime(domain.FilterByType(events, domain.EventType.IsSleepBoundary))
	if len(boundaries) == 0 {
		return SleepState{Kind: SleepStateUnknown}
	}

	last := boundaries[len(boundaries)-1]
	elapsed := minutesBetween(last.Time, now)
	if elapsed < 0 {
		elapsed = 0
	}
	if last.Type == domain.EventSleep {
		return SleepState{Kind: SleepStateSleeping, Since: last.Time, ElapsedMinutes: elapsed}
	}
	return SleepState{Kind: SleepStateAwake, Since: last.Time, ElapsedMinutes: elapsed}
}

// SleepSessions pairs each sleep start with the next wake in a single pass.
// A trailing open start becomes an ongoing session ending at now. A wake with
// no pending start is ignored, and a second start replaces the pending one.
func SleepSessions(events []domain.Event, now time.Time) []SleepSession {
	boundaries := domain.SortedByTime(domain.FilterByType(events, domain.EventType.IsSleepBoundary))

	var sessions []SleepSession
	var pending *domain.Event
	for i := range boundaries {
		e := boundaries[i]
		switch e.Type {
		case domain.EventSleep:
			pending = &boundaries[i]
		case domain.EventWake:
			if pending == nil {
				continue
			}
			sessions = append(sessions, SleepSession{
				Start:        pending.Time,
				End:          e.Time,
				StartEventID: pending.ID,
				EndEventID:   e.ID,
			})
			pending = nil
		}
	}
	if pending != nil {
		sessions = append(sessions, SleepSession{
			Start:        pending.Time,
			End:          maxTime(pending.Time, now),
			Ongoing:      true,
			StartEventID: pending.ID,
		})
	}
	return sessions
}

// TotalSleepMinutes sums all sessions in events, counting an open session through now.
func TotalSleepMinutes(events []domain.Event, now time.Time) int {
	total := 0
	for _, s := range SleepSessions(events, now) {
		total += s.Minutes()
	}
	return total
}

// TotalSleepToday sums the sleep that falls on now's calendar day. Sessions
// are paired over all events so a night that started yesterday counts from midnight.
func TotalSleepToday(events []domain.Event, now time.Time) int {
	midnight := startOfDay(now)
	total := 0
	for _, s := range SleepSessions(events, now) {
		if !s.End.After(midnight) {
			continue
		}
		clipped := SleepSession{Start: maxTime(s.Start, midnight), End: s.End}
		total += clipped.Minutes()
	}
	return total
}

// lastCompletedSession returns the most recent closed session.
func lastCompletedSession(events []domain.Event, now time.Time) (SleepSession, bool) {
	sessions := SleepSessions(events, now)
	for i := len(sessions) - 1; i >= 0; i-- {
		if !sessions[i].Ongoing {
			return sessions[i], true
		}
	}
	return SleepSession{}, false
}

// JustWokeFromSignificantNap reports whether the last completed sleep lasted
// at least NapThresholdMinutes and ended within windowMinutes of now.
func JustWokeFromSignificantNap(events []domain.Event, windowMinutes int, now time.Time) bool {
	_, ok := significantWake(events, windowMinutes, now)
	return ok
}

// significantWake is JustWokeFromSignificantNap returning the wake session.
func significantWake(events []domain.Event, windowMinutes int, now time.Time) (SleepSession, bool) {
	session, ok := lastCompletedSession(events, now)
	if !ok || session.Minutes() < NapThresholdMinutes {
		return SleepSession{}, false
	}
	since := minutesBetween(session.End, now)
	if since < 0 || since > windowMinutes {
		return SleepSession{}, false
	}
	return session, true
}

// AverageNapDuration returns the mean of the most recent completed naps,
// rounded to the nearest 5 minutes and clamped to [15,120]. ok is false when
// fewer than three naps are on record.
func AverageNapDuration(events []domain.Event, now time.Time) (minutes int, ok bool) {
	var naps []int
	for _, s := range SleepSessions(events, now) {
		if s.Ongoing {
			continue
		}
		m := s.Minutes()
		if m <= 0 || m > maxNapMinutes {
			continue
		}
		naps = append(naps, m)
	}
	if len(naps) < minNapSamples {
		return 0, false
	}
	if len(naps) > napSampleWindow {
		naps = naps[len(naps)-napSampleWindow:]
	}

	sum := 0
	for _, m := range naps {
		sum += m
	}
	avg := float64(sum) / float64(len(naps))
	rounded := int(math.Round(avg/5) * 5)
	if rounded < napClampLowerMins {
		rounded = napClampLowerMins
	}
	if rounded > napClampUpperMins {
		rounded = napClampUpperMins
	}
	return rounded, true
}

// DefaultNapDuration is AverageNapDuration with FallbackNapMinutes when history is thin.
func DefaultNapDuration(events []domain.Event, now time.Time) int {
	if m, ok := AverageNapDuration(events, now); ok {
		return m
	}
	return FallbackNapMinutes
}

// AverageSleepMinutes is the integer mean length of completed sessions, 0 if none.
func AverageSleepMinutes(events []domain.Event, now time.Time) int {
	count, total := 0, 0
	for _, s := range SleepSessions(events, now) {
		if s.Ongoing {
			continue
		}
		count++
		total += s.Minutes()
	}
	if count == 0 {
		return 0
	}
	return total / count
}
