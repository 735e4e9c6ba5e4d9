// Package calc derives live care state from a snapshot of events.
//
// Every function here is pure: it sorts its own copy of the input, never
// mutates it, reads no clock and performs no I/O. Callers pass the
// reference instant explicitly as now; local-day arithmetic happens in
// now's location.
package calc

import (
	"time"
)

// startOfDay returns local midnight of t's calendar day.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// atHour returns the instant hour:minute on t's calendar day.
func atHour(t time.Time, hour, minute int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), hour, minute, 0, 0, t.Location())
}

// sameDay reports whether a and b fall on the same calendar day in b's location.
func sameDay(a, b time.Time) bool {
	a = a.In(b.Location())
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// minutesBetween returns whole minutes from a to b, truncated toward zero.
func minutesBetween(a, b time.Time) int {
	return int(b.Sub(a) / time.Minute)
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
