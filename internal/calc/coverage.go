package calc

import (
	"time"

	"github.com/blaisecz/puppy-tracker/internal/domain"
)

// distantFuture stands in for the end of an open coverage gap.
var distantFuture = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)

func gapEnd(gap domain.Event) time.Time {
	if gap.EndTime == nil {
		return distantFuture
	}
	return *gap.EndTime
}

// ExtractCoverageGaps splits coverage-gap markers out of a mixed event list.
func ExtractCoverageGaps(events []domain.Event) (gaps, rest []domain.Event) {
	for _, e := range events {
		if e.Type == domain.EventCoverageGap {
			gaps = append(gaps, e)
		} else {
			rest = append(rest, e)
		}
	}
	return gaps, rest
}

// IsTimeCoveredByGap reports whether t lies inside any gap, open gaps included.
func IsTimeCoveredByGap(t time.Time, gaps []domain.Event) bool {
	for _, g := range gaps {
		if !t.Before(g.Time) && !t.After(gapEnd(g)) {
			return true
		}
	}
	return false
}

// IntervalSpansGap reports whether [start,end] overlaps any gap.
func IntervalSpansGap(start, end time.Time, gaps []domain.Event) bool {
	for _, g := range gaps {
		if start.Before(gapEnd(g)) && end.After(g.Time) {
			return true
		}
	}
	return false
}

// FilterEventsOutsideGaps drops events that fall inside a gap.
func FilterEventsOutsideGaps(events, gaps []domain.Event) []domain.Event {
	if len(gaps) == 0 {
		return events
	}
	out := make([]domain.Event, 0, len(events))
	for _, e := range events {
		if !IsTimeCoveredByGap(e.Time, gaps) {
			out = append(out, e)
		}
	}
	return out
}

// ActiveGap returns the gap without an end time, if any.
func ActiveGap(gaps []domain.Event) *domain.Event {
	for i := range gaps {
		if gaps[i].Type == domain.EventCoverageGap && gaps[i].EndTime == nil {
			g := gaps[i]
			return &g
		}
	}
	return nil
}

// HasActiveGap reports whether a gap is still open.
func HasActiveGap(gaps []domain.Event) bool {
	return ActiveGap(gaps) != nil
}
