package calc

import (
	"sort"
	"time"

	"github.com/blaisecz/puppy-tracker/internal/domain"
)

const (
	overnightGapMinutes = 480
	daytimeStartHour    = 7
	daytimeEndHour      = 23
)

// PottyGap is the interval between two consecutive eliminations.
type PottyGap struct {
	From    time.Time `json:"from"`
	To      time.Time `json:"to"`
	Minutes int       `json:"minutes"`
	// Outdoor is the location of the later event; unknown counts as indoor.
	Outdoor bool `json:"outdoor"`
}

// GapStats summarises a set of gaps.
type GapStats struct {
	Count          int `json:"count"`
	MinMinutes     int `json:"min_minutes"`
	MaxMinutes     int `json:"max_minutes"`
	AverageMinutes int `json:"average_minutes"`
	MedianMinutes  int `json:"median_minutes"`
	OutdoorCount   int `json:"outdoor_count"`
	IndoorCount    int `json:"indoor_count"`
}

// CalculateGaps pairs consecutive eliminations. With filterOvernight, pairs
// longer than eight hours or touching the night (outside 07:00-23:00) are
// dropped. Pairs that overlap a coverage gap are always dropped.
func CalculateGaps(events []domain.Event, filterOvernight bool, coverageGaps []domain.Event) []PottyGap {
	eliminations := domain.Eliminations(events)
	var gaps []PottyGap
	for i := 1; i < len(eliminations); i++ {
		prev, cur := eliminations[i-1], eliminations[i]
		minutes := minutesBetween(prev.Time, cur.Time)
		if filterOvernight && (minutes > overnightGapMinutes || !isDaytime(prev.Time) || !isDaytime(cur.Time)) {
			continue
		}
		if IntervalSpansGap(prev.Time, cur.Time, coverageGaps) {
			continue
		}
		gaps = append(gaps, PottyGap{
			From:    prev.Time,
			To:      cur.Time,
			Minutes: minutes,
			Outdoor: cur.IsOutdoor(),
		})
	}
	return gaps
}

func isDaytime(t time.Time) bool {
	h := t.Hour()
	return h >= daytimeStartHour && h < daytimeEndHour
}

// CalculateGapStats returns nil for an empty set.
func CalculateGapStats(gaps []PottyGap) *GapStats {
	if len(gaps) == 0 {
		return nil
	}

	minutes := make([]int, len(gaps))
	stats := &GapStats{Count: len(gaps)}
	sum := 0
	for i, g := range gaps {
		minutes[i] = g.Minutes
		sum += g.Minutes
		if g.Outdoor {
			stats.OutdoorCount++
		} else {
			stats.IndoorCount++
		}
	}

	sort.Ints(minutes)
	stats.MinMinutes = minutes[0]
	stats.MaxMinutes = minutes[len(minutes)-1]
	stats.AverageMinutes = sum / len(minutes)
	stats.MedianMinutes = median(minutes)
	return stats
}

// median expects sorted input; even counts average the two middle values.
func median(sorted []int) int {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}
