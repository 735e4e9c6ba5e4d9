package domain

import "time"

// DigestContext is the aggregated, anonymous-by-construction input of the care digest.
// Only derived numbers go to the model, never notes.
type DigestContext struct {
	PuppyName  string    `json:"puppy_name"`
	DaysHome   int       `json:"days_home"`
	AsOf       time.Time `json:"as_of"`
	WindowDays int       `json:"window_days"`

	CurrentState   string `json:"current_state"`
	PottyUrgency   string `json:"potty_urgency"`
	MinutesSinceGo int    `json:"minutes_since_last_potty"`

	GapCount           int `json:"gap_count"`
	MedianGapMinutes   int `json:"median_gap_minutes"`
	OutdoorRatePercent int `json:"outdoor_rate_percent"`
	CurrentStreak      int `json:"current_streak"`
	BestStreak         int `json:"best_streak"`

	AverageSleepMinutes int `json:"average_sleep_minutes"`
	SleepTodayMinutes   int `json:"sleep_today_minutes"`
	WalksToday          int `json:"walks_today"`
	TargetWalks         int `json:"target_walks"`

	// TriggerSuccess maps trigger category to outdoor success percentage.
	TriggerSuccess map[string]int `json:"trigger_success"`
}

// DigestOutput is the model's structured answer.
// @Description LLM-generated care digest.
type DigestOutput struct {
	Summary      string   `json:"summary" example:"Biscuit is settling into a steady rhythm."`
	Observations []string `json:"observations"`
	Suggestions  []string `json:"suggestions"`
}

// InsightsResponse is the response body of the insights endpoint.
// @Description Care digest with the numbers it was generated from.
type InsightsResponse struct {
	Context DigestContext `json:"context"`
	Digest  DigestOutput  `json:"digest"`
	// TraceID links the response to its trace for feedback.
	TraceID string `json:"trace_id,omitempty"`
}
