package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Puppy is the profile that owns a stream of events.
type Puppy struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name     string    `gorm:"type:varchar(100);not null" json:"name"`
	Timezone string    `gorm:"type:varchar(64);not null;default:'UTC'" json:"timezone"`
	// HomeDate is the day the puppy arrived; used for day numbering.
	HomeDate   time.Time        `gorm:"type:date;not null" json:"home_date"`
	Prediction PredictionConfig `gorm:"embedded;embeddedPrefix:prediction_" json:"prediction"`
	Walks      WalkSchedule     `gorm:"type:jsonb;serializer:json" json:"walk_schedule"`
	// AssumedSleepDismissedAt is the last time the caregiver dismissed the assumed-sleep prompt.
	AssumedSleepDismissedAt *time.Time `json:"assumed_sleep_dismissed_at,omitempty"`
	CreatedAt               time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (Puppy) TableName() string {
	return "puppies"
}

// Location returns the puppy's home timezone, falling back to UTC.
func (p *Puppy) Location() *time.Location {
	if p.Timezone != "" {
		if l, err := time.LoadLocation(p.Timezone); err == nil {
			return l
		}
	}
	return time.UTC
}

// DaysHome returns the 1-based day number since HomeDate, or 0 before arrival.
func (p *Puppy) DaysHome(now time.Time) int {
	loc := p.Location()
	home := time.Date(p.HomeDate.Year(), p.HomeDate.Month(), p.HomeDate.Day(), 0, 0, 0, 0, loc)
	local := now.In(loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	if today.Before(home) {
		return 0
	}
	// Round to absorb DST transitions.
	return int(today.Sub(home).Hours()/24+0.5) + 1
}

// PredictionConfig tunes the potty prediction engine.
type PredictionConfig struct {
	DefaultGapMinutes   int     `gorm:"not null;default:120" json:"default_gap_minutes" yaml:"default_gap_minutes"`
	PostMealMultiplier  float64 `gorm:"not null;default:0.5" json:"post_meal_multiplier" yaml:"post_meal_multiplier"`
	PostSleepMultiplier float64 `gorm:"not null;default:0.25" json:"post_sleep_multiplier" yaml:"post_sleep_multiplier"`
}

// DefaultPredictionConfig returns the configuration used when a profile has none.
func DefaultPredictionConfig() PredictionConfig {
	return PredictionConfig{
		DefaultGapMinutes:   120,
		PostMealMultiplier:  0.5,
		PostSleepMultiplier: 0.25,
	}
}

// WithDefaults fills zero fields from DefaultPredictionConfig.
func (c PredictionConfig) WithDefaults() PredictionConfig {
	d := DefaultPredictionConfig()
	if c.DefaultGapMinutes <= 0 {
		c.DefaultGapMinutes = d.DefaultGapMinutes
	}
	if c.PostMealMultiplier <= 0 {
		c.PostMealMultiplier = d.PostMealMultiplier
	}
	if c.PostSleepMultiplier <= 0 {
		c.PostSleepMultiplier = d.PostSleepMultiplier
	}
	return c
}

// WalkMode selects the walk scheduling policy.
type WalkMode string

const (
	// WalkModeFlexible schedules the next walk an interval after the last one.
	WalkModeFlexible WalkMode = "flexible"
	// WalkModeStrict uses fixed times of day.
	WalkModeStrict WalkMode = "strict"
)

// TimeOfDay is a wall-clock time without a date.
type TimeOfDay struct {
	Hour   int `json:"hour" yaml:"hour" validate:"min=0,max=23"`
	Minute int `json:"minute" yaml:"minute" validate:"min=0,max=59"`
}

// On returns the instant of t on the calendar day of date, in date's location.
func (t TimeOfDay) On(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour, t.Minute, 0, 0, date.Location())
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// WalkSlot is one planned walk of the day.
type WalkSlot struct {
	Label string `json:"label" yaml:"label" validate:"required,max=50"`
	// IntervalMinutes overrides the schedule interval for this slot in flexible mode.
	IntervalMinutes *int `json:"interval_minutes,omitempty" yaml:"interval_minutes,omitempty" validate:"omitempty,min=15,max=720"`
	// TargetTime is the fixed time used in strict mode.
	TargetTime *TimeOfDay `json:"target_time,omitempty" yaml:"target_time,omitempty"`
}

// WalkSchedule is read-only configuration for the walk scheduler.
type WalkSchedule struct {
	Mode            WalkMode   `json:"mode" yaml:"mode" validate:"required,oneof=flexible strict"`
	IntervalMinutes int        `json:"interval_minutes" yaml:"interval_minutes" validate:"omitempty,min=15,max=720"`
	WalksPerDay     int        `json:"walks_per_day" yaml:"walks_per_day" validate:"omitempty,min=1,max=12"`
	Slots           []WalkSlot `json:"slots" yaml:"slots" validate:"dive"`
	DayStartHour    int        `json:"day_start_hour" yaml:"day_start_hour" validate:"min=0,max=23"`
	DayEndHour      int        `json:"day_end_hour" yaml:"day_end_hour" validate:"min=0,max=24"`
}

// DefaultWalkSchedule is a flexible schedule with three walks between 07:00 and 22:00.
func DefaultWalkSchedule() WalkSchedule {
	return WalkSchedule{
		Mode:            WalkModeFlexible,
		IntervalMinutes: 180,
		WalksPerDay:     3,
		Slots: []WalkSlot{
			{Label: "Morning walk", TargetTime: &TimeOfDay{Hour: 7}},
			{Label: "Afternoon walk", TargetTime: &TimeOfDay{Hour: 13}},
			{Label: "Evening walk", TargetTime: &TimeOfDay{Hour: 19}},
		},
		DayStartHour: 7,
		DayEndHour:   22,
	}
}

// TargetWalks returns the number of walks planned per day.
func (s WalkSchedule) TargetWalks() int {
	if s.WalksPerDay > 0 {
		return s.WalksPerDay
	}
	return len(s.Slots)
}

// Interval returns the flexible interval for the given slot index.
func (s WalkSchedule) Interval(slotIndex int) time.Duration {
	if slotIndex >= 0 && slotIndex < len(s.Slots) && s.Slots[slotIndex].IntervalMinutes != nil {
		return time.Duration(*s.Slots[slotIndex].IntervalMinutes) * time.Minute
	}
	if s.IntervalMinutes > 0 {
		return time.Duration(s.IntervalMinutes) * time.Minute
	}
	return 180 * time.Minute
}

// CreatePuppyRequest is the request body for creating a puppy profile.
type CreatePuppyRequest struct {
	Name       string            `json:"name" validate:"required,max=100" example:"Biscuit"`
	Timezone   string            `json:"timezone" validate:"required,timezone" example:"Europe/Amsterdam"`
	HomeDate   time.Time         `json:"home_date" validate:"required" example:"2024-01-10T00:00:00Z"`
	Prediction *PredictionConfig `json:"prediction,omitempty"`
	Walks      *WalkSchedule     `json:"walk_schedule,omitempty"`
}

// PuppyResponse is the response body for profile endpoints.
type PuppyResponse struct {
	Puppy
	DaysHome int `json:"days_home" example:"7"`
}

func (p *Puppy) ToResponse(now time.Time) PuppyResponse {
	return PuppyResponse{Puppy: *p, DaysHome: p.DaysHome(now)}
}
